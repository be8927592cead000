package marksheet

import "strings"

// Stream is the academic track a marksheet is scored against.
type Stream string

const (
	StreamSciences   Stream = "Sciences"
	StreamHumanities Stream = "Humanities"

	// DefaultStream applies when the caller does not supply one.
	DefaultStream = StreamSciences
)

// ParseStream trims s and falls back to DefaultStream when it is empty.
// Any other value is kept as given; only Humanities changes the curve.
func ParseStream(s string) Stream {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultStream
	}
	return Stream(s)
}

// IsHumanities reports whether s selects the Humanities curve.
func (s Stream) IsHumanities() bool {
	return strings.EqualFold(string(s), string(StreamHumanities))
}

type tier struct {
	min    float64
	points float64
}

// Humanities has no 9+ tier; its 8+ tier already earns full points.
var (
	humanitiesTiers = []tier{{8, 5}, {7, 4}, {6, 3}}
	defaultTiers    = []tier{{9, 5}, {8, 4}, {7, 3}, {6, 2}}
)

// ScoreGrade maps a final grade to points on the stream's curve. A nil grade
// scores 0.
func ScoreGrade(grade *float64, stream Stream) float64 {
	if grade == nil {
		return 0
	}
	tiers := defaultTiers
	if stream.IsHumanities() {
		tiers = humanitiesTiers
	}
	for _, t := range tiers {
		if *grade >= t.min {
			return t.points
		}
	}
	return 0
}
