// Package normalize repairs character-confusion artifacts that OCR engines
// commonly produce on scanned marksheets and certificates.
package normalize

import "strings"

// Rule is a single literal substitution.
type Rule struct {
	Old string
	New string
}

// rules are applied in order. Multi-character patterns come before the
// single "l" -> "I" rule so that rule cannot corrupt their inputs.
var rules = []Rule{
	{Old: "|", New: " "},
	{Old: ";", New: ":"},
	{Old: "W", New: "II"},
	{Old: "mM", New: "III"},
	{Old: "Vv", New: "IV"},
	{Old: "l", New: "I"},
}

// Text applies every substitution rule to raw, in order.
//
// Text is not idempotent: "W" becomes "II" and a later pass would not undo
// that, but "l" inside already repaired text can still change. Callers must
// normalize a document exactly once.
func Text(raw string) string {
	t := raw
	for _, r := range rules {
		t = strings.ReplaceAll(t, r.Old, r.New)
	}
	return t
}

// Rules returns a copy of the ordered substitution list.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}
