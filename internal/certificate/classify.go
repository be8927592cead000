// Package certificate derives scoring signals from certificate text and
// turns them into points.
package certificate

import (
	"regexp"
	"strings"

	"points/internal/keywords"
)

// Type is the kind of recognition a certificate grants.
type Type string

const (
	TypeParticipation Type = "Participation"
	TypeAppreciation  Type = "Appreciation"
	TypeMerit         Type = "Merit"
	TypeOther         Type = "Other"
)

// Category is one of the six fixed activity categories.
type Category string

const (
	CategoryIndustryExperience Category = "Industry Experience"
	CategoryNCC                Category = "National Cadet Corps"
	CategorySports             Category = "Sports"
	CategoryOutreach           Category = "Outreach Activities"
	CategoryAcademic           Category = "Academic Engagement and Research"
	CategoryExtraCurricular    Category = "Extra-Curricular Activities"

	// DefaultCategory applies when no category keyword is found.
	DefaultCategory = CategoryExtraCurricular
)

// Signals are the facts extracted from one certificate.
type Signals struct {
	Type     Type     `json:"cert_type"`
	Rank     string   `json:"rank,omitempty"` // "1", "2", "3" or empty
	IsLead   bool     `json:"is_lead"`
	Category Category `json:"category"`
}

// CategoryKeywords pairs a category with the keywords that select it.
type CategoryKeywords struct {
	Category Category
	Keywords []string
}

// categories is in priority order. Keyword sets overlap in practice
// ("national" events, "project" internships), so the first hit wins.
var categories = []CategoryKeywords{
	{CategoryIndustryExperience, []string{"intern", "internship", "industrial", "industry", "placement", "training"}},
	{CategoryNCC, []string{"ncc", "national cadet", "cadet corps"}},
	{CategorySports, []string{"sport", "tournament", "match", "football", "cricket", "athletics", "badminton"}},
	{CategoryOutreach, []string{"outreach", "community", "volunteer", "social service", "blood donation", "drive"}},
	{CategoryAcademic, []string{"research", "paper", "presentation", "conference", "seminar", "workshop", "project"}},
	{CategoryExtraCurricular, []string{"cultural", "dance", "music", "debate", "drama", "competition", "club", "talent"}},
}

var (
	categoryMatcher = func() *keywords.Matcher {
		groups := make([][]string, len(categories))
		for i, c := range categories {
			groups[i] = c.Keywords
		}
		return keywords.MustNew(groups...)
	}()

	leadershipWords = keywords.MustNew([]string{
		"captain", "president", "organizer", "coordinator", "leadership", "head", "incharge",
	})
	participationWords = keywords.MustNew([]string{
		"participation", "participated", "participating", "completed", "completion", "participate",
	})
	appreciationWords = keywords.MustNew([]string{"appreciation", "appreciated"})
	meritWords        = keywords.MustNew([]string{"merit", "meritorious", "excellence", "outstanding"})
)

var (
	nonWord    = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespace = regexp.MustCompile(`\s+`)

	rankPatterns = []struct {
		rank string
		re   *regexp.Regexp
	}{
		{"1", regexp.MustCompile(`\b(1st|first|winner|gold)\b`)},
		{"2", regexp.MustCompile(`\b(2nd|second|runner|silver)\b`)},
		{"3", regexp.MustCompile(`\b(3rd|third|bronze)\b`)},
	}
	positionPattern = regexp.MustCompile(`(?:position|rank)[:\s]*([0-9]+|first|second|third|1st|2nd|3rd)`)

	ordinals = map[string]string{
		"1": "1", "first": "1", "1st": "1",
		"2": "2", "second": "2", "2nd": "2",
		"3": "3", "third": "3", "3rd": "3",
	}
)

// Categories returns the category table in priority order.
func Categories() []CategoryKeywords {
	out := make([]CategoryKeywords, len(categories))
	for i, c := range categories {
		out[i] = CategoryKeywords{Category: c.Category, Keywords: append([]string(nil), c.Keywords...)}
	}
	return out
}

// Classify extracts type, rank, leadership and category from text.
// Participation certificates never carry a rank.
func Classify(text string) Signals {
	sub := substrate(text)

	category, ok := DetectCategory(text)
	if !ok {
		category = DefaultCategory
	}

	sig := Signals{
		Type:     detectType(sub),
		IsLead:   leadershipWords.Any(sub),
		Category: category,
	}
	if sig.Type != TypeParticipation {
		sig.Rank = detectRank(sub)
	}
	return sig
}

// DetectCategory returns the highest-priority category with a keyword
// anywhere in the lowercased text.
func DetectCategory(text string) (Category, bool) {
	i, ok := categoryMatcher.First(strings.ToLower(text))
	if !ok {
		return "", false
	}
	return categories[i].Category, true
}

// substrate lowercases text, blanks out everything but letters, digits and
// whitespace, and collapses whitespace runs to one space.
func substrate(text string) string {
	t := nonWord.ReplaceAllString(strings.ToLower(text), " ")
	return whitespace.ReplaceAllString(t, " ")
}

func detectType(sub string) Type {
	switch {
	case participationWords.Any(sub):
		return TypeParticipation
	case appreciationWords.Any(sub):
		return TypeAppreciation
	case meritWords.Any(sub):
		return TypeMerit
	default:
		return TypeOther
	}
}

func detectRank(sub string) string {
	for _, p := range rankPatterns {
		if p.re.MatchString(sub) {
			return p.rank
		}
	}
	if m := positionPattern.FindStringSubmatch(sub); m != nil {
		return ordinals[m[1]]
	}
	return ""
}
