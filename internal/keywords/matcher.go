// Package keywords provides a multi-pattern substring matcher over ordered
// keyword groups, built on an Aho-Corasick automaton.
package keywords

import (
	"errors"
	"sort"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

// ErrNoKeywords is returned when a matcher is built without any keyword.
var ErrNoKeywords = errors.New("keywords: no keywords to match")

// Matcher finds keywords from a fixed list of groups inside a text. Group
// order is significant: when keywords from several groups occur, the group
// declared first wins regardless of where the keywords sit in the text.
//
// A Matcher is immutable after construction and safe for concurrent use.
type Matcher struct {
	machine *goahocorasick.Machine
	groupOf map[string]int
}

// New builds a matcher. Keywords are matched case-sensitively as raw
// substrings; callers lowercase both sides. A keyword listed in several
// groups belongs to the first of them.
func New(groups ...[]string) (*Matcher, error) {
	groupOf := make(map[string]int)
	for i, group := range groups {
		for _, kw := range group {
			if kw == "" {
				continue
			}
			if _, seen := groupOf[kw]; !seen {
				groupOf[kw] = i
			}
		}
	}
	if len(groupOf) == 0 {
		return nil, ErrNoKeywords
	}

	words := lo.Keys(groupOf)
	sort.Strings(words)
	patterns := lo.Map(words, func(w string, _ int) []rune { return []rune(w) })

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Matcher{machine: m, groupOf: groupOf}, nil
}

// MustNew is like New but panics on error. It is meant for package-level
// tables that are fixed at compile time.
func MustNew(groups ...[]string) *Matcher {
	m, err := New(groups...)
	if err != nil {
		panic(err)
	}
	return m
}

// First returns the index of the earliest declared group that has at least
// one keyword occurring in text.
func (m *Matcher) First(text string) (int, bool) {
	best := -1
	for _, term := range m.search(text) {
		g := m.groupOf[string(term.Word)]
		if best == -1 || g < best {
			best = g
			if best == 0 {
				break
			}
		}
	}
	return best, best >= 0
}

// Any reports whether any keyword occurs in text.
func (m *Matcher) Any(text string) bool {
	_, ok := m.First(text)
	return ok
}

// Matches returns the distinct keywords found in text, in order of first
// occurrence.
func (m *Matcher) Matches(text string) []string {
	terms := m.search(text)
	sort.SliceStable(terms, func(i, j int) bool { return terms[i].Pos < terms[j].Pos })
	return lo.Uniq(lo.Map(terms, func(t *goahocorasick.Term, _ int) string { return string(t.Word) }))
}

func (m *Matcher) search(text string) []*goahocorasick.Term {
	if text == "" {
		return nil
	}
	return m.machine.MultiPatternSearch([]rune(text), false)
}
