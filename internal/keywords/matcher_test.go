package keywords

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_Empty(t *testing.T) {
	_, err := New()
	require.ErrorIs(t, err, ErrNoKeywords)

	_, err = New([]string{""}, nil)
	require.ErrorIs(t, err, ErrNoKeywords)
}

func TestMatcher_First(t *testing.T) {
	m := MustNew(
		[]string{"intern", "internship", "training"},
		[]string{"ncc", "national cadet"},
		[]string{"sport", "tournament", "cricket"},
	)

	tests := []struct {
		name  string
		text  string
		group int
		found bool
	}{
		{name: "single group", text: "inter college cricket tournament", group: 2, found: true},
		{name: "earlier group wins even when it appears later", text: "cricket match during ncc camp", group: 1, found: true},
		{name: "prefix keywords", text: "summer internship", group: 0, found: true},
		{name: "multi word keyword", text: "national cadet corps", group: 1, found: true},
		{name: "no keyword", text: "certificate of appreciation", group: -1, found: false},
		{name: "empty text", text: "", group: -1, found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group, found := m.First(tt.text)
			require.Equal(t, tt.found, found)
			require.Equal(t, tt.group, group)
		})
	}
}

func TestMatcher_DuplicateKeywordBelongsToFirstGroup(t *testing.T) {
	m := MustNew([]string{"drive"}, []string{"drive", "club"})
	group, ok := m.First("blood drive club")
	require.True(t, ok)
	require.Equal(t, 0, group)
}

func TestMatcher_AnyAndMatches(t *testing.T) {
	m := MustNew([]string{"captain", "head", "president"})

	require.True(t, m.Any("team captain"))
	require.False(t, m.Any("team member"))
	require.Equal(t, []string{"president", "head"}, m.Matches("club president and head of events"))
	require.Empty(t, m.Matches("nothing here"))
}
