package certificate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"points/pkg/models"
)

func TestScore_General(t *testing.T) {
	tests := []struct {
		name     string
		sig      Signals
		expected float64
	}{
		{"participation", Signals{Type: TypeParticipation, Category: CategorySports}, 0.5},
		{"participation lead", Signals{Type: TypeParticipation, IsLead: true, Category: CategoryOutreach}, 1.5},
		{"first", Signals{Type: TypeMerit, Rank: "1", Category: CategorySports}, 2},
		{"second", Signals{Type: TypeOther, Rank: "2", Category: CategoryAcademic}, 1.5},
		{"third", Signals{Type: TypeAppreciation, Rank: "3", Category: CategoryNCC}, 1},
		{"no rank", Signals{Type: TypeMerit, Category: CategoryExtraCurricular}, 0},
		{"first and lead", Signals{Type: TypeOther, Rank: "1", IsLead: true, Category: CategorySports}, 3},
		{"lead only", Signals{Type: TypeOther, IsLead: true, Category: CategoryExtraCurricular}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Score(tt.sig, ""))
		})
	}
}

func TestScore_IndustryExperience(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		lead     bool
		expected float64
	}{
		{"international", "internship with an international firm", false, 2},
		{"abroad beats national", "national award for work abroad", false, 2},
		{"national", "industrial training at national level", false, 1.5},
		{"college", "summer internship at the college lab", false, 1},
		{"state", "state industry placement", false, 1},
		{"no scope", "internship at acme corp", false, 0},
		{"overseas lead", "overseas internship, team lead captain", true, 3},
		{"national lead", "national internship", true, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := Signals{Type: TypeOther, Rank: "1", IsLead: tt.lead, Category: CategoryIndustryExperience}
			// Rank is ignored for industry experience.
			require.Equal(t, tt.expected, Score(sig, tt.text))
		})
	}
}

func TestScore_AlwaysWithinBounds(t *testing.T) {
	types := []Type{TypeParticipation, TypeAppreciation, TypeMerit, TypeOther}
	ranks := []string{"", "1", "2", "3", "7"}
	texts := []string{"", "international national college", "overseas abroad", "local"}

	for _, c := range Categories() {
		for _, typ := range types {
			for _, rank := range ranks {
				for _, lead := range []bool{false, true} {
					for _, text := range texts {
						p := Score(Signals{Type: typ, Rank: rank, IsLead: lead, Category: c.Category}, text)
						require.GreaterOrEqual(t, p, 0.0)
						require.LessOrEqual(t, p, models.MaxPoints)
					}
				}
			}
		}
	}
}

func TestClassifyAndScore_DefaultCategory(t *testing.T) {
	text := "Certificate of Merit, Winner"
	sig := Classify(text)
	require.Equal(t, DefaultCategory, sig.Category)
	require.Equal(t, 2.0, Score(sig, strings.ToLower(text)))
}
