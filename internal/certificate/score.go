package certificate

import (
	"github.com/samber/lo"

	"points/internal/keywords"
	"points/pkg/models"
)

// Industry experience is scored by the reach of the placement, widest first.
var (
	industryScopes = keywords.MustNew(
		[]string{"international", "abroad", "overseas"},
		[]string{"national"},
		[]string{"university", "college", "local", "state"},
	)
	industryScopePoints = []float64{2, 1.5, 1}

	rankPoints = map[string]float64{"1": 2, "2": 1.5, "3": 1}
)

const (
	participationPoints = 0.5
	leadershipBonus     = 1.0
)

// Score turns certificate signals into points in [0, models.MaxPoints].
// textLower is the lowercased certificate text, used for the industry
// experience scope check. Rank is not consulted for industry experience.
func Score(sig Signals, textLower string) float64 {
	var pts float64

	if sig.Category == CategoryIndustryExperience {
		if i, ok := industryScopes.First(textLower); ok {
			pts += industryScopePoints[i]
		}
	} else if sig.Type == TypeParticipation {
		pts += participationPoints
	} else {
		pts += rankPoints[sig.Rank]
	}

	if sig.IsLead {
		pts += leadershipBonus
	}
	return lo.Clamp(pts, 0, models.MaxPoints)
}
