package parlay

import (
	"fmt"

	"github.com/seanpicks/edge/internal/betting"
)

// nflDivisions maps each team to its division for correlation checks
var nflDivisions = map[string]string{
	"Buffalo Bills": "AFC East", "Miami Dolphins": "AFC East",
	"New England Patriots": "AFC East", "New York Jets": "AFC East",

	"Baltimore Ravens": "AFC North", "Cincinnati Bengals": "AFC North",
	"Cleveland Browns": "AFC North", "Pittsburgh Steelers": "AFC North",

	"Houston Texans": "AFC South", "Indianapolis Colts": "AFC South",
	"Jacksonville Jaguars": "AFC South", "Tennessee Titans": "AFC South",

	"Denver Broncos": "AFC West", "Kansas City Chiefs": "AFC West",
	"Las Vegas Raiders": "AFC West", "Los Angeles Chargers": "AFC West",

	"Dallas Cowboys": "NFC East", "New York Giants": "NFC East",
	"Philadelphia Eagles": "NFC East", "Washington Commanders": "NFC East",

	"Chicago Bears": "NFC North", "Detroit Lions": "NFC North",
	"Green Bay Packers": "NFC North", "Minnesota Vikings": "NFC North",

	"Atlanta Falcons": "NFC South", "Carolina Panthers": "NFC South",
	"New Orleans Saints": "NFC South", "Tampa Bay Buccaneers": "NFC South",

	"Arizona Cardinals": "NFC West", "Los Angeles Rams": "NFC West",
	"San Francisco 49ers": "NFC West", "Seattle Seahawks": "NFC West",
}

// CheckCorrelation decides whether two picks tend to win together:
// division overlap, a shared weather regime, or totals pointing the
// same direction.
func CheckCorrelation(a, b betting.ScoredPick) Correlation {
	if a.Sport == b.Sport {
		if div := sharedDivision(a, b); div != "" {
			return Correlation{
				Correlated:  true,
				Type:        "division",
				Description: fmt.Sprintf("Both games involve %s teams", div),
			}
		}
	}

	if a.Weather != nil && b.Weather != nil {
		if a.Weather.WindSpeed > 15 && b.Weather.WindSpeed > 15 {
			return Correlation{
				Correlated:  true,
				Type:        "weather",
				Description: "Both games have high winds affecting scoring",
			}
		}
		if a.Weather.Temperature < 32 && b.Weather.Temperature < 32 {
			return Correlation{
				Correlated:  true,
				Type:        "weather",
				Description: "Both games in cold weather",
			}
		}
	}

	if a.Pick.Market == betting.MarketTotal && b.Pick.Market == betting.MarketTotal &&
		a.Pick.Side == b.Pick.Side {
		return Correlation{
			Correlated:  true,
			Type:        "totals",
			Description: "Similar game script expected",
		}
	}

	return Correlation{}
}

func sharedDivision(a, b betting.ScoredPick) string {
	divisions := make(map[string]bool, 2)
	for _, team := range []string{a.HomeTeam, a.AwayTeam} {
		if d, ok := nflDivisions[team]; ok {
			divisions[d] = true
		}
	}
	for _, team := range []string{b.HomeTeam, b.AwayTeam} {
		if d, ok := nflDivisions[team]; ok && divisions[d] {
			return d
		}
	}
	return ""
}
