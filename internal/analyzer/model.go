package analyzer

import (
	"math"

	"github.com/seanpicks/edge/internal/betting"
)

// neutral is the no-edge confidence every component defaults to
const neutral = 0.50

// epaPerPoint converts an EPA differential into points of margin
const epaPerPoint = 0.15

// ModelResult is the analytical model's per-market view with directions
type ModelResult struct {
	Spread          float64
	Total           float64
	SpreadDirection betting.Side // which side covers per the model
	TotalDirection  betting.Side // over or under
}

// EvaluateModel runs the EPA/pace/efficiency model. Missing stats fall
// back to league-average defaults, leaving the component neutral.
func EvaluateModel(g *betting.Game) ModelResult {
	result := ModelResult{
		Spread:          neutral,
		Total:           neutral,
		SpreadDirection: betting.SideHome,
		TotalDirection:  betting.SideOver,
	}

	// EPA differential against the posted spread. Without EPA data the
	// spread view stays neutral rather than treating zero as a stat.
	if g.Has("home_epa") && g.Has("away_epa") {
		epaDiff := g.Float("home_epa", 0) - g.Float("away_epa", 0)
		predictedMargin := epaDiff / epaPerPoint
		edge := predictedMargin - g.Spread

		if math.Abs(edge) > 3 { // strong disagreement with the market
			result.Spread = 0.56
			if edge > 0 {
				result.SpreadDirection = betting.SideHome
			} else {
				result.SpreadDirection = betting.SideAway
			}
		}
	}

	// Pace: combined plays per game
	avgPace := (g.Float("home_plays_per_game", 65) + g.Float("away_plays_per_game", 65)) / 2
	if avgPace > 68 {
		result.TotalDirection = betting.SideOver
		result.Total = 0.53
	} else if avgPace < 62 {
		result.TotalDirection = betting.SideUnder
		result.Total = 0.53
	}

	// Red zone efficiency: both teams finishing drives with TDs
	homeRZ := g.Float("home_redzone_td_pct", 0.55)
	awayRZ := g.Float("away_redzone_td_pct", 0.55)
	if homeRZ > 0.65 && awayRZ > 0.65 {
		result.TotalDirection = betting.SideOver
		result.Total = math.Max(result.Total, 0.54)
	}

	// Explosive play rate
	explosive := g.Float("home_explosive_play_rate", 0.10) + g.Float("away_explosive_play_rate", 0.10)
	if explosive > 0.22 {
		result.TotalDirection = betting.SideOver
		result.Total = math.Max(result.Total, 0.54)
	}

	return result
}
