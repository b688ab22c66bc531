package analyzer

import (
	"github.com/seanpicks/edge/internal/betting"
)

// SituationalResult is the rest/travel/weather/motivation component
type SituationalResult struct {
	Spread float64
	Total  float64
}

// EvaluateSituational scores rest, travel, weather and motivational
// spots. Later checks overwrite earlier ones; the last matching spot
// dictates the component's view.
func EvaluateSituational(g *betting.Game) SituationalResult {
	result := SituationalResult{Spread: neutral, Total: neutral}

	// Rest advantage
	restDiff := g.Float("home_rest_days", 7) - g.Float("away_rest_days", 7)
	if restDiff >= 3 {
		result.Spread = 0.53
	}

	// West coast team traveling east for an early kickoff
	if g.String("away_timezone", "") == "PT" &&
		g.String("home_timezone", "") == "ET" &&
		g.Float("kickoff_hour", 0) == 13 {
		result.Spread = 0.54
	}

	// Freezing weather pushes totals down
	if g.Weather != nil && !g.Weather.IsDome && g.Weather.Temperature < 32 {
		result.Total = 0.55
	}

	// Sandwich spot: caught between two bigger games
	if g.Bool("home_sandwich_spot") || g.Bool("away_sandwich_spot") {
		result.Spread = 0.53
	}

	// Revenge narratives are overvalued by the market
	if g.Bool("revenge_game") {
		result.Spread = 0.48
	}

	// Desperation edge when only one side must win
	if g.Bool("home_must_win") && !g.Bool("away_must_win") {
		result.Spread = 0.52
	}

	return result
}
