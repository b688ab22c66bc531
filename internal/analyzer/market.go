package analyzer

import (
	"math"

	"github.com/seanpicks/edge/internal/betting"
)

// MarketResult is the line-movement and money-flow component
type MarketResult struct {
	Spread float64
	Total  float64
}

// EvaluateMarket scores line movement, steam and ticket/money splits.
func EvaluateMarket(g *betting.Game) MarketResult {
	result := MarketResult{Spread: neutral, Total: neutral}

	// Reverse line movement: line moving against the public side
	if g.Public != nil && g.Public.PublicOn != "" {
		lineDirection := g.String("line_movement_direction", "")
		if lineDirection != "" && lineDirection != string(g.Public.PublicOn) {
			result.Spread = 0.55
		}
	}

	// Steam: a large absolute spread move
	if math.Abs(g.Float("line_movement", 0)) >= 2.5 {
		result.Spread = 0.54
	}

	// Sharp money on a total shows up as a big total move either way
	totalMove := g.Float("total_movement", 0)
	if totalMove <= -3 || totalMove >= 3 {
		result.Total = 0.54
	}

	// Ticket/money divergence: few tickets holding most of the money
	if g.Public != nil {
		if math.Abs(g.Public.TicketPercentage-g.Public.MoneyPercentage) > 20 {
			result.Spread = 0.53
		}
	}

	return result
}
