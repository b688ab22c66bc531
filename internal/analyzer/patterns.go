package analyzer

import (
	"fmt"
	"math"
	"time"

	"github.com/seanpicks/edge/internal/betting"
)

// stackingBonus is added per market when three or more patterns match
// in that market.
const (
	stackingBonus     = 0.03
	stackingThreshold = 3
)

// PatternRule is one historical betting pattern: a predicate over a
// game, the market it applies to, and its historical win rate.
type PatternRule struct {
	Name    string
	Market  betting.Market
	WinRate float64
	Match   func(g *betting.Game) bool
	Reason  func(g *betting.Game) string
}

// patternRules is the single source of truth for situational patterns.
// Rules are independent and order-insensitive; per-market confidence is
// the max of matched win rates, never a sum.
var patternRules = []PatternRule{
	{
		Name:    "thursday_night_under",
		Market:  betting.MarketTotal,
		WinRate: 0.58,
		Match: func(g *betting.Game) bool {
			return g.Kickoff.Weekday() == time.Thursday
		},
		Reason: func(g *betting.Game) string {
			return "Thursday night under pattern (58% historical)"
		},
	},
	{
		Name:    "division_dog_7_10",
		Market:  betting.MarketSpread,
		WinRate: 0.56,
		Match: func(g *betting.Game) bool {
			return g.Bool("is_division_game") && g.HomeSpread() >= 7 && g.HomeSpread() <= 10
		},
		Reason: func(g *betting.Game) string {
			return "Division dog +7-10 pattern (56% historical)"
		},
	},
	{
		Name:    "wind_15_plus_under",
		Market:  betting.MarketTotal,
		WinRate: 0.61,
		Match: func(g *betting.Game) bool {
			return g.Weather != nil && !g.Weather.IsDome && g.Weather.WindSpeed > 15
		},
		Reason: func(g *betting.Game) string {
			return fmt.Sprintf("Wind %.0fmph = under (61%% historical)", g.Weather.WindSpeed)
		},
	},
	{
		Name:    "road_fav_off_bye",
		Market:  betting.MarketSpread,
		WinRate: 0.57,
		Match: func(g *betting.Game) bool {
			return g.AwaySpread() < 0 && g.Float("away_rest_days", 7) >= 10
		},
		Reason: func(g *betting.Game) string {
			return "Road favorite off bye (57% historical)"
		},
	},
	{
		Name:    "public_fade_80",
		Market:  betting.MarketSpread,
		WinRate: 0.55,
		Match: func(g *betting.Game) bool {
			return g.Public != nil && g.Public.PublicPercentage >= 80 && g.Public.PublicOn == betting.SideHome
		},
		Reason: func(g *betting.Game) string {
			return "Fading 80%+ public money (55% historical)"
		},
	},
	{
		Name:    "backup_qb_under",
		Market:  betting.MarketTotal,
		WinRate: 0.59,
		Match: func(g *betting.Game) bool {
			return g.Bool("home_backup_qb") || g.Bool("away_backup_qb")
		},
		Reason: func(g *betting.Game) string {
			return "Backup QB starting = under (59% historical)"
		},
	},
	{
		Name:    "december_division_under",
		Market:  betting.MarketTotal,
		WinRate: 0.60,
		Match: func(g *betting.Game) bool {
			return g.Kickoff.Month() == time.December && g.Bool("is_division_game")
		},
		Reason: func(g *betting.Game) string {
			return "December division under (60% historical)"
		},
	},
	{
		Name:    "primetime_dog_7_plus",
		Market:  betting.MarketSpread,
		WinRate: 0.56,
		Match: func(g *betting.Game) bool {
			return g.Bool("is_primetime") && g.HomeSpread() >= 7
		},
		Reason: func(g *betting.Game) string {
			return "Primetime dog +7+ (56% historical)"
		},
	},
}

// PatternResult is the per-market pattern confidence with reasoning
type PatternResult struct {
	Spread        float64
	Total         float64
	SpreadReasons []string
	TotalReasons  []string
	Matched       []string
}

// EvaluatePatterns runs every pattern rule against the game. A missing
// attribute simply fails the predicate; nothing raises.
func EvaluatePatterns(g *betting.Game) PatternResult {
	result := PatternResult{Spread: neutral, Total: neutral}

	spreadMatches, totalMatches := 0, 0
	for _, rule := range patternRules {
		if !rule.Match(g) {
			continue
		}
		result.Matched = append(result.Matched, rule.Name)
		switch rule.Market {
		case betting.MarketSpread:
			result.Spread = math.Max(result.Spread, rule.WinRate)
			result.SpreadReasons = append(result.SpreadReasons, rule.Reason(g))
			spreadMatches++
		case betting.MarketTotal:
			result.Total = math.Max(result.Total, rule.WinRate)
			result.TotalReasons = append(result.TotalReasons, rule.Reason(g))
			totalMatches++
		}
	}

	if spreadMatches >= stackingThreshold {
		result.Spread += stackingBonus
		result.SpreadReasons = append(result.SpreadReasons,
			fmt.Sprintf("Pattern stacking bonus (%d patterns)", spreadMatches))
	}
	if totalMatches >= stackingThreshold {
		result.Total += stackingBonus
		result.TotalReasons = append(result.TotalReasons,
			fmt.Sprintf("Pattern stacking bonus (%d patterns)", totalMatches))
	}

	return result
}
