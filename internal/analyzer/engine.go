package analyzer

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/seanpicks/edge/internal/betting"
	"github.com/seanpicks/edge/pkg/config"
	"github.com/seanpicks/edge/pkg/oddsmath"
)

// Weights blends the four prediction components into one confidence
type Weights struct {
	Patterns    float64
	Analytics   float64
	Situational float64
	Market      float64
}

// Engine combines pattern matching, the analytical model, situational
// factors and market signals into per-market confidence and bet
// recommendations for a single game.
type Engine struct {
	weights       Weights
	thresholds    map[betting.Sport]float64
	kellyFraction float64
	kellyCap      float64
	logger        *logrus.Logger
}

// NewEngine builds an engine from configuration
func NewEngine(cfg *config.Config, logger *logrus.Logger) *Engine {
	return &Engine{
		weights: Weights{
			Patterns:    cfg.PatternWeight,
			Analytics:   cfg.AnalyticsWeight,
			Situational: cfg.SituationalWeight,
			Market:      cfg.MarketWeight,
		},
		thresholds: map[betting.Sport]float64{
			betting.SportNFL:   cfg.ConfidenceThresholdNFL,
			betting.SportNCAAF: cfg.ConfidenceThresholdNFL,
			betting.SportMLB:   cfg.ConfidenceThresholdMLB,
		},
		kellyFraction: cfg.KellyFraction,
		kellyCap:      cfg.KellyCap,
		logger:        logger,
	}
}

// Threshold returns the bet-emission threshold for a sport
func (e *Engine) Threshold(sport betting.Sport) float64 {
	if t, ok := e.thresholds[sport]; ok {
		return t
	}
	return e.thresholds[betting.SportNFL]
}

// Analyze runs the full pipeline for one game. It is pure over the
// game's already-populated signals; provider failures have already been
// degraded to neutral defaults upstream.
func (e *Engine) Analyze(g *betting.Game) betting.AnalysisResult {
	result := betting.AnalysisResult{
		GameID:  g.ID,
		Game:    g.Matchup(),
		Sport:   g.Sport,
		Kickoff: g.Kickoff,
	}

	patterns := EvaluatePatterns(g)
	model := EvaluateModel(g)
	situational := EvaluateSituational(g)
	market := EvaluateMarket(g)

	spreadConfidence := e.combine(patterns.Spread, model.Spread, situational.Spread, market.Spread)
	totalConfidence := e.combine(patterns.Total, model.Total, situational.Total, market.Total)

	threshold := e.Threshold(g.Sport)

	if spreadConfidence > threshold {
		result.Bets = append(result.Bets, betting.BetRecommendation{
			Market:     betting.MarketSpread,
			Pick:       spreadPick(g, model.SpreadDirection),
			Confidence: spreadConfidence,
			Edge:       oddsmath.EdgeOverBreakEven(spreadConfidence),
			Reasoning:  patterns.SpreadReasons,
		})
	}

	if totalConfidence > threshold {
		result.Bets = append(result.Bets, betting.BetRecommendation{
			Market:     betting.MarketTotal,
			Pick:       totalPick(g, model.TotalDirection),
			Confidence: totalConfidence,
			Edge:       oddsmath.EdgeOverBreakEven(totalConfidence),
			Reasoning:  patterns.TotalReasons,
		})
	}

	result.Bets = append(result.Bets, e.propEdges(g)...)
	result.LiveStrategies = liveStrategies(g)
	result.Insights = append(result.Insights, patterns.SpreadReasons...)
	result.Insights = append(result.Insights, patterns.TotalReasons...)

	if len(result.Bets) > 0 {
		best := &result.Bets[0]
		for i := range result.Bets {
			if result.Bets[i].Confidence > best.Confidence {
				best = &result.Bets[i]
			}
		}
		result.BestBet = best
		result.KellyStake = oddsmath.Kelly(best.Confidence, oddsmath.StandardOdds, e.kellyFraction, e.kellyCap)

		e.logger.WithFields(logrus.Fields{
			"game":       result.Game,
			"pick":       best.Pick.Label,
			"confidence": best.Confidence,
			"kelly":      result.KellyStake,
		}).Debug("Best bet selected")
	}

	return result
}

// combine takes the weighted average of the four components, clamped to [0,1]
func (e *Engine) combine(patterns, analytics, situational, market float64) float64 {
	sum := e.weights.Patterns*patterns +
		e.weights.Analytics*analytics +
		e.weights.Situational*situational +
		e.weights.Market*market

	if sum < 0 {
		return 0
	}
	if sum > 1 {
		return 1
	}
	return sum
}

func spreadPick(g *betting.Game, side betting.Side) betting.Pick {
	team, line := g.HomeTeam, g.HomeSpread()
	if side == betting.SideAway {
		team, line = g.AwayTeam, g.AwaySpread()
	}
	return betting.Pick{
		Side:   side,
		Market: betting.MarketSpread,
		Line:   line,
		Label:  fmt.Sprintf("%s %+.1f", team, line),
	}
}

func totalPick(g *betting.Game, side betting.Side) betting.Pick {
	return betting.Pick{
		Side:   side,
		Market: betting.MarketTotal,
		Line:   g.Total,
		Label:  fmt.Sprintf("%s %.1f", side, g.Total),
	}
}

// propEdges finds player prop value in specific game environments
func (e *Engine) propEdges(g *betting.Game) []betting.BetRecommendation {
	var props []betting.BetRecommendation

	// Passing unders in high wind
	if g.Weather != nil && !g.Weather.IsDome && g.Weather.WindSpeed > 15 {
		if line := g.Float("qb_passing_yards_line", 0); line > 0 {
			props = append(props, betting.BetRecommendation{
				Market: betting.MarketProp,
				Pick: betting.Pick{
					Side:   betting.SideUnder,
					Market: betting.MarketProp,
					Line:   line,
					Label:  fmt.Sprintf("QB UNDER %.1f yards", line),
				},
				Confidence: 0.57,
				Edge:       3.0,
				Reasoning:  []string{"High wind impacts passing game"},
			})
		}
	}

	// Rushing overs against a bottom-tier run defense
	if g.Float("opponent_run_defense_rank", 16) >= 25 {
		if line := g.Float("rb_rushing_yards_line", 0); line > 0 {
			props = append(props, betting.BetRecommendation{
				Market: betting.MarketProp,
				Pick: betting.Pick{
					Side:   betting.SideOver,
					Market: betting.MarketProp,
					Line:   line,
					Label:  fmt.Sprintf("RB OVER %.1f yards", line),
				},
				Confidence: 0.56,
				Edge:       2.5,
				Reasoning:  []string{"Facing bottom-tier run defense"},
			})
		}
	}

	// Goal line back first TD: low probability, priced well
	if back := g.String("goal_line_back", ""); back != "" {
		props = append(props, betting.BetRecommendation{
			Market: betting.MarketProp,
			Pick: betting.Pick{
				Market: betting.MarketProp,
				Label:  fmt.Sprintf("%s First TD", back),
			},
			Confidence: 0.15,
			Edge:       5.0,
			Reasoning:  []string{"Goal line back value play"},
		})
	}

	return props
}

// liveStrategies returns the in-game betting plan for a game
func liveStrategies(g *betting.Game) []betting.LiveStrategy {
	strategies := []betting.LiveStrategy{
		{
			Trigger:   "If 14+ points scored in 1st quarter",
			Action:    "Bet UNDER adjusted total",
			Reasoning: "Regression to mean after fast start",
		},
		{
			Trigger:   "Favorite down 7+ at half",
			Action:    "Bet favorite 2H spread",
			Reasoning: "Better teams make adjustments",
		},
	}

	if g.Spread >= 7 || g.Spread <= -7 {
		strategies = append(strategies, betting.LiveStrategy{
			Trigger:   "If dog covers live spread by 4+",
			Action:    "Bet favorite live spread",
			Reasoning: "Create middle opportunity",
		})
	}

	return strategies
}
