package analyzer

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanpicks/edge/internal/betting"
	"github.com/seanpicks/edge/pkg/config"
)

func testEngine() *Engine {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewEngine(&config.Config{
		PatternWeight:          0.35,
		AnalyticsWeight:        0.35,
		SituationalWeight:      0.20,
		MarketWeight:           0.10,
		ConfidenceThresholdNFL: 0.54,
		ConfidenceThresholdMLB: 0.52,
		KellyFraction:          0.25,
		KellyCap:               0.03,
	}, logger)
}

func TestAnalyzeNeutralGameEmitsNoBets(t *testing.T) {
	engine := testEngine()

	g := &betting.Game{
		ID:       "nfl-1",
		Sport:    betting.SportNFL,
		HomeTeam: "Chiefs",
		AwayTeam: "Raiders",
		Kickoff:  time.Date(2025, time.September, 7, 13, 0, 0, 0, time.UTC),
		Spread:   -3.0,
		Total:    47.5,
	}

	result := engine.Analyze(g)

	assert.Empty(t, result.Bets)
	assert.Nil(t, result.BestBet)
	assert.Zero(t, result.KellyStake)
	assert.NotEmpty(t, result.LiveStrategies)
}

func TestAnalyzeStrongTotalSignal(t *testing.T) {
	engine := testEngine()

	// Thursday, 18mph wind, backup QB, freezing, big total move:
	// every component leans under on the total.
	g := &betting.Game{
		ID:       "nfl-2",
		Sport:    betting.SportNFL,
		HomeTeam: "Bills",
		AwayTeam: "Jets",
		Kickoff:  time.Date(2025, time.October, 2, 20, 15, 0, 0, time.UTC),
		Spread:   -6.5,
		Total:    41.5,
		Weather:  &betting.Weather{WindSpeed: 18, Temperature: 28},
		Attrs: map[string]interface{}{
			"home_backup_qb":      true,
			"total_movement":      -3.5,
			"home_plays_per_game": 58.0,
			"away_plays_per_game": 58.0,
		},
	}

	result := engine.Analyze(g)

	require.NotEmpty(t, result.Bets)
	require.NotNil(t, result.BestBet)

	// patterns 0.64, model 0.53, situational 0.55, market 0.54
	// 0.35*0.64 + 0.35*0.53 + 0.20*0.55 + 0.10*0.54 = 0.5735
	best := result.BestBet
	assert.Equal(t, betting.MarketTotal, best.Market)
	assert.Equal(t, betting.SideUnder, best.Pick.Side)
	assert.InDelta(t, 0.5735, best.Confidence, 1e-9)
	assert.InDelta(t, 4.95, best.Edge, 0.01)
	assert.Contains(t, best.Pick.Label, "41.5")

	// Prop edges ride along in high wind
	foundProp := false
	for _, b := range result.Bets {
		if b.Market == betting.MarketProp {
			foundProp = true
		}
	}
	assert.False(t, foundProp, "no prop line posted, no prop edge")

	assert.Greater(t, result.KellyStake, 0.0)
	assert.LessOrEqual(t, result.KellyStake, 0.03)
}

func TestAnalyzeSpreadPickCarriesStructure(t *testing.T) {
	engine := testEngine()

	// Model strongly favors the home side against the posted spread
	g := &betting.Game{
		ID:       "nfl-3",
		Sport:    betting.SportNFL,
		HomeTeam: "Eagles",
		AwayTeam: "Giants",
		Kickoff:  time.Date(2025, time.November, 9, 13, 0, 0, 0, time.UTC),
		Spread:   -3.0,
		Total:    44.0,
		Public:   &betting.PublicBetting{PublicOn: betting.SideHome, PublicPercentage: 82, TicketPercentage: 82, MoneyPercentage: 70},
		Attrs: map[string]interface{}{
			"home_epa":                1.5,
			"away_epa":                0.0,
			"line_movement_direction": "AWAY",
			"home_rest_days":          10.0,
			"away_rest_days":          6.0,
		},
	}

	result := engine.Analyze(g)

	var spreadBet *betting.BetRecommendation
	for i := range result.Bets {
		if result.Bets[i].Market == betting.MarketSpread {
			spreadBet = &result.Bets[i]
		}
	}
	require.NotNil(t, spreadBet)
	assert.Equal(t, betting.SideHome, spreadBet.Pick.Side)
	assert.Equal(t, -3.0, spreadBet.Pick.Line)
	assert.Equal(t, "Eagles -3.0", spreadBet.Pick.Label)
}

func TestPropEdgesInHighWind(t *testing.T) {
	engine := testEngine()

	g := &betting.Game{
		Sport:   betting.SportNFL,
		Kickoff: time.Date(2025, time.September, 7, 13, 0, 0, 0, time.UTC),
		Weather: &betting.Weather{WindSpeed: 20},
		Attrs: map[string]interface{}{
			"qb_passing_yards_line": 265.5,
		},
	}

	props := engine.propEdges(g)

	assert.Len(t, props, 1)
	assert.Equal(t, betting.SideUnder, props[0].Pick.Side)
	assert.Equal(t, 265.5, props[0].Pick.Line)
	assert.Equal(t, 0.57, props[0].Confidence)
}

func TestLiveStrategiesIncludeMiddleOnBigSpreads(t *testing.T) {
	small := &betting.Game{Spread: -3.0}
	big := &betting.Game{Spread: -9.5}

	assert.Len(t, liveStrategies(small), 2)
	assert.Len(t, liveStrategies(big), 3)
}

func TestThresholdFallsBackToNFL(t *testing.T) {
	engine := testEngine()

	assert.Equal(t, 0.54, engine.Threshold(betting.SportNFL))
	assert.Equal(t, 0.52, engine.Threshold(betting.SportMLB))
	assert.Equal(t, 0.54, engine.Threshold(betting.Sport("xfl")))
}
