package parlay

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seanpicks/edge/internal/betting"
	"github.com/seanpicks/edge/pkg/config"
)

func testBuilder() *Builder {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewBuilder(&config.Config{
		ParlayMinConfidence:      0.55,
		ParlayThreeLegConfidence: 0.57,
		ParlayDefaultStake:       20,
		KellyFraction:            0.25,
		ParlayKellyCap:           0.02,
	}, logger)
}

func pick(gameID, home, away string, confidence float64) betting.ScoredPick {
	return betting.ScoredPick{
		GameID:     gameID,
		Sport:      betting.SportNFL,
		HomeTeam:   home,
		AwayTeam:   away,
		Confidence: confidence,
		Pick: betting.Pick{
			Side:   betting.SideHome,
			Market: betting.MarketSpread,
			Line:   -3.0,
			Label:  home + " -3.0",
		},
	}
}

func TestBuildNeedsTwoQualifiedPicks(t *testing.T) {
	b := testBuilder()

	recs := b.Build([]betting.ScoredPick{
		pick("g1", "Detroit Lions", "Seattle Seahawks", 0.60),
		pick("g2", "Houston Texans", "Denver Broncos", 0.52),
	})

	assert.Empty(t, recs.Parlays)
	assert.Nil(t, recs.BestParlay)
	assert.NotEmpty(t, recs.Message)
}

func TestBuildTwoLegParlay(t *testing.T) {
	b := testBuilder()

	recs := b.Build([]betting.ScoredPick{
		pick("g1", "Detroit Lions", "Seattle Seahawks", 0.60),
		pick("g2", "Houston Texans", "Denver Broncos", 0.58),
	})

	require.Len(t, recs.Parlays, 1)
	p := recs.Parlays[0]

	assert.Equal(t, "2-TEAM", p.Type)
	assert.Len(t, p.Legs, 2)
	// Uncorrelated legs multiply exactly
	assert.InDelta(t, 0.60*0.58, p.CombinedProbability, 1e-9)
	assert.Equal(t, 2.64, p.Multiplier)
	assert.InDelta(t, 52.80, p.PotentialPayout, 1e-9)
	assert.InDelta(t, 0.348*52.80-20, p.ExpectedValue, 1e-9)
	assert.Nil(t, p.Correlation)

	require.NotNil(t, recs.BestParlay)
	assert.Equal(t, p.ID, recs.BestParlay.ID)
	assert.NotEmpty(t, recs.Analysis)
}

func TestBuildDivisionCorrelationBoost(t *testing.T) {
	b := testBuilder()

	// Both games feature AFC East teams
	recs := b.Build([]betting.ScoredPick{
		pick("g1", "Buffalo Bills", "New York Jets", 0.60),
		pick("g2", "Miami Dolphins", "Kansas City Chiefs", 0.58),
	})

	require.Len(t, recs.Parlays, 1)
	p := recs.Parlays[0]

	require.NotNil(t, p.Correlation)
	assert.Equal(t, "division", p.Correlation.Type)
	assert.InDelta(t, 0.65*0.63, p.CombinedProbability, 1e-9)
}

func TestBuildThreeLegNeedsHigherConfidence(t *testing.T) {
	b := testBuilder()

	picks := []betting.ScoredPick{
		pick("g1", "Detroit Lions", "Seattle Seahawks", 0.60),
		pick("g2", "Houston Texans", "Denver Broncos", 0.59),
		pick("g3", "Miami Dolphins", "Atlanta Falcons", 0.56),
	}

	recs := b.Build(picks)

	// Three 2-leg combos; g3 at 0.56 blocks the 3-leg combo
	for _, p := range recs.Parlays {
		assert.Equal(t, "2-TEAM", p.Type)
	}
	assert.Len(t, recs.Parlays, 3)

	// Raising g3 past the 3-leg threshold unlocks it
	picks[2].Confidence = 0.58
	recs = b.Build(picks)

	var threeLeg *Parlay
	for i := range recs.Parlays {
		if recs.Parlays[i].Type == "3-TEAM" {
			threeLeg = &recs.Parlays[i]
		}
	}
	require.NotNil(t, threeLeg)
	assert.Equal(t, 6.96, threeLeg.Multiplier)
	assert.InDelta(t, 0.60*0.59*0.58, threeLeg.CombinedProbability, 1e-9)
}

func TestBuildRanksByExpectedValue(t *testing.T) {
	b := testBuilder()

	recs := b.Build([]betting.ScoredPick{
		pick("g1", "Detroit Lions", "Seattle Seahawks", 0.64),
		pick("g2", "Houston Texans", "Denver Broncos", 0.62),
		pick("g3", "Green Bay Packers", "Dallas Cowboys", 0.58),
		pick("g4", "Arizona Cardinals", "Carolina Panthers", 0.56),
	})

	require.True(t, len(recs.Parlays) > 1)
	for i := 1; i < len(recs.Parlays); i++ {
		assert.GreaterOrEqual(t, recs.Parlays[i-1].ExpectedValue, recs.Parlays[i].ExpectedValue)
	}
	assert.LessOrEqual(t, len(recs.Parlays), 10)
}

func TestParlayKellyCappedAtTwoPercent(t *testing.T) {
	b := testBuilder()

	recs := b.Build([]betting.ScoredPick{
		pick("g1", "Detroit Lions", "Seattle Seahawks", 0.70),
		pick("g2", "Houston Texans", "Denver Broncos", 0.70),
	})

	require.Len(t, recs.Parlays, 1)
	k := recs.Parlays[0].KellyStake
	assert.Greater(t, k, 0.0)
	assert.LessOrEqual(t, k, 0.02)
}

func TestCheckCorrelationKinds(t *testing.T) {
	windy := func(id string, conf float64) betting.ScoredPick {
		p := pick(id, "Chicago Bears", "Green Bay Packers", conf)
		p.Weather = &betting.Weather{WindSpeed: 18, Temperature: 55}
		return p
	}

	// Wind regime
	c := CheckCorrelation(windy("g1", 0.6), windy("g2", 0.6))
	assert.True(t, c.Correlated)
	assert.Equal(t, "division", c.Type) // division outranks weather for these teams

	// Weather correlation when no division overlap
	a := pick("g1", "Seattle Seahawks", "Detroit Lions", 0.6)
	a.Weather = &betting.Weather{WindSpeed: 18, Temperature: 55}
	d := pick("g2", "Buffalo Bills", "Kansas City Chiefs", 0.6)
	d.Weather = &betting.Weather{WindSpeed: 16, Temperature: 55}
	c = CheckCorrelation(a, d)
	assert.True(t, c.Correlated)
	assert.Equal(t, "weather", c.Type)

	// Totals pointing the same way
	u1 := pick("g1", "Seattle Seahawks", "Detroit Lions", 0.6)
	u1.Pick = betting.Pick{Side: betting.SideUnder, Market: betting.MarketTotal, Line: 44.5, Label: "UNDER 44.5"}
	u2 := pick("g2", "Houston Texans", "Kansas City Chiefs", 0.6)
	u2.Pick = betting.Pick{Side: betting.SideUnder, Market: betting.MarketTotal, Line: 47.0, Label: "UNDER 47.0"}
	c = CheckCorrelation(u1, u2)
	assert.True(t, c.Correlated)
	assert.Equal(t, "totals", c.Type)

	// Opposite totals are not correlated
	u2.Pick.Side = betting.SideOver
	c = CheckCorrelation(u1, u2)
	assert.False(t, c.Correlated)
}

func TestCalculate(t *testing.T) {
	legs := []CalculationLeg{
		{GameID: "g1", Pick: "Detroit Lions -3.0", Confidence: 0.60},
		{GameID: "g2", Pick: "UNDER 44.5", Confidence: 0.55},
	}

	calc, err := Calculate(legs, 20)
	require.NoError(t, err)

	assert.Equal(t, 2, calc.NumLegs)
	assert.InDelta(t, 0.33, calc.Probability, 1e-9)
	assert.InDelta(t, 52.80, calc.Payout, 1e-9)
	assert.InDelta(t, -2.576, calc.ExpectedValue, 1e-3)
	assert.Equal(t, "Negative EV - Not recommended", calc.Recommendation)
	assert.InDelta(t, 1.0/2.64, calc.BreakEvenProbability, 1e-9)
}

func TestCalculateLegBounds(t *testing.T) {
	one := []CalculationLeg{{Confidence: 0.6}}
	_, err := Calculate(one, 20)
	assert.ErrorIs(t, err, ErrTooFewLegs)

	five := make([]CalculationLeg, 5)
	for i := range five {
		five[i] = CalculationLeg{Confidence: 0.6}
	}
	_, err = Calculate(five, 20)
	assert.ErrorIs(t, err, ErrTooManyLegs)

	four := make([]CalculationLeg, 4)
	for i := range four {
		four[i] = CalculationLeg{Confidence: 0.6}
	}
	calc, err := Calculate(four, 10)
	require.NoError(t, err)
	assert.Equal(t, 13.28, calc.Multiplier)
}
