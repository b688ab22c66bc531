package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seanpicks/edge/internal/betting"
)

func TestMLBAnalyzeNoEdges(t *testing.T) {
	engine := NewMLBEngine()

	result := engine.Analyze(MLBGameInput{
		HomeTeam: "Dodgers",
		AwayTeam: "Padres",
	})

	assert.Equal(t, 0.48, result.Confidence)
	assert.Empty(t, result.Factors)
	// Default pitchers tie on ERA, so the away side gets the run line
	assert.Equal(t, betting.SideAway, result.Pick.Side)
	assert.Equal(t, betting.MarketSpread, result.Pick.Market)
	assert.Equal(t, "Padres +1.5", result.Pick.Label)
}

func TestMLBAnalyzePitchingMismatch(t *testing.T) {
	engine := NewMLBEngine()

	result := engine.Analyze(MLBGameInput{
		HomeTeam:    "Dodgers",
		AwayTeam:    "Rockies",
		HomePitcher: Pitcher{Name: "Ace", ERA: 2.50, KPer9: 11.0, Last3ERA: 2.10},
		AwayPitcher: Pitcher{Name: "Journeyman", ERA: 5.80, KPer9: 7.0, Last3ERA: 6.20},
		HomeBullpen: Bullpen{ERA: 3.10},
		AwayBullpen: Bullpen{ERA: 4.60},
	})

	// ERA gap 3.30 caps the pitching boost at 0.06; recent form 0.03,
	// bullpen 0.025: 0.48 + 0.115 = 0.595
	assert.InDelta(t, 0.595, result.Confidence, 1e-9)
	assert.Len(t, result.Factors, 3)

	// Over 0.55 takes the moneyline
	assert.Equal(t, betting.SideHome, result.Pick.Side)
	assert.Equal(t, betting.MarketMoneyline, result.Pick.Market)
	assert.Equal(t, "Dodgers ML", result.Pick.Label)
}

func TestMLBConfidenceClamped(t *testing.T) {
	engine := NewMLBEngine()

	// Every edge stacked at its max still clamps at 0.65
	result := engine.Analyze(MLBGameInput{
		HomeTeam:     "Yankees",
		AwayTeam:     "Athletics",
		HomePitcher:  Pitcher{ERA: 2.00, KPer9: 12.0, Last3ERA: 1.50},
		AwayPitcher:  Pitcher{ERA: 6.50, KPer9: 6.5, Last3ERA: 7.00},
		HomeBullpen:  Bullpen{ERA: 2.80},
		AwayBullpen:  Bullpen{ERA: 5.00},
		HomeBatting:  TeamBatting{OPS: 0.810},
		AwayBatting:  TeamBatting{OPS: 0.680},
		Park:         ParkFactors{RunsFactor: 1.20},
		Weather:      &betting.Weather{WindSpeed: 18, Temperature: 75},
		WindBlowing:  "out",
		LineMovement: &MLBLineMovement{MoneylineCents: 30},
	})

	assert.Equal(t, 0.65, result.Confidence)
	assert.GreaterOrEqual(t, result.Confidence, 0.40)
}

func TestMLBParkAndWeatherLeanTotals(t *testing.T) {
	engine := NewMLBEngine()

	result := engine.Analyze(MLBGameInput{
		HomeTeam: "Giants",
		AwayTeam: "Mets",
		Park:     ParkFactors{RunsFactor: 0.85},
		Weather:  &betting.Weather{WindSpeed: 5, Temperature: 45},
	})

	// Both edges favor the under with no side edge in play
	assert.Equal(t, betting.SideUnder, result.Pick.Side)
	assert.Equal(t, betting.MarketTotal, result.Pick.Market)
	assert.InDelta(t, 0.505, result.Confidence, 1e-9)
}

func TestMLBSharpMoneyLineMovement(t *testing.T) {
	engine := NewMLBEngine()

	tests := []struct {
		name   string
		move   MLBLineMovement
		favors betting.Side
	}{
		{"moneyline toward home", MLBLineMovement{MoneylineCents: 25}, betting.SideHome},
		{"moneyline toward away", MLBLineMovement{MoneylineCents: -25}, betting.SideAway},
		{"total up", MLBLineMovement{TotalRuns: 1.0}, betting.SideOver},
		{"total down", MLBLineMovement{TotalRuns: -1.0}, betting.SideUnder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Analyze(MLBGameInput{
				HomeTeam:     "Cubs",
				AwayTeam:     "Cardinals",
				LineMovement: &tt.move,
			})
			assert.Equal(t, tt.favors, result.Pick.Side)
			assert.Len(t, result.Factors, 1)
		})
	}
}
