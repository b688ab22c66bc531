package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/seanpicks/edge/internal/betting"
)

func TestCalculateBaseAndCap(t *testing.T) {
	cc := NewConfidenceCalculator()

	// No signals: stays at the base
	assert.Equal(t, 0.50, cc.Calculate(betting.SignalSet{}))

	// Everything firing maxes out at the cap
	all := betting.SignalSet{
		SharpAction:         true,
		ReverseLineMovement: true,
		SteamMove:           true,
		KeyNumberEdge:       true,
		LineVariance:        2.5,
		PublicFade:          true,
		InjuryEdge:          0.10,
		WeatherEdge:         0.10,
	}
	assert.Equal(t, 0.75, cc.Calculate(all))
}

func TestCalculateIndividualBoosts(t *testing.T) {
	cc := NewConfidenceCalculator()

	tests := []struct {
		name     string
		signals  betting.SignalSet
		expected float64
	}{
		{"sharp action", betting.SignalSet{SharpAction: true}, 0.53},
		{"reverse line movement", betting.SignalSet{ReverseLineMovement: true}, 0.53},
		{"steam move", betting.SignalSet{SteamMove: true}, 0.54},
		{"key number", betting.SignalSet{KeyNumberEdge: true}, 0.52},
		{"line variance over 1", betting.SignalSet{LineVariance: 1.5}, 0.52},
		{"line variance under 1 ignored", betting.SignalSet{LineVariance: 0.5}, 0.50},
		{"public fade", betting.SignalSet{PublicFade: true}, 0.52},
		{"injury edge capped", betting.SignalSet{InjuryEdge: 0.08}, 0.53},
		{"weather edge capped", betting.SignalSet{WeatherEdge: 0.08}, 0.52},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, cc.Calculate(tt.signals), 1e-9)
		})
	}
}

func TestCalculateAlwaysInBounds(t *testing.T) {
	cc := NewConfidenceCalculator()

	// Confidence never leaves [base, cap] no matter what comes in
	inputs := []betting.SignalSet{
		{},
		{InjuryEdge: -5, WeatherEdge: -5},
		{InjuryEdge: 100, WeatherEdge: 100, LineVariance: 1000},
		{SharpAction: true, SteamMove: true, InjuryEdge: 0.03, WeatherEdge: 0.02},
	}
	for _, in := range inputs {
		c := cc.Calculate(in)
		assert.GreaterOrEqual(t, c, 0.50)
		assert.LessOrEqual(t, c, 0.75)
	}
}

func TestDetectReverseLineMovement(t *testing.T) {
	cc := NewConfidenceCalculator()

	// Public heavy on the favorite but line drifting toward the dog
	assert.True(t, cc.DetectReverseLineMovement(-3.5, -2.5, 72))
	// Public on the dog, line tightening toward the favorite
	assert.True(t, cc.DetectReverseLineMovement(-2.5, -3.5, 30))
	// Split public: no signal either way
	assert.False(t, cc.DetectReverseLineMovement(-3.5, -2.5, 50))
	// Line moving with the public
	assert.False(t, cc.DetectReverseLineMovement(-2.5, -3.5, 72))
}

func TestDetectSteamMove(t *testing.T) {
	cc := NewConfidenceCalculator()
	now := time.Now()

	move := func(dir int, ago time.Duration) betting.LineMove {
		return betting.LineMove{Direction: dir, Timestamp: now.Add(-ago)}
	}

	// Three books, same direction, inside five minutes
	assert.True(t, cc.DetectSteamMove([]betting.LineMove{
		move(1, 0), move(1, time.Minute), move(1, 3*time.Minute),
	}))

	// Mixed directions is not steam
	assert.False(t, cc.DetectSteamMove([]betting.LineMove{
		move(1, 0), move(-1, time.Minute), move(1, 2*time.Minute),
	}))

	// Too few books
	assert.False(t, cc.DetectSteamMove([]betting.LineMove{
		move(1, 0), move(1, time.Minute),
	}))

	// Moves spread out over an hour
	assert.False(t, cc.DetectSteamMove([]betting.LineMove{
		move(1, 0), move(1, 20*time.Minute), move(1, 40*time.Minute),
	}))
}

func TestCheckKeyNumber(t *testing.T) {
	cc := NewConfidenceCalculator()

	hit, reason := cc.CheckKeyNumber(3.5)
	assert.True(t, hit)
	assert.Contains(t, reason, "Getting")

	hit, reason = cc.CheckKeyNumber(-2.5)
	assert.True(t, hit)
	assert.Contains(t, reason, "Giving")

	hit, _ = cc.CheckKeyNumber(-5.0)
	assert.False(t, hit)
}

func TestInjuryImpact(t *testing.T) {
	cc := NewConfidenceCalculator()

	// Home QB out favors the away team
	impact := cc.InjuryImpact(
		[]InjuryReport{{Position: "QB", Status: "OUT"}},
		nil,
	)
	assert.InDelta(t, -0.03, impact, 1e-9)

	// Questionable players do not count
	impact = cc.InjuryImpact(
		[]InjuryReport{{Position: "QB", Status: "QUESTIONABLE"}},
		nil,
	)
	assert.Equal(t, 0.0, impact)
}

func TestWeatherImpact(t *testing.T) {
	cc := NewConfidenceCalculator()

	// Dome games have no weather edge
	assert.Equal(t, 0.0, cc.WeatherImpact(&betting.Weather{IsDome: true, WindSpeed: 30}))
	assert.Equal(t, 0.0, cc.WeatherImpact(nil))

	// Wind, cold and rain stack
	impact := cc.WeatherImpact(&betting.Weather{
		WindSpeed:     18,
		Temperature:   28,
		Precipitation: true,
	})
	assert.InDelta(t, 0.035, impact, 1e-9)
}
