package oddsmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmericanToDecimal(t *testing.T) {
	assert.InDelta(t, 1.909, AmericanToDecimal(-110), 0.001)
	assert.InDelta(t, 2.50, AmericanToDecimal(150), 0.001)
	assert.InDelta(t, 1.667, AmericanToDecimal(-150), 0.001)
}

func TestQuarterKellyExample(t *testing.T) {
	// 58% win probability at -110: raw Kelly ~0.076, quarter Kelly ~0.019,
	// which is under the 3% cap so the uncapped value comes back.
	stake := QuarterKelly(0.58)
	assert.InDelta(t, 0.019, stake, 0.001)
}

func TestKellyBounds(t *testing.T) {
	// Negative expectation stakes nothing
	assert.Equal(t, 0.0, QuarterKelly(0.40))
	assert.Equal(t, 0.0, QuarterKelly(0.524))

	// Strong probabilities hit the cap, never exceed it
	assert.Equal(t, DefaultKellyCap, QuarterKelly(0.90))
	assert.Equal(t, DefaultKellyCap, QuarterKelly(0.99))
}

func TestKellyMonotonic(t *testing.T) {
	prev := 0.0
	for p := 0.50; p <= 0.99; p += 0.01 {
		stake := QuarterKelly(p)
		assert.GreaterOrEqual(t, stake, prev, "stake should not decrease as win probability rises (p=%.2f)", p)
		assert.GreaterOrEqual(t, stake, 0.0)
		assert.LessOrEqual(t, stake, DefaultKellyCap)
		prev = stake
	}
}

func TestEdgeOverBreakEven(t *testing.T) {
	assert.InDelta(t, 5.6, EdgeOverBreakEven(0.58), 0.001)
	assert.InDelta(t, 0.0, EdgeOverBreakEven(0.524), 0.001)
}

func TestExpectedValue(t *testing.T) {
	// 2-leg parlay example: 0.60*0.55 combined, $20 at 2.64x
	ev := ExpectedValue(0.60*0.55, 20, 2.64)
	assert.InDelta(t, -2.58, ev, 0.01)
}
