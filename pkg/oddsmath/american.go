package oddsmath

import "math"

// Standard juice on point spreads and totals
const StandardOdds = -110.0

// BreakEvenAtStandard is the win rate needed to break even at -110
const BreakEvenAtStandard = 0.524

// AmericanToDecimal converts American odds to decimal odds.
// -110 -> 1.909, +150 -> 2.50
func AmericanToDecimal(american float64) float64 {
	if american < 0 {
		return (100.0 / math.Abs(american)) + 1.0
	}
	return (american / 100.0) + 1.0
}

// DecimalToImpliedProbability converts decimal odds to the probability
// the price implies. 2.00 -> 0.50
func DecimalToImpliedProbability(decimal float64) float64 {
	if decimal <= 0 {
		return 0
	}
	return 1.0 / decimal
}

// AmericanToImpliedProbability converts American odds directly to
// implied probability.
func AmericanToImpliedProbability(american float64) float64 {
	return DecimalToImpliedProbability(AmericanToDecimal(american))
}

// EdgeOverBreakEven returns the estimated edge in percentage points of
// a win probability against the -110 break-even rate.
func EdgeOverBreakEven(winProbability float64) float64 {
	return (winProbability - BreakEvenAtStandard) * 100.0
}

// ExpectedValue returns the EV in dollars of a stake at the given win
// probability and payout multiplier (total return per unit staked).
func ExpectedValue(winProbability, stake, multiplier float64) float64 {
	return winProbability*stake*multiplier - stake
}
