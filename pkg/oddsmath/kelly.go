package oddsmath

// Default Kelly sizing used for single bets
const (
	DefaultKellyFraction = 0.25 // quarter Kelly
	DefaultKellyCap      = 0.03 // never more than 3% of bankroll
)

// Kelly returns the fraction of bankroll to stake for a bet with the
// given win probability at the given American odds, scaled by a
// fractional-Kelly multiplier and clamped to [0, cap].
//
// Win probabilities outside [0,1] are not validated; callers are
// expected to pass clamped confidence values.
func Kelly(winProbability, americanOdds, fraction, cap float64) float64 {
	b := AmericanToDecimal(americanOdds) - 1.0
	if b <= 0 {
		return 0
	}

	p := winProbability
	q := 1.0 - p

	// f = (bp - q) / b
	raw := (b*p - q) / b
	stake := raw * fraction

	if stake < 0 {
		return 0
	}
	if stake > cap {
		return cap
	}
	return stake
}

// KellyDecimal sizes a bet quoted as a decimal payout multiplier, such
// as a parlay's combined multiplier.
func KellyDecimal(winProbability, decimalOdds, fraction, cap float64) float64 {
	b := decimalOdds - 1.0
	if b <= 0 {
		return 0
	}

	raw := (b*winProbability - (1.0 - winProbability)) / b
	stake := raw * fraction

	if stake < 0 {
		return 0
	}
	if stake > cap {
		return cap
	}
	return stake
}

// QuarterKelly is the standard single-bet sizing: quarter Kelly at -110,
// capped at 3% of bankroll.
func QuarterKelly(winProbability float64) float64 {
	return Kelly(winProbability, StandardOdds, DefaultKellyFraction, DefaultKellyCap)
}
