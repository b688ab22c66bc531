package parlay

import "errors"

// Leg count bounds for user-submitted parlays. Anything past four legs
// is a lottery ticket, not a bet.
const (
	MinLegs = 2
	MaxLegs = 4
)

var (
	ErrTooFewLegs  = errors.New("parlay must have at least 2 legs")
	ErrTooManyLegs = errors.New("parlays with more than 4 legs are not supported")
)

// CalculationLeg is one user-submitted leg with its win probability
type CalculationLeg struct {
	GameID     string  `json:"game_id"`
	Pick       string  `json:"pick"`
	Confidence float64 `json:"confidence" binding:"required,gt=0,lte=1"`
}

// Calculation is the odds breakdown for a user-submitted parlay
type Calculation struct {
	NumLegs              int     `json:"num_legs"`
	Probability          float64 `json:"probability"`
	Multiplier           float64 `json:"multiplier"`
	Payout               float64 `json:"payout"`
	ExpectedValue        float64 `json:"expected_value"`
	BreakEvenProbability float64 `json:"break_even_probability"`
	Recommendation       string  `json:"recommendation"`
}

// Calculate prices a user-submitted parlay. Leg confidences are treated
// as independent; no correlation bonus applies to manual parlays.
func Calculate(legs []CalculationLeg, stake float64) (*Calculation, error) {
	if len(legs) < MinLegs {
		return nil, ErrTooFewLegs
	}
	if len(legs) > MaxLegs {
		return nil, ErrTooManyLegs
	}

	combined := 1.0
	for _, leg := range legs {
		combined *= leg.Confidence
	}

	multiplier := Multiplier(len(legs))
	payout := stake * multiplier
	ev := combined*payout - stake

	var recommendation string
	switch {
	case ev > 0:
		recommendation = "Positive EV - Good bet"
	case ev > -stake*0.1:
		recommendation = "Slightly negative EV - Proceed with caution"
	default:
		recommendation = "Negative EV - Not recommended"
	}

	return &Calculation{
		NumLegs:              len(legs),
		Probability:          combined,
		Multiplier:           multiplier,
		Payout:               payout,
		ExpectedValue:        ev,
		BreakEvenProbability: 1.0 / multiplier,
		Recommendation:       recommendation,
	}, nil
}
