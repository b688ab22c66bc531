package analyzer

import (
	"fmt"
	"math"
	"time"

	"github.com/seanpicks/edge/internal/betting"
)

// Signal boost constants. Each matched signal adds its boost onto the
// 0.50 base; the sum is capped at 0.75.
const (
	confidenceBase = 0.50
	confidenceCap  = 0.75

	boostSharpAction  = 0.03
	boostRLM          = 0.03
	boostSteamMove    = 0.04 // strongest single indicator
	boostKeyNumber    = 0.02
	boostLineVariance = 0.02
	boostPublicFade   = 0.02
	injuryBoostCap    = 0.03
	weatherBoostCap   = 0.02
)

// ConfidenceCalculator maps the fixed set of market signals to an
// additive confidence score.
type ConfidenceCalculator struct{}

func NewConfidenceCalculator() *ConfidenceCalculator {
	return &ConfidenceCalculator{}
}

// Calculate returns a confidence in [0.50, 0.75]. It is total: missing
// signals are zero values and contribute nothing.
func (cc *ConfidenceCalculator) Calculate(s betting.SignalSet) float64 {
	confidence := confidenceBase

	if s.SharpAction {
		confidence += boostSharpAction
	}
	if s.ReverseLineMovement {
		confidence += boostRLM
	}
	if s.SteamMove {
		confidence += boostSteamMove
	}
	if s.KeyNumberEdge {
		confidence += boostKeyNumber
	}
	if s.LineVariance > 1.0 {
		confidence += boostLineVariance
	}
	if s.PublicFade {
		confidence += boostPublicFade
	}
	if s.InjuryEdge > 0 {
		confidence += math.Min(s.InjuryEdge, injuryBoostCap)
	}
	if s.WeatherEdge > 0 {
		confidence += math.Min(s.WeatherEdge, weatherBoostCap)
	}

	return math.Min(confidence, confidenceCap)
}

// DetectReverseLineMovement reports a line moving against the public:
// public loaded on the favorite while the spread drifts toward the dog,
// or vice versa.
func (cc *ConfidenceCalculator) DetectReverseLineMovement(openingSpread, currentSpread, publicPercentage float64) bool {
	if publicPercentage > 60 {
		return currentSpread > openingSpread
	}
	if publicPercentage < 40 {
		return currentSpread < openingSpread
	}
	return false
}

// steamWindow is how close together book moves must be to count as steam
const steamWindow = 5 * time.Minute

// DetectSteamMove reports rapid synchronized movement: three or more
// books moving the same direction inside the steam window.
func (cc *ConfidenceCalculator) DetectSteamMove(moves []betting.LineMove) bool {
	if len(moves) < 3 {
		return false
	}

	var latest time.Time
	for _, m := range moves {
		if m.Timestamp.After(latest) {
			latest = m.Timestamp
		}
	}

	direction := 0
	count := 0
	for _, m := range moves {
		if latest.Sub(m.Timestamp) > steamWindow {
			continue
		}
		if count == 0 {
			direction = m.Direction
		} else if m.Direction != direction {
			return false
		}
		count++
	}

	return count >= 3
}

// nflKeyNumbers are the margins games most often land on
var nflKeyNumbers = []float64{3, 7, 10}

// CheckKeyNumber reports whether a spread sits within half a point of a
// key number, with a display reason when it does.
func (cc *ConfidenceCalculator) CheckKeyNumber(spread float64) (bool, string) {
	for _, key := range nflKeyNumbers {
		if math.Abs(math.Abs(spread)-key) <= 0.5 {
			if spread > 0 {
				return true, fmt.Sprintf("Getting %+.1f (crosses %.0f)", spread, key)
			}
			if math.Abs(spread) < key {
				return true, fmt.Sprintf("Giving %.1f (under %.0f)", spread, key)
			}
		}
	}
	return false, ""
}

// SharpSquareVariance returns the absolute gap between the average line
// at sharp books and at square books. A wide gap suggests value.
func (cc *ConfidenceCalculator) SharpSquareVariance(sharpBooks, squareBooks map[string]float64) float64 {
	if len(sharpBooks) == 0 || len(squareBooks) == 0 {
		return 0
	}

	var sharpSum, squareSum float64
	for _, line := range sharpBooks {
		sharpSum += line
	}
	for _, line := range squareBooks {
		squareSum += line
	}

	sharpAvg := sharpSum / float64(len(sharpBooks))
	squareAvg := squareSum / float64(len(squareBooks))

	return math.Abs(sharpAvg - squareAvg)
}

// InjuryReport is one player's injury status
type InjuryReport struct {
	Position string `json:"position"`
	Status   string `json:"status"`
}

// positionImpact weights an OUT player by position
var positionImpact = map[string]float64{
	"QB":   0.03,
	"RB":   0.01,
	"WR":   0.01,
	"OL":   0.005,
	"EDGE": 0.01,
	"CB":   0.01,
}

// InjuryImpact returns the confidence differential from injuries;
// positive favors the away team.
func (cc *ConfidenceCalculator) InjuryImpact(homeInjuries, awayInjuries []InjuryReport) float64 {
	impact := func(injuries []InjuryReport) float64 {
		var total float64
		for _, inj := range injuries {
			if inj.Status == "OUT" {
				total += positionImpact[inj.Position]
			}
		}
		return total
	}

	return impact(awayInjuries) - impact(homeInjuries)
}

// WeatherImpact returns the totals-market edge from weather conditions.
// All components favor the under except extreme heat.
func (cc *ConfidenceCalculator) WeatherImpact(w *betting.Weather) float64 {
	if w == nil || w.IsDome {
		return 0
	}

	impact := 0.0

	if w.WindSpeed > 15 {
		impact += 0.01
	}

	if w.Temperature < 32 {
		impact += 0.01
	} else if w.Temperature > 85 {
		impact += 0.005 // heat wears out defenses
	}

	if w.Precipitation {
		impact += 0.015
	}

	return impact
}
