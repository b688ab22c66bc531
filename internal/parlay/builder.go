package parlay

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/seanpicks/edge/internal/betting"
	"github.com/seanpicks/edge/pkg/config"
	"github.com/seanpicks/edge/pkg/oddsmath"
)

// Payout multipliers for standard -110 legs, keyed by leg count
var multipliers = map[int]float64{
	2: 2.64,
	3: 6.96,
	4: 13.28,
	5: 25.63,
	6: 49.64,
}

// Multiplier returns the payout multiplier for a leg count, estimating
// geometrically for counts outside the table.
func Multiplier(legs int) float64 {
	if m, ok := multipliers[legs]; ok {
		return m
	}
	return math.Pow(2.64, float64(legs)/2)
}

const (
	correlationBoost = 0.05 // per-leg boost on correlated 2-leg pairs
	threeLegCorrBump = 1.03 // single multiplicative bump for 3-leg
	maxRanked        = 10
	threeLegEVFloor  = -5.0 // drop clearly losing 3-leg combos
	twoLegPool       = 8
	threeLegPool     = 6
)

// Leg is one pick inside a built parlay, shaped for the API response
type Leg struct {
	GameID     string        `json:"game_id"`
	Game       string        `json:"game"`
	Sport      betting.Sport `json:"sport"`
	Pick       betting.Pick  `json:"pick"`
	Confidence float64       `json:"confidence"`
}

// Correlation describes why two legs move together
type Correlation struct {
	Correlated  bool   `json:"correlated"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// Parlay is a ranked multi-leg combination
type Parlay struct {
	ID                  string       `json:"id"`
	Type                string       `json:"type"`
	Legs                []Leg        `json:"legs"`
	AverageConfidence   float64      `json:"average_confidence"`
	CombinedProbability float64      `json:"combined_probability"`
	Multiplier          float64      `json:"multiplier"`
	Stake               float64      `json:"stake"`
	PotentialPayout     float64      `json:"potential_payout"`
	ExpectedValue       float64      `json:"expected_value"`
	Correlation         *Correlation `json:"correlation,omitempty"`
	KellyStake          float64      `json:"kelly_stake"`
	Recommendation      string       `json:"recommendation"`
}

// Recommendations is the builder's full output
type Recommendations struct {
	Parlays      []Parlay `json:"parlays"`
	BestParlay   *Parlay  `json:"best_parlay,omitempty"`
	SuggestedBet float64  `json:"suggested_bet"`
	Analysis     string   `json:"analysis,omitempty"`
	Message      string   `json:"message,omitempty"`
}

// Builder enumerates 2 and 3 leg parlays from scored picks. Four-plus
// leg parlays are excluded as negative EV by policy.
type Builder struct {
	minConfidence      float64
	threeLegConfidence float64
	defaultStake       float64
	kellyFraction      float64
	kellyCap           float64
	logger             *logrus.Logger
}

func NewBuilder(cfg *config.Config, logger *logrus.Logger) *Builder {
	return &Builder{
		minConfidence:      cfg.ParlayMinConfidence,
		threeLegConfidence: cfg.ParlayThreeLegConfidence,
		defaultStake:       cfg.ParlayDefaultStake,
		kellyFraction:      cfg.KellyFraction,
		kellyCap:           cfg.ParlayKellyCap,
		logger:             logger,
	}
}

// Build filters to high-confidence picks, enumerates combinations and
// ranks them by expected value.
func (b *Builder) Build(picks []betting.ScoredPick) Recommendations {
	qualified := make([]betting.ScoredPick, 0, len(picks))
	for _, p := range picks {
		if p.Confidence >= b.minConfidence {
			qualified = append(qualified, p)
		}
	}

	if len(qualified) < 2 {
		return Recommendations{
			Parlays:      []Parlay{},
			SuggestedBet: b.defaultStake,
			Message:      "Not enough high confidence picks for parlays",
		}
	}

	sort.Slice(qualified, func(i, j int) bool {
		return qualified[i].Confidence > qualified[j].Confidence
	})

	parlays := b.twoLegParlays(topN(qualified, twoLegPool))
	parlays = append(parlays, b.threeLegParlays(topN(qualified, threeLegPool))...)

	sort.SliceStable(parlays, func(i, j int) bool {
		return parlays[i].ExpectedValue > parlays[j].ExpectedValue
	})

	if len(parlays) > maxRanked {
		parlays = parlays[:maxRanked]
	}

	result := Recommendations{
		Parlays:      parlays,
		SuggestedBet: b.defaultStake,
	}
	if len(parlays) > 0 {
		result.BestParlay = &parlays[0]
		result.Analysis = b.analysis(result.BestParlay)

		b.logger.WithFields(logrus.Fields{
			"parlays":  len(parlays),
			"best_ev":  result.BestParlay.ExpectedValue,
			"best_leg": result.BestParlay.Legs[0].Pick.Label,
		}).Debug("Parlay recommendations built")
	}

	return result
}

func (b *Builder) twoLegParlays(picks []betting.ScoredPick) []Parlay {
	var parlays []Parlay

	for i := 0; i < len(picks); i++ {
		for j := i + 1; j < len(picks); j++ {
			first, second := picks[i], picks[j]

			corr := CheckCorrelation(first, second)
			var combined float64
			if corr.Correlated {
				combined = (first.Confidence + correlationBoost) * (second.Confidence + correlationBoost)
			} else {
				combined = first.Confidence * second.Confidence
			}

			p := b.assemble(fmt.Sprintf("parlay_2_%d", len(parlays)), "2-TEAM",
				[]betting.ScoredPick{first, second}, combined)
			if corr.Correlated {
				p.Correlation = &corr
			}
			parlays = append(parlays, p)
		}
	}

	return parlays
}

func (b *Builder) threeLegParlays(picks []betting.ScoredPick) []Parlay {
	var parlays []Parlay

	for i := 0; i < len(picks); i++ {
		for j := i + 1; j < len(picks); j++ {
			for k := j + 1; k < len(picks); k++ {
				combo := []betting.ScoredPick{picks[i], picks[j], picks[k]}

				allHigh := true
				for _, p := range combo {
					if p.Confidence < b.threeLegConfidence {
						allHigh = false
						break
					}
				}
				if !allHigh {
					continue
				}

				combined := combo[0].Confidence * combo[1].Confidence * combo[2].Confidence

				// One bump no matter how many pairs correlate
				var corr *Correlation
			pairs:
				for x := 0; x < 3; x++ {
					for y := x + 1; y < 3; y++ {
						if c := CheckCorrelation(combo[x], combo[y]); c.Correlated {
							combined *= threeLegCorrBump
							corr = &c
							break pairs
						}
					}
				}

				p := b.assemble(fmt.Sprintf("parlay_3_%d", len(parlays)), "3-TEAM", combo, combined)
				if p.ExpectedValue <= threeLegEVFloor {
					continue
				}
				p.Correlation = corr
				parlays = append(parlays, p)
			}
		}
	}

	return parlays
}

func (b *Builder) assemble(id, kind string, picks []betting.ScoredPick, combined float64) Parlay {
	legs := make([]Leg, 0, len(picks))
	var confidenceSum float64
	for _, p := range picks {
		confidenceSum += p.Confidence
		legs = append(legs, Leg{
			GameID:     p.GameID,
			Game:       fmt.Sprintf("%s @ %s", p.AwayTeam, p.HomeTeam),
			Sport:      p.Sport,
			Pick:       p.Pick,
			Confidence: p.Confidence,
		})
	}

	multiplier := Multiplier(len(picks))
	payout := b.defaultStake * multiplier

	return Parlay{
		ID:                  id,
		Type:                kind,
		Legs:                legs,
		AverageConfidence:   confidenceSum / float64(len(picks)),
		CombinedProbability: combined,
		Multiplier:          multiplier,
		Stake:               b.defaultStake,
		PotentialPayout:     payout,
		ExpectedValue:       combined*payout - b.defaultStake,
		KellyStake:          oddsmath.KellyDecimal(combined, multiplier, b.kellyFraction, b.kellyCap),
		Recommendation:      recommend(combined*payout - b.defaultStake),
	}
}

// recommend buckets a parlay by its expected value
func recommend(ev float64) string {
	switch {
	case ev > 5:
		return "STRONG BET - Positive EV"
	case ev > 0:
		return "GOOD VALUE - Small edge"
	case ev > -3:
		return "NEUTRAL - Near breakeven"
	default:
		return "AVOID - Negative EV"
	}
}

func (b *Builder) analysis(p *Parlay) string {
	text := fmt.Sprintf("This %d-team parlay combines our top picks with %.1f%% combined win probability. ",
		len(p.Legs), p.CombinedProbability*100)

	if p.ExpectedValue > 0 {
		text += fmt.Sprintf("With +$%.2f expected value, this offers genuine profit potential. ", p.ExpectedValue)
	} else {
		text += fmt.Sprintf("While slightly negative EV ($%.2f), the high confidence makes this playable. ", p.ExpectedValue)
	}

	if p.Correlation != nil && p.Correlation.Correlated {
		text += fmt.Sprintf("These picks are correlated (%s), increasing win probability. ", p.Correlation.Description)
	}

	text += fmt.Sprintf("Recommended bet: $%.0f to win $%.2f.", p.Stake, p.PotentialPayout)
	return text
}

func topN(picks []betting.ScoredPick, n int) []betting.ScoredPick {
	if len(picks) > n {
		return picks[:n]
	}
	return picks
}
