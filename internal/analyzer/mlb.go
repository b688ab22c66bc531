package analyzer

import (
	"fmt"
	"math"

	"github.com/seanpicks/edge/internal/betting"
)

// MLB confidence runs on a lower band than football: more day-to-day
// variance, so a lower base and a tighter cap.
const (
	mlbBaseConfidence = 0.48
	mlbConfidenceMin  = 0.40
	mlbConfidenceMax  = 0.65
)

// Pitcher holds a starting pitcher's relevant numbers
type Pitcher struct {
	Name     string  `json:"name"`
	ERA      float64 `json:"era"`
	KPer9    float64 `json:"k_per_9"`
	Last3ERA float64 `json:"last_3_era"` // 0 when unknown
}

// TeamBatting holds a lineup's aggregate hitting numbers
type TeamBatting struct {
	OPS float64 `json:"ops"`
}

// Bullpen holds relief corps numbers
type Bullpen struct {
	ERA float64 `json:"era"`
}

// ParkFactors describes how a venue plays
type ParkFactors struct {
	RunsFactor float64 `json:"runs_factor"`
	HRFactor   float64 `json:"hr_factor"`
}

// MLBLineMovement holds sharp-money line movement for a baseball game
type MLBLineMovement struct {
	MoneylineCents float64 `json:"moneyline_cents"`
	TotalRuns      float64 `json:"total_runs"`
}

// MLBGameInput bundles everything the MLB engine looks at for one game
type MLBGameInput struct {
	HomeTeam     string           `json:"home_team"`
	AwayTeam     string           `json:"away_team"`
	HomePitcher  Pitcher          `json:"home_pitcher"`
	AwayPitcher  Pitcher          `json:"away_pitcher"`
	HomeBatting  TeamBatting      `json:"home_batting"`
	AwayBatting  TeamBatting      `json:"away_batting"`
	HomeBullpen  Bullpen          `json:"home_bullpen"`
	AwayBullpen  Bullpen          `json:"away_bullpen"`
	Park         ParkFactors      `json:"park"`
	Weather      *betting.Weather `json:"weather,omitempty"`
	WindBlowing  string           `json:"wind_blowing"` // "out", "in", or ""
	LineMovement *MLBLineMovement `json:"line_movement,omitempty"`
}

// MLBResult is the MLB engine's output
type MLBResult struct {
	Confidence float64      `json:"confidence"`
	Pick       betting.Pick `json:"pick"`
	Factors    []string     `json:"factors"`
}

// mlbEdge is one matched factor and who it favors
type mlbEdge struct {
	boost  float64
	factor string
	favors string // "home", "away", "over", "under"
}

// MLBEngine scores baseball games. Pitching dominates the weighting;
// everything else is a small nudge.
type MLBEngine struct{}

func NewMLBEngine() *MLBEngine {
	return &MLBEngine{}
}

// Analyze combines pitching, hitting, park, weather and sharp-money
// edges into a clamped confidence and a structured pick.
func (m *MLBEngine) Analyze(in MLBGameInput) MLBResult {
	confidence := mlbBaseConfidence

	var edges []mlbEdge
	for _, edge := range []*mlbEdge{
		m.pitcherEdge(in.HomePitcher, in.AwayPitcher),
		m.recentFormEdge(in.HomePitcher, in.AwayPitcher),
		m.bullpenEdge(in.HomeBullpen, in.AwayBullpen),
		m.hittingEdge(in.HomeBatting, in.AwayBatting),
		m.parkEdge(in.Park),
		m.weatherEdge(in.Weather, in.WindBlowing),
		m.lineMovementEdge(in.LineMovement),
	} {
		if edge != nil {
			edges = append(edges, *edge)
			confidence += edge.boost
		}
	}

	confidence = math.Min(math.Max(confidence, mlbConfidenceMin), mlbConfidenceMax)

	factors := make([]string, 0, len(edges))
	for _, e := range edges {
		factors = append(factors, e.factor)
	}

	return MLBResult{
		Confidence: confidence,
		Pick:       m.determinePick(in, confidence, edges),
		Factors:    factors,
	}
}

func (m *MLBEngine) pitcherEdge(home, away Pitcher) *mlbEdge {
	homeERA, awayERA := eraOrDefault(home.ERA), eraOrDefault(away.ERA)
	eraDiff := awayERA - homeERA

	if math.Abs(eraDiff) > 1.0 {
		boost := math.Min(math.Abs(eraDiff)*0.02, 0.06)
		if eraDiff > 0 {
			return &mlbEdge{boost, fmt.Sprintf("Home pitcher ERA advantage: %.2f vs %.2f", homeERA, awayERA), "home"}
		}
		return &mlbEdge{boost, fmt.Sprintf("Away pitcher ERA advantage: %.2f vs %.2f", awayERA, homeERA), "away"}
	}

	homeK9, awayK9 := kRateOrDefault(home.KPer9), kRateOrDefault(away.KPer9)
	if math.Abs(homeK9-awayK9) > 2.0 {
		if homeK9 > awayK9 {
			return &mlbEdge{0.02, fmt.Sprintf("Home pitcher K-rate: %.1f K/9", homeK9), "home"}
		}
		return &mlbEdge{0.02, fmt.Sprintf("Away pitcher K-rate: %.1f K/9", awayK9), "away"}
	}

	return nil
}

func (m *MLBEngine) recentFormEdge(home, away Pitcher) *mlbEdge {
	if home.Last3ERA == 0 && away.Last3ERA == 0 {
		return nil
	}

	homeRecent, awayRecent := eraOrDefault(home.Last3ERA), eraOrDefault(away.Last3ERA)
	diff := awayRecent - homeRecent

	if math.Abs(diff) > 1.5 {
		if diff > 0 {
			return &mlbEdge{0.03, fmt.Sprintf("Home pitcher hot: %.2f ERA last 3", homeRecent), "home"}
		}
		return &mlbEdge{0.03, fmt.Sprintf("Away pitcher hot: %.2f ERA last 3", awayRecent), "away"}
	}

	return nil
}

func (m *MLBEngine) bullpenEdge(home, away Bullpen) *mlbEdge {
	if home.ERA == 0 || away.ERA == 0 {
		return nil
	}

	diff := away.ERA - home.ERA
	if math.Abs(diff) > 0.75 {
		if diff > 0 {
			return &mlbEdge{0.025, fmt.Sprintf("Home bullpen advantage: %.2f ERA", home.ERA), "home"}
		}
		return &mlbEdge{0.025, fmt.Sprintf("Away bullpen advantage: %.2f ERA", away.ERA), "away"}
	}

	return nil
}

func (m *MLBEngine) hittingEdge(home, away TeamBatting) *mlbEdge {
	if home.OPS == 0 || away.OPS == 0 {
		return nil
	}

	if math.Abs(home.OPS-away.OPS) > 0.050 {
		if home.OPS > away.OPS {
			return &mlbEdge{0.02, fmt.Sprintf("Home batting advantage: %.3f OPS", home.OPS), "home"}
		}
		return &mlbEdge{0.02, fmt.Sprintf("Away batting advantage: %.3f OPS", away.OPS), "away"}
	}

	return nil
}

func (m *MLBEngine) parkEdge(park ParkFactors) *mlbEdge {
	if park.RunsFactor > 1.1 {
		return &mlbEdge{0.015, fmt.Sprintf("Hitter-friendly park (factor: %.2f)", park.RunsFactor), "over"}
	}
	if park.RunsFactor > 0 && park.RunsFactor < 0.9 {
		return &mlbEdge{0.015, fmt.Sprintf("Pitcher-friendly park (factor: %.2f)", park.RunsFactor), "under"}
	}
	return nil
}

func (m *MLBEngine) weatherEdge(w *betting.Weather, windBlowing string) *mlbEdge {
	if w == nil || w.IsDome {
		return nil
	}

	if w.WindSpeed > 15 {
		switch windBlowing {
		case "out":
			return &mlbEdge{0.02, fmt.Sprintf("Wind %.0fmph blowing out", w.WindSpeed), "over"}
		case "in":
			return &mlbEdge{0.02, fmt.Sprintf("Wind %.0fmph blowing in", w.WindSpeed), "under"}
		}
	}

	if w.Temperature > 90 {
		return &mlbEdge{0.01, fmt.Sprintf("Hot weather (%.0fF) - ball carries", w.Temperature), "over"}
	}
	if w.Temperature < 50 {
		return &mlbEdge{0.01, fmt.Sprintf("Cold weather (%.0fF) - pitcher advantage", w.Temperature), "under"}
	}

	return nil
}

func (m *MLBEngine) lineMovementEdge(mv *MLBLineMovement) *mlbEdge {
	if mv == nil {
		return nil
	}

	if math.Abs(mv.MoneylineCents) > 20 {
		if mv.MoneylineCents > 0 {
			return &mlbEdge{0.03, fmt.Sprintf("Sharp money on home team (+%.0f cents)", mv.MoneylineCents), "home"}
		}
		return &mlbEdge{0.03, fmt.Sprintf("Sharp money on away team (%.0f cents)", mv.MoneylineCents), "away"}
	}

	if math.Abs(mv.TotalRuns) > 0.5 {
		if mv.TotalRuns > 0 {
			return &mlbEdge{0.02, fmt.Sprintf("Total moved up %.1f runs - sharp over", mv.TotalRuns), "over"}
		}
		return &mlbEdge{0.02, fmt.Sprintf("Total moved down %.1f runs - sharp under", math.Abs(mv.TotalRuns)), "under"}
	}

	return nil
}

// determinePick counts which side the matched edges favor. High
// confidence takes the moneyline, lower confidence takes the run line.
func (m *MLBEngine) determinePick(in MLBGameInput, confidence float64, edges []mlbEdge) betting.Pick {
	var home, away, over, under int
	for _, e := range edges {
		switch e.favors {
		case "home":
			home++
		case "away":
			away++
		case "over":
			over++
		case "under":
			under++
		}
	}

	sidePick := func(side betting.Side, team string) betting.Pick {
		if confidence > 0.55 {
			return betting.Pick{
				Side:   side,
				Market: betting.MarketMoneyline,
				Label:  team + " ML",
			}
		}
		return betting.Pick{
			Side:   side,
			Market: betting.MarketSpread,
			Line:   1.5,
			Label:  team + " +1.5",
		}
	}

	switch {
	case home > away:
		return sidePick(betting.SideHome, in.HomeTeam)
	case away > home:
		return sidePick(betting.SideAway, in.AwayTeam)
	case over > under:
		return betting.Pick{Side: betting.SideOver, Market: betting.MarketTotal, Label: "Over Total"}
	case under > over:
		return betting.Pick{Side: betting.SideUnder, Market: betting.MarketTotal, Label: "Under Total"}
	}

	// No edge either way: default to the better starting pitcher on
	// the run line.
	if eraOrDefault(in.HomePitcher.ERA) < eraOrDefault(in.AwayPitcher.ERA) {
		return sidePick(betting.SideHome, in.HomeTeam)
	}
	return sidePick(betting.SideAway, in.AwayTeam)
}

func eraOrDefault(era float64) float64 {
	if era == 0 {
		return 4.50
	}
	return era
}

func kRateOrDefault(k9 float64) float64 {
	if k9 == 0 {
		return 8.0
	}
	return k9
}
