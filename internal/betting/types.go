package betting

import (
	"time"
)

// Sport represents the sport type
type Sport string

const (
	SportNFL   Sport = "nfl"
	SportNCAAF Sport = "ncaaf"
	SportMLB   Sport = "mlb"
)

// OddsAPIKey returns The Odds API sport key for this sport
func (s Sport) OddsAPIKey() string {
	switch s {
	case SportNFL:
		return "americanfootball_nfl"
	case SportNCAAF:
		return "americanfootball_ncaaf"
	case SportMLB:
		return "baseball_mlb"
	default:
		return ""
	}
}

// Market represents a bet market
type Market string

const (
	MarketSpread    Market = "SPREAD"
	MarketTotal     Market = "TOTAL"
	MarketMoneyline Market = "MONEYLINE"
	MarketProp      Market = "PROP"
)

// Side represents which side of a market a pick takes
type Side string

const (
	SideHome  Side = "HOME"
	SideAway  Side = "AWAY"
	SideOver  Side = "OVER"
	SideUnder Side = "UNDER"
)

// Result represents the settled outcome of a tracked bet
type Result string

const (
	ResultPending Result = "PENDING"
	ResultWin     Result = "WIN"
	ResultLoss    Result = "LOSS"
	ResultPush    Result = "PUSH"
)

// Pick is the structured form of a bet selection. It is created at
// prediction time and carried through tracking and grading unchanged,
// so grading never has to parse team names back out of display strings.
type Pick struct {
	Side   Side    `json:"side"`
	Market Market  `json:"market"`
	Line   float64 `json:"line"`  // spread from the picked side's perspective, or the total
	Label  string  `json:"label"` // human-readable, e.g. "Buffalo Bills -3.5"
}

// Weather holds game-time weather conditions
type Weather struct {
	Temperature   float64 `json:"temperature"`
	WindSpeed     float64 `json:"wind_speed"`
	Precipitation bool    `json:"precipitation"`
	Conditions    string  `json:"conditions"`
	IsDome        bool    `json:"is_dome"`
}

// PublicBetting holds public/sharp betting split data for one game
type PublicBetting struct {
	PublicPercentage float64 `json:"public_percentage"` // % of bets on the public side
	PublicOn         Side    `json:"public_on"`
	TicketPercentage float64 `json:"ticket_percentage"`
	MoneyPercentage  float64 `json:"money_percentage"`
}

// LineMove is one observed line movement at a single book
type LineMove struct {
	Book      string    `json:"book"`
	Direction int       `json:"direction"` // +1 toward home, -1 toward away
	Delta     float64   `json:"delta"`
	Timestamp time.Time `json:"timestamp"`
}

// Game is one upcoming game with its posted lines and the contextual
// attributes the analyzer feeds on. Attrs is an open bag; everything in
// it is looked up with a default so missing data never breaks analysis.
type Game struct {
	ID            string         `json:"id"`
	Sport         Sport          `json:"sport"`
	HomeTeam      string         `json:"home_team"`
	AwayTeam      string         `json:"away_team"`
	Kickoff       time.Time      `json:"kickoff"`
	Spread        float64        `json:"spread"` // home perspective, negative = home favored
	Total         float64        `json:"total"`
	HomeMoneyline int            `json:"home_moneyline"`
	AwayMoneyline int            `json:"away_moneyline"`
	Bookmakers    []string       `json:"bookmakers,omitempty"`
	Weather       *Weather       `json:"weather,omitempty"`
	Public        *PublicBetting `json:"public,omitempty"`
	LineHistory   []LineMove     `json:"line_history,omitempty"`

	Attrs map[string]interface{} `json:"attrs,omitempty"`
}

// Matchup returns the "Away @ Home" display string
func (g *Game) Matchup() string {
	return g.AwayTeam + " @ " + g.HomeTeam
}

// HomeSpread returns the spread from the home team's perspective
func (g *Game) HomeSpread() float64 {
	return g.Spread
}

// AwaySpread returns the spread from the away team's perspective
func (g *Game) AwaySpread() float64 {
	return -g.Spread
}

// Float looks up a numeric attribute, falling back to def when the key
// is missing or holds a non-numeric value.
func (g *Game) Float(key string, def float64) float64 {
	if g.Attrs == nil {
		return def
	}
	switch v := g.Attrs[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	default:
		return def
	}
}

// Has reports whether an attribute was populated for this game
func (g *Game) Has(key string) bool {
	if g.Attrs == nil {
		return false
	}
	_, ok := g.Attrs[key]
	return ok
}

// Bool looks up a boolean attribute with a default
func (g *Game) Bool(key string) bool {
	if g.Attrs == nil {
		return false
	}
	v, _ := g.Attrs[key].(bool)
	return v
}

// String looks up a string attribute with a default
func (g *Game) String(key, def string) string {
	if g.Attrs == nil {
		return def
	}
	if v, ok := g.Attrs[key].(string); ok {
		return v
	}
	return def
}

// SignalSet is the fixed set of named market signals fed to the
// confidence calculator. Zero values mean "no signal".
type SignalSet struct {
	SharpAction         bool    `json:"sharp_action"`
	ReverseLineMovement bool    `json:"reverse_line_movement"`
	SteamMove           bool    `json:"steam_move"`
	KeyNumberEdge       bool    `json:"key_number_edge"`
	LineVariance        float64 `json:"line_variance"`
	PublicFade          bool    `json:"public_fade"`
	InjuryEdge          float64 `json:"injury_edge"`
	WeatherEdge         float64 `json:"weather_edge"`
}

// BetRecommendation is a single recommended bet for one market
type BetRecommendation struct {
	Market     Market   `json:"market"`
	Pick       Pick     `json:"pick"`
	Confidence float64  `json:"confidence"`
	Edge       float64  `json:"edge"` // percentage points over break-even
	Reasoning  []string `json:"reasoning"`
}

// LiveStrategy is a conditional in-game betting plan entry
type LiveStrategy struct {
	Trigger   string `json:"trigger"`
	Action    string `json:"action"`
	Reasoning string `json:"reasoning"`
}

// AnalysisResult is the full output of analyzing one game
type AnalysisResult struct {
	GameID         string              `json:"game_id"`
	Game           string              `json:"game"`
	Sport          Sport               `json:"sport"`
	Kickoff        time.Time           `json:"kickoff"`
	Bets           []BetRecommendation `json:"bets"`
	BestBet        *BetRecommendation  `json:"best_bet,omitempty"`
	KellyStake     float64             `json:"kelly_stake"`
	LiveStrategies []LiveStrategy      `json:"live_strategies,omitempty"`
	Insights       []string            `json:"insights,omitempty"`
}

// ScoredPick ties a graded pick to its game for parlay building
type ScoredPick struct {
	GameID     string   `json:"game_id"`
	Sport      Sport    `json:"sport"`
	HomeTeam   string   `json:"home_team"`
	AwayTeam   string   `json:"away_team"`
	Pick       Pick     `json:"pick"`
	Confidence float64  `json:"confidence"`
	Weather    *Weather `json:"weather,omitempty"`
}

// FinalScore is a completed game result from a score provider
type FinalScore struct {
	GameID    string `json:"game_id"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	Completed bool   `json:"completed"`
}

// CacheProvider interface for cache operations
type CacheProvider interface {
	SetSimple(key string, value interface{}, expiration time.Duration) error
	GetSimple(key string, dest interface{}) error
}
