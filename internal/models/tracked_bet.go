package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/seanpicks/edge/internal/betting"
)

// TrackedBet is one recommended bet in the ledger. A bet is keyed by
// its game and market: re-tracking the same pick bumps the appearance
// counters instead of inserting a duplicate row.
type TrackedBet struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	GameID   string    `gorm:"index;not null" json:"game_id"`
	Sport    string    `gorm:"not null" json:"sport"`
	HomeTeam string    `gorm:"not null" json:"home_team"`
	AwayTeam string    `gorm:"not null" json:"away_team"`
	Kickoff  time.Time `json:"kickoff"`

	// Structured pick, never re-parsed from the display label
	PickSide   string  `gorm:"not null" json:"pick_side"`
	PickMarket string  `gorm:"index;not null" json:"pick_market"`
	PickLine   float64 `json:"pick_line"`
	PickLabel  string  `gorm:"not null" json:"pick_label"`

	Confidence float64 `gorm:"not null" json:"confidence"`
	Edge       float64 `json:"edge"`
	KellyStake float64 `json:"kelly_stake"`

	Patterns    datatypes.JSON `gorm:"type:jsonb" json:"patterns,omitempty"`
	WeatherData datatypes.JSON `gorm:"type:jsonb" json:"weather_data,omitempty"`

	Result    string     `gorm:"default:PENDING;index" json:"result"`
	HomeScore *int       `json:"home_score,omitempty"`
	AwayScore *int       `json:"away_score,omitempty"`
	GradedAt  *time.Time `json:"graded_at,omitempty"`

	FirstSeen     time.Time `json:"first_seen"`
	LastSeen      time.Time `json:"last_seen"`
	TimesAppeared int       `gorm:"default:1" json:"times_appeared"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TrackedBet) TableName() string {
	return "tracked_bets"
}

// Pick rebuilds the structured pick from the stored columns
func (b *TrackedBet) Pick() betting.Pick {
	return betting.Pick{
		Side:   betting.Side(b.PickSide),
		Market: betting.Market(b.PickMarket),
		Line:   b.PickLine,
		Label:  b.PickLabel,
	}
}

// IsPending reports whether the bet still awaits a final score
func (b *TrackedBet) IsPending() bool {
	return b.Result == string(betting.ResultPending)
}
