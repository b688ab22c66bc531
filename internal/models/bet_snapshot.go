package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BetSnapshot freezes the best-bet set at one poll so line movement
// between polls stays auditable.
type BetSnapshot struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Sport     string         `gorm:"index;not null" json:"sport"`
	TakenAt   time.Time      `gorm:"index;not null" json:"taken_at"`
	BetCount  int            `json:"bet_count"`
	Bets      datatypes.JSON `gorm:"type:jsonb" json:"bets"`
	CreatedAt time.Time      `json:"created_at"`
}

func (BetSnapshot) TableName() string {
	return "bet_snapshots"
}

func (s *BetSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
