package services

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/seanpicks/edge/internal/betting"
	"github.com/seanpicks/edge/internal/models"
	"github.com/seanpicks/edge/pkg/database"
)

// pushTolerance absorbs float noise when a result lands exactly on the
// line.
const pushTolerance = 0.01

// BetTracker is the ledger of recommended bets and their outcomes
type BetTracker struct {
	db     *database.DB
	logger *logrus.Logger
}

func NewBetTracker(db *database.DB, logger *logrus.Logger) *BetTracker {
	return &BetTracker{
		db:     db,
		logger: logger,
	}
}

// TrackBet records a recommendation, or bumps the appearance counters
// when the same game/market pick is already tracked.
func (t *BetTracker) TrackBet(g *betting.Game, rec betting.BetRecommendation, kellyStake float64) (*models.TrackedBet, error) {
	var existing models.TrackedBet
	err := t.db.Where("game_id = ? AND pick_market = ?", g.ID, string(rec.Market)).First(&existing).Error
	if err == nil {
		now := time.Now().UTC()
		existing.LastSeen = now
		existing.TimesAppeared++
		existing.Confidence = rec.Confidence
		existing.Edge = rec.Edge
		existing.KellyStake = kellyStake
		existing.PickSide = string(rec.Pick.Side)
		existing.PickLine = rec.Pick.Line
		existing.PickLabel = rec.Pick.Label

		if err := t.db.Save(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to update tracked bet: %w", err)
		}
		return &existing, nil
	}

	now := time.Now().UTC()
	bet := models.TrackedBet{
		GameID:        g.ID,
		Sport:         string(g.Sport),
		HomeTeam:      g.HomeTeam,
		AwayTeam:      g.AwayTeam,
		Kickoff:       g.Kickoff,
		PickSide:      string(rec.Pick.Side),
		PickMarket:    string(rec.Pick.Market),
		PickLine:      rec.Pick.Line,
		PickLabel:     rec.Pick.Label,
		Confidence:    rec.Confidence,
		Edge:          rec.Edge,
		KellyStake:    kellyStake,
		Result:        string(betting.ResultPending),
		FirstSeen:     now,
		LastSeen:      now,
		TimesAppeared: 1,
	}

	if len(rec.Reasoning) > 0 {
		if data, err := json.Marshal(rec.Reasoning); err == nil {
			bet.Patterns = datatypes.JSON(data)
		}
	}
	if g.Weather != nil {
		if data, err := json.Marshal(g.Weather); err == nil {
			bet.WeatherData = datatypes.JSON(data)
		}
	}

	if err := t.db.Create(&bet).Error; err != nil {
		return nil, fmt.Errorf("failed to track bet: %w", err)
	}

	t.logger.WithFields(logrus.Fields{
		"game":       g.Matchup(),
		"pick":       rec.Pick.Label,
		"confidence": rec.Confidence,
	}).Info("Tracked new bet")

	return &bet, nil
}

// CreateSnapshot freezes the current best-bet set for one sport
func (t *BetTracker) CreateSnapshot(sport betting.Sport, bets []betting.BetRecommendation) (*models.BetSnapshot, error) {
	data, err := json.Marshal(bets)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot bets: %w", err)
	}

	snapshot := models.BetSnapshot{
		Sport:    string(sport),
		TakenAt:  time.Now().UTC(),
		BetCount: len(bets),
		Bets:     datatypes.JSON(data),
	}
	if err := t.db.Create(&snapshot).Error; err != nil {
		return nil, fmt.Errorf("failed to create snapshot: %w", err)
	}
	return &snapshot, nil
}

// DeleteStaleSnapshots removes snapshots taken before the cutoff and
// reports how many rows were dropped
func (t *BetTracker) DeleteStaleSnapshots(cutoff time.Time) (int64, error) {
	result := t.db.Where("taken_at < ?", cutoff).Delete(&models.BetSnapshot{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete stale snapshots: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Grade settles a structured pick against a final score. It is a pure
// function of its inputs, so re-grading the same triple always yields
// the same result.
func Grade(pick betting.Pick, homeScore, awayScore int) betting.Result {
	switch pick.Market {
	case betting.MarketSpread:
		var margin float64
		switch pick.Side {
		case betting.SideHome:
			margin = float64(homeScore - awayScore)
		case betting.SideAway:
			margin = float64(awayScore - homeScore)
		default:
			return betting.ResultPending
		}
		adjusted := margin + pick.Line
		if math.Abs(adjusted) < pushTolerance {
			return betting.ResultPush
		}
		if adjusted > 0 {
			return betting.ResultWin
		}
		return betting.ResultLoss

	case betting.MarketTotal:
		total := float64(homeScore + awayScore)
		if math.Abs(total-pick.Line) < pushTolerance {
			return betting.ResultPush
		}
		switch pick.Side {
		case betting.SideOver:
			if total > pick.Line {
				return betting.ResultWin
			}
			return betting.ResultLoss
		case betting.SideUnder:
			if total < pick.Line {
				return betting.ResultWin
			}
			return betting.ResultLoss
		}
		return betting.ResultPending

	case betting.MarketMoneyline:
		if homeScore == awayScore {
			return betting.ResultPush
		}
		homeWon := homeScore > awayScore
		if (pick.Side == betting.SideHome) == homeWon {
			return betting.ResultWin
		}
		return betting.ResultLoss
	}

	// Props have no score-based settlement here
	return betting.ResultPending
}

// UpdateGameResult grades every tracked bet for a game against its
// final score.
func (t *BetTracker) UpdateGameResult(gameID string, homeScore, awayScore int) ([]models.TrackedBet, error) {
	var bets []models.TrackedBet
	if err := t.db.Where("game_id = ?", gameID).Find(&bets).Error; err != nil {
		return nil, fmt.Errorf("failed to load tracked bets: %w", err)
	}

	return t.gradeAll(bets, homeScore, awayScore)
}

// UpdateResultByTeams grades pending bets matched by team names, for
// score feeds that do not carry our game IDs.
func (t *BetTracker) UpdateResultByTeams(homeTeam, awayTeam string, homeScore, awayScore int) ([]models.TrackedBet, error) {
	cutoff := time.Now().UTC().Add(-3 * 24 * time.Hour)

	var bets []models.TrackedBet
	err := t.db.Where("home_team = ? AND away_team = ? AND result = ? AND kickoff >= ?",
		homeTeam, awayTeam, string(betting.ResultPending), cutoff).Find(&bets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to match bets by teams: %w", err)
	}

	return t.gradeAll(bets, homeScore, awayScore)
}

func (t *BetTracker) gradeAll(bets []models.TrackedBet, homeScore, awayScore int) ([]models.TrackedBet, error) {
	now := time.Now().UTC()
	graded := make([]models.TrackedBet, 0, len(bets))

	for i := range bets {
		bet := &bets[i]
		result := Grade(bet.Pick(), homeScore, awayScore)
		if result == betting.ResultPending {
			continue
		}

		bet.Result = string(result)
		bet.HomeScore = &homeScore
		bet.AwayScore = &awayScore
		bet.GradedAt = &now

		if err := t.db.Save(bet).Error; err != nil {
			return graded, fmt.Errorf("failed to save graded bet: %w", err)
		}

		t.logger.WithFields(logrus.Fields{
			"game":   fmt.Sprintf("%s @ %s", bet.AwayTeam, bet.HomeTeam),
			"pick":   bet.PickLabel,
			"result": bet.Result,
			"score":  fmt.Sprintf("%d-%d", awayScore, homeScore),
		}).Info("Graded bet")

		graded = append(graded, *bet)
	}

	return graded, nil
}

// ConfidenceBucket is one row of the by-confidence breakdown
type ConfidenceBucket struct {
	Record string `json:"record"`
	Count  int    `json:"count"`
}

// PerformanceStats summarizes settled bets over a window
type PerformanceStats struct {
	Record       string                      `json:"record"`
	WinRate      float64                     `json:"win_rate"`
	Units        float64                     `json:"units"`
	ROI          float64                     `json:"roi"`
	TotalBets    int                         `json:"total_bets"`
	ByConfidence map[string]ConfidenceBucket `json:"by_confidence"`
}

// Performance computes the win/loss record over the last N days
func (t *BetTracker) Performance(days int) (*PerformanceStats, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	var bets []models.TrackedBet
	err := t.db.Where("first_seen >= ? AND result IN ?", cutoff,
		[]string{string(betting.ResultWin), string(betting.ResultLoss), string(betting.ResultPush)}).
		Find(&bets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load settled bets: %w", err)
	}

	stats := &PerformanceStats{
		Record:       "0-0",
		ByConfidence: map[string]ConfidenceBucket{},
	}
	if len(bets) == 0 {
		return stats, nil
	}

	var wins, losses, pushes int
	buckets := map[string][]models.TrackedBet{}
	for _, b := range bets {
		switch b.Result {
		case string(betting.ResultWin):
			wins++
		case string(betting.ResultLoss):
			losses++
		case string(betting.ResultPush):
			pushes++
		}
		buckets[bucketFor(b.Confidence)] = append(buckets[bucketFor(b.Confidence)], b)
	}

	decided := wins + losses
	stats.Record = fmt.Sprintf("%d-%d", wins, losses)
	if pushes > 0 {
		stats.Record = fmt.Sprintf("%d-%d-%d", wins, losses, pushes)
	}
	stats.Units = float64(wins - losses)
	stats.TotalBets = len(bets)
	if decided > 0 {
		stats.WinRate = float64(wins) / float64(decided) * 100
		stats.ROI = stats.Units / float64(decided) * 100
	}

	for name, group := range buckets {
		var w, l int
		for _, b := range group {
			switch b.Result {
			case string(betting.ResultWin):
				w++
			case string(betting.ResultLoss):
				l++
			}
		}
		stats.ByConfidence[name] = ConfidenceBucket{
			Record: fmt.Sprintf("%d-%d", w, l),
			Count:  len(group),
		}
	}

	return stats, nil
}

func bucketFor(confidence float64) string {
	switch {
	case confidence >= 0.60:
		return "high"
	case confidence >= 0.55:
		return "medium"
	default:
		return "low"
	}
}

// PendingBets returns every bet still awaiting a score
func (t *BetTracker) PendingBets() ([]models.TrackedBet, error) {
	var bets []models.TrackedBet
	err := t.db.Where("result = ?", string(betting.ResultPending)).
		Order("kickoff asc").Find(&bets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load pending bets: %w", err)
	}
	return bets, nil
}

// RecentResults returns the latest settled bets, newest kickoff first
func (t *BetTracker) RecentResults(limit int) ([]models.TrackedBet, error) {
	var bets []models.TrackedBet
	err := t.db.Where("result IN ?",
		[]string{string(betting.ResultWin), string(betting.ResultLoss), string(betting.ResultPush)}).
		Order("kickoff desc").Limit(limit).Find(&bets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent results: %w", err)
	}
	return bets, nil
}

// History returns every tracked bet for one game
func (t *BetTracker) History(gameID string) ([]models.TrackedBet, error) {
	var bets []models.TrackedBet
	err := t.db.Where("game_id = ?", gameID).Order("first_seen asc").Find(&bets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load bet history: %w", err)
	}
	return bets, nil
}
