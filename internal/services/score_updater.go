package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/seanpicks/edge/internal/betting"
	"github.com/seanpicks/edge/internal/models"
	"github.com/seanpicks/edge/internal/providers"
)

// ScoreUpdaterService polls final scores on a schedule and settles
// pending tracked bets. The odds API feed is primary; the ESPN
// scoreboard backs it up when games are missing from the feed.
type ScoreUpdaterService struct {
	tracker    *BetTracker
	aggregator *SignalAggregator
	espn       *providers.ESPNClient
	hub        *WebSocketHub
	logger     *logrus.Logger
	cron       *cron.Cron
	schedule   string
	sports     []betting.Sport

	mu        sync.Mutex
	isRunning bool
}

func NewScoreUpdaterService(
	tracker *BetTracker,
	aggregator *SignalAggregator,
	espn *providers.ESPNClient,
	hub *WebSocketHub,
	logger *logrus.Logger,
	schedule string,
	sports []betting.Sport,
) *ScoreUpdaterService {
	return &ScoreUpdaterService{
		tracker:    tracker,
		aggregator: aggregator,
		espn:       espn,
		hub:        hub,
		logger:     logger,
		cron:       cron.New(),
		schedule:   schedule,
		sports:     sports,
	}
}

// cronSchedule turns a bare duration like "30m" into the "@every"
// descriptor cron understands. Full cron specs and "@" descriptors
// pass through untouched; an unparseable value falls back to 30m.
func cronSchedule(raw string) string {
	if strings.HasPrefix(raw, "@") || strings.Contains(raw, " ") {
		return raw
	}
	if _, err := time.ParseDuration(raw); err != nil {
		return "@every 30m"
	}
	return fmt.Sprintf("@every %s", raw)
}

// Start begins scheduled score polling
func (s *ScoreUpdaterService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("score updater is already running")
	}

	if _, err := s.cron.AddFunc(cronSchedule(s.schedule), s.UpdateScores); err != nil {
		return fmt.Errorf("failed to schedule score updater: %w", err)
	}

	// Schedule daily snapshot cleanup
	if _, err := s.cron.AddFunc("0 3 * * *", s.cleanupOldSnapshots); err != nil {
		return fmt.Errorf("failed to schedule snapshot cleanup: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	// Run initial poll
	go s.UpdateScores()

	s.logger.Info("Score updater service started")
	return nil
}

// Stop halts score polling
func (s *ScoreUpdaterService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Score updater service stopped")
}

// Snapshots older than this are dropped by the daily cleanup.
const snapshotRetention = 30 * 24 * time.Hour

// cleanupOldSnapshots removes slate snapshots past the retention window
func (s *ScoreUpdaterService) cleanupOldSnapshots() {
	s.logger.Info("Starting daily snapshot cleanup")

	removed, err := s.tracker.DeleteStaleSnapshots(time.Now().UTC().Add(-snapshotRetention))
	if err != nil {
		s.logger.Errorf("Failed to clean up snapshots: %v", err)
		return
	}

	s.logger.Infof("Cleaned up %d stale snapshots", removed)
}

// UpdateScores runs one settlement pass over every configured sport
func (s *ScoreUpdaterService) UpdateScores() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var graded []models.TrackedBet
	for _, sport := range s.sports {
		graded = append(graded, s.updateSport(ctx, sport)...)
	}

	if len(graded) > 0 {
		s.logger.WithField("graded", len(graded)).Info("Score update pass settled bets")
		s.broadcast(graded)
	}
}

func (s *ScoreUpdaterService) updateSport(ctx context.Context, sport betting.Sport) []models.TrackedBet {
	var graded []models.TrackedBet

	scores, err := s.aggregator.Scores(ctx, sport, 1)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"sport": sport,
			"error": err.Error(),
		}).Warn("Odds API scores unavailable, trying ESPN")
	} else {
		for _, score := range scores {
			bets, err := s.tracker.UpdateGameResult(score.GameID, score.HomeScore, score.AwayScore)
			if err != nil {
				s.logger.Errorf("Failed to grade game %s: %v", score.GameID, err)
				continue
			}
			graded = append(graded, bets...)
		}
	}

	// ESPN catches games the odds feed missed, matched by team names
	board, err := s.espn.GetScoreboard(ctx, sport)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"sport": sport,
			"error": err.Error(),
		}).Warn("ESPN scoreboard unavailable")
		return graded
	}

	for _, game := range board {
		if !game.Completed {
			continue
		}
		bets, err := s.tracker.UpdateResultByTeams(game.HomeTeam, game.AwayTeam, game.HomeScore, game.AwayScore)
		if err != nil {
			s.logger.Errorf("Failed to grade %s @ %s: %v", game.AwayTeam, game.HomeTeam, err)
			continue
		}
		graded = append(graded, bets...)
	}

	return graded
}

func (s *ScoreUpdaterService) broadcast(graded []models.TrackedBet) {
	if s.hub == nil {
		return
	}
	for _, bet := range graded {
		s.hub.BroadcastJSON(map[string]interface{}{
			"type":   "bet_settled",
			"game":   fmt.Sprintf("%s @ %s", bet.AwayTeam, bet.HomeTeam),
			"pick":   bet.PickLabel,
			"result": bet.Result,
		})
	}
}
