package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/seanpicks/edge/internal/analyzer"
	"github.com/seanpicks/edge/internal/betting"
	"github.com/seanpicks/edge/internal/services"
	"github.com/seanpicks/edge/pkg/utils"
	"github.com/sirupsen/logrus"
)

type TrackingHandler struct {
	tracker      *services.BetTracker
	aggregator   *services.SignalAggregator
	engine       *analyzer.Engine
	scoreUpdater *services.ScoreUpdaterService
	logger       *logrus.Logger
}

func NewTrackingHandler(tracker *services.BetTracker, aggregator *services.SignalAggregator, engine *analyzer.Engine, scoreUpdater *services.ScoreUpdaterService, logger *logrus.Logger) *TrackingHandler {
	return &TrackingHandler{
		tracker:      tracker,
		aggregator:   aggregator,
		engine:       engine,
		scoreUpdater: scoreUpdater,
		logger:       logger,
	}
}

// TrackBetRequest is the body for manually tracking one bet
type TrackBetRequest struct {
	Game           betting.Game              `json:"game" binding:"required"`
	Recommendation betting.BetRecommendation `json:"recommendation" binding:"required"`
	KellyStake     float64                   `json:"kelly_stake"`
}

// TrackBet records a single recommendation in the ledger
// POST /api/v1/tracking/track-bet
func (h *TrackingHandler) TrackBet(c *gin.Context) {
	var req TrackBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	if req.Game.ID == "" {
		utils.SendValidationError(c, "Missing game ID", "game.id is required")
		return
	}

	bet, err := h.tracker.TrackBet(&req.Game, req.Recommendation, req.KellyStake)
	if err != nil {
		h.logger.WithError(err).Error("Failed to track bet")
		utils.SendInternalError(c, "Failed to track bet")
		return
	}

	utils.SendSuccess(c, bet)
}

// SnapshotRequest is the body for capturing a point-in-time slate
type SnapshotRequest struct {
	Sport betting.Sport               `json:"sport" binding:"required"`
	Bets  []betting.BetRecommendation `json:"bets" binding:"required"`
}

// CreateSnapshot stores the current recommendation set for later review
// POST /api/v1/tracking/snapshot
func (h *TrackingHandler) CreateSnapshot(c *gin.Context) {
	var req SnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	snapshot, err := h.tracker.CreateSnapshot(req.Sport, req.Bets)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create snapshot")
		utils.SendInternalError(c, "Failed to create snapshot")
		return
	}

	utils.SendSuccess(c, snapshot)
}

// GetPerformance returns the win/loss record over a lookback window
// GET /api/v1/tracking/performance?days=30
func (h *TrackingHandler) GetPerformance(c *gin.Context) {
	days := 30
	if d, err := strconv.Atoi(c.DefaultQuery("days", "30")); err == nil && d > 0 {
		days = d
	}

	stats, err := h.tracker.Performance(days)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute performance")
		utils.SendInternalError(c, "Failed to compute performance")
		return
	}

	utils.SendSuccess(c, stats)
}

// GetPending returns ungraded bets ordered by kickoff
// GET /api/v1/tracking/pending
func (h *TrackingHandler) GetPending(c *gin.Context) {
	bets, err := h.tracker.PendingBets()
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch pending bets")
		utils.SendInternalError(c, "Failed to fetch pending bets")
		return
	}

	utils.SendSuccessWithMeta(c, bets, &utils.Meta{Total: int64(len(bets))})
}

// GetResults returns recently graded bets
// GET /api/v1/tracking/results?limit=25
func (h *TrackingHandler) GetResults(c *gin.Context) {
	limit := 25
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "25")); err == nil && l > 0 && l <= 200 {
		limit = l
	}

	bets, err := h.tracker.RecentResults(limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch results")
		utils.SendInternalError(c, "Failed to fetch results")
		return
	}

	utils.SendSuccessWithMeta(c, bets, &utils.Meta{Total: int64(len(bets))})
}

// UpdateScores triggers an immediate score poll and settlement pass
// POST /api/v1/tracking/update-scores
func (h *TrackingHandler) UpdateScores(c *gin.Context) {
	h.scoreUpdater.UpdateScores()
	utils.SendSuccess(c, gin.H{"message": "Score update completed"})
}

// TrackCurrentBestBets analyzes the current slate and records every
// game's best bet, then snapshots the set
// POST /api/v1/tracking/track-current-best-bets?sport=nfl
func (h *TrackingHandler) TrackCurrentBestBets(c *gin.Context) {
	sport := betting.Sport(c.DefaultQuery("sport", string(betting.SportNFL)))
	switch sport {
	case betting.SportNFL, betting.SportNCAAF, betting.SportMLB:
	default:
		utils.SendValidationError(c, "Unsupported sport", "Sport must be one of: nfl, ncaaf, mlb")
		return
	}

	games, err := h.aggregator.Games(c.Request.Context(), sport)
	if err != nil {
		h.logger.WithError(err).WithField("sport", sport).Error("Failed to fetch games")
		utils.SendUpstreamError(c, "Failed to fetch games from odds provider")
		return
	}

	tracked := 0
	var bestBets []betting.BetRecommendation
	for i := range games {
		result := h.engine.Analyze(&games[i])
		if result.BestBet == nil {
			continue
		}
		if _, err := h.tracker.TrackBet(&games[i], *result.BestBet, result.KellyStake); err != nil {
			h.logger.WithError(err).WithField("game", result.Game).Warn("Failed to track best bet")
			continue
		}
		bestBets = append(bestBets, *result.BestBet)
		tracked++
	}

	if len(bestBets) > 0 {
		if _, err := h.tracker.CreateSnapshot(sport, bestBets); err != nil {
			h.logger.WithError(err).Warn("Failed to snapshot best bets")
		}
	}

	utils.SendSuccess(c, gin.H{
		"sport":   sport,
		"games":   len(games),
		"tracked": tracked,
	})
}

// GetHistory returns every tracked bet for one game
// GET /api/v1/tracking/history/:gameId
func (h *TrackingHandler) GetHistory(c *gin.Context) {
	gameID := c.Param("gameId")
	bets, err := h.tracker.History(gameID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch bet history")
		utils.SendInternalError(c, "Failed to fetch bet history")
		return
	}

	if len(bets) == 0 {
		utils.SendNotFound(c, "No tracked bets for game")
		return
	}

	utils.SendSuccessWithMeta(c, bets, &utils.Meta{Total: int64(len(bets))})
}
