package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/seanpicks/edge/internal/analyzer"
	"github.com/seanpicks/edge/internal/betting"
	"github.com/seanpicks/edge/internal/parlay"
	"github.com/seanpicks/edge/internal/services"
	"github.com/seanpicks/edge/pkg/utils"
	"github.com/sirupsen/logrus"
)

type ParlayHandler struct {
	aggregator *services.SignalAggregator
	engine     *analyzer.Engine
	builder    *parlay.Builder
	logger     *logrus.Logger
}

func NewParlayHandler(aggregator *services.SignalAggregator, engine *analyzer.Engine, builder *parlay.Builder, logger *logrus.Logger) *ParlayHandler {
	return &ParlayHandler{
		aggregator: aggregator,
		engine:     engine,
		builder:    builder,
		logger:     logger,
	}
}

// GetRecommendations builds parlay combinations from the current
// slate's qualified picks
// GET /api/v1/parlays/recommendations?sport=nfl
func (h *ParlayHandler) GetRecommendations(c *gin.Context) {
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

	var picks []betting.ScoredPick
	for i := range games {
		result := h.engine.Analyze(&games[i])
		if result.BestBet == nil {
			continue
		}
		picks = append(picks, betting.ScoredPick{
			GameID:     games[i].ID,
			Sport:      games[i].Sport,
			HomeTeam:   games[i].HomeTeam,
			AwayTeam:   games[i].AwayTeam,
			Pick:       result.BestBet.Pick,
			Confidence: result.BestBet.Confidence,
			Weather:    games[i].Weather,
		})
	}

	utils.SendSuccess(c, h.builder.Build(picks))
}

// CalculateRequest is the body for pricing a user-assembled parlay
type CalculateRequest struct {
	Legs  []parlay.CalculationLeg `json:"legs" binding:"required"`
	Stake float64                 `json:"stake"`
}

// Calculate prices an arbitrary parlay from caller-supplied legs
// POST /api/v1/parlays/calculate
func (h *ParlayHandler) Calculate(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	if req.Stake <= 0 {
		req.Stake = 10.0
	}

	calc, err := parlay.Calculate(req.Legs, req.Stake)
	if err != nil {
		switch {
		case errors.Is(err, parlay.ErrTooFewLegs):
			utils.SendValidationError(c, "Not enough legs", "A parlay requires at least 2 legs")
		case errors.Is(err, parlay.ErrTooManyLegs):
			utils.SendValidationError(c, "Too many legs", "A parlay supports at most 4 legs")
		default:
			utils.SendValidationError(c, "Invalid parlay", err.Error())
		}
		return
	}

	utils.SendSuccess(c, calc)
}
