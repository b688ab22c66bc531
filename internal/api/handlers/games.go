package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seanpicks/edge/internal/analyzer"
	"github.com/seanpicks/edge/internal/betting"
	"github.com/seanpicks/edge/internal/services"
	"github.com/seanpicks/edge/pkg/utils"
	"github.com/sirupsen/logrus"
)

const analysisCacheTTL = 5 * time.Minute

type GamesHandler struct {
	aggregator *services.SignalAggregator
	engine     *analyzer.Engine
	mlbEngine  *analyzer.MLBEngine
	cache      *services.CacheService
	logger     *logrus.Logger
}

func NewGamesHandler(aggregator *services.SignalAggregator, engine *analyzer.Engine, cache *services.CacheService, logger *logrus.Logger) *GamesHandler {
	return &GamesHandler{
		aggregator: aggregator,
		engine:     engine,
		mlbEngine:  analyzer.NewMLBEngine(),
		cache:      cache,
		logger:     logger,
	}
}

// parseSport validates the :sport path parameter
func parseSport(c *gin.Context) (betting.Sport, bool) {
	sport := betting.Sport(c.Param("sport"))
	switch sport {
	case betting.SportNFL, betting.SportNCAAF, betting.SportMLB:
		return sport, true
	default:
		utils.SendValidationError(c, "Unsupported sport", "Sport must be one of: nfl, ncaaf, mlb")
		return "", false
	}
}

// GetGames returns upcoming games with lines and enrichment signals
// GET /api/v1/:sport/games
func (h *GamesHandler) GetGames(c *gin.Context) {
	sport, ok := parseSport(c)
	if !ok {
		return
	}

	games, err := h.aggregator.Games(c.Request.Context(), sport)
	if err != nil {
		h.logger.WithError(err).WithField("sport", sport).Error("Failed to fetch games")
		utils.SendUpstreamError(c, "Failed to fetch games from odds provider")
		return
	}

	utils.SendSuccessWithMeta(c, games, &utils.Meta{Total: int64(len(games))})
}

// AnalyzeGames runs the full analysis pipeline over the slate and
// returns only games that produced at least one qualified bet
// GET /api/v1/:sport/analyze
func (h *GamesHandler) AnalyzeGames(c *gin.Context) {
	sport, ok := parseSport(c)
	if !ok {
		return
	}

	cacheKey := services.AnalysisCacheKey(string(sport))
	var cached []betting.AnalysisResult
	if err := h.cache.GetSimple(cacheKey, &cached); err == nil && len(cached) > 0 {
		utils.SendSuccessWithMeta(c, cached, &utils.Meta{Total: int64(len(cached))})
		return
	}

	games, err := h.aggregator.Games(c.Request.Context(), sport)
	if err != nil {
		h.logger.WithError(err).WithField("sport", sport).Error("Failed to fetch games for analysis")
		utils.SendUpstreamError(c, "Failed to fetch games from odds provider")
		return
	}

	results := make([]betting.AnalysisResult, 0, len(games))
	for i := range games {
		result := h.engine.Analyze(&games[i])
		if len(result.Bets) > 0 {
			results = append(results, result)
		}
	}

	if err := h.cache.SetSimple(cacheKey, results, analysisCacheTTL); err != nil {
		h.logger.WithError(err).Warn("Failed to cache analysis results")
	}

	utils.SendSuccessWithMeta(c, results, &utils.Meta{Total: int64(len(results))})
}

// GetGame returns the analysis for a single game by its provider ID
// GET /api/v1/:sport/games/:id
func (h *GamesHandler) GetGame(c *gin.Context) {
	sport, ok := parseSport(c)
	if !ok {
		return
	}

	gameID := c.Param("id")
	games, err := h.aggregator.Games(c.Request.Context(), sport)
	if err != nil {
		h.logger.WithError(err).WithField("sport", sport).Error("Failed to fetch games")
		utils.SendUpstreamError(c, "Failed to fetch games from odds provider")
		return
	}

	for i := range games {
		if games[i].ID == gameID {
			utils.SendSuccess(c, gin.H{
				"game":     games[i],
				"analysis": h.engine.Analyze(&games[i]),
			})
			return
		}
	}

	utils.SendNotFound(c, "Game not found")
}

// AnalyzeMLBGame scores a baseball game from caller-supplied pitching,
// batting and park inputs. Odds feeds do not carry pitcher data, so
// this stays a POST with an explicit body.
// POST /api/v1/mlb/analyze-game
func (h *GamesHandler) AnalyzeMLBGame(c *gin.Context) {
	var input analyzer.MLBGameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	if input.HomeTeam == "" || input.AwayTeam == "" {
		utils.SendValidationError(c, "Missing teams", "home_team and away_team are required")
		return
	}

	utils.SendSuccess(c, h.mlbEngine.Analyze(input))
}
