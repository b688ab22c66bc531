package api

import (
	"github.com/gin-gonic/gin"
	"github.com/seanpicks/edge/internal/analyzer"
	"github.com/seanpicks/edge/internal/api/handlers"
	"github.com/seanpicks/edge/internal/api/middleware"
	"github.com/seanpicks/edge/internal/parlay"
	"github.com/seanpicks/edge/internal/services"
	"github.com/seanpicks/edge/pkg/config"
	"github.com/seanpicks/edge/pkg/database"
	"github.com/sirupsen/logrus"
)

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(
	group *gin.RouterGroup,
	db *database.DB,
	cache *services.CacheService,
	wsHub *services.WebSocketHub,
	cfg *config.Config,
	aggregator *services.SignalAggregator,
	tracker *services.BetTracker,
	scoreUpdater *services.ScoreUpdaterService,
	logger *logrus.Logger,
) {
	engine := analyzer.NewEngine(cfg, logger)
	builder := parlay.NewBuilder(cfg, logger)

	gamesHandler := handlers.NewGamesHandler(aggregator, engine, cache, logger)
	trackingHandler := handlers.NewTrackingHandler(tracker, aggregator, engine, scoreUpdater, logger)
	parlayHandler := handlers.NewParlayHandler(aggregator, engine, builder, logger)

	// Parlay endpoints
	parlays := group.Group("/parlays")
	{
		parlays.GET("/recommendations", parlayHandler.GetRecommendations)
		parlays.POST("/calculate", parlayHandler.Calculate)
	}

	// Tracking endpoints; the write paths require auth
	tracking := group.Group("/tracking")
	{
		tracking.GET("/performance", trackingHandler.GetPerformance)
		tracking.GET("/pending", trackingHandler.GetPending)
		tracking.GET("/results", trackingHandler.GetResults)
		tracking.GET("/history/:gameId", trackingHandler.GetHistory)

		authed := tracking.Group("")
		authed.Use(middleware.AuthRequired(cfg.JWTSecret))
		{
			authed.POST("/track-bet", trackingHandler.TrackBet)
			authed.POST("/snapshot", trackingHandler.CreateSnapshot)
			authed.POST("/update-scores", trackingHandler.UpdateScores)
			authed.POST("/track-current-best-bets", trackingHandler.TrackCurrentBestBets)
		}
	}

	// MLB pitching analysis takes an explicit body
	group.POST("/mlb/analyze-game", gamesHandler.AnalyzeMLBGame)

	// Sport-scoped game endpoints; registered last so the static groups
	// above win over the :sport parameter
	group.GET("/:sport/games", gamesHandler.GetGames)
	group.GET("/:sport/games/:id", gamesHandler.GetGame)
	group.GET("/:sport/analyze", gamesHandler.AnalyzeGames)
}
