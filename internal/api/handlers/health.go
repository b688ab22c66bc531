package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seanpicks/edge/internal/services"
	"github.com/seanpicks/edge/pkg/database"
)

type HealthHandler struct {
	db    *database.DB
	cache *services.CacheService
	hub   *services.WebSocketHub
}

func NewHealthHandler(db *database.DB, cache *services.CacheService, hub *services.WebSocketHub) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: cache,
		hub:   hub,
	}
}

// GetHealth returns liveness plus dependency status
// GET /health
func (h *HealthHandler) GetHealth(c *gin.Context) {
	dbStatus := "ok"
	if sqlDB, err := h.db.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
	}

	cacheStatus := "ok"
	if _, err := h.cache.Exists(c.Request.Context(), "health:probe"); err != nil {
		cacheStatus = "down"
	}

	status := http.StatusOK
	if dbStatus != "ok" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":     dbStatus,
		"service":    "edge",
		"time":       time.Now().UTC(),
		"database":   dbStatus,
		"cache":      cacheStatus,
		"ws_clients": h.hub.ClientCount(),
	})
}
