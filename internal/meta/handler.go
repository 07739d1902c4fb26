package meta

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/minsukim/ptstudio/go-api-server/internal/config"
	"github.com/minsukim/ptstudio/go-api-server/internal/shared/database"
	"github.com/gin-gonic/gin"
)

// Handler handles meta endpoints (health check 등)
type Handler struct {
	cfg *config.Config
	db  *database.DB
}

func NewHandler(cfg *config.Config, db *database.DB) *Handler {
	return &Handler{
		cfg: cfg,
		db:  db,
	}
}

// Health checks service and database health
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	start := time.Now()
	if err := h.db.HealthCheck(ctx); err != nil {
		slog.Error("Health check 실패", "error", err)

		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"service": gin.H{
				"name":        h.cfg.App.Name,
				"environment": h.cfg.App.Env,
			},
			"checks": gin.H{
				"database": gin.H{
					"status": "down",
					"error":  err.Error(),
				},
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"service": gin.H{
			"name":        h.cfg.App.Name,
			"environment": h.cfg.App.Env,
			"port":        h.cfg.App.Port,
		},
		"checks": gin.H{
			"database": gin.H{
				"status":     "up",
				"latency_ms": time.Since(start).Milliseconds(),
			},
		},
	})
}
