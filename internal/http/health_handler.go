package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger verifica la conectividad del storage. pgxpool.Pool lo cumple.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler mantiene dependencias del endpoint de healthcheck.
type HealthHandler struct {
	logger *zap.Logger
	db     Pinger
}

func NewHealthHandler(logger *zap.Logger, db Pinger) *HealthHandler {
	return &HealthHandler{logger: logger, db: db}
}

// Check maneja GET /api/healthchecker.
func (h *HealthHandler) Check(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(c.Request.Context()); err != nil {
			h.logger.Error("db ping failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the contacts API"})
}
