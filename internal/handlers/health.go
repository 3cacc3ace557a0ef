package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/alimgiray/gcrm/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{
		db: db,
	}
}

// HealthCheck reports whether the database answers
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		logger.WithError(err).Error("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"health": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"health": "ok"})
}
