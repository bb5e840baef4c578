package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController answers liveness probes
type HealthController struct {
	db Pinger
}

// NewHealthController creates a new HealthController
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"up"`
}

// Health reports service and database status
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} controllers.HealthResponse
// @Failure 503 {object} controllers.HealthResponse
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.Ping(pingCtx); err != nil {
		_ = ctx.Error(err)
		ctx.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Database: "down"})
		return
	}
	ctx.JSON(http.StatusOK, HealthResponse{Status: "ok", Database: "up"})
}

