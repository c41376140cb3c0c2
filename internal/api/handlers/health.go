package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dhima/searchlog-poller/internal/api/response"
	"github.com/dhima/searchlog-poller/internal/logging"
)

const (
	ServiceName    = "searchlog-poller"
	ServiceVersion = "1.0.0"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger logging.Logger
	db     Pinger
}

// NewHealthHandler creates a health handler. db may be nil.
func NewHealthHandler(logger logging.Logger, db Pinger) *HealthHandler {
	return &HealthHandler{logger: logger, db: db}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Service string `json:"service" example:"searchlog-poller"`
	Version string `json:"version" example:"1.0.0"`
} // @name HealthResponse

// Health godoc
// @Summary Health check endpoint
// @Description Returns ok when the service and its database are reachable
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	status, code := "ok", http.StatusOK
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Warn("health check: database unreachable",
				zap.Error(err),
				zap.String("request_id", response.GetRequestID(c)))
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}

	response.Success(c, code, HealthResponse{
		Status:  status,
		Service: ServiceName,
		Version: ServiceVersion,
	}, "")
}
