package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dhima/searchlog-poller/internal/api/response"
	"github.com/dhima/searchlog-poller/internal/logging"
	"github.com/dhima/searchlog-poller/internal/scheduler"
)

// AdminHandler serves the operator actions.
type AdminHandler struct {
	logger    logging.Logger
	cursor    CursorManager
	scheduler PollScheduler
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(logger logging.Logger, cursor CursorManager, sched PollScheduler) *AdminHandler {
	return &AdminHandler{
		logger:    logger.With(zap.String("handler", "admin")),
		cursor:    cursor,
		scheduler: sched,
	}
}

// ResetCursor godoc
// @Summary Reset the ingestion cursor
// @Description Deletes the stored cursor and bootstrap flag; the next cycle re-runs the initial backfill. Stored search logs are kept.
// @Tags Admin
// @Produce json
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /admin/reset-cursor [post]
func (h *AdminHandler) ResetCursor(c *gin.Context) {
	if err := h.cursor.ResetCursor(c.Request.Context()); err != nil {
		h.logger.Error("cursor reset failed", zap.Error(err), zap.String("request_id", response.GetRequestID(c)))
		response.InternalServerError(c, "failed to reset cursor")
		return
	}

	h.logger.Info("cursor reset via admin API", zap.String("request_id", response.GetRequestID(c)))
	response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "cursor and bootstrap flag reset")
}

// TriggerPoll godoc
// @Summary Start a poll cycle now
// @Description Starts a poll cycle in the background unless one is already running
// @Tags Admin
// @Produce json
// @Success 202 {object} response.SuccessResponse
// @Failure 409 {object} response.ErrorResponse "A poll cycle is already running"
// @Router /admin/poll [post]
func (h *AdminHandler) TriggerPoll(c *gin.Context) {
	if !h.scheduler.TriggerNow(scheduler.TriggerManual) {
		response.Conflict(c, "poll already running", nil)
		return
	}
	h.logger.Info("manual poll started", zap.String("request_id", response.GetRequestID(c)))
	response.Accepted(c, "poll started")
}
