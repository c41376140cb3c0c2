package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dhima/searchlog-poller/internal/api/response"
	"github.com/dhima/searchlog-poller/internal/logging"
	"github.com/dhima/searchlog-poller/internal/models"
	"github.com/dhima/searchlog-poller/internal/scheduler"
)

// StatusHandler reports ingestion progress.
type StatusHandler struct {
	logger    logging.Logger
	scheduler PollScheduler
	cursor    CursorManager
	counter   RecordCounter
}

// NewStatusHandler creates a status handler.
func NewStatusHandler(logger logging.Logger, sched PollScheduler, cursor CursorManager, counter RecordCounter) *StatusHandler {
	return &StatusHandler{
		logger:    logger.With(zap.String("handler", "status")),
		scheduler: sched,
		cursor:    cursor,
		counter:   counter,
	}
}

// StatusResponse represents the ingestion status.
type StatusResponse struct {
	Scheduler     scheduler.Status `json:"scheduler"`
	Cursor        models.Cursor    `json:"cursor"`
	StoredRecords int64            `json:"stored_records" example:"1250"`
} // @name StatusResponse

// Status godoc
// @Summary Get ingestion status
// @Description Returns scheduler state, the stored cursor and the number of stored search logs
// @Tags System
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/v1/status [get]
func (h *StatusHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()

	cur, err := h.cursor.CurrentCursor(ctx)
	if err != nil {
		h.logger.Error("failed to read cursor", zap.Error(err), zap.String("request_id", response.GetRequestID(c)))
		response.InternalServerError(c, "failed to read cursor")
		return
	}

	total, err := h.counter.CountSearchLogs(ctx)
	if err != nil {
		h.logger.Error("failed to count search logs", zap.Error(err), zap.String("request_id", response.GetRequestID(c)))
		response.InternalServerError(c, "failed to count search logs")
		return
	}

	response.OK(c, StatusResponse{
		Scheduler:     h.scheduler.Status(),
		Cursor:        cur,
		StoredRecords: total,
	})
}
