package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dhima/searchlog-poller/internal/api/response"
	"github.com/dhima/searchlog-poller/internal/logging"
	"github.com/dhima/searchlog-poller/internal/models"
	"github.com/dhima/searchlog-poller/internal/searchlogs"
)

// SearchHandler serves the dashboard queries.
type SearchHandler struct {
	logger logging.Logger
	svc    SearchLogService
}

// NewSearchHandler creates a search handler.
func NewSearchHandler(logger logging.Logger, svc SearchLogService) *SearchHandler {
	return &SearchHandler{
		logger: logger.With(zap.String("handler", "searches")),
		svc:    svc,
	}
}

// ListUsers godoc
// @Summary Searches per user
// @Description Counts searches per user over the last N days, busiest first
// @Tags Searches
// @Produce json
// @Param days query int false "Days to look back" minimum(1) maximum(3650)
// @Success 200 {object} models.UserCountsResponse
// @Failure 400 {object} response.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/v1/users [get]
func (h *SearchHandler) ListUsers(c *gin.Context) {
	var q models.UserCountsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.UserCounts(c.Request.Context(), q.Days)
	if err != nil {
		h.handleServiceError(c, "count searches per user", err)
		return
	}
	response.OK(c, resp)
}

// GetUser godoc
// @Summary One user's searches
// @Description Lists a user's searches over the last N days, newest first, paginated
// @Tags Searches
// @Produce json
// @Param email path string true "User email address"
// @Param days query int false "Days to look back" minimum(1) maximum(3650)
// @Param page query int false "Page number" default(1) minimum(1)
// @Param limit query int false "Items per page" minimum(1) maximum(500)
// @Success 200 {object} models.UserSearchesResponse
// @Failure 400 {object} response.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/v1/users/{email} [get]
func (h *SearchHandler) GetUser(c *gin.Context) {
	var q models.ListUserSearchesQuery
	if !h.bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.UserSearches(c.Request.Context(), c.Param("email"), q)
	if err != nil {
		h.handleServiceError(c, "list user searches", err)
		return
	}
	response.OK(c, resp)
}

// SearchesPerDay godoc
// @Summary Searches per day in a month
// @Description Counts searches per UTC day for a calendar month (defaults to the current month)
// @Tags Searches
// @Produce json
// @Param year query int false "Year" minimum(1970) maximum(9999)
// @Param month query int false "Month" minimum(1) maximum(12)
// @Success 200 {object} models.MonthCountsResponse
// @Failure 400 {object} response.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/v1/searches-per-day [get]
func (h *SearchHandler) SearchesPerDay(c *gin.Context) {
	var q models.MonthCountsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.MonthCounts(c.Request.Context(), q.Year, q.Month)
	if err != nil {
		h.handleServiceError(c, "count searches per day", err)
		return
	}
	response.OK(c, resp)
}

// SearchesByDay godoc
// @Summary Searches on one day
// @Description Lists the searches of one UTC day grouped by user
// @Tags Searches
// @Produce json
// @Param date query string true "Day as YYYY-MM-DD"
// @Success 200 {object} models.DaySearchesResponse
// @Failure 400 {object} response.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/v1/searches-by-day [get]
func (h *SearchHandler) SearchesByDay(c *gin.Context) {
	var q models.DaySearchesQuery
	if !h.bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.DaySearches(c.Request.Context(), q.Date)
	if err != nil {
		h.handleServiceError(c, "list searches by day", err)
		return
	}
	response.OK(c, resp)
}

func (h *SearchHandler) bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		h.logger.Warn("invalid query",
			zap.Error(err),
			zap.String("path", c.FullPath()),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.BadRequest(c, "invalid query parameters", err.Error())
		return false
	}
	return true
}

func (h *SearchHandler) handleServiceError(c *gin.Context, operation string, err error) {
	var validationErr searchlogs.ValidationError
	if errors.As(err, &validationErr) {
		response.BadRequest(c, "validation failed", validationErr.Error())
		return
	}
	h.logger.Error(operation+" failed",
		zap.Error(err),
		zap.String("request_id", response.GetRequestID(c)),
	)
	response.InternalServerError(c, "failed to "+operation)
}
