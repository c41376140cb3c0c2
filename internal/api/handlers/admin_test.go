package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhima/searchlog-poller/internal/logging"
	"github.com/dhima/searchlog-poller/internal/models"
	"github.com/dhima/searchlog-poller/internal/scheduler"
)

type fakeScheduler struct {
	accept   bool
	triggers []string
	status   scheduler.Status
}

func (f *fakeScheduler) TriggerNow(source string) bool {
	f.triggers = append(f.triggers, source)
	return f.accept
}

func (f *fakeScheduler) Status() scheduler.Status { return f.status }

type fakeCursor struct {
	cursor   models.Cursor
	err      error
	resetErr error
	resets   int
}

func (f *fakeCursor) CurrentCursor(context.Context) (models.Cursor, error) { return f.cursor, f.err }

func (f *fakeCursor) ResetCursor(context.Context) error {
	f.resets++
	return f.resetErr
}

type fakeCounter struct {
	n   int64
	err error
}

func (f fakeCounter) CountSearchLogs(context.Context) (int64, error) { return f.n, f.err }

func post(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
	return w
}

func newAdminRouter(cur *fakeCursor, sched *fakeScheduler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAdminHandler(logging.NewNoOpLogger(), cur, sched)
	r := gin.New()
	r.POST("/admin/reset-cursor", h.ResetCursor)
	r.POST("/admin/poll", h.TriggerPoll)
	return r
}

func TestResetCursor_WhenSucceeds_ThenReturns200(t *testing.T) {
	// Arrange
	cur := &fakeCursor{}
	r := newAdminRouter(cur, &fakeScheduler{})

	// Act
	w := post(r, "/admin/reset-cursor")

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, cur.resets)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestResetCursor_WhenStoreFails_ThenReturns500(t *testing.T) {
	r := newAdminRouter(&fakeCursor{resetErr: errors.New("locked")}, &fakeScheduler{})

	w := post(r, "/admin/reset-cursor")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTriggerPoll_WhenIdle_ThenReturns202(t *testing.T) {
	// Arrange
	sched := &fakeScheduler{accept: true}
	r := newAdminRouter(&fakeCursor{}, sched)

	// Act
	w := post(r, "/admin/poll")

	// Assert
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{scheduler.TriggerManual}, sched.triggers)
}

func TestTriggerPoll_WhenAlreadyRunning_ThenReturns409(t *testing.T) {
	r := newAdminRouter(&fakeCursor{}, &fakeScheduler{accept: false})

	w := post(r, "/admin/poll")

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestStatus_WhenAllSourcesAnswer_ThenCombinesThem(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	last := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	cur := &fakeCursor{cursor: models.Cursor{LastPolledEnd: &last, BootstrapCompleted: true}}
	sched := &fakeScheduler{status: scheduler.Status{Runs: 4, Skipped: 1}}
	h := NewStatusHandler(logging.NewNoOpLogger(), sched, cur, fakeCounter{n: 1250})
	r := gin.New()
	r.GET("/api/v1/status", h.Status)

	// Act
	w := get(r, "/api/v1/status")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data StatusResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(1250), body.Data.StoredRecords)
	assert.Equal(t, int64(4), body.Data.Scheduler.Runs)
	assert.True(t, body.Data.Cursor.BootstrapCompleted)
	require.NotNil(t, body.Data.Cursor.LastPolledEnd)
	assert.True(t, last.Equal(*body.Data.Cursor.LastPolledEnd))
}

func TestStatus_WhenCounterFails_ThenReturns500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewStatusHandler(logging.NewNoOpLogger(), &fakeScheduler{}, &fakeCursor{}, fakeCounter{err: errors.New("x")})
	r := gin.New()
	r.GET("/api/v1/status", h.Status)

	w := get(r, "/api/v1/status")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
