package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestOK_WhenCalled_ThenWrapsDataInEnvelope(t *testing.T) {
	// Arrange
	c, w := newContext()

	// Act
	OK(c, map[string]int{"count": 3})

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"count":3}}`, w.Body.String())
}

func TestAccepted_WhenCalled_ThenReturns202WithMessageOnly(t *testing.T) {
	c, w := newContext()

	Accepted(c, "poll started")

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"message":"poll started"}`, w.Body.String())
}

func TestError_WhenRequestIDSet_ThenIncludesIt(t *testing.T) {
	// Arrange
	c, w := newContext()
	c.Set(requestIDKey, "req-42")

	// Act
	BadRequest(c, "invalid query parameters", "days must be positive")

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid query parameters", body.Error)
	assert.Equal(t, "days must be positive", body.Details)
	assert.Equal(t, "req-42", body.RequestID)
}

func TestError_WhenStatusHelpersUsed_ThenSetExpectedCodes(t *testing.T) {
	tests := []struct {
		name string
		call func(*gin.Context)
		want int
	}{
		{"internal", func(c *gin.Context) { InternalServerError(c, "x") }, http.StatusInternalServerError},
		{"conflict", func(c *gin.Context) { Conflict(c, "x", nil) }, http.StatusConflict},
		{"unavailable", func(c *gin.Context) { ServiceUnavailable(c, "x") }, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext()

			tt.call(c)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestGetRequestID_WhenMissingOrWrongType_ThenEmpty(t *testing.T) {
	c, _ := newContext()
	assert.Empty(t, GetRequestID(c))

	c.Set(requestIDKey, 123)
	assert.Empty(t, GetRequestID(c))
}
