// Package response defines the JSON envelope shared by every endpoint.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// requestIDKey mirrors middleware.RequestIDKey; importing middleware here
// would create a cycle.
const requestIDKey = "request_id"

// SuccessResponse wraps successful payloads.
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
} // @name SuccessResponse

// ErrorResponse is returned for every non-2xx status.
type ErrorResponse struct {
	Error     string      `json:"error" example:"invalid query parameters"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty" example:"6f1c7a7e-3c1b-4a63-9d1e-2b1f0c9d8e7a"`
} // @name ErrorResponse

// Success sends data with the given status.
func Success(c *gin.Context, statusCode int, data interface{}, message string) {
	c.JSON(statusCode, SuccessResponse{Data: data, Message: message})
}

// Error sends an error body tagged with the request id.
func Error(c *gin.Context, statusCode int, err string, details interface{}) {
	c.JSON(statusCode, ErrorResponse{
		Error:     err,
		Details:   details,
		RequestID: GetRequestID(c),
	})
}

func BadRequest(c *gin.Context, err string, details interface{}) {
	Error(c, http.StatusBadRequest, err, details)
}

func InternalServerError(c *gin.Context, err string) {
	Error(c, http.StatusInternalServerError, err, nil)
}

func Conflict(c *gin.Context, err string, details interface{}) {
	Error(c, http.StatusConflict, err, details)
}

func ServiceUnavailable(c *gin.Context, err string) {
	Error(c, http.StatusServiceUnavailable, err, nil)
}

// OK sends a 200 with data.
func OK(c *gin.Context, data interface{}) {
	Success(c, http.StatusOK, data, "")
}

// Accepted sends a 202 with a message and no data.
func Accepted(c *gin.Context, message string) {
	Success(c, http.StatusAccepted, nil, message)
}

// GetRequestID returns the id set by the RequestID middleware, or "" when
// the middleware did not run.
func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
