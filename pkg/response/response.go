package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewOKResp returns a new OK response with the given data.
func NewOKResp(data any) Resp {
	return Resp{
		ErrorCode: 0,
		Message:   MessageSuccess,
		Data:      data,
	}
}

// OK sends 200 JSON with data.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, NewOKResp(data))
}

// Error sends error response with status code and message.
func Error(c *gin.Context, err error, data map[string]interface{}) {
	if data == nil {
		data = make(map[string]interface{})
	}

	c.JSON(http.StatusBadRequest, Resp{
		ErrorCode: 1,
		Message:   err.Error(),
		Data:      data,
	})
}

// InternalError sends 500 internal server error.
func InternalError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, Resp{
		ErrorCode: InternalServerErrorCode,
		Message:   DefaultErrorMessage,
	})
}

// Unauthorized sends 401 response.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	c.JSON(http.StatusUnauthorized, Resp{
		ErrorCode: 401,
		Message:   message,
	})
}

// NotFound sends 404 response.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Not found"
	}
	c.JSON(http.StatusNotFound, Resp{
		ErrorCode: 404,
		Message:   message,
	})
}

// Conflict sends 409 response.
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "Conflict"
	}
	c.JSON(http.StatusConflict, Resp{
		ErrorCode: 409,
		Message:   message,
	})
}

// PayloadTooLarge sends 413 for oversized webhook bodies.
func PayloadTooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, Resp{
		ErrorCode: 413,
		Message:   "Payload too large",
	})
}

// RateLimited sends 429 when ingress rate limiting rejects a delivery.
func RateLimited(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, Resp{
		ErrorCode: 429,
		Message:   "Rate limit exceeded",
	})
}
