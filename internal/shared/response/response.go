package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is the body of every failed request. Message is a fixed,
// client-safe string; details stay in the server log.
type Error struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Message is the body of acknowledgement-only responses.
type Message struct {
	Message string `json:"message"`
}

func JSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.AbortWithStatusJSON(statusCode, Error{Error: message, Code: code})
}

// Common error responses
func BadRequest(c *gin.Context, code string) {
	ErrorResponse(c, http.StatusBadRequest, code, "Bad Request")
}

func InternalServerError(c *gin.Context, code string) {
	ErrorResponse(c, http.StatusInternalServerError, code, "Internal Server Error")
}
