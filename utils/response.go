package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Wire shapes for the overlay endpoints: every success body carries
// success:true, every error body is {"error": "<message>"}.

func SuccessResponse(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for key, value := range payload {
		body[key] = value
	}
	c.JSON(http.StatusOK, body)
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}

func BadRequestResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, message)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, message)
}

func ConflictResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusConflict, message)
}

// InternalServerErrorResponse deliberately hides the underlying failure from
// the client; the detail goes to the server log instead.
func InternalServerErrorResponse(c *gin.Context) {
	ErrorResponse(c, http.StatusInternalServerError, "Server error")
}
