package handlers

import (
	"errors"
	"net/http"

	"merchant-bi-api/internal/services"

	"github.com/gin-gonic/gin"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders err with the status it maps to. Internal errors are recorded on the
// context for the error handler and never leak their message to the client.
func respondError(c *gin.Context, title string, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		message = "An internal error occurred"
	}
	c.JSON(status, ErrorResponse{
		Error:   title,
		Message: message,
	})
}

// badRequest renders a 400 for a malformed parameter
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Invalid request",
		Message: err.Error(),
	})
}
