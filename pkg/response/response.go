package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/brunodmn/escola-admin-api/pkg/errors"
)

// JSON sends a success response with the given payload.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusCreated, payload)
}

// Error converts the error into the `{message}` contract used by every
// endpoint and picks the HTTP status from the typed error.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.JSON(appErr.Status, gin.H{"message": appErr.Message})
}

// Fallback is the shape produced by the recovery handler for unexpected
// panics: a nested error object carrying an optional stack trace.
type Fallback struct {
	Error FallbackBody `json:"error"`
}

type FallbackBody struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// Panic writes the generic fallback body. The stack is only included when
// the server runs outside production.
func Panic(c *gin.Context, message, stack string) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, Fallback{
		Error: FallbackBody{Message: message, Stack: stack},
	})
}
