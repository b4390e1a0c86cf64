package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brunodmn/escola-admin-api/internal/middleware"
	"github.com/brunodmn/escola-admin-api/internal/models"
	appErrors "github.com/brunodmn/escola-admin-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// idParam parses the :id route parameter. Non-numeric ids are a client
// error, answered with the canonical invalid-id message.
func idParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "ID inválido.")
	}
	return id, nil
}
