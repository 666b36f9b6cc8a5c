package controllers

import (
	"errors"
	"net/http"

	"funding-application-api/services"

	"github.com/gin-gonic/gin"
)

// respondError maps store errors onto HTTP responses. Storage detail is
// never sent to the client; it has already been logged by the store.
func respondError(c *gin.Context, err error) {
	var (
		validation *services.ValidationError
		incomplete *services.IncompleteApplicationError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  validation.Message,
			"errors": validation.Fields,
		})
	case errors.As(err, &incomplete):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":            "Application is incomplete",
			"missing_sections": incomplete.Missing,
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
