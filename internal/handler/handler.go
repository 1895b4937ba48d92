// Package handler contains the gin HTTP handlers. Handlers stay thin: bind,
// call a service, map errors to statuses.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ma6di/jobtrackr/internal/domain"
	"github.com/ma6di/jobtrackr/internal/middleware"
	"github.com/ma6di/jobtrackr/internal/service"
)

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(middleware.ContextUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}

	userID, ok := value.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}

	return userID, true
}

func currentSessionID(c *gin.Context) (string, bool) {
	value, exists := c.Get(middleware.ContextSessionID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found"})
		return "", false
	}

	sessionID, ok := value.(string)
	if !ok || sessionID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found"})
		return "", false
	}

	return sessionID, true
}

// respondServiceError maps domain and service errors to HTTP statuses.
func respondServiceError(c *gin.Context, err error, fallback string) {
	var validationErrs domain.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": validationErrs,
		})
		return
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"field":   validationErr.Field,
			"message": validationErr.Message,
			"type":    validationErr.Type,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, domain.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
