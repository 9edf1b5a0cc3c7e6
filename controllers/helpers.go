package controllers

import (
	"errors"
	"net/http"

	"civic-reporter-be/services"
	"civic-reporter-be/store"

	"github.com/gin-gonic/gin"
)

// currentUserID returns the identity set by the auth middleware.
func currentUserID(c *gin.Context) string {
	value, exists := c.Get("user_id")
	if !exists {
		return ""
	}
	id, _ := value.(string)
	return id
}

// respondError maps service and store errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message})
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Issue was changed by another request, reload and retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}
