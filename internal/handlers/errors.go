package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/chatbot-api/internal/middleware"
	"github.com/thereayou/chatbot-api/internal/services"
	"github.com/thereayou/chatbot-api/pkg/auth"
	"go.uber.org/zap"
)

// respondError единственное место, где ошибки приложения превращаются в HTTP-статусы
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect username or password"})
	case errors.Is(err, auth.ErrPasswordTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"detail": auth.ErrPasswordTooLong.Error()})
	case errors.Is(err, services.ErrDuplicateUsername):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Username already registered"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Message not found"})
	default:
		middleware.RequestLogger(c).Error("internal error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
}
