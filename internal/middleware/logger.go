package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/chatbot-api/pkg/logger"
	"go.uber.org/zap"
)

const (
	loggerKey       = "logger"
	RequestIDHeader = "X-Request-ID"
)

// Logging присваивает запросу X-Request-ID и пишет одну строку лога на запрос
func Logging(base *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		c.Set(loggerKey, base.WithRequestID(requestID))

		start := time.Now()
		c.Next()

		reqLogger := RequestLogger(c)
		reqLogger.LogRequest(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))

		for _, err := range c.Errors {
			reqLogger.Error("request error", zap.Error(err.Err))
		}
	}
}

// Recovery ловит панику хендлера, логирует стек и отвечает 500
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				RequestLogger(c).Error("panic recovered",
					zap.Any("panic", r),
					zap.Stack("stack"),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
			}
		}()
		c.Next()
	}
}
