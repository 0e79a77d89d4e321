package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/chatbot-api/internal/models"
	"github.com/thereayou/chatbot-api/pkg/auth"
	"github.com/thereayou/chatbot-api/pkg/logger"
	"go.uber.org/zap"
)

const (
	UserKey  = "user"
	TokenKey = "token"
)

// UserResolver находит пользователя по subject токена
type UserResolver interface {
	GetUser(ctx context.Context, username string) (*models.User, error)
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}

// internalError: сбой хранилища это 500, а не ошибка учетных данных
func internalError(c *gin.Context, log *logger.Logger, msg string, err error, fields ...zap.Field) {
	log.Error(msg, append(fields, zap.Error(err))...)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
}

// AuthMiddleware проверяет bearer-токен из заголовка Authorization
func AuthMiddleware(jwtManager *auth.JWTManager, blacklist auth.TokenBlacklist, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractTokenFromHeader(c.Request)
		if err != nil {
			unauthorized(c, "Not authenticated")
			return
		}
		authenticate(c, token, jwtManager, blacklist, users)
	}
}

// WSAuthMiddleware для WebSocket: браузер не умеет ставить заголовки, поэтому токен может прийти в ?token=
func WSAuthMiddleware(jwtManager *auth.JWTManager, blacklist auth.TokenBlacklist, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.Query("token"))
		if token == "" {
			var err error
			if token, err = auth.ExtractTokenFromHeader(c.Request); err != nil {
				unauthorized(c, "Not authenticated")
				return
			}
		}
		authenticate(c, token, jwtManager, blacklist, users)
	}
}

func authenticate(c *gin.Context, token string, jwtManager *auth.JWTManager, blacklist auth.TokenBlacklist, users UserResolver) {
	ctx := c.Request.Context()
	log := RequestLogger(c)

	username, err := jwtManager.Subject(token)
	if err != nil {
		unauthorized(c, "Could not validate credentials")
		return
	}

	revoked, err := blacklist.IsRevoked(ctx, token)
	if err != nil {
		// без Redis не можем доказать, что токен не отозван
		internalError(c, log, "blacklist lookup failed", err)
		return
	}
	if revoked {
		unauthorized(c, "Token has been revoked")
		return
	}

	user, err := users.GetUser(ctx, username)
	if err != nil {
		internalError(c, log, "resolve token subject", err, zap.String("subject", username))
		return
	}
	if user == nil {
		unauthorized(c, "Could not validate credentials")
		return
	}

	c.Set(UserKey, user)
	c.Set(TokenKey, token)
	c.Set(loggerKey, log.WithUser(user.Username))
	c.Next()
}

// CurrentUser возвращает пользователя, положенного AuthMiddleware
func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(UserKey).(*models.User)
}

// CurrentToken возвращает сырой токен текущего запроса
func CurrentToken(c *gin.Context) string {
	return c.GetString(TokenKey)
}

// RequestLogger возвращает логгер запроса или nop, если middleware логирования не подключен
func RequestLogger(c *gin.Context) *logger.Logger {
	if l, ok := c.Get(loggerKey); ok {
		if reqLogger, ok := l.(*logger.Logger); ok {
			return reqLogger
		}
	}
	return logger.Nop()
}
