package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/chatbot-api/internal/handlers/dto"
	"github.com/thereayou/chatbot-api/internal/middleware"
	"github.com/thereayou/chatbot-api/internal/services"
	"github.com/thereayou/chatbot-api/pkg/auth"
	"go.uber.org/zap"
)

type AuthHandler struct {
	users      *services.UserService
	jwtManager *auth.JWTManager
	blacklist  auth.TokenBlacklist
}

func NewAuthHandler(users *services.UserService, jwtMgr *auth.JWTManager, blacklist auth.TokenBlacklist) *AuthHandler {
	return &AuthHandler{users: users, jwtManager: jwtMgr, blacklist: blacklist}
}

// Token проверяет логин/пароль из формы и выдаёт bearer-токен
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.jwtManager.Generate(user.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.RequestLogger(c).Info("token issued", zap.String("user", user.Username))
	c.JSON(http.StatusOK, dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Logout ставит токен в черный список в Redis до истечения
func (h *AuthHandler) Logout(c *gin.Context) {
	rawToken := middleware.CurrentToken(c)

	exp, err := h.jwtManager.Expiry(rawToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
		return
	}

	if err := h.blacklist.Revoke(c.Request.Context(), rawToken, time.Until(exp)); err != nil {
		if errors.Is(err, auth.ErrBlacklistDisabled) {
			c.JSON(http.StatusNotImplemented, gin.H{"detail": "Logout is not available"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Logged out"})
}
