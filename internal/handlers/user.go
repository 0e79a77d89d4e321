package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/chatbot-api/internal/handlers/dto"
	"github.com/thereayou/chatbot-api/internal/middleware"
	"github.com/thereayou/chatbot-api/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Register создает пользователя; занятый username дает 400
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	existing, err := h.users.GetUser(ctx, req.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	if existing != nil {
		respondError(c, services.ErrDuplicateUsername)
		return
	}

	user, err := h.users.CreateUser(ctx, req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserResponse{ID: user.ID, Username: user.Username})
}

// GetMe возвращает информацию о текущем пользователе
func (h *UserHandler) GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, dto.UserResponse{ID: user.ID, Username: user.Username})
}
