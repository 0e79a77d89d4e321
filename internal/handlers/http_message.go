package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/thereayou/chatbot-api/internal/handlers/dto"
	"github.com/thereayou/chatbot-api/internal/middleware"
	"github.com/thereayou/chatbot-api/internal/models"
	"github.com/thereayou/chatbot-api/internal/services"
	"github.com/thereayou/chatbot-api/internal/websocket"
	"go.uber.org/zap"
)

// EventPublisher рассылает события об изменении сообщений (websocket.Hub)
type EventPublisher interface {
	Publish(eventType websocket.EventType, payload interface{}) error
}

type MessageCounter interface {
	MessageCreated(sender string)
}

type HTTPMessageHandler struct {
	messages *services.MessageService
	events   EventPublisher
	counter  MessageCounter
}

func NewHTTPMessageHandler(messages *services.MessageService, events EventPublisher, counter MessageCounter) *HTTPMessageHandler {
	return &HTTPMessageHandler{messages: messages, events: events, counter: counter}
}

// ListMessages отдает страницу сообщений: ?skip=&limit=
func (h *HTTPMessageHandler) ListMessages(c *gin.Context) {
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		badRequest(c, err)
		return
	}
	limit, err := queryInt(c, "limit", services.DefaultPageSize)
	if err != nil {
		badRequest(c, err)
		return
	}

	messages, err := h.messages.ListMessages(c.Request.Context(), skip, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, lo.Map(messages, func(m models.Message, _ int) dto.MessageResponse {
		return dto.NewMessageResponse(m)
	}))
}

func (h *HTTPMessageHandler) GetMessage(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	message, err := h.messages.GetMessage(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if message == nil {
		respondError(c, services.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse(*message))
}

// CreateMessage сохраняет сообщение пользователя и эхо-ответ бота
func (h *HTTPMessageHandler) CreateMessage(c *gin.Context) {
	var req dto.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	messages, err := h.messages.Echo(c.Request.Context(), *req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		h.counter.MessageCreated(m.Sender)
		h.publish(c, websocket.TypeMessageCreated, dto.NewMessageResponse(m))
		response = append(response, dto.NewMessageResponse(m))
	}

	c.JSON(http.StatusOK, response)
}

// Respond создает только ответ бота, без сообщения пользователя
func (h *HTTPMessageHandler) Respond(c *gin.Context) {
	var req dto.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	message, err := h.messages.Respond(c.Request.Context(), *req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	h.counter.MessageCreated(message.Sender)
	h.publish(c, websocket.TypeMessageCreated, dto.NewMessageResponse(*message))
	c.JSON(http.StatusOK, dto.NewMessageResponse(*message))
}

// UpdateMessage обновляет content сообщения
func (h *HTTPMessageHandler) UpdateMessage(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	var req dto.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	message, err := h.messages.UpdateMessage(c.Request.Context(), id, *req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	if message == nil {
		respondError(c, services.ErrNotFound)
		return
	}

	h.publish(c, websocket.TypeMessageUpdated, dto.NewMessageResponse(*message))
	c.JSON(http.StatusOK, dto.NewMessageResponse(*message))
}

// DeleteMessage удаляет сообщение и возвращает его
func (h *HTTPMessageHandler) DeleteMessage(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	message, err := h.messages.DeleteMessage(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.publish(c, websocket.TypeMessageDeleted, dto.MessageDeleted{ID: message.ID})
	c.JSON(http.StatusOK, dto.NewMessageResponse(*message))
}

func (h *HTTPMessageHandler) publish(c *gin.Context, eventType websocket.EventType, payload interface{}) {
	if err := h.events.Publish(eventType, payload); err != nil {
		middleware.RequestLogger(c).Warn("publish event", zap.String("type", string(eventType)), zap.Error(err))
	}
}

func pathID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid message id %q", c.Param("id"))
	}
	return uint(id), nil
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %s must be an integer", key)
	}
	if v < 0 {
		return 0, fmt.Errorf("query parameter %s must not be negative", key)
	}
	return v, nil
}
