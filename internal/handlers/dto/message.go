package dto

import "github.com/thereayou/chatbot-api/internal/models"

// MessageRequest: content обязателен, но может быть пустой строкой
type MessageRequest struct {
	Content *string `json:"content" binding:"required"`
}

type MessageResponse struct {
	ID      uint   `json:"id"`
	Content string `json:"content"`
	Sender  string `json:"sender"`
}

func NewMessageResponse(m models.Message) MessageResponse {
	return MessageResponse{ID: m.ID, Content: m.Content, Sender: m.Sender}
}

// MessageDeleted payload события удаления для ленты
type MessageDeleted struct {
	ID uint `json:"id"`
}
