package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/chatbot-api/pkg/logger"
	"go.uber.org/zap"
)

// EventType определяет типы событий ленты
type EventType string

const (
	TypePing EventType = "ping"

	TypeMessageCreated EventType = "message_created"
	TypeMessageUpdated EventType = "message_updated"
	TypeMessageDeleted EventType = "message_deleted"
)

type Event struct {
	Type      EventType       `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Hub рассылает события всем подключенным клиентам
type Hub struct {
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu  sync.RWMutex
	log *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub создает новый Hub
func NewHub(log *logger.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run запускает hub
func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.sendToAll(message)

		case <-ticker.C:
			h.ping()
		}
	}
}

// Stop останавливает hub и закрывает все соединения
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		close(client.Send)
		if client.Conn != nil {
			client.Conn.Close()
		}
		delete(h.clients, id)
	}
}

// Register регистрирует нового клиента
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Unregister отменяет регистрацию клиента
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// Publish кладет событие в очередь рассылки
func (h *Hub) Publish(eventType EventType, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(Event{Type: eventType, Data: data, Timestamp: time.Now()})
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- msg:
		return nil
	case <-h.ctx.Done():
		return ErrHubStopped
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	h.log.Debug("client registered", zap.String("client", client.ID.String()), zap.String("user", client.Username))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeUnsafe(client)
}

func (h *Hub) removeUnsafe(client *Client) {
	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.Send)
		h.log.Debug("client unregistered", zap.String("client", client.ID.String()), zap.String("user", client.Username))
	}
}

func (h *Hub) sendToAll(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		select {
		case client.Send <- message:
		default:
			// медленный клиент: отключаем, чтобы не держать hub
			h.log.Warn("dropping slow client", zap.String("client", client.ID.String()), zap.Error(ErrClientQueueFull))
			h.removeUnsafe(client)
		}
	}
}

func (h *Hub) ping() {
	msg, err := json.Marshal(Event{Type: TypePing, Timestamp: time.Now()})
	if err != nil {
		return
	}
	h.sendToAll(msg)
}

// ClientCount возвращает количество подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
