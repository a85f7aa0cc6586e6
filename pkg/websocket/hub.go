package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Hub хранит соединения по пользователям и доставляет им сообщения.
type Hub struct {
	clients     map[*Client]bool
	userClients map[uuid.UUID][]*Client
	Register    chan *Client
	unregister  chan *Client
	done        chan struct{}
	mu          sync.RWMutex
	logger      *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		userClients: make(map[uuid.UUID][]*Client),
		Register:    make(chan *Client),
		unregister:  make(chan *Client),
		done:        make(chan struct{}),
		logger:      logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.userClients[client.UserID] = append(h.userClients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Debug("Клиент зарегистрирован", zap.String("userID", client.UserID.String()))
		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// Add регистрирует клиента. После остановки хаба возвращает false, не блокируясь.
func (h *Hub) Add(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)

	clients := h.userClients[client.UserID]
	for i, c := range clients {
		if c == client {
			h.userClients[client.UserID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.userClients[client.UserID]) == 0 {
		delete(h.userClients, client.UserID)
	}
	h.logger.Debug("Клиент отсоединен", zap.String("userID", client.UserID.String()))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.Send)
	}
	h.clients = make(map[*Client]bool)
	h.userClients = make(map[uuid.UUID][]*Client)
}

// IsOnline - есть ли у пользователя открытое соединение.
func (h *Hub) IsOnline(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userClients[userID]) > 0
}

// SendMessageToUser кладёт сообщение во все соединения пользователя.
// Переполненный буфер означает зависший клиент: сообщение для него теряется,
// уведомление всё равно лежит в БД. Возвращает число соединений, получивших сообщение.
func (h *Hub) SendMessageToUser(userID uuid.UUID, payload interface{}, messageType string) (int, error) {
	envelope := Envelope{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
	messageBytes, err := json.Marshal(envelope)
	if err != nil {
		return 0, err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, client := range h.userClients[userID] {
		select {
		case client.Send <- messageBytes:
			delivered++
		default:
			h.logger.Warn("Буфер клиента переполнен", zap.String("userID", userID.String()))
		}
	}
	return delivered, nil
}
