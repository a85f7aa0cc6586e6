package services

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"dorm-portal/pkg/websocket"
)

// WebSocketNotificationServiceInterface - живая доставка, подменяется в тестах.
type WebSocketNotificationServiceInterface interface {
	SendNotification(userID uuid.UUID, payload interface{}, messageType string) (int, error)
}

type WebSocketNotificationService struct {
	hub    *websocket.Hub
	logger *zap.Logger
}

func NewWebSocketNotificationService(hub *websocket.Hub, logger *zap.Logger) WebSocketNotificationServiceInterface {
	return &WebSocketNotificationService{
		hub:    hub,
		logger: logger,
	}
}

// SendNotification возвращает число соединений, получивших сообщение. 0 - пользователь не в сети.
func (s *WebSocketNotificationService) SendNotification(userID uuid.UUID, payload interface{}, messageType string) (int, error) {
	delivered, err := s.hub.SendMessageToUser(userID, payload, messageType)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("WebSocket-сообщение",
		zap.String("userID", userID.String()),
		zap.String("type", messageType),
		zap.Int("connections", delivered),
	)
	return delivered, nil
}
