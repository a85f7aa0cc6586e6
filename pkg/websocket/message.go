package websocket

import "time"

// Envelope - тип сообщения подсказывает фронтенду, что с ним делать.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

const (
	MessageTypeNotification = "notification"
	MessageTypeUnreadCount  = "unread_count"
)

// NotificationPayload - уведомление для колокольчика.
type NotificationPayload struct {
	ID        uint64    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}
