package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSendMessageToUser(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	userID := uuid.New()
	client := &Client{Hub: hub, Send: make(chan []byte, 1), UserID: userID}
	hub.Register <- client
	require.Eventually(t, func() bool { return hub.IsOnline(userID) }, time.Second, 10*time.Millisecond)

	n, err := hub.SendMessageToUser(userID, NotificationPayload{ID: 7, Title: "Отработка"}, MessageTypeNotification)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var env struct {
		Type    string              `json:"type"`
		Payload NotificationPayload `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(<-client.Send, &env))
	assert.Equal(t, MessageTypeNotification, env.Type)
	assert.Equal(t, uint64(7), env.Payload.ID)

	n, err = hub.SendMessageToUser(uuid.New(), "x", MessageTypeNotification)
	require.NoError(t, err)
	assert.Zero(t, n)

	hub.unregister <- client
	require.Eventually(t, func() bool { return !hub.IsOnline(userID) }, time.Second, 10*time.Millisecond)
}

func TestFullBufferDropsMessage(t *testing.T) {
	hub := NewHub(zap.NewNop())
	userID := uuid.New()
	client := &Client{Hub: hub, Send: make(chan []byte), UserID: userID}
	hub.clients[client] = true
	hub.userClients[userID] = []*Client{client}

	n, err := hub.SendMessageToUser(userID, "x", MessageTypeNotification)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAddAfterShutdownDoesNotBlock(t *testing.T) {
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	live := &Client{Hub: hub, Send: make(chan []byte, 1), UserID: uuid.New()}
	assert.True(t, hub.Add(live))

	cancel()
	<-stopped

	added := make(chan bool, 1)
	go func() { added <- hub.Add(&Client{Hub: hub, Send: make(chan []byte, 1), UserID: uuid.New()}) }()
	select {
	case ok := <-added:
		assert.False(t, ok, "остановленный хаб клиентов не принимает")
	case <-time.After(time.Second):
		t.Fatal("регистрация зависла после остановки хаба")
	}
}
