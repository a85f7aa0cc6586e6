package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/dto"
	"dorm-portal/internal/events"
	"dorm-portal/pkg/types"
	"dorm-portal/pkg/websocket"
)

func TestDeliverStoresAndPushesToOnlineUsers(t *testing.T) {
	online := testActor(authz.RoleMember, "301")
	offline := uuid.New()
	repo := &fakeNotificationRepo{}
	ws := &fakeWS{online: map[uuid.UUID]bool{online.ID: true}}
	svc := NewNotificationService(repo, ws, nil, zap.NewNop())

	_, err := svc.Deliver(context.Background(), events.Notice{UserID: online.ID, Type: "room_approved", Title: "Комната", Message: "301"})
	require.NoError(t, err)
	_, err = svc.Deliver(context.Background(), events.Notice{UserID: offline, Type: "room_approved", Title: "Комната", Message: "302"})
	require.NoError(t, err)

	assert.Len(t, repo.items, 2, "офлайн-пользователь получит уведомление из БД")
	require.Len(t, ws.sent, 2)
	assert.Equal(t, websocket.MessageTypeNotification, ws.sent[0].Type)
	assert.Equal(t, websocket.MessageTypeUnreadCount, ws.sent[1].Type)
	assert.Equal(t, dto.UnreadCountDTO{Count: 1}, ws.sent[1].Payload)
}

func TestNotificationReadFlow(t *testing.T) {
	me := testActor(authz.RoleMember, "301")
	other := uuid.New()
	repo := &fakeNotificationRepo{}
	ws := &fakeWS{online: map[uuid.UUID]bool{}}
	svc := NewNotificationService(repo, ws, nil, zap.NewNop())
	ctx := ctxAs(me)

	var ids []uint64
	for i := 0; i < 3; i++ {
		n, err := svc.Deliver(ctx, events.Notice{UserID: me.ID, Type: "task_assigned", Title: "Задача"})
		require.NoError(t, err)
		ids = append(ids, n.ID)
	}
	foreign, err := svc.Deliver(ctx, events.Notice{UserID: other, Type: "task_assigned", Title: "Чужое"})
	require.NoError(t, err)

	unread, err := svc.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, unread.Count)

	require.NoError(t, svc.MarkRead(ctx, ids[0]))
	assert.Error(t, svc.MarkRead(ctx, foreign.ID), "чужое уведомление не найдено")

	marked, err := svc.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked.Updated)

	require.NoError(t, svc.Delete(ctx, ids[1]))
	list, total, err := svc.ListMine(ctx, types.Filter{Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
	assert.Len(t, list, 2)

	_, err = svc.UnreadCount(context.Background())
	assert.Error(t, err, "без актора")
}
