package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dorm-portal/internal/dto"
	"dorm-portal/internal/entities"
	"dorm-portal/internal/events"
	"dorm-portal/internal/repositories"
	"dorm-portal/pkg/constants"
	"dorm-portal/pkg/metrics"
	"dorm-portal/pkg/types"
	"dorm-portal/pkg/websocket"
)

type NotificationServiceInterface interface {
	Deliver(ctx context.Context, notice events.Notice) (*entities.Notification, error)
	ListMine(ctx context.Context, filter types.Filter) ([]entities.Notification, uint64, error)
	UnreadCount(ctx context.Context) (*dto.UnreadCountDTO, error)
	MarkRead(ctx context.Context, id uint64) error
	MarkAllRead(ctx context.Context) (*dto.MarkedReadDTO, error)
	Delete(ctx context.Context, id uint64) error
}

type NotificationService struct {
	repo    repositories.NotificationRepositoryInterface
	ws      WebSocketNotificationServiceInterface
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewNotificationService(
	repo repositories.NotificationRepositoryInterface,
	ws WebSocketNotificationServiceInterface,
	m *metrics.Metrics,
	logger *zap.Logger,
) NotificationServiceInterface {
	return &NotificationService{repo: repo, ws: ws, metrics: m, logger: logger}
}

// Deliver сохраняет уведомление и отправляет его в открытые соединения пользователя.
// Ошибка живой доставки не считается ошибкой: уведомление уже в БД.
func (s *NotificationService) Deliver(ctx context.Context, notice events.Notice) (*entities.Notification, error) {
	n, err := s.repo.Create(ctx, &entities.Notification{
		UserID:  notice.UserID,
		Type:    notice.Type,
		Title:   notice.Title,
		Message: notice.Message,
	})
	if err != nil {
		return nil, err
	}
	s.metrics.NotificationSent(n.Type, constants.DeliveryStored)

	payload := websocket.NotificationPayload{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	delivered, err := s.ws.SendNotification(n.UserID, payload, websocket.MessageTypeNotification)
	if err != nil {
		s.logger.Warn("Не удалось отправить уведомление по WebSocket", zap.String("userID", n.UserID.String()), zap.Error(err))
		return n, nil
	}
	if delivered > 0 {
		s.metrics.NotificationSent(n.Type, constants.DeliveryWebsocket)
		s.pushUnread(ctx, n.UserID)
	}
	return n, nil
}

// pushUnread обновляет счётчик колокольчика на всех вкладках пользователя.
func (s *NotificationService) pushUnread(ctx context.Context, userID uuid.UUID) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		s.logger.Warn("Не удалось посчитать непрочитанные", zap.String("userID", userID.String()), zap.Error(err))
		return
	}
	if _, err := s.ws.SendNotification(userID, dto.UnreadCountDTO{Count: count}, websocket.MessageTypeUnreadCount); err != nil {
		s.logger.Warn("Не удалось отправить счётчик", zap.String("userID", userID.String()), zap.Error(err))
	}
}

// ListMine - сначала непрочитанные, затем по времени.
func (s *NotificationService) ListMine(ctx context.Context, filter types.Filter) ([]entities.Notification, uint64, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListByUser(ctx, actor.ID, uint64(filter.Limit), uint64(filter.Offset))
}

func (s *NotificationService) UnreadCount(ctx context.Context) (*dto.UnreadCountDTO, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountUnread(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return &dto.UnreadCountDTO{Count: count}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id uint64) error {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return err
	}
	if err := s.repo.MarkRead(ctx, actor.ID, id); err != nil {
		return err
	}
	s.pushUnread(ctx, actor.ID)
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context) (*dto.MarkedReadDTO, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	n, err := s.repo.MarkAllRead(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	s.pushUnread(ctx, actor.ID)
	return &dto.MarkedReadDTO{Updated: n}, nil
}

func (s *NotificationService) Delete(ctx context.Context, id uint64) error {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, actor.ID, id); err != nil {
		return err
	}
	s.pushUnread(ctx, actor.ID)
	return nil
}
