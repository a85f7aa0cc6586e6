package listeners

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"dorm-portal/internal/events"
	"dorm-portal/internal/services"
	"dorm-portal/pkg/eventbus"
)

// NotificationListener превращает события в уведомления пользователям.
type NotificationListener struct {
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewNotificationListener(notificationService services.NotificationServiceInterface, logger *zap.Logger) *NotificationListener {
	return &NotificationListener{notificationService: notificationService, logger: logger}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	for _, name := range events.Names {
		bus.Subscribe(name, l.handle)
	}
	l.logger.Info("NotificationListener подписан на события", zap.Int("events", len(events.Names)))
}

// handle доставляет все уведомления события. Сбой одного получателя не мешает остальным.
func (l *NotificationListener) handle(ctx context.Context, event eventbus.Event) error {
	n, ok := event.(events.Notifier)
	if !ok {
		return nil
	}
	var errs []error
	for _, notice := range n.Notices() {
		if _, err := l.notificationService.Deliver(ctx, notice); err != nil {
			l.logger.Error("Не удалось доставить уведомление",
				zap.String("event", event.Name()),
				zap.String("userID", notice.UserID.String()),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
