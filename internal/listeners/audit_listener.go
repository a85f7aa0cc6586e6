package listeners

import (
	"context"

	"go.uber.org/zap"

	"dorm-portal/internal/events"
	"dorm-portal/internal/services"
	"dorm-portal/pkg/eventbus"
)

// AuditListener пишет журнал действий. Журнал только дополняется.
type AuditListener struct {
	logService services.LogServiceInterface
	logger     *zap.Logger
}

func NewAuditListener(logService services.LogServiceInterface, logger *zap.Logger) *AuditListener {
	return &AuditListener{logService: logService, logger: logger}
}

func (l *AuditListener) Register(bus *eventbus.Bus) {
	for _, name := range events.Names {
		bus.Subscribe(name, l.handle)
	}
}

func (l *AuditListener) handle(ctx context.Context, event eventbus.Event) error {
	a, ok := event.(events.Auditable)
	if !ok {
		return nil
	}
	for _, entry := range a.LogEntries() {
		if err := l.logService.Record(ctx, entry); err != nil {
			return err
		}
		l.logger.Debug("Запись журнала", zap.String("action", entry.Action), zap.String("user", entry.UserName))
	}
	return nil
}
