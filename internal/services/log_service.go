package services

import (
	"context"

	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/entities"
	"dorm-portal/internal/repositories"
	"dorm-portal/pkg/types"
)

type LogServiceInterface interface {
	Record(ctx context.Context, entry entities.LogEntry) error
	List(ctx context.Context, filter types.Filter) ([]entities.LogEntry, uint64, error)
}

type LogService struct {
	repo   repositories.LogRepositoryInterface
	logger *zap.Logger
}

func NewLogService(repo repositories.LogRepositoryInterface, logger *zap.Logger) LogServiceInterface {
	return &LogService{repo: repo, logger: logger}
}

func (s *LogService) Record(ctx context.Context, entry entities.LogEntry) error {
	return s.repo.Create(ctx, &entry)
}

func (s *LogService) List(ctx context.Context, filter types.Filter) ([]entities.LogEntry, uint64, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, 0, err
	}
	if !authz.CanViewLogs(actor) {
		return nil, 0, forbidden("Журнал доступен персоналу и председателю совета")
	}
	return s.repo.List(ctx, filter)
}
