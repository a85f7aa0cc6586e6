package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/repositories"
	"dorm-portal/internal/workflow"
	"dorm-portal/pkg/constants"
	apperrors "dorm-portal/pkg/errors"
	"dorm-portal/pkg/eventbus"
	"dorm-portal/pkg/utils"
)

// EventPublisher - то, что сервисам нужно от шины событий.
type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

// Clock возвращает текущее время. В тестах подменяется.
type Clock func() time.Time

func actorFromCtx(ctx context.Context, logger *zap.Logger) (authz.Actor, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		logger.Warn("Актор не найден в контексте запроса")
		return authz.Actor{}, apperrors.ErrUnauthorized
	}
	return actor, nil
}

func forbidden(message string) error {
	return apperrors.NewForbidden(message)
}

// domainError переводит ошибки правил в ответ API. Остальные ошибки возвращаются как есть.
func domainError(err error) error {
	if err == nil {
		return nil
	}
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		return err
	}

	switch {
	case errors.Is(err, workflow.ErrOutsideEditWindow):
		return apperrors.NewHttpError(http.StatusForbidden, err.Error(), err, nil)
	case errors.Is(err, workflow.ErrNoPendingRequest),
		errors.Is(err, workflow.ErrInvalidTransition):
		return apperrors.NewHttpError(http.StatusConflict, err.Error(), err, nil)
	case errors.Is(err, workflow.ErrInvalidRoom),
		errors.Is(err, workflow.ErrSameRoom),
		errors.Is(err, workflow.ErrNonPositiveDays),
		errors.Is(err, workflow.ErrExceedsRemaining),
		errors.Is(err, workflow.ErrEmptyReason),
		errors.Is(err, workflow.ErrInvalidScore),
		errors.Is(err, workflow.ErrRoomNotOnFloor),
		errors.Is(err, authz.ErrUnknownPosition):
		return apperrors.NewBadRequest(err.Error(), err)
	}
	return err
}

// dropActorCache сбрасывает закешированного актора после смены роли, должностей или комнаты.
func dropActorCache(ctx context.Context, cache repositories.CacheRepositoryInterface, id uuid.UUID, logger *zap.Logger) {
	if err := cache.Del(ctx, fmt.Sprintf(constants.CacheKeyActor, id)); err != nil {
		logger.Warn("Не удалось сбросить кеш актора", zap.String("userID", id.String()), zap.Error(err))
	}
}
