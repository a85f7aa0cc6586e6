package services

import (
	"context"
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"dorm-portal/internal/authz"
	"dorm-portal/internal/dto"
	"dorm-portal/internal/entities"
	"dorm-portal/internal/events"
	"dorm-portal/internal/repositories"
	"dorm-portal/internal/workflow"
	apperrors "dorm-portal/pkg/errors"
	"dorm-portal/pkg/metrics"
	"dorm-portal/pkg/types"
)

type WorkShiftServiceInterface interface {
	Add(ctx context.Context, payload dto.CreateWorkShiftDTO) (*entities.WorkShift, error)
	AssignToRoom(ctx context.Context, payload dto.AssignRoomWorkShiftDTO) ([]entities.WorkShift, error)
	Complete(ctx context.Context, id uint64, days int) (*dto.CompleteWorkShiftResultDTO, error)
	Delete(ctx context.Context, id uint64) error
	UserShifts(ctx context.Context, userID uuid.UUID) (*dto.UserWorkShiftsDTO, error)
	List(ctx context.Context, filter types.Filter) ([]entities.WorkShift, uint64, error)
	Summaries(ctx context.Context) ([]repositories.UserShiftSummary, error)
	ListArchived(ctx context.Context, userID *uuid.UUID) ([]entities.ArchivedWorkShift, error)
}

type WorkShiftService struct {
	shiftRepo repositories.WorkShiftRepositoryInterface
	userRepo  repositories.UserRepositoryInterface
	txManager repositories.TxManagerInterface
	bus       EventPublisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewWorkShiftService(
	shiftRepo repositories.WorkShiftRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	txManager repositories.TxManagerInterface,
	bus EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) WorkShiftServiceInterface {
	return &WorkShiftService{
		shiftRepo: shiftRepo,
		userRepo:  userRepo,
		txManager: txManager,
		bus:       bus,
		metrics:   m,
		logger:    logger,
	}
}

func newShift(actor authz.Actor, target *entities.User, days int, reason string) *entities.WorkShift {
	return &entities.WorkShift{
		UserID:         target.ID,
		UserName:       target.Name,
		Days:           days,
		Reason:         strings.TrimSpace(reason),
		AssignedBy:     actor.ID,
		AssignedByName: actor.Name,
	}
}

func (s *WorkShiftService) Add(ctx context.Context, payload dto.CreateWorkShiftDTO) (*entities.WorkShift, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	if err := workflow.ValidateAssignment(payload.Days, payload.Reason); err != nil {
		return nil, domainError(err)
	}
	target, err := s.userRepo.FindByID(ctx, nil, payload.UserID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAssignWorkShift(actor, authz.ActorFromUser(target)) {
		return nil, forbidden("Нет прав назначать отработку этому жильцу")
	}

	created, err := s.shiftRepo.Create(ctx, nil, newShift(actor, target, payload.Days, payload.Reason))
	if err != nil {
		return nil, err
	}

	s.metrics.WorkShiftAction("assigned")
	s.logger.Info("Назначена отработка",
		zap.Uint64("shiftID", created.ID),
		zap.String("userID", target.ID.String()),
		zap.Int("days", created.Days),
	)
	s.bus.Publish(ctx, events.WorkShiftAssigned{Actor: actor, Shift: *created})
	return created, nil
}

// AssignToRoom назначает одинаковую отработку каждому подтверждённому жильцу комнаты.
// Если хоть один жилец недоступен актору, не назначается никому.
func (s *WorkShiftService) AssignToRoom(ctx context.Context, payload dto.AssignRoomWorkShiftDTO) ([]entities.WorkShift, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	if !workflow.ValidRoomNumber(payload.Room) {
		return nil, domainError(workflow.ErrInvalidRoom)
	}
	if err := workflow.ValidateAssignment(payload.Days, payload.Reason); err != nil {
		return nil, domainError(err)
	}

	var created []entities.WorkShift
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		occupants, err := s.userRepo.ListByRoom(ctx, tx, payload.Room)
		if err != nil {
			return err
		}
		if len(occupants) == 0 {
			return apperrors.NewBadRequest("В комнате "+payload.Room+" нет подтверждённых жильцов", apperrors.ErrBadRequest)
		}
		for i := range occupants {
			target := &occupants[i]
			if !authz.CanAssignWorkShift(actor, authz.ActorFromUser(target)) {
				return forbidden("Нет прав назначать отработку жильцу " + target.Name)
			}
			shift, err := s.shiftRepo.Create(ctx, tx, newShift(actor, target, payload.Days, payload.Reason))
			if err != nil {
				return err
			}
			created = append(created, *shift)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Назначена отработка на комнату",
		zap.String("room", payload.Room),
		zap.Int("occupants", len(created)),
		zap.Int("days", payload.Days),
	)
	for _, shift := range created {
		s.metrics.WorkShiftAction("assigned")
		s.bus.Publish(ctx, events.WorkShiftAssigned{Actor: actor, Shift: shift})
	}
	return created, nil
}

// Complete засчитывает дни. Строка блокируется, а UPDATE дополнительно проверяет остаток,
// поэтому параллельные засчитывания не превысят days.
func (s *WorkShiftService) Complete(ctx context.Context, id uint64, days int) (*dto.CompleteWorkShiftResultDTO, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	if !authz.CanCompleteWorkShift(actor) {
		return nil, forbidden("Нет прав засчитывать отработки")
	}

	var updated *entities.WorkShift
	var archived int64
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		shift, err := s.shiftRepo.FindForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := workflow.ValidateCompletion(*shift, days); err != nil {
			return err
		}
		updated, err = s.shiftRepo.Complete(ctx, tx, id, days, actor.ID, actor.Name)
		if err != nil {
			return err
		}
		if !updated.IsComplete() {
			return nil
		}

		active, err := s.shiftRepo.ListActiveByUser(ctx, tx, updated.UserID)
		if err != nil {
			return err
		}
		if !workflow.ShouldArchive(active) {
			return nil
		}
		ids := make([]uint64, 0, len(active))
		for _, a := range active {
			ids = append(ids, a.ID)
		}
		archived, err = s.shiftRepo.Archive(ctx, tx, ids, entities.ArchiveReasonCompleted, null.StringFrom(actor.ID.String()))
		return err
	})
	if err != nil {
		return nil, domainError(err)
	}

	s.metrics.WorkShiftAction("completed")
	if archived > 0 {
		s.metrics.WorkShiftAction("archived")
	}
	s.logger.Info("Засчитана отработка",
		zap.Uint64("shiftID", id),
		zap.String("userID", updated.UserID.String()),
		zap.Int("days", days),
		zap.Int64("archived", archived),
	)
	s.bus.Publish(ctx, events.WorkShiftCompleted{Actor: actor, Shift: *updated, Days: days, Archived: archived})
	return &dto.CompleteWorkShiftResultDTO{Shift: *updated, Archived: archived}, nil
}

// Delete переносит отработку в архив с причиной deleted независимо от выполнения.
func (s *WorkShiftService) Delete(ctx context.Context, id uint64) error {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return err
	}
	if !authz.CanDeleteWorkShift(actor) {
		return forbidden("Нет прав удалять отработки")
	}

	var shift *entities.WorkShift
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		shift, err = s.shiftRepo.FindForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		_, err = s.shiftRepo.Archive(ctx, tx, []uint64{id}, entities.ArchiveReasonDeleted, null.StringFrom(actor.ID.String()))
		return err
	})
	if err != nil {
		return err
	}

	s.metrics.WorkShiftAction("deleted")
	s.logger.Info("Отработка удалена", zap.Uint64("shiftID", id), zap.String("actorID", actor.ID.String()))
	s.bus.Publish(ctx, events.WorkShiftDeleted{Actor: actor, Shift: *shift})
	return nil
}

func canViewShifts(actor authz.Actor, userID uuid.UUID) bool {
	return actor.ID == userID || canListUsers(actor)
}

func (s *WorkShiftService) UserShifts(ctx context.Context, userID uuid.UUID) (*dto.UserWorkShiftsDTO, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	if !canViewShifts(actor, userID) {
		return nil, forbidden("Нет доступа к отработкам пользователя")
	}
	shifts, err := s.shiftRepo.ListActiveByUser(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	return &dto.UserWorkShiftsDTO{UserID: userID, Shifts: shifts, Totals: workflow.SumTotals(shifts)}, nil
}

func (s *WorkShiftService) List(ctx context.Context, filter types.Filter) ([]entities.WorkShift, uint64, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, 0, err
	}
	if !canListUsers(actor) {
		return nil, 0, forbidden("Журнал отработок доступен персоналу и студсовету")
	}
	return s.shiftRepo.List(ctx, filter)
}

func (s *WorkShiftService) Summaries(ctx context.Context) ([]repositories.UserShiftSummary, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	if !canListUsers(actor) {
		return nil, forbidden("Сводка отработок доступна персоналу и студсовету")
	}
	return s.shiftRepo.Summaries(ctx)
}

// ListArchived: userID == nil - весь архив, только для персонала и студсовета.
func (s *WorkShiftService) ListArchived(ctx context.Context, userID *uuid.UUID) ([]entities.ArchivedWorkShift, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	allowed := canListUsers(actor)
	if userID != nil {
		allowed = canViewShifts(actor, *userID)
	}
	if !allowed {
		return nil, forbidden("Нет доступа к архиву отработок")
	}
	return s.shiftRepo.ListArchived(ctx, userID)
}
