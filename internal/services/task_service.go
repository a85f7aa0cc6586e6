package services

import (
	"context"
	"strings"
	"time"

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
	"dorm-portal/pkg/constants"
)

type TaskServiceInterface interface {
	List(ctx context.Context) ([]entities.CouncilTask, error)
	Create(ctx context.Context, payload dto.CreateTaskDTO) (*entities.CouncilTask, error)
	Update(ctx context.Context, id uint64, payload dto.UpdateTaskDTO) (*entities.CouncilTask, error)
	ChangeStatus(ctx context.Context, id uint64, status string) (*entities.CouncilTask, error)
	Delete(ctx context.Context, id uint64) error
}

type TaskService struct {
	taskRepo  repositories.CouncilTaskRepositoryInterface
	userRepo  repositories.UserRepositoryInterface
	txManager repositories.TxManagerInterface
	bus       EventPublisher
	now       Clock
	logger    *zap.Logger
}

func NewTaskService(
	taskRepo repositories.CouncilTaskRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	txManager repositories.TxManagerInterface,
	bus EventPublisher,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		txManager: txManager,
		bus:       bus,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *TaskService) List(ctx context.Context) ([]entities.CouncilTask, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	if !authz.CanViewTasks(actor) {
		return nil, forbidden("Задачи совета доступны только студсовету")
	}
	return s.taskRepo.List(ctx)
}

// assignees - назначенные лично и все, кто занимает назначенные должности.
func (s *TaskService) assignees(ctx context.Context, task entities.CouncilTask) map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool)
	for _, raw := range task.AssignedToUsers {
		if id, err := uuid.Parse(raw); err == nil {
			out[id] = true
		}
	}
	if len(task.AssignedToPositions) > 0 {
		holders, err := s.userRepo.ListByPositions(ctx, task.AssignedToPositions)
		if err != nil {
			s.logger.Warn("Не удалось найти исполнителей по должностям", zap.Uint64("taskID", task.ID), zap.Error(err))
		}
		for _, u := range holders {
			out[u.ID] = true
		}
	}
	return out
}

func newcomers(before, after map[uuid.UUID]bool) []uuid.UUID {
	var out []uuid.UUID
	for id := range after {
		if !before[id] {
			out = append(out, id)
		}
	}
	return out
}

func (s *TaskService) Create(ctx context.Context, payload dto.CreateTaskDTO) (*entities.CouncilTask, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageTasks(actor) {
		return nil, forbidden("Создавать задачи может руководство совета")
	}
	if _, err := authz.ParsePositions(payload.AssignedToPositions); err != nil {
		return nil, domainError(err)
	}
	priority := payload.Priority
	if !workflow.ValidTaskPriority(priority) {
		priority = defaultPriority
	}

	created, err := s.taskRepo.Create(ctx, &entities.CouncilTask{
		Title:               strings.TrimSpace(payload.Title),
		Description:         payload.Description,
		AssignedToUsers:     payload.AssignedToUsers,
		AssignedToPositions: payload.AssignedToPositions,
		Status:              string(workflow.TaskPending),
		Priority:            priority,
		DueDate:             payload.DueDate,
		CreatedBy:           actor.ID,
		CreatedByName:       actor.Name,
	})
	if err != nil {
		return nil, err
	}
	notify := newcomers(nil, s.assignees(ctx, *created))
	s.logger.Info("Задача создана", zap.Uint64("taskID", created.ID), zap.Int("assignees", len(notify)))
	s.bus.Publish(ctx, events.TaskChanged{Actor: actor, Task: *created, Action: constants.ActionTaskCreated, Notify: notify})
	return created, nil
}

// Update уведомляет только новых исполнителей.
func (s *TaskService) Update(ctx context.Context, id uint64, payload dto.UpdateTaskDTO) (*entities.CouncilTask, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageTasks(actor) {
		return nil, forbidden("Редактировать задачи может руководство совета")
	}
	if _, err := authz.ParsePositions(payload.AssignedToPositions); err != nil {
		return nil, domainError(err)
	}

	var task *entities.CouncilTask
	var before map[uuid.UUID]bool
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		t, err := s.taskRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		before = s.assignees(ctx, *t)
		if payload.Title != nil {
			t.Title = strings.TrimSpace(*payload.Title)
		}
		if payload.Description != nil {
			t.Description = *payload.Description
		}
		if payload.AssignedToUsers != nil {
			t.AssignedToUsers = payload.AssignedToUsers
		}
		if payload.AssignedToPositions != nil {
			t.AssignedToPositions = payload.AssignedToPositions
		}
		if payload.Priority != nil {
			t.Priority = *payload.Priority
		}
		if payload.DueDate.Valid {
			t.DueDate = payload.DueDate
		}
		task = t
		return s.taskRepo.Update(ctx, tx, t)
	})
	if err != nil {
		return nil, err
	}

	notify := newcomers(before, s.assignees(ctx, *task))
	s.bus.Publish(ctx, events.TaskChanged{Actor: actor, Task: *task, Action: constants.ActionTaskUpdated, Notify: notify})
	return task, nil
}

// ChangeStatus: руководство совета или исполнитель, статус только вперёд.
func (s *TaskService) ChangeStatus(ctx context.Context, id uint64, status string) (*entities.CouncilTask, error) {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return nil, err
	}

	var task *entities.CouncilTask
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		t, err := s.taskRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if !authz.CanManageTasks(actor) && !workflow.IsAssignee(*t, actor) {
			return forbidden("Статус меняет руководство совета или исполнитель")
		}
		next := workflow.TaskStatus(status)
		if err := workflow.TransitionTask(workflow.TaskStatus(t.Status), next); err != nil {
			return err
		}
		t.Status = string(next)
		if next == workflow.TaskCompleted {
			t.CompletedAt = null.TimeFrom(s.now())
		}
		task = t
		return s.taskRepo.Update(ctx, tx, t)
	})
	if err != nil {
		return nil, domainError(err)
	}

	s.logger.Info("Статус задачи изменён", zap.Uint64("taskID", id), zap.String("status", status))
	s.bus.Publish(ctx, events.TaskChanged{Actor: actor, Task: *task, Action: constants.ActionTaskStatusChanged})
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id uint64) error {
	actor, err := actorFromCtx(ctx, s.logger)
	if err != nil {
		return err
	}
	if !authz.CanManageTasks(actor) {
		return forbidden("Удалять задачи может руководство совета")
	}
	task, err := s.taskRepo.FindByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.TaskChanged{Actor: actor, Task: *task, Action: constants.ActionTaskDeleted})
	return nil
}
