package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"dorm-portal/internal/dto"
	"dorm-portal/internal/events"
	"dorm-portal/internal/repositories"
	"dorm-portal/internal/workflow"
	"dorm-portal/pkg/metrics"
)

type CourseServiceInterface interface {
	Sweep(ctx context.Context) (*dto.CourseSweepResultDTO, error)
}

// CourseService - ежегодный перевод на следующий курс и удаление выпускников.
type CourseService struct {
	userRepo  repositories.UserRepositoryInterface
	cacheRepo repositories.CacheRepositoryInterface
	bus       EventPublisher
	metrics   *metrics.Metrics
	now       Clock
	logger    *zap.Logger
}

func NewCourseService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	bus EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *CourseService {
	return &CourseService{
		userRepo:  userRepo,
		cacheRepo: cacheRepo,
		bus:       bus,
		metrics:   m,
		now:       time.Now,
		logger:    logger,
	}
}

// Sweep считает курс от группы при регистрации, поэтому повторный запуск ничего не меняет.
// Ошибка по одному студенту не останавливает обход.
func (s *CourseService) Sweep(ctx context.Context) (*dto.CourseSweepResultDTO, error) {
	users, err := s.userRepo.ListForCourseSweep(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	res := &dto.CourseSweepResultDTO{Checked: len(users)}

	for i := range users {
		u := users[i]
		entry := u.EntryGroup.String
		if entry == "" {
			entry = u.Group.String
		}
		decision := workflow.EvaluateCourse(entry, u.StudyYears.Int, u.RegisteredAt, now)

		switch decision.Action {
		case workflow.CoursePromote:
			if decision.Group == u.Group.String {
				continue
			}
			if err := s.userRepo.UpdateGroup(ctx, nil, u.ID, decision.Group); err != nil {
				s.logger.Error("Не удалось перевести на следующий курс", zap.String("userID", u.ID.String()), zap.Error(err))
				continue
			}
			res.Promoted++
			s.bus.Publish(ctx, events.CourseSwept{User: u, OldGroup: u.Group.String, NewGroup: decision.Group})

		case workflow.CourseDelete:
			if err := s.userRepo.Delete(ctx, nil, u.ID); err != nil {
				s.logger.Error("Не удалось удалить выпускника", zap.String("userID", u.ID.String()), zap.Error(err))
				continue
			}
			dropActorCache(ctx, s.cacheRepo, u.ID, s.logger)
			res.Deleted++
			s.bus.Publish(ctx, events.CourseSwept{User: u, OldGroup: u.Group.String, Deleted: true})
		}
	}

	s.metrics.CourseSwept("promoted", res.Promoted)
	s.metrics.CourseSwept("deleted", res.Deleted)
	s.logger.Info("Перевод курсов завершён",
		zap.Int("checked", res.Checked),
		zap.Int("promoted", res.Promoted),
		zap.Int("deleted", res.Deleted),
	)
	return res, nil
}
