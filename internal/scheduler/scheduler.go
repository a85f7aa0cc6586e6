package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"dorm-portal/pkg/config"
)

// Job - фоновая задача. Возвращает число обработанных записей для лога.
type Job func(ctx context.Context) (int, error)

// Scheduler запускает периодические задачи портала поверх robfig/cron.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	logger  *zap.Logger
}

func New(loc *time.Location, logger *zap.Logger) *Scheduler {
	cl := cronLogger{logger.Sugar()}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		timeout: 5 * time.Minute,
		logger:  logger,
	}
}

// Add регистрирует задачу. spec - шесть полей с секундами или дескриптор вида "@every 60s".
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		start := time.Now()
		n, err := job(ctx)
		if err != nil {
			s.logger.Error("Фоновая задача завершилась с ошибкой", zap.String("job", name), zap.Error(err))
			return
		}
		if n > 0 {
			s.logger.Info("Фоновая задача выполнена",
				zap.String("job", name),
				zap.Int("processed", n),
				zap.Duration("took", time.Since(start)),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("задача %s: неверное расписание %q: %w", name, spec, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Планировщик запущен", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop ждёт завершения запущенных задач, но не дольше ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Планировщик остановлен, не дождавшись задач")
	}
}

// Jobs - набор задач портала, которые включаются конфигурацией.
type Jobs struct {
	ArchiveAnnouncements Job
	CourseSweep          Job
}

// Register вешает задачи портала на расписания из конфигурации.
func (s *Scheduler) Register(cfg config.SchedulerConfig, jobs Jobs) error {
	if jobs.ArchiveAnnouncements != nil {
		if err := s.Add("announcements.archive", cfg.AnnouncementSweepSpec, jobs.ArchiveAnnouncements); err != nil {
			return err
		}
	}
	if jobs.CourseSweep != nil {
		if err := s.Add("users.course_sweep", cfg.CourseSweepSpec, jobs.CourseSweep); err != nil {
			return err
		}
	}
	return nil
}

type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
