package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dorm-portal/pkg/config"
)

func TestRegisterRejectsBadSpec(t *testing.T) {
	s := New(time.UTC, zap.NewNop())
	err := s.Register(config.SchedulerConfig{AnnouncementSweepSpec: "каждую минуту"}, Jobs{
		ArchiveAnnouncements: func(context.Context) (int, error) { return 0, nil },
	})
	assert.Error(t, err)

	// курс по умолчанию - шесть полей с секундами
	err = s.Register(config.SchedulerConfig{AnnouncementSweepSpec: "@every 60s", CourseSweepSpec: "0 0 3 * * *"}, Jobs{
		ArchiveAnnouncements: func(context.Context) (int, error) { return 0, nil },
		CourseSweep:          func(context.Context) (int, error) { return 0, nil },
	})
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 2)
}

func TestJobsRunAndSurviveErrors(t *testing.T) {
	s := New(time.UTC, zap.NewNop())
	var ok, failed atomic.Int32
	require.NoError(t, s.Add("ok", "@every 1s", func(ctx context.Context) (int, error) {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		ok.Add(1)
		return 1, nil
	}))
	require.NoError(t, s.Add("fail", "@every 1s", func(context.Context) (int, error) {
		failed.Add(1)
		return 0, errors.New("база недоступна")
	}))

	s.Start()
	assert.Eventually(t, func() bool { return ok.Load() >= 2 && failed.Load() >= 2 }, 5*time.Second, 100*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
