package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type pinged struct{}

func (pinged) Name() string { return "pinged" }

func TestPublishCallsEveryListener(t *testing.T) {
	bus := New(zap.NewNop())
	var calls int32
	bus.Subscribe("pinged", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	bus.Subscribe("pinged", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	})
	bus.Subscribe("pinged", func(ctx context.Context, e Event) error {
		panic("listener panic")
	})
	bus.Subscribe("other", func(ctx context.Context, e Event) error {
		atomic.AddInt32(&calls, 100)
		return nil
	})

	bus.Publish(context.Background(), pinged{})
	bus.Wait()

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
