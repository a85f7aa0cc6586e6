package eventbus

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event - любое доменное событие.
type Event interface {
	Name() string
}

type Listener func(ctx context.Context, event Event) error

// HandlerTimeout - сколько даётся одному обработчику.
const HandlerTimeout = 1 * time.Minute

// Bus - шина событий. Обработчики выполняются асинхронно и не влияют на ответ API:
// ошибка обработчика только логируется.
type Bus struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
	wg        sync.WaitGroup
	logger    *zap.Logger
}

func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		logger:    logger,
	}
}

func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
}

// Publish не ждёт обработчиков. Контекст запроса не передаётся:
// обработка переживает завершение HTTP-запроса.
func (b *Bus) Publish(_ context.Context, event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	eventName := event.Name()
	for _, listener := range b.listeners[eventName] {
		b.wg.Add(1)
		go func(l Listener) {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("Паника в обработчике события", zap.String("event", eventName), zap.Any("panic", r))
				}
			}()

			ctx, cancel := context.WithTimeout(context.Background(), HandlerTimeout)
			defer cancel()

			if err := l(ctx, event); err != nil {
				b.logger.Error("Ошибка в обработчике события",
					zap.String("event", eventName),
					zap.Error(err),
				)
			}
		}(listener)
	}
}

// Wait дожидается запущенных обработчиков. Нужен при остановке сервера и в тестах.
func (b *Bus) Wait() {
	b.wg.Wait()
}
