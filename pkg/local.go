package pkg

import (
	"context"
	"sync"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
)

// LocalBroker is an in-process events.Publisher and events.Subscriber.
// All state transitions happen on a single input event at a time, so
// delivery is synchronous: Publish invokes every handler for the topic
// before returning. Handler errors are logged and do not stop fan-out.
type LocalBroker struct {
	mu       sync.RWMutex
	handlers map[string][]events.HandlerFunc
	logger   apt.Logger
}

func NewLocalBroker(logger apt.Logger) *LocalBroker {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &LocalBroker{
		handlers: make(map[string][]events.HandlerFunc),
		logger:   logger,
	}
}

func (b *LocalBroker) Publish(ctx context.Context, topic string, msg []byte) error {
	b.mu.RLock()
	handlers := make([]events.HandlerFunc, len(b.handlers[topic]))
	copy(handlers, b.handlers[topic])
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, msg); err != nil {
			b.logger.Errorf("handler for topic %s failed: %v", topic, err)
		}
	}
	return nil
}

func (b *LocalBroker) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[topic] = append(b.handlers[topic], handler)
	return nil
}

func (b *LocalBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers = make(map[string][]events.HandlerFunc)
	return nil
}
