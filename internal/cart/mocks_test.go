package cart

import (
	"context"
	"sync"

	"github.com/appetiteclub/apt/events"
)

// MockPublisher is a mock implementation of events.Publisher for testing
type MockPublisher struct {
	mu          sync.Mutex
	published   [][]byte
	topics      []string
	PublishFunc func(ctx context.Context, topic string, msg []byte) error
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topics = append(m.topics, topic)
	m.published = append(m.published, msg)
	return nil
}

func (m *MockPublisher) Published() ([]string, [][]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	topics := make([]string, len(m.topics))
	copy(topics, m.topics)
	msgs := make([][]byte, len(m.published))
	copy(msgs, m.published)
	return topics, msgs
}

// MockSubscriber is a mock implementation of events.Subscriber for testing
type MockSubscriber struct {
	SubscribeFunc func(ctx context.Context, topic string, handler events.HandlerFunc) error
}

func NewMockSubscriber() *MockSubscriber {
	return &MockSubscriber{}
}

func (m *MockSubscriber) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, topic, handler)
	}
	return nil
}
