package order

import (
	"context"
	"sync"

	"github.com/nextgenmall/foodcourt/internal/cart"
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

// MockCart is a mock implementation of the Cart interface for testing
type MockCart struct {
	lines   []cart.Line
	cleared int
}

func NewMockCart(lines ...cart.Line) *MockCart {
	return &MockCart{lines: lines}
}

func (m *MockCart) Lines() []cart.Line {
	out := make([]cart.Line, len(m.lines))
	copy(out, m.lines)
	return out
}

func (m *MockCart) TotalAmount() float64 {
	total := 0.0
	for _, line := range m.lines {
		total += float64(line.Quantity) * line.UnitPrice
	}
	return total
}

func (m *MockCart) Clear(ctx context.Context) error {
	m.cleared++
	m.lines = nil
	return nil
}
