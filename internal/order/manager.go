package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/google/uuid"

	"github.com/nextgenmall/foodcourt/internal/cart"
	"github.com/nextgenmall/foodcourt/pkg/enums/orderstatus"
	"github.com/nextgenmall/foodcourt/pkg/event"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrInvalidStatus = errors.New("invalid order status")
)

// Cart is the slice of the cart store Checkout consumes.
type Cart interface {
	Lines() []cart.Line
	TotalAmount() float64
	Clear(ctx context.Context) error
}

// Manager owns the in-memory order collection. Orders keep insertion
// order for display; lookups go through the id index. Every mutation
// publishes to orders.status so the dashboard can refresh.
type Manager struct {
	mu        sync.RWMutex
	orders    []*Order
	byID      map[uuid.UUID]*Order
	nextNum   int
	publisher events.Publisher
	logger    apt.Logger
}

func NewManager(publisher events.Publisher, logger apt.Logger) *Manager {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Manager{
		byID:      make(map[uuid.UUID]*Order),
		nextNum:   1,
		publisher: publisher,
		logger:    logger,
	}
}

// Place creates an order in the preparing state.
func (m *Manager) Place(ctx context.Context, customer, items string, total float64, tableLabel string) (*Order, error) {
	if strings.TrimSpace(customer) == "" {
		return nil, errors.New("customer name is required")
	}
	if total < 0 {
		return nil, errors.New("total cannot be negative")
	}

	o := NewOrder()
	o.Customer = customer
	o.Items = items
	o.Total = total
	o.TableLabel = tableLabel
	o.BeforeCreate()

	m.mu.Lock()
	o.Number = m.nextNum
	m.nextNum++
	m.orders = append(m.orders, o)
	m.byID[o.ID] = o
	m.mu.Unlock()

	m.publish(ctx, event.EventOrderPlaced, o, "")
	m.logger.Info("Order placed", "number", o.Number, "customer", o.Customer, "total", o.Total)
	return o, nil
}

// Checkout turns the current cart into an order and empties the cart.
func (m *Manager) Checkout(ctx context.Context, customer string, c Cart, tableLabel string) (*Order, error) {
	lines := c.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, fmt.Sprintf("%s x%d", line.Name, line.Quantity))
	}

	o, err := m.Place(ctx, customer, strings.Join(parts, ", "), c.TotalAmount(), tableLabel)
	if err != nil {
		return nil, err
	}

	if err := c.Clear(ctx); err != nil {
		m.logger.Errorf("Failed to clear cart after checkout: %v", err)
	}
	return o, nil
}

// SetStatus moves the order to any of the three lifecycle states. The
// transition is unconditional; all other fields stay untouched. Unknown
// ids return ErrNotFound and never create an order.
func (m *Manager) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	if orderstatus.ByName(status) == nil {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	m.mu.Lock()
	o, ok := m.byID[id]
	if !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	previous := o.Status
	o.Status = status
	m.mu.Unlock()

	m.publish(ctx, event.EventOrderStatusChanged, o, previous)
	m.logger.Info("Order status changed", "number", o.Number, "from", previous, "to", status)
	return nil
}

// Delete removes the order permanently. Confirmation happens at the UI
// boundary before this is called; a cancelled prompt never reaches here.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	o, ok := m.byID[id]
	if !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	delete(m.byID, id)
	for i, existing := range m.orders {
		if existing.ID == id {
			m.orders = append(m.orders[:i], m.orders[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	m.publish(ctx, event.EventOrderDeleted, o, o.Status)
	m.logger.Info("Order deleted", "number", o.Number)
	return nil
}

func (m *Manager) Get(id uuid.UUID) (*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *o
	return &copied, nil
}

// List returns the full collection in insertion order.
func (m *Manager) List() []*Order {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Order, 0, len(m.orders))
	for _, o := range m.orders {
		copied := *o
		out = append(out, &copied)
	}
	return out
}

// ActiveCount counts orders that are not yet delivered.
func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, o := range m.orders {
		if o.Active() {
			count++
		}
	}
	return count
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}

func (m *Manager) publish(ctx context.Context, eventType string, o *Order, previous string) {
	if m.publisher == nil {
		return
	}

	payload := event.OrderStatusEvent{
		EventType:      eventType,
		OccurredAt:     time.Now().UTC(),
		OrderID:        o.ID.String(),
		OrderNumber:    o.Number,
		Status:         o.Status,
		PreviousStatus: previous,
		Customer:       o.Customer,
		Total:          o.Total,
	}

	data, _ := json.Marshal(payload)
	if err := m.publisher.Publish(ctx, event.OrderStatusTopic, data); err != nil {
		m.logger.Errorf("Failed to publish %s event: %v", eventType, err)
	}
}
