package tables

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"

	"github.com/nextgenmall/foodcourt/internal/catalog"
	"github.com/nextgenmall/foodcourt/pkg/enums/tablestatus"
	"github.com/nextgenmall/foodcourt/pkg/event"
)

// Manager holds the session-local working copy of the table collection.
// The catalog stays pristine; toggles and reservations only touch the
// copy and are discarded with the session. Status changes broadcast on
// tables.status.
type Manager struct {
	mu           sync.RWMutex
	tables       []catalog.Table
	byID         map[string]*catalog.Table
	reservations []*Reservation
	publisher    events.Publisher
	logger       apt.Logger
}

func NewManager(c *catalog.Catalog, publisher events.Publisher, logger apt.Logger) *Manager {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	m := &Manager{
		tables:    c.Tables(),
		byID:      make(map[string]*catalog.Table),
		publisher: publisher,
		logger:    logger,
	}
	for i := range m.tables {
		m.byID[m.tables[i].ID] = &m.tables[i]
	}
	return m
}

// Toggle flips the table between available and reserved and returns the
// new status.
func (m *Manager) Toggle(ctx context.Context, tableID string) (string, error) {
	m.mu.Lock()
	t, ok := m.byID[tableID]
	if !ok {
		m.mu.Unlock()
		return "", fmt.Errorf("table %s: %w", tableID, catalog.ErrNotFound)
	}
	previous := t.Status
	t.Status = tablestatus.Toggle(previous).Code()
	status := t.Status
	number := t.Number
	m.mu.Unlock()

	m.publishStatus(ctx, event.EventTableStatusChanged, tableID, number, status, previous, "toggle")
	m.logger.Info("Table status changed", "number", number, "from", previous, "to", status)
	return status, nil
}

// Reserve records a phone reservation and flips the table to reserved in
// the same step. Validation failure leaves both the table and the
// reservation list untouched.
func (m *Manager) Reserve(ctx context.Context, req ReservationRequest) (*Reservation, error) {
	if errs := ValidateReservation(req); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	m.mu.Lock()
	t, ok := m.byID[req.TableID]
	if !ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("table %s: %w", req.TableID, catalog.ErrNotFound)
	}

	r := NewReservation()
	r.TableID = t.ID
	r.TableNumber = t.Number
	r.CustomerName = req.CustomerName
	r.CustomerPhone = req.CustomerPhone
	r.Date = req.Date
	r.Time = req.Time
	r.BeforeCreate()

	previous := t.Status
	t.Status = tablestatus.Statuses.Reserved.Code()
	number := t.Number
	m.reservations = append(m.reservations, r)
	m.mu.Unlock()

	m.publishStatus(ctx, event.EventTableReserved, req.TableID, number, tablestatus.Statuses.Reserved.Code(), previous, "reservation")
	m.logger.Info("Table reserved", "number", number, "customer", r.CustomerName)
	return r, nil
}

func (m *Manager) Table(tableID string) (catalog.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.byID[tableID]
	if !ok {
		return catalog.Table{}, fmt.Errorf("table %s: %w", tableID, catalog.ErrNotFound)
	}
	return *t, nil
}

// ListForOwner filters the working copy to the given owner's tables.
func (m *Manager) ListForOwner(ownerID string) []catalog.Table {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []catalog.Table
	for _, t := range m.tables {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out
}

// AvailableForOwner lists the owner's tables still open for reservation.
// The reservation form only offers these.
func (m *Manager) AvailableForOwner(ownerID string) []catalog.Table {
	var out []catalog.Table
	for _, t := range m.ListForOwner(ownerID) {
		if t.Status == tablestatus.Statuses.Available.Code() {
			out = append(out, t)
		}
	}
	return out
}

// Reservations returns recorded reservations in insertion order.
func (m *Manager) Reservations() []*Reservation {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Reservation, 0, len(m.reservations))
	for _, r := range m.reservations {
		copied := *r
		out = append(out, &copied)
	}
	return out
}

func (m *Manager) publishStatus(ctx context.Context, eventType, tableID, number, status, previous, source string) {
	if m.publisher == nil {
		return
	}

	payload := event.TableStatusEvent{
		EventType:      eventType,
		TableID:        tableID,
		TableNumber:    number,
		Status:         status,
		PreviousStatus: previous,
		Source:         source,
		OccurredAt:     time.Now().UTC(),
	}

	data, _ := json.Marshal(payload)
	if err := m.publisher.Publish(ctx, event.TableStatusTopic, data); err != nil {
		m.logger.Errorf("Failed to publish table status event: %v", err)
	}
}
