package cart

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"

	"github.com/nextgenmall/foodcourt/internal/kvstore"
	"github.com/nextgenmall/foodcourt/pkg/event"
)

// storageKey matches the original site's browser storage key.
const storageKey = "foodCourtCart"

// Line is one dish's accumulated quantity within the current shopping
// session. Name and unit price are denormalized snapshots taken at first
// add. Quantity is always >= 1 while the line exists.
type Line struct {
	DishID    string  `json:"dish_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Store is the single source of truth for cart state. Every mutation
// persists the full snapshot synchronously and broadcasts a cart.changed
// event so independently mounted views refresh without re-reading storage.
type Store struct {
	mu        sync.RWMutex
	kv        kvstore.Store
	publisher events.Publisher
	logger    apt.Logger

	lines map[string]*Line
	order []string
}

func NewStore(kv kvstore.Store, publisher events.Publisher, logger apt.Logger) *Store {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	store := &Store{
		kv:        kv,
		publisher: publisher,
		logger:    logger,
		lines:     make(map[string]*Line),
	}
	store.rehydrate()
	return store
}

func (s *Store) rehydrate() {
	raw, ok := s.kv.Get(storageKey)
	if !ok {
		return
	}

	var snapshot []Line
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		s.logger.Infof("Corrupt cart snapshot, starting empty: %v", err)
		return
	}

	for i := range snapshot {
		line := snapshot[i]
		if line.DishID == "" || line.Quantity < 1 {
			s.logger.Debug("skipping invalid cart line", "dish_id", line.DishID, "quantity", line.Quantity)
			continue
		}
		// A dish appears at most once; duplicate snapshot lines merge so
		// the insertion-order index never holds a dangling id.
		if existing, ok := s.lines[line.DishID]; ok {
			existing.Quantity += line.Quantity
			continue
		}
		s.lines[line.DishID] = &line
		s.order = append(s.order, line.DishID)
	}
}

// AddItem inserts a new line with quantity 1, or increments the existing
// line for the dish.
func (s *Store) AddItem(ctx context.Context, dishID string, unitPrice float64, name string) error {
	s.mu.Lock()
	if line, ok := s.lines[dishID]; ok {
		line.Quantity++
	} else {
		s.lines[dishID] = &Line{
			DishID:    dishID,
			Name:      name,
			UnitPrice: unitPrice,
			Quantity:  1,
		}
		s.order = append(s.order, dishID)
	}
	err := s.persist()
	payload := s.changePayload()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify(ctx, payload)
	return nil
}

// Decrement lowers the line quantity by one, dropping the line when it
// would reach zero. Unknown dish ids are a no-op.
func (s *Store) Decrement(ctx context.Context, dishID string) error {
	s.mu.Lock()
	line, ok := s.lines[dishID]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	line.Quantity--
	if line.Quantity < 1 {
		s.drop(dishID)
	}
	err := s.persist()
	payload := s.changePayload()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify(ctx, payload)
	return nil
}

// RemoveItem drops the whole line regardless of quantity.
func (s *Store) RemoveItem(ctx context.Context, dishID string) error {
	s.mu.Lock()
	if _, ok := s.lines[dishID]; !ok {
		s.mu.Unlock()
		return nil
	}
	s.drop(dishID)
	err := s.persist()
	payload := s.changePayload()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify(ctx, payload)
	return nil
}

// Clear empties the cart. Called on logout and on checkout completion.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.lines = make(map[string]*Line)
	s.order = nil
	err := s.persist()
	payload := s.changePayload()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notify(ctx, payload)
	return nil
}

func (s *Store) drop(dishID string) {
	delete(s.lines, dishID)
	for i, id := range s.order {
		if id == dishID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Lines returns a copy of the cart in insertion order.
func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// TotalItemCount is the sum of quantities across all lines. It equals the
// navigation badge count at all times.
func (s *Store) TotalItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemCount()
}

// TotalAmount is the sum of quantity times unit price across all lines.
func (s *Store) TotalAmount() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.amount()
}

func (s *Store) itemCount() int {
	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

func (s *Store) amount() float64 {
	total := 0.0
	for _, line := range s.lines {
		total += float64(line.Quantity) * line.UnitPrice
	}
	return total
}

func (s *Store) snapshot() []Line {
	out := make([]Line, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.lines[id])
	}
	return out
}

// persist writes the full snapshot. Caller holds the lock.
func (s *Store) persist() error {
	data, err := json.Marshal(s.snapshot())
	if err != nil {
		return err
	}
	return s.kv.Set(storageKey, string(data))
}

// changePayload snapshots the counts for the broadcast. Caller holds the
// lock, so the payload always matches the snapshot just persisted.
func (s *Store) changePayload() event.CartChangedEvent {
	return event.CartChangedEvent{
		EventType:  event.EventCartChanged,
		ItemCount:  s.itemCount(),
		LineCount:  len(s.lines),
		Total:      s.amount(),
		OccurredAt: time.Now().UTC(),
	}
}

func (s *Store) notify(ctx context.Context, payload event.CartChangedEvent) {
	if s.publisher == nil {
		return
	}

	data, _ := json.Marshal(payload)
	if err := s.publisher.Publish(ctx, event.CartTopic, data); err != nil {
		s.logger.Errorf("Failed to publish cart.changed event: %v", err)
	}
}
