package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"

	"github.com/nextgenmall/foodcourt/pkg/event"
)

// Badge is the navigation chrome's cached view of the cart item count.
// It never reads the cart store or its persisted snapshot directly; it is
// fed exclusively by cart.changed events so it stays correct even when it
// lives in a different window than the store that mutated.
type Badge struct {
	mu     sync.RWMutex
	count  int
	logger apt.Logger
}

func NewBadge(logger apt.Logger) *Badge {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Badge{logger: logger}
}

// Start subscribes the badge to cart change broadcasts.
func (b *Badge) Start(ctx context.Context, subscriber events.Subscriber) error {
	if err := subscriber.Subscribe(ctx, event.CartTopic, b.handleEvent); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", event.CartTopic, err)
	}
	return nil
}

func (b *Badge) handleEvent(ctx context.Context, msg []byte) error {
	var evt event.CartChangedEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		b.logger.Errorf("Failed to unmarshal cart event: %v", err)
		return nil
	}

	b.mu.Lock()
	b.count = evt.ItemCount
	b.mu.Unlock()
	return nil
}

// Count returns the last broadcast item count.
func (b *Badge) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}
