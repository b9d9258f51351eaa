package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/nextgenmall/foodcourt/internal/kvstore"
	"github.com/nextgenmall/foodcourt/pkg/event"
)

func newTestStore(t *testing.T) (*Store, kvstore.Store) {
	t.Helper()
	kv := kvstore.NewMemoryStore()
	return NewStore(kv, nil, nil), kv
}

func TestAddItemAccumulatesOneLine(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.AddItem(ctx, "d1", 500, "X")
	store.AddItem(ctx, "d1", 500, "X")

	lines := store.Lines()
	if len(lines) != 1 {
		t.Fatalf("Lines() len = %d, want 1", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Errorf("Quantity = %d, want 2", lines[0].Quantity)
	}
	if got := store.TotalAmount(); got != 1000 {
		t.Errorf("TotalAmount() = %v, want 1000", got)
	}
}

func TestTotalItemCountMatchesLineQuantities(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	steps := []struct {
		name string
		run  func()
	}{
		{name: "addFirst", run: func() { store.AddItem(ctx, "d1", 1200, "Grilled Chicken") }},
		{name: "addSecond", run: func() { store.AddItem(ctx, "d2", 600, "Coconut Rice") }},
		{name: "addFirstAgain", run: func() { store.AddItem(ctx, "d1", 1200, "Grilled Chicken") }},
		{name: "decrementFirst", run: func() { store.Decrement(ctx, "d1") }},
		{name: "decrementSecondOut", run: func() { store.Decrement(ctx, "d2") }},
		{name: "decrementMissing", run: func() { store.Decrement(ctx, "d9") }},
	}

	for _, step := range steps {
		step.run()

		sum := 0
		for _, line := range store.Lines() {
			if line.Quantity < 1 {
				t.Fatalf("after %s: line %s quantity = %d, want >= 1", step.name, line.DishID, line.Quantity)
			}
			sum += line.Quantity
		}
		if got := store.TotalItemCount(); got != sum {
			t.Errorf("after %s: TotalItemCount() = %d, want %d", step.name, got, sum)
		}
		if got := store.TotalItemCount(); got < 0 {
			t.Errorf("after %s: TotalItemCount() = %d, want >= 0", step.name, got)
		}
	}
}

func TestDecrementRemovesLineAtZero(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.AddItem(ctx, "d1", 500, "X")
	store.Decrement(ctx, "d1")

	if len(store.Lines()) != 0 {
		t.Errorf("Lines() len = %d, want 0", len(store.Lines()))
	}

	// Decrementing past empty stays a no-op.
	store.Decrement(ctx, "d1")
	if got := store.TotalItemCount(); got != 0 {
		t.Errorf("TotalItemCount() = %d, want 0", got)
	}
}

func TestRemoveItemDropsWholeLine(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.AddItem(ctx, "d1", 500, "X")
	store.AddItem(ctx, "d1", 500, "X")
	store.AddItem(ctx, "d2", 250, "Y")
	store.RemoveItem(ctx, "d1")

	lines := store.Lines()
	if len(lines) != 1 {
		t.Fatalf("Lines() len = %d, want 1", len(lines))
	}
	if lines[0].DishID != "d2" {
		t.Errorf("remaining line = %q, want %q", lines[0].DishID, "d2")
	}
}

func TestClearEmptiesCart(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.AddItem(ctx, "d1", 500, "X")
	store.AddItem(ctx, "d2", 250, "Y")
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if got := store.TotalItemCount(); got != 0 {
		t.Errorf("TotalItemCount() = %d, want 0", got)
	}
	if got := store.TotalAmount(); got != 0 {
		t.Errorf("TotalAmount() = %v, want 0", got)
	}
}

func TestLinesKeepInsertionOrder(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.AddItem(ctx, "d3", 100, "C")
	store.AddItem(ctx, "d1", 100, "A")
	store.AddItem(ctx, "d2", 100, "B")
	store.AddItem(ctx, "d1", 100, "A")

	want := []string{"d3", "d1", "d2"}
	lines := store.Lines()
	if len(lines) != len(want) {
		t.Fatalf("Lines() len = %d, want %d", len(lines), len(want))
	}
	for i, id := range want {
		if lines[i].DishID != id {
			t.Errorf("lines[%d] = %q, want %q", i, lines[i].DishID, id)
		}
	}
}

func TestMutationsPersistSnapshot(t *testing.T) {
	store, kv := newTestStore(t)
	ctx := context.Background()

	store.AddItem(ctx, "d1", 500, "X")
	store.AddItem(ctx, "d1", 500, "X")

	// A second store over the same persistence sees the same cart.
	reloaded := NewStore(kv, nil, nil)
	if got := reloaded.TotalItemCount(); got != 2 {
		t.Errorf("TotalItemCount() = %d, want 2", got)
	}
	if got := reloaded.TotalAmount(); got != 1000 {
		t.Errorf("TotalAmount() = %v, want 1000", got)
	}
}

func TestCorruptSnapshotLoadsEmpty(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	kv.Set("foodCourtCart", "{definitely not json")

	store := NewStore(kv, nil, nil)

	if got := store.TotalItemCount(); got != 0 {
		t.Errorf("TotalItemCount() = %d, want 0", got)
	}
	if got := len(store.Lines()); got != 0 {
		t.Errorf("Lines() len = %d, want 0", got)
	}
	if got := store.TotalAmount(); got != 0 {
		t.Errorf("TotalAmount() = %v, want 0", got)
	}
}

func TestInvalidPersistedLinesSkipped(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	kv.Set("foodCourtCart", `[
		{"dish_id": "d1", "name": "X", "unit_price": 500, "quantity": 2},
		{"dish_id": "", "name": "broken", "unit_price": 100, "quantity": 1},
		{"dish_id": "d2", "name": "Y", "unit_price": 250, "quantity": 0}
	]`)

	store := NewStore(kv, nil, nil)

	lines := store.Lines()
	if len(lines) != 1 {
		t.Fatalf("Lines() len = %d, want 1", len(lines))
	}
	if lines[0].DishID != "d1" || lines[0].Quantity != 2 {
		t.Errorf("line = %+v, want d1 with quantity 2", lines[0])
	}
}

func TestMutationsPublishCartChanged(t *testing.T) {
	publisher := NewMockPublisher()
	store := NewStore(kvstore.NewMemoryStore(), publisher, nil)
	ctx := context.Background()

	store.AddItem(ctx, "d1", 500, "X")
	store.AddItem(ctx, "d1", 500, "X")
	store.Decrement(ctx, "d1")
	store.Clear(ctx)

	topics, msgs := publisher.Published()
	if len(topics) != 4 {
		t.Fatalf("published %d events, want 4", len(topics))
	}
	for _, topic := range topics {
		if topic != event.CartTopic {
			t.Errorf("topic = %q, want %q", topic, event.CartTopic)
		}
	}

	var last event.CartChangedEvent
	if err := json.Unmarshal(msgs[len(msgs)-1], &last); err != nil {
		t.Fatalf("unmarshal last event: %v", err)
	}
	if last.ItemCount != 0 {
		t.Errorf("last ItemCount = %d, want 0", last.ItemCount)
	}

	var second event.CartChangedEvent
	if err := json.Unmarshal(msgs[1], &second); err != nil {
		t.Fatalf("unmarshal second event: %v", err)
	}
	if second.ItemCount != 2 || second.Total != 1000 {
		t.Errorf("second event = %+v, want ItemCount 2 Total 1000", second)
	}
}

func TestDuplicatePersistedLinesMerge(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	kv.Set("foodCourtCart", `[
		{"dish_id": "d1", "name": "X", "unit_price": 500, "quantity": 2},
		{"dish_id": "d2", "name": "Y", "unit_price": 250, "quantity": 1},
		{"dish_id": "d1", "name": "X", "unit_price": 500, "quantity": 3}
	]`)

	store := NewStore(kv, nil, nil)
	ctx := context.Background()

	lines := store.Lines()
	if len(lines) != 2 {
		t.Fatalf("Lines() len = %d, want 2", len(lines))
	}
	if lines[0].DishID != "d1" || lines[0].Quantity != 5 {
		t.Errorf("lines[0] = %+v, want d1 with quantity 5", lines[0])
	}
	if got := store.TotalItemCount(); got != 6 {
		t.Errorf("TotalItemCount() = %d, want 6", got)
	}

	// Dropping the merged line must leave a usable cart.
	for i := 0; i < 5; i++ {
		if err := store.Decrement(ctx, "d1"); err != nil {
			t.Fatalf("Decrement() error = %v", err)
		}
	}
	lines = store.Lines()
	if len(lines) != 1 || lines[0].DishID != "d2" {
		t.Fatalf("Lines() after drop = %+v, want only d2", lines)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
}

func TestPublishedCountsMatchPersistedStates(t *testing.T) {
	publisher := NewMockPublisher()
	store := NewStore(kvstore.NewMemoryStore(), publisher, nil)
	ctx := context.Background()

	const adds = 8
	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			store.AddItem(ctx, fmt.Sprintf("d%d", n), 100, "X")
		}(i)
	}
	wg.Wait()

	// Each broadcast carries the count of the snapshot its mutation
	// persisted, so the counts are exactly 1..adds in some order.
	_, msgs := publisher.Published()
	if len(msgs) != adds {
		t.Fatalf("published %d events, want %d", len(msgs), adds)
	}
	seen := make(map[int]bool)
	for i, msg := range msgs {
		var evt event.CartChangedEvent
		if err := json.Unmarshal(msg, &evt); err != nil {
			t.Fatalf("events[%d] unmarshal error = %v", i, err)
		}
		if evt.ItemCount < 1 || evt.ItemCount > adds || seen[evt.ItemCount] {
			t.Fatalf("events[%d].ItemCount = %d, want a unique value in 1..%d", i, evt.ItemCount, adds)
		}
		seen[evt.ItemCount] = true
	}
}
