package event

import "time"

const (
	CartTopic        = "cart.changed"
	EventCartChanged = "cart.changed"
)

// CartChangedEvent is broadcast after every cart mutation. Secondary views
// such as the navigation badge subscribe to it instead of re-reading the
// persisted snapshot on their own.
type CartChangedEvent struct {
	EventType  string    `json:"event_type"`
	ItemCount  int       `json:"item_count"`
	LineCount  int       `json:"line_count"`
	Total      float64   `json:"total"`
	OccurredAt time.Time `json:"occurred_at"`
}
