package event

import "time"

const (
	// TableStatusTopic delivers authoritative status changes for tables.
	TableStatusTopic = "tables.status"

	// EventTableStatusChanged identifies a table status change event payload.
	EventTableStatusChanged = "table.status.changed"
	// EventTableReserved identifies a completed reservation payload.
	EventTableReserved = "table.reserved"
)

// TableStatusEvent captures the minimal information a display needs to
// reason about a table's availability.
type TableStatusEvent struct {
	EventType      string    `json:"event_type"`
	TableID        string    `json:"table_id"`
	TableNumber    string    `json:"table_number,omitempty"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Source         string    `json:"source,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
