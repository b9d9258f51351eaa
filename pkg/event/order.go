package event

import "time"

const (
	OrderStatusTopic = "orders.status"

	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status.changed"
	EventOrderDeleted       = "order.deleted"
)

// OrderStatusEvent represents an order lifecycle change published to the
// broker. The owner dashboard consumes it to refresh its order list.
type OrderStatusEvent struct {
	EventType      string    `json:"event_type"`
	OccurredAt     time.Time `json:"occurred_at"`
	OrderID        string    `json:"order_id"`
	OrderNumber    int       `json:"order_number"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`

	// Denormalized data for display
	Customer string  `json:"customer,omitempty"`
	Total    float64 `json:"total,omitempty"`
}
