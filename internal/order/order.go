package order

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"

	"github.com/nextgenmall/foodcourt/pkg/enums/orderstatus"
)

// Order is a placed request for one or more dishes, tracked through the
// preparing/ready/delivered lifecycle. Items is the free-text summary the
// dashboard displays ("Grilled Chicken x2, Beef Kebabs x1").
type Order struct {
	ID         uuid.UUID `json:"id"`
	Number     int       `json:"number"`
	Customer   string    `json:"customer"`
	Items      string    `json:"items"`
	Total      float64   `json:"total"`
	Status     string    `json:"status"`
	TableLabel string    `json:"table_label,omitempty"`
	PlacedAt   time.Time `json:"placed_at"`
}

func (o *Order) GetID() uuid.UUID {
	return o.ID
}

func (o *Order) ResourceType() string {
	return "order"
}

func (o *Order) SetID(id uuid.UUID) {
	o.ID = id
}

func NewOrder() *Order {
	return &Order{
		ID:     apt.GenerateNewID(),
		Status: orderstatus.Statuses.Preparing.Code(),
	}
}

func (o *Order) EnsureID() {
	if o.ID == uuid.Nil {
		o.ID = apt.GenerateNewID()
	}
}

func (o *Order) BeforeCreate() {
	o.EnsureID()
	if o.PlacedAt.IsZero() {
		o.PlacedAt = time.Now()
	}
}

// Active reports whether the order still needs attention.
func (o *Order) Active() bool {
	return o.Status != orderstatus.Statuses.Delivered.Code()
}

// TimeLabel formats the creation timestamp the way the dashboard shows it.
func (o *Order) TimeLabel() string {
	return o.PlacedAt.Format("3:04 PM")
}
