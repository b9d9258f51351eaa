package tables

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

// Reservation records a phone reservation taken by the owner. Date and
// time arrive as the free-text values the form collects; only the table,
// name and phone are required.
type Reservation struct {
	ID            uuid.UUID `json:"id"`
	TableID       string    `json:"table_id"`
	TableNumber   string    `json:"table_number"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Date          string    `json:"date,omitempty"`
	Time          string    `json:"time,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

func (r *Reservation) GetID() uuid.UUID {
	return r.ID
}

func (r *Reservation) ResourceType() string {
	return "reservation"
}

func (r *Reservation) SetID(id uuid.UUID) {
	r.ID = id
}

func NewReservation() *Reservation {
	return &Reservation{
		ID:     apt.GenerateNewID(),
		Status: "confirmed",
	}
}

func (r *Reservation) EnsureID() {
	if r.ID == uuid.Nil {
		r.ID = apt.GenerateNewID()
	}
}

func (r *Reservation) BeforeCreate() {
	r.EnsureID()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
}
