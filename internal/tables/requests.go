package tables

// ReservationRequest carries the phone-reservation form fields.
type ReservationRequest struct {
	TableID       string `json:"table_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}
