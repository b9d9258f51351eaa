package tables

import (
	"strings"
)

// ValidationError carries the per-field messages a blocked form shows.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

func ValidateReservation(req ReservationRequest) []string {
	var errors []string

	if strings.TrimSpace(req.TableID) == "" {
		errors = append(errors, "table_id is required")
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		errors = append(errors, "customer_name is required")
	}

	if strings.TrimSpace(req.CustomerPhone) == "" {
		errors = append(errors, "customer_phone is required")
	}

	return errors
}
