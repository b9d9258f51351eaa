package menu

import (
	"strconv"
	"strings"
)

// ValidationError carries the per-field messages a blocked form shows.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

func ValidateAddDish(name, priceText, description string) []string {
	var errors []string

	if strings.TrimSpace(name) == "" {
		errors = append(errors, "name is required")
	}

	if strings.TrimSpace(priceText) == "" {
		errors = append(errors, "price is required")
	} else if _, err := parsePrice(priceText); err != nil {
		errors = append(errors, err.Error())
	}

	if strings.TrimSpace(description) == "" {
		errors = append(errors, "description is required")
	}

	return errors
}

func parsePrice(priceText string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(priceText), 64)
	if err != nil {
		return 0, errInvalidPrice
	}
	if price < 0 {
		return 0, errNegativePrice
	}
	return price, nil
}
