package tablestatus

import (
	"strings"
)

type Status struct {
	Name string
}

func (s Status) Code() string {
	return s.Name
}

func (s Status) Label() string {
	parts := strings.Split(s.Name, "-")
	for i := range parts {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, " ")
}

type Enum struct {
	Available Status
	Reserved  Status
}

var Statuses = Enum{
	Available: Status{Name: "available"},
	Reserved:  Status{Name: "reserved"},
}

var All = []Status{
	Statuses.Available,
	Statuses.Reserved,
}

// ByName returns the status for a given name, or nil if not found
func ByName(name string) *Status {
	for _, s := range All {
		if s.Name == name {
			return &s
		}
	}
	return nil
}

// Toggle returns the opposite status. A table is always in exactly one of
// the two states, so toggling is total.
func Toggle(name string) Status {
	if name == Statuses.Available.Name {
		return Statuses.Reserved
	}
	return Statuses.Available
}
