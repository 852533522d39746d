package enums

import "fmt"

// TicketStatus tracks an order ticket from checkout to dispatch.
type TicketStatus string

const (
	TicketStatusPending TicketStatus = "pending"
	TicketStatusReady   TicketStatus = "listo"
)

var validTicketStatuses = []TicketStatus{
	TicketStatusPending,
	TicketStatusReady,
}

// String implements fmt.Stringer.
func (s TicketStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TicketStatus.
func (s TicketStatus) IsValid() bool {
	for _, candidate := range validTicketStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTicketStatus converts raw input into a TicketStatus.
func ParseTicketStatus(value string) (TicketStatus, error) {
	for _, candidate := range validTicketStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket status %q", value)
}
