package enums

import "fmt"

// ExchangeStatus tracks an exchange proposal through its lifecycle.
// Completed and rejected are terminal.
type ExchangeStatus string

const (
	ExchangeStatusPending   ExchangeStatus = "pending"
	ExchangeStatusAccepted  ExchangeStatus = "accepted"
	ExchangeStatusCompleted ExchangeStatus = "completed"
	ExchangeStatusRejected  ExchangeStatus = "rejected"
)

var validExchangeStatuses = []ExchangeStatus{
	ExchangeStatusPending,
	ExchangeStatusAccepted,
	ExchangeStatusCompleted,
	ExchangeStatusRejected,
}

// String implements fmt.Stringer.
func (s ExchangeStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ExchangeStatus.
func (s ExchangeStatus) IsValid() bool {
	for _, candidate := range validExchangeStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is permitted.
func (s ExchangeStatus) IsTerminal() bool {
	return s == ExchangeStatusCompleted || s == ExchangeStatusRejected
}

// ParseExchangeStatus converts raw input into an ExchangeStatus.
func ParseExchangeStatus(value string) (ExchangeStatus, error) {
	for _, candidate := range validExchangeStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid exchange status %q", value)
}
