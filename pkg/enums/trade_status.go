package enums

import "fmt"

// TradeStatus is the lifecycle state of a trade negotiation.
type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "pending"
	TradeStatusAccepted  TradeStatus = "accepted"
	TradeStatusCompleted TradeStatus = "completed"
	TradeStatusDeclined  TradeStatus = "declined"
	TradeStatusCancelled TradeStatus = "cancelled"
)

var validTradeStatuses = []TradeStatus{
	TradeStatusPending,
	TradeStatusAccepted,
	TradeStatusCompleted,
	TradeStatusDeclined,
	TradeStatusCancelled,
}

// String implements fmt.Stringer.
func (t TradeStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TradeStatus.
func (t TradeStatus) IsValid() bool {
	for _, candidate := range validTradeStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (t TradeStatus) IsTerminal() bool {
	switch t {
	case TradeStatusCompleted, TradeStatusDeclined, TradeStatusCancelled:
		return true
	}
	return false
}

// ParseTradeStatus converts raw input into a TradeStatus.
func ParseTradeStatus(value string) (TradeStatus, error) {
	for _, candidate := range validTradeStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trade status %q", value)
}
