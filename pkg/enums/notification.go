package enums

import "fmt"

// NotificationType identifies the kind of event fanned out to a user.
type NotificationType string

const (
	NotificationTypeTradesUpdate NotificationType = "TRADES_UPDATE"
	// Part of the wire contract; matching is pull-only for now, so
	// nothing publishes this yet.
	NotificationTypeMatchesUpdate NotificationType = "MATCHES_UPDATE"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeTradesUpdate,
	NotificationTypeMatchesUpdate,
}

// String implements fmt.Stringer.
func (n NotificationType) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationType.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw input into a NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
