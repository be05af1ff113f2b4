package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/plantswapio/plantswap-backend/pkg/db/models"
	"github.com/plantswapio/plantswap-backend/pkg/enums"
)

// Event is the wire payload published for a user-facing update.
type Event struct {
	EventID uuid.UUID              `json:"event_id"`
	UserID  uuid.UUID              `json:"user_id"`
	Type    enums.NotificationType `json:"type"`
	TradeID *uuid.UUID             `json:"trade_id,omitempty"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
}

// NotificationDTO is the public representation of an in-app notification.
type NotificationDTO struct {
	ID        uuid.UUID              `json:"id"`
	Type      enums.NotificationType `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	TradeID   *uuid.UUID             `json:"trade_id,omitempty"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// NotificationsPageDTO is a cursor-paginated notification listing.
type NotificationsPageDTO struct {
	Items      []NotificationDTO `json:"items"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

func toDTO(notification *models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        notification.ID,
		Type:      notification.Type,
		Title:     notification.Title,
		Message:   notification.Message,
		TradeID:   notification.TradeID,
		ReadAt:    notification.ReadAt,
		CreatedAt: notification.CreatedAt,
	}
}
