package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/plantswapio/plantswap-backend/pkg/enums"
)

// Trade is the negotiation envelope between two users. The
// requesting/receiving roles are fixed at creation and never flip,
// even as suggestion authorship alternates.
type Trade struct {
	ID                        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RequestingUserID          uuid.UUID         `gorm:"column:requesting_user_id;type:uuid;not null;index:trades_requesting_user_id_idx"`
	ReceivingUserID           uuid.UUID         `gorm:"column:receiving_user_id;type:uuid;not null;index:trades_receiving_user_id_idx"`
	Status                    enums.TradeStatus `gorm:"type:text;not null"`
	CompletedByRequestingUser bool              `gorm:"column:completed_by_requesting_user;not null;default:false"`
	CompletedByReceivingUser  bool              `gorm:"column:completed_by_receiving_user;not null;default:false"`
	CreatedAt                 time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                 time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// TradeStatusChange is the append-only status audit log. Trade.Status
// must always equal the latest row for the trade; both are written in
// the same transaction.
type TradeStatusChange struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TradeID   uuid.UUID         `gorm:"column:trade_id;type:uuid;not null;index:trade_status_changes_trade_id_idx"`
	Status    enums.TradeStatus `gorm:"type:text;not null"`
	ChangedBy uuid.UUID         `gorm:"column:changed_by;type:uuid;not null"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}

// TradeSuggestion is one offer within a trade. SubjectUserID proposed
// it, ObjectUserID is expected to respond. The terminal markers are
// mutually exclusive.
type TradeSuggestion struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	TradeID       uuid.UUID  `gorm:"column:trade_id;type:uuid;not null;index:trade_suggestions_trade_id_idx"`
	SubjectUserID uuid.UUID  `gorm:"column:subject_user_id;type:uuid;not null"`
	ObjectUserID  uuid.UUID  `gorm:"column:object_user_id;type:uuid;not null"`
	AcceptedAt    *time.Time `gorm:"column:accepted_at"`
	DeniedAt      *time.Time `gorm:"column:denied_at"`
	RespondedAt   *time.Time `gorm:"column:responded_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// TradeSuggestionPlant tags a plant onto a suggestion. Which side the
// plant belongs to is derived from its current owner, not stored here.
type TradeSuggestionPlant struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SuggestionID uuid.UUID `gorm:"column:suggestion_id;type:uuid;not null;index:trade_suggestion_plants_suggestion_id_idx"`
	PlantID      uuid.UUID `gorm:"column:plant_id;type:uuid;not null;index:trade_suggestion_plants_plant_id_idx"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
