package trades

import (
	"time"

	"github.com/google/uuid"

	"github.com/plantswapio/plantswap-backend/pkg/db/models"
	"github.com/plantswapio/plantswap-backend/pkg/enums"
)

// CompletionResult reports how far along a two-phase completion is.
type CompletionResult string

const (
	CompletionPartial CompletionResult = "partially_completed"
	CompletionFull    CompletionResult = "fully_completed"
)

// CreateTradeInput opens a negotiation with an initial suggestion.
// The caller becomes the trade's fixed requesting user.
type CreateTradeInput struct {
	ObjectUserID    uuid.UUID   `json:"object_user_id" validate:"required"`
	SubjectPlantIDs []uuid.UUID `json:"subject_plant_ids" validate:"required,min=1,dive,required"`
	ObjectPlantIDs  []uuid.UUID `json:"object_plant_ids" validate:"required,min=1,dive,required"`
}

// CounterSuggestionInput answers the current suggestion with a new one.
type CounterSuggestionInput struct {
	TradeID         uuid.UUID   `json:"-"`
	SuggestionID    uuid.UUID   `json:"suggestion_id" validate:"required"`
	SubjectPlantIDs []uuid.UUID `json:"subject_plant_ids" validate:"required,min=1,dive,required"`
	ObjectPlantIDs  []uuid.UUID `json:"object_plant_ids" validate:"required,min=1,dive,required"`
}

// SuggestionDTO is one offer within a trade.
type SuggestionDTO struct {
	ID            uuid.UUID   `json:"id"`
	TradeID       uuid.UUID   `json:"trade_id"`
	SubjectUserID uuid.UUID   `json:"subject_user_id"`
	ObjectUserID  uuid.UUID   `json:"object_user_id"`
	PlantIDs      []uuid.UUID `json:"plant_ids"`
	AcceptedAt    *time.Time  `json:"accepted_at,omitempty"`
	DeniedAt      *time.Time  `json:"denied_at,omitempty"`
	RespondedAt   *time.Time  `json:"responded_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// TradeDTO is the public representation of a negotiation envelope.
type TradeDTO struct {
	ID                        uuid.UUID         `json:"id"`
	RequestingUserID          uuid.UUID         `json:"requesting_user_id"`
	ReceivingUserID           uuid.UUID         `json:"receiving_user_id"`
	Status                    enums.TradeStatus `json:"status"`
	CompletedByRequestingUser bool              `json:"completed_by_requesting_user"`
	CompletedByReceivingUser  bool              `json:"completed_by_receiving_user"`
	CurrentSuggestion         *SuggestionDTO    `json:"current_suggestion,omitempty"`
	CreatedAt                 time.Time         `json:"created_at"`
}

// CompletionDTO is returned from a completion call.
type CompletionDTO struct {
	Result CompletionResult `json:"result"`
}

func tradeToDTO(trade *models.Trade, current *SuggestionDTO) TradeDTO {
	return TradeDTO{
		ID:                        trade.ID,
		RequestingUserID:          trade.RequestingUserID,
		ReceivingUserID:           trade.ReceivingUserID,
		Status:                    trade.Status,
		CompletedByRequestingUser: trade.CompletedByRequestingUser,
		CompletedByReceivingUser:  trade.CompletedByReceivingUser,
		CurrentSuggestion:         current,
		CreatedAt:                 trade.CreatedAt,
	}
}

func suggestionToDTO(suggestion *models.TradeSuggestion, plantIDs []uuid.UUID) SuggestionDTO {
	return SuggestionDTO{
		ID:            suggestion.ID,
		TradeID:       suggestion.TradeID,
		SubjectUserID: suggestion.SubjectUserID,
		ObjectUserID:  suggestion.ObjectUserID,
		PlantIDs:      plantIDs,
		AcceptedAt:    suggestion.AcceptedAt,
		DeniedAt:      suggestion.DeniedAt,
		RespondedAt:   suggestion.RespondedAt,
		CreatedAt:     suggestion.CreatedAt,
	}
}
