package trades

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plantswapio/plantswap-backend/pkg/db/models"
)

// PlantRepository covers the plant reads and writes the trade
// lifecycle performs: ownership checks on suggestion plants and the
// ownership transfer at completion.
type PlantRepository interface {
	WithTx(tx *gorm.DB) PlantRepository
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Plant, error)
	Create(ctx context.Context, plant *models.Plant) error
	MakeUntradeable(ctx context.Context, plantID uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// Repository defines persistence operations for trade negotiation tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateTrade(ctx context.Context, trade *models.Trade) error
	FindTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error)
	FindTradeForUpdate(ctx context.Context, id uuid.UUID) (*models.Trade, error)
	UpdateTrade(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ListTradesForUser(ctx context.Context, userID uuid.UUID) ([]models.Trade, error)

	AppendStatusChange(ctx context.Context, change *models.TradeStatusChange) error
	LatestStatusChange(ctx context.Context, tradeID uuid.UUID) (*models.TradeStatusChange, error)

	CreateSuggestion(ctx context.Context, suggestion *models.TradeSuggestion) error
	CreateSuggestionPlants(ctx context.Context, rows []models.TradeSuggestionPlant) error
	FindSuggestion(ctx context.Context, id uuid.UUID) (*models.TradeSuggestion, error)
	CurrentSuggestion(ctx context.Context, tradeID uuid.UUID) (*models.TradeSuggestion, error)
	LatestAcceptedSuggestion(ctx context.Context, tradeID uuid.UUID) (*models.TradeSuggestion, error)
	SuggestionPlantIDs(ctx context.Context, suggestionID uuid.UUID) ([]uuid.UUID, error)
	MarkSuggestionAccepted(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkSuggestionDenied(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkSuggestionResponded(ctx context.Context, id uuid.UUID, at time.Time) error
}
