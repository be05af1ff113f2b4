package trades

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plantswapio/plantswap-backend/internal/plants"
	"github.com/plantswapio/plantswap-backend/pkg/db/models"
)

type gormRepository struct {
	db *gorm.DB
}

type gormPlantRepository struct {
	repo *plants.Repository
}

// NewPlantRepository adapts the plants repository to the subset of
// operations the trade lifecycle needs.
func NewPlantRepository(repo *plants.Repository) PlantRepository {
	return gormPlantRepository{repo: repo}
}

func (g gormPlantRepository) WithTx(tx *gorm.DB) PlantRepository {
	return gormPlantRepository{repo: g.repo.WithTx(tx)}
}

func (g gormPlantRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Plant, error) {
	return g.repo.FindByIDs(ctx, ids)
}

func (g gormPlantRepository) Create(ctx context.Context, plant *models.Plant) error {
	return g.repo.Create(ctx, plant)
}

func (g gormPlantRepository) MakeUntradeable(ctx context.Context, plantID uuid.UUID) error {
	return g.repo.MakeUntradeable(ctx, plantID)
}

func (g gormPlantRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return g.repo.SoftDelete(ctx, id)
}

// NewRepository constructs a trade repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// WithTx returns a repository bound to the transaction handle.
func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &gormRepository{db: tx}
}

func (r *gormRepository) CreateTrade(ctx context.Context, trade *models.Trade) error {
	return r.db.WithContext(ctx).Create(trade).Error
}

func (r *gormRepository) FindTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	var trade models.Trade
	if err := r.db.WithContext(ctx).First(&trade, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &trade, nil
}

// FindTradeForUpdate loads the trade under a row-level lock so the
// check-then-write transition is atomic under concurrent requests.
func (r *gormRepository) FindTradeForUpdate(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	var trade models.Trade
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&trade, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

func (r *gormRepository) UpdateTrade(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Trade{}).
		Where("id = ?", id).
		Updates(updates).
		Error
}

func (r *gormRepository) ListTradesForUser(ctx context.Context, userID uuid.UUID) ([]models.Trade, error) {
	var rows []models.Trade
	err := r.db.WithContext(ctx).
		Where("requesting_user_id = ? OR receiving_user_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gormRepository) AppendStatusChange(ctx context.Context, change *models.TradeStatusChange) error {
	return r.db.WithContext(ctx).Create(change).Error
}

func (r *gormRepository) LatestStatusChange(ctx context.Context, tradeID uuid.UUID) (*models.TradeStatusChange, error) {
	var change models.TradeStatusChange
	err := r.db.WithContext(ctx).
		Where("trade_id = ?", tradeID).
		Order("created_at DESC").
		Order("id DESC").
		First(&change).
		Error
	if err != nil {
		return nil, err
	}
	return &change, nil
}

func (r *gormRepository) CreateSuggestion(ctx context.Context, suggestion *models.TradeSuggestion) error {
	return r.db.WithContext(ctx).Create(suggestion).Error
}

func (r *gormRepository) CreateSuggestionPlants(ctx context.Context, rows []models.TradeSuggestionPlant) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *gormRepository) FindSuggestion(ctx context.Context, id uuid.UUID) (*models.TradeSuggestion, error) {
	var suggestion models.TradeSuggestion
	if err := r.db.WithContext(ctx).First(&suggestion, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &suggestion, nil
}

// CurrentSuggestion returns the most recently created suggestion for
// the trade.
func (r *gormRepository) CurrentSuggestion(ctx context.Context, tradeID uuid.UUID) (*models.TradeSuggestion, error) {
	var suggestion models.TradeSuggestion
	err := r.db.WithContext(ctx).
		Where("trade_id = ?", tradeID).
		Order("created_at DESC").
		Order("id DESC").
		First(&suggestion).
		Error
	if err != nil {
		return nil, err
	}
	return &suggestion, nil
}

// LatestAcceptedSuggestion returns the most recent suggestion with a
// non-null accepted marker.
func (r *gormRepository) LatestAcceptedSuggestion(ctx context.Context, tradeID uuid.UUID) (*models.TradeSuggestion, error) {
	var suggestion models.TradeSuggestion
	err := r.db.WithContext(ctx).
		Where("trade_id = ? AND accepted_at IS NOT NULL", tradeID).
		Order("created_at DESC").
		Order("id DESC").
		First(&suggestion).
		Error
	if err != nil {
		return nil, err
	}
	return &suggestion, nil
}

func (r *gormRepository) SuggestionPlantIDs(ctx context.Context, suggestionID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.TradeSuggestionPlant{}).
		Where("suggestion_id = ?", suggestionID).
		Pluck("plant_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *gormRepository) MarkSuggestionAccepted(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.TradeSuggestion{}).
		Where("id = ?", id).
		Update("accepted_at", at).
		Error
}

func (r *gormRepository) MarkSuggestionDenied(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.TradeSuggestion{}).
		Where("id = ?", id).
		Update("denied_at", at).
		Error
}

func (r *gormRepository) MarkSuggestionResponded(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.TradeSuggestion{}).
		Where("id = ?", id).
		Update("responded_at", at).
		Error
}
