package plants

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plantswapio/plantswap-backend/pkg/db/models"
)

// Repository encapsulates plant persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a plant repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a plant row.
func (r *Repository) Create(ctx context.Context, plant *models.Plant) error {
	return r.db.WithContext(ctx).Create(plant).Error
}

// FindByID loads a live plant by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Plant, error) {
	var plant models.Plant
	if err := r.db.WithContext(ctx).First(&plant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &plant, nil
}

// FindByIDs loads live plants for the given primary keys.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Plant, error) {
	var rows []models.Plant
	if len(ids) == 0 {
		return rows, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByUser returns a user's live plants.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Plant, error) {
	var rows []models.Plant
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SoftDelete marks a plant as deleted.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Plant{}, "id = ?", id).Error
}

// MakeTradeable inserts the tradeable marker and ignores duplicates.
func (r *Repository) MakeTradeable(ctx context.Context, plantID uuid.UUID) error {
	if plantID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	marker := &models.TradeablePlant{ID: uuid.New(), PlantID: plantID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "plant_id"}},
			DoNothing: true,
		}).
		Create(marker).
		Error
}

// MakeUntradeable deletes the tradeable marker if it exists.
func (r *Repository) MakeUntradeable(ctx context.Context, plantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("plant_id = ?", plantID).
		Delete(&models.TradeablePlant{}).
		Error
}

// IsTradeable reports whether the plant currently carries a tradeable marker.
func (r *Repository) IsTradeable(ctx context.Context, plantID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TradeablePlant{}).
		Where("plant_id = ?", plantID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UserOwnsSpecies reports whether the user has a live plant of the species.
func (r *Repository) UserOwnsSpecies(ctx context.Context, userID, speciesID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Plant{}).
		Where("user_id = ? AND species_id = ?", userID, speciesID).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
