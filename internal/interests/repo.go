package interests

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plantswapio/plantswap-backend/pkg/db/models"
	"github.com/plantswapio/plantswap-backend/pkg/enums"
)

// Repository encapsulates interest persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an interest repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an interest row.
func (r *Repository) Create(ctx context.Context, interest *models.Interest) error {
	return r.db.WithContext(ctx).Create(interest).Error
}

// Exists reports whether the user already declared this exact interest.
func (r *Repository) Exists(ctx context.Context, userID uuid.UUID, level enums.InterestLevel, taxonID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Interest{}).
		Where("user_id = ? AND level = ?", userID, level)

	switch level {
	case enums.InterestLevelSpecies:
		query = query.Where("species_id = ?", taxonID)
	case enums.InterestLevelGenus:
		query = query.Where("genus_id = ?", taxonID)
	case enums.InterestLevelFamily:
		query = query.Where("family_id = ?", taxonID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes an interest owned by the user.
func (r *Repository) Delete(ctx context.Context, userID, interestID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", interestID, userID).
		Delete(&models.Interest{})
	return result.RowsAffected, result.Error
}

// ListByUser returns the user's declared interests.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Interest, error) {
	var rows []models.Interest
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
