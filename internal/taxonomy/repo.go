package taxonomy

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plantswapio/plantswap-backend/pkg/db/models"
)

// Repository encapsulates taxonomy persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a taxonomy repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FamilyByID loads a family by primary key.
func (r *Repository) FamilyByID(ctx context.Context, id uuid.UUID) (*models.Family, error) {
	var family models.Family
	if err := r.db.WithContext(ctx).First(&family, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &family, nil
}

// GenusByID loads a genus by primary key.
func (r *Repository) GenusByID(ctx context.Context, id uuid.UUID) (*models.Genus, error) {
	var genus models.Genus
	if err := r.db.WithContext(ctx).First(&genus, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &genus, nil
}

// SpeciesByID loads a species by primary key.
func (r *Repository) SpeciesByID(ctx context.Context, id uuid.UUID) (*models.Species, error) {
	var species models.Species
	if err := r.db.WithContext(ctx).First(&species, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &species, nil
}

// CreateFamily inserts a family row.
func (r *Repository) CreateFamily(ctx context.Context, family *models.Family) error {
	return r.db.WithContext(ctx).Create(family).Error
}

// CreateGenus inserts a genus row.
func (r *Repository) CreateGenus(ctx context.Context, genus *models.Genus) error {
	return r.db.WithContext(ctx).Create(genus).Error
}

// CreateSpecies inserts a species row.
func (r *Repository) CreateSpecies(ctx context.Context, species *models.Species) error {
	return r.db.WithContext(ctx).Create(species).Error
}

// SearchSpecies returns species whose display name matches the query prefix.
func (r *Repository) SearchSpecies(ctx context.Context, query string, limit int) ([]models.Species, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	var rows []models.Species
	err := r.db.WithContext(ctx).
		Where("name ILIKE ?", query+"%").
		Order("name ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListGeneraByFamily returns all genera under a family.
func (r *Repository) ListGeneraByFamily(ctx context.Context, familyID uuid.UUID) ([]models.Genus, error) {
	var rows []models.Genus
	err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("name ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
