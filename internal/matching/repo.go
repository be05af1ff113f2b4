package matching

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plantswapio/plantswap-backend/pkg/db/models"
	"github.com/plantswapio/plantswap-backend/pkg/enums"
)

// TradeableRow is one tradeable plant with its taxonomy lineage, the
// unit the matching queries operate on.
type TradeableRow struct {
	PlantID   uuid.UUID `gorm:"column:plant_id"`
	OwnerID   uuid.UUID `gorm:"column:owner_id"`
	SpeciesID uuid.UUID `gorm:"column:species_id"`
	GenusID   uuid.UUID `gorm:"column:genus_id"`
	FamilyID  uuid.UUID `gorm:"column:family_id"`
}

// Repository encapsulates the read-only queries the matching engine needs.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a matching repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

const tradeableSelect = `tp.plant_id AS plant_id, p.user_id AS owner_id, p.species_id AS species_id, s.genus_id AS genus_id, s.family_id AS family_id`

func (r *Repository) tradeableQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("tradeable_plants tp").
		Select(tradeableSelect).
		Joins("JOIN plants p ON p.id = tp.plant_id AND p.deleted_at IS NULL").
		Joins("JOIN species s ON s.id = p.species_id")
}

// AllTradeableRows returns every live tradeable plant except the given user's.
func (r *Repository) AllTradeableRows(ctx context.Context, excludeUserID uuid.UUID) ([]TradeableRow, error) {
	var rows []TradeableRow
	err := r.tradeableQuery(ctx).
		Where("p.user_id <> ?", excludeUserID).
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TradeableRowsByUser returns a user's live tradeable plants.
func (r *Repository) TradeableRowsByUser(ctx context.Context, userID uuid.UUID) ([]TradeableRow, error) {
	var rows []TradeableRow
	err := r.tradeableQuery(ctx).
		Where("p.user_id = ?", userID).
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TradeableRowsForSpecies returns live tradeable plants of the species,
// excluding the given user's own.
func (r *Repository) TradeableRowsForSpecies(ctx context.Context, speciesID, excludeUserID uuid.UUID) ([]TradeableRow, error) {
	var rows []TradeableRow
	err := r.tradeableQuery(ctx).
		Where("p.species_id = ? AND p.user_id <> ?", speciesID, excludeUserID).
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// InterestsByUser returns a user's declared interests.
func (r *Repository) InterestsByUser(ctx context.Context, userID uuid.UUID) ([]models.Interest, error) {
	var rows []models.Interest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// InterestedUserIDs returns distinct users whose interests cover the
// species at any tier, excluding the given user.
func (r *Repository) InterestedUserIDs(ctx context.Context, species *models.Species, excludeUserID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Interest{}).
		Distinct("user_id").
		Where("user_id <> ?", excludeUserID).
		Where(
			r.db.Where("species_id = ?", species.ID).
				Or("genus_id = ?", species.GenusID).
				Or("family_id = ?", species.FamilyID),
		).
		Pluck("user_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// OpenTradeCount counts trades between the two users that are not in a
// terminal status.
func (r *Repository) OpenTradeCount(ctx context.Context, userA, userB uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Trade{}).
		Where("status IN ?", []enums.TradeStatus{enums.TradeStatusPending, enums.TradeStatusAccepted}).
		Where(
			r.db.Where("requesting_user_id = ? AND receiving_user_id = ?", userA, userB).
				Or("requesting_user_id = ? AND receiving_user_id = ?", userB, userA),
		).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Usernames resolves display names for a set of users.
func (r *Repository) Usernames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	result := map[uuid.UUID]string{}
	if len(ids) == 0 {
		return result, nil
	}

	type row struct {
		ID       uuid.UUID `gorm:"column:id"`
		Username string    `gorm:"column:username"`
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("id", "username").
		Where("id IN ?", ids).
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}
	for _, u := range rows {
		result[u.ID] = u.Username
	}
	return result, nil
}
