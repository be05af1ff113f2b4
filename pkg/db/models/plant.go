package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plantswapio/plantswap-backend/pkg/enums"
)

// Plant is a user-owned instance of a species. Ownership transfer on
// trade completion soft-deletes this row and creates a fresh one for
// the new owner, so historical suggestion links stay intact.
type Plant struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index:plants_user_id_idx"`
	SpeciesID uuid.UUID       `gorm:"column:species_id;type:uuid;not null;index:plants_species_id_idx"`
	Type      enums.PlantType `gorm:"type:text;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt  `gorm:"column:deleted_at;index:plants_deleted_at_idx"`
}

// TradeablePlant marks a plant as open for trading. Row existence is
// the source of truth, there is no boolean flag on Plant.
type TradeablePlant struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PlantID   uuid.UUID `gorm:"column:plant_id;type:uuid;not null;uniqueIndex:tradeable_plants_plant_id_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
