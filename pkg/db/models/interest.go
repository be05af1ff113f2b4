package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/plantswapio/plantswap-backend/pkg/enums"
)

// Interest is a user's declared desire for a taxon. Exactly one of
// SpeciesID, GenusID, FamilyID is set, matching Level.
type Interest struct {
	ID        uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index:interests_user_id_idx"`
	Level     enums.InterestLevel `gorm:"type:text;not null"`
	SpeciesID *uuid.UUID          `gorm:"column:species_id;type:uuid;index:interests_species_id_idx"`
	GenusID   *uuid.UUID          `gorm:"column:genus_id;type:uuid;index:interests_genus_id_idx"`
	FamilyID  *uuid.UUID          `gorm:"column:family_id;type:uuid;index:interests_family_id_idx"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}
