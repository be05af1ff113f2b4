package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/plantswapio/plantswap-backend/pkg/enums"
)

// Family is the top taxonomy tier.
type Family struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Genus sits under a family.
type Genus struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	FamilyID  uuid.UUID `gorm:"column:family_id;type:uuid;not null;index:genera_family_id_idx"`
	Name      string    `gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Genus) TableName() string {
	return "genera"
}

// Species is a taxon row at species rank or below. Cultivars and
// varieties reference their parent species through ParentSpeciesID;
// crosses reference both parents through CrossMomID/CrossDadID.
// A non-cross row must keep both cross references null.
type Species struct {
	ID              uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GenusID         uuid.UUID         `gorm:"column:genus_id;type:uuid;not null;index:species_genus_id_idx"`
	FamilyID        uuid.UUID         `gorm:"column:family_id;type:uuid;not null;index:species_family_id_idx"`
	Rank            enums.SpeciesRank `gorm:"type:text;not null"`
	Name            string            `gorm:"type:text;not null"`
	SpeciesName     *string           `gorm:"column:species_name"`
	CultivarName    *string           `gorm:"column:cultivar_name"`
	ParentSpeciesID *uuid.UUID        `gorm:"column:parent_species_id;type:uuid;index:species_parent_species_id_idx"`
	CrossMomID      *uuid.UUID        `gorm:"column:cross_mom_id;type:uuid"`
	CrossDadID      *uuid.UUID        `gorm:"column:cross_dad_id;type:uuid"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (Species) TableName() string {
	return "species"
}
