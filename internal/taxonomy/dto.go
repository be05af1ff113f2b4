package taxonomy

import (
	"github.com/google/uuid"

	"github.com/plantswapio/plantswap-backend/pkg/enums"
)

// CreateFamilyInput carries validated family creation fields.
type CreateFamilyInput struct {
	Name string `json:"name" validate:"required,min=2,max=128"`
}

// CreateGenusInput carries validated genus creation fields.
type CreateGenusInput struct {
	FamilyID uuid.UUID `json:"family_id" validate:"required"`
	Name     string    `json:"name" validate:"required,min=2,max=128"`
}

// CreateSpeciesInput carries validated species creation fields.
type CreateSpeciesInput struct {
	GenusID         uuid.UUID  `json:"genus_id" validate:"required"`
	Rank            string     `json:"rank" validate:"required"`
	Name            string     `json:"name" validate:"required,min=2,max=256"`
	SpeciesName     *string    `json:"species_name,omitempty"`
	CultivarName    *string    `json:"cultivar_name,omitempty"`
	ParentSpeciesID *uuid.UUID `json:"parent_species_id,omitempty"`
	CrossMomID      *uuid.UUID `json:"cross_mom_id,omitempty"`
	CrossDadID      *uuid.UUID `json:"cross_dad_id,omitempty"`
}

// FamilyDTO is the public representation of a family.
type FamilyDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// GenusDTO is the public representation of a genus.
type GenusDTO struct {
	ID       uuid.UUID `json:"id"`
	FamilyID uuid.UUID `json:"family_id"`
	Name     string    `json:"name"`
}

// SpeciesDTO is the public representation of a species with its
// composed display name.
type SpeciesDTO struct {
	ID              uuid.UUID         `json:"id"`
	GenusID         uuid.UUID         `json:"genus_id"`
	FamilyID        uuid.UUID         `json:"family_id"`
	Rank            enums.SpeciesRank `json:"rank"`
	Name            string            `json:"name"`
	FullName        string            `json:"full_name"`
	SpeciesName     *string           `json:"species_name,omitempty"`
	CultivarName    *string           `json:"cultivar_name,omitempty"`
	ParentSpeciesID *uuid.UUID        `json:"parent_species_id,omitempty"`
	CrossMomID      *uuid.UUID        `json:"cross_mom_id,omitempty"`
	CrossDadID      *uuid.UUID        `json:"cross_dad_id,omitempty"`
}

// SplitNameDTO pairs a composed name with its scientific portions.
type SplitNameDTO struct {
	Name               string   `json:"name"`
	ScientificPortions []string `json:"scientific_portions"`
}
