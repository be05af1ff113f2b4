package interests

import (
	"time"

	"github.com/google/uuid"

	"github.com/plantswapio/plantswap-backend/pkg/db/models"
	"github.com/plantswapio/plantswap-backend/pkg/enums"
)

// AddInterestInput carries validated interest creation fields.
type AddInterestInput struct {
	Level   string    `json:"level" validate:"required"`
	TaxonID uuid.UUID `json:"taxon_id" validate:"required"`
}

// InterestDTO is the public representation of a declared interest.
type InterestDTO struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	Level     enums.InterestLevel `json:"level"`
	SpeciesID *uuid.UUID          `json:"species_id,omitempty"`
	GenusID   *uuid.UUID          `json:"genus_id,omitempty"`
	FamilyID  *uuid.UUID          `json:"family_id,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

func toDTO(interest *models.Interest) InterestDTO {
	return InterestDTO{
		ID:        interest.ID,
		UserID:    interest.UserID,
		Level:     interest.Level,
		SpeciesID: interest.SpeciesID,
		GenusID:   interest.GenusID,
		FamilyID:  interest.FamilyID,
		CreatedAt: interest.CreatedAt,
	}
}
