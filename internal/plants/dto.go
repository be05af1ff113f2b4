package plants

import (
	"time"

	"github.com/google/uuid"

	"github.com/plantswapio/plantswap-backend/pkg/db/models"
	"github.com/plantswapio/plantswap-backend/pkg/enums"
)

// CreatePlantInput carries validated plant creation fields.
type CreatePlantInput struct {
	SpeciesID uuid.UUID `json:"species_id" validate:"required"`
	Type      string    `json:"type" validate:"required"`
}

// PlantDTO is the public representation of an owned plant.
type PlantDTO struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	SpeciesID uuid.UUID       `json:"species_id"`
	Type      enums.PlantType `json:"type"`
	Tradeable bool            `json:"tradeable"`
	CreatedAt time.Time       `json:"created_at"`
}

func toDTO(plant *models.Plant, tradeable bool) PlantDTO {
	return PlantDTO{
		ID:        plant.ID,
		UserID:    plant.UserID,
		SpeciesID: plant.SpeciesID,
		Type:      plant.Type,
		Tradeable: tradeable,
		CreatedAt: plant.CreatedAt,
	}
}
