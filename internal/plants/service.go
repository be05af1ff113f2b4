package plants

import (
	"context"

	"github.com/google/uuid"

	"github.com/plantswapio/plantswap-backend/internal/taxonomy"
	"github.com/plantswapio/plantswap-backend/pkg/db"
	"github.com/plantswapio/plantswap-backend/pkg/db/models"
	"github.com/plantswapio/plantswap-backend/pkg/enums"
	pkgerrors "github.com/plantswapio/plantswap-backend/pkg/errors"
)

// ServiceParams groups dependencies for the plant service.
type ServiceParams struct {
	PlantRepo    *Repository
	TaxonomyRepo *taxonomy.Repository
}

// Service exposes collection management for owned plants.
type Service interface {
	CreatePlant(ctx context.Context, userID uuid.UUID, input CreatePlantInput) (PlantDTO, error)
	GetPlant(ctx context.Context, userID, plantID uuid.UUID) (PlantDTO, error)
	ListPlants(ctx context.Context, userID uuid.UUID) ([]PlantDTO, error)
	DeletePlant(ctx context.Context, userID, plantID uuid.UUID) error
	MakeTradeable(ctx context.Context, userID, plantID uuid.UUID) error
	MakeUntradeable(ctx context.Context, userID, plantID uuid.UUID) error
}

type service struct {
	plantRepo    *Repository
	taxonomyRepo *taxonomy.Repository
}

// NewService builds a plant service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.PlantRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plant repo is required")
	}
	if params.TaxonomyRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "taxonomy repo is required")
	}
	return &service{
		plantRepo:    params.PlantRepo,
		taxonomyRepo: params.TaxonomyRepo,
	}, nil
}

// CreatePlant registers a plant in the user's collection.
func (s *service) CreatePlant(ctx context.Context, userID uuid.UUID, input CreatePlantInput) (PlantDTO, error) {
	plantType, err := enums.ParsePlantType(input.Type)
	if err != nil {
		return PlantDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid plant type")
	}

	if _, err := s.taxonomyRepo.SpeciesByID(ctx, input.SpeciesID); err != nil {
		if db.IsNotFound(err) {
			return PlantDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "species not found")
		}
		return PlantDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load species")
	}

	plant := &models.Plant{
		UserID:    userID,
		SpeciesID: input.SpeciesID,
		Type:      plantType,
	}
	if err := s.plantRepo.Create(ctx, plant); err != nil {
		return PlantDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create plant")
	}
	return toDTO(plant, false), nil
}

// GetPlant loads one of the user's plants.
func (s *service) GetPlant(ctx context.Context, userID, plantID uuid.UUID) (PlantDTO, error) {
	plant, err := s.ownedPlant(ctx, userID, plantID)
	if err != nil {
		return PlantDTO{}, err
	}
	tradeable, err := s.plantRepo.IsTradeable(ctx, plant.ID)
	if err != nil {
		return PlantDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check tradeable marker")
	}
	return toDTO(plant, tradeable), nil
}

// ListPlants returns the user's collection.
func (s *service) ListPlants(ctx context.Context, userID uuid.UUID) ([]PlantDTO, error) {
	rows, err := s.plantRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list plants")
	}
	result := make([]PlantDTO, 0, len(rows))
	for i := range rows {
		tradeable, err := s.plantRepo.IsTradeable(ctx, rows[i].ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check tradeable marker")
		}
		result = append(result, toDTO(&rows[i], tradeable))
	}
	return result, nil
}

// DeletePlant soft-deletes the plant and clears its tradeable marker.
func (s *service) DeletePlant(ctx context.Context, userID, plantID uuid.UUID) error {
	plant, err := s.ownedPlant(ctx, userID, plantID)
	if err != nil {
		return err
	}
	if err := s.plantRepo.MakeUntradeable(ctx, plant.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear tradeable marker")
	}
	if err := s.plantRepo.SoftDelete(ctx, plant.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete plant")
	}
	return nil
}

// MakeTradeable opens the plant for trading. Repeated calls are no-ops.
func (s *service) MakeTradeable(ctx context.Context, userID, plantID uuid.UUID) error {
	plant, err := s.ownedPlant(ctx, userID, plantID)
	if err != nil {
		return err
	}
	if err := s.plantRepo.MakeTradeable(ctx, plant.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark plant tradeable")
	}
	return nil
}

// MakeUntradeable withdraws the plant from trading. Calling it on a
// plant that is not tradeable is a no-op.
func (s *service) MakeUntradeable(ctx context.Context, userID, plantID uuid.UUID) error {
	plant, err := s.ownedPlant(ctx, userID, plantID)
	if err != nil {
		return err
	}
	if err := s.plantRepo.MakeUntradeable(ctx, plant.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear tradeable marker")
	}
	return nil
}

func (s *service) ownedPlant(ctx context.Context, userID, plantID uuid.UUID) (*models.Plant, error) {
	plant, err := s.plantRepo.FindByID(ctx, plantID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "plant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plant")
	}
	if plant.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "plant belongs to another user")
	}
	return plant, nil
}
