package interests

import (
	"context"

	"github.com/google/uuid"

	"github.com/plantswapio/plantswap-backend/internal/taxonomy"
	"github.com/plantswapio/plantswap-backend/pkg/db"
	"github.com/plantswapio/plantswap-backend/pkg/db/models"
	"github.com/plantswapio/plantswap-backend/pkg/enums"
	pkgerrors "github.com/plantswapio/plantswap-backend/pkg/errors"
)

// ServiceParams groups dependencies for the interest service.
type ServiceParams struct {
	InterestRepo *Repository
	TaxonomyRepo *taxonomy.Repository
}

// Service exposes interest declaration management.
type Service interface {
	Add(ctx context.Context, userID uuid.UUID, input AddInterestInput) (InterestDTO, error)
	Remove(ctx context.Context, userID, interestID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]InterestDTO, error)
}

type service struct {
	interestRepo *Repository
	taxonomyRepo *taxonomy.Repository
}

// NewService builds an interest service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.InterestRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "interest repo is required")
	}
	if params.TaxonomyRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "taxonomy repo is required")
	}
	return &service{
		interestRepo: params.InterestRepo,
		taxonomyRepo: params.TaxonomyRepo,
	}, nil
}

// Add declares an interest at one of the three taxonomic levels.
// Duplicate declarations for the same (user, taxon) pair are rejected
// before insert.
func (s *service) Add(ctx context.Context, userID uuid.UUID, input AddInterestInput) (InterestDTO, error) {
	level, err := enums.ParseInterestLevel(input.Level)
	if err != nil {
		return InterestDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid interest level")
	}

	if err := s.ensureTaxonExists(ctx, level, input.TaxonID); err != nil {
		return InterestDTO{}, err
	}

	exists, err := s.interestRepo.Exists(ctx, userID, level, input.TaxonID)
	if err != nil {
		return InterestDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing interest")
	}
	if exists {
		return InterestDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "interest already declared")
	}

	interest := &models.Interest{
		UserID: userID,
		Level:  level,
	}
	taxonID := input.TaxonID
	switch level {
	case enums.InterestLevelSpecies:
		interest.SpeciesID = &taxonID
	case enums.InterestLevelGenus:
		interest.GenusID = &taxonID
	case enums.InterestLevelFamily:
		interest.FamilyID = &taxonID
	}

	if err := s.interestRepo.Create(ctx, interest); err != nil {
		return InterestDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create interest")
	}
	return toDTO(interest), nil
}

// Remove deletes the user's interest declaration.
func (s *service) Remove(ctx context.Context, userID, interestID uuid.UUID) error {
	affected, err := s.interestRepo.Delete(ctx, userID, interestID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete interest")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "interest not found")
	}
	return nil
}

// List returns all of the user's interest declarations.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]InterestDTO, error) {
	rows, err := s.interestRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list interests")
	}
	result := make([]InterestDTO, 0, len(rows))
	for i := range rows {
		result = append(result, toDTO(&rows[i]))
	}
	return result, nil
}

func (s *service) ensureTaxonExists(ctx context.Context, level enums.InterestLevel, taxonID uuid.UUID) error {
	var err error
	switch level {
	case enums.InterestLevelSpecies:
		_, err = s.taxonomyRepo.SpeciesByID(ctx, taxonID)
	case enums.InterestLevelGenus:
		_, err = s.taxonomyRepo.GenusByID(ctx, taxonID)
	case enums.InterestLevelFamily:
		_, err = s.taxonomyRepo.FamilyByID(ctx, taxonID)
	}
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "taxon not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load taxon")
	}
	return nil
}
