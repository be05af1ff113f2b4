package taxonomy

import (
	"context"
	"strings"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
	"github.com/google/uuid"

	"github.com/plantswapio/plantswap-backend/pkg/db"
	"github.com/plantswapio/plantswap-backend/pkg/db/models"
	"github.com/plantswapio/plantswap-backend/pkg/enums"
	pkgerrors "github.com/plantswapio/plantswap-backend/pkg/errors"
)

// ServiceParams groups dependencies for the taxonomy service.
type ServiceParams struct {
	Repo            *Repository
	MaxLineageDepth int
}

// Service exposes taxonomy management and name derivation.
type Service interface {
	CreateFamily(ctx context.Context, input CreateFamilyInput) (FamilyDTO, error)
	CreateGenus(ctx context.Context, input CreateGenusInput) (GenusDTO, error)
	CreateSpecies(ctx context.Context, input CreateSpeciesInput) (SpeciesDTO, error)
	GetSpecies(ctx context.Context, id uuid.UUID) (SpeciesDTO, error)
	GetFullName(ctx context.Context, speciesID uuid.UUID) (string, error)
	GetScientificallySplitName(ctx context.Context, speciesID uuid.UUID) (SplitNameDTO, error)
	SearchSpecies(ctx context.Context, query string, limit int) ([]SpeciesDTO, error)
}

type service struct {
	repo     *Repository
	composer *NameComposer
	parser   gnparser.GNparser
}

// NewService builds a taxonomy service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "taxonomy repo is required")
	}
	composer, err := NewNameComposer(params.Repo, params.MaxLineageDepth)
	if err != nil {
		return nil, err
	}
	parserCfg := gnparser.NewConfig(gnparser.OptCode(nomcode.Botanical))
	return &service{
		repo:     params.Repo,
		composer: composer,
		parser:   gnparser.New(parserCfg),
	}, nil
}

// CreateFamily inserts a new family.
func (s *service) CreateFamily(ctx context.Context, input CreateFamilyInput) (FamilyDTO, error) {
	family := &models.Family{Name: strings.TrimSpace(input.Name)}
	if err := s.repo.CreateFamily(ctx, family); err != nil {
		if db.IsUniqueViolation(err) {
			return FamilyDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "family already exists")
		}
		return FamilyDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create family")
	}
	return FamilyDTO{ID: family.ID, Name: family.Name}, nil
}

// CreateGenus inserts a new genus under an existing family.
func (s *service) CreateGenus(ctx context.Context, input CreateGenusInput) (GenusDTO, error) {
	if _, err := s.repo.FamilyByID(ctx, input.FamilyID); err != nil {
		if db.IsNotFound(err) {
			return GenusDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "family not found")
		}
		return GenusDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load family")
	}

	genus := &models.Genus{
		FamilyID: input.FamilyID,
		Name:     strings.TrimSpace(input.Name),
	}
	if err := s.repo.CreateGenus(ctx, genus); err != nil {
		if db.IsUniqueViolation(err) {
			return GenusDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "genus already exists")
		}
		return GenusDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create genus")
	}
	return GenusDTO{ID: genus.ID, FamilyID: genus.FamilyID, Name: genus.Name}, nil
}

// CreateSpecies validates lineage invariants and inserts a species row.
func (s *service) CreateSpecies(ctx context.Context, input CreateSpeciesInput) (SpeciesDTO, error) {
	rank, err := enums.ParseSpeciesRank(input.Rank)
	if err != nil {
		return SpeciesDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid rank")
	}

	genus, err := s.repo.GenusByID(ctx, input.GenusID)
	if err != nil {
		if db.IsNotFound(err) {
			return SpeciesDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "genus not found")
		}
		return SpeciesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load genus")
	}

	species := &models.Species{
		GenusID:         genus.ID,
		FamilyID:        genus.FamilyID,
		Rank:            rank,
		Name:            strings.TrimSpace(input.Name),
		SpeciesName:     input.SpeciesName,
		CultivarName:    input.CultivarName,
		ParentSpeciesID: input.ParentSpeciesID,
		CrossMomID:      input.CrossMomID,
		CrossDadID:      input.CrossDadID,
	}

	if err := s.validateLineage(ctx, species); err != nil {
		return SpeciesDTO{}, err
	}

	if rank == enums.SpeciesRankSpecies {
		parsed := s.parser.ParseName(species.Name)
		if !parsed.Parsed {
			return SpeciesDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name is not a parseable scientific name")
		}
		species.Name = parsed.Canonical.Simple
	}

	if err := s.repo.CreateSpecies(ctx, species); err != nil {
		return SpeciesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create species")
	}

	return s.toDTO(ctx, species)
}

func (s *service) validateLineage(ctx context.Context, species *models.Species) error {
	if species.Rank == enums.SpeciesRankCross {
		if species.CrossMomID == nil || species.CrossDadID == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "cross requires both parent references")
		}
		mom, err := s.repo.SpeciesByID(ctx, *species.CrossMomID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cross mom species not found")
		}
		dad, err := s.repo.SpeciesByID(ctx, *species.CrossDadID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cross dad species not found")
		}
		if mom.GenusID != dad.GenusID || mom.GenusID != species.GenusID {
			return pkgerrors.New(pkgerrors.CodeValidation, "cross parents must share the cross's genus")
		}
		return nil
	}

	if species.CrossMomID != nil || species.CrossDadID != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "only a cross may carry cross parent references")
	}

	if species.Rank == enums.SpeciesRankCultivar {
		if species.CultivarName == nil || strings.TrimSpace(*species.CultivarName) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "cultivar name is required")
		}
	}

	if species.ParentSpeciesID != nil {
		if _, err := s.repo.SpeciesByID(ctx, *species.ParentSpeciesID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "parent species not found")
		}
	}
	return nil
}

// GetSpecies loads a species with its composed display name.
func (s *service) GetSpecies(ctx context.Context, id uuid.UUID) (SpeciesDTO, error) {
	species, err := s.repo.SpeciesByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return SpeciesDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "species not found")
		}
		return SpeciesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load species")
	}
	return s.toDTO(ctx, species)
}

// GetFullName derives the canonical display name for a species.
func (s *service) GetFullName(ctx context.Context, speciesID uuid.UUID) (string, error) {
	species, err := s.repo.SpeciesByID(ctx, speciesID)
	if err != nil {
		if db.IsNotFound(err) {
			return "", pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "species not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load species")
	}
	return s.composer.FullName(ctx, species)
}

// GetScientificallySplitName derives the display name plus its
// scientific portions.
func (s *service) GetScientificallySplitName(ctx context.Context, speciesID uuid.UUID) (SplitNameDTO, error) {
	name, err := s.GetFullName(ctx, speciesID)
	if err != nil {
		return SplitNameDTO{}, err
	}
	return SplitNameDTO{
		Name:               name,
		ScientificPortions: ScientificPartsOfName(name),
	}, nil
}

// SearchSpecies returns matching species with composed names.
func (s *service) SearchSpecies(ctx context.Context, query string, limit int) ([]SpeciesDTO, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query is required")
	}
	rows, err := s.repo.SearchSpecies(ctx, query, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search species")
	}
	results := make([]SpeciesDTO, 0, len(rows))
	for i := range rows {
		dto, err := s.toDTO(ctx, &rows[i])
		if err != nil {
			return nil, err
		}
		results = append(results, dto)
	}
	return results, nil
}

func (s *service) toDTO(ctx context.Context, species *models.Species) (SpeciesDTO, error) {
	fullName, err := s.composer.FullName(ctx, species)
	if err != nil {
		return SpeciesDTO{}, err
	}
	return SpeciesDTO{
		ID:              species.ID,
		GenusID:         species.GenusID,
		FamilyID:        species.FamilyID,
		Rank:            species.Rank,
		Name:            species.Name,
		FullName:        fullName,
		SpeciesName:     species.SpeciesName,
		CultivarName:    species.CultivarName,
		ParentSpeciesID: species.ParentSpeciesID,
		CrossMomID:      species.CrossMomID,
		CrossDadID:      species.CrossDadID,
	}, nil
}
