package matching

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/plantswapio/plantswap-backend/internal/plants"
	"github.com/plantswapio/plantswap-backend/internal/taxonomy"
	"github.com/plantswapio/plantswap-backend/pkg/db"
	"github.com/plantswapio/plantswap-backend/pkg/db/models"
	"github.com/plantswapio/plantswap-backend/pkg/enums"
	pkgerrors "github.com/plantswapio/plantswap-backend/pkg/errors"
)

// ServiceParams groups dependencies for the matching service.
type ServiceParams struct {
	MatchRepo    *Repository
	PlantRepo    *plants.Repository
	TaxonomyRepo *taxonomy.Repository
}

// Service computes candidate trading partners from overlapping
// interests and tradeable collections. All operations are read-only.
type Service interface {
	GetPossibleTradesForUser(ctx context.Context, speciesID, userID uuid.UUID) ([]PerfectMatchTrade, error)
	GetPossibleTradesForUserToGetSpecies(ctx context.Context, speciesID, userID uuid.UUID) ([]PerfectMatchTrade, error)
	GetAllPossibleTradesForUser(ctx context.Context, userID uuid.UUID) ([]TradeCandidate, error)
	GetTradeMatchesForSpecies(ctx context.Context, speciesID, userID uuid.UUID) ([]TradeCandidate, error)
}

type service struct {
	matchRepo    *Repository
	plantRepo    *plants.Repository
	taxonomyRepo *taxonomy.Repository
}

// NewService builds a matching service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.MatchRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "matching repo is required")
	}
	if params.PlantRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plant repo is required")
	}
	if params.TaxonomyRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "taxonomy repo is required")
	}
	return &service{
		matchRepo:    params.MatchRepo,
		plantRepo:    params.PlantRepo,
		taxonomyRepo: params.TaxonomyRepo,
	}, nil
}

// interestSets indexes a user's interests by taxonomic tier.
type interestSets struct {
	species  map[uuid.UUID]struct{}
	genera   map[uuid.UUID]struct{}
	families map[uuid.UUID]struct{}
}

func buildInterestSets(rows []models.Interest) interestSets {
	sets := interestSets{
		species:  map[uuid.UUID]struct{}{},
		genera:   map[uuid.UUID]struct{}{},
		families: map[uuid.UUID]struct{}{},
	}
	for _, interest := range rows {
		switch {
		case interest.SpeciesID != nil:
			sets.species[*interest.SpeciesID] = struct{}{}
		case interest.GenusID != nil:
			sets.genera[*interest.GenusID] = struct{}{}
		case interest.FamilyID != nil:
			sets.families[*interest.FamilyID] = struct{}{}
		}
	}
	return sets
}

// match reports whether the row hits the species tier or, failing
// that, the genus/family tier. The tiers are never blended.
func (s interestSets) match(row TradeableRow) (speciesHit, otherHit bool) {
	if _, ok := s.species[row.SpeciesID]; ok {
		return true, false
	}
	if _, ok := s.genera[row.GenusID]; ok {
		return false, true
	}
	if _, ok := s.families[row.FamilyID]; ok {
		return false, true
	}
	return false, false
}

func (s interestSets) matchesAny(rows []TradeableRow) (speciesHit, anyHit bool) {
	for _, row := range rows {
		sp, other := s.match(row)
		if sp {
			return true, true
		}
		if other {
			anyHit = true
		}
	}
	return false, anyHit
}

// GetPossibleTradesForUser surfaces perfect matches for a species the
// user already owns: partners interested in that species who also
// offer something the user wants.
func (s *service) GetPossibleTradesForUser(ctx context.Context, speciesID, userID uuid.UUID) ([]PerfectMatchTrade, error) {
	species, err := s.loadSpecies(ctx, speciesID)
	if err != nil {
		return nil, err
	}

	owns, err := s.plantRepo.UserOwnsSpecies(ctx, userID, speciesID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check species ownership")
	}
	if !owns {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user does not own a plant of this species")
	}

	myInterests, err := s.userInterests(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidateIDs, err := s.matchRepo.InterestedUserIDs(ctx, species, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load interested users")
	}

	matchedIDs := []uuid.UUID{}
	for _, candidateID := range candidateIDs {
		rows, err := s.matchRepo.TradeableRowsByUser(ctx, candidateID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load candidate tradeables")
		}
		if _, hit := myInterests.matchesAny(rows); hit {
			matchedIDs = append(matchedIDs, candidateID)
		}
	}

	return s.perfectMatches(ctx, userID, matchedIDs, speciesID)
}

// GetPossibleTradesForUserToGetSpecies is the inverse query: owners of
// the species who want something from the user's tradeable collection.
func (s *service) GetPossibleTradesForUserToGetSpecies(ctx context.Context, speciesID, userID uuid.UUID) ([]PerfectMatchTrade, error) {
	if _, err := s.loadSpecies(ctx, speciesID); err != nil {
		return nil, err
	}

	myTradeables, err := s.matchRepo.TradeableRowsByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load own tradeables")
	}

	rows, err := s.matchRepo.TradeableRowsForSpecies(ctx, speciesID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load species owners")
	}

	matchedIDs := []uuid.UUID{}
	for _, ownerID := range distinctOwners(rows) {
		ownerInterests, err := s.userInterests(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if _, hit := ownerInterests.matchesAny(myTradeables); hit {
			matchedIDs = append(matchedIDs, ownerID)
		}
	}

	return s.perfectMatches(ctx, userID, matchedIDs, speciesID)
}

// GetAllPossibleTradesForUser performs broad partner discovery across
// the whole interest graph.
func (s *service) GetAllPossibleTradesForUser(ctx context.Context, userID uuid.UUID) ([]TradeCandidate, error) {
	myInterests, err := s.userInterests(ctx, userID)
	if err != nil {
		return nil, err
	}
	myTradeables, err := s.matchRepo.TradeableRowsByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load own tradeables")
	}

	all, err := s.matchRepo.AllTradeableRows(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tradeable plants")
	}

	byOwner := map[uuid.UUID][]TradeableRow{}
	for _, row := range all {
		byOwner[row.OwnerID] = append(byOwner[row.OwnerID], row)
	}

	return s.rankCandidates(ctx, userID, byOwner, myInterests, myTradeables)
}

// GetTradeMatchesForSpecies scopes candidate discovery to the owners
// of a single species.
func (s *service) GetTradeMatchesForSpecies(ctx context.Context, speciesID, userID uuid.UUID) ([]TradeCandidate, error) {
	if _, err := s.loadSpecies(ctx, speciesID); err != nil {
		return nil, err
	}

	myInterests, err := s.userInterests(ctx, userID)
	if err != nil {
		return nil, err
	}
	myTradeables, err := s.matchRepo.TradeableRowsByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load own tradeables")
	}

	rows, err := s.matchRepo.TradeableRowsForSpecies(ctx, speciesID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load species owners")
	}

	byOwner := map[uuid.UUID][]TradeableRow{}
	for _, row := range rows {
		byOwner[row.OwnerID] = append(byOwner[row.OwnerID], row)
	}

	return s.rankCandidates(ctx, userID, byOwner, myInterests, myTradeables)
}

func (s *service) rankCandidates(
	ctx context.Context,
	userID uuid.UUID,
	byOwner map[uuid.UUID][]TradeableRow,
	myInterests interestSets,
	myTradeables []TradeableRow,
) ([]TradeCandidate, error) {
	candidates := []TradeCandidate{}

	for ownerID, rows := range byOwner {
		speciesMatches, otherMatches := 0, 0
		for _, row := range rows {
			sp, other := myInterests.match(row)
			if sp {
				speciesMatches++
			}
			if other {
				otherMatches++
			}
		}
		if speciesMatches == 0 && otherMatches == 0 {
			continue
		}

		ownerInterests, err := s.userInterests(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		reciprocalSpecies, reciprocalHit := ownerInterests.matchesAny(myTradeables)
		if !reciprocalHit {
			continue
		}

		openCount, err := s.matchRepo.OpenTradeCount(ctx, userID, ownerID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count open trades")
		}

		candidates = append(candidates, TradeCandidate{
			UserID:          ownerID,
			SpeciesMatches:  speciesMatches,
			OtherMatches:    otherMatches,
			TradeInProgress: int(openCount),
			Kind:            classifyCandidate(speciesMatches, reciprocalSpecies),
		})
	}

	sortCandidates(candidates)

	ids := make([]uuid.UUID, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.UserID)
	}
	names, err := s.matchRepo.Usernames(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve usernames")
	}
	for i := range candidates {
		candidates[i].Username = names[candidates[i].UserID]
	}

	return candidates, nil
}

// sortCandidates orders by species-tier hits first. Species-level
// matches dominate: never blended with the genus/family tier into one
// score.
func sortCandidates(candidates []TradeCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].SpeciesMatches != candidates[j].SpeciesMatches {
			return candidates[i].SpeciesMatches > candidates[j].SpeciesMatches
		}
		return candidates[i].OtherMatches > candidates[j].OtherMatches
	})
}

// classifyCandidate assigns the closed match tier. The unlikely tier
// is defined but never produced by the current heuristics.
func classifyCandidate(speciesMatches int, reciprocalSpecies bool) enums.MatchKind {
	switch {
	case speciesMatches > 0 && reciprocalSpecies:
		return enums.MatchKindPerfect
	case speciesMatches > 0:
		return enums.MatchKindDecent
	default:
		return enums.MatchKindMaybePotential
	}
}

func (s *service) perfectMatches(ctx context.Context, userID uuid.UUID, partnerIDs []uuid.UUID, speciesID uuid.UUID) ([]PerfectMatchTrade, error) {
	ids := append([]uuid.UUID{userID}, partnerIDs...)
	names, err := s.matchRepo.Usernames(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve usernames")
	}

	matches := make([]PerfectMatchTrade, 0, len(partnerIDs))
	for _, partnerID := range partnerIDs {
		matches = append(matches, PerfectMatchTrade{
			RequestingUserID:   userID,
			RequestingUsername: names[userID],
			ReceivingUserID:    partnerID,
			ReceivingUsername:  names[partnerID],
			SpeciesID:          speciesID,
			Kind:               enums.MatchKindPerfect,
		})
	}
	return matches, nil
}

func (s *service) userInterests(ctx context.Context, userID uuid.UUID) (interestSets, error) {
	rows, err := s.matchRepo.InterestsByUser(ctx, userID)
	if err != nil {
		return interestSets{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load interests")
	}
	return buildInterestSets(rows), nil
}

func (s *service) loadSpecies(ctx context.Context, speciesID uuid.UUID) (*models.Species, error) {
	species, err := s.taxonomyRepo.SpeciesByID(ctx, speciesID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "species not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load species")
	}
	return species, nil
}

func distinctOwners(rows []TradeableRow) []uuid.UUID {
	seen := map[uuid.UUID]struct{}{}
	owners := []uuid.UUID{}
	for _, row := range rows {
		if _, ok := seen[row.OwnerID]; ok {
			continue
		}
		seen[row.OwnerID] = struct{}{}
		owners = append(owners, row.OwnerID)
	}
	return owners
}
