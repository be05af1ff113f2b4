package matching

import (
	"testing"

	"github.com/google/uuid"

	"github.com/plantswapio/plantswap-backend/pkg/db/models"
	"github.com/plantswapio/plantswap-backend/pkg/enums"
)

func uuidPtr(id uuid.UUID) *uuid.UUID { return &id }

func TestBuildInterestSetsIndexesOneTierPerRow(t *testing.T) {
	speciesID := uuid.New()
	genusID := uuid.New()
	familyID := uuid.New()

	sets := buildInterestSets([]models.Interest{
		{SpeciesID: uuidPtr(speciesID)},
		{GenusID: uuidPtr(genusID)},
		{FamilyID: uuidPtr(familyID)},
		{},
	})

	if len(sets.species) != 1 || len(sets.genera) != 1 || len(sets.families) != 1 {
		t.Fatalf("unexpected set sizes: %d/%d/%d", len(sets.species), len(sets.genera), len(sets.families))
	}
	if _, ok := sets.species[speciesID]; !ok {
		t.Fatal("species interest not indexed")
	}
}

func TestMatchSpeciesTierDominates(t *testing.T) {
	speciesID := uuid.New()
	genusID := uuid.New()

	sets := buildInterestSets([]models.Interest{
		{SpeciesID: uuidPtr(speciesID)},
		{GenusID: uuidPtr(genusID)},
	})

	// A row hitting both tiers counts only as a species hit.
	sp, other := sets.match(TradeableRow{SpeciesID: speciesID, GenusID: genusID})
	if !sp || other {
		t.Fatalf("expected species hit only, got species=%v other=%v", sp, other)
	}

	sp, other = sets.match(TradeableRow{SpeciesID: uuid.New(), GenusID: genusID})
	if sp || !other {
		t.Fatalf("expected genus-tier hit, got species=%v other=%v", sp, other)
	}

	sp, other = sets.match(TradeableRow{SpeciesID: uuid.New(), GenusID: uuid.New(), FamilyID: uuid.New()})
	if sp || other {
		t.Fatalf("expected no hit, got species=%v other=%v", sp, other)
	}
}

func TestMatchFamilyTierCountsAsOther(t *testing.T) {
	familyID := uuid.New()
	sets := buildInterestSets([]models.Interest{{FamilyID: uuidPtr(familyID)}})

	sp, other := sets.match(TradeableRow{SpeciesID: uuid.New(), GenusID: uuid.New(), FamilyID: familyID})
	if sp || !other {
		t.Fatalf("expected family-tier hit, got species=%v other=%v", sp, other)
	}
}

func TestMatchesAnyReportsSpeciesAcrossRows(t *testing.T) {
	speciesID := uuid.New()
	genusID := uuid.New()
	sets := buildInterestSets([]models.Interest{
		{SpeciesID: uuidPtr(speciesID)},
		{GenusID: uuidPtr(genusID)},
	})

	speciesHit, anyHit := sets.matchesAny([]TradeableRow{
		{SpeciesID: uuid.New(), GenusID: genusID},
		{SpeciesID: speciesID},
	})
	if !speciesHit || !anyHit {
		t.Fatalf("expected species hit, got species=%v any=%v", speciesHit, anyHit)
	}

	speciesHit, anyHit = sets.matchesAny([]TradeableRow{
		{SpeciesID: uuid.New(), GenusID: genusID},
	})
	if speciesHit || !anyHit {
		t.Fatalf("expected other-tier hit only, got species=%v any=%v", speciesHit, anyHit)
	}

	speciesHit, anyHit = sets.matchesAny(nil)
	if speciesHit || anyHit {
		t.Fatal("expected no hit for empty collection")
	}
}

func TestClassifyCandidate(t *testing.T) {
	cases := []struct {
		speciesMatches    int
		reciprocalSpecies bool
		want              enums.MatchKind
	}{
		{2, true, enums.MatchKindPerfect},
		{1, false, enums.MatchKindDecent},
		{0, true, enums.MatchKindMaybePotential},
		{0, false, enums.MatchKindMaybePotential},
	}
	for _, tc := range cases {
		got := classifyCandidate(tc.speciesMatches, tc.reciprocalSpecies)
		if got != tc.want {
			t.Fatalf("classifyCandidate(%d, %v) = %s, want %s", tc.speciesMatches, tc.reciprocalSpecies, got, tc.want)
		}
	}
}

func TestSortCandidatesSpeciesMatchesRankFirst(t *testing.T) {
	few := uuid.New()
	many := uuid.New()
	none := uuid.New()

	candidates := []TradeCandidate{
		{UserID: none, SpeciesMatches: 0, OtherMatches: 9},
		{UserID: few, SpeciesMatches: 2, OtherMatches: 5},
		{UserID: many, SpeciesMatches: 3, OtherMatches: 0},
	}
	sortCandidates(candidates)

	// Three species matches beat two species plus five other matches.
	if candidates[0].UserID != many || candidates[1].UserID != few || candidates[2].UserID != none {
		t.Fatalf("unexpected order: %v", candidates)
	}
}

func TestSortCandidatesBreaksTiesOnOtherMatches(t *testing.T) {
	lower := uuid.New()
	higher := uuid.New()

	candidates := []TradeCandidate{
		{UserID: lower, SpeciesMatches: 1, OtherMatches: 1},
		{UserID: higher, SpeciesMatches: 1, OtherMatches: 4},
	}
	sortCandidates(candidates)

	if candidates[0].UserID != higher {
		t.Fatalf("unexpected order: %v", candidates)
	}
}

func TestDistinctOwnersPreservesFirstSeenOrder(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	owners := distinctOwners([]TradeableRow{
		{OwnerID: a},
		{OwnerID: b},
		{OwnerID: a},
	})

	if len(owners) != 2 || owners[0] != a || owners[1] != b {
		t.Fatalf("unexpected owners: %v", owners)
	}
}
