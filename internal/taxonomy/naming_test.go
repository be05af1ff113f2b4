package taxonomy

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/plantswapio/plantswap-backend/pkg/db/models"
	"github.com/plantswapio/plantswap-backend/pkg/enums"
	pkgerrors "github.com/plantswapio/plantswap-backend/pkg/errors"
)

type stubResolver struct {
	species map[uuid.UUID]*models.Species
	genera  map[uuid.UUID]*models.Genus
}

func (s *stubResolver) SpeciesByID(ctx context.Context, id uuid.UUID) (*models.Species, error) {
	if sp, ok := s.species[id]; ok {
		return sp, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "species not found")
}

func (s *stubResolver) GenusByID(ctx context.Context, id uuid.UUID) (*models.Genus, error) {
	if g, ok := s.genera[id]; ok {
		return g, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "genus not found")
}

func strPtr(s string) *string { return &s }

func TestFullNameCultivarOfSpecies(t *testing.T) {
	genusID := uuid.New()
	parentID := uuid.New()
	cultivarID := uuid.New()
	cultivarName := "officinalis rubra"

	resolver := &stubResolver{
		species: map[uuid.UUID]*models.Species{
			parentID: {
				ID:      parentID,
				GenusID: genusID,
				Rank:    enums.SpeciesRankSpecies,
				Name:    "Rosa gallica",
			},
		},
		genera: map[uuid.UUID]*models.Genus{
			genusID: {ID: genusID, Name: "Rosa"},
		},
	}

	composer, err := NewNameComposer(resolver, 0)
	if err != nil {
		t.Fatalf("NewNameComposer: %v", err)
	}

	name, err := composer.FullName(context.Background(), &models.Species{
		ID:              cultivarID,
		GenusID:         genusID,
		Rank:            enums.SpeciesRankCultivar,
		CultivarName:    &cultivarName,
		ParentSpeciesID: &parentID,
	})
	if err != nil {
		t.Fatalf("FullName: %v", err)
	}
	if name != "Rosa gallica 'Officinalis Rubra'" {
		t.Fatalf("unexpected name: %q", name)
	}
}

func TestFullNameCultivarWithoutParentFallsBackToGenus(t *testing.T) {
	genusID := uuid.New()
	cultivarName := "moonlight"

	resolver := &stubResolver{
		genera: map[uuid.UUID]*models.Genus{
			genusID: {ID: genusID, Name: "Philodendron"},
		},
	}

	composer, err := NewNameComposer(resolver, 0)
	if err != nil {
		t.Fatalf("NewNameComposer: %v", err)
	}

	name, err := composer.FullName(context.Background(), &models.Species{
		ID:           uuid.New(),
		GenusID:      genusID,
		Rank:         enums.SpeciesRankCultivar,
		CultivarName: &cultivarName,
	})
	if err != nil {
		t.Fatalf("FullName: %v", err)
	}
	if name != "Philodendron 'Moonlight'" {
		t.Fatalf("unexpected name: %q", name)
	}
}

func TestFullNameCross(t *testing.T) {
	genusID := uuid.New()
	momID := uuid.New()
	dadID := uuid.New()

	resolver := &stubResolver{
		species: map[uuid.UUID]*models.Species{
			momID: {
				ID:          momID,
				GenusID:     genusID,
				Rank:        enums.SpeciesRankSpecies,
				Name:        "Hosta foo",
				SpeciesName: strPtr("foo"),
			},
			dadID: {
				ID:           dadID,
				GenusID:      genusID,
				Rank:         enums.SpeciesRankCultivar,
				CultivarName: strPtr("bar"),
			},
		},
		genera: map[uuid.UUID]*models.Genus{
			genusID: {ID: genusID, Name: "Hosta"},
		},
	}

	composer, err := NewNameComposer(resolver, 0)
	if err != nil {
		t.Fatalf("NewNameComposer: %v", err)
	}

	name, err := composer.FullName(context.Background(), &models.Species{
		ID:         uuid.New(),
		GenusID:    genusID,
		Rank:       enums.SpeciesRankCross,
		CrossMomID: &momID,
		CrossDadID: &dadID,
	})
	if err != nil {
		t.Fatalf("FullName: %v", err)
	}
	if name != "Hosta foo × 'Bar'" {
		t.Fatalf("unexpected name: %q", name)
	}
}

func TestFullNameCrossRejectsMixedGenera(t *testing.T) {
	genusID := uuid.New()
	otherGenusID := uuid.New()
	momID := uuid.New()
	dadID := uuid.New()

	resolver := &stubResolver{
		species: map[uuid.UUID]*models.Species{
			momID: {ID: momID, GenusID: genusID, SpeciesName: strPtr("foo")},
			dadID: {ID: dadID, GenusID: otherGenusID, SpeciesName: strPtr("bar")},
		},
		genera: map[uuid.UUID]*models.Genus{
			genusID: {ID: genusID, Name: "Hosta"},
		},
	}

	composer, err := NewNameComposer(resolver, 0)
	if err != nil {
		t.Fatalf("NewNameComposer: %v", err)
	}

	_, err = composer.FullName(context.Background(), &models.Species{
		ID:         uuid.New(),
		GenusID:    genusID,
		Rank:       enums.SpeciesRankCross,
		CrossMomID: &momID,
		CrossDadID: &dadID,
	})
	if err == nil {
		t.Fatal("expected error for cross parents in different genera")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFullNameDetectsLineageCycle(t *testing.T) {
	genusID := uuid.New()
	aID := uuid.New()
	bID := uuid.New()

	a := &models.Species{
		ID:              aID,
		GenusID:         genusID,
		Rank:            enums.SpeciesRankCultivar,
		CultivarName:    strPtr("loop"),
		ParentSpeciesID: &bID,
	}
	b := &models.Species{
		ID:              bID,
		GenusID:         genusID,
		Rank:            enums.SpeciesRankCultivar,
		CultivarName:    strPtr("loop back"),
		ParentSpeciesID: &aID,
	}

	resolver := &stubResolver{
		species: map[uuid.UUID]*models.Species{aID: a, bID: b},
		genera:  map[uuid.UUID]*models.Genus{genusID: {ID: genusID, Name: "Hosta"}},
	}

	composer, err := NewNameComposer(resolver, 0)
	if err != nil {
		t.Fatalf("NewNameComposer: %v", err)
	}

	_, err = composer.FullName(context.Background(), a)
	if err == nil {
		t.Fatal("expected cycle detection error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestFullNameEnforcesMaxDepth(t *testing.T) {
	genusID := uuid.New()
	resolver := &stubResolver{
		species: map[uuid.UUID]*models.Species{},
		genera:  map[uuid.UUID]*models.Genus{genusID: {ID: genusID, Name: "Hosta"}},
	}

	// Chain of cultivars deeper than the cap, all distinct rows.
	const depth = 6
	ids := make([]uuid.UUID, depth)
	for i := range ids {
		ids[i] = uuid.New()
	}
	for i := 0; i < depth; i++ {
		sp := &models.Species{
			ID:           ids[i],
			GenusID:      genusID,
			Rank:         enums.SpeciesRankCultivar,
			CultivarName: strPtr("deep"),
		}
		if i+1 < depth {
			sp.ParentSpeciesID = &ids[i+1]
		}
		resolver.species[ids[i]] = sp
	}

	composer, err := NewNameComposer(resolver, 3)
	if err != nil {
		t.Fatalf("NewNameComposer: %v", err)
	}

	_, err = composer.FullName(context.Background(), resolver.species[ids[0]])
	if err == nil {
		t.Fatal("expected max depth error")
	}
}

func TestCapitalizeWords(t *testing.T) {
	cases := map[string]string{
		"officinalis rubra": "Officinalis Rubra",
		"bar":               "Bar",
		"  spaced   out  ":  "Spaced Out",
		"çiçek":             "Çiçek",
	}
	for input, want := range cases {
		if got := CapitalizeWords(input); got != want {
			t.Fatalf("CapitalizeWords(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestScientificPartsOfName(t *testing.T) {
	cases := []struct {
		name string
		want []string
	}{
		{"Hosta foo × 'Bar'", []string{"Hosta", "foo"}},
		{"Rosa gallica 'Officinalis Rubra'", []string{"Rosa", "gallica"}},
		{"Monstera deliciosa", []string{"Monstera", "deliciosa"}},
		{"Hosta 'Blue Angel'", []string{"Hosta"}},
		{"Hosta (foo) × bar", []string{"Hosta", "foo", "bar"}},
	}
	for _, tc := range cases {
		got := ScientificPartsOfName(tc.name)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ScientificPartsOfName(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSplitOutsideQuotesKeepsQuotedSpansAtomic(t *testing.T) {
	got := splitOutsideQuotes("Hosta 'Blue Angel' foo")
	want := []string{"Hosta", "'Blue Angel'", "foo"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitOutsideQuotes = %v, want %v", got, want)
	}
}
