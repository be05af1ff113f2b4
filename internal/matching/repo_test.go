package matching

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/plantswapio/plantswap-backend/internal/plants"
	"github.com/plantswapio/plantswap-backend/internal/taxonomy"
	"github.com/plantswapio/plantswap-backend/pkg/db/models"
	"github.com/plantswapio/plantswap-backend/pkg/enums"
	pkgerrors "github.com/plantswapio/plantswap-backend/pkg/errors"
)

func setupMatchingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  username TEXT NOT NULL,
  password_hash TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS families (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS genera (
  id TEXT PRIMARY KEY,
  family_id TEXT NOT NULL,
  name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS species (
  id TEXT PRIMARY KEY,
  genus_id TEXT NOT NULL,
  family_id TEXT NOT NULL,
  rank TEXT NOT NULL,
  name TEXT NOT NULL,
  species_name TEXT,
  cultivar_name TEXT,
  parent_species_id TEXT,
  cross_mom_id TEXT,
  cross_dad_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS plants (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  species_id TEXT NOT NULL,
  type TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS tradeable_plants (
  id TEXT PRIMARY KEY,
  plant_id TEXT NOT NULL UNIQUE,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS interests (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  level TEXT NOT NULL,
  species_id TEXT,
  genus_id TEXT,
  family_id TEXT,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS trades (
  id TEXT PRIMARY KEY,
  requesting_user_id TEXT NOT NULL,
  receiving_user_id TEXT NOT NULL,
  status TEXT NOT NULL,
  completed_by_requesting_user INTEGER NOT NULL DEFAULT 0,
  completed_by_receiving_user INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newMatchingService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		MatchRepo:    NewRepository(db),
		PlantRepo:    plants.NewRepository(db),
		TaxonomyRepo: taxonomy.NewRepository(db),
	})
	require.NoError(t, err)
	return svc
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		ID:       uuid.New(),
		Email:    username + "@example.com",
		Username: username,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedSpecies(t *testing.T, db *gorm.DB, genus *models.Genus, name string) *models.Species {
	t.Helper()

	species := &models.Species{
		ID:       uuid.New(),
		GenusID:  genus.ID,
		FamilyID: genus.FamilyID,
		Rank:     enums.SpeciesRankSpecies,
		Name:     name,
	}
	require.NoError(t, db.Create(species).Error)
	return species
}

func seedTradeablePlant(t *testing.T, db *gorm.DB, owner, speciesID uuid.UUID) *models.Plant {
	t.Helper()

	plant := &models.Plant{
		ID:        uuid.New(),
		UserID:    owner,
		SpeciesID: speciesID,
		Type:      enums.PlantTypeFullPlant,
	}
	require.NoError(t, db.Create(plant).Error)
	require.NoError(t, db.Create(&models.TradeablePlant{ID: uuid.New(), PlantID: plant.ID}).Error)
	return plant
}

func seedSpeciesInterest(t *testing.T, db *gorm.DB, userID, speciesID uuid.UUID) {
	t.Helper()

	require.NoError(t, db.Create(&models.Interest{
		ID:        uuid.New(),
		UserID:    userID,
		Level:     enums.InterestLevelSpecies,
		SpeciesID: &speciesID,
	}).Error)
}

// Two users with mirrored collections and interests form exactly one
// perfect match in each direction.
func TestGetPossibleTradesForUser_findsReciprocalPartner(t *testing.T) {
	db := setupMatchingTestDB(t)
	svc := newMatchingService(t, db)
	ctx := context.Background()

	family := &models.Family{ID: uuid.New(), Name: "Araceae " + uuid.NewString()}
	require.NoError(t, db.Create(family).Error)
	genus := &models.Genus{ID: uuid.New(), FamilyID: family.ID, Name: "Monstera " + uuid.NewString()}
	require.NoError(t, db.Create(genus).Error)
	s1 := seedSpecies(t, db, genus, "Monstera deliciosa "+uuid.NewString())
	s2 := seedSpecies(t, db, genus, "Monstera adansonii "+uuid.NewString())

	alice := seedUser(t, db, "alice-"+uuid.NewString())
	bob := seedUser(t, db, "bob-"+uuid.NewString())

	seedTradeablePlant(t, db, alice.ID, s1.ID)
	seedSpeciesInterest(t, db, alice.ID, s2.ID)
	seedTradeablePlant(t, db, bob.ID, s2.ID)
	seedSpeciesInterest(t, db, bob.ID, s1.ID)

	matches, err := svc.GetPossibleTradesForUser(ctx, s1.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)

	match := matches[0]
	assert.Equal(t, alice.ID, match.RequestingUserID)
	assert.Equal(t, alice.Username, match.RequestingUsername)
	assert.Equal(t, bob.ID, match.ReceivingUserID)
	assert.Equal(t, bob.Username, match.ReceivingUsername)
	assert.Equal(t, s1.ID, match.SpeciesID)
	assert.Equal(t, enums.MatchKindPerfect, match.Kind)
}

func TestGetPossibleTradesForUser_skipsPartnerWithNothingWanted(t *testing.T) {
	db := setupMatchingTestDB(t)
	svc := newMatchingService(t, db)
	ctx := context.Background()

	family := &models.Family{ID: uuid.New(), Name: "Marantaceae " + uuid.NewString()}
	require.NoError(t, db.Create(family).Error)
	genus := &models.Genus{ID: uuid.New(), FamilyID: family.ID, Name: "Calathea " + uuid.NewString()}
	require.NoError(t, db.Create(genus).Error)
	s1 := seedSpecies(t, db, genus, "Calathea orbifolia "+uuid.NewString())
	s2 := seedSpecies(t, db, genus, "Calathea warscewiczii "+uuid.NewString())

	alice := seedUser(t, db, "alice-"+uuid.NewString())
	carol := seedUser(t, db, "carol-"+uuid.NewString())

	seedTradeablePlant(t, db, alice.ID, s1.ID)
	seedSpeciesInterest(t, db, alice.ID, s2.ID)
	// Carol wants alice's species but offers nothing alice wants.
	seedSpeciesInterest(t, db, carol.ID, s1.ID)

	matches, err := svc.GetPossibleTradesForUser(ctx, s1.ID, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestGetPossibleTradesForUser_requiresOwnership(t *testing.T) {
	db := setupMatchingTestDB(t)
	svc := newMatchingService(t, db)
	ctx := context.Background()

	family := &models.Family{ID: uuid.New(), Name: "Orchidaceae " + uuid.NewString()}
	require.NoError(t, db.Create(family).Error)
	genus := &models.Genus{ID: uuid.New(), FamilyID: family.ID, Name: "Phalaenopsis " + uuid.NewString()}
	require.NoError(t, db.Create(genus).Error)
	s1 := seedSpecies(t, db, genus, "Phalaenopsis amabilis "+uuid.NewString())

	alice := seedUser(t, db, "alice-"+uuid.NewString())

	_, err := svc.GetPossibleTradesForUser(ctx, s1.ID, alice.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
