package plants

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/plantswapio/plantswap-backend/pkg/db/models"
	"github.com/plantswapio/plantswap-backend/pkg/enums"
)

func setupPlantsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	plants := `
CREATE TABLE IF NOT EXISTS plants (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  species_id TEXT NOT NULL,
  type TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`
	tradeable := `
CREATE TABLE IF NOT EXISTS tradeable_plants (
  id TEXT PRIMARY KEY,
  plant_id TEXT NOT NULL UNIQUE,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(plants).Error)
	require.NoError(t, db.Exec(tradeable).Error)
	return db
}

func newPlant(t *testing.T, db *gorm.DB, owner uuid.UUID) *models.Plant {
	t.Helper()

	plant := &models.Plant{
		ID:        uuid.New(),
		UserID:    owner,
		SpeciesID: uuid.New(),
		Type:      enums.PlantTypeFullPlant,
	}
	require.NoError(t, db.Create(plant).Error)
	return plant
}

func tradeableCount(t *testing.T, db *gorm.DB, plantID uuid.UUID) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.TradeablePlant{}).Where("plant_id = ?", plantID).Count(&count).Error)
	return count
}

func TestMakeTradeable_secondCallKeepsSingleMarker(t *testing.T) {
	db := setupPlantsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	plant := newPlant(t, db, uuid.New())

	require.NoError(t, repo.MakeTradeable(ctx, plant.ID))
	require.NoError(t, repo.MakeTradeable(ctx, plant.ID))

	assert.Equal(t, int64(1), tradeableCount(t, db, plant.ID))

	tradeable, err := repo.IsTradeable(ctx, plant.ID)
	require.NoError(t, err)
	assert.True(t, tradeable)
}

func TestMakeTradeable_rejectsNilPlantID(t *testing.T) {
	db := setupPlantsTestDB(t)
	repo := NewRepository(db)

	err := repo.MakeTradeable(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, gorm.ErrInvalidValue)
}

func TestMakeUntradeable_withoutMarkerIsNoOp(t *testing.T) {
	db := setupPlantsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	plant := newPlant(t, db, uuid.New())

	require.NoError(t, repo.MakeUntradeable(ctx, plant.ID))

	tradeable, err := repo.IsTradeable(ctx, plant.ID)
	require.NoError(t, err)
	assert.False(t, tradeable)
}

func TestMakeUntradeable_removesMarker(t *testing.T) {
	db := setupPlantsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	plant := newPlant(t, db, uuid.New())
	require.NoError(t, repo.MakeTradeable(ctx, plant.ID))

	require.NoError(t, repo.MakeUntradeable(ctx, plant.ID))

	assert.Equal(t, int64(0), tradeableCount(t, db, plant.ID))
}
