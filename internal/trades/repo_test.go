package trades

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/plantswapio/plantswap-backend/pkg/db/models"
	"github.com/plantswapio/plantswap-backend/pkg/enums"
)

func setupTradesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	trades := `
CREATE TABLE IF NOT EXISTS trades (
  id TEXT PRIMARY KEY,
  requesting_user_id TEXT NOT NULL,
  receiving_user_id TEXT NOT NULL,
  status TEXT NOT NULL,
  completed_by_requesting_user INTEGER NOT NULL DEFAULT 0,
  completed_by_receiving_user INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	statusChanges := `
CREATE TABLE IF NOT EXISTS trade_status_changes (
  id TEXT PRIMARY KEY,
  trade_id TEXT NOT NULL,
  status TEXT NOT NULL,
  changed_by TEXT NOT NULL,
  created_at DATETIME
);`
	suggestions := `
CREATE TABLE IF NOT EXISTS trade_suggestions (
  id TEXT PRIMARY KEY,
  trade_id TEXT NOT NULL,
  subject_user_id TEXT NOT NULL,
  object_user_id TEXT NOT NULL,
  accepted_at DATETIME,
  denied_at DATETIME,
  responded_at DATETIME,
  created_at DATETIME
);`
	suggestionPlants := `
CREATE TABLE IF NOT EXISTS trade_suggestion_plants (
  id TEXT PRIMARY KEY,
  suggestion_id TEXT NOT NULL,
  plant_id TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(trades).Error)
	require.NoError(t, db.Exec(statusChanges).Error)
	require.NoError(t, db.Exec(suggestions).Error)
	require.NoError(t, db.Exec(suggestionPlants).Error)
	return db
}

func newTrade(t *testing.T, db *gorm.DB, requesting, receiving uuid.UUID) *models.Trade {
	t.Helper()

	trade := &models.Trade{
		ID:               uuid.New(),
		RequestingUserID: requesting,
		ReceivingUserID:  receiving,
		Status:           enums.TradeStatusPending,
	}
	require.NoError(t, db.Create(trade).Error)
	return trade
}

func newSuggestion(t *testing.T, db *gorm.DB, tradeID, subject, object uuid.UUID, created time.Time) *models.TradeSuggestion {
	t.Helper()

	suggestion := &models.TradeSuggestion{
		ID:            uuid.New(),
		TradeID:       tradeID,
		SubjectUserID: subject,
		ObjectUserID:  object,
		CreatedAt:     created,
	}
	require.NoError(t, db.Create(suggestion).Error)
	return suggestion
}

func TestRepositoryCurrentSuggestion_returnsLatest(t *testing.T) {
	db := setupTradesTestDB(t)
	repo := NewRepository(db)

	alice, bob := uuid.New(), uuid.New()
	trade := newTrade(t, db, alice, bob)

	now := time.Now().UTC()
	newSuggestion(t, db, trade.ID, alice, bob, now.Add(-time.Hour))
	latest := newSuggestion(t, db, trade.ID, bob, alice, now)

	current, err := repo.CurrentSuggestion(context.Background(), trade.ID)
	require.NoError(t, err)
	assert.Equal(t, latest.ID, current.ID)
	assert.Equal(t, bob, current.SubjectUserID)
}

func TestRepositoryLatestAcceptedSuggestion_skipsUnaccepted(t *testing.T) {
	db := setupTradesTestDB(t)
	repo := NewRepository(db)

	alice, bob := uuid.New(), uuid.New()
	trade := newTrade(t, db, alice, bob)

	now := time.Now().UTC()
	accepted := newSuggestion(t, db, trade.ID, alice, bob, now.Add(-time.Hour))
	require.NoError(t, repo.MarkSuggestionAccepted(context.Background(), accepted.ID, now.Add(-30*time.Minute)))
	newSuggestion(t, db, trade.ID, bob, alice, now)

	got, err := repo.LatestAcceptedSuggestion(context.Background(), trade.ID)
	require.NoError(t, err)
	assert.Equal(t, accepted.ID, got.ID)
	require.NotNil(t, got.AcceptedAt)
	assert.Nil(t, got.DeniedAt)
	assert.Nil(t, got.RespondedAt)
}

func TestRepositoryLatestAcceptedSuggestion_notFound(t *testing.T) {
	db := setupTradesTestDB(t)
	repo := NewRepository(db)

	alice, bob := uuid.New(), uuid.New()
	trade := newTrade(t, db, alice, bob)
	newSuggestion(t, db, trade.ID, alice, bob, time.Now().UTC())

	_, err := repo.LatestAcceptedSuggestion(context.Background(), trade.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryMarkSuggestion_setsOnlyOwnMarker(t *testing.T) {
	db := setupTradesTestDB(t)
	repo := NewRepository(db)

	alice, bob := uuid.New(), uuid.New()
	trade := newTrade(t, db, alice, bob)
	suggestion := newSuggestion(t, db, trade.ID, alice, bob, time.Now().UTC())

	require.NoError(t, repo.MarkSuggestionResponded(context.Background(), suggestion.ID, time.Now().UTC()))

	got, err := repo.FindSuggestion(context.Background(), suggestion.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.RespondedAt)
	assert.Nil(t, got.AcceptedAt)
	assert.Nil(t, got.DeniedAt)
}

func TestRepositoryListTradesForUser_matchesEitherRole(t *testing.T) {
	db := setupTradesTestDB(t)
	repo := NewRepository(db)

	alice, bob, carol := uuid.New(), uuid.New(), uuid.New()
	asRequester := newTrade(t, db, alice, bob)
	asReceiver := newTrade(t, db, carol, alice)
	newTrade(t, db, bob, carol)

	rows, err := repo.ListTradesForUser(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	ids := []uuid.UUID{rows[0].ID, rows[1].ID}
	assert.Contains(t, ids, asRequester.ID)
	assert.Contains(t, ids, asReceiver.ID)
}

func TestRepositoryUpdateTrade_appliesCompletionFlags(t *testing.T) {
	db := setupTradesTestDB(t)
	repo := NewRepository(db)

	alice, bob := uuid.New(), uuid.New()
	trade := newTrade(t, db, alice, bob)

	err := repo.UpdateTrade(context.Background(), trade.ID, map[string]any{
		"status":                       enums.TradeStatusCompleted,
		"completed_by_requesting_user": true,
	})
	require.NoError(t, err)

	got, err := repo.FindTrade(context.Background(), trade.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.TradeStatusCompleted, got.Status)
	assert.True(t, got.CompletedByRequestingUser)
	assert.False(t, got.CompletedByReceivingUser)
}

func TestRepositoryLatestStatusChange_ordersByTime(t *testing.T) {
	db := setupTradesTestDB(t)
	repo := NewRepository(db)

	alice, bob := uuid.New(), uuid.New()
	trade := newTrade(t, db, alice, bob)

	now := time.Now().UTC()
	first := &models.TradeStatusChange{ID: uuid.New(), TradeID: trade.ID, Status: enums.TradeStatusPending, ChangedBy: alice, CreatedAt: now.Add(-time.Hour)}
	second := &models.TradeStatusChange{ID: uuid.New(), TradeID: trade.ID, Status: enums.TradeStatusAccepted, ChangedBy: bob, CreatedAt: now}
	require.NoError(t, db.Create(first).Error)
	require.NoError(t, db.Create(second).Error)

	latest, err := repo.LatestStatusChange(context.Background(), trade.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.TradeStatusAccepted, latest.Status)
	assert.Equal(t, bob, latest.ChangedBy)
}

func TestRepositorySuggestionPlantIDs(t *testing.T) {
	db := setupTradesTestDB(t)
	repo := NewRepository(db)

	alice, bob := uuid.New(), uuid.New()
	trade := newTrade(t, db, alice, bob)
	suggestion := newSuggestion(t, db, trade.ID, alice, bob, time.Now().UTC())

	plantA, plantB := uuid.New(), uuid.New()
	err := repo.CreateSuggestionPlants(context.Background(), []models.TradeSuggestionPlant{
		{ID: uuid.New(), SuggestionID: suggestion.ID, PlantID: plantA},
		{ID: uuid.New(), SuggestionID: suggestion.ID, PlantID: plantB},
	})
	require.NoError(t, err)

	ids, err := repo.SuggestionPlantIDs(context.Background(), suggestion.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{plantA, plantB}, ids)
}
