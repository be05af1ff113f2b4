package trades

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plantswapio/plantswap-backend/internal/notifications"
	"github.com/plantswapio/plantswap-backend/pkg/db/models"
	"github.com/plantswapio/plantswap-backend/pkg/enums"
	pkgerrors "github.com/plantswapio/plantswap-backend/pkg/errors"
)

type stubRepo struct {
	trade            *models.Trade
	statusChanges    []models.TradeStatusChange
	suggestions      []*models.TradeSuggestion
	suggestionPlants map[uuid.UUID][]uuid.UUID
}

func newStubRepo() *stubRepo {
	return &stubRepo{suggestionPlants: map[uuid.UUID][]uuid.UUID{}}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) CreateTrade(ctx context.Context, trade *models.Trade) error {
	if trade.ID == uuid.Nil {
		trade.ID = uuid.New()
	}
	trade.CreatedAt = time.Now()
	s.trade = trade
	return nil
}

func (s *stubRepo) FindTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	if s.trade == nil || s.trade.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.trade, nil
}

func (s *stubRepo) FindTradeForUpdate(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	return s.FindTrade(ctx, id)
}

func (s *stubRepo) UpdateTrade(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if status, ok := updates["status"]; ok {
		s.trade.Status = status.(enums.TradeStatus)
	}
	if v, ok := updates["completed_by_requesting_user"]; ok {
		s.trade.CompletedByRequestingUser = v.(bool)
	}
	if v, ok := updates["completed_by_receiving_user"]; ok {
		s.trade.CompletedByReceivingUser = v.(bool)
	}
	return nil
}

func (s *stubRepo) ListTradesForUser(ctx context.Context, userID uuid.UUID) ([]models.Trade, error) {
	if s.trade == nil {
		return nil, nil
	}
	return []models.Trade{*s.trade}, nil
}

func (s *stubRepo) AppendStatusChange(ctx context.Context, change *models.TradeStatusChange) error {
	change.ID = uuid.New()
	change.CreatedAt = time.Now().Add(time.Duration(len(s.statusChanges)) * time.Millisecond)
	s.statusChanges = append(s.statusChanges, *change)
	return nil
}

func (s *stubRepo) LatestStatusChange(ctx context.Context, tradeID uuid.UUID) (*models.TradeStatusChange, error) {
	if len(s.statusChanges) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	change := s.statusChanges[len(s.statusChanges)-1]
	return &change, nil
}

func (s *stubRepo) CreateSuggestion(ctx context.Context, suggestion *models.TradeSuggestion) error {
	if suggestion.ID == uuid.Nil {
		suggestion.ID = uuid.New()
	}
	s.suggestions = append(s.suggestions, suggestion)
	return nil
}

func (s *stubRepo) CreateSuggestionPlants(ctx context.Context, rows []models.TradeSuggestionPlant) error {
	for _, row := range rows {
		s.suggestionPlants[row.SuggestionID] = append(s.suggestionPlants[row.SuggestionID], row.PlantID)
	}
	return nil
}

func (s *stubRepo) FindSuggestion(ctx context.Context, id uuid.UUID) (*models.TradeSuggestion, error) {
	for _, suggestion := range s.suggestions {
		if suggestion.ID == id {
			return suggestion, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) CurrentSuggestion(ctx context.Context, tradeID uuid.UUID) (*models.TradeSuggestion, error) {
	if len(s.suggestions) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return s.suggestions[len(s.suggestions)-1], nil
}

func (s *stubRepo) LatestAcceptedSuggestion(ctx context.Context, tradeID uuid.UUID) (*models.TradeSuggestion, error) {
	for i := len(s.suggestions) - 1; i >= 0; i-- {
		if s.suggestions[i].AcceptedAt != nil {
			return s.suggestions[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) SuggestionPlantIDs(ctx context.Context, suggestionID uuid.UUID) ([]uuid.UUID, error) {
	return s.suggestionPlants[suggestionID], nil
}

func (s *stubRepo) MarkSuggestionAccepted(ctx context.Context, id uuid.UUID, at time.Time) error {
	suggestion, err := s.FindSuggestion(context.Background(), id)
	if err != nil {
		return err
	}
	suggestion.AcceptedAt = &at
	return nil
}

func (s *stubRepo) MarkSuggestionDenied(ctx context.Context, id uuid.UUID, at time.Time) error {
	suggestion, err := s.FindSuggestion(context.Background(), id)
	if err != nil {
		return err
	}
	suggestion.DeniedAt = &at
	return nil
}

func (s *stubRepo) MarkSuggestionResponded(ctx context.Context, id uuid.UUID, at time.Time) error {
	suggestion, err := s.FindSuggestion(context.Background(), id)
	if err != nil {
		return err
	}
	suggestion.RespondedAt = &at
	return nil
}

type stubPlantRepo struct {
	plants      map[uuid.UUID]*models.Plant
	created     []*models.Plant
	deleted     []uuid.UUID
	untradeable []uuid.UUID
}

func newStubPlantRepo() *stubPlantRepo {
	return &stubPlantRepo{plants: map[uuid.UUID]*models.Plant{}}
}

func (s *stubPlantRepo) addPlant(ownerID, speciesID uuid.UUID) uuid.UUID {
	id := uuid.New()
	s.plants[id] = &models.Plant{
		ID:        id,
		UserID:    ownerID,
		SpeciesID: speciesID,
		Type:      enums.PlantTypeFullPlant,
	}
	return id
}

func (s *stubPlantRepo) WithTx(tx *gorm.DB) PlantRepository { return s }

func (s *stubPlantRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Plant, error) {
	rows := []models.Plant{}
	for _, id := range ids {
		if plant, ok := s.plants[id]; ok {
			rows = append(rows, *plant)
		}
	}
	return rows, nil
}

func (s *stubPlantRepo) Create(ctx context.Context, plant *models.Plant) error {
	plant.ID = uuid.New()
	s.plants[plant.ID] = plant
	s.created = append(s.created, plant)
	return nil
}

func (s *stubPlantRepo) MakeUntradeable(ctx context.Context, plantID uuid.UUID) error {
	s.untradeable = append(s.untradeable, plantID)
	return nil
}

func (s *stubPlantRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	delete(s.plants, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubPublisher struct {
	events []notifications.Event
}

func (s *stubPublisher) PublishToUser(ctx context.Context, userID uuid.UUID, event notifications.Event) {
	event.UserID = userID
	s.events = append(s.events, event)
}

type fixture struct {
	svc       Service
	repo      *stubRepo
	plants    *stubPlantRepo
	publisher *stubPublisher
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repo := newStubRepo()
	plantRepo := newStubPlantRepo()
	publisher := &stubPublisher{}
	svc, err := NewService(repo, plantRepo, stubTxRunner{}, publisher)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return fixture{svc: svc, repo: repo, plants: plantRepo, publisher: publisher}
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}

func openTrade(t *testing.T, f fixture, alice, bob uuid.UUID) (TradeDTO, uuid.UUID, uuid.UUID) {
	t.Helper()
	species := uuid.New()
	alicePlant := f.plants.addPlant(alice, species)
	bobPlant := f.plants.addPlant(bob, uuid.New())

	trade, err := f.svc.CreateTradeAndMakeSuggestion(context.Background(), alice, CreateTradeInput{
		ObjectUserID:    bob,
		SubjectPlantIDs: []uuid.UUID{alicePlant},
		ObjectPlantIDs:  []uuid.UUID{bobPlant},
	})
	if err != nil {
		t.Fatalf("CreateTradeAndMakeSuggestion: %v", err)
	}
	return trade, alicePlant, bobPlant
}

func TestCreateTradeRejectsSelfTrade(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	_, err := f.svc.CreateTradeAndMakeSuggestion(context.Background(), userID, CreateTradeInput{
		ObjectUserID:    userID,
		SubjectPlantIDs: []uuid.UUID{uuid.New()},
		ObjectPlantIDs:  []uuid.UUID{uuid.New()},
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateTradeOpensPendingWithSuggestion(t *testing.T) {
	f := newFixture(t)
	alice, bob := uuid.New(), uuid.New()

	trade, _, _ := openTrade(t, f, alice, bob)

	if trade.Status != enums.TradeStatusPending {
		t.Fatalf("expected pending trade, got %s", trade.Status)
	}
	if trade.RequestingUserID != alice || trade.ReceivingUserID != bob {
		t.Fatal("trade parties not recorded")
	}
	if trade.CurrentSuggestion == nil {
		t.Fatal("expected initial suggestion")
	}
	if trade.CurrentSuggestion.SubjectUserID != alice || trade.CurrentSuggestion.ObjectUserID != bob {
		t.Fatal("suggestion roles not recorded")
	}
	if len(f.repo.statusChanges) != 1 || f.repo.statusChanges[0].Status != enums.TradeStatusPending {
		t.Fatalf("expected one pending status change, got %v", f.repo.statusChanges)
	}
	if len(f.publisher.events) != 2 {
		t.Fatalf("expected both parties notified, got %d events", len(f.publisher.events))
	}
}

func TestCreateTradeDoesNotMutateInputSlices(t *testing.T) {
	f := newFixture(t)
	alice, bob := uuid.New(), uuid.New()
	alicePlant := f.plants.addPlant(alice, uuid.New())
	bobPlant := f.plants.addPlant(bob, uuid.New())

	// Subject slice with spare capacity over a shared backing array.
	sentinel := uuid.New()
	backing := []uuid.UUID{alicePlant, sentinel}

	_, err := f.svc.CreateTradeAndMakeSuggestion(context.Background(), alice, CreateTradeInput{
		ObjectUserID:    bob,
		SubjectPlantIDs: backing[:1],
		ObjectPlantIDs:  []uuid.UUID{bobPlant},
	})
	if err != nil {
		t.Fatalf("CreateTradeAndMakeSuggestion: %v", err)
	}
	if backing[1] != sentinel {
		t.Fatal("caller's backing array was written to")
	}
}

func TestCreateTradeValidatesPlantOwnership(t *testing.T) {
	f := newFixture(t)
	alice, bob := uuid.New(), uuid.New()
	alicePlant := f.plants.addPlant(alice, uuid.New())
	strangerPlant := f.plants.addPlant(uuid.New(), uuid.New())

	_, err := f.svc.CreateTradeAndMakeSuggestion(context.Background(), alice, CreateTradeInput{
		ObjectUserID:    bob,
		SubjectPlantIDs: []uuid.UUID{alicePlant},
		ObjectPlantIDs:  []uuid.UUID{strangerPlant},
	})
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestCreateTradeRejectsMissingPlant(t *testing.T) {
	f := newFixture(t)
	alice, bob := uuid.New(), uuid.New()
	alicePlant := f.plants.addPlant(alice, uuid.New())

	_, err := f.svc.CreateTradeAndMakeSuggestion(context.Background(), alice, CreateTradeInput{
		ObjectUserID:    bob,
		SubjectPlantIDs: []uuid.UUID{alicePlant},
		ObjectPlantIDs:  []uuid.UUID{uuid.New()},
	})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestCounterSuggestionEnforcesTurnTaking(t *testing.T) {
	f := newFixture(t)
	alice, bob := uuid.New(), uuid.New()
	trade, alicePlant, bobPlant := openTrade(t, f, alice, bob)

	// Alice made the last suggestion; she must wait for Bob.
	_, err := f.svc.MakeSuggestionForPendingTrade(context.Background(), alice, CounterSuggestionInput{
		TradeID:         trade.ID,
		SuggestionID:    trade.CurrentSuggestion.ID,
		SubjectPlantIDs: []uuid.UUID{alicePlant},
		ObjectPlantIDs:  []uuid.UUID{bobPlant},
	})
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestCounterSuggestionSwapsRoles(t *testing.T) {
	f := newFixture(t)
	alice, bob := uuid.New(), uuid.New()
	trade, alicePlant, bobPlant := openTrade(t, f, alice, bob)
	firstSuggestionID := trade.CurrentSuggestion.ID

	updated, err := f.svc.MakeSuggestionForPendingTrade(context.Background(), bob, CounterSuggestionInput{
		TradeID:         trade.ID,
		SuggestionID:    firstSuggestionID,
		SubjectPlantIDs: []uuid.UUID{bobPlant},
		ObjectPlantIDs:  []uuid.UUID{alicePlant},
	})
	if err != nil {
		t.Fatalf("MakeSuggestionForPendingTrade: %v", err)
	}

	if updated.CurrentSuggestion.SubjectUserID != bob || updated.CurrentSuggestion.ObjectUserID != alice {
		t.Fatal("counter-suggestion roles not swapped")
	}
	first, err := f.repo.FindSuggestion(context.Background(), firstSuggestionID)
	if err != nil {
		t.Fatalf("FindSuggestion: %v", err)
	}
	if first.RespondedAt == nil {
		t.Fatal("answered suggestion not marked responded")
	}
	if first.AcceptedAt != nil || first.DeniedAt != nil {
		t.Fatal("answered suggestion must not carry accept or deny markers")
	}
}

func TestCounterSuggestionRejectsStaleSuggestion(t *testing.T) {
	f := newFixture(t)
	alice, bob := uuid.New(), uuid.New()
	trade, alicePlant, bobPlant := openTrade(t, f, alice, bob)

	updated, err := f.svc.MakeSuggestionForPendingTrade(context.Background(), bob, CounterSuggestionInput{
		TradeID:         trade.ID,
		SuggestionID:    trade.CurrentSuggestion.ID,
		SubjectPlantIDs: []uuid.UUID{bobPlant},
		ObjectPlantIDs:  []uuid.UUID{alicePlant},
	})
	if err != nil {
		t.Fatalf("MakeSuggestionForPendingTrade: %v", err)
	}
	if updated.CurrentSuggestion.ID == trade.CurrentSuggestion.ID {
		t.Fatal("expected a fresh current suggestion")
	}

	// Answering the superseded suggestion must fail.
	_, err = f.svc.MakeSuggestionForPendingTrade(context.Background(), alice, CounterSuggestionInput{
		TradeID:         trade.ID,
		SuggestionID:    trade.CurrentSuggestion.ID,
		SubjectPlantIDs: []uuid.UUID{alicePlant},
		ObjectPlantIDs:  []uuid.UUID{bobPlant},
	})
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestAcceptSuggestionRequiresRecipient(t *testing.T) {
	f := newFixture(t)
	alice, bob := uuid.New(), uuid.New()
	trade, _, _ := openTrade(t, f, alice, bob)

	_, err := f.svc.AcceptTradeSuggestion(context.Background(), trade.ID, trade.CurrentSuggestion.ID, alice)
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestAcceptSuggestionMovesTradeToAccepted(t *testing.T) {
	f := newFixture(t)
	alice, bob := uuid.New(), uuid.New()
	trade, _, _ := openTrade(t, f, alice, bob)

	accepted, err := f.svc.AcceptTradeSuggestion(context.Background(), trade.ID, trade.CurrentSuggestion.ID, bob)
	if err != nil {
		t.Fatalf("AcceptTradeSuggestion: %v", err)
	}
	if accepted.Status != enums.TradeStatusAccepted {
		t.Fatalf("expected accepted trade, got %s", accepted.Status)
	}
	if accepted.CurrentSuggestion.AcceptedAt == nil {
		t.Fatal("suggestion not marked accepted")
	}
	latest := f.repo.statusChanges[len(f.repo.statusChanges)-1]
	if latest.Status != enums.TradeStatusAccepted || latest.ChangedBy != bob {
		t.Fatalf("unexpected status change: %+v", latest)
	}
}

func TestDeclineSuggestionClosesTrade(t *testing.T) {
	f := newFixture(t)
	alice, bob := uuid.New(), uuid.New()
	trade, _, _ := openTrade(t, f, alice, bob)

	declined, err := f.svc.DeclineTradeSuggestion(context.Background(), trade.ID, trade.CurrentSuggestion.ID, bob)
	if err != nil {
		t.Fatalf("DeclineTradeSuggestion: %v", err)
	}
	if declined.Status != enums.TradeStatusDeclined {
		t.Fatalf("expected declined trade, got %s", declined.Status)
	}
	if declined.CurrentSuggestion.DeniedAt == nil {
		t.Fatal("suggestion not marked denied")
	}

	// Declined is terminal.
	_, err = f.svc.AcceptTradeSuggestion(context.Background(), trade.ID, trade.CurrentSuggestion.ID, bob)
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestCancelTradeByEitherParty(t *testing.T) {
	f := newFixture(t)
	alice, bob := uuid.New(), uuid.New()
	trade, _, _ := openTrade(t, f, alice, bob)

	cancelled, err := f.svc.CancelTrade(context.Background(), trade.ID, bob)
	if err != nil {
		t.Fatalf("CancelTrade: %v", err)
	}
	if cancelled.Status != enums.TradeStatusCancelled {
		t.Fatalf("expected cancelled trade, got %s", cancelled.Status)
	}

	_, err = f.svc.CancelTrade(context.Background(), trade.ID, alice)
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestCancelTradeRejectsStranger(t *testing.T) {
	f := newFixture(t)
	alice, bob := uuid.New(), uuid.New()
	trade, _, _ := openTrade(t, f, alice, bob)

	_, err := f.svc.CancelTrade(context.Background(), trade.ID, uuid.New())
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestCompleteTradeRequiresAcceptance(t *testing.T) {
	f := newFixture(t)
	alice, bob := uuid.New(), uuid.New()
	trade, _, _ := openTrade(t, f, alice, bob)

	_, err := f.svc.CompleteTrade(context.Background(), trade.ID, alice)
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestCompleteTradeTwoPhase(t *testing.T) {
	f := newFixture(t)
	alice, bob := uuid.New(), uuid.New()
	trade, alicePlant, bobPlant := openTrade(t, f, alice, bob)

	if _, err := f.svc.AcceptTradeSuggestion(context.Background(), trade.ID, trade.CurrentSuggestion.ID, bob); err != nil {
		t.Fatalf("AcceptTradeSuggestion: %v", err)
	}

	// First completion: Alice receives Bob's plant.
	first, err := f.svc.CompleteTrade(context.Background(), trade.ID, alice)
	if err != nil {
		t.Fatalf("CompleteTrade (first): %v", err)
	}
	if first.Result != CompletionPartial {
		t.Fatalf("expected %s, got %s", CompletionPartial, first.Result)
	}
	if len(f.plants.created) != 1 || f.plants.created[0].UserID != alice {
		t.Fatal("expected a replacement plant owned by the first caller")
	}
	if len(f.plants.deleted) != 1 || f.plants.deleted[0] != bobPlant {
		t.Fatal("expected the received plant to be retired")
	}
	if len(f.plants.untradeable) != 1 || f.plants.untradeable[0] != bobPlant {
		t.Fatal("expected the received plant's tradeable marker cleared")
	}

	// Second completion: Bob receives Alice's plant.
	second, err := f.svc.CompleteTrade(context.Background(), trade.ID, bob)
	if err != nil {
		t.Fatalf("CompleteTrade (second): %v", err)
	}
	if second.Result != CompletionFull {
		t.Fatalf("expected %s, got %s", CompletionFull, second.Result)
	}
	if len(f.plants.created) != 2 || f.plants.created[1].UserID != bob {
		t.Fatal("expected a replacement plant owned by the second caller")
	}
	if f.plants.deleted[1] != alicePlant {
		t.Fatal("expected the original offered plant to be retired")
	}

	// Third call: Alice's side is already complete.
	_, err = f.svc.CompleteTrade(context.Background(), trade.ID, alice)
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestCompleteTradeRejectsStranger(t *testing.T) {
	f := newFixture(t)
	alice, bob := uuid.New(), uuid.New()
	trade, _, _ := openTrade(t, f, alice, bob)

	if _, err := f.svc.AcceptTradeSuggestion(context.Background(), trade.ID, trade.CurrentSuggestion.ID, bob); err != nil {
		t.Fatalf("AcceptTradeSuggestion: %v", err)
	}

	_, err := f.svc.CompleteTrade(context.Background(), trade.ID, uuid.New())
	expectCode(t, err, pkgerrors.CodeForbidden)
}
