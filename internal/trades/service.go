package trades

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plantswapio/plantswap-backend/internal/notifications"
	"github.com/plantswapio/plantswap-backend/pkg/db"
	"github.com/plantswapio/plantswap-backend/pkg/db/models"
	"github.com/plantswapio/plantswap-backend/pkg/enums"
	pkgerrors "github.com/plantswapio/plantswap-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the trade negotiation lifecycle.
type Service interface {
	CreateTradeAndMakeSuggestion(ctx context.Context, userID uuid.UUID, input CreateTradeInput) (TradeDTO, error)
	MakeSuggestionForPendingTrade(ctx context.Context, userID uuid.UUID, input CounterSuggestionInput) (TradeDTO, error)
	AcceptTradeSuggestion(ctx context.Context, tradeID, suggestionID, userID uuid.UUID) (TradeDTO, error)
	DeclineTradeSuggestion(ctx context.Context, tradeID, suggestionID, userID uuid.UUID) (TradeDTO, error)
	CancelTrade(ctx context.Context, tradeID, userID uuid.UUID) (TradeDTO, error)
	CompleteTrade(ctx context.Context, tradeID, userID uuid.UUID) (CompletionDTO, error)
	GetTrade(ctx context.Context, tradeID, userID uuid.UUID) (TradeDTO, error)
	ListTrades(ctx context.Context, userID uuid.UUID) ([]TradeDTO, error)
}

type service struct {
	repo      Repository
	plantRepo PlantRepository
	tx        txRunner
	publisher notifications.Publisher
	now       func() time.Time
}

// NewService builds a trade service with the required dependencies.
func NewService(repo Repository, plantRepo PlantRepository, tx txRunner, publisher notifications.Publisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("trades repository required")
	}
	if plantRepo == nil {
		return nil, fmt.Errorf("plants repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("notification publisher required")
	}
	return &service{
		repo:      repo,
		plantRepo: plantRepo,
		tx:        tx,
		publisher: publisher,
		now:       time.Now,
	}, nil
}

// CreateTradeAndMakeSuggestion opens a pending trade and records the
// initial offer. The caller becomes the fixed requesting user; the
// role never flips even as suggestion authorship alternates.
func (s *service) CreateTradeAndMakeSuggestion(ctx context.Context, userID uuid.UUID, input CreateTradeInput) (TradeDTO, error) {
	if input.ObjectUserID == userID {
		return TradeDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cannot open a trade with yourself")
	}

	var result TradeDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		now := s.now()

		trade := &models.Trade{
			RequestingUserID: userID,
			ReceivingUserID:  input.ObjectUserID,
			Status:           enums.TradeStatusPending,
		}
		if err := repo.CreateTrade(ctx, trade); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create trade")
		}
		if err := repo.AppendStatusChange(ctx, &models.TradeStatusChange{
			TradeID:   trade.ID,
			Status:    enums.TradeStatusPending,
			ChangedBy: userID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status change")
		}

		suggestion, err := s.validateAndMakeSuggestion(ctx, tx, trade.ID, userID, input.ObjectUserID, input.SubjectPlantIDs, input.ObjectPlantIDs, now)
		if err != nil {
			return err
		}

		dto := suggestionToDTO(suggestion, combinePlantIDs(input.SubjectPlantIDs, input.ObjectPlantIDs))
		result = tradeToDTO(trade, &dto)
		return nil
	})
	if err != nil {
		return TradeDTO{}, err
	}

	s.notifyParties(ctx, result.ID, result.RequestingUserID, result.ReceivingUserID, "New trade offer", "You have a new trade suggestion to review.")
	return result, nil
}

// MakeSuggestionForPendingTrade records a counter-proposal. Only the
// object of the current suggestion may answer it; the new suggestion's
// roles are swapped relative to the one being answered.
func (s *service) MakeSuggestionForPendingTrade(ctx context.Context, userID uuid.UUID, input CounterSuggestionInput) (TradeDTO, error) {
	var result TradeDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		now := s.now()

		trade, err := s.loadTradeLocked(ctx, repo, input.TradeID)
		if err != nil {
			return err
		}
		if trade.Status != enums.TradeStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "trade is not open for suggestions")
		}

		current, err := s.currentSuggestion(ctx, repo, trade.ID, input.SuggestionID)
		if err != nil {
			return err
		}
		if userID != current.ObjectUserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "wait for the other person to respond")
		}

		if err := repo.MarkSuggestionResponded(ctx, current.ID, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark suggestion responded")
		}

		// Roles swap: the responder proposes, the prior proposer receives.
		suggestion, err := s.validateAndMakeSuggestion(ctx, tx, trade.ID, userID, current.SubjectUserID, input.SubjectPlantIDs, input.ObjectPlantIDs, now)
		if err != nil {
			return err
		}

		dto := suggestionToDTO(suggestion, combinePlantIDs(input.SubjectPlantIDs, input.ObjectPlantIDs))
		result = tradeToDTO(trade, &dto)
		return nil
	})
	if err != nil {
		return TradeDTO{}, err
	}

	s.notifyParties(ctx, result.ID, result.RequestingUserID, result.ReceivingUserID, "Trade counter-offer", "A new counter-suggestion was made on your trade.")
	return result, nil
}

// AcceptTradeSuggestion marks the current offer accepted and moves the
// trade to accepted.
func (s *service) AcceptTradeSuggestion(ctx context.Context, tradeID, suggestionID, userID uuid.UUID) (TradeDTO, error) {
	result, err := s.resolveSuggestion(ctx, tradeID, suggestionID, userID, enums.TradeStatusAccepted)
	if err != nil {
		return TradeDTO{}, err
	}
	s.notifyParties(ctx, result.ID, result.RequestingUserID, result.ReceivingUserID, "Trade accepted", "Your trade suggestion was accepted.")
	return result, nil
}

// DeclineTradeSuggestion marks the current offer denied and closes the
// trade as declined.
func (s *service) DeclineTradeSuggestion(ctx context.Context, tradeID, suggestionID, userID uuid.UUID) (TradeDTO, error) {
	result, err := s.resolveSuggestion(ctx, tradeID, suggestionID, userID, enums.TradeStatusDeclined)
	if err != nil {
		return TradeDTO{}, err
	}
	s.notifyParties(ctx, result.ID, result.RequestingUserID, result.ReceivingUserID, "Trade declined", "Your trade suggestion was declined.")
	return result, nil
}

func (s *service) resolveSuggestion(ctx context.Context, tradeID, suggestionID, userID uuid.UUID, target enums.TradeStatus) (TradeDTO, error) {
	var result TradeDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		now := s.now()

		trade, err := s.loadTradeLocked(ctx, repo, tradeID)
		if err != nil {
			return err
		}
		if trade.Status != enums.TradeStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "trade is not open for a response")
		}

		current, err := s.currentSuggestion(ctx, repo, trade.ID, suggestionID)
		if err != nil {
			return err
		}
		if userID != current.ObjectUserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the recipient of the offer may respond to it")
		}
		if current.AcceptedAt != nil || current.DeniedAt != nil || current.RespondedAt != nil {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "suggestion already resolved")
		}

		switch target {
		case enums.TradeStatusAccepted:
			err = repo.MarkSuggestionAccepted(ctx, current.ID, now)
		case enums.TradeStatusDeclined:
			err = repo.MarkSuggestionDenied(ctx, current.ID, now)
		default:
			return pkgerrors.New(pkgerrors.CodeInternal, "unsupported suggestion resolution")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark suggestion resolved")
		}

		if err := s.transition(ctx, repo, trade, target, userID, nil); err != nil {
			return err
		}

		dto := suggestionToDTO(current, nil)
		result = tradeToDTO(trade, &dto)
		return nil
	})
	if err != nil {
		return TradeDTO{}, err
	}
	return result, nil
}

// CancelTrade closes the trade before completion. Either party may
// cancel at any point while the trade is pending or accepted.
func (s *service) CancelTrade(ctx context.Context, tradeID, userID uuid.UUID) (TradeDTO, error) {
	var result TradeDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		trade, err := s.loadTradeLocked(ctx, repo, tradeID)
		if err != nil {
			return err
		}
		if err := s.ensureParty(trade, userID); err != nil {
			return err
		}
		if trade.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "trade is already closed")
		}

		if err := s.transition(ctx, repo, trade, enums.TradeStatusCancelled, userID, nil); err != nil {
			return err
		}

		result = tradeToDTO(trade, nil)
		return nil
	})
	if err != nil {
		return TradeDTO{}, err
	}

	s.notifyParties(ctx, result.ID, result.RequestingUserID, result.ReceivingUserID, "Trade cancelled", "The trade was cancelled.")
	return result, nil
}

// CompleteTrade marks the caller's side complete and transfers the
// plants the caller is receiving. Completion is two-phase: each party
// independently triggers the transfer of what they receive, and the
// trade settles fully once both have done so.
func (s *service) CompleteTrade(ctx context.Context, tradeID, userID uuid.UUID) (CompletionDTO, error) {
	var result CompletionDTO
	var trade *models.Trade

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		plantRepo := s.plantRepo.WithTx(tx)

		loaded, err := s.loadTradeLocked(ctx, repo, tradeID)
		if err != nil {
			return err
		}
		trade = loaded
		if err := s.ensureParty(trade, userID); err != nil {
			return err
		}

		switch trade.Status {
		case enums.TradeStatusDeclined, enums.TradeStatusCancelled:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "trade is closed")
		case enums.TradeStatusPending:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "trade has no accepted suggestion yet")
		}

		callerIsRequesting := trade.RequestingUserID == userID
		if (callerIsRequesting && trade.CompletedByRequestingUser) ||
			(!callerIsRequesting && trade.CompletedByReceivingUser) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "trade already completed on your side")
		}

		accepted, err := repo.LatestAcceptedSuggestion(ctx, trade.ID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "no accepted suggestion for this trade")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load accepted suggestion")
		}

		plantIDs, err := repo.SuggestionPlantIDs(ctx, accepted.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load suggestion plants")
		}

		if err := s.transferReceivedPlants(ctx, plantRepo, plantIDs, userID); err != nil {
			return err
		}

		completionFlag := "completed_by_receiving_user"
		if callerIsRequesting {
			completionFlag = "completed_by_requesting_user"
		}
		if err := s.transition(ctx, repo, trade, enums.TradeStatusCompleted, userID, map[string]any{completionFlag: true}); err != nil {
			return err
		}
		if callerIsRequesting {
			trade.CompletedByRequestingUser = true
		} else {
			trade.CompletedByReceivingUser = true
		}

		if trade.CompletedByRequestingUser && trade.CompletedByReceivingUser {
			result = CompletionDTO{Result: CompletionFull}
		} else {
			result = CompletionDTO{Result: CompletionPartial}
		}
		return nil
	})
	if err != nil {
		return CompletionDTO{}, err
	}

	s.notifyParties(ctx, trade.ID, trade.RequestingUserID, trade.ReceivingUserID, "Trade completed", fmt.Sprintf("Trade completion recorded: %s.", result.Result))
	return result, nil
}

// GetTrade loads a trade visible to the caller with its current suggestion.
func (s *service) GetTrade(ctx context.Context, tradeID, userID uuid.UUID) (TradeDTO, error) {
	trade, err := s.repo.FindTrade(ctx, tradeID)
	if err != nil {
		if db.IsNotFound(err) {
			return TradeDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "trade not found")
		}
		return TradeDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trade")
	}
	if err := s.ensureParty(trade, userID); err != nil {
		return TradeDTO{}, err
	}

	current, err := s.repo.CurrentSuggestion(ctx, trade.ID)
	if err != nil {
		if db.IsNotFound(err) {
			return tradeToDTO(trade, nil), nil
		}
		return TradeDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load current suggestion")
	}
	plantIDs, err := s.repo.SuggestionPlantIDs(ctx, current.ID)
	if err != nil {
		return TradeDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load suggestion plants")
	}

	dto := suggestionToDTO(current, plantIDs)
	return tradeToDTO(trade, &dto), nil
}

// ListTrades returns every trade the user participates in.
func (s *service) ListTrades(ctx context.Context, userID uuid.UUID) ([]TradeDTO, error) {
	rows, err := s.repo.ListTradesForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list trades")
	}
	result := make([]TradeDTO, 0, len(rows))
	for i := range rows {
		result = append(result, tradeToDTO(&rows[i], nil))
	}
	return result, nil
}

// validateAndMakeSuggestion is the single path that creates
// suggestions, for both the initial offer and every counter-offer.
// Ownership is checked against live plant rows at the time of writing.
func (s *service) validateAndMakeSuggestion(
	ctx context.Context,
	tx *gorm.DB,
	tradeID, subjectUserID, objectUserID uuid.UUID,
	subjectPlantIDs, objectPlantIDs []uuid.UUID,
	now time.Time,
) (*models.TradeSuggestion, error) {
	repo := s.repo.WithTx(tx)
	plantRepo := s.plantRepo.WithTx(tx)

	if err := s.ensureOwnership(ctx, plantRepo, subjectUserID, subjectPlantIDs); err != nil {
		return nil, err
	}
	if err := s.ensureOwnership(ctx, plantRepo, objectUserID, objectPlantIDs); err != nil {
		return nil, err
	}

	suggestion := &models.TradeSuggestion{
		TradeID:       tradeID,
		SubjectUserID: subjectUserID,
		ObjectUserID:  objectUserID,
		CreatedAt:     now,
	}
	if err := repo.CreateSuggestion(ctx, suggestion); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create suggestion")
	}

	rows := make([]models.TradeSuggestionPlant, 0, len(subjectPlantIDs)+len(objectPlantIDs))
	for _, plantID := range combinePlantIDs(subjectPlantIDs, objectPlantIDs) {
		rows = append(rows, models.TradeSuggestionPlant{
			SuggestionID: suggestion.ID,
			PlantID:      plantID,
		})
	}
	if err := repo.CreateSuggestionPlants(ctx, rows); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create suggestion plants")
	}

	return suggestion, nil
}

func (s *service) ensureOwnership(ctx context.Context, plantRepo PlantRepository, ownerID uuid.UUID, plantIDs []uuid.UUID) error {
	rows, err := plantRepo.FindByIDs(ctx, plantIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load plants")
	}
	found := map[uuid.UUID]models.Plant{}
	for _, plant := range rows {
		found[plant.ID] = plant
	}
	for _, plantID := range plantIDs {
		plant, ok := found[plantID]
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "plant not found")
		}
		if plant.UserID != ownerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "plant is not owned by the offering user")
		}
	}
	return nil
}

// transferReceivedPlants performs the caller's half of the ownership
// transfer: every accepted-suggestion plant not owned by the caller
// gets a fresh row owned by the caller, and the original row is
// soft-deleted so historical suggestion links stay intact.
func (s *service) transferReceivedPlants(ctx context.Context, plantRepo PlantRepository, plantIDs []uuid.UUID, callerID uuid.UUID) error {
	rows, err := plantRepo.FindByIDs(ctx, plantIDs)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load suggestion plants")
	}

	for _, plant := range rows {
		if plant.UserID == callerID {
			continue
		}

		replacement := &models.Plant{
			UserID:    callerID,
			SpeciesID: plant.SpeciesID,
			Type:      plant.Type,
		}
		if err := plantRepo.Create(ctx, replacement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create transferred plant")
		}
		if err := plantRepo.MakeUntradeable(ctx, plant.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear tradeable marker")
		}
		if err := plantRepo.SoftDelete(ctx, plant.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retire transferred plant")
		}
	}
	return nil
}

// transition appends the status-change log entry and mirrors it into
// the trade row. Both writes share the caller's transaction.
func (s *service) transition(ctx context.Context, repo Repository, trade *models.Trade, target enums.TradeStatus, actorID uuid.UUID, extraUpdates map[string]any) error {
	if err := repo.AppendStatusChange(ctx, &models.TradeStatusChange{
		TradeID:   trade.ID,
		Status:    target,
		ChangedBy: actorID,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status change")
	}

	updates := map[string]any{"status": target}
	for k, v := range extraUpdates {
		updates[k] = v
	}
	if err := repo.UpdateTrade(ctx, trade.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update trade status")
	}
	trade.Status = target
	return nil
}

// loadTradeLocked fetches the trade under a row lock and verifies the
// status column agrees with the latest log entry.
func (s *service) loadTradeLocked(ctx context.Context, repo Repository, tradeID uuid.UUID) (*models.Trade, error) {
	trade, err := repo.FindTradeForUpdate(ctx, tradeID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "trade not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load trade")
	}

	latest, err := repo.LatestStatusChange(ctx, trade.ID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "trade has no status history")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load status history")
	}
	if latest.Status != trade.Status {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "trade status disagrees with its status log")
	}

	return trade, nil
}

func (s *service) currentSuggestion(ctx context.Context, repo Repository, tradeID, suggestionID uuid.UUID) (*models.TradeSuggestion, error) {
	current, err := repo.CurrentSuggestion(ctx, tradeID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "trade has no suggestions")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load current suggestion")
	}
	if current.ID != suggestionID {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "suggestion is no longer current")
	}
	return current, nil
}

func (s *service) ensureParty(trade *models.Trade, userID uuid.UUID) error {
	if trade.RequestingUserID != userID && trade.ReceivingUserID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "user is not a party to this trade")
	}
	return nil
}

// combinePlantIDs joins both sides into a fresh slice so neither
// input's backing array is written to.
func combinePlantIDs(subjectPlantIDs, objectPlantIDs []uuid.UUID) []uuid.UUID {
	combined := make([]uuid.UUID, 0, len(subjectPlantIDs)+len(objectPlantIDs))
	combined = append(combined, subjectPlantIDs...)
	return append(combined, objectPlantIDs...)
}

func (s *service) notifyParties(ctx context.Context, tradeID uuid.UUID, requestingUserID, receivingUserID uuid.UUID, title, message string) {
	id := tradeID
	for _, userID := range []uuid.UUID{requestingUserID, receivingUserID} {
		s.publisher.PublishToUser(ctx, userID, notifications.Event{
			Type:    enums.NotificationTypeTradesUpdate,
			TradeID: &id,
			Title:   title,
			Message: message,
		})
	}
}
