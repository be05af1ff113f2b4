package controllers

import (
	"net/http"

	"github.com/plantswapio/plantswap-backend/api/responses"
	"github.com/plantswapio/plantswap-backend/api/validators"
	"github.com/plantswapio/plantswap-backend/internal/trades"
	"github.com/plantswapio/plantswap-backend/pkg/logger"
)

// CreateTrade opens a trade with an initial suggestion.
func CreateTrade(svc trades.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input trades.CreateTradeInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trade, err := svc.CreateTradeAndMakeSuggestion(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, trade)
	}
}

// ListTrades returns every trade the caller participates in.
func ListTrades(svc trades.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListTrades(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetTrade returns a trade with its current suggestion.
func GetTrade(svc trades.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tradeID, err := pathUUID(r, "tradeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trade, err := svc.GetTrade(r.Context(), tradeID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, trade)
	}
}

// CounterSuggestion answers the current suggestion with a new offer.
func CounterSuggestion(svc trades.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tradeID, err := pathUUID(r, "tradeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input trades.CounterSuggestionInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.TradeID = tradeID

		trade, err := svc.MakeSuggestionForPendingTrade(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, trade)
	}
}

// AcceptSuggestion accepts the current suggestion.
func AcceptSuggestion(svc trades.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tradeID, err := pathUUID(r, "tradeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		suggestionID, err := pathUUID(r, "suggestionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trade, err := svc.AcceptTradeSuggestion(r.Context(), tradeID, suggestionID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, trade)
	}
}

// DeclineSuggestion declines the current suggestion and closes the trade.
func DeclineSuggestion(svc trades.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tradeID, err := pathUUID(r, "tradeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		suggestionID, err := pathUUID(r, "suggestionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trade, err := svc.DeclineTradeSuggestion(r.Context(), tradeID, suggestionID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, trade)
	}
}

// CancelTrade closes an open trade.
func CancelTrade(svc trades.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tradeID, err := pathUUID(r, "tradeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		trade, err := svc.CancelTrade(r.Context(), tradeID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, trade)
	}
}

// CompleteTrade records the caller's half of a trade completion.
func CompleteTrade(svc trades.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tradeID, err := pathUUID(r, "tradeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CompleteTrade(r.Context(), tradeID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
