package controllers

import (
	"net/http"

	"github.com/plantswapio/plantswap-backend/api/responses"
	"github.com/plantswapio/plantswap-backend/internal/matching"
	"github.com/plantswapio/plantswap-backend/pkg/logger"
)

// PossibleTradesForSpecies lists two-way matches where the caller
// gives away a plant of the species.
func PossibleTradesForSpecies(svc matching.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		speciesID, err := pathUUID(r, "speciesId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetPossibleTradesForUser(r.Context(), speciesID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PossibleTradesToGetSpecies lists two-way matches where the caller
// receives a plant of the species.
func PossibleTradesToGetSpecies(svc matching.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		speciesID, err := pathUUID(r, "speciesId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetPossibleTradesForUserToGetSpecies(r.Context(), speciesID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AllPossibleTrades ranks every candidate partner for the caller.
func AllPossibleTrades(svc matching.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetAllPossibleTradesForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// TradeMatchesForSpecies ranks candidate partners holding the species.
func TradeMatchesForSpecies(svc matching.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		speciesID, err := pathUUID(r, "speciesId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetTradeMatchesForSpecies(r.Context(), speciesID, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
