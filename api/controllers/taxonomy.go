package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/plantswapio/plantswap-backend/api/responses"
	"github.com/plantswapio/plantswap-backend/api/validators"
	"github.com/plantswapio/plantswap-backend/internal/taxonomy"
	pkgerrors "github.com/plantswapio/plantswap-backend/pkg/errors"
	"github.com/plantswapio/plantswap-backend/pkg/logger"
)

// CreateFamily inserts a taxonomy family.
func CreateFamily(svc taxonomy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input taxonomy.CreateFamilyInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		family, err := svc.CreateFamily(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, family)
	}
}

// CreateGenus inserts a genus under a family.
func CreateGenus(svc taxonomy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input taxonomy.CreateGenusInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		genus, err := svc.CreateGenus(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, genus)
	}
}

// CreateSpecies inserts a species row after lineage validation.
func CreateSpecies(svc taxonomy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input taxonomy.CreateSpeciesInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		species, err := svc.CreateSpecies(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, species)
	}
}

// GetSpecies returns a species with its composed display name.
func GetSpecies(svc taxonomy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		speciesID, err := pathUUID(r, "speciesId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		species, err := svc.GetSpecies(r.Context(), speciesID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, species)
	}
}

// SpeciesFullName returns the composed display name only.
func SpeciesFullName(svc taxonomy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		speciesID, err := pathUUID(r, "speciesId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		name, err := svc.GetFullName(r.Context(), speciesID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"full_name": name})
	}
}

// SpeciesSplitName returns the composed name plus its scientific portions.
func SpeciesSplitName(svc taxonomy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		speciesID, err := pathUUID(r, "speciesId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		split, err := svc.GetScientificallySplitName(r.Context(), speciesID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, split)
	}
}

// SearchSpecies runs a prefix search across species names.
func SearchSpecies(svc taxonomy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "q is required"))
			return
		}

		limit := 0
		if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
			value, err := strconv.Atoi(limitStr)
			if err != nil || value <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			limit = value
		}

		results, err := svc.SearchSpecies(r.Context(), query, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, results)
	}
}
