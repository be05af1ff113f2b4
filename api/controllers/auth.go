package controllers

import (
	"net/http"

	"github.com/plantswapio/plantswap-backend/api/responses"
	"github.com/plantswapio/plantswap-backend/api/validators"
	"github.com/plantswapio/plantswap-backend/internal/auth"
	pkgerrors "github.com/plantswapio/plantswap-backend/pkg/errors"
	"github.com/plantswapio/plantswap-backend/pkg/logger"
)

// AuthRegister creates an account and returns a fresh session.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input auth.RegisterInput
		if !decodeAuthBody(w, r, svc, logg, &input) {
			return
		}
		session, err := svc.Register(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

// AuthLogin verifies credentials and returns a session.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input auth.LoginInput
		if !decodeAuthBody(w, r, svc, logg, &input) {
			return
		}
		session, err := svc.Login(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// decodeAuthBody guards against a missing service and decodes the
// request body, writing the error response itself on failure.
func decodeAuthBody(w http.ResponseWriter, r *http.Request, svc auth.Service, logg *logger.Logger, dest any) bool {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
		return false
	}
	if err := validators.DecodeJSONBody(r, dest); err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return false
	}
	return true
}
