package controllers

import (
	"net/http"

	"github.com/plantswapio/plantswap-backend/api/responses"
)

func pong(message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"message": message})
	}
}

func PublicPing() http.HandlerFunc {
	return pong("pong")
}

func PrivatePing() http.HandlerFunc {
	return pong("pong (authenticated)")
}
