package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/plantswapio/plantswap-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with a correlation id. An inbound id is
// reused only when it parses as a UUID, so clients cannot inject
// arbitrary strings into the logs.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := incomingRequestID(r)
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func incomingRequestID(r *http.Request) string {
	if raw := r.Header.Get(requestIDHeader); raw != "" {
		if parsed, err := uuid.Parse(raw); err == nil {
			return parsed.String()
		}
	}
	return uuid.NewString()
}
