package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/plantswapio/plantswap-backend/api/responses"
	pkgerrors "github.com/plantswapio/plantswap-backend/pkg/errors"
	"github.com/plantswapio/plantswap-backend/pkg/logger"
)

type counterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// AuthRateLimitPolicy is a fixed-window throttle for one auth surface.
// The email limit counts attempts against a hashed address so that a
// single account cannot be brute-forced from many IPs.
type AuthRateLimitPolicy struct {
	surface    string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

// NewAuthRateLimitPolicy builds a policy. A zero window or all-zero
// limits disable the middleware for that surface.
func NewAuthRateLimitPolicy(surface string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	surface = strings.ToLower(strings.TrimSpace(surface))
	if surface == "" {
		surface = "auth"
	}
	return AuthRateLimitPolicy{
		surface:    surface,
		window:     window,
		ipLimit:    ipLimit,
		emailLimit: emailLimit,
	}
}

func (p AuthRateLimitPolicy) active() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

// AuthRateLimit enforces the policy's per-IP and per-email counters.
func AuthRateLimit(policy AuthRateLimitPolicy, store counterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	limiter := &authThrottle{policy: policy, store: store, logg: logg}
	return func(next http.Handler) http.Handler {
		if !policy.active() || store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter.handle(w, r) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

type authThrottle struct {
	policy AuthRateLimitPolicy
	store  counterStore
	logg   *logger.Logger
}

// handle reports whether the request may proceed. On a block or a
// store failure it has already written the response.
func (t *authThrottle) handle(w http.ResponseWriter, r *http.Request) bool {
	ctx := r.Context()

	if t.policy.ipLimit > 0 {
		ip := clientIP(r)
		if ip != "" {
			key := "authrl:" + t.policy.surface + ":ip:" + ip
			if !t.checkCounter(ctx, w, key, t.policy.ipLimit, "ip", ip) {
				return false
			}
		}
	}

	if t.policy.emailLimit > 0 {
		email, ok := t.peekEmail(w, r)
		if !ok {
			return false
		}
		if email != "" {
			digest := sha256.Sum256([]byte(email))
			hash := hex.EncodeToString(digest[:])
			key := "authrl:" + t.policy.surface + ":email:" + hash
			if !t.checkCounter(ctx, w, key, t.policy.emailLimit, "email", hash) {
				return false
			}
		}
	}

	return true
}

// peekEmail reads the body to extract the email field, then restores
// it for the handler. Unparseable bodies are left for the handler's
// own validation.
func (t *authThrottle) peekEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		responses.WriteError(r.Context(), nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
		return "", false
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	var payload struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", true
	}
	return strings.ToLower(strings.TrimSpace(payload.Email)), true
}

func (t *authThrottle) checkCounter(ctx context.Context, w http.ResponseWriter, key string, limit int, scope, subject string) bool {
	count, err := t.store.IncrWithTTL(ctx, key, t.policy.window)
	if err != nil {
		responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return false
	}
	if count <= int64(limit) {
		return true
	}

	if t.logg != nil {
		logCtx := t.logg.WithFields(ctx, map[string]any{
			"surface":        t.policy.surface,
			"scope":          scope,
			"subject":        subject,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(t.policy.window.Seconds()),
		})
		t.logg.Warn(logCtx, "auth.rate_limit.blocked")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
	return false
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
