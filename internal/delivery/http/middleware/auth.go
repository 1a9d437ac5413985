package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
)

type contextKey string

const principalKey contextKey = "principal"

// TokenCookieName is the cookie set on login and accepted when no Authorization header is sent.
const TokenCookieName = "token"

// SetPrincipal returns a context carrying the authenticated principal. Used by auth middleware.
func SetPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the authenticated principal from the context, if present.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	if !ok || p.UserID == "" {
		return domain.Principal{}, false
	}
	return p, true
}

// bearerToken extracts the token from the Authorization header, falling back to the token cookie.
// The returned message describes why no token was found.
func bearerToken(r *http.Request) (token, message string) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		if c, err := r.Cookie(TokenCookieName); err == nil && c.Value != "" {
			return c.Value, ""
		}
		return "", "missing authorization header"
	}
	const prefix = "Bearer "
	if len(auth) < len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return "", "invalid authorization format"
	}
	token = strings.TrimSpace(auth[len(prefix):])
	if token == "" {
		return "", "missing token"
	}
	return token, ""
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the principal in the request context.
// If the token is missing or invalid, it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, msg := bearerToken(r)
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, msg)
				return
			}
			principal, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetPrincipal(r.Context(), principal))
			next(w, r)
		}
	}
}
