package middleware

import (
	"context"
	"net/http"
	"strings"

	"go-notes-api/internal/auth"
	"go-notes-api/internal/model"
)

const accessTokenCookie = "accessToken"

type tokenVerifier interface {
	VerifyAccessToken(tokenString string) (*auth.Claims, error)
}

type identityLoader interface {
	FindPublicByID(ctx context.Context, id string) (model.PublicUser, error)
}

type contextKey string

const identityContextKey contextKey = "auth_identity"

// AuthMiddleware is the request-time gate: it extracts the access token,
// verifies it, loads the identity projection and attaches it to the request
// context. It never auto-refreshes; an expired access token is the client's
// cue to call the refresh endpoint.
type AuthMiddleware struct {
	verifier tokenVerifier
	users    identityLoader
}

func NewAuthMiddleware(verifier tokenVerifier, users identityLoader) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, users: users}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractAccessToken(r)
		if token == "" {
			writeUnauthorized(w, "unauthorized request")
			return
		}

		claims, err := m.verifier.VerifyAccessToken(token)
		if err != nil {
			writeUnauthorized(w, "invalid access token")
			return
		}

		identity, err := m.users.FindPublicByID(r.Context(), claims.UserID())
		if err != nil {
			writeUnauthorized(w, "invalid access token")
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractAccessToken prefers the cookie over the Authorization header.
func extractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && strings.TrimSpace(cookie.Value) != "" {
		return strings.TrimSpace(cookie.Value)
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}

	return strings.TrimSpace(header[7:])
}

func IdentityFromContext(ctx context.Context) (model.PublicUser, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.PublicUser)
	return identity, ok
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = jsonEncode(w, model.APIErrorResponse{
		StatusCode: http.StatusUnauthorized,
		Message:    message,
		Success:    false,
		Errors:     []string{},
	})
}
