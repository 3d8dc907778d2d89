package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okravets/calendar-be/internal/models"
	"github.com/rs/zerolog/log"
)

type contextKey string

const userKey = contextKey("authUser")

// UserResolver looks up the account behind a verified token claim.
type UserResolver interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

// Middleware is the gateway every protected route passes through: it extracts
// the bearer token, verifies it, resolves the owning user and attaches the
// identity to the request context.
type Middleware struct {
	tokens *TokenService
	users  UserResolver
}

// NewMiddleware creates the auth gateway middleware.
func NewMiddleware(tokens *TokenService, users UserResolver) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Authenticate rejects requests without a valid bearer token. The resolved
// user is available to downstream handlers via CurrentUser.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(w, "authorization required")
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := m.tokens.Verify(tokenStr)
		if err != nil {
			unauthorized(w, "invalid token")
			return
		}

		// The user may have been deleted after the token was issued.
		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("token resolved to unknown user")
			unauthorized(w, "user not found")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentUser returns the authenticated user attached by Authenticate.
func CurrentUser(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
