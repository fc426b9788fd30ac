package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Rrens/seo-writer/internal/api/response"
	"github.com/Rrens/seo-writer/internal/domain"
)

type contextKey string

const (
	userKey  contextKey = "user"
	tokenKey contextKey = "token"
)

// Authenticator resolves the user behind an access token
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// AuthMiddleware guards every protected route group
type AuthMiddleware struct {
	auth Authenticator
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Authenticate validates the bearer token and attaches the user and token to the context
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "please authenticate")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
			response.Unauthorized(w, "please authenticate")
			return
		}
		token := strings.TrimSpace(parts[1])

		user, err := m.auth.Authenticate(r.Context(), token)
		if err != nil {
			response.FromError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		ctx = context.WithValue(ctx, tokenKey, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithUser returns a context carrying the authenticated user
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser gets the authenticated user from context
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok && user != nil
}

// GetUserID gets the authenticated user id from context
func GetUserID(ctx context.Context) (string, bool) {
	user, ok := GetUser(ctx)
	if !ok {
		return "", false
	}
	return user.ID, true
}

// GetToken gets the raw bearer token from context
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}
