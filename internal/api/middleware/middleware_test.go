package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/seo-writer/internal/api/middleware"
	"github.com/Rrens/seo-writer/internal/domain"
)

type stubAuth struct {
	users map[string]*domain.User
}

func (s stubAuth) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, domain.Errorf(domain.ErrUnauthorized, "please authenticate")
}

type stubLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (l *stubLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	l.keys = append(l.keys, key)
	if l.err != nil {
		return false, 0, time.Time{}, l.err
	}
	remaining := 0
	if l.allowed {
		remaining = 9
	}
	return l.allowed, remaining, time.Unix(1700000000, 0), nil
}

func (l *stubLimiter) Limit() int { return 10 }

// echo reports the user and token the middleware attached
var echo = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	token, _ := middleware.GetToken(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Header().Set("X-User", user.ID)
	w.Header().Set("X-Token", token)
	w.WriteHeader(http.StatusOK)
})

func TestAuthenticate(t *testing.T) {
	auth := middleware.NewAuthMiddleware(stubAuth{users: map[string]*domain.User{
		"good-token": {ID: "user-1"},
	}})
	h := auth.Authenticate(echo)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good-token", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"unknown token", "Bearer other", http.StatusUnauthorized},
		{"valid", "Bearer good-token", http.StatusOK},
		{"lowercase scheme", "bearer good-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/content/my-content", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "user-1", rec.Header().Get("X-User"))
				assert.Equal(t, "good-token", rec.Header().Get("X-Token"))
			}
		})
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	_, ok := middleware.GetUser(ctx)
	assert.False(t, ok)
	_, ok = middleware.GetUserID(ctx)
	assert.False(t, ok)

	ctx = middleware.WithUser(ctx, &domain.User{ID: "user-2"})
	id, ok := middleware.GetUserID(ctx)
	require.True(t, ok)
	assert.Equal(t, "user-2", id)
}

func TestRateLimit(t *testing.T) {
	withUser := func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), &domain.User{ID: "user-1"})))
		})
	}
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("allowed", func(t *testing.T) {
		limiter := &stubLimiter{allowed: true}
		rec := httptest.NewRecorder()

		withUser(middleware.NewRateLimitMiddleware(limiter).Limit(ok)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "9", rec.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, []string{"user-1"}, limiter.keys)
	})

	t.Run("rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()

		withUser(middleware.NewRateLimitMiddleware(&stubLimiter{}).Limit(ok)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("limiter down fails open", func(t *testing.T) {
		rec := httptest.NewRecorder()
		limiter := &stubLimiter{err: errors.New("redis: connection refused")}

		withUser(middleware.NewRateLimitMiddleware(limiter).Limit(ok)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	})

	t.Run("no user", func(t *testing.T) {
		rec := httptest.NewRecorder()

		middleware.NewRateLimitMiddleware(&stubLimiter{allowed: true}).Limit(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
