package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/seo-writer/internal/domain"
	"github.com/Rrens/seo-writer/internal/security"
	"github.com/Rrens/seo-writer/internal/wordpress"
)

func TestSiteService_AddSite(t *testing.T) {
	ctx := context.Background()
	enc, err := security.NewEncryptor(security.DeriveKey("test-key"))
	require.NoError(t, err)

	input := domain.SiteCreate{URL: "https://blog.example.com/", Username: "editor", AppPassword: "abcd efgh"}
	creds := wordpress.Credentials{URL: "https://blog.example.com", Username: "editor", Password: "abcd efgh"}

	t.Run("success encrypts the password", func(t *testing.T) {
		users := new(MockUserRepository)
		cache := new(MockUserCache)
		sites := new(MockSiteClient)
		svc := NewSiteService(users, cache, sites, enc)

		sites.On("VerifySite", ctx, creds).Return(nil)
		var stored domain.WordPressSite
		users.On("AddSite", ctx, "u-1", mock.AnythingOfType("domain.WordPressSite")).
			Run(func(args mock.Arguments) { stored = args.Get(2).(domain.WordPressSite) }).
			Return(nil)
		cache.On("Invalidate", ctx, "u-1").Return(nil)

		site, err := svc.AddSite(ctx, "u-1", input)
		require.NoError(t, err)
		assert.Equal(t, "https://blog.example.com", site.URL)
		assert.NotEmpty(t, site.ID)

		assert.NotEqual(t, "abcd efgh", stored.AppPassword)
		plain, err := enc.DecryptString(stored.AppPassword)
		require.NoError(t, err)
		assert.Equal(t, "abcd efgh", plain)
		cache.AssertExpectations(t)
	})

	t.Run("unreachable site is not stored", func(t *testing.T) {
		users := new(MockUserRepository)
		sites := new(MockSiteClient)
		svc := NewSiteService(users, nil, sites, enc)

		sites.On("VerifySite", ctx, creds).Return(errors.New("connection refused"))

		_, err := svc.AddSite(ctx, "u-1", input)
		require.ErrorIs(t, err, domain.ErrUpstream)
		assert.Equal(t, "unable to connect to WordPress site", err.Error())
		users.AssertNotCalled(t, "AddSite", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("relative url rejected", func(t *testing.T) {
		svc := NewSiteService(new(MockUserRepository), nil, new(MockSiteClient), enc)

		_, err := svc.AddSite(ctx, "u-1", domain.SiteCreate{URL: "blog.example.com", Username: "u", AppPassword: "p"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestSiteService_ListSites(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc := NewSiteService(users, nil, nil, nil)

	now := time.Now()
	users.On("GetByID", ctx, "u-1").Return(&domain.User{ID: "u-1", WPSites: map[string]domain.WordPressSite{
		"s-2": {ID: "s-2", AddedAt: now},
		"s-1": {ID: "s-1", AddedAt: now.Add(-time.Hour)},
	}}, nil)
	users.On("GetByID", ctx, "u-2").Return(nil, nil)

	sites, err := svc.ListSites(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, "s-1", sites[0].ID)
	assert.Equal(t, "s-2", sites[1].ID)

	_, err = svc.ListSites(ctx, "u-2")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
