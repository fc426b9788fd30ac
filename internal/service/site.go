package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/seo-writer/internal/domain"
	"github.com/Rrens/seo-writer/internal/security"
	"github.com/Rrens/seo-writer/internal/wordpress"
)

// SiteService registers WordPress sites on a user account
type SiteService struct {
	userRepo  domain.UserRepository
	userCache domain.UserCache
	sites     SiteClient
	encryptor *security.Encryptor
}

// NewSiteService creates a new site service
func NewSiteService(
	userRepo domain.UserRepository,
	userCache domain.UserCache,
	sites SiteClient,
	encryptor *security.Encryptor,
) *SiteService {
	return &SiteService{
		userRepo:  userRepo,
		userCache: userCache,
		sites:     sites,
		encryptor: encryptor,
	}
}

// AddSite verifies the site answers with the given credentials, then stores it
func (s *SiteService) AddSite(ctx context.Context, userID string, input domain.SiteCreate) (*domain.WordPressSite, error) {
	siteURL, err := normalizeSiteURL(input.URL)
	if err != nil {
		return nil, err
	}

	creds := wordpress.Credentials{
		URL:      siteURL,
		Username: input.Username,
		Password: input.AppPassword,
	}
	if err := s.sites.VerifySite(ctx, creds); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("site", siteURL).Msg("wordpress site verification failed")
		return nil, domain.Errorf(domain.ErrUpstream, "unable to connect to WordPress site")
	}

	encrypted, err := s.encryptor.EncryptString(input.AppPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt application password: %w", err)
	}

	site := domain.WordPressSite{
		ID:          uuid.NewString(),
		URL:         siteURL,
		Username:    input.Username,
		AppPassword: encrypted,
		AddedAt:     time.Now().UTC(),
	}

	if err := s.userRepo.AddSite(ctx, userID, site); err != nil {
		return nil, fmt.Errorf("failed to add site: %w", err)
	}

	invalidateUser(ctx, s.userCache, userID)

	log.Info().Str("user_id", userID).Str("site_id", site.ID).Msg("wordpress site added")
	return &site, nil
}

// ListSites returns the user's sites in registration order, read from the user store
func (s *SiteService) ListSites(ctx context.Context, userID string) ([]domain.WordPressSite, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.Errorf(domain.ErrUnauthorized, "please authenticate")
	}
	return user.Sites(), nil
}

func normalizeSiteURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", domain.Errorf(domain.ErrValidation, "url must be an absolute http(s) URL")
	}
	return strings.TrimRight(u.String(), "/"), nil
}
