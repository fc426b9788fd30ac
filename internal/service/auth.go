package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/Rrens/seo-writer/internal/domain"
	"github.com/Rrens/seo-writer/internal/security"
)

// AuthService handles authentication and profile operations
type AuthService struct {
	userRepo     domain.UserRepository
	userCache    domain.UserCache
	jwtManager   *security.JWTManager
	monthlyLimit int
}

// NewAuthService creates a new auth service. userCache may be nil.
func NewAuthService(
	userRepo domain.UserRepository,
	userCache domain.UserCache,
	jwtManager *security.JWTManager,
	monthlyLimit int,
) *AuthService {
	if monthlyLimit <= 0 {
		monthlyLimit = domain.DefaultMonthlyLimit
	}
	return &AuthService{
		userRepo:     userRepo,
		userCache:    userCache,
		jwtManager:   jwtManager,
		monthlyLimit: monthlyLimit,
	}
}

// Register creates a new user account and signs it in
func (s *AuthService) Register(ctx context.Context, input domain.UserCreate) (*domain.AuthResult, error) {
	email := normalizeEmail(input.Email)

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, domain.Errorf(domain.ErrConflict, "email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:                uuid.NewString(),
		Email:             email,
		PasswordHash:      string(hashedPassword),
		Name:              strings.TrimSpace(input.Name),
		PreferredLanguage: domain.DefaultLanguage,
		APIUsage:          domain.APIUsage{MonthlyLimit: s.monthlyLimit},
		WPSites:           map[string]domain.WordPressSite{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Str("user_id", user.ID).Msg("user registered")

	return s.signIn(user)
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input domain.UserLogin) (*domain.AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.Errorf(domain.ErrUnauthorized, "invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.Errorf(domain.ErrUnauthorized, "invalid email or password")
	}

	return s.signIn(user)
}

// Refresh issues a new token pair from a refresh token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	userID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domain.Errorf(domain.ErrUnauthorized, "invalid refresh token")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.Errorf(domain.ErrUnauthorized, "invalid refresh token")
	}

	return s.issueTokens(user)
}

// Authenticate resolves the user behind an access token
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil, domain.Errorf(domain.ErrUnauthorized, "please authenticate")
	}

	user, err := s.ResolveUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.Errorf(domain.ErrUnauthorized, "please authenticate")
	}

	return user, nil
}

// ResolveUser loads a user through the cache, nil when the user does not exist
func (s *AuthService) ResolveUser(ctx context.Context, userID string) (*domain.User, error) {
	if s.userCache != nil {
		cached, err := s.userCache.Get(ctx, userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("user cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	if s.userCache != nil {
		if err := s.userCache.Set(ctx, user); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("user cache write failed")
		}
	}

	return user, nil
}

// UpdateProfile changes name, password or preferred language
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input domain.UserUpdate) (*domain.User, error) {
	var changes domain.ProfileChanges

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, domain.Errorf(domain.ErrValidation, "name must not be empty")
		}
		changes.Name = &name
	}
	if input.PreferredLanguage != nil {
		lang := strings.ToLower(strings.TrimSpace(*input.PreferredLanguage))
		if lang == "" {
			return nil, domain.Errorf(domain.ErrValidation, "preferredLanguage must not be empty")
		}
		changes.PreferredLanguage = &lang
	}
	if input.Password != nil {
		if *input.Password == "" {
			return nil, domain.Errorf(domain.ErrValidation, "password must not be empty")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		hash := string(hashed)
		changes.PasswordHash = &hash
	}

	if changes.Empty() {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			return nil, domain.Errorf(domain.ErrNotFound, "user not found")
		}
		return user, nil
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, changes)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if user == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "user not found")
	}

	s.invalidate(ctx, userID)
	return user, nil
}

func (s *AuthService) signIn(user *domain.User) (*domain.AuthResult, error) {
	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResult{User: user, TokenPair: *tokens}, nil
}

func (s *AuthService) issueTokens(user *domain.User) (*domain.TokenPair, error) {
	accessToken, refreshToken, expiresIn, err := s.jwtManager.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

func (s *AuthService) invalidate(ctx context.Context, userID string) {
	invalidateUser(ctx, s.userCache, userID)
}

// invalidateUser drops a cached user after a mutation; failures only log
func invalidateUser(ctx context.Context, cache domain.UserCache, userID string) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("user cache invalidation failed")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
