package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/seo-writer/internal/domain"
	"github.com/Rrens/seo-writer/internal/llm"
)

// titleTemplates names a generated article in its own language
var titleTemplates = map[string]string{
	"fr": "Article sur %s",
	"en": "Article about %s",
	"es": "Artículo sobre %s",
	"de": "Artikel über %s",
	"it": "Articolo su %s",
}

// TitleFor builds the default title of a generated article
func TitleFor(language, keyword string) string {
	tmpl, ok := titleTemplates[strings.ToLower(language)]
	if !ok {
		tmpl = titleTemplates["en"]
	}
	return fmt.Sprintf(tmpl, keyword)
}

// GenerationConfig holds completion parameters for content generation
type GenerationConfig struct {
	DefaultModel string
	MaxTokens    int
	Temperature  float64
}

// ContentService handles content generation and editing
type ContentService struct {
	contentRepo domain.ContentRepository
	userRepo    domain.UserRepository
	userCache   domain.UserCache
	models      ModelRouter
	cfg         GenerationConfig
}

// NewContentService creates a new content service
func NewContentService(
	contentRepo domain.ContentRepository,
	userRepo domain.UserRepository,
	userCache domain.UserCache,
	models ModelRouter,
	cfg GenerationConfig,
) *ContentService {
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = domain.DefaultAIModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4000
	}
	return &ContentService{
		contentRepo: contentRepo,
		userRepo:    userRepo,
		userCache:   userCache,
		models:      models,
		cfg:         cfg,
	}
}

// CheckQuota rejects a user with no generation slot left. It reads the stored
// counters rather than a cached copy.
func (s *ContentService) CheckQuota(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.Errorf(domain.ErrUnauthorized, "please authenticate")
	}
	if user.APIUsage.Exhausted() {
		return nil, domain.Errorf(domain.ErrQuotaExceeded, "monthly API usage limit reached")
	}
	return user, nil
}

// Generate produces a draft article for the user and counts it against the monthly limit.
// An exhausted quota is reported before anything in the request is looked at.
func (s *ContentService) Generate(ctx context.Context, userID string, req domain.GenerateRequest) (*domain.Content, error) {
	user, err := s.CheckQuota(ctx, userID)
	if err != nil {
		return nil, err
	}

	keywords := cleanKeywords(req.Keywords)
	if len(keywords) == 0 {
		return nil, domain.Errorf(domain.ErrValidation, "at least one keyword is required")
	}
	if !req.ContentType.Valid() {
		return nil, domain.Errorf(domain.ErrValidation, "contentType must be one of: blog product landing social")
	}
	if req.WordCount <= 0 {
		return nil, domain.Errorf(domain.ErrValidation, "wordCount must be positive")
	}
	if n := len(strings.TrimSpace(req.Language)); n == 1 || n > 10 {
		return nil, domain.Errorf(domain.ErrValidation, "language must be a 2 to 10 character code")
	}

	language := firstNonEmpty(strings.ToLower(strings.TrimSpace(req.Language)), user.PreferredLanguage, domain.DefaultLanguage)
	model := firstNonEmpty(req.AIModel, s.cfg.DefaultModel)

	provider, err := s.models.ProviderForModel(model)
	if err != nil {
		return nil, domain.Errorf(domain.ErrUpstream, "%s", err.Error())
	}

	reserved, err := s.userRepo.ReserveUsage(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve usage: %w", err)
	}
	if !reserved {
		return nil, domain.Errorf(domain.ErrQuotaExceeded, "monthly API usage limit reached")
	}

	resp, err := provider.Complete(ctx, llm.Request{
		System: llm.SystemPrompt,
		Prompt: llm.BuildContentPrompt(llm.ContentBrief{
			ContentType: string(req.ContentType),
			Language:    language,
			WordCount:   req.WordCount,
			Keywords:    keywords,
		}),
		MaxTokens:   llm.TokenBudget(req.WordCount, s.cfg.MaxTokens),
		Temperature: s.cfg.Temperature,
	}, model)
	if err != nil {
		s.releaseUsage(ctx, user.ID)
		log.Error().Err(err).Str("user_id", user.ID).Str("provider", provider.Name()).Str("model", model).Msg("content generation failed")
		return nil, domain.Errorf(domain.ErrUpstream, "%s", err.Error())
	}

	now := time.Now().UTC()
	content := &domain.Content{
		ID:           uuid.NewString(),
		Title:        TitleFor(language, keywords[0]),
		Body:         resp.Text,
		Keywords:     keywords,
		Language:     language,
		ContentType:  req.ContentType,
		WordCount:    req.WordCount,
		Status:       domain.ContentStatusDraft,
		Translations: []domain.Translation{},
		CreatorID:    user.ID,
		AIModel:      model,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.contentRepo.Create(ctx, content); err != nil {
		s.releaseUsage(ctx, user.ID)
		return nil, fmt.Errorf("failed to save content: %w", err)
	}

	invalidateUser(ctx, s.userCache, user.ID)

	log.Info().
		Str("user_id", user.ID).
		Str("content_id", content.ID).
		Str("provider", provider.Name()).
		Str("model", model).
		Int("tokens", resp.TokensUsed).
		Int64("latency_ms", resp.LatencyMs).
		Msg("content generated")

	return content, nil
}

// List returns the user's content, newest first
func (s *ContentService) List(ctx context.Context, userID string) ([]domain.Content, error) {
	contents, err := s.contentRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}
	return contents, nil
}

// Get returns a content record owned by the user
func (s *ContentService) Get(ctx context.Context, userID, id string) (*domain.Content, error) {
	content, err := s.contentRepo.GetByIDAndOwner(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get content: %w", err)
	}
	if content == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "content not found")
	}
	return content, nil
}

// Update applies user edits. Status can only go back to draft here.
func (s *ContentService) Update(ctx context.Context, userID, id string, update domain.ContentUpdate) (*domain.Content, error) {
	if update.Status != nil && *update.Status != domain.ContentStatusDraft {
		return nil, domain.Errorf(domain.ErrValidation, "status can only be set to %q, publish or schedule to change it otherwise", domain.ContentStatusDraft)
	}
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return nil, domain.Errorf(domain.ErrValidation, "title must not be empty")
	}
	if update.Keywords != nil {
		update.Keywords = cleanKeywords(update.Keywords)
		if len(update.Keywords) == 0 {
			return nil, domain.Errorf(domain.ErrValidation, "at least one keyword is required")
		}
	}

	content, err := s.contentRepo.Update(ctx, id, userID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update content: %w", err)
	}
	if content == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "content not found")
	}
	return content, nil
}

// Delete removes a content record owned by the user
func (s *ContentService) Delete(ctx context.Context, userID, id string) error {
	deleted, err := s.contentRepo.Delete(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete content: %w", err)
	}
	if !deleted {
		return domain.Errorf(domain.ErrNotFound, "content not found")
	}
	return nil
}

// releaseUsage undoes a reservation after a failed generation.
// It must run even when the request context is already cancelled.
func (s *ContentService) releaseUsage(ctx context.Context, userID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.userRepo.ReleaseUsage(ctx, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to release usage reservation")
	}
}

func cleanKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
