package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/seo-writer/internal/domain"
	"github.com/Rrens/seo-writer/internal/security"
	"github.com/Rrens/seo-writer/internal/wordpress"
)

const (
	wpStatusPublish = "publish"
	wpStatusFuture  = "future"
)

// PublishingService sends content to WordPress sites.
// Site credentials are read from the user store on every call, never from the cached user.
type PublishingService struct {
	contentRepo domain.ContentRepository
	userRepo    domain.UserRepository
	historyRepo domain.PublishHistoryRepository
	sites       SiteClient
	encryptor   *security.Encryptor
	now         func() time.Time
}

// NewPublishingService creates a new publishing service
func NewPublishingService(
	contentRepo domain.ContentRepository,
	userRepo domain.UserRepository,
	historyRepo domain.PublishHistoryRepository,
	sites SiteClient,
	encryptor *security.Encryptor,
) *PublishingService {
	return &PublishingService{
		contentRepo: contentRepo,
		userRepo:    userRepo,
		historyRepo: historyRepo,
		sites:       sites,
		encryptor:   encryptor,
		now:         time.Now,
	}
}

// Publish creates a live post from a content record
func (s *PublishingService) Publish(ctx context.Context, userID, contentID string, req domain.PublishRequest) (*domain.PublishResult, error) {
	content, site, creds, err := s.prepare(ctx, userID, contentID, req.SiteID)
	if err != nil {
		return nil, err
	}

	post, err := s.sites.CreatePost(ctx, creds, wordpress.Post{
		Title:   content.Title,
		Content: content.Body,
		Status:  wpStatusPublish,
	})
	s.record(ctx, userID, content.ID, site.ID, domain.PublishActionPublish, nil, post, err)
	if err != nil {
		return nil, domain.Errorf(domain.ErrUpstream, "%s", err.Error())
	}

	postID := strconv.FormatInt(post.ID, 10)
	if err := s.markPublished(ctx, content.ID, userID, domain.ContentPublish{
		SiteID:  site.ID,
		PostID:  postID,
		PostURL: post.Link,
		Status:  domain.ContentStatusPublished,
	}); err != nil {
		return nil, err
	}

	log.Info().Str("content_id", content.ID).Str("site_id", site.ID).Str("wp_post_id", postID).Msg("content published")

	return &domain.PublishResult{
		Message:   "content published to WordPress",
		WPPostID:  postID,
		WPPostURL: post.Link,
	}, nil
}

// Schedule creates a future post from a content record
func (s *PublishingService) Schedule(ctx context.Context, userID, contentID string, req domain.ScheduleRequest) (*domain.ScheduleResult, error) {
	if req.PublishDate.IsZero() {
		return nil, domain.Errorf(domain.ErrValidation, "publishDate is required")
	}
	if !req.PublishDate.After(s.now()) {
		return nil, domain.Errorf(domain.ErrValidation, "publishDate must be in the future")
	}

	content, site, creds, err := s.prepare(ctx, userID, contentID, req.SiteID)
	if err != nil {
		return nil, err
	}

	publishDate := req.PublishDate
	post, err := s.sites.CreatePost(ctx, creds, wordpress.Post{
		Title:   content.Title,
		Content: content.Body,
		Status:  wpStatusFuture,
		Date:    publishDate.Format(time.RFC3339),
	})
	s.record(ctx, userID, content.ID, site.ID, domain.PublishActionSchedule, &publishDate, post, err)
	if err != nil {
		return nil, domain.Errorf(domain.ErrUpstream, "%s", err.Error())
	}

	postID := strconv.FormatInt(post.ID, 10)
	if err := s.markPublished(ctx, content.ID, userID, domain.ContentPublish{
		SiteID:      site.ID,
		PostID:      postID,
		PostURL:     post.Link,
		Status:      domain.ContentStatusScheduled,
		PublishDate: &publishDate,
	}); err != nil {
		return nil, err
	}

	log.Info().Str("content_id", content.ID).Str("site_id", site.ID).Time("publish_date", publishDate).Msg("content scheduled")

	return &domain.ScheduleResult{
		Message:       "publication scheduled",
		WPPostID:      postID,
		ScheduledDate: publishDate,
	}, nil
}

// History lists publish attempts for a content record owned by the user
func (s *PublishingService) History(ctx context.Context, userID, contentID string) ([]domain.PublishRecord, error) {
	content, err := s.contentRepo.GetByIDAndOwner(ctx, contentID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get content: %w", err)
	}
	if content == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "content not found")
	}

	records, err := s.historyRepo.ListByContent(ctx, contentID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list publish history: %w", err)
	}
	return records, nil
}

func (s *PublishingService) prepare(ctx context.Context, userID, contentID, siteID string) (*domain.Content, domain.WordPressSite, wordpress.Credentials, error) {
	content, err := s.contentRepo.GetByIDAndOwner(ctx, contentID, userID)
	if err != nil {
		return nil, domain.WordPressSite{}, wordpress.Credentials{}, fmt.Errorf("failed to get content: %w", err)
	}
	if content == nil {
		return nil, domain.WordPressSite{}, wordpress.Credentials{}, domain.Errorf(domain.ErrNotFound, "content not found")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.WordPressSite{}, wordpress.Credentials{}, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.WordPressSite{}, wordpress.Credentials{}, domain.Errorf(domain.ErrUnauthorized, "please authenticate")
	}

	site, ok := user.Site(siteID)
	if !ok {
		return nil, domain.WordPressSite{}, wordpress.Credentials{}, domain.Errorf(domain.ErrNotFound, "WordPress site not found")
	}

	password, err := s.encryptor.DecryptString(site.AppPassword)
	if err != nil {
		return nil, domain.WordPressSite{}, wordpress.Credentials{}, fmt.Errorf("failed to decrypt site credentials: %w", err)
	}

	if content.WPPostID != "" {
		log.Warn().
			Str("content_id", content.ID).
			Str("wp_post_id", content.WPPostID).
			Msg("content already has a WordPress post, creating another one")
	}

	return content, site, wordpress.Credentials{
		URL:      site.URL,
		Username: site.Username,
		Password: password,
	}, nil
}

// markPublished writes the remote post back onto the content record.
// A record deleted while the remote call was in flight is reported as not found.
func (s *PublishingService) markPublished(ctx context.Context, contentID, userID string, p domain.ContentPublish) error {
	updated, err := s.contentRepo.MarkPublished(ctx, contentID, userID, p)
	if err != nil {
		return fmt.Errorf("failed to save publish result: %w", err)
	}
	if updated == nil {
		log.Warn().
			Str("content_id", contentID).
			Str("wp_post_id", p.PostID).
			Msg("content removed before the publish result was saved, remote post is orphaned")
		return domain.Errorf(domain.ErrNotFound, "content not found")
	}
	return nil
}

// record appends the attempt to the publish history; a failed write only logs
func (s *PublishingService) record(ctx context.Context, userID, contentID, siteID string, action domain.PublishAction, scheduledFor *time.Time, post *wordpress.CreatedPost, callErr error) {
	rec := &domain.PublishRecord{
		ID:           uuid.NewString(),
		ContentID:    contentID,
		UserID:       userID,
		SiteID:       siteID,
		Action:       action,
		Status:       domain.PublishSucceeded,
		ScheduledFor: scheduledFor,
		CreatedAt:    s.now().UTC(),
	}
	if callErr != nil {
		rec.Status = domain.PublishFailed
		rec.ErrorMessage = callErr.Error()
	} else if post != nil {
		rec.WPPostID = strconv.FormatInt(post.ID, 10)
		rec.WPPostURL = post.Link
	}

	if err := s.historyRepo.Create(ctx, rec); err != nil {
		log.Error().Err(err).Str("content_id", contentID).Msg("failed to record publish attempt")
	}
}
