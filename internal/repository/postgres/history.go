package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Rrens/seo-writer/internal/domain"
)

// PublishHistoryRepository stores publish and schedule attempts
type PublishHistoryRepository struct {
	db *DB
}

// NewPublishHistoryRepository creates a new publish history repository
func NewPublishHistoryRepository(db *DB) *PublishHistoryRepository {
	return &PublishHistoryRepository{db: db}
}

// Create appends an attempt to the history
func (r *PublishHistoryRepository) Create(ctx context.Context, record *domain.PublishRecord) error {
	query := `
		INSERT INTO publish_history (
			id, content_id, user_id, site_id, action, status,
			wp_post_id, wp_post_url, scheduled_for, error_message, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		record.ID,
		record.ContentID,
		record.UserID,
		record.SiteID,
		string(record.Action),
		string(record.Status),
		nullIfEmpty(record.WPPostID),
		nullIfEmpty(record.WPPostURL),
		record.ScheduledFor,
		nullIfEmpty(record.ErrorMessage),
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create publish record: %w", err)
	}

	return nil
}

// ListByContent returns the attempts for a content record of the user, newest first
func (r *PublishHistoryRepository) ListByContent(ctx context.Context, contentID, userID string) ([]domain.PublishRecord, error) {
	query := `
		SELECT id, content_id, user_id, site_id, action, status,
			COALESCE(wp_post_id, ''), COALESCE(wp_post_url, ''),
			scheduled_for, COALESCE(error_message, ''), created_at
		FROM publish_history
		WHERE content_id = $1 AND user_id = $2
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, contentID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list publish history: %w", err)
	}

	records, err := pgx.CollectRows(rows, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("failed to scan publish record: %w", err)
	}
	if records == nil {
		records = []domain.PublishRecord{}
	}

	return records, nil
}

func scanRecord(row pgx.CollectableRow) (domain.PublishRecord, error) {
	var (
		rec    domain.PublishRecord
		action string
		status string
	)

	err := row.Scan(
		&rec.ID,
		&rec.ContentID,
		&rec.UserID,
		&rec.SiteID,
		&action,
		&status,
		&rec.WPPostID,
		&rec.WPPostURL,
		&rec.ScheduledFor,
		&rec.ErrorMessage,
		&rec.CreatedAt,
	)
	rec.Action = domain.PublishAction(action)
	rec.Status = domain.PublishOutcome(status)
	return rec, err
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
