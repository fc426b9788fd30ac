package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/seo-writer/internal/domain"
	"github.com/Rrens/seo-writer/internal/repository/postgres"
)

// Requires a migrated database; set POSTGRES_TEST_DSN to run.
func TestPublishHistoryRepository(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set, skipping integration test")
	}

	ctx := context.Background()
	require.NoError(t, postgres.RunMigrations(dsn, "file://../../../migrations"))

	db, err := postgres.NewDBFromDSN(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewPublishHistoryRepository(db)
	contentID := uuid.NewString()
	userID := uuid.NewString()
	when := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)

	failed := &domain.PublishRecord{
		ID: uuid.NewString(), ContentID: contentID, UserID: userID, SiteID: "site",
		Action: domain.PublishActionPublish, Status: domain.PublishFailed,
		ErrorMessage: "Sorry, you are not allowed to create posts as this user.",
		CreatedAt:    time.Now().Add(-time.Minute).UTC(),
	}
	ok := &domain.PublishRecord{
		ID: uuid.NewString(), ContentID: contentID, UserID: userID, SiteID: "site",
		Action: domain.PublishActionSchedule, Status: domain.PublishSucceeded,
		WPPostID: "42", WPPostURL: "https://blog.example.com/?p=42", ScheduledFor: &when,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, failed))
	require.NoError(t, repo.Create(ctx, ok))

	records, err := repo.ListByContent(ctx, contentID, userID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, ok.ID, records[0].ID)
	assert.Equal(t, "42", records[0].WPPostID)
	require.NotNil(t, records[0].ScheduledFor)
	assert.True(t, when.Equal(*records[0].ScheduledFor))
	assert.Equal(t, domain.PublishFailed, records[1].Status)

	other, err := repo.ListByContent(ctx, contentID, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, other)
}
