package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Rrens/seo-writer/internal/domain"
)

// ContentRepository handles content data access. Every lookup is scoped to the creator.
type ContentRepository struct {
	coll *mongo.Collection
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *DB) *ContentRepository {
	return &ContentRepository{coll: db.Database.Collection(contentCollection)}
}

// Create inserts a new content record
func (r *ContentRepository) Create(ctx context.Context, content *domain.Content) error {
	if content.Keywords == nil {
		content.Keywords = []string{}
	}
	if content.Translations == nil {
		content.Translations = []domain.Translation{}
	}

	if _, err := r.coll.InsertOne(ctx, content); err != nil {
		return fmt.Errorf("failed to create content: %w", err)
	}
	return nil
}

// GetByIDAndOwner retrieves a content record owned by the given user
func (r *ContentRepository) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Content, error) {
	var content domain.Content
	err := r.coll.FindOne(ctx, ownedBy(id, ownerID)).Decode(&content)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get content: %w", err)
	}
	return &content, nil
}

// ListByOwner returns the user's content, newest first
func (r *ContentRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Content, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, bson.M{"creator": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}
	defer cursor.Close(ctx)

	contents := []domain.Content{}
	if err := cursor.All(ctx, &contents); err != nil {
		return nil, fmt.Errorf("failed to decode content: %w", err)
	}
	return contents, nil
}

// Update applies user edits and returns the updated record
func (r *ContentRepository) Update(ctx context.Context, id, ownerID string, update domain.ContentUpdate) (*domain.Content, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Body != nil {
		set["content"] = *update.Body
	}
	if update.Keywords != nil {
		set["keywords"] = update.Keywords
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}

	return r.findAndSet(ctx, id, ownerID, set)
}

// MarkPublished records the outcome of a successful remote publish
func (r *ContentRepository) MarkPublished(ctx context.Context, id, ownerID string, p domain.ContentPublish) (*domain.Content, error) {
	set := bson.M{
		"wp_site_id":  p.SiteID,
		"wp_post_id":  p.PostID,
		"wp_post_url": p.PostURL,
		"status":      p.Status,
		"updated_at":  time.Now().UTC(),
	}
	if p.PublishDate != nil {
		set["publish_date"] = *p.PublishDate
	}

	return r.findAndSet(ctx, id, ownerID, set)
}

// Delete removes a content record, reporting whether it existed
func (r *ContentRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, ownedBy(id, ownerID))
	if err != nil {
		return false, fmt.Errorf("failed to delete content: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (r *ContentRepository) findAndSet(ctx context.Context, id, ownerID string, set bson.M) (*domain.Content, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var content domain.Content
	err := r.coll.FindOneAndUpdate(ctx, ownedBy(id, ownerID), bson.M{"$set": set}, opts).Decode(&content)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update content: %w", err)
	}
	return &content, nil
}

func ownedBy(id, ownerID string) bson.M {
	return bson.M{"_id": id, "creator": ownerID}
}
