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

// UserRepository handles user data access
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{coll: db.Database.Collection(usersCollection)}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	// $set on wp_sites.<id> fails against a null field
	if user.WPSites == nil {
		user.WPSites = map[string]domain.WordPressSite{}
	}

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return n > 0, nil
}

// UpdateProfile applies profile changes and returns the updated user
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, changes domain.ProfileChanges) (*domain.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if changes.Name != nil {
		set["name"] = *changes.Name
	}
	if changes.PasswordHash != nil {
		set["password_hash"] = *changes.PasswordHash
	}
	if changes.PreferredLanguage != nil {
		set["preferred_language"] = *changes.PreferredLanguage
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user domain.User
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}

// AddSite stores a WordPress site under its id in the user's site map
func (r *UserRepository) AddSite(ctx context.Context, userID string, site domain.WordPressSite) error {
	update := bson.M{"$set": bson.M{
		"wp_sites." + site.ID: site,
		"updated_at":          time.Now().UTC(),
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to add site: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReserveUsage takes one generation slot if the user is under the monthly limit.
// It returns false when the limit is already reached.
func (r *UserRepository) ReserveUsage(ctx context.Context, userID string) (bool, error) {
	filter := bson.M{
		"_id": userID,
		"$expr": bson.M{
			"$lt": bson.A{"$api_usage.current_usage", "$api_usage.monthly_limit"},
		},
	}
	update := bson.M{
		"$inc": bson.M{"api_usage.current_usage": 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to reserve usage: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

// ReleaseUsage gives back a slot taken by ReserveUsage
func (r *UserRepository) ReleaseUsage(ctx context.Context, userID string) error {
	filter := bson.M{
		"_id":                     userID,
		"api_usage.current_usage": bson.M{"$gt": 0},
	}
	update := bson.M{
		"$inc": bson.M{"api_usage.current_usage": -1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to release usage: %w", err)
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
