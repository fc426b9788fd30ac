package domain

import "context"

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id string, changes ProfileChanges) (*User, error)
	AddSite(ctx context.Context, userID string, site WordPressSite) error
	ReserveUsage(ctx context.Context, userID string) (bool, error)
	ReleaseUsage(ctx context.Context, userID string) error
}

// UserCache defines the interface for the resolved-user cache
type UserCache interface {
	Get(ctx context.Context, userID string) (*User, error)
	Set(ctx context.Context, user *User) error
	Invalidate(ctx context.Context, userID string) error
}

// ContentRepository defines the interface for content persistence
type ContentRepository interface {
	Create(ctx context.Context, content *Content) error
	GetByIDAndOwner(ctx context.Context, id, ownerID string) (*Content, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Content, error)
	Update(ctx context.Context, id, ownerID string, update ContentUpdate) (*Content, error)
	MarkPublished(ctx context.Context, id, ownerID string, p ContentPublish) (*Content, error)
	Delete(ctx context.Context, id, ownerID string) (bool, error)
}

// PublishHistoryRepository defines the interface for the publish audit trail
type PublishHistoryRepository interface {
	Create(ctx context.Context, record *PublishRecord) error
	ListByContent(ctx context.Context, contentID, userID string) ([]PublishRecord, error)
}
