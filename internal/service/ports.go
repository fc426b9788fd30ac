package service

import (
	"context"

	"github.com/Rrens/seo-writer/internal/llm"
	"github.com/Rrens/seo-writer/internal/wordpress"
)

// ModelRouter resolves the completion provider for a model identifier
type ModelRouter interface {
	ProviderForModel(model string) (llm.Provider, error)
}

// SiteClient talks to a user's WordPress site
type SiteClient interface {
	VerifySite(ctx context.Context, creds wordpress.Credentials) error
	CreatePost(ctx context.Context, creds wordpress.Credentials, post wordpress.Post) (*wordpress.CreatedPost, error)
}
