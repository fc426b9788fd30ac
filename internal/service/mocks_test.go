package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Rrens/seo-writer/internal/domain"
	"github.com/Rrens/seo-writer/internal/llm"
	"github.com/Rrens/seo-writer/internal/wordpress"
)

// MockUserRepository mocks domain.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id string, changes domain.ProfileChanges) (*domain.User, error) {
	args := m.Called(ctx, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) AddSite(ctx context.Context, userID string, site domain.WordPressSite) error {
	args := m.Called(ctx, userID, site)
	return args.Error(0)
}

func (m *MockUserRepository) ReserveUsage(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ReleaseUsage(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockUserCache mocks domain.UserCache
type MockUserCache struct {
	mock.Mock
}

func (m *MockUserCache) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserCache) Set(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserCache) Invalidate(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockContentRepository mocks domain.ContentRepository
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) Create(ctx context.Context, content *domain.Content) error {
	args := m.Called(ctx, content)
	return args.Error(0)
}

func (m *MockContentRepository) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Content, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Content), args.Error(1)
}

func (m *MockContentRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Content, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Content), args.Error(1)
}

func (m *MockContentRepository) Update(ctx context.Context, id, ownerID string, update domain.ContentUpdate) (*domain.Content, error) {
	args := m.Called(ctx, id, ownerID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Content), args.Error(1)
}

func (m *MockContentRepository) MarkPublished(ctx context.Context, id, ownerID string, p domain.ContentPublish) (*domain.Content, error) {
	args := m.Called(ctx, id, ownerID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Content), args.Error(1)
}

func (m *MockContentRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	args := m.Called(ctx, id, ownerID)
	return args.Bool(0), args.Error(1)
}

// MockHistoryRepository mocks domain.PublishHistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Create(ctx context.Context, record *domain.PublishRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListByContent(ctx context.Context, contentID, userID string) ([]domain.PublishRecord, error) {
	args := m.Called(ctx, contentID, userID)
	return args.Get(0).([]domain.PublishRecord), args.Error(1)
}

// MockModelRouter mocks ModelRouter
type MockModelRouter struct {
	mock.Mock
}

func (m *MockModelRouter) ProviderForModel(model string) (llm.Provider, error) {
	args := m.Called(model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(llm.Provider), args.Error(1)
}

// MockLLMProvider mocks llm.Provider
type MockLLMProvider struct {
	mock.Mock
}

func (m *MockLLMProvider) Name() string              { return "mock" }
func (m *MockLLMProvider) AvailableModels() []string { return []string{"mock-model"} }
func (m *MockLLMProvider) DefaultModel() string      { return "mock-model" }
func (m *MockLLMProvider) IsConfigured() bool        { return true }

func (m *MockLLMProvider) Complete(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	args := m.Called(ctx, req, model)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}

// MockSiteClient mocks SiteClient
type MockSiteClient struct {
	mock.Mock
}

func (m *MockSiteClient) VerifySite(ctx context.Context, creds wordpress.Credentials) error {
	args := m.Called(ctx, creds)
	return args.Error(0)
}

func (m *MockSiteClient) CreatePost(ctx context.Context, creds wordpress.Credentials, post wordpress.Post) (*wordpress.CreatedPost, error) {
	args := m.Called(ctx, creds, post)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wordpress.CreatedPost), args.Error(1)
}
