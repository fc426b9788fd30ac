package api_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Rrens/seo-writer/internal/domain"
	"github.com/Rrens/seo-writer/internal/llm"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]domain.User{}}
}

func cloneUser(u domain.User) *domain.User {
	sites := make(map[string]domain.WordPressSite, len(u.WPSites))
	for k, v := range u.WPSites {
		sites[k] = v
	}
	u.WPSites = sites
	return &u
}

func (m *memUsers) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return domain.ErrConflict
		}
	}
	m.users[user.ID] = *cloneUser(*user)
	return nil
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (m *memUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	u, err := m.GetByEmail(ctx, email)
	return u != nil, err
}

func (m *memUsers) UpdateProfile(ctx context.Context, id string, changes domain.ProfileChanges) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	if changes.Name != nil {
		u.Name = *changes.Name
	}
	if changes.PasswordHash != nil {
		u.PasswordHash = *changes.PasswordHash
	}
	if changes.PreferredLanguage != nil {
		u.PreferredLanguage = *changes.PreferredLanguage
	}
	u.UpdatedAt = time.Now().UTC()
	m.users[id] = u
	return cloneUser(u), nil
}

func (m *memUsers) AddSite(ctx context.Context, userID string, site domain.WordPressSite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u = *cloneUser(u)
	u.WPSites[site.ID] = site
	m.users[userID] = u
	return nil
}

func (m *memUsers) ReserveUsage(ctx context.Context, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok || u.APIUsage.Exhausted() {
		return false, nil
	}
	u.APIUsage.CurrentUsage++
	m.users[userID] = u
	return true, nil
}

func (m *memUsers) ReleaseUsage(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if ok && u.APIUsage.CurrentUsage > 0 {
		u.APIUsage.CurrentUsage--
		m.users[userID] = u
	}
	return nil
}

func (m *memUsers) setUsage(userID string, current, limit int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[userID]
	u.APIUsage = domain.APIUsage{CurrentUsage: current, MonthlyLimit: limit}
	m.users[userID] = u
}

type memContents struct {
	mu       sync.Mutex
	contents map[string]domain.Content
}

func newMemContents() *memContents {
	return &memContents{contents: map[string]domain.Content{}}
}

func (m *memContents) Create(ctx context.Context, content *domain.Content) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contents[content.ID] = *content
	return nil
}

func (m *memContents) GetByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contents[id]
	if !ok || c.CreatorID != ownerID {
		return nil, nil
	}
	return &c, nil
}

func (m *memContents) ListByOwner(ctx context.Context, ownerID string) ([]domain.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Content{}
	for _, c := range m.contents {
		if c.CreatorID == ownerID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memContents) Update(ctx context.Context, id, ownerID string, update domain.ContentUpdate) (*domain.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contents[id]
	if !ok || c.CreatorID != ownerID {
		return nil, nil
	}
	if update.Title != nil {
		c.Title = *update.Title
	}
	if update.Body != nil {
		c.Body = *update.Body
	}
	if update.Keywords != nil {
		c.Keywords = update.Keywords
	}
	if update.Status != nil {
		c.Status = *update.Status
	}
	c.UpdatedAt = time.Now().UTC()
	m.contents[id] = c
	return &c, nil
}

func (m *memContents) MarkPublished(ctx context.Context, id, ownerID string, p domain.ContentPublish) (*domain.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contents[id]
	if !ok || c.CreatorID != ownerID {
		return nil, nil
	}
	c.WPSiteID = p.SiteID
	c.WPPostID = p.PostID
	c.WPPostURL = p.PostURL
	c.Status = p.Status
	if p.PublishDate != nil {
		c.PublishDate = p.PublishDate
	}
	c.UpdatedAt = time.Now().UTC()
	m.contents[id] = c
	return &c, nil
}

func (m *memContents) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.contents[id]
	if !ok || c.CreatorID != ownerID {
		return false, nil
	}
	delete(m.contents, id)
	return true, nil
}

func (m *memContents) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.contents)
}

func (m *memContents) get(id string) domain.Content {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.contents[id]
}

type memHistory struct {
	mu      sync.Mutex
	records []domain.PublishRecord
}

func (m *memHistory) Create(ctx context.Context, record *domain.PublishRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *record)
	return nil
}

func (m *memHistory) ListByContent(ctx context.Context, contentID, userID string) ([]domain.PublishRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.PublishRecord{}
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if r.ContentID == contentID && r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

// stubProvider answers every completion with a fixed text
type stubProvider struct {
	mu    sync.Mutex
	text  string
	err   error
	calls []llm.Request
}

func (p *stubProvider) Name() string              { return "openai" }
func (p *stubProvider) AvailableModels() []string { return []string{"gpt-3.5-turbo"} }
func (p *stubProvider) DefaultModel() string      { return "gpt-3.5-turbo" }
func (p *stubProvider) IsConfigured() bool        { return true }

func (p *stubProvider) Complete(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, req)
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Response{Text: p.text, Model: model}, nil
}

// stickyCache keeps the first user written for each id and ignores invalidation,
// standing in for an entry refilled with a snapshot taken before a write.
type stickyCache struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func (c *stickyCache) Get(ctx context.Context, userID string) (*domain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[userID]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (c *stickyCache) Set(ctx context.Context, user *domain.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.users == nil {
		c.users = make(map[string]domain.User)
	}
	if _, ok := c.users[user.ID]; !ok {
		c.users[user.ID] = *cloneUser(*user)
	}
	return nil
}

func (c *stickyCache) Invalidate(ctx context.Context, userID string) error {
	return nil
}
