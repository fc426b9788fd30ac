package llm

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// modelPrefixes maps model name families to the provider serving them
var modelPrefixes = map[string]string{
	"gpt-":    "openai",
	"o1":      "openai",
	"o3":      "openai",
	"claude-": "anthropic",
	"gemini-": "gemini",
}

// Router manages completion providers and model routing
type Router struct {
	providers       map[string]Provider
	defaultProvider string
	mu              sync.RWMutex
}

// NewRouter creates a new LLM router
func NewRouter(defaultProvider string) *Router {
	return &Router{
		providers:       make(map[string]Provider),
		defaultProvider: defaultProvider,
	}
}

// RegisterProvider registers a completion provider
func (r *Router) RegisterProvider(provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.Name()] = provider
}

// GetProvider returns a provider by name
func (r *Router) GetProvider(name string) (Provider, error) {
	if name == "" {
		name = r.defaultProvider
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider not found: %s", name)
	}

	if !p.IsConfigured() {
		return nil, fmt.Errorf("provider not configured: %s", name)
	}

	return p, nil
}

// ProviderForModel resolves the provider serving a model identifier.
// Exact matches against advertised models win, then known name families,
// then the default provider.
func (r *Router) ProviderForModel(model string) (Provider, error) {
	if model == "" {
		return r.GetProvider("")
	}

	r.mu.RLock()
	for _, p := range r.providers {
		for _, m := range p.AvailableModels() {
			if m == model && p.IsConfigured() {
				r.mu.RUnlock()
				return p, nil
			}
		}
	}
	r.mu.RUnlock()

	for prefix, name := range modelPrefixes {
		if strings.HasPrefix(model, prefix) {
			return r.GetProvider(name)
		}
	}

	return r.GetProvider("")
}

// ListProviders returns list of configured provider names
func (r *Router) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var providers []string
	for name, p := range r.providers {
		if p.IsConfigured() {
			providers = append(providers, name)
		}
	}
	sort.Strings(providers)
	return providers
}

// DefaultProvider returns the default provider name
func (r *Router) DefaultProvider() string {
	return r.defaultProvider
}

// ProviderInfo contains information about an LLM provider
type ProviderInfo struct {
	Name         string   `json:"name"`
	Models       []string `json:"models"`
	DefaultModel string   `json:"defaultModel"`
	Default      bool     `json:"default"`
	Configured   bool     `json:"configured"`
}

// GetProvidersInfo returns information about all providers
func (r *Router) GetProvidersInfo() []ProviderInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]ProviderInfo, 0, len(r.providers))
	for name, p := range r.providers {
		infos = append(infos, ProviderInfo{
			Name:         name,
			Models:       p.AvailableModels(),
			DefaultModel: p.DefaultModel(),
			Default:      name == r.defaultProvider,
			Configured:   p.IsConfigured(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
