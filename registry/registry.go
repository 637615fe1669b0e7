// Package registry holds the set of configured AI providers.
package registry

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/deepneed/chatcore/domain"
)

// ConfigStore persists provider configuration across restarts. The registry
// works on in-memory defaults whenever the store is nil or failing.
type ConfigStore interface {
	Load(ctx context.Context) ([]domain.ProviderConfig, error)
	Save(ctx context.Context, providers []domain.ProviderConfig) error
}

// Defaults returns the built-in provider set.
func Defaults() []domain.ProviderConfig {
	return []domain.ProviderConfig{
		{
			ProviderID:  "claude",
			DisplayName: "Claude 3 Haiku",
			Enabled:     true,
			Priority:    1,
			Endpoint:    "https://api.anthropic.com",
			Model:       "claude-3-haiku",
			Timeout:     15 * time.Second,
			Description: "Fast general-purpose model, first choice",
		},
		{
			ProviderID:  "deepseek",
			DisplayName: "DeepSeek Chat",
			Enabled:     true,
			Priority:    2,
			Endpoint:    "https://api.deepseek.com",
			Model:       "deepseek-chat",
			Timeout:     15 * time.Second,
			Description: "Fallback model for technical questions",
		},
	}
}

// Registry is the process-wide, mutable provider configuration. Mutations
// take effect for the next failover execution; in-flight executions keep
// the snapshot they were given.
type Registry struct {
	mu        sync.Mutex
	providers map[string]domain.ProviderConfig
	defaults  []domain.ProviderConfig
	store     ConfigStore
}

// New builds a registry from defaults merged with whatever the store has
// persisted. A nil store means no persistence.
func New(store ConfigStore, defaults []domain.ProviderConfig) *Registry {
	r := &Registry{
		providers: make(map[string]domain.ProviderConfig, len(defaults)),
		defaults:  defaults,
		store:     store,
	}
	for _, p := range defaults {
		r.providers[p.ProviderID] = p
	}

	if store != nil {
		saved, err := store.Load(context.Background())
		if err != nil {
			log.Printf("WARN: failed to load provider config, using defaults: %v", err)
		} else {
			for _, p := range saved {
				// Only overrides for known providers are applied;
				// providers are never created from storage alone.
				if _, ok := r.providers[p.ProviderID]; ok {
					r.providers[p.ProviderID] = p
				}
			}
		}
	}
	return r
}

// List returns all known providers, sorted by id for stable output.
func (r *Registry) List() []domain.ProviderConfig {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.ProviderConfig, 0, len(r.providers))
	for _, p := range r.providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProviderID < out[j].ProviderID
	})
	return out
}

// EnabledOrdered returns the enabled providers in attempt order: ascending
// priority, ties broken by id.
func (r *Registry) EnabledOrdered() []domain.ProviderConfig {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.ProviderConfig, 0, len(r.providers))
	for _, p := range r.providers {
		if p.Enabled {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ProviderID < out[j].ProviderID
	})
	return out
}

// SetEnabled toggles a provider.
func (r *Registry) SetEnabled(providerID string, enabled bool) error {
	return r.update(providerID, func(p *domain.ProviderConfig) {
		p.Enabled = enabled
	})
}

// SetPriority changes a provider's attempt priority (1 = highest).
func (r *Registry) SetPriority(providerID string, priority int) error {
	return r.update(providerID, func(p *domain.ProviderConfig) {
		p.Priority = priority
	})
}

// SetCredential stores the provider's API credential.
func (r *Registry) SetCredential(providerID, credential string) error {
	return r.update(providerID, func(p *domain.ProviderConfig) {
		p.Credential = credential
	})
}

// ResetToDefaults restores the built-in provider set.
func (r *Registry) ResetToDefaults() {
	r.mu.Lock()
	r.providers = make(map[string]domain.ProviderConfig, len(r.defaults))
	for _, p := range r.defaults {
		r.providers[p.ProviderID] = p
	}
	r.mu.Unlock()

	r.persist()
}

func (r *Registry) update(providerID string, mutate func(*domain.ProviderConfig)) error {
	r.mu.Lock()
	p, ok := r.providers[providerID]
	if !ok {
		r.mu.Unlock()
		return &domain.UnknownProviderError{ProviderID: providerID}
	}
	mutate(&p)
	r.providers[providerID] = p
	r.mu.Unlock()

	r.persist()
	return nil
}

// persist saves the full provider set, best effort. A failing store never
// breaks a configuration operation.
func (r *Registry) persist() {
	if r.store == nil {
		return
	}
	if err := r.store.Save(context.Background(), r.List()); err != nil {
		log.Printf("WARN: failed to persist provider config: %v", err)
	}
}
