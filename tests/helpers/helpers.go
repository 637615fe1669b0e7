// Package helpers provides shared test fixtures.
package helpers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/deepneed/chatcore/domain"
	"github.com/deepneed/chatcore/registry"
)

// NewTestConfigStore creates an in-memory SQLite provider-config store.
func NewTestConfigStore(t *testing.T) *registry.SQLiteConfigStore {
	t.Helper()

	s, err := registry.NewSQLiteConfigStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite config store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

// Response scripts one provider's behavior in a FakeCaller.
type Response struct {
	Content string
	Err     error
	// Delay makes the call wait before returning; a context deadline
	// firing first wins, which is how tests simulate timeouts.
	Delay time.Duration
}

// FakeCaller is a scriptable failover.Caller that counts calls per
// provider.
type FakeCaller struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     map[string]int
}

// NewFakeCaller creates a caller scripted per provider id. Providers with
// no script fail with a generic error.
func NewFakeCaller(responses map[string]Response) *FakeCaller {
	return &FakeCaller{
		responses: responses,
		calls:     make(map[string]int),
	}
}

// Complete implements failover.Caller.
func (f *FakeCaller) Complete(ctx context.Context, p domain.ProviderConfig, _ []domain.ChatMessage) (string, error) {
	f.mu.Lock()
	f.calls[p.ProviderID]++
	resp, ok := f.responses[p.ProviderID]
	f.mu.Unlock()

	if !ok {
		return "", errors.New("no scripted response for provider " + p.ProviderID)
	}

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if resp.Err != nil {
		return "", resp.Err
	}
	return resp.Content, nil
}

// Calls reports how many times the given provider was attempted.
func (f *FakeCaller) Calls(providerID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[providerID]
}

// Set replaces the script for one provider.
func (f *FakeCaller) Set(providerID string, resp Response) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[providerID] = resp
}

// Provider builds a minimal enabled provider config for tests.
func Provider(id string, priority int) domain.ProviderConfig {
	return domain.ProviderConfig{
		ProviderID:  id,
		DisplayName: id,
		Enabled:     true,
		Priority:    priority,
		Timeout:     time.Second,
	}
}
