package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoProvidersEnabled is returned by the failover executor when the
// registry snapshot it was given is empty. No network attempt is made.
var ErrNoProvidersEnabled = errors.New("no providers enabled")

// UnknownSessionError reports an operation against a session id that does
// not exist. It is surfaced synchronously to the caller.
type UnknownSessionError struct {
	SessionID string
}

func (e *UnknownSessionError) Error() string {
	return fmt.Sprintf("unknown session %q", e.SessionID)
}

// UnknownProviderError reports a configuration operation against an
// unregistered provider id.
type UnknownProviderError struct {
	ProviderID string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider %q", e.ProviderID)
}

// ProviderCallError wraps a single provider's failure. It is consumed by
// the failover executor and never surfaced to the UI directly.
type ProviderCallError struct {
	ProviderID string
	Err        error
}

func (e *ProviderCallError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.ProviderID, e.Err)
}

func (e *ProviderCallError) Unwrap() error {
	return e.Err
}

// AllProvidersFailedError aggregates the per-provider failures of an
// exhausted failover pass.
type AllProvidersFailedError struct {
	Failures []*ProviderCallError
}

func (e *AllProvidersFailedError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}
	return fmt.Sprintf("all providers failed: %s", strings.Join(parts, "; "))
}
