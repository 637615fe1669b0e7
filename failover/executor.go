// Package failover tries providers in priority order until one succeeds.
package failover

import (
	"context"
	"log"
	"time"

	"github.com/deepneed/chatcore/domain"
	"github.com/deepneed/chatcore/policy"
)

// Caller performs one provider call. The real implementation is the HTTP
// provider client; tests inject fakes.
type Caller interface {
	Complete(ctx context.Context, p domain.ProviderConfig, messages []domain.ChatMessage) (string, error)
}

// Executor attempts an ordered provider list and returns the first success.
type Executor struct {
	caller         Caller
	retryAttempts  int
	defaultTimeout time.Duration
	gate           *policy.Engine // nil = allow all
}

// New creates an executor. retryAttempts is the number of extra attempts
// per provider beyond the first, so worst-case latency is bounded at
// sum(timeout * (1+retryAttempts)) across the list.
func New(caller Caller, retryAttempts int, defaultTimeout time.Duration, gate *policy.Engine) *Executor {
	if retryAttempts < 0 {
		retryAttempts = 0
	}
	return &Executor{
		caller:         caller,
		retryAttempts:  retryAttempts,
		defaultTimeout: defaultTimeout,
		gate:           gate,
	}
}

// Execute iterates providers in the given order (the caller sorts by
// priority) and short-circuits on the first success. On total failure it
// returns an AllProvidersFailedError aggregating every provider's error;
// on an empty list it returns ErrNoProvidersEnabled without any attempt.
func (e *Executor) Execute(ctx context.Context, providers []domain.ProviderConfig, messages []domain.ChatMessage) (domain.CallResult, error) {
	if len(providers) == 0 {
		return domain.CallResult{}, domain.ErrNoProvidersEnabled
	}

	var failures []*domain.ProviderCallError
	for _, p := range providers {
		if skipped, reason := e.skippedByPolicy(ctx, p); skipped {
			failures = append(failures, &domain.ProviderCallError{ProviderID: p.ProviderID, Err: reason})
			continue
		}

		content, latency, err := e.callWithRetry(ctx, p, messages)
		if err != nil {
			log.Printf("WARN: provider %s failed after %d attempt(s): %v", p.ProviderID, 1+e.retryAttempts, err)
			failures = append(failures, &domain.ProviderCallError{ProviderID: p.ProviderID, Err: err})
			continue
		}

		return domain.CallResult{
			ProviderID: p.ProviderID,
			Content:    content,
			Latency:    latency,
		}, nil
	}

	return domain.CallResult{}, &domain.AllProvidersFailedError{Failures: failures}
}

// callWithRetry runs up to 1+retryAttempts attempts, each under the
// provider's own hard deadline so no call can block indefinitely.
func (e *Executor) callWithRetry(ctx context.Context, p domain.ProviderConfig, messages []domain.ChatMessage) (string, time.Duration, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = e.defaultTimeout
	}

	var lastErr error
	for attempt := 0; attempt <= e.retryAttempts; attempt++ {
		start := time.Now()
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		content, err := e.caller.Complete(callCtx, p, messages)
		cancel()
		if err == nil {
			return content, time.Since(start), nil
		}
		lastErr = err
		if ctx.Err() != nil {
			// The outer context is gone; retrying is pointless.
			break
		}
	}
	return "", 0, lastErr
}

type policySkipError struct {
	decision string
}

func (e *policySkipError) Error() string {
	return "skipped by provider policy (decision: " + e.decision + ")"
}

func (e *Executor) skippedByPolicy(ctx context.Context, p domain.ProviderConfig) (bool, error) {
	if e.gate == nil {
		return false, nil
	}
	decision, err := e.gate.Evaluate(ctx, policy.ProviderInput{
		ProviderID:    p.ProviderID,
		Priority:      p.Priority,
		HasCredential: p.Credential != "",
	})
	if err != nil {
		// A broken policy must not take the whole failover path down.
		log.Printf("WARN: provider policy evaluation failed for %s, allowing: %v", p.ProviderID, err)
		return false, nil
	}
	if decision == policy.DecisionAllow {
		return false, nil
	}
	return true, &policySkipError{decision: decision}
}
