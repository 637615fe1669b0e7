// Package policy gates provider selection through an OPA policy. The
// default policy allows every provider; operators can install a stricter
// one (for example, skipping providers without a configured credential)
// without touching the failover code.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decisions returned by the policy.
const (
	DecisionAllow = "allow"
	DecisionSkip  = "skip"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.provider_policy.decision"),
		rego.Module("provider_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// ProviderInput is the policy input for one provider attempt.
type ProviderInput struct {
	ProviderID    string `json:"provider_id"`
	Priority      int    `json:"priority"`
	HasCredential bool   `json:"has_credential"`
}

// Evaluate returns the decision for one provider: "allow" or "skip".
func (e *Engine) Evaluate(ctx context.Context, input ProviderInput) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}

	return DecisionAllow, nil
}

// DefaultPolicy allows every configured provider to be attempted.
const DefaultPolicy = `
package provider_policy

default decision = "allow"

# Example: skip providers that have no credential configured.
#
# decision = "skip" {
# 	not input.has_credential
# }
`
