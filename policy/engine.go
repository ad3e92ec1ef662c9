// Package policy gates license terms through an OPA policy before any gas is
// spent on the mint transaction.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/v1/rego"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a policy engine from the given rego module.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.license_policy.decision"),
		rego.Module("license_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks the license policy. Input carries minting_fee and
// commercial_rev_share. Returns the decision (allow or block).
func (e *Engine) Evaluate(ctx context.Context, input interface{}) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return "allow", nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}

	return "allow", nil
}

// DefaultPolicy blocks license terms that would revert on-chain or give away
// more than the whole revenue stream.
const DefaultPolicy = `
package license_policy

default decision := "allow"

decision := "block" if {
	input.minting_fee < 0
}

decision := "block" if {
	input.commercial_rev_share < 0
}

decision := "block" if {
	input.commercial_rev_share > 100
}
`
