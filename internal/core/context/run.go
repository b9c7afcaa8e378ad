// Package context provides run-scoped values extraction.
package context

import (
	"context"

	"github.com/google/uuid"
)

// RunContext identifies one CLI invocation in logs.
type RunContext struct {
	RunID   string
	Command string
	Seed    int64
	DryRun  bool
}

type runContextKey struct{}

// WithRun adds RunContext to context.
func WithRun(ctx context.Context, run *RunContext) context.Context {
	return context.WithValue(ctx, runContextKey{}, run)
}

// GetRun returns RunContext from context.
func GetRun(ctx context.Context) *RunContext {
	if v, ok := ctx.Value(runContextKey{}).(*RunContext); ok {
		return v
	}
	return nil
}

// GetRunID returns run ID from context or empty string.
func GetRunID(ctx context.Context) string {
	if r := GetRun(ctx); r != nil {
		return r.RunID
	}
	return ""
}

// NewRunContext creates a RunContext with a generated ID.
func NewRunContext(command string, seed int64) *RunContext {
	return &RunContext{
		RunID:   uuid.New().String(),
		Command: command,
		Seed:    seed,
	}
}
