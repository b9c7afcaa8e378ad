// Package tx decouples services from the database transaction implementation.
package tx

import "context"

// Manager runs fn in a transaction. fn's error rolls the transaction back;
// nested calls reuse the transaction already in ctx.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Nop runs fn directly. Used with stores that have no transactions.
type Nop struct{}

func (Nop) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
