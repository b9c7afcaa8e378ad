package seed

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"pnodev/internal/core/apperror"
	"pnodev/internal/metadata"
)

// DefaultWorkers bounds concurrent dispatches for one field.
const DefaultWorkers = 4

// PairStatus is the outcome class of one pair.
type PairStatus string

const (
	StatusDispatched PairStatus = "dispatched"
	StatusSkipped    PairStatus = "skipped"
	StatusFailed     PairStatus = "failed"
)

// PairResult is reported to the observer once per pair.
type PairResult struct {
	Field  metadata.FieldDefinition
	Entity Entity
	Value  Value
	Err    error
}

// Status classifies the result.
func (r PairResult) Status() PairStatus {
	switch {
	case r.Err == nil:
		return StatusDispatched
	case apperror.IsSkip(r.Err):
		return StatusSkipped
	default:
		return StatusFailed
	}
}

// Summary aggregates a run.
type Summary struct {
	Total      int
	Dispatched int
	Failed     int
	Skipped    map[string]int // skip reason -> count
	Canceled   bool
}

// SkippedTotal sums skips over all reasons.
func (s Summary) SkippedTotal() int {
	n := 0
	for _, c := range s.Skipped {
		n += c
	}
	return n
}

// Processed is the number of pairs that reached the dispatcher.
func (s Summary) Processed() int {
	return s.Dispatched + s.Failed + s.SkippedTotal()
}

// Observer receives progress. Pair may be called concurrently.
type Observer interface {
	Start(total int)
	Pair(result PairResult)
	Finish(summary Summary)
}

// Runner iterates fields x entities in field-major order.
type Runner struct {
	dispatcher *Dispatcher
	workers    int
	observer   Observer
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithWorkers sets the per-field worker pool size.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithObserver sets the progress observer.
func WithObserver(o Observer) RunnerOption {
	return func(r *Runner) {
		if o != nil {
			r.observer = o
		}
	}
}

// NewRunner creates a runner.
func NewRunner(d *Dispatcher, opts ...RunnerOption) *Runner {
	r := &Runner{
		dispatcher: d,
		workers:    DefaultWorkers,
		observer:   NopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run dispatches every pair. Pair failures never stop the run; a canceled
// ctx stops it between pairs and returns the partial summary with ctx.Err().
func (r *Runner) Run(ctx context.Context, fields []metadata.FieldDefinition, entities []Entity) (Summary, error) {
	c := &collector{summary: Summary{
		Total:   len(fields) * len(entities),
		Skipped: make(map[string]int),
	}}
	r.observer.Start(c.summary.Total)

	for _, field := range fields {
		if ctx.Err() != nil {
			break
		}

		var g errgroup.Group
		g.SetLimit(r.workers)
		for _, entity := range entities {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				value, err := r.dispatcher.Dispatch(ctx, field, entity)
				res := PairResult{Field: field, Entity: entity, Value: value, Err: err}
				c.add(res)
				r.observer.Pair(res)
				return nil
			})
		}
		_ = g.Wait()
	}

	summary := c.result()
	if err := ctx.Err(); err != nil {
		summary.Canceled = true
		r.observer.Finish(summary)
		return summary, err
	}
	r.observer.Finish(summary)
	return summary, nil
}

type collector struct {
	mu      sync.Mutex
	summary Summary
}

func (c *collector) add(res PairResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch res.Status() {
	case StatusDispatched:
		c.summary.Dispatched++
	case StatusSkipped:
		c.summary.Skipped[apperror.SkipReason(res.Err)]++
	default:
		c.summary.Failed++
	}
}

func (c *collector) result() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.summary
	s.Skipped = make(map[string]int, len(c.summary.Skipped))
	for k, v := range c.summary.Skipped {
		s.Skipped[k] = v
	}
	return s
}
