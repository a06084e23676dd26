// Package resource holds the generation-tracked fetch primitive shared by the
// list and calendar views.
package resource

import (
	"context"
	"log/slog"
	"sync"

	"github.com/frahmantamala/interview-console/internal"
)

// ErrSuperseded is returned by a run that a newer run for the same key replaced.
var ErrSuperseded = internal.ErrRequestSuperseded

type FetchFunc[Q, T any] func(ctx context.Context, query Q) (T, error)

// Query runs fetches keyed by view. Starting a run cancels the previous
// in-flight run for the same key, and a run that lost its generation never
// returns its result.
type Query[Q, T any] struct {
	name   string
	fetch  FetchFunc[Q, T]
	logger *slog.Logger

	mu   sync.Mutex
	next uint64
	runs map[string]inflight
}

type inflight struct {
	generation uint64
	cancel     context.CancelFunc
}

// Result is a completed run with its generation.
type Result[T any] struct {
	Generation uint64
	Value      T
}

func New[Q, T any](name string, fetch FetchFunc[Q, T], logger *slog.Logger) *Query[Q, T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Query[Q, T]{
		name:   name,
		fetch:  fetch,
		logger: logger,
		runs:   make(map[string]inflight),
	}
}

// Run fetches query under key. If another Run for key starts before this one
// finishes, this one is cancelled and returns ErrSuperseded.
func (q *Query[Q, T]) Run(ctx context.Context, key string, query Q) (Result[T], error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	gen := q.begin(key, cancel)
	defer q.finish(key, gen)

	value, err := q.fetch(ctx, query)
	if !q.current(key, gen) {
		q.logger.Debug("Resource: dropping superseded result", "resource", q.name, "key", key, "generation", gen)
		return Result[T]{Generation: gen}, ErrSuperseded
	}
	if err != nil {
		return Result[T]{Generation: gen}, err
	}
	return Result[T]{Generation: gen, Value: value}, nil
}

// Generation is the latest generation handed out for key, or 0 when idle.
func (q *Query[Q, T]) Generation(key string) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.runs[key].generation
}

func (q *Query[Q, T]) begin(key string, cancel context.CancelFunc) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	if prev, ok := q.runs[key]; ok {
		prev.cancel()
	}
	q.next++
	q.runs[key] = inflight{generation: q.next, cancel: cancel}
	return q.next
}

func (q *Query[Q, T]) current(key string, gen uint64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.runs[key].generation == gen
}

func (q *Query[Q, T]) finish(key string, gen uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.runs[key].generation == gen {
		delete(q.runs, key)
	}
}
