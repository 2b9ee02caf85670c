package feedsync

import (
	"context"
	"time"

	be "github.com/unkn0wn-root/feedsync/backend"
)

// Rollback reverts one optimistic apply by replaying its inverse operation
// across all views. Idempotent: the second and later calls are no-ops.
type Rollback func()

// Engine is the cache coherence engine. One instance lives for the whole
// application session; construct it at startup and Close it on teardown.
type Engine interface {
	// Apply runs the optimistic update synchronously across every view
	// family, schedules server sync for syncable kinds, and returns the
	// rollback handle. It never panics; per-family failures are isolated,
	// logged, and reported through Hooks.
	Apply(op Operation) Rollback

	// Flush drains pending operations immediately and waits for the
	// resulting backend calls to settle. Useful on session teardown and in
	// tests; normal operation relies on the batch window timer.
	Flush(ctx context.Context)

	// Pending reports the number of coalesced operations awaiting flush.
	Pending() int

	// Close cancels the batch timer, drains in-flight work, and closes the
	// backend if the engine owns it.
	Close(ctx context.Context) error
}

// CommentSinkFunc persists a comment-count mutation. The authoritative
// comment write path lives outside the engine (the comment form posts the
// row); the sink exists so the count sync can be delegated upward.
type CommentSinkFunc func(ctx context.Context, op Operation) error

// Options tune the engine. Views and Backend are required; everything else
// has defaults matching the interactive-use profile.
type Options struct {
	// Required
	Views   Store
	Backend be.Backend

	Logger Logger // nil => NopLogger
	Hooks  Hooks  // nil => NopHooks

	BatchWindow    time.Duration // dedup window before flush; 0 => 100ms
	ReconcileDelay time.Duration // delay after flush before verify; 0 => 3s
	Trigger        Trigger       // reconciliation scheduler; nil => timer-driven

	CommentSink CommentSinkFunc // nil => comment sync is skipped
	OnSyncError func(op Operation, err error) // external notification surface

	CloseBackend bool // Close also closes Backend
}

func New(opts Options) (Engine, error) {
	return newEngine(opts)
}
