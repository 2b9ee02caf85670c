package feedsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	be "github.com/unkn0wn-root/feedsync/backend"
)

const (
	defaultBatchWindow    = 100 * time.Millisecond
	defaultReconcileDelay = 3 * time.Second
	reconcileReadTimeout  = 5 * time.Second
)

type engine struct {
	views    Store
	backend  be.Backend
	log      Logger
	hooks    Hooks
	updaters []updater

	batch          *batcher
	trigger        Trigger
	reconcileDelay time.Duration
	commentSink    CommentSinkFunc
	onSyncError    func(Operation, error)
	closeBackend   bool

	baseCtx context.Context
	cancel  context.CancelFunc
	execWg  sync.WaitGroup

	mu        sync.Mutex
	timers    map[uint64]func()
	timerSeq  uint64
	closed    bool
	closeOnce sync.Once
}

func newEngine(opts Options) (*engine, error) {
	if opts.Views == nil {
		return nil, fmt.Errorf("feedsync: view store is required")
	}
	if opts.Backend == nil {
		return nil, fmt.Errorf("feedsync: backend is required")
	}

	e := &engine{
		views:        opts.Views,
		backend:      opts.Backend,
		updaters:     defaultUpdaters(),
		commentSink:  opts.CommentSink,
		onSyncError:  opts.OnSyncError,
		closeBackend: opts.CloseBackend,
		timers:       make(map[uint64]func()),
	}

	// defaults
	e.log = coalesce[Logger](opts.Logger, NopLogger{})
	e.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	e.reconcileDelay = coalesce[time.Duration](opts.ReconcileDelay, defaultReconcileDelay)
	if opts.Trigger != nil {
		e.trigger = opts.Trigger
	} else {
		e.trigger = TimerTrigger{}
	}

	e.baseCtx, e.cancel = context.WithCancel(context.Background())
	e.batch = newBatcher(
		coalesce[time.Duration](opts.BatchWindow, defaultBatchWindow),
		e.executeBatch,
		e.hooks,
	)
	return e, nil
}

func (e *engine) Apply(op Operation) Rollback {
	op = normalizeOp(op)
	if op.Kind == 0 || op.TargetID == "" {
		return func() {}
	}

	prior, _ := e.safeLookup(op)
	patch := ComputePatch(op, prior)
	e.fanOut(op, patch, prior)

	inv := inverse(op, prior)
	var once sync.Once
	rb := func() {
		once.Do(func() {
			invPrior, _ := e.safeLookup(inv)
			e.fanOut(inv, ComputePatch(inv, invPrior), invPrior)
			e.hooks.RollbackApplied(op.Kind, op.TargetID)
			e.log.Debug("rolled back", Fields{"kind": op.Kind.String(), "target": op.TargetID})
		})
	}

	if op.Kind.syncable() {
		e.batch.schedule(pending{op: op, rollback: rb})
	}
	return rb
}

func (e *engine) Pending() int { return e.batch.len() }

// Flush drains the pending map and waits for every resulting backend call
// (and any inline reconciliation) to finish.
func (e *engine) Flush(ctx context.Context) {
	e.executeBatch(e.batch.drain())
	done := make(chan struct{})
	go func() {
		e.execWg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (e *engine) Close(ctx context.Context) error {
	e.closeOnce.Do(func() {
		e.batch.close()

		e.mu.Lock()
		e.closed = true
		cancels := make([]func(), 0, len(e.timers))
		for _, c := range e.timers {
			cancels = append(cancels, c)
		}
		e.timers = nil
		e.mu.Unlock()
		for _, c := range cancels {
			if c != nil {
				c()
			}
		}

		e.cancel()
		e.execWg.Wait()
	})
	if e.closeBackend {
		return e.backend.Close(ctx)
	}
	return nil
}

// fanOut applies the patch to every view family. A panic inside one family
// (a corrupted store value, a misbehaving Store implementation) is contained
// there; the remaining families still update.
func (e *engine) fanOut(op Operation, patch Patch, prior Item) {
	for _, u := range e.updaters {
		e.applyFamily(u, op, patch, prior)
	}
}

func (e *engine) applyFamily(u updater, op Operation, patch Patch, prior Item) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("view update panic: %v", r)
			e.log.Error("view update failed", Fields{
				"family": u.family(), "kind": op.Kind.String(), "target": op.TargetID, "err": err,
			})
			e.hooks.ViewUpdateError(u.family(), op.TargetID, err)
		}
	}()
	u.apply(e.views, op, patch, prior)
}

// safeLookup finds the current cached snapshot of the operation's target,
// checking the singleton detail first and then scanning the paginated
// families. Misses report found=false and return a zero item carrying the
// target id so the delta calculator stays total.
func (e *engine) safeLookup(op Operation) (it Item, found bool) {
	it = Item{ID: op.TargetID}
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("view lookup panic", Fields{"target": op.TargetID, "err": r})
		}
	}()

	if op.Kind == OpCreate && op.Item != nil {
		return *op.Item, true
	}
	if v, ok := e.views.Read(DetailKey(op.TargetID)); ok {
		if cur, ok := asItem(v); ok && matches(cur, op) {
			return cur, true
		}
	}
	for _, family := range []string{FamilyFeed, FamilyCollection, FamilyProfile, FamilySearch} {
		for _, k := range e.views.Keys(family + keySep) {
			v, ok := e.views.Read(k)
			if !ok {
				continue
			}
			for _, pg := range NormalizePages(v) {
				for _, cur := range pg {
					if matches(cur, op) {
						return cur, true
					}
				}
			}
		}
	}
	return it, false
}

// normalizeOp canonicalizes identifiers once at the boundary so the updaters
// can rely on plain equality.
func normalizeOp(op Operation) Operation {
	op.TargetID = CanonicalID(op.TargetID)
	op.ActorID = CanonicalID(op.ActorID)
	if op.Kind == OpCreate && op.TargetID == "" && op.Item != nil {
		op.TargetID = CanonicalID(op.Item.ID)
	}
	return op
}
