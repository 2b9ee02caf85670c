package feedsync

import (
	"sync"
	"time"
)

// pending is one coalesced unit of work awaiting flush: the operation that
// will reach the backend and the rollback to invoke if it fails.
type pending struct {
	op       Operation
	rollback Rollback
}

// batcher collapses operations sharing a (kind, target, actor) key inside a
// short window into a single pending unit and schedules a deferred flush.
//
// Replacement is last-write-wins, with one refinement for toggle kinds: an
// operation whose delta negates the pending one cancels the pair outright,
// so a rapid like/unlike leaves nothing to sync. The mutex makes each
// schedule/drain atomic with respect to the others; flushing always drains
// the current map contents, and schedules racing a flush start a fresh
// batch.
type batcher struct {
	mu      sync.Mutex
	window  time.Duration
	pending map[string]pending
	order   []string // insertion order of live keys; drain is deterministic
	timer   *time.Timer
	flushFn func([]pending)
	hooks   Hooks
	closed  bool
}

func newBatcher(window time.Duration, flushFn func([]pending), hooks Hooks) *batcher {
	return &batcher{
		window:  window,
		pending: make(map[string]pending),
		flushFn: flushFn,
		hooks:   hooks,
	}
}

func dedupKey(op Operation) string {
	return op.Kind.String() + "|" + op.TargetID + "|" + orGuest(op.ActorID)
}

func (b *batcher) schedule(p pending) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}

	k := dedupKey(p.op)
	if cur, ok := b.pending[k]; ok {
		b.hooks.OperationCoalesced(p.op.Kind, p.op.TargetID)
		if p.op.Kind.toggle() && cur.op.Delta == -p.op.Delta {
			// net zero: the user toggled back before the flush fired
			delete(b.pending, k)
			b.dropKey(k)
			if len(b.pending) == 0 && b.timer != nil {
				b.timer.Stop()
				b.timer = nil
			}
			b.mu.Unlock()
			return
		}
	} else {
		b.order = append(b.order, k)
	}
	b.pending[k] = p

	// (re)arm the flush timer on every schedule that leaves work pending
	if b.timer == nil {
		b.timer = time.AfterFunc(b.window, b.flush)
	} else {
		b.timer.Reset(b.window)
	}
	b.mu.Unlock()
}

func (b *batcher) flush() {
	if entries := b.drain(); len(entries) > 0 {
		b.flushFn(entries)
	}
}

// drain atomically empties the pending map and disarms the timer, returning
// entries in schedule order.
func (b *batcher) drain() []pending {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	if len(b.pending) == 0 {
		b.order = b.order[:0]
		return nil
	}
	out := make([]pending, 0, len(b.pending))
	for _, k := range b.order {
		if p, ok := b.pending[k]; ok {
			out = append(out, p)
		}
	}
	b.pending = make(map[string]pending)
	b.order = nil
	return out
}

func (b *batcher) len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// close disarms the timer and discards pending work without executing it.
func (b *batcher) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.pending = make(map[string]pending)
	b.order = nil
}

func (b *batcher) dropKey(k string) {
	for i, ok := range b.order {
		if ok == k {
			b.order = append(b.order[:i], b.order[i+1:]...)
			return
		}
	}
}
