// Package asynchook decouples slow hook sinks from the engine's hot path.
// Events are queued to a bounded channel and dropped when it is full.
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/feedsync"
)

type Hooks struct {
	inner feedsync.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ feedsync.Hooks = (*Hooks)(nil)

func New(inner feedsync.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) ViewUpdateError(family, target string, err error) {
	h.try(func() { h.inner.ViewUpdateError(family, target, err) })
}
func (h *Hooks) OperationCoalesced(k feedsync.OpKind, target string) {
	h.try(func() { h.inner.OperationCoalesced(k, target) })
}
func (h *Hooks) BatchFlushed(n int) { h.try(func() { h.inner.BatchFlushed(n) }) }
func (h *Hooks) SyncFailed(k feedsync.OpKind, target string, err error) {
	h.try(func() { h.inner.SyncFailed(k, target, err) })
}
func (h *Hooks) RollbackApplied(k feedsync.OpKind, target string) {
	h.try(func() { h.inner.RollbackApplied(k, target) })
}
func (h *Hooks) DriftCorrected(target string) { h.try(func() { h.inner.DriftCorrected(target) }) }
func (h *Hooks) ReconcileSkipped(target string, err error) {
	h.try(func() { h.inner.ReconcileSkipped(target, err) })
}
