package asynchook

import (
	"errors"
	"sync"
	"testing"

	"github.com/unkn0wn-root/feedsync"
)

type countingHooks struct {
	feedsync.NopHooks
	mu      sync.Mutex
	flushes int
	drifts  int
}

func (c *countingHooks) BatchFlushed(int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushes++
}

func (c *countingHooks) DriftCorrected(string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drifts++
}

func TestEventsReachInnerSink(t *testing.T) {
	inner := &countingHooks{}
	h := New(inner, 2, 64)

	for i := 0; i < 10; i++ {
		h.BatchFlushed(1)
	}
	h.DriftCorrected("i1")
	h.ViewUpdateError("feed", "i1", errors.New("boom")) // NopHooks sink, still must not block
	h.Close()

	inner.mu.Lock()
	defer inner.mu.Unlock()
	if inner.flushes != 10 || inner.drifts != 1 {
		t.Fatalf("events lost: flushes=%d drifts=%d", inner.flushes, inner.drifts)
	}
}

func TestFullQueueDropsInsteadOfBlocking(t *testing.T) {
	block := make(chan struct{})
	inner := &countingHooks{}
	h := New(inner, 1, 1)

	// occupy the single worker
	h.q <- func() { <-block }

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			h.BatchFlushed(1)
		}
		close(done)
	}()
	<-done // emits returned immediately; overflow was dropped

	close(block)
	h.Close()
}

func TestCloseIdempotent(t *testing.T) {
	h := New(&countingHooks{}, 1, 8)
	h.Close()
	h.Close()
}
