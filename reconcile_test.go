package feedsync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	be "github.com/unkn0wn-root/feedsync/backend"
)

// capturedTrigger records scheduled verifications for the test to fire (or
// cancel) explicitly.
type capturedTrigger struct {
	mu      sync.Mutex
	fns     []func()
	cancels int
}

func (c *capturedTrigger) Schedule(_ time.Duration, fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fns = append(c.fns, fn)
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.cancels++
	}
}

func (c *capturedTrigger) fireAll() {
	c.mu.Lock()
	fns := c.fns
	c.fns = nil
	c.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// ==============================
// Drift correction
// ==============================

// TestDriftCorrection: when the authoritative read disagrees with the cached
// counters, every view converges to the server values.
func TestDriftCorrection(t *testing.T) {
	eng, s, bk, h := newTestEngine(t, func(o *Options) {
		o.Trigger = inlineTrigger{}
	})
	// server says 10 likes and not liked; another device unliked meanwhile
	bk.state = be.State{LikesCount: 10, Liked: false}
	seedItem(s, Item{ID: "i1", OwnerID: "u1", LikesCount: 3}, "a1")

	eng.Apply(Operation{Kind: OpLike, TargetID: "i1", ActorID: "a1", Delta: +1})
	eng.Flush(context.Background())

	for _, c := range gather(s, "i1") {
		if c.LikesCount != 10 || c.Liked {
			t.Fatalf("view did not converge to authoritative state: %+v", c)
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.drifts != 1 {
		t.Fatalf("one drift correction expected, got %d", h.drifts)
	}
}

func TestNoDriftNoCorrection(t *testing.T) {
	eng, s, bk, h := newTestEngine(t, func(o *Options) {
		o.Trigger = inlineTrigger{}
	})
	// server already agrees with the optimistic outcome
	bk.state = be.State{LikesCount: 4, Liked: true}
	seedItem(s, Item{ID: "i1", OwnerID: "u1", LikesCount: 3}, "a1")

	eng.Apply(Operation{Kind: OpLike, TargetID: "i1", ActorID: "a1", Delta: +1})
	eng.Flush(context.Background())

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.drifts != 0 {
		t.Fatalf("matching state must not be corrected, got %d corrections", h.drifts)
	}
	bk.mu.Lock()
	defer bk.mu.Unlock()
	if bk.stateCalls != 1 {
		t.Fatalf("exactly one verification read expected, got %d", bk.stateCalls)
	}
	if det, _ := asItem(mustRead(t, s, DetailKey("i1"))); det.LikesCount != 4 || !det.Liked {
		t.Fatalf("cache should keep the optimistic values: %+v", det)
	}
}

// TestReconcileReadErrorSkipped: a failed authoritative read leaves the
// optimistic state in place and reports the skip.
func TestReconcileReadErrorSkipped(t *testing.T) {
	eng, s, bk, h := newTestEngine(t, func(o *Options) {
		o.Trigger = inlineTrigger{}
	})
	bk.stateErr = errors.New("read timeout")
	seedItem(s, Item{ID: "i1", OwnerID: "u1", LikesCount: 3}, "a1")

	eng.Apply(Operation{Kind: OpLike, TargetID: "i1", ActorID: "a1", Delta: +1})
	eng.Flush(context.Background())

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.skips != 1 || h.drifts != 0 {
		t.Fatalf("skips=%d drifts=%d", h.skips, h.drifts)
	}
	if det, _ := asItem(mustRead(t, s, DetailKey("i1"))); det.LikesCount != 4 || !det.Liked {
		t.Fatalf("failed read must not disturb the cache: %+v", det)
	}
}

// TestVerifySkipsEvictedTarget: if the item fell out of every view before the
// delayed check fires, there is nothing to correct and no read is issued.
func TestVerifySkipsEvictedTarget(t *testing.T) {
	trig := &capturedTrigger{}
	eng, s, bk, h := newTestEngine(t, func(o *Options) {
		o.Trigger = trig
	})
	bk.state = be.State{LikesCount: 99}
	seedItem(s, Item{ID: "i1", OwnerID: "u1"}, "a1")

	eng.Apply(Operation{Kind: OpLike, TargetID: "i1", ActorID: "a1", Delta: +1})
	eng.Flush(context.Background())

	// evict everything, then let the verification fire
	for _, fam := range []string{FamilyFeed, FamilyDetail, FamilyProfile, FamilySearch, FamilyCollection} {
		for _, k := range s.Keys(fam + keySep) {
			s.Delete(k)
		}
	}
	trig.fireAll()

	bk.mu.Lock()
	defer bk.mu.Unlock()
	if bk.stateCalls != 0 {
		t.Fatalf("evicted target must not be read back, got %d reads", bk.stateCalls)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.drifts != 0 {
		t.Fatalf("no correction expected, got %d", h.drifts)
	}
}

// ==============================
// Timer lifecycle
// ==============================

func TestCloseCancelsVerifyTimers(t *testing.T) {
	trig := &capturedTrigger{}
	s := newMemStore()
	bk := &memBackend{state: be.State{LikesCount: 50}}
	eng, err := New(Options{Views: s, Backend: bk, Trigger: trig})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	seedItem(s, Item{ID: "i1", OwnerID: "u1"}, "a1")

	eng.Apply(Operation{Kind: OpLike, TargetID: "i1", ActorID: "a1", Delta: +1})
	eng.Flush(context.Background())

	if err := eng.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	trig.mu.Lock()
	cancels := trig.cancels
	trig.mu.Unlock()
	if cancels != 1 {
		t.Fatalf("Close should cancel the outstanding verification, got %d cancels", cancels)
	}

	// a late fire after Close is inert
	trig.fireAll()
	bk.mu.Lock()
	defer bk.mu.Unlock()
	if bk.stateCalls != 0 {
		t.Fatalf("verification after Close must not run, got %d reads", bk.stateCalls)
	}
}

// ==============================
// Jitter
// ==============================

func TestJitteredBounds(t *testing.T) {
	base := 3 * time.Second
	lo := time.Duration(float64(base) * 0.8)
	hi := time.Duration(float64(base) * 1.2)
	for i := 0; i < 200; i++ {
		if d := jittered(base); d < lo || d > hi {
			t.Fatalf("jitter out of bounds: %v", d)
		}
	}
	if d := jittered(0); d != 0 {
		t.Fatalf("zero delay stays zero, got %v", d)
	}
}
