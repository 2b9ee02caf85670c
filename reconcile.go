package feedsync

import (
	"context"
	"math/rand"
	"time"
)

// Trigger schedules a deferred reconciliation pass. The default is
// timer-driven; swapping in an event-driven implementation (say, keyed to a
// realtime channel) requires no change to the reconciliation logic itself.
type Trigger interface {
	// Schedule runs fn once after d and returns a cancel func. Cancelling
	// after fn ran is a no-op.
	Schedule(d time.Duration, fn func()) (cancel func())
}

// TimerTrigger is the default Trigger, backed by time.AfterFunc.
type TimerTrigger struct{}

func (TimerTrigger) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// reconcileJitter spreads verify reads ±20% around the configured delay so a
// burst of settled batches does not produce a thundering herd of reads.
const reconcileJitter = 0.2

func jittered(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	f := 1 + (rand.Float64()*2-1)*reconcileJitter
	return time.Duration(float64(d) * f)
}

// scheduleVerify arms a one-shot verification for the entry a fixed (and
// jittered) delay after its backend call resolved. Outstanding timers are
// tracked so Close can cancel them.
func (e *engine) scheduleVerify(op Operation) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	id := e.timerSeq
	e.timerSeq++
	e.timers[id] = nil // reserved; cancel filled in below
	e.mu.Unlock()

	cancel := e.trigger.Schedule(jittered(e.reconcileDelay), func() {
		if !e.takeTimer(id) {
			return
		}
		e.verify(op)
	})

	e.mu.Lock()
	if _, ok := e.timers[id]; ok {
		e.timers[id] = cancel
	}
	e.mu.Unlock()
}

// takeTimer claims a reserved timer slot; false means Close got there first.
func (e *engine) takeTimer(id uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timers == nil {
		return false
	}
	if _, ok := e.timers[id]; !ok {
		return false
	}
	delete(e.timers, id)
	return true
}

// verify re-reads authoritative state for the entry's target and, when the
// cached copy has drifted (rapid toggles past the dedup window, another
// device), replays a correction through the optimistic path. The correction
// bypasses the batcher: it is already authoritative and must not be
// coalesced away. A failed read is logged and skipped; the next interaction
// with the entity re-triggers verification naturally.
func (e *engine) verify(op Operation) {
	cur, found := e.safeLookup(op)
	itemID := CanonicalID(cur.ID)
	if !found || itemID == "" {
		// nothing cached for this target anymore; no copy to correct
		return
	}

	ctx, cancel := context.WithTimeout(e.baseCtx, reconcileReadTimeout)
	defer cancel()

	st, err := e.backend.State(ctx, itemID, CanonicalID(cur.OwnerID), orGuest(op.ActorID))
	if err != nil {
		e.hooks.ReconcileSkipped(itemID, err)
		e.log.Debug("reconcile read failed; skipped", Fields{"target": itemID, "err": err})
		return
	}

	if cur.LikesCount == st.LikesCount &&
		cur.CommentsCount == st.CommentsCount &&
		cur.BookmarksCount == st.BookmarksCount &&
		cur.Liked == st.Liked &&
		cur.Bookmarked == st.Bookmarked &&
		cur.OwnerFollowed == st.OwnerFollowed {
		return
	}

	auth := cur
	auth.LikesCount = st.LikesCount
	auth.CommentsCount = st.CommentsCount
	auth.BookmarksCount = st.BookmarksCount
	auth.Liked = st.Liked
	auth.Bookmarked = st.Bookmarked
	auth.OwnerFollowed = st.OwnerFollowed

	correction := Operation{
		Kind:     OpCorrect,
		TargetID: itemID,
		ActorID:  op.ActorID,
		Item:     &auth,
	}
	e.fanOut(correction, ComputePatch(correction, cur), cur)
	e.hooks.DriftCorrected(itemID)
	e.log.Debug("drift corrected", Fields{"target": itemID})
}
