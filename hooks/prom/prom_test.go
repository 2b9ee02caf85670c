package promhook

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/unkn0wn-root/feedsync"
)

func TestCountersIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg)

	h.ViewUpdateError("search", "i1", errors.New("boom"))
	h.OperationCoalesced(feedsync.OpLike, "i1")
	h.OperationCoalesced(feedsync.OpLike, "i2")
	h.BatchFlushed(3)
	h.SyncFailed(feedsync.OpBookmark, "i1", errors.New("down"))
	h.RollbackApplied(feedsync.OpBookmark, "i1")
	h.DriftCorrected("i1")
	h.ReconcileSkipped("i1", errors.New("timeout"))

	if got := testutil.ToFloat64(h.viewUpdateErrors.WithLabelValues("search")); got != 1 {
		t.Fatalf("view errors: %v", got)
	}
	if got := testutil.ToFloat64(h.coalesced.WithLabelValues("like")); got != 2 {
		t.Fatalf("coalesced: %v", got)
	}
	if got := testutil.ToFloat64(h.batches); got != 1 {
		t.Fatalf("batches: %v", got)
	}
	if got := testutil.ToFloat64(h.batchEntries); got != 3 {
		t.Fatalf("batch entries: %v", got)
	}
	if got := testutil.ToFloat64(h.syncFailures.WithLabelValues("bookmark")); got != 1 {
		t.Fatalf("sync failures: %v", got)
	}
	if got := testutil.ToFloat64(h.rollbacks.WithLabelValues("bookmark")); got != 1 {
		t.Fatalf("rollbacks: %v", got)
	}
	if got := testutil.ToFloat64(h.driftCorrections); got != 1 {
		t.Fatalf("drift corrections: %v", got)
	}
	if got := testutil.ToFloat64(h.reconcileSkips); got != 1 {
		t.Fatalf("reconcile skips: %v", got)
	}
}

func TestRegistersUnderExpectedNames(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg)
	h.BatchFlushed(1)

	n, err := testutil.GatherAndCount(reg,
		"feedsync_batches_total", "feedsync_batch_entries_total",
	)
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected both batch metrics registered, got %d", n)
	}
}
