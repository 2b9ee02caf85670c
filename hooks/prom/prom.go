// Package promhook exports engine events as Prometheus counters. Labels are
// bounded (operation kind, view family) so cardinality stays flat regardless
// of content volume.
package promhook

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/feedsync"
)

type Hooks struct {
	viewUpdateErrors *prometheus.CounterVec
	coalesced        *prometheus.CounterVec
	batchEntries     prometheus.Counter
	batches          prometheus.Counter
	syncFailures     *prometheus.CounterVec
	rollbacks        *prometheus.CounterVec
	driftCorrections prometheus.Counter
	reconcileSkips   prometheus.Counter
}

var _ feedsync.Hooks = (*Hooks)(nil)

// New builds the hook set and registers it with reg (use
// prometheus.DefaultRegisterer for the global registry).
func New(reg prometheus.Registerer) *Hooks {
	h := &Hooks{
		viewUpdateErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedsync_view_update_errors_total",
			Help: "View-family apply failures contained by the engine",
		}, []string{"family"}),
		coalesced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedsync_operations_coalesced_total",
			Help: "Operations replaced or cancelled by the dedup window",
		}, []string{"kind"}),
		batchEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedsync_batch_entries_total",
			Help: "Backend calls issued across all flushed batches",
		}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedsync_batches_total",
			Help: "Batch flushes",
		}),
		syncFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedsync_sync_failures_total",
			Help: "Backend calls that failed and triggered a rollback",
		}, []string{"kind"}),
		rollbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedsync_rollbacks_total",
			Help: "Rollback closures executed",
		}, []string{"kind"}),
		driftCorrections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedsync_drift_corrections_total",
			Help: "Reconciliation passes that replayed a correction",
		}),
		reconcileSkips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedsync_reconcile_skips_total",
			Help: "Reconciliation reads that failed and were skipped",
		}),
	}
	reg.MustRegister(
		h.viewUpdateErrors, h.coalesced, h.batchEntries, h.batches,
		h.syncFailures, h.rollbacks, h.driftCorrections, h.reconcileSkips,
	)
	return h
}

func (h *Hooks) ViewUpdateError(family, _ string, _ error) {
	h.viewUpdateErrors.WithLabelValues(family).Inc()
}
func (h *Hooks) OperationCoalesced(k feedsync.OpKind, _ string) {
	h.coalesced.WithLabelValues(k.String()).Inc()
}
func (h *Hooks) BatchFlushed(n int) {
	h.batches.Inc()
	h.batchEntries.Add(float64(n))
}
func (h *Hooks) SyncFailed(k feedsync.OpKind, _ string, _ error) {
	h.syncFailures.WithLabelValues(k.String()).Inc()
}
func (h *Hooks) RollbackApplied(k feedsync.OpKind, _ string) {
	h.rollbacks.WithLabelValues(k.String()).Inc()
}
func (h *Hooks) DriftCorrected(string)          { h.driftCorrections.Inc() }
func (h *Hooks) ReconcileSkipped(string, error) { h.reconcileSkips.Inc() }
