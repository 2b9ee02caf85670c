package feedsync

// Hooks are lightweight callbacks for high-signal engine events.
// Implementations MUST be cheap and non-blocking; the engine calls them on
// hot paths. Wrap with hooks/async to decouple slow sinks.
type Hooks interface {
	// One view family failed (panicked) while applying a patch. The other
	// families were still updated.
	ViewUpdateError(family, targetID string, err error)

	// A newly scheduled operation replaced or cancelled a pending one with
	// the same dedup key.
	OperationCoalesced(kind OpKind, targetID string)

	// A batch drained; entries is the number of backend calls issued.
	BatchFlushed(entries int)

	// A backend call failed and the operation was rolled back.
	SyncFailed(kind OpKind, targetID string, err error)

	// A rollback closure ran (sync failure or caller-invoked).
	RollbackApplied(kind OpKind, targetID string)

	// Reconciliation found drift and replayed a correction.
	DriftCorrected(targetID string)

	// A reconciliation read failed and was skipped.
	ReconcileSkipped(targetID string, err error)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) ViewUpdateError(string, string, error) {}
func (NopHooks) OperationCoalesced(OpKind, string)     {}
func (NopHooks) BatchFlushed(int)                      {}
func (NopHooks) SyncFailed(OpKind, string, error)      {}
func (NopHooks) RollbackApplied(OpKind, string)        {}
func (NopHooks) DriftCorrected(string)                 {}
func (NopHooks) ReconcileSkipped(string, error)        {}
