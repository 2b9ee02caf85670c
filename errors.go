package feedsync

import "fmt"

// SyncError wraps a persistence failure for one batch entry. The engine has
// already rolled the operation back by the time OnSyncError sees it.
type SyncError struct {
	Kind     OpKind
	TargetID string
	Err      error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync %s %q failed: %v", e.Kind, e.TargetID, e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }
