package feedsync

import (
	"context"

	be "github.com/unkn0wn-root/feedsync/backend"
)

// executeBatch fans drained entries out to the backend concurrently. A second
// dedup stage keeps one call per (kind, target) ignoring actor, since only
// one persistence call per entity per kind is meaningful per flush. Each
// entry's failure is handled independently: rollback, hooks, and the external
// notification callback — never an abort of the rest of the batch.
func (e *engine) executeBatch(entries []pending) {
	if len(entries) == 0 {
		return
	}

	byTarget := make(map[string]int, len(entries))
	out := make([]pending, 0, len(entries))
	for _, en := range entries {
		k := en.op.Kind.String() + "|" + en.op.TargetID
		if i, ok := byTarget[k]; ok {
			out[i] = en // last write wins
			continue
		}
		byTarget[k] = len(out)
		out = append(out, en)
	}

	e.hooks.BatchFlushed(len(out))
	for _, en := range out {
		e.execWg.Add(1)
		go func(en pending) {
			defer e.execWg.Done()
			if err := e.execute(e.baseCtx, en.op); err != nil {
				en.rollback()
				serr := &SyncError{Kind: en.op.Kind, TargetID: en.op.TargetID, Err: err}
				e.hooks.SyncFailed(en.op.Kind, en.op.TargetID, err)
				e.log.Warn("sync failed; rolled back", Fields{
					"kind": en.op.Kind.String(), "target": en.op.TargetID, "err": err,
				})
				if e.onSyncError != nil {
					e.onSyncError(en.op, serr)
				}
				return
			}
			e.scheduleVerify(en.op)
		}(en)
	}
}

func (e *engine) execute(ctx context.Context, op Operation) error {
	switch op.Kind {
	case OpLike:
		return e.writeRelation(ctx, be.Likes, op)
	case OpBookmark:
		return e.writeRelation(ctx, be.Bookmarks, op)
	case OpFollow:
		return e.writeRelation(ctx, be.Follows, op)
	case OpComment:
		// authoritative comment writes belong to the comment form's own path
		if e.commentSink == nil {
			return nil
		}
		return e.commentSink(ctx, op)
	default:
		return nil
	}
}

func (e *engine) writeRelation(ctx context.Context, rel be.Relation, op Operation) error {
	actor := orGuest(op.ActorID)
	if op.Delta > 0 {
		return e.backend.Upsert(ctx, rel, op.TargetID, actor)
	}
	// zero rows affected means the relationship was already absent; that is
	// success, not error
	_, err := e.backend.Remove(ctx, rel, op.TargetID, actor)
	return err
}
