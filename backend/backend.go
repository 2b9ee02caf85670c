// Package backend defines the persistence boundary used by feedsync.
//
// The engine needs exactly three things from the storage service: an
// upsert-on-conflict write and a delete-by-composite-key write per
// relationship table (likes, bookmarks, follows), and an aggregate read for
// reconciliation. Implementations must be safe for concurrent use; the
// engine fans batch entries out in parallel.
package backend

import "context"

// Relation names a relationship table.
type Relation string

const (
	Likes     Relation = "likes"
	Bookmarks Relation = "bookmarks"
	Follows   Relation = "follows"
)

// State is the authoritative snapshot of one item as seen by one actor, read
// during reconciliation.
type State struct {
	LikesCount     int
	CommentsCount  int
	BookmarksCount int
	Liked          bool
	Bookmarked     bool
	OwnerFollowed  bool
}

// Backend is a minimal row-level store for actor-entity relationships.
type Backend interface {
	// Upsert inserts the (targetID, actorID) row if absent. Inserting an
	// existing row is a no-op, not an error.
	Upsert(ctx context.Context, rel Relation, targetID, actorID string) error

	// Remove deletes the (targetID, actorID) row and reports rows affected.
	// Zero rows (already absent) is success; callers rely on that for
	// idempotent un-toggle.
	Remove(ctx context.Context, rel Relation, targetID, actorID string) (int64, error)

	// State reads authoritative counts and actor flags for one item.
	// ownerID is the item's owner (the follow relation is keyed by user).
	State(ctx context.Context, targetID, ownerID, actorID string) (State, error)

	// Close releases resources.
	Close(ctx context.Context) error
}
