package feedsync

import (
	"strings"
	"time"
)

// ItemKind distinguishes content types. It affects no engine logic and is
// carried through unchanged.
type ItemKind string

const (
	KindRecipe ItemKind = "recipe"
	KindPost   ItemKind = "post"
)

// Item is the cached representation of a content entity. Copies of the same
// logical Item may live in up to five views at once; the engine keeps the
// mutable fields convergent while each view keeps its own pagination.
//
// Counter and boolean fields are actor-relative where noted and default to
// zero/false for guests.
type Item struct {
	ID             string    `json:"id" msgpack:"id"`
	Kind           ItemKind  `json:"kind" msgpack:"kind"`
	OwnerID        string    `json:"owner_id" msgpack:"owner_id"`
	Title          string    `json:"title" msgpack:"title"`
	Body           string    `json:"body,omitempty" msgpack:"body"`
	ImageURLs      []string  `json:"image_urls,omitempty" msgpack:"image_urls"`
	ThumbnailIndex int       `json:"thumbnail_index" msgpack:"thumbnail_index"`
	LikesCount     int       `json:"likes_count" msgpack:"likes_count"`
	CommentsCount  int       `json:"comments_count" msgpack:"comments_count"`
	BookmarksCount int       `json:"bookmarks_count" msgpack:"bookmarks_count"`
	Liked          bool      `json:"liked" msgpack:"liked"`           // viewing actor liked this item
	Bookmarked     bool      `json:"bookmarked" msgpack:"bookmarked"` // viewing actor bookmarked this item
	OwnerFollowed  bool      `json:"owner_followed" msgpack:"owner_followed"`
	CreatedAt      time.Time `json:"created_at" msgpack:"created_at"`
}

// Page is one page of a paginated view. Paginated view values are []Page.
type Page []Item

// OpKind tags an Operation. Corrections are a distinct kind rather than a
// flag on another kind so the batcher can route on the tag alone.
type OpKind uint8

const (
	OpLike OpKind = iota + 1
	OpBookmark
	OpFollow
	OpComment
	OpCreate
	OpUpdate
	OpDelete
	OpCorrect
)

func (k OpKind) String() string {
	switch k {
	case OpLike:
		return "like"
	case OpBookmark:
		return "bookmark"
	case OpFollow:
		return "follow"
	case OpComment:
		return "comment"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpCorrect:
		return "correct"
	default:
		return "unknown"
	}
}

// toggle reports whether the kind treats Delta as an absolute boolean state
// (idempotent) rather than a true increment.
func (k OpKind) toggle() bool {
	return k == OpLike || k == OpBookmark || k == OpFollow
}

// syncable reports whether the kind produces a persistence call of its own.
// Create/update/delete rows are written by the outer form layer; the engine
// only propagates them through the cache views.
func (k OpKind) syncable() bool {
	return k.toggle() || k == OpComment
}

// Operation is the unit of intent.
//
// For like/bookmark/follow, Delta > 0 means "actor's state becomes true" and
// Delta < 0 means it becomes false; it is not a raw increment. For comment,
// Delta is a true increment in {+1, -1}. TargetID is the item id, except for
// follow where it is the followed user's id. Item carries the full entity for
// create and the authoritative snapshot for correct. Fields carries the
// partial edit for update.
type Operation struct {
	Kind     OpKind
	TargetID string
	ActorID  string
	Delta    int
	Item     *Item
	Fields   *Patch
}

// Patch is a partial Item. Nil pointers leave the field untouched. A nil or
// empty ImageURLs never clears prior media (partial metadata edits must not
// erase images).
type Patch struct {
	Title          *string
	Body           *string
	ImageURLs      []string
	ThumbnailIndex *int
	LikesCount     *int
	CommentsCount  *int
	BookmarksCount *int
	Liked          *bool
	Bookmarked     *bool
	OwnerFollowed  *bool
}

// Zero reports whether applying the patch would change nothing.
func (p Patch) Zero() bool {
	return p.Title == nil && p.Body == nil && len(p.ImageURLs) == 0 &&
		p.ThumbnailIndex == nil && p.LikesCount == nil && p.CommentsCount == nil &&
		p.BookmarksCount == nil && p.Liked == nil && p.Bookmarked == nil &&
		p.OwnerFollowed == nil
}

// applyTo merges the patch into a copy of it. Unrelated fields, image order
// included, are preserved byte for byte.
func (p Patch) applyTo(it Item) Item {
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Body != nil {
		it.Body = *p.Body
	}
	if len(p.ImageURLs) > 0 {
		it.ImageURLs = p.ImageURLs
	}
	if p.ThumbnailIndex != nil {
		it.ThumbnailIndex = *p.ThumbnailIndex
	}
	if p.LikesCount != nil {
		it.LikesCount = clampCount(*p.LikesCount)
	}
	if p.CommentsCount != nil {
		it.CommentsCount = clampCount(*p.CommentsCount)
	}
	if p.BookmarksCount != nil {
		it.BookmarksCount = clampCount(*p.BookmarksCount)
	}
	if p.Liked != nil {
		it.Liked = *p.Liked
	}
	if p.Bookmarked != nil {
		it.Bookmarked = *p.Bookmarked
	}
	if p.OwnerFollowed != nil {
		it.OwnerFollowed = *p.OwnerFollowed
	}
	return it
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// CanonicalID normalizes an identifier once at the system boundary so the
// updaters can use plain equality. Upstream producers are inconsistent about
// surrounding whitespace and identifier provenance.
func CanonicalID(id string) string {
	return strings.TrimSpace(id)
}

// matches reports whether it is the target of op. Follow operations target a
// user, so they match through OwnerID; everything else matches the item id.
func matches(it Item, op Operation) bool {
	if op.Kind == OpFollow {
		return CanonicalID(it.OwnerID) == op.TargetID
	}
	return CanonicalID(it.ID) == op.TargetID
}

func ptr[T any](v T) *T { return &v }
