package feedsync

import (
	"strconv"
	"strings"

	"github.com/unkn0wn-root/feedsync/internal/keyhash"
)

// Store is the cache-view storage boundary: a keyed, SWR-style store owned by
// the presentation layer. Values are untyped because upstream producers are
// not under the engine's control; all shape defense happens in one
// normalization step (NormalizePages) rather than in every updater.
//
// Write applies update to the current value (nil if absent) and stores the
// result. revalidate=false means "trust the in-memory result, do not
// refetch". Implementations must be safe for concurrent use.
type Store interface {
	Read(key string) (any, bool)
	Write(key string, update func(old any) any, revalidate bool)
	Delete(key string)
	// Keys returns every key beginning with prefix. Prefix membership defines
	// view-family ownership for bulk traversal and invalidation.
	Keys(prefix string) []string
}

// View family prefixes. Any key starting with one of these belongs to that
// family.
const (
	FamilyFeed       = "feed"
	FamilyDetail     = "detail"
	FamilyProfile    = "profile"
	FamilySearch     = "search"
	FamilyCollection = "collection"
)

// Guest is the actor sentinel used in keys when no actor is signed in.
const Guest = "guest"

const keySep = ":"

// FeedKey keys one home-feed page for an actor.
func FeedKey(page int, actor string) string {
	return FamilyFeed + keySep + strconv.Itoa(page) + keySep + orGuest(actor)
}

// DetailKey keys the singleton detail view of an item.
func DetailKey(id string) string {
	return FamilyDetail + keySep + CanonicalID(id)
}

// ProfileKey keys one page of an owner's own-content list as seen by actor.
func ProfileKey(owner string, page int, actor string) string {
	return FamilyProfile + keySep + CanonicalID(owner) + keySep + strconv.Itoa(page) + keySep + orGuest(actor)
}

// SearchKey keys one result page for a query. The query is hashed so free
// text never leaks into the keyspace.
func SearchKey(query string, page int, actor string) string {
	return FamilySearch + keySep + keyhash.Sum(query) + keySep + strconv.Itoa(page) + keySep + orGuest(actor)
}

// CollectionKey keys one page of an owner's recipe book as seen by actor.
func CollectionKey(owner string, page int, actor string) string {
	return FamilyCollection + keySep + CanonicalID(owner) + keySep + strconv.Itoa(page) + keySep + orGuest(actor)
}

func orGuest(actor string) string {
	if a := CanonicalID(actor); a != "" {
		return a
	}
	return Guest
}

// keyScope extracts the scope segment (owner or query hash) from a paginated
// key of the form <family>:<scope>:<page>:<actor>. Empty for malformed keys.
func keyScope(key string) string {
	parts := strings.Split(key, keySep)
	if len(parts) < 4 {
		return ""
	}
	return parts[1]
}

// keyPage extracts the zero-based page index from a paginated key; the scoped
// families carry it in the third segment, the feed in the second.
func keyPage(key string) (int, bool) {
	parts := strings.Split(key, keySep)
	var raw string
	switch {
	case len(parts) == 3 && parts[0] == FamilyFeed:
		raw = parts[1]
	case len(parts) >= 4:
		raw = parts[2]
	default:
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// keyActor extracts the actor segment from a paginated key.
func keyActor(key string) string {
	parts := strings.Split(key, keySep)
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-1]
}
