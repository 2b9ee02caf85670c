// Package feedsync keeps independently keyed client-side cache views of feed
// content (recipes and posts) mutually consistent across user mutations. A
// mutation is applied optimistically to every view in the same call, batched
// and deduplicated before it reaches the persistence backend, rolled back
// deterministically on failure, and reconciled against authoritative state a
// few seconds after the batch settles.
//
// Components:
//   - ComputePatch: pure delta calculator mapping (operation, prior item) to a
//     partial item patch.
//   - view updaters: one per view family (feed, detail, profile, search,
//     collection). Each knows its own key shape and scoping rule.
//   - Engine: optimistic apply + rollback, dedup/batch scheduling, concurrent
//     server sync, delayed reconciliation.
//   - Store: the cache-view storage boundary (e.g. an SWR-style keyed store).
//   - backend.Backend: row-level persistence boundary (likes, bookmarks,
//     follows relationship tables).
//
// Keys:
//
//	feed:<page>:<actor>               - home feed pages
//	detail:<id>                       - singleton item detail
//	profile:<owner>:<page>:<actor>    - a profile's own item pages
//	search:<qhash>:<page>:<actor>     - search result pages
//	collection:<owner>:<page>:<actor> - recipe book pages
//
// Flow:
//
//	rb := engine.Apply(op) // synchronous, all views patched before return
//	...
//	// flush fires after the batch window; on persistence failure the engine
//	// invokes rb and reports through Options.OnSyncError.
package feedsync
