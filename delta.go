package feedsync

// ComputePatch maps an operation and the prior item snapshot to a partial
// item patch. Pure and total: malformed input degrades to an empty patch,
// missing counters behave as zero, missing booleans as false.
//
// Toggle kinds (like/bookmark/follow) interpret Delta as the target boolean
// state. The counter moves only when the boolean actually flips, which keeps
// duplicate deliveries from double counting. Comment deltas are genuinely
// additive since an actor can hold several comments at once.
func ComputePatch(op Operation, prior Item) Patch {
	switch op.Kind {
	case OpLike:
		target := op.Delta > 0
		p := Patch{Liked: ptr(target)}
		if prior.Liked != target {
			p.LikesCount = ptr(clampCount(prior.LikesCount + op.Delta))
		}
		return p

	case OpBookmark:
		target := op.Delta > 0
		p := Patch{Bookmarked: ptr(target)}
		if prior.Bookmarked != target {
			p.BookmarksCount = ptr(clampCount(prior.BookmarksCount + op.Delta))
		}
		return p

	case OpFollow:
		// No follower counter lives on Item; only the flag moves.
		return Patch{OwnerFollowed: ptr(op.Delta > 0)}

	case OpComment:
		return Patch{CommentsCount: ptr(clampCount(prior.CommentsCount + op.Delta))}

	case OpUpdate:
		if op.Fields == nil {
			return Patch{}
		}
		p := *op.Fields
		if len(p.ImageURLs) == 0 {
			// partial metadata edit; keep prior media
			p.ImageURLs = nil
		}
		return p

	case OpCorrect:
		if op.Item == nil {
			return Patch{}
		}
		// Authoritative snapshot: counters and flags are absolute.
		auth := op.Item
		return Patch{
			LikesCount:     ptr(clampCount(auth.LikesCount)),
			CommentsCount:  ptr(clampCount(auth.CommentsCount)),
			BookmarksCount: ptr(clampCount(auth.BookmarksCount)),
			Liked:          ptr(auth.Liked),
			Bookmarked:     ptr(auth.Bookmarked),
			OwnerFollowed:  ptr(auth.OwnerFollowed),
		}

	default:
		// create/delete are structural; the updaters insert or remove whole
		// items and no field patch applies.
		return Patch{}
	}
}

// inverse builds the rollback operation for op given the snapshot captured
// before the optimistic apply. Counter kinds negate Delta; create and delete
// invert into each other with the captured payload; update inverts into an
// update restoring the prior values of exactly the fields it touched.
// Corrections are never rolled back.
func inverse(op Operation, prior Item) Operation {
	switch op.Kind {
	case OpLike, OpBookmark, OpFollow, OpComment:
		inv := op
		inv.Delta = -op.Delta
		return inv

	case OpCreate:
		inv := Operation{Kind: OpDelete, TargetID: op.TargetID, ActorID: op.ActorID}
		if op.Item != nil {
			inv.TargetID = CanonicalID(op.Item.ID)
			inv.Item = op.Item
		}
		return inv

	case OpDelete:
		restored := prior
		return Operation{Kind: OpCreate, TargetID: op.TargetID, ActorID: op.ActorID, Item: &restored}

	case OpUpdate:
		inv := Operation{Kind: OpUpdate, TargetID: op.TargetID, ActorID: op.ActorID, Fields: &Patch{}}
		if op.Fields == nil {
			return inv
		}
		if op.Fields.Title != nil {
			inv.Fields.Title = ptr(prior.Title)
		}
		if op.Fields.Body != nil {
			inv.Fields.Body = ptr(prior.Body)
		}
		if len(op.Fields.ImageURLs) > 0 {
			inv.Fields.ImageURLs = prior.ImageURLs
		}
		if op.Fields.ThumbnailIndex != nil {
			inv.Fields.ThumbnailIndex = ptr(prior.ThumbnailIndex)
		}
		return inv

	default:
		return Operation{Kind: OpCorrect, TargetID: op.TargetID, ActorID: op.ActorID}
	}
}
