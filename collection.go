package feedsync

// collectionUpdater maintains recipe-book pages. The key scope is the
// collector: a bookmark by the collection's owner adds or removes the item in
// their own collection, while counter patches flow to every cached copy.
type collectionUpdater struct{}

func (collectionUpdater) family() string { return FamilyCollection }

func (collectionUpdater) apply(s Store, op Operation, patch Patch, prior Item) {
	keys := s.Keys(FamilyCollection + keySep)
	switch op.Kind {
	case OpDelete:
		for _, k := range keys {
			s.Write(k, func(old any) any {
				return removeFromPages(NormalizePages(old), op)
			}, false)
		}
	case OpCreate:
		// new content is never auto-collected
	case OpBookmark:
		actor := orGuest(op.ActorID)
		for _, k := range keys {
			owned := keyScope(k) == actor && actor != Guest
			s.Write(k, func(old any) any {
				pages := patchPages(NormalizePages(old), op, patch)
				if !owned {
					return pages
				}
				if op.Delta < 0 {
					return removeFromPages(pages, op)
				}
				if page, ok := keyPage(k); ok && page == 0 &&
					prior.ID != "" && !containsItem(pages, op.TargetID) {
					return unshift(pages, patch.applyTo(prior))
				}
				return pages
			}, false)
		}
	default:
		if patch.Zero() {
			return
		}
		for _, k := range keys {
			s.Write(k, func(old any) any {
				return patchPages(NormalizePages(old), op, patch)
			}, false)
		}
	}
}
