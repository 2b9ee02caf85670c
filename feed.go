package feedsync

// feedUpdater maintains the paginated home feed. The feed is unscoped: every
// cached feed page is patched, new items land at the head of page zero.
type feedUpdater struct{}

func (feedUpdater) family() string { return FamilyFeed }

func (feedUpdater) apply(s Store, op Operation, patch Patch, prior Item) {
	keys := s.Keys(FamilyFeed + keySep)
	switch op.Kind {
	case OpCreate:
		if op.Item == nil {
			return
		}
		it := *op.Item
		for _, k := range keys {
			if page, ok := keyPage(k); !ok || page != 0 {
				continue
			}
			s.Write(k, func(old any) any {
				return unshift(NormalizePages(old), it)
			}, false)
		}
	case OpDelete:
		for _, k := range keys {
			s.Write(k, func(old any) any {
				return removeFromPages(NormalizePages(old), op)
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
