package feedsync

// profileUpdater maintains per-owner item lists. The key scope is the profile
// owner: an item whose OwnerID differs from the scope is left untouched even
// when its id matches, which keeps one user's own-content view from being
// contaminated by another's.
type profileUpdater struct{}

func (profileUpdater) family() string { return FamilyProfile }

func (profileUpdater) apply(s Store, op Operation, patch Patch, prior Item) {
	keys := s.Keys(FamilyProfile + keySep)
	switch op.Kind {
	case OpCreate:
		if op.Item == nil {
			return
		}
		it := *op.Item
		owner := CanonicalID(it.OwnerID)
		for _, k := range keys {
			if keyScope(k) != owner {
				continue
			}
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
			scope := keyScope(k)
			s.Write(k, func(old any) any {
				pages := NormalizePages(old)
				out := make([]Page, len(pages))
				for pi, pg := range pages {
					np := make(Page, len(pg))
					copy(np, pg)
					for ii, it := range np {
						if CanonicalID(it.OwnerID) != scope {
							continue
						}
						if matches(it, op) {
							np[ii] = patch.applyTo(it)
						}
					}
					out[pi] = np
				}
				return out
			}, false)
		}
	}
}
