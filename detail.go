package feedsync

// detailUpdater maintains singleton item-detail entries. Follow operations
// touch every cached detail whose owner matches, so the family is scanned by
// prefix rather than addressed by a single key.
type detailUpdater struct{}

func (detailUpdater) family() string { return FamilyDetail }

func (detailUpdater) apply(s Store, op Operation, patch Patch, prior Item) {
	switch op.Kind {
	case OpCreate:
		if op.Item == nil {
			return
		}
		it := *op.Item
		s.Write(DetailKey(it.ID), func(any) any { return it }, false)
	case OpDelete:
		s.Delete(DetailKey(op.TargetID))
	default:
		if patch.Zero() {
			return
		}
		for _, k := range s.Keys(FamilyDetail + keySep) {
			v, ok := s.Read(k)
			if !ok {
				continue
			}
			it, ok := asItem(v)
			if !ok || !matches(it, op) {
				continue
			}
			s.Write(k, func(old any) any {
				cur, ok := asItem(old)
				if !ok || !matches(cur, op) {
					return old
				}
				return patch.applyTo(cur)
			}, false)
		}
	}
}
