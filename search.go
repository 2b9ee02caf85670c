package feedsync

// searchUpdater maintains search-result pages. Result sets are
// query-defined, so the updater patches and removes but never inserts.
type searchUpdater struct{}

func (searchUpdater) family() string { return FamilySearch }

func (searchUpdater) apply(s Store, op Operation, patch Patch, prior Item) {
	switch op.Kind {
	case OpCreate:
		// membership in a result set is the server's call
	case OpDelete:
		for _, k := range s.Keys(FamilySearch + keySep) {
			s.Write(k, func(old any) any {
				return removeFromPages(NormalizePages(old), op)
			}, false)
		}
	default:
		if patch.Zero() {
			return
		}
		for _, k := range s.Keys(FamilySearch + keySep) {
			s.Write(k, func(old any) any {
				return patchPages(NormalizePages(old), op, patch)
			}, false)
		}
	}
}
