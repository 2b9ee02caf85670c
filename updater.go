package feedsync

// updater applies one operation to one view family. Implementations are pure
// with respect to their own family: they read and write only keys under their
// prefix and have no side effects beyond the Store.
type updater interface {
	family() string
	apply(s Store, op Operation, patch Patch, prior Item)
}

// defaultUpdaters returns the five view families in apply order.
func defaultUpdaters() []updater {
	return []updater{
		feedUpdater{},
		detailUpdater{},
		profileUpdater{},
		searchUpdater{},
		collectionUpdater{},
	}
}

// patchPages maps the patch over every occurrence of the target in pages.
// The result shares nothing with the input: updaters are old-value-in,
// new-value-out, and the old value may outlive a failed store write.
func patchPages(pages []Page, op Operation, patch Patch) []Page {
	out := make([]Page, len(pages))
	for pi, pg := range pages {
		np := make(Page, len(pg))
		copy(np, pg)
		for ii, it := range np {
			if matches(it, op) {
				np[ii] = patch.applyTo(it)
			}
		}
		out[pi] = np
	}
	return out
}

// removeFromPages filters the target out of every page without touching the
// input. Pages keep their relative order; emptied pages are kept so
// pagination offsets stay stable.
func removeFromPages(pages []Page, op Operation) []Page {
	out := make([]Page, len(pages))
	for pi, pg := range pages {
		kept := make(Page, 0, len(pg))
		for _, it := range pg {
			if CanonicalID(it.ID) != op.TargetID {
				kept = append(kept, it)
			}
		}
		out[pi] = kept
	}
	return out
}

// unshift puts it at the head of the first page so new content surfaces at
// the most-recent position.
func unshift(pages []Page, it Item) []Page {
	if len(pages) == 0 {
		return []Page{{it}}
	}
	pages[0] = append(Page{it}, pages[0]...)
	return pages
}

func containsItem(pages []Page, id string) bool {
	for _, pg := range pages {
		for _, it := range pg {
			if CanonicalID(it.ID) == id {
				return true
			}
		}
	}
	return false
}
