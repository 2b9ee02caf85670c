package feedsync

// NormalizePages coerces a cached paginated value into []Page. Upstream cache
// producers have historically emitted malformed shapes (a bare item where a
// page belongs, interface slices from decoded JSON, nil holes), so every
// paginated updater runs its value through here before touching it.
//
// Repair rules: a bare Item (or *Item) becomes a single-element page, a bare
// Page is wrapped, unrecognized junk becomes an empty page. A well-formed
// page is never discarded.
func NormalizePages(v any) []Page {
	switch pv := v.(type) {
	case nil:
		return nil
	case []Page:
		out := make([]Page, len(pv))
		for i, pg := range pv {
			out[i] = normalizePage(pg)
		}
		return out
	case Page:
		return []Page{normalizePage(pv)}
	case []Item:
		return []Page{normalizePage(Page(pv))}
	case Item:
		return []Page{{pv}}
	case *Item:
		if pv == nil {
			return nil
		}
		return []Page{{*pv}}
	case []any:
		out := make([]Page, 0, len(pv))
		for _, el := range pv {
			out = append(out, coercePage(el))
		}
		return out
	default:
		return nil
	}
}

func normalizePage(pg Page) Page {
	if pg == nil {
		return Page{}
	}
	return pg
}

func coercePage(el any) Page {
	switch ev := el.(type) {
	case Page:
		return normalizePage(ev)
	case []Item:
		return normalizePage(Page(ev))
	case Item:
		return Page{ev}
	case *Item:
		if ev == nil {
			return Page{}
		}
		return Page{*ev}
	case []any:
		pg := make(Page, 0, len(ev))
		for _, iv := range ev {
			if it, ok := asItem(iv); ok {
				pg = append(pg, it)
			}
		}
		return pg
	default:
		return Page{}
	}
}

// asItem extracts an Item from a cached singleton value.
func asItem(v any) (Item, bool) {
	switch iv := v.(type) {
	case Item:
		return iv, true
	case *Item:
		if iv == nil {
			return Item{}, false
		}
		return *iv, true
	default:
		return Item{}, false
	}
}
