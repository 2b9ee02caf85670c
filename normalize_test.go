package feedsync

import "testing"

func TestNormalizePagesWellFormed(t *testing.T) {
	in := []Page{
		{{ID: "a"}, {ID: "b"}},
		{{ID: "c"}},
	}
	out := NormalizePages(in)
	if len(out) != 2 || len(out[0]) != 2 || len(out[1]) != 1 {
		t.Fatalf("well-formed pages must survive intact: %+v", out)
	}
	if out[0][0].ID != "a" || out[1][0].ID != "c" {
		t.Fatalf("page contents reordered: %+v", out)
	}
}

func TestNormalizePagesWrapsBareShapes(t *testing.T) {
	if out := NormalizePages(Item{ID: "x"}); len(out) != 1 || len(out[0]) != 1 || out[0][0].ID != "x" {
		t.Fatalf("bare item should become a one-element page: %+v", out)
	}
	if out := NormalizePages(Page{{ID: "x"}, {ID: "y"}}); len(out) != 1 || len(out[0]) != 2 {
		t.Fatalf("bare page should be wrapped: %+v", out)
	}
	if out := NormalizePages([]Item{{ID: "x"}}); len(out) != 1 || out[0][0].ID != "x" {
		t.Fatalf("item slice should be wrapped: %+v", out)
	}
}

func TestNormalizePagesRepairsMixedSlice(t *testing.T) {
	in := []any{
		Page{{ID: "a"}},
		Item{ID: "b"},       // bare item where a page belongs
		"garbage",           // junk page
		[]any{Item{ID: "c"}, 42}, // decoded-JSON style page with a junk member
	}
	out := NormalizePages(in)
	if len(out) != 4 {
		t.Fatalf("page count must be preserved: %d", len(out))
	}
	if out[0][0].ID != "a" || out[1][0].ID != "b" {
		t.Fatalf("well-formed members lost: %+v", out)
	}
	if len(out[2]) != 0 {
		t.Fatalf("junk page should coerce to empty, got %+v", out[2])
	}
	if len(out[3]) != 1 || out[3][0].ID != "c" {
		t.Fatalf("junk member should be dropped, item kept: %+v", out[3])
	}
}

func TestNormalizePagesGarbage(t *testing.T) {
	if out := NormalizePages(nil); out != nil {
		t.Fatalf("nil should stay nil: %+v", out)
	}
	if out := NormalizePages(42); out != nil {
		t.Fatalf("scalar junk should yield nothing: %+v", out)
	}
	var nilItem *Item
	if out := NormalizePages(nilItem); out != nil {
		t.Fatalf("typed nil should yield nothing: %+v", out)
	}
}

func TestAsItem(t *testing.T) {
	if it, ok := asItem(Item{ID: "x"}); !ok || it.ID != "x" {
		t.Fatalf("value item: %v %v", it, ok)
	}
	if it, ok := asItem(&Item{ID: "y"}); !ok || it.ID != "y" {
		t.Fatalf("pointer item: %v %v", it, ok)
	}
	if _, ok := asItem("nope"); ok {
		t.Fatalf("junk must not coerce to an item")
	}
}
