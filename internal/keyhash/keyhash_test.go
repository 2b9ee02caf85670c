package keyhash

import "testing"

func TestSumNormalizes(t *testing.T) {
	a := Sum("Chicken Soup")
	b := Sum("  chicken soup\t")
	if a != b {
		t.Fatalf("equivalent queries must hash alike: %q vs %q", a, b)
	}
	if a == Sum("chicken soups") {
		t.Fatalf("distinct queries should not collide")
	}
}

func TestSumShape(t *testing.T) {
	h := Sum("anything")
	if len(h) != 16 {
		t.Fatalf("segment length: %d", len(h))
	}
	for _, r := range h {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			t.Fatalf("non-hex rune %q in %q", r, h)
		}
	}
	if Sum("") != Sum("   ") {
		t.Fatalf("blank queries collapse to one key")
	}
}
