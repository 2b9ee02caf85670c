package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestSingletonRoundTrip(t *testing.T) {
	payload := []byte(`{"id":"i1"}`)
	got, err := DecodeSingleton(EncodeSingleton(payload))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: %q", got)
	}

	// empty payload is a valid frame
	got, err = DecodeSingleton(EncodeSingleton(nil))
	if err != nil || len(got) != 0 {
		t.Fatalf("empty payload: %q %v", got, err)
	}
}

func TestPaginatedRoundTrip(t *testing.T) {
	pages := [][][]byte{
		{[]byte("a"), []byte("bb")},
		{}, // empty page survives
		{[]byte("ccc")},
	}
	got, err := DecodePaginated(EncodePaginated(pages))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 3 || len(got[0]) != 2 || len(got[1]) != 0 || len(got[2]) != 1 {
		t.Fatalf("structure mismatch: %v", got)
	}
	if !bytes.Equal(got[0][1], []byte("bb")) || !bytes.Equal(got[2][0], []byte("ccc")) {
		t.Fatalf("payload mismatch: %v", got)
	}

	if got, err := DecodePaginated(EncodePaginated(nil)); err != nil || len(got) != 0 {
		t.Fatalf("zero pages: %v %v", got, err)
	}
}

func TestDecodeRejectsForeignBytes(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("x"),
		[]byte(`{"looks":"like json"}`),
		[]byte("FSVWxxxxxxxxxx"), // magic but bad version/kind
	}
	for _, c := range cases {
		if _, err := DecodeSingleton(c); !errors.Is(err, ErrCorrupt) {
			t.Fatalf("singleton should reject %q, got %v", c, err)
		}
		if _, err := DecodePaginated(c); !errors.Is(err, ErrCorrupt) {
			t.Fatalf("paginated should reject %q, got %v", c, err)
		}
	}
}

func TestDecodeRejectsWrongKind(t *testing.T) {
	if _, err := DecodeSingleton(EncodePaginated([][][]byte{{[]byte("a")}})); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("singleton decoder must reject paginated frames: %v", err)
	}
	if _, err := DecodePaginated(EncodeSingleton([]byte("a"))); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("paginated decoder must reject singleton frames: %v", err)
	}
}

func TestDecodeRejectsTruncation(t *testing.T) {
	full := EncodePaginated([][][]byte{{[]byte("payload-bytes")}})
	for cut := 1; cut < len(full); cut++ {
		if _, err := DecodePaginated(full[:cut]); err == nil {
			t.Fatalf("truncation at %d should fail", cut)
		}
	}

	s := EncodeSingleton([]byte("payload"))
	for cut := 1; cut < len(s); cut++ {
		if _, err := DecodeSingleton(s[:cut]); err == nil {
			t.Fatalf("singleton truncation at %d should fail", cut)
		}
	}
}

// TestDecodeRejectsHugeCounts: a tiny frame claiming billions of pages or
// items must come back as ErrCorrupt, not as a giant allocation.
func TestDecodeRejectsHugeCounts(t *testing.T) {
	huge := []byte{'F', 'S', 'V', 'W', 1, 2, 0xFF, 0xFF, 0xFF, 0xFF}
	if _, err := DecodePaginated(huge); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("huge page count should fail cleanly: %v", err)
	}

	// one claimed page whose item count dwarfs the remaining bytes
	huge = []byte{
		'F', 'S', 'V', 'W', 1, 2,
		0x00, 0x00, 0x00, 0x01,
		0xFF, 0xFF, 0xFF, 0xFF,
	}
	if _, err := DecodePaginated(huge); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("huge item count should fail cleanly: %v", err)
	}
}

func TestDecodeRejectsLengthOverrun(t *testing.T) {
	b := EncodeSingleton([]byte("abc"))
	b[9] = 0xFF // inflate vlen past the buffer
	if _, err := DecodeSingleton(b); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("inflated length should fail: %v", err)
	}
}
