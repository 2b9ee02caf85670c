// Package wire frames view snapshots for byte-store persistence. Payload
// bytes are codec-encoded items; the frame carries only structure (singleton
// vs paginated, page boundaries) plus enough validation to reject foreign or
// corrupt entries instead of decoding garbage.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version       byte = 1
	kindSingleton byte = 1
	kindPaginated byte = 2
)

var (
	ErrCorrupt = errors.New("wire: corrupt view snapshot")
	magic4     = [...]byte{'F', 'S', 'V', 'W'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Singleton: magic(4) | ver(1) | kind(1=singleton) | vlen(u32 be) | payload(vlen)
func EncodeSingleton(payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindSingleton)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])
	buf.Write(payload)
	return buf.Bytes()
}

func DecodeSingleton(b []byte) ([]byte, error) {
	const hdr = 4 + 1 + 1 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindSingleton {
		return nil, ErrCorrupt
	}
	off := 6
	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen > len(b)-off {
		return nil, ErrCorrupt
	}
	return b[off : off+vlen], nil
}

// Paginated:
//
//	magic(4) | ver(1) | kind(1=paginated) | pages(u32 be)
//	per page: items(u32 be), then per item: vlen(u32 be) | payload(vlen)
func EncodePaginated(pages [][][]byte) []byte {
	total := 4 + 1 + 1 + 4
	for _, pg := range pages {
		total += 4
		for _, it := range pg {
			total += 4 + len(it)
		}
	}

	var buf bytes.Buffer
	buf.Grow(total)

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindPaginated)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(pages)))
	buf.Write(u4[:])

	for _, pg := range pages {
		binary.BigEndian.PutUint32(u4[:], uint32(len(pg)))
		buf.Write(u4[:])
		for _, it := range pg {
			binary.BigEndian.PutUint32(u4[:], uint32(len(it)))
			buf.Write(u4[:])
			buf.Write(it)
		}
	}
	return buf.Bytes()
}

func DecodePaginated(b []byte) ([][][]byte, error) {
	const hdr = 4 + 1 + 1 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindPaginated {
		return nil, ErrCorrupt
	}
	off := 6

	n := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if n < 0 {
		return nil, ErrCorrupt
	}

	// Counts come from untrusted bytes. Every page costs at least 4 bytes of
	// frame, so a count the remaining bytes cannot hold must not drive the
	// allocation; the loop's bounds checks reject it.
	pages := make([][][]byte, 0, min(n, (len(b)-off)/4))
	for i := 0; i < n; i++ {
		if off+4 > len(b) {
			return nil, ErrCorrupt
		}
		m := int(binary.BigEndian.Uint32(b[off : off+4]))
		off += 4
		if m < 0 {
			return nil, ErrCorrupt
		}
		page := make([][]byte, 0, min(m, (len(b)-off)/4))
		for j := 0; j < m; j++ {
			if off+4 > len(b) {
				return nil, ErrCorrupt
			}
			vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
			off += 4
			if vlen < 0 || vlen > len(b)-off {
				return nil, ErrCorrupt
			}
			page = append(page, b[off:off+vlen])
			off += vlen
		}
		pages = append(pages, page)
	}
	return pages, nil
}
