package viewstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/unkn0wn-root/feedsync"
	"github.com/unkn0wn-root/feedsync/bytestore"
	"github.com/unkn0wn-root/feedsync/codec"
	"github.com/unkn0wn-root/feedsync/internal/wire"
)

// Encoded is a view store backed by a byte store. Items are serialized per
// entry through a pluggable codec and framed by the wire format, so views
// survive in shared or size-bounded caches. Corrupt or foreign bytes under a
// view key self-heal by deletion on the next read.
//
// Byte stores cannot enumerate keys, so Encoded keeps its own key index; a
// read miss (eviction, expiry) prunes the index entry.
type Encoded struct {
	bs    bytestore.ByteStore
	codec codec.Codec[feedsync.Item]
	log   feedsync.Logger

	mu   sync.RWMutex
	keys map[string]struct{}
}

var _ feedsync.Store = (*Encoded)(nil)

type EncodedOptions struct {
	// Required
	Store bytestore.ByteStore
	Codec codec.Codec[feedsync.Item]

	Logger feedsync.Logger // nil => NopLogger
}

func NewEncoded(opts EncodedOptions) (*Encoded, error) {
	if opts.Store == nil {
		return nil, errRequired("byte store")
	}
	if opts.Codec == nil {
		return nil, errRequired("codec")
	}
	log := opts.Logger
	if log == nil {
		log = feedsync.NopLogger{}
	}
	return &Encoded{
		bs:    opts.Store,
		codec: opts.Codec,
		log:   log,
		keys:  make(map[string]struct{}),
	}, nil
}

func (s *Encoded) Read(key string) (any, bool) {
	ctx := context.Background()
	raw, ok, err := s.bs.Get(ctx, key)
	if err != nil || !ok {
		s.forget(key)
		return nil, false
	}
	v, err := s.decode(key, raw)
	if err != nil {
		// self-heal corrupt
		_ = s.bs.Del(ctx, key)
		s.forget(key)
		s.log.Debug("dropped corrupt view entry", feedsync.Fields{"key": key, "err": err})
		return nil, false
	}
	return v, true
}

func (s *Encoded) Write(key string, update func(old any) any, _ bool) {
	ctx := context.Background()
	old, _ := s.Read(key)
	next := update(old)
	if next == nil {
		s.Delete(key)
		return
	}
	raw, err := s.encode(key, next)
	if err != nil {
		s.log.Warn("view encode failed; entry dropped", feedsync.Fields{"key": key, "err": err})
		s.Delete(key)
		return
	}
	ok, err := s.bs.Set(ctx, key, raw)
	if err != nil || !ok {
		s.forget(key)
		if err != nil {
			s.log.Warn("view write failed", feedsync.Fields{"key": key, "err": err})
		}
		return
	}
	s.remember(key)
}

func (s *Encoded) Delete(key string) {
	_ = s.bs.Del(context.Background(), key)
	s.forget(key)
}

func (s *Encoded) Keys(prefix string) []string {
	s.mu.RLock()
	out := make([]string, 0, 8)
	for k := range s.keys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Close closes the underlying byte store.
func (s *Encoded) Close(ctx context.Context) error {
	return s.bs.Close(ctx)
}

// singleton entries live under the detail family; everything else is pages
func (s *Encoded) encode(key string, v any) ([]byte, error) {
	if strings.HasPrefix(key, feedsync.FamilyDetail+":") {
		it, _ := asStoredItem(v)
		payload, err := s.codec.Encode(it)
		if err != nil {
			return nil, err
		}
		return wire.EncodeSingleton(payload), nil
	}

	pages := feedsync.NormalizePages(v)
	enc := make([][][]byte, len(pages))
	for pi, pg := range pages {
		enc[pi] = make([][]byte, len(pg))
		for ii, it := range pg {
			payload, err := s.codec.Encode(it)
			if err != nil {
				return nil, err
			}
			enc[pi][ii] = payload
		}
	}
	return wire.EncodePaginated(enc), nil
}

func (s *Encoded) decode(key string, raw []byte) (any, error) {
	if strings.HasPrefix(key, feedsync.FamilyDetail+":") {
		payload, err := wire.DecodeSingleton(raw)
		if err != nil {
			return nil, err
		}
		return s.codec.Decode(payload)
	}

	enc, err := wire.DecodePaginated(raw)
	if err != nil {
		return nil, err
	}
	pages := make([]feedsync.Page, len(enc))
	for pi, pg := range enc {
		pages[pi] = make(feedsync.Page, 0, len(pg))
		for _, payload := range pg {
			it, err := s.codec.Decode(payload)
			if err != nil {
				return nil, err
			}
			pages[pi] = append(pages[pi], it)
		}
	}
	return pages, nil
}

func (s *Encoded) remember(key string) {
	s.mu.Lock()
	s.keys[key] = struct{}{}
	s.mu.Unlock()
}

func (s *Encoded) forget(key string) {
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
}

func asStoredItem(v any) (feedsync.Item, bool) {
	switch iv := v.(type) {
	case feedsync.Item:
		return iv, true
	case *feedsync.Item:
		if iv != nil {
			return *iv, true
		}
	}
	return feedsync.Item{}, false
}

type errRequired string

func (e errRequired) Error() string { return "viewstore: " + string(e) + " is required" }
