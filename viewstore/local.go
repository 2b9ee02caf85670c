// Package viewstore ships Store implementations for the engine's cache-view
// boundary: Local, a plain in-process map (the default), and Encoded, which
// serializes views into a byte store (bigcache, ristretto) through a codec.
package viewstore

import (
	"sort"
	"strings"
	"sync"

	"github.com/unkn0wn-root/feedsync"
)

// Local is a mutex-guarded in-process view store. Values are held as given;
// callers own any copy-on-write discipline (the engine's updaters always
// replace values wholesale).
type Local struct {
	mu sync.RWMutex
	m  map[string]any
}

var _ feedsync.Store = (*Local)(nil)

func NewLocal() *Local {
	return &Local{m: make(map[string]any)}
}

func (s *Local) Read(key string) (any, bool) {
	s.mu.RLock()
	v, ok := s.m[key]
	s.mu.RUnlock()
	return v, ok
}

func (s *Local) Write(key string, update func(old any) any, _ bool) {
	s.mu.Lock()
	next := update(s.m[key])
	if next == nil {
		delete(s.m, key)
	} else {
		s.m[key] = next
	}
	s.mu.Unlock()
}

func (s *Local) Delete(key string) {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
}

// Keys returns the stored keys under prefix in sorted order so traversal is
// deterministic.
func (s *Local) Keys(prefix string) []string {
	s.mu.RLock()
	out := make([]string, 0, 8)
	for k := range s.m {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}

// InvalidateFamily drops every key under the family prefix. The presentation
// layer calls this on hard refetches (login, pull-to-refresh).
func (s *Local) InvalidateFamily(prefix string) int {
	s.mu.Lock()
	n := 0
	for k := range s.m {
		if strings.HasPrefix(k, prefix) {
			delete(s.m, k)
			n++
		}
	}
	s.mu.Unlock()
	return n
}
