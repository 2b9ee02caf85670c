// Package bytestore defines the byte-storage abstraction behind the encoded
// view store.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the []byte previously passed to Set for a key. Any internal transform
// (compression, say) must be fully reversed. The wire format treats foreign
// bytes under view keys as corruption and deletes them.
package bytestore

import "context"

// ByteStore is a minimal keyed byte store. Must be safe for concurrent use.
type ByteStore interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value. Returns ok=false when the store rejected the write
	// under pressure.
	Set(ctx context.Context, key string, value []byte) (ok bool, err error)

	// Del removes a key (best-effort).
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
