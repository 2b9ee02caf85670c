package redis

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"

	be "github.com/unkn0wn-root/feedsync/backend"
)

func TestNewRequiresClient(t *testing.T) {
	if _, err := New(Config{}); err != ErrNilClient {
		t.Fatalf("nil client should be rejected, got %v", err)
	}
	if _, err := New(Config{Client: goredis.NewClient(&goredis.Options{})}); err != nil {
		t.Fatalf("New with client: %v", err)
	}
}

func TestRelKeyMapping(t *testing.T) {
	cases := []struct {
		rel    be.Relation
		target string
		want   string
	}{
		{be.Likes, "i1", "likes:i1"},
		{be.Bookmarks, "i1", "bookmarks:i1"},
		{be.Follows, "u1", "follows:u1"},
	}
	for _, c := range cases {
		got, err := relKey(c.rel, c.target)
		if err != nil || got != c.want {
			t.Fatalf("relKey(%s, %s) = %q, %v", c.rel, c.target, got, err)
		}
	}
	if _, err := relKey(be.Relation("reactions"), "i1"); err == nil {
		t.Fatalf("unknown relation should be rejected")
	}
}

func TestUnknownRelationShortCircuits(t *testing.T) {
	// an invalid relation must fail before any network call
	b, err := New(Config{Client: goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := b.Upsert(context.Background(), be.Relation("reactions"), "i1", "a1"); err == nil {
		t.Fatalf("Upsert with unknown relation should error")
	}
	if _, err := b.Remove(context.Background(), be.Relation("reactions"), "i1", "a1"); err == nil {
		t.Fatalf("Remove with unknown relation should error")
	}
}
