// Package redis implements the feedsync persistence boundary on Redis sets.
//
// Keys:
//
//	likes:<item>      - set of actor ids
//	bookmarks:<item>  - set of actor ids
//	follows:<user>    - set of follower ids
//	comments:<item>   - integer comment count (written by the comment path)
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	be "github.com/unkn0wn-root/feedsync/backend"
)

var ErrNilClient = errors.New("redis backend: nil client")

type Backend struct {
	rdb         goredis.UniversalClient
	closeClient bool
}

var _ be.Backend = (*Backend)(nil)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this backend exclusively owns the client
}

func New(cfg Config) (*Backend, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Backend{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

func relKey(rel be.Relation, targetID string) (string, error) {
	switch rel {
	case be.Likes, be.Bookmarks, be.Follows:
		return string(rel) + ":" + targetID, nil
	default:
		return "", fmt.Errorf("redis backend: unknown relation %q", rel)
	}
}

func (b *Backend) Upsert(ctx context.Context, rel be.Relation, targetID, actorID string) error {
	k, err := relKey(rel, targetID)
	if err != nil {
		return err
	}
	// SADD of a present member is a no-op, which gives upsert semantics
	return b.rdb.SAdd(ctx, k, actorID).Err()
}

func (b *Backend) Remove(ctx context.Context, rel be.Relation, targetID, actorID string) (int64, error) {
	k, err := relKey(rel, targetID)
	if err != nil {
		return 0, err
	}
	return b.rdb.SRem(ctx, k, actorID).Result()
}

func (b *Backend) State(ctx context.Context, targetID, ownerID, actorID string) (be.State, error) {
	var (
		likes      *goredis.IntCmd
		bookmarks  *goredis.IntCmd
		comments   *goredis.StringCmd
		liked      *goredis.BoolCmd
		bookmarked *goredis.BoolCmd
		followed   *goredis.BoolCmd
	)
	_, err := b.rdb.Pipelined(ctx, func(p goredis.Pipeliner) error {
		likes = p.SCard(ctx, "likes:"+targetID)
		bookmarks = p.SCard(ctx, "bookmarks:"+targetID)
		comments = p.Get(ctx, "comments:"+targetID)
		liked = p.SIsMember(ctx, "likes:"+targetID, actorID)
		bookmarked = p.SIsMember(ctx, "bookmarks:"+targetID, actorID)
		followed = p.SIsMember(ctx, "follows:"+ownerID, actorID)
		return nil
	})
	if err != nil && err != goredis.Nil {
		return be.State{}, err
	}

	st := be.State{
		LikesCount:     int(likes.Val()),
		BookmarksCount: int(bookmarks.Val()),
		Liked:          liked.Val(),
		Bookmarked:     bookmarked.Val(),
		OwnerFollowed:  followed.Val(),
	}
	if n, err := comments.Int(); err == nil {
		st.CommentsCount = n
	}
	return st, nil
}

// Close releases the client only when this backend owns it. Safe to call
// repeatedly.
func (b *Backend) Close(context.Context) error {
	if b.closeClient {
		if err := b.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
