// Package postgres implements the feedsync persistence boundary on
// PostgreSQL via pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	be "github.com/unkn0wn-root/feedsync/backend"
)

// PgxPool is the minimal pool surface the backend needs. Implemented by
// *pgxpool.Pool and pgxmock.PgxPoolIface.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Backend stores relationship rows in per-relation tables with composite
// primary keys, so upserts are ON CONFLICT DO NOTHING and removals are plain
// deletes whose row count the engine may ignore.
type Backend struct {
	pool PgxPool
}

var _ be.Backend = (*Backend)(nil)

// New connects a pool for the given DSN.
func New(ctx context.Context, dsn string) (*Backend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Backend{pool: pool}, nil
}

// NewWithPool wraps an existing pool (or a mock in tests).
func NewWithPool(pool PgxPool) *Backend { return &Backend{pool: pool} }

// relColumns maps a relation to its table and key columns. The follow
// relation is keyed by user rather than item.
func relColumns(rel be.Relation) (table, targetCol, actorCol string, err error) {
	switch rel {
	case be.Likes:
		return "likes", "item_id", "actor_id", nil
	case be.Bookmarks:
		return "bookmarks", "item_id", "actor_id", nil
	case be.Follows:
		return "follows", "followee_id", "follower_id", nil
	default:
		return "", "", "", fmt.Errorf("postgres: unknown relation %q", rel)
	}
}

func (b *Backend) Upsert(ctx context.Context, rel be.Relation, targetID, actorID string) error {
	table, tcol, acol, err := relColumns(rel)
	if err != nil {
		return err
	}
	q := fmt.Sprintf(
		`INSERT INTO %s (%s, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		table, tcol, acol,
	)
	_, err = b.pool.Exec(ctx, q, targetID, actorID)
	return err
}

func (b *Backend) Remove(ctx context.Context, rel be.Relation, targetID, actorID string) (int64, error) {
	table, tcol, acol, err := relColumns(rel)
	if err != nil {
		return 0, err
	}
	q := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, table, tcol, acol)
	tag, err := b.pool.Exec(ctx, q, targetID, actorID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const stateQuery = `
SELECT
    (SELECT count(*) FROM likes     WHERE item_id = $1),
    (SELECT count(*) FROM comments  WHERE item_id = $1),
    (SELECT count(*) FROM bookmarks WHERE item_id = $1),
    EXISTS (SELECT 1 FROM likes     WHERE item_id = $1 AND actor_id = $3),
    EXISTS (SELECT 1 FROM bookmarks WHERE item_id = $1 AND actor_id = $3),
    EXISTS (SELECT 1 FROM follows   WHERE followee_id = $2 AND follower_id = $3)`

func (b *Backend) State(ctx context.Context, targetID, ownerID, actorID string) (be.State, error) {
	var st be.State
	row := b.pool.QueryRow(ctx, stateQuery, targetID, ownerID, actorID)
	err := row.Scan(
		&st.LikesCount, &st.CommentsCount, &st.BookmarksCount,
		&st.Liked, &st.Bookmarked, &st.OwnerFollowed,
	)
	if err != nil {
		return be.State{}, err
	}
	return st, nil
}

func (b *Backend) Close(context.Context) error {
	b.pool.Close()
	return nil
}
