package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultQueryTimeout bounds any storage access whose context carries no
// deadline of its own.
const DefaultQueryTimeout = 30 * time.Second

type contextKey string

const txKey contextKey = "promptcraft_tx"

// querier is the subset of pgx shared by pools and transactions; pgxmock
// satisfies it too, which is how the tests stand in for a live database.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the single persistence boundary for the four entities. Every
// public operation of the services above it runs through one of its
// methods, either directly or inside WithTx.
type Store struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func New(pool *pgxpool.Pool, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &Store{pool: pool, timeout: timeout}
}

// conn returns the transaction bound to ctx when present, the pool
// otherwise.
func (s *Store) conn(ctx context.Context) querier {
	if tx := txFrom(ctx); tx != nil {
		return tx
	}
	return s.pool
}

func txFrom(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey).(querier); ok {
		return tx
	}
	return nil
}

// withDeadline attaches the store's query timeout when the caller supplied
// no deadline.
func (s *Store) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// WithTx runs fn inside one atomic transactional scope. The transaction is
// carried in the context so that every store call made by fn joins it. A
// nested call reuses the enclosing transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	if txFrom(ctx) != nil {
		return fn(ctx)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	txCtx := context.WithValue(ctx, txKey, querier(tx))
	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx error: %v, rollback: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// normalizePage validates the shared pagination contract: offset >= 0,
// limit in [1, 100].
func normalizePage(offset, limit int) error {
	if offset < 0 {
		return Invalid("offset", "must be >= 0")
	}
	if limit < 1 || limit > 100 {
		return Invalid("limit", "must be between 1 and 100")
	}
	return nil
}
