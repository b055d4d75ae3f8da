package repositories

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExecutorGetter hands out executors over the application database and runs
// functions inside transactions.
type ExecutorGetter struct {
	pool *pgxpool.Pool
}

func NewExecutorGetter(pool *pgxpool.Pool) ExecutorGetter {
	return ExecutorGetter{pool: pool}
}

func (g ExecutorGetter) GetExecutor() Executor {
	return ExecutorPostgres{exec: g.pool}
}

func (g ExecutorGetter) Transaction(ctx context.Context, fn func(tx Transaction) error) error {
	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return translatePgError(errors.Wrap(err, "failed to begin transaction"))
	}
	defer func() {
		// Rollback is a no-op after a successful commit.
		_ = tx.Rollback(ctx)
	}()

	if err := fn(ExecutorPostgres{exec: tx}); err != nil {
		return translatePgError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return translatePgError(errors.Wrap(err, "failed to commit transaction"))
	}
	return nil
}
