package executor_factory

import (
	"context"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/pharmelior/deviation-backend/repositories"
)

// ExecutorFactoryStub backs usecase tests with a pgxmock pool, so that
// transactions run for real against expectations while repositories are
// replaced by testify mocks.
type ExecutorFactoryStub struct {
	Mock pgxmock.PgxPoolIface
}

func NewExecutorFactoryStub() ExecutorFactoryStub {
	pool, _ := pgxmock.NewPool()
	return ExecutorFactoryStub{Mock: pool}
}

type PgExecutorStub struct {
	pgxmock.PgxPoolIface
}

func (stub ExecutorFactoryStub) NewExecutor() repositories.Executor {
	return PgExecutorStub{stub.Mock}
}

func (stub ExecutorFactoryStub) Transaction(ctx context.Context,
	fn func(tx repositories.Transaction) error,
) error {
	return fn(PgExecutorStub{stub.Mock})
}
