package executor_factory

import (
	"context"

	"github.com/pharmelior/deviation-backend/repositories"
)

type ExecutorFactory interface {
	NewExecutor() repositories.Executor
}

type TransactionFactory interface {
	Transaction(ctx context.Context, fn func(tx repositories.Transaction) error) error
}

type DbExecutorFactory struct {
	executorGetter repositories.ExecutorGetter
}

func NewDbExecutorFactory(executorGetter repositories.ExecutorGetter) DbExecutorFactory {
	return DbExecutorFactory{executorGetter: executorGetter}
}

func (f DbExecutorFactory) NewExecutor() repositories.Executor {
	return f.executorGetter.GetExecutor()
}

func (f DbExecutorFactory) Transaction(ctx context.Context,
	fn func(tx repositories.Transaction) error,
) error {
	return f.executorGetter.Transaction(ctx, fn)
}

// TransactionReturnValue runs fn in a transaction and carries its return
// value out, so that usecases can compose repository calls atomically.
func TransactionReturnValue[T any](ctx context.Context, factory TransactionFactory,
	fn func(tx repositories.Transaction) (T, error),
) (T, error) {
	var value T
	err := factory.Transaction(ctx, func(tx repositories.Transaction) error {
		var fnErr error
		value, fnErr = fn(tx)
		return fnErr
	})
	return value, err
}
