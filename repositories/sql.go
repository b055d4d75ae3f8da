package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func NewQueryBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// ExecBuilder renders a squirrel builder and executes it.
func ExecBuilder(ctx context.Context, exec Executor, builder squirrel.Sqlizer) (pgconn.CommandTag, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, errors.Wrap(err, "failed to build query")
	}
	tag, err := exec.Exec(ctx, query, args...)
	if err != nil {
		return pgconn.CommandTag{}, translatePgError(err)
	}
	return tag, nil
}

func SqlToListOfDbModels[DBModel any](ctx context.Context, exec Executor, builder squirrel.Sqlizer) ([]DBModel, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build query")
	}
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translatePgError(err)
	}
	dbModels, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[DBModel])
	if err != nil {
		return nil, translatePgError(err)
	}
	return dbModels, nil
}

func SqlToListOfModels[DBModel, Model any](ctx context.Context, exec Executor,
	builder squirrel.Sqlizer, adapter func(dbModel DBModel) (Model, error),
) ([]Model, error) {
	dbModels, err := SqlToListOfDbModels[DBModel](ctx, exec, builder)
	if err != nil {
		return nil, err
	}
	models := make([]Model, len(dbModels))
	for i := range dbModels {
		models[i], err = adapter(dbModels[i])
		if err != nil {
			return nil, err
		}
	}
	return models, nil
}

func SqlToModel[DBModel, Model any](ctx context.Context, exec Executor,
	builder squirrel.Sqlizer, adapter func(dbModel DBModel) (Model, error),
) (Model, error) {
	var zero Model
	model, err := SqlToOptionalModel(ctx, exec, builder, adapter)
	if err != nil {
		return zero, err
	}
	if model == nil {
		return zero, translatePgError(pgx.ErrNoRows)
	}
	return *model, nil
}

func SqlToOptionalModel[DBModel, Model any](ctx context.Context, exec Executor,
	builder squirrel.Sqlizer, adapter func(dbModel DBModel) (Model, error),
) (*Model, error) {
	dbModels, err := SqlToListOfDbModels[DBModel](ctx, exec, builder)
	if err != nil {
		return nil, err
	}
	if len(dbModels) == 0 {
		return nil, nil
	}
	model, err := adapter(dbModels[0])
	if err != nil {
		return nil, err
	}
	return &model, nil
}
