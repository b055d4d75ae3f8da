package repositories

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/cockroachdb/errors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pharmelior/deviation-backend/infra"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

type Migrater struct {
	pgConfig infra.PgConfig
	logger   *slog.Logger
}

func NewMigrater(pgConfig infra.PgConfig, logger *slog.Logger) *Migrater {
	return &Migrater{pgConfig: pgConfig, logger: logger}
}

func (m *Migrater) Run(ctx context.Context) error {
	db, err := sql.Open("pgx", m.pgConfig.ConnectionString())
	if err != nil {
		return errors.Wrap(err, "unable to connect to database")
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return errors.Wrap(err, "unable to ping database")
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{logger: m.logger})
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "invalid goose dialect")
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}
	return nil
}

type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error("migration failure", "detail", fmt.Sprintf(format, v...))
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Info("migration", "detail", fmt.Sprintf(format, v...))
}
