package repositories

import (
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pharmelior/deviation-backend/models"
)

// translatePgError maps low-level postgres errors onto the domain taxonomy:
// unique violations become ConflictError, anything else unexpected becomes
// StorageError. Domain errors raised inside a transaction pass through.
func translatePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.IsAny(err,
		models.ValidationError,
		models.AuthorizationError,
		models.NotFoundError,
		models.ConflictError,
		models.StorageError,
	) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return errors.Wrap(models.ConflictError, pgErr.ConstraintName)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errors.Wrap(models.NotFoundError, "no rows in result set")
	}
	return errors.Mark(err, models.StorageError)
}
