package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/repositories/dbmodels"
)

// CreateAuditEntry stores one fully formed audit entry. The table carries no
// update or delete path: the log is append-only by construction, enforced by
// a database trigger on top of this repository's discipline.
func (repo DeviationDbRepository) CreateAuditEntry(ctx context.Context, exec Executor,
	entry models.AuditEntry,
) error {
	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_AUDIT_ENTRIES).
		Columns(
			"id",
			"timestamp",
			"case_id",
			"actor_id",
			"actor_role",
			"session_id",
			"ip_address",
			"action",
			"action_type",
			"section",
			"field_changed",
			"old_value",
			"new_value",
			"justification",
			"regulatory_impact",
			"integrity_checksum",
		).
		Values(
			entry.Id,
			entry.Timestamp,
			entry.CaseId,
			string(entry.ActorId),
			entry.ActorRole.String(),
			entry.SessionId,
			entry.IpAddress,
			entry.Action,
			string(entry.ActionType),
			entry.Section,
			entry.FieldChanged,
			entry.OldValue,
			entry.NewValue,
			entry.Justification,
			string(entry.RegulatoryImpact),
			entry.IntegrityChecksum,
		)

	_, err := ExecBuilder(ctx, exec, query)
	return err
}

func (repo DeviationDbRepository) GetAuditEntry(ctx context.Context, exec Executor,
	id uuid.UUID,
) (models.AuditEntry, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectAuditEntryColumns...).
		From(dbmodels.TABLE_AUDIT_ENTRIES).
		Where(squirrel.Eq{"id": id})

	return SqlToModel(ctx, exec, query, dbmodels.AdaptAuditEntry)
}

// ListAuditEntries returns entries ordered by timestamp ascending then
// insertion sequence, with keyset pagination on that same ordering.
func (repo DeviationDbRepository) ListAuditEntries(ctx context.Context, exec Executor,
	filters models.AuditEntryFilters, pagination models.PaginationAndSorting,
) ([]models.AuditEntry, error) {
	pagination = models.WithPaginationDefaults(pagination)

	query := NewQueryBuilder().
		Select(dbmodels.SelectAuditEntryColumns...).
		From(dbmodels.TABLE_AUDIT_ENTRIES).
		OrderBy("timestamp ASC, seq ASC").
		Limit(uint64(pagination.Limit))

	if filters.CaseId != nil {
		query = query.Where(squirrel.Eq{"case_id": *filters.CaseId})
	}
	if filters.ActionType != nil {
		query = query.Where(squirrel.Eq{"action_type": string(*filters.ActionType)})
	}
	if filters.ActorId != nil {
		query = query.Where(squirrel.Eq{"actor_id": string(*filters.ActorId)})
	}
	if !filters.From.IsZero() {
		query = query.Where(squirrel.GtOrEq{"timestamp": filters.From})
	}
	if !filters.To.IsZero() {
		query = query.Where(squirrel.LtOrEq{"timestamp": filters.To})
	}

	if pagination.OffsetId != "" {
		cursorId, err := uuid.Parse(pagination.OffsetId)
		if err != nil {
			return nil, errors.Wrap(models.ValidationError, "invalid pagination cursor")
		}
		cursor, err := repo.getAuditEntryRow(ctx, exec, cursorId)
		if err != nil {
			return nil, errors.Wrap(err, "could not retrieve cursor entry")
		}
		query = query.Where("(timestamp, seq) > (?, ?)", cursor.Timestamp, cursor.Seq)
	}

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptAuditEntry)
}

func (repo DeviationDbRepository) getAuditEntryRow(ctx context.Context, exec Executor,
	id uuid.UUID,
) (dbmodels.DbAuditEntry, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectAuditEntryColumns...).
		From(dbmodels.TABLE_AUDIT_ENTRIES).
		Where(squirrel.Eq{"id": id})

	rows, err := SqlToListOfDbModels[dbmodels.DbAuditEntry](ctx, exec, query)
	if err != nil {
		return dbmodels.DbAuditEntry{}, err
	}
	if len(rows) == 0 {
		return dbmodels.DbAuditEntry{}, errors.Wrap(models.NotFoundError, "audit entry not found")
	}
	return rows[0], nil
}
