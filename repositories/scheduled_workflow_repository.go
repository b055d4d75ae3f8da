package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/repositories/dbmodels"
)

func (repo DeviationDbRepository) CreateScheduledWorkflow(ctx context.Context, exec Executor,
	schedule models.ScheduledWorkflow,
) error {
	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_WORKFLOW_SCHEDULES).
		Columns("id", "case_id", "definition_id", "scheduled_by", "trigger_at").
		Values(
			schedule.Id,
			schedule.CaseId,
			schedule.DefinitionId,
			string(schedule.ScheduledBy),
			schedule.TriggerAt,
		)

	_, err := ExecBuilder(ctx, exec, query)
	return err
}

// ListDueScheduledWorkflows returns schedules whose trigger time has passed
// and that have not been started yet, locked so that concurrent scheduler
// runs do not start the same workflow twice.
func (repo DeviationDbRepository) ListDueScheduledWorkflows(ctx context.Context, tx Transaction,
	now time.Time,
) ([]models.ScheduledWorkflow, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectScheduledWorkflowColumns...).
		From(dbmodels.TABLE_WORKFLOW_SCHEDULES).
		Where(squirrel.LtOrEq{"trigger_at": now}).
		Where(squirrel.Eq{"started_at": nil}).
		OrderBy("trigger_at ASC").
		Suffix("FOR UPDATE SKIP LOCKED")

	return SqlToListOfModels(ctx, tx, query, dbmodels.AdaptScheduledWorkflow)
}

func (repo DeviationDbRepository) MarkScheduledWorkflowStarted(ctx context.Context, exec Executor,
	id string, startedAt time.Time,
) error {
	query := NewQueryBuilder().
		Update(dbmodels.TABLE_WORKFLOW_SCHEDULES).
		Set("started_at", startedAt).
		Where(squirrel.Eq{"id": id})

	_, err := ExecBuilder(ctx, exec, query)
	return err
}
