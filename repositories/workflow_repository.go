package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/repositories/dbmodels"
)

func (repo DeviationDbRepository) CreateWorkflowInstance(ctx context.Context, exec Executor,
	instance models.WorkflowInstance,
) error {
	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_WORKFLOW_INSTANCES).
		Columns(
			"id",
			"case_id",
			"definition_id",
			"current_step_id",
			"status",
			"initiated_by",
			"initiated_at",
			"due_date",
		).
		Values(
			instance.Id,
			instance.CaseId,
			instance.DefinitionId,
			instance.CurrentStepId,
			string(instance.Status),
			string(instance.InitiatedBy),
			instance.InitiatedAt,
			instance.DueDate,
		)

	_, err := ExecBuilder(ctx, exec, query)
	return err
}

func (repo DeviationDbRepository) GetWorkflowInstance(ctx context.Context, exec Executor,
	id string,
) (models.WorkflowInstance, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectWorkflowInstanceColumns...).
		From(dbmodels.TABLE_WORKFLOW_INSTANCES).
		Where(squirrel.Eq{"id": id})

	return SqlToModel(ctx, exec, query, dbmodels.AdaptWorkflowInstance)
}

// GetWorkflowInstanceForUpdate loads the instance under a row lock, so that
// concurrent advances of the same instance serialize on the database.
func (repo DeviationDbRepository) GetWorkflowInstanceForUpdate(ctx context.Context, tx Transaction,
	id string,
) (models.WorkflowInstance, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectWorkflowInstanceColumns...).
		From(dbmodels.TABLE_WORKFLOW_INSTANCES).
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE")

	return SqlToModel(ctx, tx, query, dbmodels.AdaptWorkflowInstance)
}

func (repo DeviationDbRepository) GetActiveWorkflowInstance(ctx context.Context, exec Executor,
	definitionId, caseId string,
) (*models.WorkflowInstance, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectWorkflowInstanceColumns...).
		From(dbmodels.TABLE_WORKFLOW_INSTANCES).
		Where(squirrel.Eq{
			"definition_id": definitionId,
			"case_id":       caseId,
			"status":        string(models.WorkflowStatusActive),
		})

	return SqlToOptionalModel(ctx, exec, query, dbmodels.AdaptWorkflowInstance)
}

func (repo DeviationDbRepository) UpdateWorkflowInstance(ctx context.Context, exec Executor,
	attrs models.UpdateWorkflowInstanceAttributes,
) error {
	query := NewQueryBuilder().
		Update(dbmodels.TABLE_WORKFLOW_INSTANCES).
		Where(squirrel.Eq{"id": attrs.Id})

	if attrs.CurrentStepId != nil {
		query = query.Set("current_step_id", *attrs.CurrentStepId)
	}
	if attrs.Status != nil {
		query = query.Set("status", string(*attrs.Status))
	}
	if attrs.DueDate != nil {
		query = query.Set("due_date", *attrs.DueDate)
	}
	if attrs.CompletedBy != nil {
		query = query.Set("completed_by", string(*attrs.CompletedBy))
	}
	if attrs.CompletedAt != nil {
		query = query.Set("completed_at", *attrs.CompletedAt)
	}

	_, err := ExecBuilder(ctx, exec, query)
	return err
}

func (repo DeviationDbRepository) ListOverdueWorkflowInstances(ctx context.Context, exec Executor,
	now time.Time,
) ([]models.WorkflowInstance, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectWorkflowInstanceColumns...).
		From(dbmodels.TABLE_WORKFLOW_INSTANCES).
		Where(squirrel.Eq{"status": string(models.WorkflowStatusActive)}).
		Where(squirrel.Lt{"due_date": now}).
		OrderBy("due_date ASC")

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptWorkflowInstance)
}
