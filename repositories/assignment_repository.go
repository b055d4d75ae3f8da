package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/pure_utils"
	"github.com/pharmelior/deviation-backend/repositories/dbmodels"
)

func (repo DeviationDbRepository) CreateAssignment(ctx context.Context, exec Executor,
	attrs models.CreateAssignmentAttributes,
) (models.Assignment, error) {
	assignment := models.Assignment{
		Id:                 uuid.NewString(),
		WorkflowInstanceId: attrs.WorkflowInstanceId,
		AssignedTo:         attrs.AssignedTo,
		AssignedAt:         attrs.AssignedAt,
		DueDate:            attrs.DueDate,
		Active:             true,
	}

	query := NewQueryBuilder().
		Insert(dbmodels.TABLE_WORKFLOW_ASSIGNMENTS).
		Columns("id", "workflow_instance_id", "assigned_to", "assigned_at", "due_date", "active").
		Values(
			assignment.Id,
			assignment.WorkflowInstanceId,
			string(assignment.AssignedTo),
			assignment.AssignedAt,
			assignment.DueDate,
			assignment.Active,
		)

	if _, err := ExecBuilder(ctx, exec, query); err != nil {
		return models.Assignment{}, err
	}
	return assignment, nil
}

// SupersedeAssignments deactivates the current assignments of an instance.
// The rows stay in place as ownership history.
func (repo DeviationDbRepository) SupersedeAssignments(ctx context.Context, exec Executor,
	workflowInstanceId string,
) error {
	query := NewQueryBuilder().
		Update(dbmodels.TABLE_WORKFLOW_ASSIGNMENTS).
		Set("active", false).
		Where(squirrel.Eq{
			"workflow_instance_id": workflowInstanceId,
			"active":               true,
		})

	_, err := ExecBuilder(ctx, exec, query)
	return err
}

func (repo DeviationDbRepository) ListActiveAssignments(ctx context.Context, exec Executor,
	workflowInstanceId string,
) ([]models.Assignment, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectAssignmentColumns...).
		From(dbmodels.TABLE_WORKFLOW_ASSIGNMENTS).
		Where(squirrel.Eq{
			"workflow_instance_id": workflowInstanceId,
			"active":               true,
		}).
		OrderBy("assigned_at ASC")

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptAssignment)
}

// CountActiveAssignmentsByUser returns, for each given user, the number of
// active assignments they currently hold. Users without any get 0.
func (repo DeviationDbRepository) CountActiveAssignmentsByUser(ctx context.Context, exec Executor,
	userIds []models.UserId,
) (map[models.UserId]int, error) {
	ids := pure_utils.Map(userIds, func(id models.UserId) string { return string(id) })

	query := NewQueryBuilder().
		Select("assigned_to", "count(*) as count").
		From(dbmodels.TABLE_WORKFLOW_ASSIGNMENTS).
		Where(squirrel.Eq{
			"assigned_to": ids,
			"active":      true,
		}).
		GroupBy("assigned_to")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, translatePgError(err)
	}

	type countRow struct {
		UserId string
		Count  int
	}
	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (countRow, error) {
		var out countRow
		err := row.Scan(&out.UserId, &out.Count)
		return out, err
	})
	if err != nil {
		return nil, translatePgError(err)
	}

	result := make(map[models.UserId]int, len(userIds))
	for _, userId := range userIds {
		result[userId] = 0
	}
	for _, row := range counts {
		result[models.UserId(row.UserId)] = row.Count
	}
	return result, nil
}
