package dbmodels

import (
	"time"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/utils"
)

type DbAssignment struct {
	Id                 string    `db:"id"`
	WorkflowInstanceId string    `db:"workflow_instance_id"`
	AssignedTo         string    `db:"assigned_to"`
	AssignedAt         time.Time `db:"assigned_at"`
	DueDate            time.Time `db:"due_date"`
	Active             bool      `db:"active"`
}

const TABLE_WORKFLOW_ASSIGNMENTS = "workflow_assignments"

var SelectAssignmentColumns = utils.ColumnList[DbAssignment]()

func AdaptAssignment(db DbAssignment) (models.Assignment, error) {
	return models.Assignment{
		Id:                 db.Id,
		WorkflowInstanceId: db.WorkflowInstanceId,
		AssignedTo:         models.UserId(db.AssignedTo),
		AssignedAt:         db.AssignedAt,
		DueDate:            db.DueDate,
		Active:             db.Active,
	}, nil
}
