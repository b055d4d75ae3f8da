package dbmodels

import (
	"time"

	"github.com/guregu/null/v5"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/utils"
)

type DbWorkflowInstance struct {
	Id            string      `db:"id"`
	CaseId        string      `db:"case_id"`
	DefinitionId  string      `db:"definition_id"`
	CurrentStepId string      `db:"current_step_id"`
	Status        string      `db:"status"`
	InitiatedBy   string      `db:"initiated_by"`
	InitiatedAt   time.Time   `db:"initiated_at"`
	DueDate       time.Time   `db:"due_date"`
	CompletedBy   null.String `db:"completed_by"`
	CompletedAt   null.Time   `db:"completed_at"`
}

const TABLE_WORKFLOW_INSTANCES = "workflow_instances"

var SelectWorkflowInstanceColumns = utils.ColumnList[DbWorkflowInstance]()

func AdaptWorkflowInstance(db DbWorkflowInstance) (models.WorkflowInstance, error) {
	var completedBy *models.UserId
	if db.CompletedBy.Valid {
		completedBy = (*models.UserId)(db.CompletedBy.Ptr())
	}
	return models.WorkflowInstance{
		Id:            db.Id,
		CaseId:        db.CaseId,
		DefinitionId:  db.DefinitionId,
		CurrentStepId: db.CurrentStepId,
		Status:        models.WorkflowStatusFrom(db.Status),
		InitiatedBy:   models.UserId(db.InitiatedBy),
		InitiatedAt:   db.InitiatedAt,
		DueDate:       db.DueDate,
		CompletedBy:   completedBy,
		CompletedAt:   db.CompletedAt.Ptr(),
	}, nil
}
