package dbmodels

import (
	"time"

	"github.com/guregu/null/v5"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/utils"
)

type DbScheduledWorkflow struct {
	Id           string    `db:"id"`
	CaseId       string    `db:"case_id"`
	DefinitionId string    `db:"definition_id"`
	ScheduledBy  string    `db:"scheduled_by"`
	TriggerAt    time.Time `db:"trigger_at"`
	StartedAt    null.Time `db:"started_at"`
}

const TABLE_WORKFLOW_SCHEDULES = "workflow_schedules"

var SelectScheduledWorkflowColumns = utils.ColumnList[DbScheduledWorkflow]()

func AdaptScheduledWorkflow(db DbScheduledWorkflow) (models.ScheduledWorkflow, error) {
	return models.ScheduledWorkflow{
		Id:           db.Id,
		CaseId:       db.CaseId,
		DefinitionId: db.DefinitionId,
		ScheduledBy:  models.UserId(db.ScheduledBy),
		TriggerAt:    db.TriggerAt,
		StartedAt:    db.StartedAt.Ptr(),
	}, nil
}
