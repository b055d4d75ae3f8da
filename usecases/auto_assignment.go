package usecases

import (
	"context"
	"fmt"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/pure_utils"
	"github.com/pharmelior/deviation-backend/repositories"
	"github.com/pharmelior/deviation-backend/utils"
)

// autoAssignStep picks the least-loaded directory user holding any of the
// step's required roles and creates the assignment. Ties break on ascending
// user id: the candidate list is already ordered that way, so the first
// minimum wins. This is a least-loaded heuristic, not a scheduler: no
// preemption, no priorities.
func (uc *WorkflowUsecase) autoAssignStep(ctx context.Context, tx repositories.Transaction,
	instance models.WorkflowInstance, step models.WorkflowStep,
) ([]models.CreateNotificationAttributes, error) {
	logger := utils.LoggerFromContext(ctx)

	candidates, err := uc.directory.ListUsersByRole(ctx, tx, step.RequiredRoles)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		logger.WarnContext(ctx, "no assignable user for step",
			"step_id", step.Id,
			"workflow_instance_id", instance.Id)
		return nil, nil
	}

	counts, err := uc.assignmentRepo.CountActiveAssignmentsByUser(ctx, tx,
		pure_utils.Map(candidates, func(u models.User) models.UserId { return u.UserId }))
	if err != nil {
		return nil, err
	}

	assignee := candidates[0]
	for _, candidate := range candidates[1:] {
		if counts[candidate.UserId] < counts[assignee.UserId] {
			assignee = candidate
		}
	}

	assignment, err := uc.assignmentRepo.CreateAssignment(ctx, tx, models.CreateAssignmentAttributes{
		WorkflowInstanceId: instance.Id,
		AssignedTo:         assignee.UserId,
		AssignedAt:         uc.clock.Now(),
		DueDate:            instance.DueDate,
	})
	if err != nil {
		return nil, err
	}

	logger.DebugContext(ctx, "auto-assigned workflow step",
		"workflow_instance_id", instance.Id,
		"step_id", step.Id,
		"assigned_to", string(assignment.AssignedTo))

	return []models.CreateNotificationAttributes{{
		UserId: assignee.UserId,
		Title:  fmt.Sprintf("Assigned: %s", step.Name),
		Message: fmt.Sprintf("You have been assigned step %s of case %s, due %s.",
			step.Name, instance.CaseId, assignment.DueDate.Format("2006-01-02 15:04")),
		Severity: models.NotificationSeverityInfo,
		CaseId:   &instance.CaseId,
	}}, nil
}
