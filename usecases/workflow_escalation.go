package usecases

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/repositories"
	"github.com/pharmelior/deviation-backend/utils"
)

const overdueNotifyConcurrency = 8

// CheckOverdue finds every active instance past its due date and escalates:
// the current assignees and their supervisors are notified with overdue
// severity. The deadline is a logical check, nothing blocks on it; the
// surrounding scheduler decides how often to invoke this.
func (uc *WorkflowUsecase) CheckOverdue(ctx context.Context) ([]models.WorkflowInstance, error) {
	exec := uc.executorFactory.NewExecutor()

	overdue, err := uc.workflowRepository.ListOverdueWorkflowInstances(ctx, exec, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(overdueNotifyConcurrency)
	for _, instance := range overdue {
		group.Go(func() error {
			uc.escalateInstance(groupCtx, exec, instance)
			return nil
		})
	}
	// escalateInstance never reports an error, escalation is best-effort.
	_ = group.Wait()

	return overdue, nil
}

func (uc *WorkflowUsecase) escalateInstance(ctx context.Context, exec repositories.Executor,
	instance models.WorkflowInstance,
) {
	logger := utils.LoggerFromContext(ctx)

	definitionName := instance.DefinitionId
	if definition, err := uc.registry.Get(instance.DefinitionId); err == nil {
		definitionName = definition.Name
	}
	title := fmt.Sprintf("Overdue: %s", definitionName)
	message := fmt.Sprintf("Step %s of case %s was due %s.",
		instance.CurrentStepId, instance.CaseId, instance.DueDate.Format("2006-01-02 15:04"))

	assignments, err := uc.assignmentRepo.ListActiveAssignments(ctx, exec, instance.Id)
	if err != nil {
		logger.WarnContext(ctx, "could not list assignments for overdue escalation",
			"workflow_instance_id", instance.Id,
			"error", err)
		return
	}

	notified := map[models.UserId]struct{}{}
	notify := func(userId models.UserId) {
		if _, done := notified[userId]; done {
			return
		}
		notified[userId] = struct{}{}
		if err := uc.notifier.Notify(ctx, userId, title, message,
			models.NotificationSeverityOverdue, &instance.CaseId); err != nil {
			logger.WarnContext(ctx, "failed to send overdue notification",
				"user_id", string(userId),
				"workflow_instance_id", instance.Id,
				"error", err)
		}
	}

	for _, assignment := range assignments {
		notify(assignment.AssignedTo)

		supervisor, err := uc.directory.GetSupervisor(ctx, exec, assignment.AssignedTo)
		if err != nil {
			logger.WarnContext(ctx, "could not resolve supervisor for escalation",
				"user_id", string(assignment.AssignedTo),
				"error", err)
			continue
		}
		if supervisor != nil {
			notify(supervisor.UserId)
		}
	}
}
