package usecases

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/repositories"
	"github.com/pharmelior/deviation-backend/utils"
)

// StartScheduledWorkflows starts every deferred workflow whose trigger time
// has arrived, e.g. a CAPA effectiveness review scheduled 90 days after the
// investigation closed. Due schedules are claimed (marked started) in one
// transaction, then started one by one; a schedule whose start is refused,
// typically because an active instance already exists, is logged and skipped.
func (uc *WorkflowUsecase) StartScheduledWorkflows(ctx context.Context) error {
	logger := utils.LoggerFromContext(ctx)
	now := uc.clock.Now()

	var due []models.ScheduledWorkflow
	err := uc.transactionFactory.Transaction(ctx, func(tx repositories.Transaction) error {
		var err error
		due, err = uc.scheduledRepository.ListDueScheduledWorkflows(ctx, tx, now)
		if err != nil {
			return err
		}
		for _, schedule := range due {
			if err := uc.scheduledRepository.MarkScheduledWorkflowStarted(ctx, tx, schedule.Id, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "could not claim due workflow schedules")
	}

	for _, schedule := range due {
		if _, err := uc.StartWorkflow(ctx, schedule.DefinitionId, schedule.CaseId, schedule.ScheduledBy); err != nil {
			if errors.Is(err, models.ConflictError) {
				logger.InfoContext(ctx, "skipping scheduled workflow, an active instance exists",
					"schedule", schedule.String())
				continue
			}
			logger.ErrorContext(ctx, "failed to start scheduled workflow",
				"schedule", schedule.String(),
				"error", err)
		}
	}
	return nil
}
