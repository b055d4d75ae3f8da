package jobs

import (
	"context"

	"github.com/pharmelior/deviation-backend/usecases"
	"github.com/pharmelior/deviation-backend/utils"
)

func CheckOverdueWorkflows(ctx context.Context, ucs usecases.Usecases) error {
	logger := utils.LoggerFromContext(ctx)

	overdue, err := ucs.NewWorkflowUsecase().CheckOverdue(ctx)
	if err != nil {
		return err
	}
	if len(overdue) > 0 {
		logger.InfoContext(ctx, "escalated overdue workflow instances", "count", len(overdue))
	}
	return nil
}
