package jobs

import (
	"context"

	"github.com/pharmelior/deviation-backend/usecases"
)

func StartScheduledWorkflows(ctx context.Context, ucs usecases.Usecases) error {
	return ucs.NewWorkflowUsecase().StartScheduledWorkflows(ctx)
}
