package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/repositories"
)

type ScheduledWorkflowRepository struct {
	mock.Mock
}

func (r *ScheduledWorkflowRepository) CreateScheduledWorkflow(ctx context.Context, exec repositories.Executor,
	schedule models.ScheduledWorkflow,
) error {
	args := r.Called(ctx, exec, schedule)
	return args.Error(0)
}

func (r *ScheduledWorkflowRepository) ListDueScheduledWorkflows(ctx context.Context, tx repositories.Transaction,
	now time.Time,
) ([]models.ScheduledWorkflow, error) {
	args := r.Called(ctx, tx, now)
	return args.Get(0).([]models.ScheduledWorkflow), args.Error(1)
}

func (r *ScheduledWorkflowRepository) MarkScheduledWorkflowStarted(ctx context.Context, exec repositories.Executor,
	id string, startedAt time.Time,
) error {
	args := r.Called(ctx, exec, id, startedAt)
	return args.Error(0)
}
