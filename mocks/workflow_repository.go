package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/repositories"
)

type WorkflowRepository struct {
	mock.Mock
}

func (r *WorkflowRepository) CreateWorkflowInstance(ctx context.Context, exec repositories.Executor,
	instance models.WorkflowInstance,
) error {
	args := r.Called(ctx, exec, instance)
	return args.Error(0)
}

func (r *WorkflowRepository) GetWorkflowInstance(ctx context.Context, exec repositories.Executor,
	id string,
) (models.WorkflowInstance, error) {
	args := r.Called(ctx, exec, id)
	return args.Get(0).(models.WorkflowInstance), args.Error(1)
}

func (r *WorkflowRepository) GetWorkflowInstanceForUpdate(ctx context.Context, tx repositories.Transaction,
	id string,
) (models.WorkflowInstance, error) {
	args := r.Called(ctx, tx, id)
	return args.Get(0).(models.WorkflowInstance), args.Error(1)
}

func (r *WorkflowRepository) GetActiveWorkflowInstance(ctx context.Context, exec repositories.Executor,
	definitionId, caseId string,
) (*models.WorkflowInstance, error) {
	args := r.Called(ctx, exec, definitionId, caseId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkflowInstance), args.Error(1)
}

func (r *WorkflowRepository) UpdateWorkflowInstance(ctx context.Context, exec repositories.Executor,
	attrs models.UpdateWorkflowInstanceAttributes,
) error {
	args := r.Called(ctx, exec, attrs)
	return args.Error(0)
}

func (r *WorkflowRepository) ListOverdueWorkflowInstances(ctx context.Context, exec repositories.Executor,
	now time.Time,
) ([]models.WorkflowInstance, error) {
	args := r.Called(ctx, exec, now)
	return args.Get(0).([]models.WorkflowInstance), args.Error(1)
}
