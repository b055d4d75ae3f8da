package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/repositories"
)

type AssignmentRepository struct {
	mock.Mock
}

func (r *AssignmentRepository) CreateAssignment(ctx context.Context, exec repositories.Executor,
	attrs models.CreateAssignmentAttributes,
) (models.Assignment, error) {
	args := r.Called(ctx, exec, attrs)
	return args.Get(0).(models.Assignment), args.Error(1)
}

func (r *AssignmentRepository) SupersedeAssignments(ctx context.Context, exec repositories.Executor,
	workflowInstanceId string,
) error {
	args := r.Called(ctx, exec, workflowInstanceId)
	return args.Error(0)
}

func (r *AssignmentRepository) ListActiveAssignments(ctx context.Context, exec repositories.Executor,
	workflowInstanceId string,
) ([]models.Assignment, error) {
	args := r.Called(ctx, exec, workflowInstanceId)
	return args.Get(0).([]models.Assignment), args.Error(1)
}

func (r *AssignmentRepository) CountActiveAssignmentsByUser(ctx context.Context, exec repositories.Executor,
	userIds []models.UserId,
) (map[models.UserId]int, error) {
	args := r.Called(ctx, exec, userIds)
	return args.Get(0).(map[models.UserId]int), args.Error(1)
}
