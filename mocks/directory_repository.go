package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/repositories"
)

type DirectoryRepository struct {
	mock.Mock
}

func (r *DirectoryRepository) GetUser(ctx context.Context, exec repositories.Executor,
	userId models.UserId,
) (models.User, error) {
	args := r.Called(ctx, exec, userId)
	return args.Get(0).(models.User), args.Error(1)
}

func (r *DirectoryRepository) ListUsersByRole(ctx context.Context, exec repositories.Executor,
	roles []models.Role,
) ([]models.User, error) {
	args := r.Called(ctx, exec, roles)
	return args.Get(0).([]models.User), args.Error(1)
}

func (r *DirectoryRepository) GetSupervisor(ctx context.Context, exec repositories.Executor,
	userId models.UserId,
) (*models.User, error) {
	args := r.Called(ctx, exec, userId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
