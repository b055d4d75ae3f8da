package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/pure_utils"
	"github.com/pharmelior/deviation-backend/repositories/dbmodels"
)

// The user directory is supplied by the surrounding system and read-only to
// this core.

func (repo DeviationDbRepository) GetUser(ctx context.Context, exec Executor,
	userId models.UserId,
) (models.User, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectUserColumns...).
		From(dbmodels.TABLE_USERS).
		Where(squirrel.Eq{"id": string(userId)})

	user, err := SqlToModel(ctx, exec, query, dbmodels.AdaptUser)
	if err != nil {
		return models.User{}, errors.Wrapf(err, "unknown user %s", userId)
	}
	return user, nil
}

func (repo DeviationDbRepository) ListUsersByRole(ctx context.Context, exec Executor,
	roles []models.Role,
) ([]models.User, error) {
	roleNames := pure_utils.Map(roles, models.Role.String)

	query := NewQueryBuilder().
		Select(dbmodels.SelectUserColumns...).
		From(dbmodels.TABLE_USERS).
		Where(squirrel.Eq{"role": roleNames}).
		OrderBy("id ASC")

	return SqlToListOfModels(ctx, exec, query, dbmodels.AdaptUser)
}

func (repo DeviationDbRepository) GetSupervisor(ctx context.Context, exec Executor,
	userId models.UserId,
) (*models.User, error) {
	user, err := repo.GetUser(ctx, exec, userId)
	if err != nil {
		return nil, err
	}
	if user.SupervisorId == nil {
		return nil, nil
	}

	supervisor, err := repo.GetUser(ctx, exec, *user.SupervisorId)
	if err != nil {
		if errors.Is(err, models.NotFoundError) {
			return nil, nil
		}
		return nil, err
	}
	return &supervisor, nil
}
