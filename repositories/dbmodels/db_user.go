package dbmodels

import (
	"github.com/guregu/null/v5"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/utils"
)

type DbUser struct {
	Id           string      `db:"id"`
	Role         string      `db:"role"`
	FullName     string      `db:"full_name"`
	Email        string      `db:"email"`
	SupervisorId null.String `db:"supervisor_id"`
}

const TABLE_USERS = "users"

var SelectUserColumns = utils.ColumnList[DbUser]()

func AdaptUser(db DbUser) (models.User, error) {
	var supervisorId *models.UserId
	if db.SupervisorId.Valid {
		supervisorId = (*models.UserId)(db.SupervisorId.Ptr())
	}
	return models.User{
		UserId:       models.UserId(db.Id),
		Role:         models.RoleFromString(db.Role),
		FullName:     db.FullName,
		Email:        db.Email,
		SupervisorId: supervisorId,
	}, nil
}
