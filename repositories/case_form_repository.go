package repositories

import (
	"context"
	"encoding/json"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/repositories/dbmodels"
)

// GetCaseFormData reads the case's current form-data blob. The blob is owned
// by the surrounding CRUD layer, the core only validates required fields
// against it.
func (repo DeviationDbRepository) GetCaseFormData(ctx context.Context, exec Executor,
	caseId string,
) (map[string]any, error) {
	query := NewQueryBuilder().
		Select(dbmodels.SelectCaseFormDataColumns...).
		From(dbmodels.TABLE_CASE_FORM_DATA).
		Where(squirrel.Eq{"case_id": caseId})

	rows, err := SqlToListOfDbModels[dbmodels.DbCaseFormData](ctx, exec, query)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.Wrapf(models.NotFoundError, "form data for case %s", caseId)
	}

	formData := map[string]any{}
	if err := json.Unmarshal(rows[0].Data, &formData); err != nil {
		return nil, errors.Wrapf(models.StorageError, "malformed form data for case %s", caseId)
	}
	return formData, nil
}
