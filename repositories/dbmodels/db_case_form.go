package dbmodels

import (
	"encoding/json"
	"time"

	"github.com/pharmelior/deviation-backend/utils"
)

// DbCaseFormData is the case's own form-data blob. It is owned by the
// surrounding CRUD layer and strictly read-only to this core.
type DbCaseFormData struct {
	CaseId    string          `db:"case_id"`
	Data      json.RawMessage `db:"data"`
	UpdatedAt time.Time       `db:"updated_at"`
}

const TABLE_CASE_FORM_DATA = "case_form_data"

var SelectCaseFormDataColumns = utils.ColumnList[DbCaseFormData]()
