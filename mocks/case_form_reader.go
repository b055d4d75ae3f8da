package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pharmelior/deviation-backend/repositories"
)

type CaseFormReader struct {
	mock.Mock
}

func (r *CaseFormReader) GetCaseFormData(ctx context.Context, exec repositories.Executor,
	caseId string,
) (map[string]any, error) {
	args := r.Called(ctx, exec, caseId)
	return args.Get(0).(map[string]any), args.Error(1)
}
