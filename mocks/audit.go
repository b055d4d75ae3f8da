package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/repositories"
)

type AuditEntryRepository struct {
	mock.Mock
}

func (r *AuditEntryRepository) CreateAuditEntry(ctx context.Context, exec repositories.Executor,
	entry models.AuditEntry,
) error {
	args := r.Called(ctx, exec, entry)
	return args.Error(0)
}

func (r *AuditEntryRepository) GetAuditEntry(ctx context.Context, exec repositories.Executor,
	id uuid.UUID,
) (models.AuditEntry, error) {
	args := r.Called(ctx, exec, id)
	return args.Get(0).(models.AuditEntry), args.Error(1)
}

func (r *AuditEntryRepository) ListAuditEntries(ctx context.Context, exec repositories.Executor,
	filters models.AuditEntryFilters, pagination models.PaginationAndSorting,
) ([]models.AuditEntry, error) {
	args := r.Called(ctx, exec, filters, pagination)
	return args.Get(0).([]models.AuditEntry), args.Error(1)
}

type AuditLogger struct {
	mock.Mock
}

func (l *AuditLogger) AppendInTx(ctx context.Context, tx repositories.Transaction,
	attrs models.CreateAuditEntryAttributes,
) (models.AuditEntry, error) {
	args := l.Called(ctx, tx, attrs)
	return args.Get(0).(models.AuditEntry), args.Error(1)
}
