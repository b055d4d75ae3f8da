package usecases

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/repositories"
	"github.com/pharmelior/deviation-backend/repositories/clock"
	"github.com/pharmelior/deviation-backend/usecases/executor_factory"
)

type auditEntryRepository interface {
	CreateAuditEntry(ctx context.Context, exec repositories.Executor, entry models.AuditEntry) error
	GetAuditEntry(ctx context.Context, exec repositories.Executor, id uuid.UUID) (models.AuditEntry, error)
	ListAuditEntries(ctx context.Context, exec repositories.Executor,
		filters models.AuditEntryFilters, pagination models.PaginationAndSorting) ([]models.AuditEntry, error)
}

// AuditLogUsecase is the append-only, tamper-evident record of every
// compliance relevant action. Entries are attributable, contemporaneous and
// never destroyed, per ALCOA+ and 21 CFR Part 11.
type AuditLogUsecase struct {
	executorFactory    executor_factory.ExecutorFactory
	transactionFactory executor_factory.TransactionFactory
	repository         auditEntryRepository
	clock              clock.Clock
}

func NewAuditLogUsecase(
	executorFactory executor_factory.ExecutorFactory,
	transactionFactory executor_factory.TransactionFactory,
	repository auditEntryRepository,
	clk clock.Clock,
) *AuditLogUsecase {
	return &AuditLogUsecase{
		executorFactory:    executorFactory,
		transactionFactory: transactionFactory,
		repository:         repository,
		clock:              clk,
	}
}

// Append validates and stores one audit entry as a single durable write. On
// failure the caller is expected to roll back the triggering business action,
// so no state change goes unlogged.
func (uc *AuditLogUsecase) Append(ctx context.Context,
	attrs models.CreateAuditEntryAttributes,
) (models.AuditEntry, error) {
	return executor_factory.TransactionReturnValue(ctx, uc.transactionFactory,
		func(tx repositories.Transaction) (models.AuditEntry, error) {
			return uc.AppendInTx(ctx, tx, attrs)
		})
}

// AppendInTx is Append running inside a caller-owned transaction, so that a
// workflow transition and its audit entry commit or fail together.
func (uc *AuditLogUsecase) AppendInTx(ctx context.Context, tx repositories.Transaction,
	attrs models.CreateAuditEntryAttributes,
) (models.AuditEntry, error) {
	entry, err := uc.buildEntry(attrs)
	if err != nil {
		return models.AuditEntry{}, err
	}
	if err := uc.repository.CreateAuditEntry(ctx, tx, entry); err != nil {
		return models.AuditEntry{}, errors.Wrap(err, "failed to append audit entry")
	}
	return entry, nil
}

// buildEntry computes the stored entry from a single consistent snapshot of
// the inputs: id, timestamp and checksum are assigned here, in one place.
func (uc *AuditLogUsecase) buildEntry(attrs models.CreateAuditEntryAttributes) (models.AuditEntry, error) {
	if models.ActionTypeFrom(string(attrs.ActionType)) == models.UnknownActionType {
		return models.AuditEntry{}, errors.Wrapf(models.ValidationError,
			"unknown action type %s", attrs.ActionType)
	}
	if attrs.ActionType != models.ActionTypeView && strings.TrimSpace(attrs.Justification) == "" {
		return models.AuditEntry{}, models.ErrMissingJustification
	}
	if attrs.Action == "" {
		return models.AuditEntry{}, errors.Wrap(models.ValidationError, "action label is required")
	}

	impact := attrs.RegulatoryImpact
	if impact == "" {
		impact = models.DeriveRegulatoryImpact(attrs.FieldChanged)
	}

	timestamp := uc.clock.Now().UTC()
	return models.AuditEntry{
		Id:               uuid.New(),
		Timestamp:        timestamp,
		CaseId:           attrs.CaseId,
		ActorId:          attrs.ActorId,
		ActorRole:        attrs.ActorRole,
		SessionId:        attrs.SessionId,
		IpAddress:        attrs.IpAddress,
		Action:           attrs.Action,
		ActionType:       attrs.ActionType,
		Section:          attrs.Section,
		FieldChanged:     attrs.FieldChanged,
		OldValue:         attrs.OldValue,
		NewValue:         attrs.NewValue,
		Justification:    attrs.Justification,
		RegulatoryImpact: impact,
		IntegrityChecksum: models.ComputeIntegrityChecksum(
			timestamp, attrs.Action, attrs.ActorId, attrs.OldValue, attrs.NewValue),
	}, nil
}

// Query returns entries ordered by timestamp ascending then insertion
// sequence.
func (uc *AuditLogUsecase) Query(ctx context.Context, filters models.AuditEntryFilters,
	pagination models.PaginationAndSorting,
) ([]models.AuditEntry, error) {
	return uc.repository.ListAuditEntries(ctx, uc.executorFactory.NewExecutor(), filters, pagination)
}

// Verify recomputes the integrity checksum from the entry's immutable fields.
// A mismatch is a tamper signal. Verify itself never fails.
func (uc *AuditLogUsecase) Verify(entry models.AuditEntry) bool {
	return entry.RecomputeChecksum() == entry.IntegrityChecksum
}

// VerifyEntry loads one stored entry and verifies its checksum.
func (uc *AuditLogUsecase) VerifyEntry(ctx context.Context, id uuid.UUID) (bool, error) {
	entry, err := uc.repository.GetAuditEntry(ctx, uc.executorFactory.NewExecutor(), id)
	if err != nil {
		return false, err
	}
	return uc.Verify(entry), nil
}

// ComplianceSummary aggregates the existing trail of one case, it writes
// nothing.
func (uc *AuditLogUsecase) ComplianceSummary(ctx context.Context, caseId string) (models.ComplianceSummary, error) {
	summary := models.ComplianceSummary{
		CaseId:           caseId,
		ActionTypeCounts: map[models.ActionType]int{},
		AllVerified:      true,
	}
	actors := map[models.UserId]struct{}{}

	err := uc.forEachCaseEntry(ctx, caseId, func(entry models.AuditEntry) error {
		summary.TotalEntries++
		summary.ActionTypeCounts[entry.ActionType]++
		actors[entry.ActorId] = struct{}{}
		if summary.FirstEntryAt == nil {
			firstAt := entry.Timestamp
			summary.FirstEntryAt = &firstAt
		}
		lastAt := entry.Timestamp
		summary.LastEntryAt = &lastAt
		if !uc.Verify(entry) {
			summary.AllVerified = false
		}
		return nil
	})
	if err != nil {
		return models.ComplianceSummary{}, err
	}
	summary.UniqueActors = len(actors)
	return summary, nil
}

// forEachCaseEntry pages through the full trail of a case in timestamp order.
func (uc *AuditLogUsecase) forEachCaseEntry(ctx context.Context, caseId string,
	fn func(entry models.AuditEntry) error,
) error {
	exec := uc.executorFactory.NewExecutor()
	filters := models.AuditEntryFilters{CaseId: &caseId}
	pagination := models.PaginationAndSorting{Limit: models.PaginationMaxLimit}

	for {
		entries, err := uc.repository.ListAuditEntries(ctx, exec, filters, pagination)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := fn(entry); err != nil {
				return err
			}
		}
		if len(entries) < pagination.Limit {
			return nil
		}
		pagination.OffsetId = entries[len(entries)-1].Id.String()
	}
}
