package usecases

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/pharmelior/deviation-backend/dto"
	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/pure_utils"
)

// auditCsvHeader is the fixed export column order expected by the compliance
// tooling downstream, do not reorder.
var auditCsvHeader = []string{
	"Timestamp",
	"Action",
	"Action Type",
	"User ID",
	"User Role",
	"Section",
	"Field Changed",
	"Old Value",
	"New Value",
	"Justification",
	"Regulatory Impact",
	"IP Address",
	"Session ID",
	"Checksum",
}

// ExportCSV writes the full audit trail of a case as CSV, one header line
// plus one line per entry. Every field is quoted, including empty ones.
func (uc *AuditLogUsecase) ExportCSV(ctx context.Context, caseId string, w io.Writer) error {
	if err := writeCsvLine(w, auditCsvHeader); err != nil {
		return err
	}
	return uc.forEachCaseEntry(ctx, caseId, func(entry models.AuditEntry) error {
		d := dto.AdaptAuditEntryDto(entry)
		return writeCsvLine(w, []string{
			d.Timestamp,
			d.Action,
			d.ActionType,
			d.ActorId,
			d.ActorRole,
			d.Section,
			pure_utils.PtrValueOrDefault(d.FieldChanged, ""),
			pure_utils.PtrValueOrDefault(d.OldValue, ""),
			pure_utils.PtrValueOrDefault(d.NewValue, ""),
			d.Justification,
			d.RegulatoryImpact,
			d.IpAddress,
			d.SessionId,
			d.IntegrityChecksum,
		})
	})
}

// writeCsvLine quotes every field unconditionally, which encoding/csv does
// not do, and doubles embedded quotes per RFC 4180.
func writeCsvLine(w io.Writer, fields []string) error {
	quoted := pure_utils.Map(fields, func(field string) string {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	})
	_, err := io.WriteString(w, strings.Join(quoted, ",")+"\n")
	if err != nil {
		return errors.Wrap(err, "failed to write csv line")
	}
	return nil
}

// ExportJSON writes the full audit trail of a case as a pretty-printed JSON
// array.
func (uc *AuditLogUsecase) ExportJSON(ctx context.Context, caseId string, w io.Writer) error {
	entries := make([]dto.AuditEntryDto, 0)
	err := uc.forEachCaseEntry(ctx, caseId, func(entry models.AuditEntry) error {
		entries = append(entries, dto.AdaptAuditEntryDto(entry))
		return nil
	})
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(entries); err != nil {
		return errors.Wrap(err, "failed to encode audit trail")
	}
	return nil
}
