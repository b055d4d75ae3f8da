package dbmodels

import (
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v5"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/utils"
)

type DbAuditEntry struct {
	Id        uuid.UUID   `db:"id"`
	Seq       int64       `db:"seq"`
	Timestamp time.Time   `db:"timestamp"`
	CaseId    null.String `db:"case_id"`
	ActorId   string      `db:"actor_id"`
	ActorRole string      `db:"actor_role"`
	SessionId string      `db:"session_id"`
	IpAddress string      `db:"ip_address"`

	Action     string `db:"action"`
	ActionType string `db:"action_type"`
	Section    string `db:"section"`

	FieldChanged null.String `db:"field_changed"`
	OldValue     null.String `db:"old_value"`
	NewValue     null.String `db:"new_value"`

	Justification     string `db:"justification"`
	RegulatoryImpact  string `db:"regulatory_impact"`
	IntegrityChecksum string `db:"integrity_checksum"`
}

const TABLE_AUDIT_ENTRIES = "audit_entries"

var SelectAuditEntryColumns = utils.ColumnList[DbAuditEntry]()

func AdaptAuditEntry(db DbAuditEntry) (models.AuditEntry, error) {
	return models.AuditEntry{
		Id:                db.Id,
		Timestamp:         db.Timestamp,
		CaseId:            db.CaseId.Ptr(),
		ActorId:           models.UserId(db.ActorId),
		ActorRole:         models.RoleFromString(db.ActorRole),
		SessionId:         db.SessionId,
		IpAddress:         db.IpAddress,
		Action:            db.Action,
		ActionType:        models.ActionTypeFrom(db.ActionType),
		Section:           db.Section,
		FieldChanged:      db.FieldChanged.Ptr(),
		OldValue:          db.OldValue.Ptr(),
		NewValue:          db.NewValue.Ptr(),
		Justification:     db.Justification,
		RegulatoryImpact:  models.RegulatoryImpact(db.RegulatoryImpact),
		IntegrityChecksum: db.IntegrityChecksum,
	}, nil
}
