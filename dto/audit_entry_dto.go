package dto

import (
	"time"

	"github.com/pharmelior/deviation-backend/models"
)

type AuditEntryDto struct {
	Id                string  `json:"id"`
	Timestamp         string  `json:"timestamp"`
	CaseId            *string `json:"case_id"`
	ActorId           string  `json:"actor_id"`
	ActorRole         string  `json:"actor_role"`
	SessionId         string  `json:"session_id"`
	IpAddress         string  `json:"ip_address"`
	Action            string  `json:"action"`
	ActionType        string  `json:"action_type"`
	Section           string  `json:"section"`
	FieldChanged      *string `json:"field_changed"`
	OldValue          *string `json:"old_value"`
	NewValue          *string `json:"new_value"`
	Justification     string  `json:"justification"`
	RegulatoryImpact  string  `json:"regulatory_impact"`
	IntegrityChecksum string  `json:"integrity_checksum"`
}

func AdaptAuditEntryDto(entry models.AuditEntry) AuditEntryDto {
	return AuditEntryDto{
		Id:                entry.Id.String(),
		Timestamp:         entry.Timestamp.UTC().Format(time.RFC3339),
		CaseId:            entry.CaseId,
		ActorId:           string(entry.ActorId),
		ActorRole:         entry.ActorRole.String(),
		SessionId:         entry.SessionId,
		IpAddress:         entry.IpAddress,
		Action:            entry.Action,
		ActionType:        string(entry.ActionType),
		Section:           entry.Section,
		FieldChanged:      entry.FieldChanged,
		OldValue:          entry.OldValue,
		NewValue:          entry.NewValue,
		Justification:     entry.Justification,
		RegulatoryImpact:  string(entry.RegulatoryImpact),
		IntegrityChecksum: entry.IntegrityChecksum,
	}
}
