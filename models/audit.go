package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ActionType string

const (
	ActionTypeCreate     ActionType = "CREATE"
	ActionTypeUpdate     ActionType = "UPDATE"
	ActionTypeView       ActionType = "VIEW"
	ActionTypeDelete     ActionType = "DELETE"
	ActionTypeApprove    ActionType = "APPROVE"
	ActionTypeAiGenerate ActionType = "AI_GENERATE"
	ActionTypeGenerate   ActionType = "GENERATE"
	ActionTypeWorkflow   ActionType = "WORKFLOW"
	ActionTypeProcess    ActionType = "PROCESS"
	UnknownActionType    ActionType = "UNKNOWN"
)

func ActionTypeFrom(s string) ActionType {
	switch ActionType(s) {
	case ActionTypeCreate, ActionTypeUpdate, ActionTypeView, ActionTypeDelete,
		ActionTypeApprove, ActionTypeAiGenerate, ActionTypeGenerate,
		ActionTypeWorkflow, ActionTypeProcess:
		return ActionType(s)
	default:
		return UnknownActionType
	}
}

type RegulatoryImpact string

const (
	RegulatoryImpactLow    RegulatoryImpact = "Low"
	RegulatoryImpactMedium RegulatoryImpact = "Medium"
	RegulatoryImpactHigh   RegulatoryImpact = "High"
)

// regulatoryImpactByField is the fixed classification table used when the
// caller does not supply an impact explicitly. Unknown fields default to Low;
// whether they should instead require explicit classification is an open
// product decision.
var regulatoryImpactByField = map[string]RegulatoryImpact{
	"classification":     RegulatoryImpactHigh,
	"riskAssessment":     RegulatoryImpactHigh,
	"rootCause":          RegulatoryImpactHigh,
	"capaActions":        RegulatoryImpactHigh,
	"status":             RegulatoryImpactHigh,
	"problemStatement":   RegulatoryImpactMedium,
	"containmentActions": RegulatoryImpactMedium,
	"timeline":           RegulatoryImpactMedium,
}

func DeriveRegulatoryImpact(fieldChanged *string) RegulatoryImpact {
	if fieldChanged == nil {
		return RegulatoryImpactLow
	}
	if impact, ok := regulatoryImpactByField[*fieldChanged]; ok {
		return impact
	}
	return RegulatoryImpactLow
}

// AuditEntry is an immutable fact about one system event. Once appended it is
// never mutated or deleted; retention is indefinite for 21 CFR Part 11.
type AuditEntry struct {
	Id        uuid.UUID
	Timestamp time.Time
	CaseId    *string
	ActorId   UserId
	ActorRole Role
	SessionId string
	IpAddress string

	Action     string
	ActionType ActionType
	Section    string

	FieldChanged *string
	OldValue     *string
	NewValue     *string

	Justification    string
	RegulatoryImpact RegulatoryImpact

	IntegrityChecksum string
}

type CreateAuditEntryAttributes struct {
	CaseId    *string
	ActorId   UserId
	ActorRole Role
	SessionId string
	IpAddress string

	Action     string
	ActionType ActionType
	Section    string

	FieldChanged *string
	OldValue     *string
	NewValue     *string

	Justification string

	// RegulatoryImpact is derived from FieldChanged when left empty.
	RegulatoryImpact RegulatoryImpact
}

// checksumTuple is the canonical serialization the integrity checksum covers.
// Field order matters: the JSON encoder emits struct fields in declaration
// order, which makes the digest order-sensitive.
type checksumTuple struct {
	Timestamp string  `json:"timestamp"`
	Action    string  `json:"action"`
	ActorId   string  `json:"actor_id"`
	OldValue  *string `json:"old_value"`
	NewValue  *string `json:"new_value"`
}

// ComputeIntegrityChecksum returns the SHA-256 hex digest of the canonical
// JSON of the entry's immutable tuple. Recomputable at any point for tamper
// verification.
func ComputeIntegrityChecksum(timestamp time.Time, action string, actorId UserId,
	oldValue, newValue *string,
) string {
	payload, _ := json.Marshal(checksumTuple{
		Timestamp: timestamp.UTC().Format(time.RFC3339Nano),
		Action:    action,
		ActorId:   string(actorId),
		OldValue:  oldValue,
		NewValue:  newValue,
	})
	digest := sha256.Sum256(payload)
	return hex.EncodeToString(digest[:])
}

func (e AuditEntry) RecomputeChecksum() string {
	return ComputeIntegrityChecksum(e.Timestamp, e.Action, e.ActorId, e.OldValue, e.NewValue)
}

type AuditEntryFilters struct {
	CaseId     *string
	ActionType *ActionType
	ActorId    *UserId
	From       time.Time
	To         time.Time
}

type ComplianceSummary struct {
	CaseId           string
	TotalEntries     int
	UniqueActors     int
	ActionTypeCounts map[ActionType]int
	FirstEntryAt     *time.Time
	LastEntryAt      *time.Time
	AllVerified      bool
}
