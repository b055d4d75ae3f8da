package models

import "time"

type NotificationSeverity string

const (
	NotificationSeverityInfo    NotificationSeverity = "info"
	NotificationSeverityWarning NotificationSeverity = "warning"
	NotificationSeverityOverdue NotificationSeverity = "overdue"
)

// Notification is best-effort from the engine's point of view: a failed
// delivery never rolls back the workflow transition that triggered it.
type Notification struct {
	Id        string
	UserId    UserId
	Title     string
	Message   string
	Severity  NotificationSeverity
	CaseId    *string
	CreatedAt time.Time
}

type CreateNotificationAttributes struct {
	UserId   UserId
	Title    string
	Message  string
	Severity NotificationSeverity
	CaseId   *string
}
