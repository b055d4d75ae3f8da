package models

import "time"

// Assignment records who owns the current step of a workflow instance. On
// step advance the previous assignments are superseded rather than mutated,
// so the ownership history stays queryable.
type Assignment struct {
	Id                 string
	WorkflowInstanceId string
	AssignedTo         UserId
	AssignedAt         time.Time
	DueDate            time.Time
	Active             bool
}

type CreateAssignmentAttributes struct {
	WorkflowInstanceId string
	AssignedTo         UserId
	AssignedAt         time.Time
	DueDate            time.Time
}
