package models

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Base errors, related to the status the calling layer should render
var (
	// ValidationError is rendered with the http status code 400
	ValidationError = errors.New("validation failed")

	// AuthorizationError is rendered with the http status code 403
	AuthorizationError = errors.New("not authorized")

	// NotFoundError is rendered with the http status code 404
	NotFoundError = errors.New("not found")

	// ConflictError is rendered with the http status code 409
	ConflictError = errors.New("duplicate value")

	// StorageError covers failures of the persistence collaborator. It is
	// never swallowed: the triggering business action must not commit.
	StorageError = errors.New("storage failure")
)

// Audit log related errors
var ErrMissingJustification = errors.Wrap(ValidationError,
	"a justification is required for all actions other than VIEW")

// Workflow related errors
var (
	ErrUnknownWorkflowDefinition = errors.Wrap(NotFoundError, "unknown workflow definition")
	ErrWorkflowInstanceNotActive = errors.Wrap(NotFoundError, "workflow instance is not active")
	ErrDuplicateActiveWorkflow   = errors.Wrap(ConflictError,
		"an active workflow of this definition already exists for the case")
)

// MissingFieldsError reports which required fields are absent or empty on the
// case form data, so the caller can render them.
type MissingFieldsError struct {
	StepId string
	Fields []string
}

func (e MissingFieldsError) Error() string {
	return fmt.Sprintf("step %s requires non-empty fields: %s",
		e.StepId, strings.Join(e.Fields, ", "))
}

func (e MissingFieldsError) Unwrap() error {
	return ValidationError
}

// MissingRolesError reports the roles that would have allowed the actor to
// complete the current step.
type MissingRolesError struct {
	StepId        string
	ActorRole     Role
	RequiredRoles []Role
}

func (e MissingRolesError) Error() string {
	required := make([]string, len(e.RequiredRoles))
	for i, r := range e.RequiredRoles {
		required[i] = r.String()
	}
	return fmt.Sprintf("role %s may not complete step %s, requires one of: %s",
		e.ActorRole, e.StepId, strings.Join(required, ", "))
}

func (e MissingRolesError) Unwrap() error {
	return AuthorizationError
}
