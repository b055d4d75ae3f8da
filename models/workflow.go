package models

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
)

type WorkflowStatus string

const (
	WorkflowStatusActive    WorkflowStatus = "active"
	WorkflowStatusCompleted WorkflowStatus = "completed"
	WorkflowStatusCancelled WorkflowStatus = "cancelled"
	UnknownWorkflowStatus   WorkflowStatus = "unknown"
)

func WorkflowStatusFrom(s string) WorkflowStatus {
	switch WorkflowStatus(s) {
	case WorkflowStatusActive, WorkflowStatusCompleted, WorkflowStatusCancelled:
		return WorkflowStatus(s)
	default:
		return UnknownWorkflowStatus
	}
}

type StepStatus string

const (
	StepStatusCompleted StepStatus = "completed"
	StepStatusActive    StepStatus = "active"
	StepStatusPending   StepStatus = "pending"
)

// WorkflowStep is one named stage of a definition with its own role, time and
// data requirements.
type WorkflowStep struct {
	Id               string
	Name             string
	RequiredRoles    []Role
	TimelineHours    int
	RequiredFields   []string
	ApprovalRequired bool
	AutoAssign       bool
	// NextSteps is ordered, the first entry is the authoritative successor.
	// Multiple successors are an extension point, no branching is evaluated.
	NextSteps []string
	FinalStep bool
}

// IsFinal reports whether completing the step terminates the instance. A step
// is final iff NextSteps is empty or FinalStep is set.
func (s WorkflowStep) IsFinal() bool {
	return s.FinalStep || len(s.NextSteps) == 0
}

// WorkflowDefinition is the static template describing a named process. It is
// loaded once at startup and never mutated at runtime.
type WorkflowDefinition struct {
	Id    string
	Name  string
	Steps []WorkflowStep
	// TriggerAfterDays delays the start of this definition when it is chained
	// after the completion of another one (e.g. a CAPA effectiveness review).
	TriggerAfterDays *int
	// OnCompleteSchedule lists definitions to schedule when this one
	// completes. Referenced definitions must declare TriggerAfterDays.
	OnCompleteSchedule []string
}

func (d WorkflowDefinition) StepById(stepId string) (WorkflowStep, bool) {
	for _, step := range d.Steps {
		if step.Id == stepId {
			return step, true
		}
	}
	return WorkflowStep{}, false
}

// StepIndex returns the position of the step in the definition order, or -1.
func (d WorkflowDefinition) StepIndex(stepId string) int {
	for i, step := range d.Steps {
		if step.Id == stepId {
			return i
		}
	}
	return -1
}

// Validate checks the structural invariants of the definition: non-empty step
// list, unique step ids, resolvable successors, and a step graph that is a
// DAG reachable from Steps[0].
func (d WorkflowDefinition) Validate() error {
	if d.Id == "" {
		return errors.Wrap(ValidationError, "workflow definition has no id")
	}
	if len(d.Steps) == 0 {
		return errors.Wrapf(ValidationError, "workflow definition %s has no steps", d.Id)
	}

	stepIds := make(map[string]struct{}, len(d.Steps))
	for _, step := range d.Steps {
		if step.Id == "" {
			return errors.Wrapf(ValidationError, "workflow definition %s has a step without id", d.Id)
		}
		if _, dup := stepIds[step.Id]; dup {
			return errors.Wrapf(ValidationError,
				"workflow definition %s has duplicate step %s", d.Id, step.Id)
		}
		stepIds[step.Id] = struct{}{}
		if step.TimelineHours <= 0 {
			return errors.Wrapf(ValidationError,
				"step %s of definition %s has no timeline budget", step.Id, d.Id)
		}
		if len(step.RequiredRoles) == 0 {
			return errors.Wrapf(ValidationError,
				"step %s of definition %s has no required roles", step.Id, d.Id)
		}
	}
	for _, step := range d.Steps {
		if step.FinalStep && len(step.NextSteps) > 0 {
			return errors.Wrapf(ValidationError,
				"final step %s of definition %s declares successors", step.Id, d.Id)
		}
		for _, next := range step.NextSteps {
			if _, ok := stepIds[next]; !ok {
				return errors.Wrapf(ValidationError,
					"step %s of definition %s references unknown successor %s", step.Id, d.Id, next)
			}
		}
	}
	if err := d.checkAcyclicAndReachable(); err != nil {
		return err
	}
	return nil
}

func (d WorkflowDefinition) checkAcyclicAndReachable() error {
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[string]int, len(d.Steps))

	var visit func(stepId string) error
	visit = func(stepId string) error {
		switch state[stepId] {
		case inProgress:
			return errors.Wrapf(ValidationError,
				"workflow definition %s has a cycle through step %s", d.Id, stepId)
		case done:
			return nil
		}
		state[stepId] = inProgress
		step, _ := d.StepById(stepId)
		for _, next := range step.NextSteps {
			if err := visit(next); err != nil {
				return err
			}
		}
		state[stepId] = done
		return nil
	}

	if err := visit(d.Steps[0].Id); err != nil {
		return err
	}
	for _, step := range d.Steps {
		if state[step.Id] != done {
			return errors.Wrapf(ValidationError,
				"step %s of definition %s is unreachable from %s", step.Id, d.Id, d.Steps[0].Id)
		}
	}
	return nil
}

// WorkflowInstance is a live run of a definition against one case. Historical
// instances are retained for audit, never deleted.
type WorkflowInstance struct {
	Id            string
	CaseId        string
	DefinitionId  string
	CurrentStepId string
	Status        WorkflowStatus
	InitiatedBy   UserId
	InitiatedAt   time.Time
	DueDate       time.Time
	CompletedBy   *UserId
	CompletedAt   *time.Time
}

func (i WorkflowInstance) IsActive() bool {
	return i.Status == WorkflowStatusActive
}

type UpdateWorkflowInstanceAttributes struct {
	Id            string
	CurrentStepId *string
	Status        *WorkflowStatus
	DueDate       *time.Time
	CompletedBy   *UserId
	CompletedAt   *time.Time
}

// ScheduledWorkflow is a deferred start of a chained definition, created when
// a parent workflow completes and its successor carries TriggerAfterDays.
type ScheduledWorkflow struct {
	Id           string
	CaseId       string
	DefinitionId string
	ScheduledBy  UserId
	TriggerAt    time.Time
	StartedAt    *time.Time
}

func (s ScheduledWorkflow) String() string {
	return fmt.Sprintf("%s for case %s at %s", s.DefinitionId, s.CaseId, s.TriggerAt.Format(time.RFC3339))
}
