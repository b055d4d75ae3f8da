package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func linearDefinition() WorkflowDefinition {
	return WorkflowDefinition{
		Id:   "definition",
		Name: "Definition",
		Steps: []WorkflowStep{
			{
				Id: "first", Name: "First", RequiredRoles: []Role{QA_INVESTIGATOR},
				TimelineHours: 24, NextSteps: []string{"second"},
			},
			{
				Id: "second", Name: "Second", RequiredRoles: []Role{QA_MANAGER},
				TimelineHours: 48, FinalStep: true,
			},
		},
	}
}

func TestWorkflowDefinitionValidateAcceptsLinearChain(t *testing.T) {
	assert.NoError(t, linearDefinition().Validate())
}

func TestWorkflowDefinitionValidateRejectsDuplicateStepIds(t *testing.T) {
	definition := linearDefinition()
	definition.Steps[1].Id = "first"
	definition.Steps[0].NextSteps = []string{"first"}

	assert.ErrorIs(t, definition.Validate(), ValidationError)
}

func TestWorkflowDefinitionValidateRejectsUnknownSuccessor(t *testing.T) {
	definition := linearDefinition()
	definition.Steps[0].NextSteps = []string{"nowhere"}

	assert.ErrorIs(t, definition.Validate(), ValidationError)
}

func TestWorkflowDefinitionValidateRejectsCycle(t *testing.T) {
	definition := linearDefinition()
	definition.Steps[1].FinalStep = false
	definition.Steps[1].NextSteps = []string{"first"}

	assert.ErrorIs(t, definition.Validate(), ValidationError)
}

func TestWorkflowDefinitionValidateRejectsUnreachableStep(t *testing.T) {
	definition := linearDefinition()
	definition.Steps = append(definition.Steps, WorkflowStep{
		Id: "orphan", Name: "Orphan", RequiredRoles: []Role{QA_MANAGER},
		TimelineHours: 24, FinalStep: true,
	})

	assert.ErrorIs(t, definition.Validate(), ValidationError)
}

func TestWorkflowDefinitionValidateRejectsFinalStepWithSuccessors(t *testing.T) {
	definition := linearDefinition()
	definition.Steps[1].NextSteps = []string{"first"}

	assert.ErrorIs(t, definition.Validate(), ValidationError)
}

func TestWorkflowDefinitionValidateRejectsMissingTimeline(t *testing.T) {
	definition := linearDefinition()
	definition.Steps[0].TimelineHours = 0

	assert.ErrorIs(t, definition.Validate(), ValidationError)
}

func TestWorkflowDefinitionValidateRejectsMissingRoles(t *testing.T) {
	definition := linearDefinition()
	definition.Steps[1].RequiredRoles = nil

	assert.ErrorIs(t, definition.Validate(), ValidationError)
}

func TestWorkflowStepIsFinal(t *testing.T) {
	assert.True(t, WorkflowStep{FinalStep: true}.IsFinal())
	assert.True(t, WorkflowStep{NextSteps: nil}.IsFinal())
	assert.False(t, WorkflowStep{NextSteps: []string{"next"}}.IsFinal())
}

func TestStepIndexAndLookup(t *testing.T) {
	definition := linearDefinition()

	assert.Equal(t, 0, definition.StepIndex("first"))
	assert.Equal(t, 1, definition.StepIndex("second"))
	assert.Equal(t, -1, definition.StepIndex("missing"))

	step, ok := definition.StepById("second")
	assert.True(t, ok)
	assert.Equal(t, "Second", step.Name)

	_, ok = definition.StepById("missing")
	assert.False(t, ok)
}
