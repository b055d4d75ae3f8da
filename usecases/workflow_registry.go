package usecases

import (
	_ "embed"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/pure_utils"
)

//go:embed workflow_definitions.yaml
var embeddedWorkflowDefinitions []byte

type yamlWorkflowStep struct {
	Id               string   `yaml:"id"`
	Name             string   `yaml:"name"`
	RequiredRoles    []string `yaml:"required_roles"`
	TimelineHours    int      `yaml:"timeline_hours"`
	RequiredFields   []string `yaml:"required_fields"`
	ApprovalRequired bool     `yaml:"approval_required"`
	AutoAssign       bool     `yaml:"auto_assign"`
	NextSteps        []string `yaml:"next_steps"`
	FinalStep        bool     `yaml:"final_step"`
}

type yamlWorkflowDefinition struct {
	Id                 string             `yaml:"id"`
	Name               string             `yaml:"name"`
	TriggerAfterDays   *int               `yaml:"trigger_after_days"`
	OnCompleteSchedule []string           `yaml:"on_complete_schedule"`
	Steps              []yamlWorkflowStep `yaml:"steps"`
}

type yamlWorkflowDefinitionsFile struct {
	Definitions []yamlWorkflowDefinition `yaml:"definitions"`
}

// WorkflowRegistry is the immutable set of workflow definitions, built once
// at startup. It is only exposed through the engine's API and never mutated
// at runtime.
type WorkflowRegistry struct {
	definitions map[string]models.WorkflowDefinition
	order       []string
}

func NewWorkflowRegistry(rawYaml []byte) (WorkflowRegistry, error) {
	var file yamlWorkflowDefinitionsFile
	if err := yaml.Unmarshal(rawYaml, &file); err != nil {
		return WorkflowRegistry{}, errors.Wrap(err, "could not parse workflow definitions")
	}
	if len(file.Definitions) == 0 {
		return WorkflowRegistry{}, errors.Wrap(models.ValidationError, "no workflow definitions configured")
	}

	registry := WorkflowRegistry{
		definitions: make(map[string]models.WorkflowDefinition, len(file.Definitions)),
	}
	for _, yamlDef := range file.Definitions {
		definition, err := adaptWorkflowDefinition(yamlDef)
		if err != nil {
			return WorkflowRegistry{}, err
		}
		if err := definition.Validate(); err != nil {
			return WorkflowRegistry{}, err
		}
		if _, dup := registry.definitions[definition.Id]; dup {
			return WorkflowRegistry{}, errors.Wrapf(models.ValidationError,
				"duplicate workflow definition %s", definition.Id)
		}
		registry.definitions[definition.Id] = definition
		registry.order = append(registry.order, definition.Id)
	}

	// Chained definitions must resolve and carry a trigger delay.
	for _, definition := range registry.definitions {
		for _, chained := range definition.OnCompleteSchedule {
			target, ok := registry.definitions[chained]
			if !ok {
				return WorkflowRegistry{}, errors.Wrapf(models.ValidationError,
					"definition %s chains unknown definition %s", definition.Id, chained)
			}
			if target.TriggerAfterDays == nil {
				return WorkflowRegistry{}, errors.Wrapf(models.ValidationError,
					"chained definition %s has no trigger_after_days", chained)
			}
		}
	}
	return registry, nil
}

func NewEmbeddedWorkflowRegistry() (WorkflowRegistry, error) {
	return NewWorkflowRegistry(embeddedWorkflowDefinitions)
}

func adaptWorkflowDefinition(yamlDef yamlWorkflowDefinition) (models.WorkflowDefinition, error) {
	steps := make([]models.WorkflowStep, len(yamlDef.Steps))
	for i, yamlStep := range yamlDef.Steps {
		roles, err := pure_utils.MapErr(yamlStep.RequiredRoles, func(name string) (models.Role, error) {
			role := models.RoleFromString(name)
			if !role.IsValid() {
				return models.NO_ROLE, errors.Wrapf(models.ValidationError,
					"step %s of definition %s references unknown role %s",
					yamlStep.Id, yamlDef.Id, name)
			}
			return role, nil
		})
		if err != nil {
			return models.WorkflowDefinition{}, err
		}
		steps[i] = models.WorkflowStep{
			Id:               yamlStep.Id,
			Name:             yamlStep.Name,
			RequiredRoles:    roles,
			TimelineHours:    yamlStep.TimelineHours,
			RequiredFields:   yamlStep.RequiredFields,
			ApprovalRequired: yamlStep.ApprovalRequired,
			AutoAssign:       yamlStep.AutoAssign,
			NextSteps:        yamlStep.NextSteps,
			FinalStep:        yamlStep.FinalStep,
		}
	}
	return models.WorkflowDefinition{
		Id:                 yamlDef.Id,
		Name:               yamlDef.Name,
		Steps:              steps,
		TriggerAfterDays:   yamlDef.TriggerAfterDays,
		OnCompleteSchedule: yamlDef.OnCompleteSchedule,
	}, nil
}

func (r WorkflowRegistry) Get(definitionId string) (models.WorkflowDefinition, error) {
	definition, ok := r.definitions[definitionId]
	if !ok {
		return models.WorkflowDefinition{}, errors.Wrapf(models.ErrUnknownWorkflowDefinition,
			"definition %s", definitionId)
	}
	return definition, nil
}

func (r WorkflowRegistry) All() []models.WorkflowDefinition {
	definitions := make([]models.WorkflowDefinition, 0, len(r.order))
	for _, id := range r.order {
		definitions = append(definitions, r.definitions[id])
	}
	return definitions
}
