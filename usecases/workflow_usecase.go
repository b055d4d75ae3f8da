package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/hashicorp/go-set/v2"

	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/repositories"
	"github.com/pharmelior/deviation-backend/repositories/clock"
	"github.com/pharmelior/deviation-backend/usecases/executor_factory"
	"github.com/pharmelior/deviation-backend/utils"
)

type workflowRepository interface {
	CreateWorkflowInstance(ctx context.Context, exec repositories.Executor,
		instance models.WorkflowInstance) error
	GetWorkflowInstance(ctx context.Context, exec repositories.Executor,
		id string) (models.WorkflowInstance, error)
	GetWorkflowInstanceForUpdate(ctx context.Context, tx repositories.Transaction,
		id string) (models.WorkflowInstance, error)
	GetActiveWorkflowInstance(ctx context.Context, exec repositories.Executor,
		definitionId, caseId string) (*models.WorkflowInstance, error)
	UpdateWorkflowInstance(ctx context.Context, exec repositories.Executor,
		attrs models.UpdateWorkflowInstanceAttributes) error
	ListOverdueWorkflowInstances(ctx context.Context, exec repositories.Executor,
		now time.Time) ([]models.WorkflowInstance, error)
}

type assignmentRepository interface {
	CreateAssignment(ctx context.Context, exec repositories.Executor,
		attrs models.CreateAssignmentAttributes) (models.Assignment, error)
	SupersedeAssignments(ctx context.Context, exec repositories.Executor,
		workflowInstanceId string) error
	ListActiveAssignments(ctx context.Context, exec repositories.Executor,
		workflowInstanceId string) ([]models.Assignment, error)
	CountActiveAssignmentsByUser(ctx context.Context, exec repositories.Executor,
		userIds []models.UserId) (map[models.UserId]int, error)
}

type directoryRepository interface {
	GetUser(ctx context.Context, exec repositories.Executor,
		userId models.UserId) (models.User, error)
	ListUsersByRole(ctx context.Context, exec repositories.Executor,
		roles []models.Role) ([]models.User, error)
	GetSupervisor(ctx context.Context, exec repositories.Executor,
		userId models.UserId) (*models.User, error)
}

type caseFormReader interface {
	GetCaseFormData(ctx context.Context, exec repositories.Executor,
		caseId string) (map[string]any, error)
}

type scheduledWorkflowRepository interface {
	CreateScheduledWorkflow(ctx context.Context, exec repositories.Executor,
		schedule models.ScheduledWorkflow) error
	ListDueScheduledWorkflows(ctx context.Context, tx repositories.Transaction,
		now time.Time) ([]models.ScheduledWorkflow, error)
	MarkScheduledWorkflowStarted(ctx context.Context, exec repositories.Executor,
		id string, startedAt time.Time) error
}

type workflowAuditLogger interface {
	AppendInTx(ctx context.Context, tx repositories.Transaction,
		attrs models.CreateAuditEntryAttributes) (models.AuditEntry, error)
}

// Notifier delivers assignment and escalation messages. It is best-effort:
// a delivery failure never fails the workflow transition.
type Notifier interface {
	Notify(ctx context.Context, userId models.UserId, title, message string,
		severity models.NotificationSeverity, caseId *string) error
}

// WorkflowUsecase drives a case through a named, ordered sequence of
// role-gated steps with deadlines, auto-assignment and escalation, while
// guaranteeing every transition is audited in the same transaction.
type WorkflowUsecase struct {
	executorFactory     executor_factory.ExecutorFactory
	transactionFactory  executor_factory.TransactionFactory
	registry            WorkflowRegistry
	workflowRepository  workflowRepository
	assignmentRepo      assignmentRepository
	directory           directoryRepository
	caseFormReader      caseFormReader
	scheduledRepository scheduledWorkflowRepository
	auditLogger         workflowAuditLogger
	notifier            Notifier
	clock               clock.Clock
}

func NewWorkflowUsecase(
	executorFactory executor_factory.ExecutorFactory,
	transactionFactory executor_factory.TransactionFactory,
	registry WorkflowRegistry,
	repository repositories.DeviationDbRepository,
	auditLogger workflowAuditLogger,
	notifier Notifier,
	clk clock.Clock,
) *WorkflowUsecase {
	return &WorkflowUsecase{
		executorFactory:     executorFactory,
		transactionFactory:  transactionFactory,
		registry:            registry,
		workflowRepository:  repository,
		assignmentRepo:      repository,
		directory:           repository,
		caseFormReader:      repository,
		scheduledRepository: repository,
		auditLogger:         auditLogger,
		notifier:            notifier,
		clock:               clk,
	}
}

// StartWorkflow creates an instance of the definition at its first step.
// Exactly one active instance of a definition may exist per case.
func (uc *WorkflowUsecase) StartWorkflow(ctx context.Context,
	definitionId, caseId string, initiatedBy models.UserId,
) (models.WorkflowInstance, error) {
	definition, err := uc.registry.Get(definitionId)
	if err != nil {
		return models.WorkflowInstance{}, err
	}
	initiator, err := uc.directory.GetUser(ctx, uc.executorFactory.NewExecutor(), initiatedBy)
	if err != nil {
		return models.WorkflowInstance{}, err
	}

	firstStep := definition.Steps[0]
	now := uc.clock.Now()

	var pending []models.CreateNotificationAttributes
	instance, err := executor_factory.TransactionReturnValue(ctx, uc.transactionFactory,
		func(tx repositories.Transaction) (models.WorkflowInstance, error) {
			existing, err := uc.workflowRepository.GetActiveWorkflowInstance(ctx, tx, definitionId, caseId)
			if err != nil {
				return models.WorkflowInstance{}, err
			}
			if existing != nil {
				return models.WorkflowInstance{}, errors.Wrapf(models.ErrDuplicateActiveWorkflow,
					"definition %s, case %s", definitionId, caseId)
			}

			instance := models.WorkflowInstance{
				Id:            uuid.NewString(),
				CaseId:        caseId,
				DefinitionId:  definitionId,
				CurrentStepId: firstStep.Id,
				Status:        models.WorkflowStatusActive,
				InitiatedBy:   initiatedBy,
				InitiatedAt:   now,
				DueDate:       now.Add(time.Duration(firstStep.TimelineHours) * time.Hour),
			}
			if err := uc.workflowRepository.CreateWorkflowInstance(ctx, tx, instance); err != nil {
				return models.WorkflowInstance{}, err
			}

			session := utils.SessionFromContext(ctx)
			if _, err := uc.auditLogger.AppendInTx(ctx, tx, models.CreateAuditEntryAttributes{
				CaseId:        &caseId,
				ActorId:       initiatedBy,
				ActorRole:     initiator.Role,
				SessionId:     session.SessionId,
				IpAddress:     session.IpAddress,
				Action:        fmt.Sprintf("Workflow started: %s", definition.Name),
				ActionType:    models.ActionTypeWorkflow,
				Section:       "Workflow",
				NewValue:      &firstStep.Id,
				Justification: fmt.Sprintf("Initiated %s for case %s", definition.Name, caseId),
			}); err != nil {
				return models.WorkflowInstance{}, err
			}

			if firstStep.AutoAssign {
				notifications, err := uc.autoAssignStep(ctx, tx, instance, firstStep)
				if err != nil {
					return models.WorkflowInstance{}, err
				}
				pending = append(pending, notifications...)
			}
			return instance, nil
		})
	if err != nil {
		return models.WorkflowInstance{}, err
	}

	uc.dispatchNotifications(ctx, pending)
	return instance, nil
}

// AdvanceWorkflow completes the current step of an active instance on behalf
// of the actor. The instance row is locked for the duration of the
// transaction, so concurrent advances serialize. A rejected advance leaves no
// partial state behind.
func (uc *WorkflowUsecase) AdvanceWorkflow(ctx context.Context,
	instanceId string, actorId models.UserId, comments string,
) (models.WorkflowInstance, error) {
	if strings.TrimSpace(comments) == "" {
		return models.WorkflowInstance{}, errors.Wrap(models.ValidationError,
			"comments are required to complete a step")
	}
	actor, err := uc.directory.GetUser(ctx, uc.executorFactory.NewExecutor(), actorId)
	if err != nil {
		return models.WorkflowInstance{}, err
	}

	var pending []models.CreateNotificationAttributes
	instance, err := executor_factory.TransactionReturnValue(ctx, uc.transactionFactory,
		func(tx repositories.Transaction) (models.WorkflowInstance, error) {
			instance, err := uc.workflowRepository.GetWorkflowInstanceForUpdate(ctx, tx, instanceId)
			if err != nil {
				return models.WorkflowInstance{}, err
			}
			if !instance.IsActive() {
				return models.WorkflowInstance{}, errors.Wrapf(models.ErrWorkflowInstanceNotActive,
					"instance %s has status %s", instance.Id, instance.Status)
			}

			definition, err := uc.registry.Get(instance.DefinitionId)
			if err != nil {
				return models.WorkflowInstance{}, err
			}
			step, ok := definition.StepById(instance.CurrentStepId)
			if !ok {
				return models.WorkflowInstance{}, errors.Wrapf(models.StorageError,
					"instance %s references unknown step %s", instance.Id, instance.CurrentStepId)
			}

			if !set.From(step.RequiredRoles).Contains(actor.Role) {
				return models.WorkflowInstance{}, models.MissingRolesError{
					StepId:        step.Id,
					ActorRole:     actor.Role,
					RequiredRoles: step.RequiredRoles,
				}
			}
			if err := uc.checkRequiredFields(ctx, tx, instance.CaseId, step); err != nil {
				return models.WorkflowInstance{}, err
			}

			session := utils.SessionFromContext(ctx)
			completed := "completed"
			if _, err := uc.auditLogger.AppendInTx(ctx, tx, models.CreateAuditEntryAttributes{
				CaseId:        &instance.CaseId,
				ActorId:       actorId,
				ActorRole:     actor.Role,
				SessionId:     session.SessionId,
				IpAddress:     session.IpAddress,
				Action:        fmt.Sprintf("Completed workflow step: %s", step.Name),
				ActionType:    models.ActionTypeWorkflow,
				Section:       "Workflow",
				OldValue:      &instance.CurrentStepId,
				NewValue:      &completed,
				Justification: comments,
			}); err != nil {
				return models.WorkflowInstance{}, err
			}

			if step.IsFinal() {
				return uc.completeInstance(ctx, tx, instance, definition, actorId, &pending)
			}
			return uc.moveToNextStep(ctx, tx, instance, definition, step, &pending)
		})
	if err != nil {
		return models.WorkflowInstance{}, err
	}

	uc.dispatchNotifications(ctx, pending)
	return instance, nil
}

// checkRequiredFields validates that every field the step requires is present
// and non-empty on the case's current form data.
func (uc *WorkflowUsecase) checkRequiredFields(ctx context.Context, tx repositories.Transaction,
	caseId string, step models.WorkflowStep,
) error {
	if len(step.RequiredFields) == 0 {
		return nil
	}
	formData, err := uc.caseFormReader.GetCaseFormData(ctx, tx, caseId)
	if err != nil {
		return err
	}

	var missing []string
	for _, field := range step.RequiredFields {
		if isEmptyFieldValue(formData[field]) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return models.MissingFieldsError{StepId: step.Id, Fields: missing}
	}
	return nil
}

func isEmptyFieldValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}

func (uc *WorkflowUsecase) completeInstance(ctx context.Context, tx repositories.Transaction,
	instance models.WorkflowInstance, definition models.WorkflowDefinition,
	actorId models.UserId, pending *[]models.CreateNotificationAttributes,
) (models.WorkflowInstance, error) {
	now := uc.clock.Now()
	completedStatus := models.WorkflowStatusCompleted

	if err := uc.workflowRepository.UpdateWorkflowInstance(ctx, tx, models.UpdateWorkflowInstanceAttributes{
		Id:          instance.Id,
		Status:      &completedStatus,
		CompletedBy: &actorId,
		CompletedAt: &now,
	}); err != nil {
		return models.WorkflowInstance{}, err
	}
	if err := uc.assignmentRepo.SupersedeAssignments(ctx, tx, instance.Id); err != nil {
		return models.WorkflowInstance{}, err
	}

	for _, chainedId := range definition.OnCompleteSchedule {
		chained, err := uc.registry.Get(chainedId)
		if err != nil {
			return models.WorkflowInstance{}, err
		}
		triggerAt := now.Add(time.Duration(*chained.TriggerAfterDays) * 24 * time.Hour)
		if err := uc.scheduledRepository.CreateScheduledWorkflow(ctx, tx, models.ScheduledWorkflow{
			Id:           uuid.NewString(),
			CaseId:       instance.CaseId,
			DefinitionId: chainedId,
			ScheduledBy:  actorId,
			TriggerAt:    triggerAt,
		}); err != nil {
			return models.WorkflowInstance{}, err
		}
	}

	*pending = append(*pending, models.CreateNotificationAttributes{
		UserId:   instance.InitiatedBy,
		Title:    fmt.Sprintf("Workflow completed: %s", definition.Name),
		Message:  fmt.Sprintf("%s for case %s has been completed.", definition.Name, instance.CaseId),
		Severity: models.NotificationSeverityInfo,
		CaseId:   &instance.CaseId,
	})

	instance.Status = models.WorkflowStatusCompleted
	instance.CompletedBy = &actorId
	instance.CompletedAt = &now
	return instance, nil
}

func (uc *WorkflowUsecase) moveToNextStep(ctx context.Context, tx repositories.Transaction,
	instance models.WorkflowInstance, definition models.WorkflowDefinition,
	currentStep models.WorkflowStep, pending *[]models.CreateNotificationAttributes,
) (models.WorkflowInstance, error) {
	// The first listed successor is authoritative, no branching is evaluated.
	nextStepId := currentStep.NextSteps[0]
	nextStep, ok := definition.StepById(nextStepId)
	if !ok {
		return models.WorkflowInstance{}, errors.Wrapf(models.StorageError,
			"definition %s references unknown step %s", definition.Id, nextStepId)
	}

	dueDate := uc.clock.Now().Add(time.Duration(nextStep.TimelineHours) * time.Hour)
	if err := uc.workflowRepository.UpdateWorkflowInstance(ctx, tx, models.UpdateWorkflowInstanceAttributes{
		Id:            instance.Id,
		CurrentStepId: &nextStepId,
		DueDate:       &dueDate,
	}); err != nil {
		return models.WorkflowInstance{}, err
	}
	if err := uc.assignmentRepo.SupersedeAssignments(ctx, tx, instance.Id); err != nil {
		return models.WorkflowInstance{}, err
	}

	instance.CurrentStepId = nextStepId
	instance.DueDate = dueDate

	if nextStep.AutoAssign {
		notifications, err := uc.autoAssignStep(ctx, tx, instance, nextStep)
		if err != nil {
			return models.WorkflowInstance{}, err
		}
		*pending = append(*pending, notifications...)
	}
	return instance, nil
}

// GetWorkflowInstance loads one instance by id, historical or active.
func (uc *WorkflowUsecase) GetWorkflowInstance(ctx context.Context,
	instanceId string,
) (models.WorkflowInstance, error) {
	return uc.workflowRepository.GetWorkflowInstance(ctx, uc.executorFactory.NewExecutor(), instanceId)
}

// GetStepStatus classifies a step of the definition relative to the
// instance's current position, by index in the definition's step order.
func (uc *WorkflowUsecase) GetStepStatus(instance models.WorkflowInstance,
	definition models.WorkflowDefinition, stepId string,
) (models.StepStatus, error) {
	stepIndex := definition.StepIndex(stepId)
	if stepIndex < 0 {
		return "", errors.Wrapf(models.NotFoundError,
			"step %s in definition %s", stepId, definition.Id)
	}
	if instance.Status == models.WorkflowStatusCompleted {
		return models.StepStatusCompleted, nil
	}

	currentIndex := definition.StepIndex(instance.CurrentStepId)
	switch {
	case stepIndex < currentIndex:
		return models.StepStatusCompleted, nil
	case stepIndex == currentIndex:
		return models.StepStatusActive, nil
	default:
		return models.StepStatusPending, nil
	}
}

func (uc *WorkflowUsecase) dispatchNotifications(ctx context.Context,
	notifications []models.CreateNotificationAttributes,
) {
	logger := utils.LoggerFromContext(ctx)
	for _, n := range notifications {
		if err := uc.notifier.Notify(ctx, n.UserId, n.Title, n.Message, n.Severity, n.CaseId); err != nil {
			logger.WarnContext(ctx, "failed to send notification",
				"user_id", string(n.UserId),
				"title", n.Title,
				"error", err)
		}
	}
}
