package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/pharmelior/deviation-backend/mocks"
	"github.com/pharmelior/deviation-backend/models"
	"github.com/pharmelior/deviation-backend/repositories"
	"github.com/pharmelior/deviation-backend/repositories/clock"
	"github.com/pharmelior/deviation-backend/usecases/executor_factory"
)

type WorkflowUsecaseTestSuite struct {
	suite.Suite
	executorFactory     executor_factory.ExecutorFactoryStub
	workflowRepository  *mocks.WorkflowRepository
	assignmentRepo      *mocks.AssignmentRepository
	directory           *mocks.DirectoryRepository
	caseFormReader      *mocks.CaseFormReader
	scheduledRepository *mocks.ScheduledWorkflowRepository
	auditLogger         *mocks.AuditLogger
	notifier            *mocks.Notifier
	registry            WorkflowRegistry
	clock               *clock.Mock

	now          time.Time
	caseId       string
	investigator models.User
	qaManager    models.User
}

func (suite *WorkflowUsecaseTestSuite) SetupTest() {
	suite.executorFactory = executor_factory.NewExecutorFactoryStub()
	suite.workflowRepository = new(mocks.WorkflowRepository)
	suite.assignmentRepo = new(mocks.AssignmentRepository)
	suite.directory = new(mocks.DirectoryRepository)
	suite.caseFormReader = new(mocks.CaseFormReader)
	suite.scheduledRepository = new(mocks.ScheduledWorkflowRepository)
	suite.auditLogger = new(mocks.AuditLogger)
	suite.notifier = new(mocks.Notifier)

	registry, err := NewEmbeddedWorkflowRegistry()
	suite.Require().NoError(err)
	suite.registry = registry

	suite.now = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	suite.clock = clock.NewMock(suite.now)

	suite.caseId = "DEV-2024-0042"
	suite.investigator = models.User{
		UserId: "u-diaz", Role: models.QA_INVESTIGATOR,
		FullName: "R. Diaz", Email: "r.diaz@example.com",
	}
	suite.qaManager = models.User{
		UserId: "u-okafor", Role: models.QA_MANAGER,
		FullName: "C. Okafor", Email: "c.okafor@example.com",
	}
}

func (suite *WorkflowUsecaseTestSuite) makeUsecase() *WorkflowUsecase {
	return &WorkflowUsecase{
		executorFactory:     suite.executorFactory,
		transactionFactory:  suite.executorFactory,
		registry:            suite.registry,
		workflowRepository:  suite.workflowRepository,
		assignmentRepo:      suite.assignmentRepo,
		directory:           suite.directory,
		caseFormReader:      suite.caseFormReader,
		scheduledRepository: suite.scheduledRepository,
		auditLogger:         suite.auditLogger,
		notifier:            suite.notifier,
		clock:               suite.clock,
	}
}

func (suite *WorkflowUsecaseTestSuite) AssertExpectations() {
	t := suite.T()
	suite.workflowRepository.AssertExpectations(t)
	suite.assignmentRepo.AssertExpectations(t)
	suite.directory.AssertExpectations(t)
	suite.caseFormReader.AssertExpectations(t)
	suite.scheduledRepository.AssertExpectations(t)
	suite.auditLogger.AssertExpectations(t)
	suite.notifier.AssertExpectations(t)
}

func (suite *WorkflowUsecaseTestSuite) activeInstance(stepId string) models.WorkflowInstance {
	return models.WorkflowInstance{
		Id:            "wfi-1",
		CaseId:        suite.caseId,
		DefinitionId:  "deviation_investigation",
		CurrentStepId: stepId,
		Status:        models.WorkflowStatusActive,
		InitiatedBy:   suite.investigator.UserId,
		InitiatedAt:   suite.now.Add(-24 * time.Hour),
		DueDate:       suite.now.Add(48 * time.Hour),
	}
}

func (suite *WorkflowUsecaseTestSuite) Test_StartWorkflow_InitiatesAtFirstStep() {
	ctx := context.Background()

	suite.directory.On("GetUser", ctx, mock.Anything, suite.investigator.UserId).
		Return(suite.investigator, nil)
	suite.workflowRepository.On("GetActiveWorkflowInstance", ctx, mock.Anything,
		"deviation_investigation", suite.caseId).
		Return(nil, nil)
	suite.workflowRepository.On("CreateWorkflowInstance", ctx, mock.Anything,
		mock.MatchedBy(func(instance models.WorkflowInstance) bool {
			return instance.CurrentStepId == "initiation" &&
				instance.Status == models.WorkflowStatusActive &&
				instance.DueDate.Equal(suite.now.Add(72*time.Hour))
		})).
		Return(nil)
	suite.auditLogger.On("AppendInTx", ctx, mock.Anything,
		mock.MatchedBy(func(attrs models.CreateAuditEntryAttributes) bool {
			return attrs.ActionType == models.ActionTypeWorkflow &&
				attrs.NewValue != nil && *attrs.NewValue == "initiation"
		})).
		Return(models.AuditEntry{}, nil)

	// First step auto-assigns: the investigator is the only candidate.
	suite.directory.On("ListUsersByRole", ctx, mock.Anything,
		[]models.Role{models.QA_INVESTIGATOR, models.QA_MANAGER}).
		Return([]models.User{suite.investigator}, nil)
	suite.assignmentRepo.On("CountActiveAssignmentsByUser", ctx, mock.Anything,
		[]models.UserId{suite.investigator.UserId}).
		Return(map[models.UserId]int{suite.investigator.UserId: 0}, nil)
	suite.assignmentRepo.On("CreateAssignment", ctx, mock.Anything, mock.Anything).
		Return(models.Assignment{AssignedTo: suite.investigator.UserId}, nil)
	suite.notifier.On("Notify", ctx, suite.investigator.UserId, mock.Anything, mock.Anything,
		models.NotificationSeverityInfo, &suite.caseId).
		Return(nil)

	instance, err := suite.makeUsecase().StartWorkflow(ctx,
		"deviation_investigation", suite.caseId, suite.investigator.UserId)

	suite.NoError(err)
	suite.Equal("initiation", instance.CurrentStepId)
	suite.Equal(models.WorkflowStatusActive, instance.Status)
	suite.Equal(suite.now.Add(72*time.Hour), instance.DueDate)
	suite.Equal(suite.investigator.UserId, instance.InitiatedBy)

	suite.AssertExpectations()
}

func (suite *WorkflowUsecaseTestSuite) Test_StartWorkflow_RejectsDuplicateActiveInstance() {
	ctx := context.Background()
	existing := suite.activeInstance("evaluation")

	suite.directory.On("GetUser", ctx, mock.Anything, suite.investigator.UserId).
		Return(suite.investigator, nil)
	suite.workflowRepository.On("GetActiveWorkflowInstance", ctx, mock.Anything,
		"deviation_investigation", suite.caseId).
		Return(&existing, nil)

	_, err := suite.makeUsecase().StartWorkflow(ctx,
		"deviation_investigation", suite.caseId, suite.investigator.UserId)

	suite.ErrorIs(err, models.ErrDuplicateActiveWorkflow)
	suite.ErrorIs(err, models.ConflictError)

	suite.AssertExpectations()
}

func (suite *WorkflowUsecaseTestSuite) Test_StartWorkflow_UnknownDefinition() {
	ctx := context.Background()

	_, err := suite.makeUsecase().StartWorkflow(ctx,
		"no_such_definition", suite.caseId, suite.investigator.UserId)

	suite.ErrorIs(err, models.ErrUnknownWorkflowDefinition)
	suite.ErrorIs(err, models.NotFoundError)
}

func (suite *WorkflowUsecaseTestSuite) Test_AdvanceWorkflow_RejectsActorWithoutRequiredRole() {
	ctx := context.Background()
	supervisor := models.User{UserId: "u-vance", Role: models.PRODUCTION_SUPERVISOR}
	instance := suite.activeInstance("capa_approval")

	suite.directory.On("GetUser", ctx, mock.Anything, supervisor.UserId).
		Return(supervisor, nil)
	suite.workflowRepository.On("GetWorkflowInstanceForUpdate", ctx, mock.Anything, instance.Id).
		Return(instance, nil)

	_, err := suite.makeUsecase().AdvanceWorkflow(ctx, instance.Id, supervisor.UserId,
		"approving the CAPA plan")

	suite.ErrorIs(err, models.AuthorizationError)
	var missingRoles models.MissingRolesError
	suite.ErrorAs(err, &missingRoles)
	suite.Equal("capa_approval", missingRoles.StepId)
	suite.Equal(models.PRODUCTION_SUPERVISOR, missingRoles.ActorRole)
	suite.Equal([]models.Role{models.QA_MANAGER, models.QUALITY_DIRECTOR}, missingRoles.RequiredRoles)

	suite.AssertExpectations()
}

func (suite *WorkflowUsecaseTestSuite) Test_AdvanceWorkflow_RejectsMissingRequiredFields() {
	ctx := context.Background()
	instance := suite.activeInstance("evaluation")

	suite.directory.On("GetUser", ctx, mock.Anything, suite.investigator.UserId).
		Return(suite.investigator, nil)
	suite.workflowRepository.On("GetWorkflowInstanceForUpdate", ctx, mock.Anything, instance.Id).
		Return(instance, nil)
	suite.caseFormReader.On("GetCaseFormData", ctx, mock.Anything, suite.caseId).
		Return(map[string]any{
			"problem_statement": "Filter integrity test failed on line 3",
			"risk_assessment":   "   ",
		}, nil)

	_, err := suite.makeUsecase().AdvanceWorkflow(ctx, instance.Id, suite.investigator.UserId,
		"evaluation done")

	suite.ErrorIs(err, models.ValidationError)
	var missingFields models.MissingFieldsError
	suite.ErrorAs(err, &missingFields)
	suite.Equal("evaluation", missingFields.StepId)
	suite.Equal([]string{"risk_assessment"}, missingFields.Fields)

	suite.AssertExpectations()
}

func (suite *WorkflowUsecaseTestSuite) Test_AdvanceWorkflow_RequiresComments() {
	ctx := context.Background()

	_, err := suite.makeUsecase().AdvanceWorkflow(ctx, "wfi-1", suite.investigator.UserId, "   ")

	suite.ErrorIs(err, models.ValidationError)
}

func (suite *WorkflowUsecaseTestSuite) Test_AdvanceWorkflow_RejectsCompletedInstance() {
	ctx := context.Background()
	instance := suite.activeInstance("closure")
	instance.Status = models.WorkflowStatusCompleted

	suite.directory.On("GetUser", ctx, mock.Anything, suite.qaManager.UserId).
		Return(suite.qaManager, nil)
	suite.workflowRepository.On("GetWorkflowInstanceForUpdate", ctx, mock.Anything, instance.Id).
		Return(instance, nil)

	_, err := suite.makeUsecase().AdvanceWorkflow(ctx, instance.Id, suite.qaManager.UserId,
		"trying to close again")

	suite.ErrorIs(err, models.ErrWorkflowInstanceNotActive)

	suite.AssertExpectations()
}

func (suite *WorkflowUsecaseTestSuite) Test_AdvanceWorkflow_MovesToNextStep() {
	ctx := context.Background()
	actor := models.User{UserId: "u-barnes", Role: models.DEPARTMENT_MANAGER}
	instance := suite.activeInstance("implementation")

	suite.directory.On("GetUser", ctx, mock.Anything, actor.UserId).
		Return(actor, nil)
	suite.workflowRepository.On("GetWorkflowInstanceForUpdate", ctx, mock.Anything, instance.Id).
		Return(instance, nil)
	suite.caseFormReader.On("GetCaseFormData", ctx, mock.Anything, suite.caseId).
		Return(map[string]any{"implementation_notes": "All CAPA actions deployed to line 3"}, nil)
	suite.auditLogger.On("AppendInTx", ctx, mock.Anything,
		mock.MatchedBy(func(attrs models.CreateAuditEntryAttributes) bool {
			return attrs.ActionType == models.ActionTypeWorkflow &&
				attrs.OldValue != nil && *attrs.OldValue == "implementation" &&
				attrs.Justification == "all actions deployed and verified"
		})).
		Return(models.AuditEntry{}, nil)
	expectedDueDate := suite.now.Add(24 * time.Hour)
	suite.workflowRepository.On("UpdateWorkflowInstance", ctx, mock.Anything,
		mock.MatchedBy(func(attrs models.UpdateWorkflowInstanceAttributes) bool {
			return attrs.Id == instance.Id &&
				attrs.CurrentStepId != nil && *attrs.CurrentStepId == "closure" &&
				attrs.DueDate != nil && attrs.DueDate.Equal(expectedDueDate)
		})).
		Return(nil)
	suite.assignmentRepo.On("SupersedeAssignments", ctx, mock.Anything, instance.Id).
		Return(nil)

	advanced, err := suite.makeUsecase().AdvanceWorkflow(ctx, instance.Id, actor.UserId,
		"all actions deployed and verified")

	suite.NoError(err)
	suite.Equal("closure", advanced.CurrentStepId)
	suite.Equal(expectedDueDate, advanced.DueDate)
	suite.Equal(models.WorkflowStatusActive, advanced.Status)

	suite.AssertExpectations()
}

func (suite *WorkflowUsecaseTestSuite) Test_AdvanceWorkflow_FinalStepCompletesAndSchedulesChainedWorkflow() {
	ctx := context.Background()
	instance := suite.activeInstance("closure")

	suite.directory.On("GetUser", ctx, mock.Anything, suite.qaManager.UserId).
		Return(suite.qaManager, nil)
	suite.workflowRepository.On("GetWorkflowInstanceForUpdate", ctx, mock.Anything, instance.Id).
		Return(instance, nil)
	suite.caseFormReader.On("GetCaseFormData", ctx, mock.Anything, suite.caseId).
		Return(map[string]any{"closure_summary": "Root cause confirmed, CAPA effective"}, nil)
	suite.auditLogger.On("AppendInTx", ctx, mock.Anything, mock.Anything).
		Return(models.AuditEntry{}, nil)
	completedStatus := models.WorkflowStatusCompleted
	suite.workflowRepository.On("UpdateWorkflowInstance", ctx, mock.Anything,
		mock.MatchedBy(func(attrs models.UpdateWorkflowInstanceAttributes) bool {
			return attrs.Id == instance.Id &&
				attrs.Status != nil && *attrs.Status == completedStatus &&
				attrs.CompletedBy != nil && *attrs.CompletedBy == suite.qaManager.UserId
		})).
		Return(nil)
	suite.assignmentRepo.On("SupersedeAssignments", ctx, mock.Anything, instance.Id).
		Return(nil)
	suite.scheduledRepository.On("CreateScheduledWorkflow", ctx, mock.Anything,
		mock.MatchedBy(func(schedule models.ScheduledWorkflow) bool {
			return schedule.DefinitionId == "capa_effectiveness" &&
				schedule.CaseId == suite.caseId &&
				schedule.TriggerAt.Equal(suite.now.Add(90*24*time.Hour))
		})).
		Return(nil)
	suite.notifier.On("Notify", ctx, instance.InitiatedBy, mock.Anything, mock.Anything,
		models.NotificationSeverityInfo, &suite.caseId).
		Return(nil)

	completed, err := suite.makeUsecase().AdvanceWorkflow(ctx, instance.Id, suite.qaManager.UserId,
		"investigation closed")

	suite.NoError(err)
	suite.Equal(models.WorkflowStatusCompleted, completed.Status)
	suite.NotNil(completed.CompletedAt)
	suite.Equal(suite.now, *completed.CompletedAt)
	suite.NotNil(completed.CompletedBy)
	suite.Equal(suite.qaManager.UserId, *completed.CompletedBy)

	suite.AssertExpectations()
}

func (suite *WorkflowUsecaseTestSuite) Test_AdvanceWorkflow_AllSevenStepsInOrder() {
	ctx := context.Background()
	definition, err := suite.registry.Get("deviation_investigation")
	suite.Require().NoError(err)

	capaOwner := models.User{UserId: "u-laurent", Role: models.CAPA_OWNER}
	actorByStep := map[string]models.User{
		"initiation":     suite.investigator,
		"evaluation":     suite.investigator,
		"investigation":  suite.investigator,
		"capa_planning":  capaOwner,
		"capa_approval":  suite.qaManager,
		"implementation": capaOwner,
		"closure":        suite.qaManager,
	}
	for _, actor := range []models.User{suite.investigator, suite.qaManager, capaOwner} {
		suite.directory.On("GetUser", ctx, mock.Anything, actor.UserId).Return(actor, nil)
	}

	suite.caseFormReader.On("GetCaseFormData", ctx, mock.Anything, suite.caseId).
		Return(map[string]any{
			"title":                "Filter integrity failure",
			"description":          "Integrity test failed on line 3",
			"risk_assessment":      "Low patient risk, batch quarantined",
			"problem_statement":    "Filter failed post-use integrity test",
			"root_cause":           "Seal degradation",
			"capa_actions":         "Replace seal lot, revise inspection SOP",
			"implementation_notes": "All CAPA actions deployed",
			"closure_summary":      "Root cause confirmed, CAPA effective",
		}, nil)
	suite.auditLogger.On("AppendInTx", ctx, mock.Anything, mock.Anything).
		Return(models.AuditEntry{}, nil)
	suite.workflowRepository.On("UpdateWorkflowInstance", ctx, mock.Anything, mock.Anything).
		Return(nil)
	suite.assignmentRepo.On("SupersedeAssignments", ctx, mock.Anything, "wfi-1").
		Return(nil)
	suite.directory.On("ListUsersByRole", ctx, mock.Anything, mock.Anything).
		Return([]models.User{suite.investigator}, nil)
	suite.assignmentRepo.On("CountActiveAssignmentsByUser", ctx, mock.Anything, mock.Anything).
		Return(map[models.UserId]int{suite.investigator.UserId: 0}, nil)
	suite.assignmentRepo.On("CreateAssignment", ctx, mock.Anything, mock.Anything).
		Return(models.Assignment{AssignedTo: suite.investigator.UserId}, nil)
	suite.scheduledRepository.On("CreateScheduledWorkflow", ctx, mock.Anything,
		mock.MatchedBy(func(schedule models.ScheduledWorkflow) bool {
			return schedule.DefinitionId == "capa_effectiveness" &&
				schedule.TriggerAt.Equal(suite.now.Add(90*24*time.Hour))
		})).
		Return(nil)
	suite.notifier.On("Notify", ctx, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).
		Return(nil)

	uc := suite.makeUsecase()
	current := suite.activeInstance("initiation")
	for i, step := range definition.Steps {
		suite.workflowRepository.On("GetWorkflowInstanceForUpdate", ctx, mock.Anything, current.Id).
			Return(current, nil).Once()

		advanced, err := uc.AdvanceWorkflow(ctx, current.Id, actorByStep[step.Id].UserId,
			"completing "+step.Id)
		suite.Require().NoError(err, "advancing from %s", step.Id)

		if i < len(definition.Steps)-1 {
			suite.Equal(definition.Steps[i+1].Id, advanced.CurrentStepId)
			// The instance only ever moves forward through the step order.
			suite.Greater(definition.StepIndex(advanced.CurrentStepId),
				definition.StepIndex(current.CurrentStepId))
			suite.Equal(models.WorkflowStatusActive, advanced.Status)
		} else {
			suite.Equal(models.WorkflowStatusCompleted, advanced.Status)
			suite.Require().NotNil(advanced.CompletedAt)
			suite.Equal(suite.now, *advanced.CompletedAt)
		}
		current = advanced
	}

	suite.AssertExpectations()
}

func (suite *WorkflowUsecaseTestSuite) Test_AutoAssign_PicksLeastLoadedUser() {
	ctx := context.Background()
	instance := suite.activeInstance("initiation")
	step, _ := suite.registry.definitions["deviation_investigation"].StepById("initiation")
	tx := suite.executorFactory.NewExecutor().(repositories.Transaction)

	candidates := []models.User{suite.investigator, suite.qaManager}
	suite.directory.On("ListUsersByRole", ctx, tx, step.RequiredRoles).
		Return(candidates, nil)
	suite.assignmentRepo.On("CountActiveAssignmentsByUser", ctx, tx,
		[]models.UserId{suite.investigator.UserId, suite.qaManager.UserId}).
		Return(map[models.UserId]int{
			suite.investigator.UserId: 3,
			suite.qaManager.UserId:    1,
		}, nil)
	suite.assignmentRepo.On("CreateAssignment", ctx, tx,
		mock.MatchedBy(func(attrs models.CreateAssignmentAttributes) bool {
			return attrs.AssignedTo == suite.qaManager.UserId &&
				attrs.WorkflowInstanceId == instance.Id &&
				attrs.AssignedAt.Equal(suite.now) &&
				attrs.DueDate.Equal(instance.DueDate)
		})).
		Return(models.Assignment{AssignedTo: suite.qaManager.UserId, DueDate: instance.DueDate}, nil)

	notifications, err := suite.makeUsecase().autoAssignStep(ctx, tx, instance, step)

	suite.NoError(err)
	suite.Require().Len(notifications, 1)
	suite.Equal(suite.qaManager.UserId, notifications[0].UserId)

	suite.AssertExpectations()
}

func (suite *WorkflowUsecaseTestSuite) Test_AutoAssign_TieBreaksOnLowestUserId() {
	ctx := context.Background()
	instance := suite.activeInstance("initiation")
	step, _ := suite.registry.definitions["deviation_investigation"].StepById("initiation")
	tx := suite.executorFactory.NewExecutor().(repositories.Transaction)

	// The directory returns candidates ordered by user id ascending.
	candidates := []models.User{suite.investigator, suite.qaManager}
	suite.directory.On("ListUsersByRole", ctx, tx, step.RequiredRoles).
		Return(candidates, nil)
	suite.assignmentRepo.On("CountActiveAssignmentsByUser", ctx, tx,
		[]models.UserId{suite.investigator.UserId, suite.qaManager.UserId}).
		Return(map[models.UserId]int{
			suite.investigator.UserId: 2,
			suite.qaManager.UserId:    2,
		}, nil)
	suite.assignmentRepo.On("CreateAssignment", ctx, tx,
		mock.MatchedBy(func(attrs models.CreateAssignmentAttributes) bool {
			return attrs.AssignedTo == suite.investigator.UserId
		})).
		Return(models.Assignment{AssignedTo: suite.investigator.UserId}, nil)

	notifications, err := suite.makeUsecase().autoAssignStep(ctx, tx, instance, step)

	suite.NoError(err)
	suite.Require().Len(notifications, 1)
	suite.Equal(suite.investigator.UserId, notifications[0].UserId)

	suite.AssertExpectations()
}

func (suite *WorkflowUsecaseTestSuite) Test_AutoAssign_NoCandidateIsNotAnError() {
	ctx := context.Background()
	instance := suite.activeInstance("initiation")
	step, _ := suite.registry.definitions["deviation_investigation"].StepById("initiation")
	tx := suite.executorFactory.NewExecutor().(repositories.Transaction)

	suite.directory.On("ListUsersByRole", ctx, tx, step.RequiredRoles).
		Return([]models.User{}, nil)

	notifications, err := suite.makeUsecase().autoAssignStep(ctx, tx, instance, step)

	suite.NoError(err)
	suite.Empty(notifications)

	suite.AssertExpectations()
}

func (suite *WorkflowUsecaseTestSuite) Test_GetStepStatus_PositionRelativeToCurrentStep() {
	uc := suite.makeUsecase()
	definition, err := suite.registry.Get("deviation_investigation")
	suite.Require().NoError(err)
	instance := suite.activeInstance("investigation")

	status, err := uc.GetStepStatus(instance, definition, "initiation")
	suite.NoError(err)
	suite.Equal(models.StepStatusCompleted, status)

	status, err = uc.GetStepStatus(instance, definition, "investigation")
	suite.NoError(err)
	suite.Equal(models.StepStatusActive, status)

	status, err = uc.GetStepStatus(instance, definition, "closure")
	suite.NoError(err)
	suite.Equal(models.StepStatusPending, status)

	_, err = uc.GetStepStatus(instance, definition, "no_such_step")
	suite.ErrorIs(err, models.NotFoundError)
}

func (suite *WorkflowUsecaseTestSuite) Test_GetStepStatus_CompletedInstanceReportsAllStepsCompleted() {
	uc := suite.makeUsecase()
	definition, err := suite.registry.Get("deviation_investigation")
	suite.Require().NoError(err)
	instance := suite.activeInstance("closure")
	instance.Status = models.WorkflowStatusCompleted

	for _, step := range definition.Steps {
		status, err := uc.GetStepStatus(instance, definition, step.Id)
		suite.NoError(err)
		suite.Equal(models.StepStatusCompleted, status)
	}
}

func (suite *WorkflowUsecaseTestSuite) Test_CheckOverdue_NotifiesAssigneesAndSupervisors() {
	ctx := context.Background()
	instance := suite.activeInstance("investigation")
	instance.DueDate = suite.now.Add(-6 * time.Hour)
	supervisor := models.User{UserId: "u-sup", Role: models.QA_MANAGER}

	suite.workflowRepository.On("ListOverdueWorkflowInstances", ctx, mock.Anything, suite.now).
		Return([]models.WorkflowInstance{instance}, nil)
	// Escalation runs on a context derived from the one given to CheckOverdue.
	suite.assignmentRepo.On("ListActiveAssignments", mock.Anything, mock.Anything, instance.Id).
		Return([]models.Assignment{{
			Id:                 "asg-1",
			WorkflowInstanceId: instance.Id,
			AssignedTo:         suite.investigator.UserId,
			DueDate:            instance.DueDate,
			Active:             true,
		}}, nil)
	suite.directory.On("GetSupervisor", mock.Anything, mock.Anything, suite.investigator.UserId).
		Return(&supervisor, nil)
	suite.notifier.On("Notify", mock.Anything, suite.investigator.UserId, mock.Anything, mock.Anything,
		models.NotificationSeverityOverdue, &instance.CaseId).
		Return(nil)
	suite.notifier.On("Notify", mock.Anything, supervisor.UserId, mock.Anything, mock.Anything,
		models.NotificationSeverityOverdue, &instance.CaseId).
		Return(nil)

	overdue, err := suite.makeUsecase().CheckOverdue(ctx)

	suite.NoError(err)
	suite.Require().Len(overdue, 1)
	suite.Equal(instance.Id, overdue[0].Id)

	suite.AssertExpectations()
}

func (suite *WorkflowUsecaseTestSuite) Test_CheckOverdue_NotificationFailureDoesNotFail() {
	ctx := context.Background()
	instance := suite.activeInstance("evaluation")
	instance.DueDate = suite.now.Add(-time.Hour)

	suite.workflowRepository.On("ListOverdueWorkflowInstances", ctx, mock.Anything, suite.now).
		Return([]models.WorkflowInstance{instance}, nil)
	suite.assignmentRepo.On("ListActiveAssignments", mock.Anything, mock.Anything, instance.Id).
		Return([]models.Assignment{{AssignedTo: suite.investigator.UserId}}, nil)
	suite.directory.On("GetSupervisor", mock.Anything, mock.Anything, suite.investigator.UserId).
		Return(nil, nil)
	suite.notifier.On("Notify", mock.Anything, suite.investigator.UserId, mock.Anything, mock.Anything,
		models.NotificationSeverityOverdue, &instance.CaseId).
		Return(errors.New("smtp unavailable"))

	overdue, err := suite.makeUsecase().CheckOverdue(ctx)

	suite.NoError(err)
	suite.Len(overdue, 1)

	suite.AssertExpectations()
}

func (suite *WorkflowUsecaseTestSuite) Test_StartScheduledWorkflows_SkipsConflictingSchedules() {
	ctx := context.Background()
	schedule := models.ScheduledWorkflow{
		Id:           "sched-1",
		CaseId:       suite.caseId,
		DefinitionId: "capa_effectiveness",
		ScheduledBy:  suite.qaManager.UserId,
		TriggerAt:    suite.now.Add(-time.Hour),
	}
	existing := models.WorkflowInstance{
		Id:           "wfi-existing",
		CaseId:       suite.caseId,
		DefinitionId: "capa_effectiveness",
		Status:       models.WorkflowStatusActive,
	}

	suite.scheduledRepository.On("ListDueScheduledWorkflows", ctx, mock.Anything, suite.now).
		Return([]models.ScheduledWorkflow{schedule}, nil)
	suite.scheduledRepository.On("MarkScheduledWorkflowStarted", ctx, mock.Anything,
		schedule.Id, suite.now).
		Return(nil)
	suite.directory.On("GetUser", ctx, mock.Anything, suite.qaManager.UserId).
		Return(suite.qaManager, nil)
	suite.workflowRepository.On("GetActiveWorkflowInstance", ctx, mock.Anything,
		"capa_effectiveness", suite.caseId).
		Return(&existing, nil)

	err := suite.makeUsecase().StartScheduledWorkflows(ctx)

	suite.NoError(err)

	suite.AssertExpectations()
}

func TestWorkflowUsecaseSuite(t *testing.T) {
	suite.Run(t, new(WorkflowUsecaseTestSuite))
}
