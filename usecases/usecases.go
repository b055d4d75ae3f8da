package usecases

import (
	"github.com/pharmelior/deviation-backend/repositories"
	"github.com/pharmelior/deviation-backend/repositories/clock"
	"github.com/pharmelior/deviation-backend/usecases/executor_factory"
)

// Usecases wires the repositories into the two engine entry points the rest
// of the application may call: the audit log and the workflow engine.
type Usecases struct {
	ExecutorGetter repositories.ExecutorGetter
	Repository     repositories.DeviationDbRepository
	Registry       WorkflowRegistry
	Notifier       Notifier
	Clock          clock.Clock
}

func NewUsecases(
	executorGetter repositories.ExecutorGetter,
	repository repositories.DeviationDbRepository,
	registry WorkflowRegistry,
	notifier Notifier,
	clk clock.Clock,
) Usecases {
	return Usecases{
		ExecutorGetter: executorGetter,
		Repository:     repository,
		Registry:       registry,
		Notifier:       notifier,
		Clock:          clk,
	}
}

func (u Usecases) NewAuditLogUsecase() *AuditLogUsecase {
	factory := executor_factory.NewDbExecutorFactory(u.ExecutorGetter)
	return NewAuditLogUsecase(factory, factory, u.Repository, u.Clock)
}

func (u Usecases) NewWorkflowUsecase() *WorkflowUsecase {
	factory := executor_factory.NewDbExecutorFactory(u.ExecutorGetter)
	return NewWorkflowUsecase(
		factory,
		factory,
		u.Registry,
		u.Repository,
		u.NewAuditLogUsecase(),
		u.Notifier,
		u.Clock,
	)
}
