package cmd

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/pharmelior/deviation-backend/infra"
	"github.com/pharmelior/deviation-backend/jobs"
	"github.com/pharmelior/deviation-backend/repositories"
	"github.com/pharmelior/deviation-backend/repositories/clock"
	"github.com/pharmelior/deviation-backend/usecases"
	"github.com/pharmelior/deviation-backend/utils"
)

func RunJobScheduler(ctx context.Context) error {
	config := configFromEnv()
	logger := utils.NewLogger(config.loggingFormat)
	ctx = utils.StoreLoggerInContext(ctx, logger)

	pool, err := infra.NewPostgresConnectionPool(ctx, config.pgConfig)
	if err != nil {
		return errors.Wrap(err, "could not connect to database")
	}
	defer pool.Close()

	registry, err := usecases.NewEmbeddedWorkflowRegistry()
	if err != nil {
		return errors.Wrap(err, "invalid workflow definitions")
	}

	executorGetter := repositories.NewExecutorGetter(pool)
	ucs := usecases.NewUsecases(
		executorGetter,
		repositories.NewDeviationDbRepository(),
		registry,
		repositories.NewNotificationRepository(executorGetter, config.notificationWebhookUrl),
		clock.New(),
	)

	logger.InfoContext(ctx, "starting job scheduler", "env", config.env)
	jobs.RunScheduler(ctx, ucs)
	return nil
}
