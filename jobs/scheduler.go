package jobs

import (
	"context"

	"github.com/adhocore/gronx/pkg/tasker"

	"github.com/pharmelior/deviation-backend/usecases"
	"github.com/pharmelior/deviation-backend/utils"
)

func errToReturnCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}

// RunScheduler drives the periodic engine checks: overdue escalation every
// five minutes, deferred workflow starts every hour. Blocks until ctx is
// cancelled.
func RunScheduler(ctx context.Context, ucs usecases.Usecases) {
	taskr := tasker.New(tasker.Option{
		Verbose: true,
	}).WithContext(ctx)

	taskr.Task("*/5 * * * *", func(ctx context.Context) (int, error) {
		logger := utils.LoggerFromContext(ctx).With("job", "check_overdue_workflows")
		ctx = utils.StoreLoggerInContext(ctx, logger)
		err := CheckOverdueWorkflows(ctx, ucs)
		return errToReturnCode(err), err
	})

	taskr.Task("0 * * * *", func(ctx context.Context) (int, error) {
		logger := utils.LoggerFromContext(ctx).With("job", "start_scheduled_workflows")
		ctx = utils.StoreLoggerInContext(ctx, logger)
		err := StartScheduledWorkflows(ctx, ucs)
		return errToReturnCode(err), err
	})

	taskr.Run()
}
