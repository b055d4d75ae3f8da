package cmd

import (
	"context"

	"github.com/pharmelior/deviation-backend/repositories"
	"github.com/pharmelior/deviation-backend/utils"
)

func RunMigrations(ctx context.Context) error {
	config := configFromEnv()
	logger := utils.NewLogger(config.loggingFormat)
	ctx = utils.StoreLoggerInContext(ctx, logger)

	migrater := repositories.NewMigrater(config.pgConfig, logger)
	return migrater.Run(ctx)
}
