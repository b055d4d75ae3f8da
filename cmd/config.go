package cmd

import (
	"github.com/pharmelior/deviation-backend/infra"
	"github.com/pharmelior/deviation-backend/utils"
)

type appConfig struct {
	env                    string
	loggingFormat          string
	notificationWebhookUrl string
	pgConfig               infra.PgConfig
}

func configFromEnv() appConfig {
	return appConfig{
		env:                    utils.GetEnv("ENV", "development"),
		loggingFormat:          utils.GetEnv("LOGGING_FORMAT", "text"),
		notificationWebhookUrl: utils.GetEnv("NOTIFICATION_WEBHOOK_URL", ""),
		pgConfig: infra.PgConfig{
			Hostname: utils.GetRequiredEnv[string]("PG_HOSTNAME"),
			Port:     utils.GetEnv("PG_PORT", "5432"),
			User:     utils.GetRequiredEnv[string]("PG_USER"),
			Password: utils.GetRequiredEnv[string]("PG_PASSWORD"),
			Database: utils.GetEnv("PG_DATABASE", "deviation"),
			SslMode:  utils.GetEnv("PG_SSL_MODE", "prefer"),
		},
	}
}
