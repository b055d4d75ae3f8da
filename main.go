package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pharmelior/deviation-backend/cmd"
)

func main() {
	shouldRunMigrations := flag.Bool("migrations", false, "Run database migrations")
	shouldRunScheduler := flag.Bool("scheduler", false, "Run the job scheduler")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *shouldRunMigrations {
		if err := cmd.RunMigrations(ctx); err != nil {
			slog.Error("migrations failed", "error", err)
			os.Exit(1)
		}
	}
	if *shouldRunScheduler {
		if err := cmd.RunJobScheduler(ctx); err != nil {
			slog.Error("job scheduler failed", "error", err)
			os.Exit(1)
		}
	}
}
