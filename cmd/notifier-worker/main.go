package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/plantswapio/plantswap-backend/internal/notifications"
	"github.com/plantswapio/plantswap-backend/pkg/config"
	"github.com/plantswapio/plantswap-backend/pkg/db"
	"github.com/plantswapio/plantswap-backend/pkg/eventing"
	"github.com/plantswapio/plantswap-backend/pkg/logger"
	"github.com/plantswapio/plantswap-backend/pkg/pubsub"
	"github.com/plantswapio/plantswap-backend/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "notifier-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "notifier-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(cfg.DB, cfg.Features.UseSQLite)
	requireResource(ctx, logg, "database", err)

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	requireResource(ctx, logg, "redis", err)

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)

	defer func() {
		closeErr := multierr.Combine(
			dbClient.Close(),
			redisClient.Close(),
			pubsubClient.Close(),
		)
		if closeErr != nil {
			logg.Error(context.Background(), "error closing resources", closeErr)
		}
	}()

	idempotency, err := eventing.NewIdempotencyManager(redisClient, cfg.Eventing.IdempotencyTTL)
	requireResource(ctx, logg, "idempotency manager", err)

	consumer, err := notifications.NewConsumer(
		notifications.NewRepository(dbClient.DB()),
		pubsubClient.NotificationSubscription(),
		idempotency,
		logg,
	)
	requireResource(ctx, logg, "notification consumer", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{"env": cfg.App.Env})
	logg.Info(runCtx, "notifier worker ready")

	if err := consumer.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "notifier worker stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
