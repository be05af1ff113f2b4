package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/plantswapio/plantswap-backend/api/controllers"
	"github.com/plantswapio/plantswap-backend/api/routes"
	"github.com/plantswapio/plantswap-backend/internal/auth"
	"github.com/plantswapio/plantswap-backend/internal/interests"
	"github.com/plantswapio/plantswap-backend/internal/matching"
	"github.com/plantswapio/plantswap-backend/internal/notifications"
	"github.com/plantswapio/plantswap-backend/internal/plants"
	"github.com/plantswapio/plantswap-backend/internal/taxonomy"
	"github.com/plantswapio/plantswap-backend/internal/trades"
	"github.com/plantswapio/plantswap-backend/internal/users"
	"github.com/plantswapio/plantswap-backend/pkg/config"
	"github.com/plantswapio/plantswap-backend/pkg/db"
	"github.com/plantswapio/plantswap-backend/pkg/logger"
	"github.com/plantswapio/plantswap-backend/pkg/migrate"
	"github.com/plantswapio/plantswap-backend/pkg/pubsub"
	"github.com/plantswapio/plantswap-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(cfg.DB, cfg.Features.UseSQLite)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub", err)
		}
	}()

	gormDB := dbClient.DB()
	taxonomyRepo := taxonomy.NewRepository(gormDB)
	plantRepo := plants.NewRepository(gormDB)

	publisher, err := notifications.NewPublisher(pubsubClient.NotificationPublisher(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification publisher", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:    users.NewRepository(gormDB),
		JWTConfig:   cfg.JWT,
		PasswordCfg: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	taxonomyService, err := taxonomy.NewService(taxonomy.ServiceParams{
		Repo:            taxonomyRepo,
		MaxLineageDepth: cfg.Taxonomy.MaxLineageDepth,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create taxonomy service", err)
		os.Exit(1)
	}

	plantService, err := plants.NewService(plants.ServiceParams{
		PlantRepo:    plantRepo,
		TaxonomyRepo: taxonomyRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create plant service", err)
		os.Exit(1)
	}

	interestService, err := interests.NewService(interests.ServiceParams{
		InterestRepo: interests.NewRepository(gormDB),
		TaxonomyRepo: taxonomyRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create interest service", err)
		os.Exit(1)
	}

	matchingService, err := matching.NewService(matching.ServiceParams{
		MatchRepo:    matching.NewRepository(gormDB),
		PlantRepo:    plantRepo,
		TaxonomyRepo: taxonomyRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create matching service", err)
		os.Exit(1)
	}

	tradeService, err := trades.NewService(trades.NewRepository(gormDB), trades.NewPlantRepository(plantRepo), dbClient, publisher)
	if err != nil {
		logg.Error(context.Background(), "failed to create trade service", err)
		os.Exit(1)
	}

	notificationService, err := notifications.NewService(notifications.ServiceParams{
		Repo: notifications.NewRepository(gormDB),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notification service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	healthDeps := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
		"pubsub":   pubsubClient,
	}

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			redisClient,
			healthDeps,
			authService,
			taxonomyService,
			plantService,
			interestService,
			matchingService,
			tradeService,
			notificationService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
