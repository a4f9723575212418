package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/locatus/locatus/internal/api"
	"github.com/locatus/locatus/internal/api/cron"
	"github.com/locatus/locatus/internal/config"
	"github.com/locatus/locatus/internal/email"
	"github.com/locatus/locatus/internal/logger"
	"github.com/locatus/locatus/internal/postgres"
	"github.com/locatus/locatus/internal/repository"
	"github.com/locatus/locatus/internal/service"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// Load .env if present; real deployments rely on the environment
	_ = godotenv.Load()

	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Postgres
			postgres.NewClient,

			// Repositories
			repository.NewLeaseRepository,
			repository.NewPaymentRepository,
			repository.NewTenantRepository,
			repository.NewPropertyRepository,
			repository.NewReminderRepository,
			repository.NewSettingsRepository,

			// Email
			email.NewClient,
			email.NewService,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewPaymentGenerationService,
			service.NewReminderService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			runMigrations,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	paymentGenerationService service.PaymentGenerationService,
	reminderService service.ReminderService,
) api.Handlers {
	return api.Handlers{
		PaymentCron:  cron.NewPaymentHandler(paymentGenerationService, logger),
		ReminderCron: cron.NewReminderHandler(reminderService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration) *gin.Engine {
	return api.NewRouter(handlers, cfg)
}

func runMigrations(db *gorm.DB, log *logger.Logger) error {
	log.Info("Running database migrations...")
	return postgres.Migrate(db)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infof("Starting API server on %s", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
