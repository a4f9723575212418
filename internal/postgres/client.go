package postgres

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/locatus/locatus/internal/config"
	"github.com/locatus/locatus/internal/domain/lease"
	"github.com/locatus/locatus/internal/domain/payment"
	"github.com/locatus/locatus/internal/domain/property"
	"github.com/locatus/locatus/internal/domain/reminder"
	"github.com/locatus/locatus/internal/domain/settings"
	"github.com/locatus/locatus/internal/domain/tenant"
	"github.com/locatus/locatus/internal/logger"
	"github.com/locatus/locatus/internal/types"
)

// NewClient opens a gorm connection against the configured postgres
// instance. TranslateError is enabled so unique violations surface as
// gorm.ErrDuplicatedKey, which the repositories map to ierr.ErrAlreadyExists.
func NewClient(cfg *config.Configuration, log *logger.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)

	gormCfg := &gorm.Config{
		TranslateError: true,
	}
	if cfg.Logging.Level != types.LogLevelDebug {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	db, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		return nil, err
	}

	log.Infow("connected to postgres",
		"host", cfg.Postgres.Host,
		"database", cfg.Postgres.DBName,
	)
	return db, nil
}

// Migrate applies the schema for all persisted models, including the unique
// indexes on payments(lease_id, due_date) and reminder_history(key).
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&property.Property{},
		&tenant.Tenant{},
		&lease.Lease{},
		&payment.Payment{},
		&reminder.History{},
		&settings.Setting{},
	)
}
