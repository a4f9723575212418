package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/locatus/locatus/internal/domain/settings"
	ierr "github.com/locatus/locatus/internal/errors"
	"github.com/locatus/locatus/internal/logger"
	"github.com/locatus/locatus/internal/types"
)

type settingsRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewSettingsRepository returns a gorm backed settings repository
func NewSettingsRepository(db *gorm.DB, log *logger.Logger) settings.Repository {
	return &settingsRepository{db: db, log: log}
}

func (r *settingsRepository) GetByKey(ctx context.Context, key types.SettingKey) (*settings.Setting, error) {
	var s settings.Setting
	err := r.db.WithContext(ctx).First(&s, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("setting not found").
				WithHintf("No setting stored for key %s", key).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get setting").
			Mark(ierr.ErrDatabase)
	}
	return &s, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, s *settings.Setting) error {
	if err := s.Validate(); err != nil {
		return err
	}
	s.UpdatedAt = time.Now().UTC()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at", "updated_by"}),
		}).
		Create(s).Error
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to upsert setting").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
