package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/locatus/locatus/internal/domain/reminder"
	ierr "github.com/locatus/locatus/internal/errors"
	"github.com/locatus/locatus/internal/logger"
)

type reminderRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewReminderRepository returns a gorm backed reminder ledger
func NewReminderRepository(db *gorm.DB, log *logger.Logger) reminder.Repository {
	return &reminderRepository{db: db, log: log}
}

func (r *reminderRepository) Create(ctx context.Context, h *reminder.History) error {
	if err := h.Validate(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(h).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// another run's insert landed first; the reminder is sent either
			// way, so surface this as already-exists, never as fatal
			return ierr.WithError(err).
				WithHintf("Reminder %s was already recorded", h.Key).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to record reminder history").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *reminderRepository) GetByKey(ctx context.Context, key string) (*reminder.History, error) {
	var h reminder.History
	err := r.db.WithContext(ctx).First(&h, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("reminder history not found").
				WithHintf("No reminder recorded for key %s", key).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get reminder history").
			Mark(ierr.ErrDatabase)
	}
	return &h, nil
}

func (r *reminderRepository) ExistsByKey(ctx context.Context, key string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&reminder.History{}).
		Where("key = ?", key).
		Count(&count).Error
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to check reminder history").
			Mark(ierr.ErrDatabase)
	}
	return count > 0, nil
}

func (r *reminderRepository) ListByTenant(ctx context.Context, tenantID string) ([]*reminder.History, error) {
	var entries []*reminder.History
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("sent_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list reminder history").
			Mark(ierr.ErrDatabase)
	}
	return entries, nil
}
