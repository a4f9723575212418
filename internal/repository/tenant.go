package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	ierr "github.com/locatus/locatus/internal/errors"
	"github.com/locatus/locatus/internal/domain/tenant"
	"github.com/locatus/locatus/internal/logger"
)

type tenantRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewTenantRepository returns a gorm backed tenant repository
func NewTenantRepository(db *gorm.DB, log *logger.Logger) tenant.Repository {
	return &tenantRepository{db: db, log: log}
}

func (r *tenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ierr.WithError(err).
				WithHintf("Tenant %s already exists", t.ID).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create tenant").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *tenantRepository) Get(ctx context.Context, id string) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("tenant not found").
				WithHintf("Tenant %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get tenant").
			Mark(ierr.ErrDatabase)
	}
	return &t, nil
}

func (r *tenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	if err := t.Validate(); err != nil {
		return err
	}
	t.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&tenant.Tenant{}).Where("id = ?", t.ID).Updates(t)
	if res.Error != nil {
		return ierr.WithError(res.Error).
			WithHint("Failed to update tenant").
			Mark(ierr.ErrDatabase)
	}
	if res.RowsAffected == 0 {
		return ierr.NewError("tenant not found").
			WithHintf("Tenant %s does not exist", t.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *tenantRepository) List(ctx context.Context) ([]*tenant.Tenant, error) {
	var tenants []*tenant.Tenant
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&tenants).Error; err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list tenants").
			Mark(ierr.ErrDatabase)
	}
	return tenants, nil
}
