package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/locatus/locatus/internal/domain/lease"
	ierr "github.com/locatus/locatus/internal/errors"
	"github.com/locatus/locatus/internal/logger"
	"github.com/locatus/locatus/internal/types"
)

type leaseRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewLeaseRepository returns a gorm backed lease repository
func NewLeaseRepository(db *gorm.DB, log *logger.Logger) lease.Repository {
	return &leaseRepository{db: db, log: log}
}

func (r *leaseRepository) Create(ctx context.Context, l *lease.Lease) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ierr.WithError(err).
				WithHintf("Lease %s already exists", l.ID).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create lease").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *leaseRepository) Get(ctx context.Context, id string) (*lease.Lease, error) {
	var l lease.Lease
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("lease not found").
				WithHintf("Lease %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get lease").
			Mark(ierr.ErrDatabase)
	}
	return &l, nil
}

func (r *leaseRepository) Update(ctx context.Context, l *lease.Lease) error {
	if err := l.Validate(); err != nil {
		return err
	}
	l.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&lease.Lease{}).Where("id = ?", l.ID).Updates(l)
	if res.Error != nil {
		return ierr.WithError(res.Error).
			WithHint("Failed to update lease").
			Mark(ierr.ErrDatabase)
	}
	if res.RowsAffected == 0 {
		return ierr.NewError("lease not found").
			WithHintf("Lease %s does not exist", l.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *leaseRepository) List(ctx context.Context, filter *types.LeaseFilter) ([]*lease.Lease, error) {
	var leases []*lease.Lease
	if err := r.buildQuery(ctx, filter).Find(&leases).Error; err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list leases").
			Mark(ierr.ErrDatabase)
	}
	return leases, nil
}

func (r *leaseRepository) Count(ctx context.Context, filter *types.LeaseFilter) (int, error) {
	var count int64
	if err := r.buildQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count leases").
			Mark(ierr.ErrDatabase)
	}
	return int(count), nil
}

// UpdateNextDueDate advances the lease's due-date cursor only; no other
// column is touched so the generation engine cannot clobber concurrent
// lease edits.
func (r *leaseRepository) UpdateNextDueDate(ctx context.Context, id string, next time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&lease.Lease{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"next_due_date": next,
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return ierr.WithError(res.Error).
			WithHint("Failed to update lease due-date cursor").
			Mark(ierr.ErrDatabase)
	}
	if res.RowsAffected == 0 {
		return ierr.NewError("lease not found").
			WithHintf("Lease %s does not exist", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *leaseRepository) buildQuery(ctx context.Context, filter *types.LeaseFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&lease.Lease{})
	if filter == nil {
		return q
	}

	if len(filter.LeaseIDs) > 0 {
		q = q.Where("leases.id IN ?", filter.LeaseIDs)
	}
	if filter.PropertyID != "" {
		q = q.Where("leases.property_id = ?", filter.PropertyID)
	}
	if filter.TenantID != "" {
		q = q.Where("leases.tenant_id = ?", filter.TenantID)
	}
	if len(filter.LeaseStatuses) > 0 {
		q = q.Where("leases.lease_status IN ?", filter.LeaseStatuses)
	}
	if filter.ExcludeOfflineProperties {
		q = q.Joins("JOIN properties ON properties.id = leases.property_id").
			Where("properties.property_status <> ?", types.PropertyStatusOffline)
	}
	if filter.ActiveOn != nil {
		q = q.Where("leases.start_date <= ?", *filter.ActiveOn).
			Where("leases.end_date IS NULL OR leases.end_date >= ?", *filter.ActiveOn)
	}
	if filter.QueryFilter != nil {
		if status := filter.QueryFilter.GetStatus(); status != nil {
			q = q.Where("leases.status = ?", *status)
		}
		if !filter.QueryFilter.IsUnlimited() {
			q = q.Limit(filter.GetLimit()).Offset(filter.GetOffset())
		}
	}
	return q.Order("leases.created_at ASC")
}
