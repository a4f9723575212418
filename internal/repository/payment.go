package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/locatus/locatus/internal/domain/payment"
	ierr "github.com/locatus/locatus/internal/errors"
	"github.com/locatus/locatus/internal/logger"
	"github.com/locatus/locatus/internal/types"
)

type paymentRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewPaymentRepository returns a gorm backed payment repository
func NewPaymentRepository(db *gorm.DB, log *logger.Logger) payment.Repository {
	return &paymentRepository{db: db, log: log}
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// unique index on (lease_id, due_date): a concurrent pass got
			// there first, callers treat this as already planned
			return ierr.WithError(err).
				WithHintf("Payment for lease %s due %s already exists", p.LeaseID, p.DueDate.Format(time.DateOnly)).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create payment").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	var p payment.Payment
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ierr.NewError("payment not found").
				WithHintf("Payment %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&payment.Payment{}).Where("id = ?", p.ID).Updates(p)
	if res.Error != nil {
		return ierr.WithError(res.Error).
			WithHint("Failed to update payment").
			Mark(ierr.ErrDatabase)
	}
	if res.RowsAffected == 0 {
		return ierr.NewError("payment not found").
			WithHintf("Payment %s does not exist", p.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *paymentRepository) List(ctx context.Context, filter *types.PaymentFilter) ([]*payment.Payment, error) {
	var payments []*payment.Payment
	if err := r.buildQuery(ctx, filter).Find(&payments).Error; err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list payments").
			Mark(ierr.ErrDatabase)
	}
	return payments, nil
}

func (r *paymentRepository) Count(ctx context.Context, filter *types.PaymentFilter) (int, error) {
	var count int64
	if err := r.buildQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count payments").
			Mark(ierr.ErrDatabase)
	}
	return int(count), nil
}

func (r *paymentRepository) ExistsForDueDate(ctx context.Context, leaseID string, dueDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&payment.Payment{}).
		Where("lease_id = ? AND due_date = ?", leaseID, types.BeginningOfDay(dueDate)).
		Count(&count).Error
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to check for existing payment").
			Mark(ierr.ErrDatabase)
	}
	return count > 0, nil
}

func (r *paymentRepository) buildQuery(ctx context.Context, filter *types.PaymentFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&payment.Payment{})
	if filter == nil {
		return q
	}

	if len(filter.PaymentIDs) > 0 {
		q = q.Where("id IN ?", filter.PaymentIDs)
	}
	if filter.LeaseID != "" {
		q = q.Where("lease_id = ?", filter.LeaseID)
	}
	if len(filter.PaymentStatuses) > 0 {
		q = q.Where("payment_status IN ?", filter.PaymentStatuses)
	}
	if filter.DueDateFrom != nil {
		q = q.Where("due_date >= ?", *filter.DueDateFrom)
	}
	if filter.DueDateTo != nil {
		q = q.Where("due_date <= ?", *filter.DueDateTo)
	}
	if filter.QueryFilter != nil {
		if status := filter.QueryFilter.GetStatus(); status != nil {
			q = q.Where("status = ?", *status)
		}
		if !filter.QueryFilter.IsUnlimited() {
			q = q.Limit(filter.GetLimit()).Offset(filter.GetOffset())
		}
	}
	return q.Order("due_date ASC")
}
