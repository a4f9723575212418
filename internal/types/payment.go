package types

import (
	"time"

	ierr "github.com/locatus/locatus/internal/errors"
)

// PaymentStatus is the business lifecycle of a rent payment (invoice)
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusLate    PaymentStatus = "late"
	PaymentStatusPartial PaymentStatus = "partial"
)

func (s PaymentStatus) Validate() error {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusLate, PaymentStatusPartial:
		return nil
	default:
		return ierr.NewError("invalid payment status").
			WithHintf("Payment status %s is not supported", s).
			Mark(ierr.ErrValidation)
	}
}

// OutstandingPaymentStatuses are the statuses a payment can carry while money
// is still owed on it.
func OutstandingPaymentStatuses() []PaymentStatus {
	return []PaymentStatus{PaymentStatusPending, PaymentStatusLate, PaymentStatusPartial}
}

// PaymentMethod is how a rent payment was settled
type PaymentMethod string

const (
	PaymentMethodStripe       PaymentMethod = "stripe"
	PaymentMethodPaypal       PaymentMethod = "paypal"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCheck        PaymentMethod = "check"
)

// PaymentFilter represents the filter options for listing payments
type PaymentFilter struct {
	*QueryFilter

	PaymentIDs      []string        `json:"payment_ids,omitempty" form:"payment_ids"`
	LeaseID         string          `json:"lease_id,omitempty" form:"lease_id"`
	PaymentStatuses []PaymentStatus `json:"payment_statuses,omitempty" form:"payment_statuses"`
	DueDateFrom     *time.Time      `json:"due_date_from,omitempty" form:"due_date_from"`
	DueDateTo       *time.Time      `json:"due_date_to,omitempty" form:"due_date_to"`
}

func (f *PaymentFilter) GetLimit() int {
	if f == nil || f.QueryFilter == nil {
		return FilterDefaultLimit
	}
	return f.QueryFilter.GetLimit()
}

func (f *PaymentFilter) GetOffset() int {
	if f == nil || f.QueryFilter == nil {
		return 0
	}
	return f.QueryFilter.GetOffset()
}
