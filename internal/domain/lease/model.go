package lease

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/locatus/locatus/internal/errors"
	"github.com/locatus/locatus/internal/types"
)

// Lease binds a tenant to a property for a period of time and carries the
// recurring billing terms.
type Lease struct {
	// Unique identifier for this lease
	ID string `json:"id" gorm:"primaryKey"`
	// The property being rented
	PropertyID string `json:"property_id" gorm:"index"`
	// The tenant renting the property
	TenantID string `json:"tenant_id" gorm:"index"`
	// StartDate is when the lease takes effect
	StartDate time.Time `json:"start_date"`
	// EndDate is the planned end of the lease, nil for open-ended leases
	EndDate *time.Time `json:"end_date,omitempty"`
	// ActualEndDate is set when the lease is terminated early
	ActualEndDate *time.Time `json:"actual_end_date,omitempty"`
	// RentAmount is the recurring monthly rent
	RentAmount decimal.Decimal `json:"rent_amount"`
	// Charges are the recurring monthly charges billed on top of the rent
	Charges decimal.Decimal `json:"charges"`
	// DepositPaid is the security deposit collected at move-in
	DepositPaid *decimal.Decimal `json:"deposit_paid,omitempty"`
	// PaymentDay is the day of the month rent falls due, clamped to 1-28
	PaymentDay int `json:"payment_day"`
	// LeaseStatus is the business lifecycle of the lease
	LeaseStatus types.LeaseStatus `json:"lease_status"`
	// NextDueDate is the due-date cursor: the date that will be billed by the
	// next payment generation pass. Owned exclusively by that engine; nil
	// until the first pass touches the lease.
	NextDueDate *time.Time `json:"next_due_date,omitempty"`
	// SpecialConditions holds free-form contract clauses
	SpecialConditions string `json:"special_conditions,omitempty"`
	// ContractURL points at the signed contract document
	ContractURL string `json:"contract_url,omitempty"`

	types.BaseModel
}

func (l *Lease) TableName() string {
	return "leases"
}

// MonthlyAmount is the rent plus recurring charges, snapshotted onto each
// generated payment.
func (l *Lease) MonthlyAmount() decimal.Decimal {
	return l.RentAmount.Add(l.Charges)
}

// IsActive reports whether the lease should be considered by the payment
// generation pass.
func (l *Lease) IsActive() bool {
	return l.LeaseStatus == types.LeaseStatusActive
}

func (l *Lease) Validate() error {
	if l.PropertyID == "" {
		return ierr.NewError("property id is required").
			WithHint("Lease must reference a property").
			Mark(ierr.ErrValidation)
	}
	if l.TenantID == "" {
		return ierr.NewError("tenant id is required").
			WithHint("Lease must reference a tenant").
			Mark(ierr.ErrValidation)
	}
	if l.StartDate.IsZero() {
		return ierr.NewError("start date is required").
			WithHint("Lease must have a start date").
			Mark(ierr.ErrValidation)
	}
	if l.RentAmount.IsNegative() {
		return ierr.NewError("invalid rent amount").
			WithHint("Rent amount must not be negative").
			Mark(ierr.ErrValidation)
	}
	if err := l.LeaseStatus.Validate(); err != nil {
		return err
	}
	if l.EndDate != nil && l.EndDate.Before(l.StartDate) {
		return ierr.NewError("invalid end date").
			WithHint("Lease end date must not precede its start date").
			Mark(ierr.ErrValidation)
	}
	return nil
}
