package payment

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/locatus/locatus/internal/errors"
	"github.com/locatus/locatus/internal/types"
)

// Payment is a single rent invoice: one billing obligation for one lease due
// on one date. Due dates are unique per lease, which is the idempotence
// contract of the payment generation engine.
type Payment struct {
	// Unique identifier for this payment
	ID string `json:"id" gorm:"primaryKey"`
	// The lease this payment bills. The composite unique index with DueDate
	// is the storage-level guard behind the generation engine's existence
	// check.
	LeaseID string `json:"lease_id" gorm:"uniqueIndex:idx_payments_lease_due"`
	// Amount is the rent + charges snapshot taken at creation time
	Amount decimal.Decimal `json:"amount"`
	// Currency is a three-letter ISO code
	Currency string `json:"currency"`
	// DueDate is the date the payment falls due
	DueDate time.Time `json:"due_date" gorm:"uniqueIndex:idx_payments_lease_due"`
	// PaymentDate is set once the tenant has paid
	PaymentDate *time.Time `json:"payment_date,omitempty"`
	// PaymentStatus is the business lifecycle of the payment
	PaymentStatus types.PaymentStatus `json:"payment_status"`
	// PaymentMethod records how the payment was settled
	PaymentMethod *types.PaymentMethod `json:"payment_method,omitempty"`
	// TransactionReference is the external provider's transaction id
	TransactionReference *string `json:"transaction_reference,omitempty"`
	// ReceiptURL points at the rendered receipt document
	ReceiptURL *string `json:"receipt_url,omitempty"`
	// Notes holds free-form operator notes
	Notes *string `json:"notes,omitempty"`

	types.BaseModel
}

func (p *Payment) TableName() string {
	return "payments"
}

// IsPaid is the single paid gate used by the reminder engine: a payment
// counts as settled when its status says so or a payment date was recorded.
func (p *Payment) IsPaid() bool {
	return p.PaymentStatus == types.PaymentStatusPaid || p.PaymentDate != nil
}

func (p *Payment) Validate() error {
	if p.LeaseID == "" {
		return ierr.NewError("lease id is required").
			WithHint("Payment must reference a lease").
			Mark(ierr.ErrValidation)
	}
	if p.Amount.IsNegative() {
		return ierr.NewError("invalid amount").
			WithHint("Amount must not be negative").
			Mark(ierr.ErrValidation)
	}
	if p.DueDate.IsZero() {
		return ierr.NewError("due date is required").
			WithHint("Payment must have a due date").
			Mark(ierr.ErrValidation)
	}
	return p.PaymentStatus.Validate()
}
