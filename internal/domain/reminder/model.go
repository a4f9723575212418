package reminder

import (
	"time"

	ierr "github.com/locatus/locatus/internal/errors"
	"github.com/locatus/locatus/internal/types"
)

// History is one immutable "this exact reminder was already sent" fact. The
// unique Key column is the dedup backbone of the reminder engine: at most one
// row ever exists per (tenant, due date, step), rows are created only after a
// successful send and are never updated or deleted.
type History struct {
	// Unique identifier for this history entry
	ID string `json:"id" gorm:"primaryKey"`
	// Key is the dedup key, see types.ReminderKey
	Key string `json:"key" gorm:"uniqueIndex"`
	// TenantID the reminder was addressed to
	TenantID string `json:"tenant_id"`
	// PaymentID the reminder was about
	PaymentID string `json:"payment_id"`
	// LeaseID the payment belongs to
	LeaseID string `json:"lease_id"`
	// DueDate of the payment at send time
	DueDate time.Time `json:"due_date"`
	// Step is the reminder step the send corresponds to
	Step types.ReminderStep `json:"step"`
	// Metadata carries send details (subject, message id)
	Metadata types.Metadata `json:"metadata,omitempty"`
	// SentAt is when the send succeeded
	SentAt time.Time `json:"sent_at"`

	types.BaseModel
}

func (h *History) TableName() string {
	return "reminder_history"
}

func (h *History) Validate() error {
	if h.Key == "" {
		return ierr.NewError("key is required").
			WithHint("Reminder history entry must have a dedup key").
			Mark(ierr.ErrValidation)
	}
	if h.TenantID == "" {
		return ierr.NewError("tenant id is required").
			WithHint("Reminder history entry must reference a tenant").
			Mark(ierr.ErrValidation)
	}
	if h.Step == "" {
		return ierr.NewError("step is required").
			WithHint("Reminder history entry must carry a reminder step").
			Mark(ierr.ErrValidation)
	}
	return nil
}
