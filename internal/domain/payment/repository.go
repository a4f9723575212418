package payment

import (
	"context"
	"time"

	"github.com/locatus/locatus/internal/types"
)

// Repository defines the interface for payment persistence.
//
// Create must surface a unique-index conflict on (lease_id, due_date) as
// ierr.ErrAlreadyExists so that concurrent generation passes converge instead
// of failing.
type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	Get(ctx context.Context, id string) (*Payment, error)
	Update(ctx context.Context, payment *Payment) error
	List(ctx context.Context, filter *types.PaymentFilter) ([]*Payment, error)
	Count(ctx context.Context, filter *types.PaymentFilter) (int, error)

	// ExistsForDueDate reports whether the lease already has a payment due on
	// exactly the given date.
	ExistsForDueDate(ctx context.Context, leaseID string, dueDate time.Time) (bool, error)
}
