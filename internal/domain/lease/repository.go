package lease

import (
	"context"
	"time"

	"github.com/locatus/locatus/internal/types"
)

// Repository defines the interface for lease persistence
type Repository interface {
	Create(ctx context.Context, lease *Lease) error
	Get(ctx context.Context, id string) (*Lease, error)
	Update(ctx context.Context, lease *Lease) error
	List(ctx context.Context, filter *types.LeaseFilter) ([]*Lease, error)
	Count(ctx context.Context, filter *types.LeaseFilter) (int, error)

	// UpdateNextDueDate advances the lease's due-date cursor. Only the
	// payment generation engine calls this.
	UpdateNextDueDate(ctx context.Context, id string, next time.Time) error
}
