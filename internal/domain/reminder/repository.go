package reminder

import (
	"context"
)

// Repository is the reminder ledger.
//
// Create must surface a unique-key conflict as ierr.ErrAlreadyExists: when two
// runs race on the same key, the loser treats the conflict as "already sent",
// never as a fatal error.
type Repository interface {
	Create(ctx context.Context, history *History) error
	GetByKey(ctx context.Context, key string) (*History, error)
	ExistsByKey(ctx context.Context, key string) (bool, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*History, error)
}
