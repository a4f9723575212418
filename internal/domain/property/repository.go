package property

import (
	"context"
)

// Repository defines the interface for property persistence
type Repository interface {
	Create(ctx context.Context, property *Property) error
	Get(ctx context.Context, id string) (*Property, error)
	Update(ctx context.Context, property *Property) error
	List(ctx context.Context) ([]*Property, error)
}
