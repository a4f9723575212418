package testutil

import (
	"context"
	"time"

	"github.com/locatus/locatus/internal/domain/property"
	ierr "github.com/locatus/locatus/internal/errors"
)

// InMemoryPropertyStore implements property.Repository
type InMemoryPropertyStore struct {
	*InMemoryStore[*property.Property]
}

// NewInMemoryPropertyStore creates a new in-memory property repository
func NewInMemoryPropertyStore() *InMemoryPropertyStore {
	return &InMemoryPropertyStore{
		InMemoryStore: NewInMemoryStore[*property.Property](),
	}
}

func (s *InMemoryPropertyStore) Create(ctx context.Context, p *property.Property) error {
	if p == nil {
		return ierr.NewError("property cannot be nil").
			WithHint("Property cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, p.ID, p)
}

func (s *InMemoryPropertyStore) Get(ctx context.Context, id string) (*property.Property, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("property not found").
			WithHintf("Property %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryPropertyStore) Update(ctx context.Context, p *property.Property) error {
	if p == nil {
		return ierr.NewError("property cannot be nil").
			WithHint("Property cannot be nil").
			Mark(ierr.ErrValidation)
	}
	p.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, p.ID, p)
}

func (s *InMemoryPropertyStore) List(ctx context.Context) ([]*property.Property, error) {
	return s.InMemoryStore.List(ctx, nil, nil, func(i, j *property.Property) bool {
		return i.CreatedAt.Before(j.CreatedAt)
	})
}
