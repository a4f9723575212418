package testutil

import (
	"context"
	"time"

	"github.com/locatus/locatus/internal/domain/lease"
	ierr "github.com/locatus/locatus/internal/errors"
	"github.com/locatus/locatus/internal/types"
	"github.com/samber/lo"
)

// InMemoryLeaseStore implements lease.Repository. It optionally holds a
// property store so ExcludeOfflineProperties behaves like the SQL join.
type InMemoryLeaseStore struct {
	*InMemoryStore[*lease.Lease]
	properties *InMemoryPropertyStore
}

// NewInMemoryLeaseStore creates a new in-memory lease repository
func NewInMemoryLeaseStore(properties *InMemoryPropertyStore) *InMemoryLeaseStore {
	return &InMemoryLeaseStore{
		InMemoryStore: NewInMemoryStore[*lease.Lease](),
		properties:    properties,
	}
}

func (s *InMemoryLeaseStore) Create(ctx context.Context, l *lease.Lease) error {
	if l == nil {
		return ierr.NewError("lease cannot be nil").
			WithHint("Lease cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, l.ID, l)
}

func (s *InMemoryLeaseStore) Get(ctx context.Context, id string) (*lease.Lease, error) {
	l, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("lease not found").
			WithHintf("Lease %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return l, nil
}

func (s *InMemoryLeaseStore) Update(ctx context.Context, l *lease.Lease) error {
	if l == nil {
		return ierr.NewError("lease cannot be nil").
			WithHint("Lease cannot be nil").
			Mark(ierr.ErrValidation)
	}
	l.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, l.ID, l)
}

func (s *InMemoryLeaseStore) List(ctx context.Context, filter *types.LeaseFilter) ([]*lease.Lease, error) {
	return s.InMemoryStore.List(ctx, filter, s.filterFn, s.sortFn)
}

func (s *InMemoryLeaseStore) Count(ctx context.Context, filter *types.LeaseFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, s.filterFn)
}

func (s *InMemoryLeaseStore) UpdateNextDueDate(ctx context.Context, id string, next time.Time) error {
	l, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	l.NextDueDate = lo.ToPtr(next)
	l.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, id, l)
}

func (s *InMemoryLeaseStore) filterFn(ctx context.Context, l *lease.Lease, filter interface{}) bool {
	f, ok := filter.(*types.LeaseFilter)
	if !ok || f == nil {
		return true
	}

	if len(f.LeaseIDs) > 0 && !lo.Contains(f.LeaseIDs, l.ID) {
		return false
	}
	if f.PropertyID != "" && l.PropertyID != f.PropertyID {
		return false
	}
	if f.TenantID != "" && l.TenantID != f.TenantID {
		return false
	}
	if len(f.LeaseStatuses) > 0 && !lo.Contains(f.LeaseStatuses, l.LeaseStatus) {
		return false
	}
	if f.ActiveOn != nil {
		on := types.BeginningOfDay(*f.ActiveOn)
		if types.BeginningOfDay(l.StartDate).After(on) {
			return false
		}
		if l.EndDate != nil && types.BeginningOfDay(*l.EndDate).Before(on) {
			return false
		}
	}
	if f.ExcludeOfflineProperties && s.properties != nil {
		if prop, err := s.properties.Get(ctx, l.PropertyID); err == nil && prop.IsOffline() {
			return false
		}
	}
	return true
}

func (s *InMemoryLeaseStore) sortFn(i, j *lease.Lease) bool {
	return i.CreatedAt.Before(j.CreatedAt)
}
