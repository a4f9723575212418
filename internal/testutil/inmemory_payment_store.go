package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/locatus/locatus/internal/domain/payment"
	ierr "github.com/locatus/locatus/internal/errors"
	"github.com/locatus/locatus/internal/types"
	"github.com/samber/lo"
)

// InMemoryPaymentStore implements payment.Repository. A secondary index on
// (lease_id, due_date) mirrors the unique constraint the real table carries.
type InMemoryPaymentStore struct {
	*InMemoryStore[*payment.Payment]
	mu         sync.Mutex
	byLeaseDue map[string]string
	createHook func(*payment.Payment) error
}

// NewInMemoryPaymentStore creates a new in-memory payment repository
func NewInMemoryPaymentStore() *InMemoryPaymentStore {
	return &InMemoryPaymentStore{
		InMemoryStore: NewInMemoryStore[*payment.Payment](),
		byLeaseDue:    make(map[string]string),
	}
}

// Clear resets all stored data
func (s *InMemoryPaymentStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.InMemoryStore.Clear()
	s.byLeaseDue = make(map[string]string)
	s.createHook = nil
}

// SetCreateHook installs a hook consulted before every Create; a non-nil
// return is surfaced to the caller without storing the payment. Tests use it
// to simulate storage failures and unique-index conflicts.
func (s *InMemoryPaymentStore) SetCreateHook(fn func(*payment.Payment) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createHook = fn
}

func (s *InMemoryPaymentStore) Create(ctx context.Context, p *payment.Payment) error {
	if p == nil {
		return ierr.NewError("payment cannot be nil").
			WithHint("Payment cannot be nil").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createHook != nil {
		if err := s.createHook(p); err != nil {
			return err
		}
	}

	key := leaseDueKey(p.LeaseID, p.DueDate)
	if _, exists := s.byLeaseDue[key]; exists {
		return ierr.NewError("payment already exists for due date").
			WithHint("A payment with this due date already exists for the lease").
			Mark(ierr.ErrAlreadyExists)
	}

	if err := s.InMemoryStore.Create(ctx, p.ID, p); err != nil {
		return err
	}
	s.byLeaseDue[key] = p.ID
	return nil
}

func (s *InMemoryPaymentStore) Get(ctx context.Context, id string) (*payment.Payment, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("payment not found").
			WithHintf("Payment %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryPaymentStore) Update(ctx context.Context, p *payment.Payment) error {
	if p == nil {
		return ierr.NewError("payment cannot be nil").
			WithHint("Payment cannot be nil").
			Mark(ierr.ErrValidation)
	}
	p.UpdatedAt = time.Now().UTC()
	return s.InMemoryStore.Update(ctx, p.ID, p)
}

func (s *InMemoryPaymentStore) List(ctx context.Context, filter *types.PaymentFilter) ([]*payment.Payment, error) {
	return s.InMemoryStore.List(ctx, filter, s.filterFn, s.sortFn)
}

func (s *InMemoryPaymentStore) Count(ctx context.Context, filter *types.PaymentFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, s.filterFn)
}

func (s *InMemoryPaymentStore) ExistsForDueDate(ctx context.Context, leaseID string, dueDate time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.byLeaseDue[leaseDueKey(leaseID, dueDate)]
	return exists, nil
}

func (s *InMemoryPaymentStore) filterFn(ctx context.Context, p *payment.Payment, filter interface{}) bool {
	f, ok := filter.(*types.PaymentFilter)
	if !ok || f == nil {
		return true
	}

	if len(f.PaymentIDs) > 0 && !lo.Contains(f.PaymentIDs, p.ID) {
		return false
	}
	if f.LeaseID != "" && p.LeaseID != f.LeaseID {
		return false
	}
	if len(f.PaymentStatuses) > 0 && !lo.Contains(f.PaymentStatuses, p.PaymentStatus) {
		return false
	}
	due := types.BeginningOfDay(p.DueDate)
	if f.DueDateFrom != nil && due.Before(types.BeginningOfDay(*f.DueDateFrom)) {
		return false
	}
	if f.DueDateTo != nil && due.After(types.BeginningOfDay(*f.DueDateTo)) {
		return false
	}
	return true
}

func (s *InMemoryPaymentStore) sortFn(i, j *payment.Payment) bool {
	return i.DueDate.Before(j.DueDate)
}

func leaseDueKey(leaseID string, dueDate time.Time) string {
	return fmt.Sprintf("%s:%s", leaseID, types.BeginningOfDay(dueDate).Format(time.DateOnly))
}
