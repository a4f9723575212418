package testutil

import (
	"context"
	"sync"

	"github.com/locatus/locatus/internal/domain/reminder"
	ierr "github.com/locatus/locatus/internal/errors"
)

// InMemoryReminderStore implements reminder.Repository. Like the real table
// it enforces the unique dedup key and surfaces conflicts as
// ierr.ErrAlreadyExists.
type InMemoryReminderStore struct {
	*InMemoryStore[*reminder.History]
	mu    sync.Mutex
	byKey map[string]string
}

// NewInMemoryReminderStore creates a new in-memory reminder ledger
func NewInMemoryReminderStore() *InMemoryReminderStore {
	return &InMemoryReminderStore{
		InMemoryStore: NewInMemoryStore[*reminder.History](),
		byKey:         make(map[string]string),
	}
}

// Clear resets all stored data
func (s *InMemoryReminderStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.InMemoryStore.Clear()
	s.byKey = make(map[string]string)
}

func (s *InMemoryReminderStore) Create(ctx context.Context, h *reminder.History) error {
	if h == nil {
		return ierr.NewError("history entry cannot be nil").
			WithHint("History entry cannot be nil").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byKey[h.Key]; exists {
		return ierr.NewError("reminder already recorded").
			WithHintf("A reminder with key %s was already sent", h.Key).
			Mark(ierr.ErrAlreadyExists)
	}

	if err := s.InMemoryStore.Create(ctx, h.ID, h); err != nil {
		return err
	}
	s.byKey[h.Key] = h.ID
	return nil
}

func (s *InMemoryReminderStore) GetByKey(ctx context.Context, key string) (*reminder.History, error) {
	s.mu.Lock()
	id, exists := s.byKey[key]
	s.mu.Unlock()

	if !exists {
		return nil, ierr.NewError("reminder history not found").
			WithHintf("No reminder was sent with key %s", key).
			Mark(ierr.ErrNotFound)
	}
	return s.InMemoryStore.Get(ctx, id)
}

func (s *InMemoryReminderStore) ExistsByKey(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.byKey[key]
	return exists, nil
}

func (s *InMemoryReminderStore) ListByTenant(ctx context.Context, tenantID string) ([]*reminder.History, error) {
	return s.InMemoryStore.List(ctx, nil, func(ctx context.Context, h *reminder.History, _ interface{}) bool {
		return h.TenantID == tenantID
	}, func(i, j *reminder.History) bool {
		return i.SentAt.Before(j.SentAt)
	})
}
