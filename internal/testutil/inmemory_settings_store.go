package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/locatus/locatus/internal/domain/settings"
	ierr "github.com/locatus/locatus/internal/errors"
	"github.com/locatus/locatus/internal/types"
)

// InMemorySettingsStore implements settings.Repository
type InMemorySettingsStore struct {
	mu    sync.RWMutex
	byKey map[types.SettingKey]*settings.Setting
}

// NewInMemorySettingsStore creates a new in-memory settings repository
func NewInMemorySettingsStore() *InMemorySettingsStore {
	return &InMemorySettingsStore{
		byKey: make(map[types.SettingKey]*settings.Setting),
	}
}

// Clear resets all stored data
func (s *InMemorySettingsStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byKey = make(map[types.SettingKey]*settings.Setting)
}

func (s *InMemorySettingsStore) GetByKey(ctx context.Context, key types.SettingKey) (*settings.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	setting, exists := s.byKey[key]
	if !exists {
		return nil, ierr.NewError("setting not found").
			WithHintf("No setting exists with key %s", key).
			Mark(ierr.ErrNotFound)
	}
	return setting, nil
}

func (s *InMemorySettingsStore) Upsert(ctx context.Context, setting *settings.Setting) error {
	if setting == nil {
		return ierr.NewError("setting cannot be nil").
			WithHint("Setting cannot be nil").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, exists := s.byKey[setting.Key]; exists {
		existing.Value = setting.Value
		existing.UpdatedAt = time.Now().UTC()
		return nil
	}
	s.byKey[setting.Key] = setting
	return nil
}
