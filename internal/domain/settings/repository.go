package settings

import (
	"context"

	"github.com/locatus/locatus/internal/types"
)

// Repository defines the interface for settings persistence
type Repository interface {
	GetByKey(ctx context.Context, key types.SettingKey) (*Setting, error)
	Upsert(ctx context.Context, setting *Setting) error
}
