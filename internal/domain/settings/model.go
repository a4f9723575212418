package settings

import (
	ierr "github.com/locatus/locatus/internal/errors"
	"github.com/locatus/locatus/internal/types"
)

// Setting is a persisted key/value configuration row. The scheduler uses it
// for the monthly-sweep last-run marker so that multiple process instances
// share one durable value instead of an in-process variable.
type Setting struct {
	// ID is the unique identifier for the setting
	ID string `json:"id" gorm:"primaryKey"`
	// Key is the setting key
	Key types.SettingKey `json:"key" gorm:"uniqueIndex"`
	// Value is the JSON value of the setting
	Value map[string]interface{} `json:"value" gorm:"serializer:json"`

	types.BaseModel
}

func (s *Setting) TableName() string {
	return "settings"
}

func (s *Setting) Validate() error {
	if s.Key == "" {
		return ierr.NewError("key is required").
			WithHint("Setting must have a key").
			Mark(ierr.ErrValidation)
	}
	return nil
}
