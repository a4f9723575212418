package types

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex lease_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_PROPERTY         = "prop"
	UUID_PREFIX_TENANT           = "ten"
	UUID_PREFIX_LEASE            = "lease"
	UUID_PREFIX_PAYMENT          = "pay"
	UUID_PREFIX_REMINDER_HISTORY = "rem"
	UUID_PREFIX_SETTING          = "setting"
)
