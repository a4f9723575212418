package types

import (
	"time"

	ierr "github.com/locatus/locatus/internal/errors"
)

// LeaseStatus is the business lifecycle of a lease
type LeaseStatus string

const (
	LeaseStatusActive     LeaseStatus = "active"
	LeaseStatusTerminated LeaseStatus = "terminated"
	LeaseStatusExpired    LeaseStatus = "expired"
)

func (s LeaseStatus) Validate() error {
	switch s {
	case LeaseStatusActive, LeaseStatusTerminated, LeaseStatusExpired:
		return nil
	default:
		return ierr.NewError("invalid lease status").
			WithHintf("Lease status %s is not supported", s).
			Mark(ierr.ErrValidation)
	}
}

// LeaseFilter represents the filter options for listing leases
type LeaseFilter struct {
	*QueryFilter

	LeaseIDs      []string      `json:"lease_ids,omitempty" form:"lease_ids"`
	PropertyID    string        `json:"property_id,omitempty" form:"property_id"`
	TenantID      string        `json:"tenant_id,omitempty" form:"tenant_id"`
	LeaseStatuses []LeaseStatus `json:"lease_statuses,omitempty" form:"lease_statuses"`
	// ExcludeOfflineProperties drops leases whose property has been taken offline;
	// both scheduling engines set this.
	ExcludeOfflineProperties bool `json:"exclude_offline_properties,omitempty" form:"exclude_offline_properties"`
	// ActiveOn keeps leases whose validity window includes the given date
	ActiveOn *time.Time `json:"active_on,omitempty" form:"active_on"`
}

func (f *LeaseFilter) GetLimit() int {
	if f == nil || f.QueryFilter == nil {
		return FilterDefaultLimit
	}
	return f.QueryFilter.GetLimit()
}

func (f *LeaseFilter) GetOffset() int {
	if f == nil || f.QueryFilter == nil {
		return 0
	}
	return f.QueryFilter.GetOffset()
}
