package property

import (
	ierr "github.com/locatus/locatus/internal/errors"
	"github.com/locatus/locatus/internal/types"
)

// Property is a rental unit owned by a landlord account.
type Property struct {
	// Unique identifier for this property
	ID string `json:"id" gorm:"primaryKey"`
	// OwnerID is the landlord user who owns the property
	OwnerID string `json:"owner_id"`
	// Title shown in listings and reminder emails
	Title string `json:"title"`
	// Address of the property
	Address string `json:"address"`
	// City the property is located in
	City string `json:"city"`
	// PropertyType categorizes the unit
	PropertyType types.PropertyType `json:"property_type"`
	// PropertyStatus is the occupancy state; offline properties are skipped
	// by both scheduling engines
	PropertyStatus types.PropertyStatus `json:"property_status"`

	types.BaseModel
}

func (p *Property) TableName() string {
	return "properties"
}

// IsOffline reports whether the property has been withdrawn from the
// platform.
func (p *Property) IsOffline() bool {
	return p.PropertyStatus == types.PropertyStatusOffline
}

func (p *Property) Validate() error {
	if p.Title == "" {
		return ierr.NewError("title is required").
			WithHint("Property must have a title").
			Mark(ierr.ErrValidation)
	}
	if p.OwnerID == "" {
		return ierr.NewError("owner id is required").
			WithHint("Property must reference its owner").
			Mark(ierr.ErrValidation)
	}
	return nil
}
