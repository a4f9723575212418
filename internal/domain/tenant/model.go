package tenant

import (
	"strings"

	ierr "github.com/locatus/locatus/internal/errors"
	"github.com/locatus/locatus/internal/types"
)

// Tenant is a renter: the person leases are signed with and reminder emails
// are addressed to.
type Tenant struct {
	// Unique identifier for this tenant
	ID string `json:"id" gorm:"primaryKey"`
	// Email the reminder engine sends to
	Email string `json:"email"`
	// FirstName of the tenant
	FirstName string `json:"first_name"`
	// LastName of the tenant
	LastName string `json:"last_name"`
	// Phone number, optional
	Phone string `json:"phone,omitempty"`

	types.BaseModel
}

func (t *Tenant) TableName() string {
	return "tenants"
}

// FullName joins the tenant's first and last name for display in emails.
func (t *Tenant) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

func (t *Tenant) Validate() error {
	if t.Email == "" {
		return ierr.NewError("email is required").
			WithHint("Tenant must have an email address").
			Mark(ierr.ErrValidation)
	}
	return nil
}
