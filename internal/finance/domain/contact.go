package domain

import (
	"context"
	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"github.com/sebuszqo/LedgerManager/internal/finance/errors"
	"strings"
	"time"
)

type ContactKind string

const (
	ContactKindCustomer ContactKind = "customer"
	ContactKindSupplier ContactKind = "supplier"
	ContactKindBoth     ContactKind = "both"
)

func (k ContactKind) IsValid() bool {
	switch k {
	case ContactKindCustomer, ContactKindSupplier, ContactKindBoth:
		return true
	}
	return false
}

type Contact struct {
	ID        uuid.UUID   `json:"id"`
	CompanyID uuid.UUID   `json:"company_id"`
	Name      string      `json:"name"`
	Kind      ContactKind `json:"kind"`
	Email     string      `json:"email,omitempty"`
	Phone     string      `json:"phone,omitempty"`
	Document  string      `json:"document,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type ContactRepository interface {
	Save(ctx context.Context, contact *Contact) error
	FindByCompany(ctx context.Context, companyID uuid.UUID, kind string) ([]Contact, error)
	FindByID(ctx context.Context, companyID, contactID uuid.UUID) (*Contact, error)
	Delete(ctx context.Context, companyID, contactID uuid.UUID) error
}

func (c *Contact) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	if c.Name == "" {
		return errors.NewValidationError("Contact name is required")
	}
	if !c.Kind.IsValid() {
		return errors.NewValidationError("Kind must be 'customer', 'supplier' or 'both'")
	}
	if c.Email != "" {
		if err := checkmail.ValidateFormat(c.Email); err != nil {
			return errors.NewValidationError("Invalid contact email format")
		}
	}
	return nil
}
