// Package partner models customers that invoices are billed to.
package partner

import (
	"context"
	"strings"

	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/google/uuid"
)

// Customer is a billable customer
type Customer struct {
	shared.BaseEntity
	// Code is unique across customers
	Code    string
	Name    string
	Address string
	TaxID   string
}

// NewCustomer creates a customer
func NewCustomer(code, name, address, taxID string) (*Customer, error) {
	c := &Customer{BaseEntity: shared.NewBaseEntity()}
	if err := c.Update(code, name, address, taxID); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the customer's fields
func (c *Customer) Update(code, name, address, taxID string) error {
	code, name = strings.TrimSpace(code), strings.TrimSpace(name)
	if code == "" || name == "" {
		return shared.ErrInvalidInput.WithMessage("customer_code and name required")
	}
	if len(code) > 50 {
		return shared.ErrInvalidInput.WithMessage("customer_code cannot exceed 50 characters")
	}
	taxID = strings.TrimSpace(taxID)
	if len(taxID) > 20 {
		return shared.ErrInvalidInput.WithMessage("tax_id cannot exceed 20 characters")
	}
	c.Code = strings.ToUpper(code)
	c.Name = name
	c.Address = strings.TrimSpace(address)
	c.TaxID = taxID
	c.Touch()
	return nil
}

// CustomerRepository persists customers. Create and Update return
// shared.ErrAlreadyExists when the code is taken.
type CustomerRepository interface {
	Create(ctx context.Context, c *Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]Customer, error)
}
