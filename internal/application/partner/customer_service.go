// Package partner provides customer management.
package partner

import (
	"context"
	"time"

	"github.com/bewloop/quark-system/internal/domain/partner"
	"github.com/bewloop/quark-system/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerRequest is the body of create and update requests
type CustomerRequest struct {
	Code    string `json:"customer_code" binding:"required,max=50"`
	Name    string `json:"name" binding:"required,max=200"`
	Address string `json:"address" binding:"max=1000"`
	TaxID   string `json:"tax_id" binding:"max=20"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"customer_code"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	TaxID     string    `json:"tax_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToCustomerResponse converts a domain customer to a response DTO
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		Address:   c.Address,
		TaxID:     c.TaxID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CustomerService handles customer operations
type CustomerService struct {
	repo partner.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(repo partner.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

// Create adds a customer
func (s *CustomerService) Create(ctx context.Context, req CustomerRequest) (*CustomerResponse, error) {
	c, err := partner.NewCustomer(req.Code, req.Name, req.Address, req.TaxID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("customer created", zap.String("customer_id", c.ID.String()), zap.String("code", c.Code))
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// Get returns a customer by ID
func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// List returns all customers ordered by code
func (s *CustomerService) List(ctx context.Context) ([]CustomerResponse, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = ToCustomerResponse(&customers[i])
	}
	return out, nil
}

// Update replaces a customer's fields
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req CustomerRequest) (*CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Update(req.Code, req.Name, req.Address, req.TaxID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// Delete removes a customer
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.L(ctx).Info("customer deleted", zap.String("customer_id", id.String()))
	return nil
}
