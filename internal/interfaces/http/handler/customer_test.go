package handler

import (
	"context"
	"net/http"
	"testing"

	partnerapp "github.com/bewloop/quark-system/internal/application/partner"
	"github.com/bewloop/quark-system/internal/domain/partner"
	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCustomers struct {
	byID map[uuid.UUID]*partner.Customer
}

func newMemCustomers() *memCustomers {
	return &memCustomers{byID: map[uuid.UUID]*partner.Customer{}}
}

func (m *memCustomers) Create(_ context.Context, c *partner.Customer) error {
	for _, existing := range m.byID {
		if existing.Code == c.Code {
			return shared.ErrAlreadyExists.WithMessage("customer_code %s already exists", c.Code)
		}
	}
	m.byID[c.ID] = c
	return nil
}

func (m *memCustomers) FindByID(_ context.Context, id uuid.UUID) (*partner.Customer, error) {
	if c, ok := m.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, shared.ErrNotFound.WithMessage("customer not found")
}

func (m *memCustomers) Update(_ context.Context, c *partner.Customer) error {
	m.byID[c.ID] = c
	return nil
}

func (m *memCustomers) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return shared.ErrNotFound.WithMessage("customer not found")
	}
	delete(m.byID, id)
	return nil
}

func (m *memCustomers) List(_ context.Context) ([]partner.Customer, error) {
	var out []partner.Customer
	for _, c := range m.byID {
		out = append(out, *c)
	}
	return out, nil
}

func newCustomerRouter() *gin.Engine {
	h := NewCustomerHandler(partnerapp.NewCustomerService(newMemCustomers()))
	r := gin.New()
	r.POST("/customers", h.Create)
	r.GET("/customers", h.List)
	r.GET("/customers/:id", h.Get)
	r.PUT("/customers/:id", h.Update)
	r.DELETE("/customers/:id", h.Delete)
	return r
}

func TestCustomerHandler_CRUD(t *testing.T) {
	r := newCustomerRouter()
	body := map[string]string{"customer_code": "C001", "name": "Siam Auto", "address": "Bangkok", "tax_id": "0105551234567"}

	w, resp := doJSON(t, r, http.MethodPost, "/customers", body)
	require.Equal(t, http.StatusCreated, w.Code)
	id := dataMap(t, resp)["id"].(string)

	w, resp = doJSON(t, r, http.MethodPost, "/customers", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, shared.CodeAlreadyExists, resp.Error.Code)

	body["name"] = "Siam Auto Parts"
	w, resp = doJSON(t, r, http.MethodPut, "/customers/"+id, body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Siam Auto Parts", dataMap(t, resp)["name"])

	w, resp = doJSON(t, r, http.MethodGet, "/customers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp.Data, 1)

	w, _ = doJSON(t, r, http.MethodDelete, "/customers/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/customers/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomerHandler_Validation(t *testing.T) {
	r := newCustomerRouter()
	w, resp := doJSON(t, r, http.MethodPost, "/customers", map[string]string{"name": "No Code"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}
