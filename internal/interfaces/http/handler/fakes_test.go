package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/bewloop/quark-system/internal/domain/production"
	"github.com/bewloop/quark-system/internal/domain/sequence"
	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/bewloop/quark-system/internal/domain/stock"
	"github.com/bewloop/quark-system/internal/interfaces/http/dto"
	"github.com/bewloop/quark-system/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type directTx struct{}

func (directTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memAllocator struct {
	mu   sync.Mutex
	next map[string]int64
}

func (a *memAllocator) Next(_ context.Context, t sequence.DocumentType, period string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.next == nil {
		a.next = map[string]int64{}
	}
	a.next[string(t)+period]++
	return a.next[string(t)+period], nil
}

func (a *memAllocator) Peek(_ context.Context, t sequence.DocumentType, period string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.next[string(t)+period] + 1, nil
}

type memOrders struct {
	byID map[uuid.UUID]*production.Order
}

func newMemOrders() *memOrders {
	return &memOrders{byID: map[uuid.UUID]*production.Order{}}
}

func (m *memOrders) Create(_ context.Context, o *production.Order) error {
	m.byID[o.ID] = o
	return nil
}

func (m *memOrders) FindByID(_ context.Context, id uuid.UUID) (*production.Order, error) {
	if o, ok := m.byID[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, shared.ErrNotFound.WithMessage("order not found")
}

func (m *memOrders) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*production.Order, error) {
	return m.FindByID(ctx, id)
}

func (m *memOrders) UpdateStatus(_ context.Context, o *production.Order) error {
	m.byID[o.ID] = o
	return nil
}

func (m *memOrders) List(_ context.Context, _ production.ListFilter) ([]production.Order, int64, error) {
	out := make([]production.Order, 0, len(m.byID))
	for _, o := range m.byID {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

type memStatusLogs struct {
	entries []production.StatusLogEntry
}

func (m *memStatusLogs) Append(_ context.Context, e *production.StatusLogEntry) error {
	m.entries = append(m.entries, *e)
	return nil
}

func (m *memStatusLogs) ListByOrder(_ context.Context, orderID uuid.UUID) ([]production.StatusLogEntry, error) {
	var out []production.StatusLogEntry
	for _, e := range m.entries {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

type memStock struct {
	byID map[uuid.UUID]*stock.Entry
}

func newMemStock() *memStock {
	return &memStock{byID: map[uuid.UUID]*stock.Entry{}}
}

func (m *memStock) Create(_ context.Context, e *stock.Entry) error {
	m.byID[e.ID] = e
	return nil
}

func (m *memStock) FindByID(_ context.Context, id uuid.UUID) (*stock.Entry, error) {
	if e, ok := m.byID[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, shared.ErrNotFound.WithMessage("stock entry not found")
}

func (m *memStock) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*stock.Entry, error) {
	return m.FindByID(ctx, id)
}

func (m *memStock) Update(_ context.Context, e *stock.Entry) error {
	m.byID[e.ID] = e
	return nil
}

func (m *memStock) List(_ context.Context, f stock.ListFilter) ([]stock.Entry, int64, error) {
	var out []stock.Entry
	for _, e := range m.byID {
		if f.InStockOnly && !e.InStock() {
			continue
		}
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (m *memStock) CountByOrder(_ context.Context, orderID uuid.UUID) (int64, error) {
	var n int64
	for _, e := range m.byID {
		if e.OrderID != nil && *e.OrderID == orderID {
			n++
		}
	}
	return n, nil
}

// asUser stands in for the JWT middleware
func asUser(id uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTUserIDKey, id.String())
		c.Next()
	}
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp dto.Response
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "application/pdf" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(v))
	return &buf
}

func dataMap(t *testing.T, resp dto.Response) map[string]any {
	t.Helper()
	m, ok := resp.Data.(map[string]any)
	require.True(t, ok, "data is %T", resp.Data)
	return m
}
