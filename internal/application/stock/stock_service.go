// Package stock provides the stock listing, intake and take-out use cases.
package stock

import (
	"context"
	"time"

	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/bewloop/quark-system/internal/domain/stock"
	"github.com/bewloop/quark-system/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IntakeRequest represents a direct stock intake
type IntakeRequest struct {
	CarModel string `json:"car_model" binding:"required,max=100"`
	CarYear  string `json:"car_year" binding:"max=20"`
	MatType  string `json:"mat_type" binding:"required,max=50"`
	MatColor string `json:"mat_color" binding:"max=50"`
	MatQty   int    `json:"mat_qty" binding:"required,min=1"`
	Note     string `json:"note" binding:"max=2000"`
}

// ListFilter holds query parameters for listing stock
type ListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	InStock  bool   `form:"in_stock"`
	Search   string `form:"search" binding:"max=100"`
}

// EntryResponse represents a stock entry in API responses
type EntryResponse struct {
	ID           uuid.UUID  `json:"id"`
	CarModel     string     `json:"car_model"`
	CarYear      string     `json:"car_year"`
	MatType      string     `json:"mat_type"`
	MatColor     string     `json:"mat_color"`
	MatQty       int        `json:"mat_qty"`
	Note         string     `json:"note"`
	Source       string     `json:"source"`
	OrderID      *uuid.UUID `json:"order_id,omitempty"`
	StockOutDate *time.Time `json:"stock_out_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ToEntryResponse converts a domain entry to a response DTO
func ToEntryResponse(e *stock.Entry) EntryResponse {
	return EntryResponse{
		ID:           e.ID,
		CarModel:     e.CarModel,
		CarYear:      e.CarYear,
		MatType:      e.MatType,
		MatColor:     e.MatColor,
		MatQty:       e.MatQty,
		Note:         e.Note,
		Source:       string(e.Source),
		OrderID:      e.OrderID,
		StockOutDate: e.StockOutDate,
		CreatedAt:    e.CreatedAt,
	}
}

// StockService handles stock operations
type StockService struct {
	tx   shared.TxManager
	repo stock.Repository
	now  func() time.Time
}

// NewStockService creates a new StockService
func NewStockService(tx shared.TxManager, repo stock.Repository) *StockService {
	return &StockService{tx: tx, repo: repo, now: time.Now}
}

// Intake records material received directly into stock
func (s *StockService) Intake(ctx context.Context, req IntakeRequest) (*EntryResponse, error) {
	entry, err := stock.NewEntry(stock.Material{
		CarModel: req.CarModel,
		CarYear:  req.CarYear,
		MatType:  req.MatType,
		MatColor: req.MatColor,
		MatQty:   req.MatQty,
	}, req.Note)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("stock intake recorded",
		zap.String("stock_id", entry.ID.String()),
		zap.Int("mat_qty", entry.MatQty))
	resp := ToEntryResponse(entry)
	return &resp, nil
}

// TakeOut stamps the entry as used. The row is locked so two concurrent
// take-outs cannot both succeed.
func (s *StockService) TakeOut(ctx context.Context, id uuid.UUID) (*EntryResponse, error) {
	var entry *stock.Entry
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if entry, err = s.repo.FindByIDForUpdate(ctx, id); err != nil {
			return err
		}
		if err := entry.TakeOut(s.now().UTC()); err != nil {
			return err
		}
		return s.repo.Update(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	resp := ToEntryResponse(entry)
	return &resp, nil
}

// Get returns a single entry
func (s *StockService) Get(ctx context.Context, id uuid.UUID) (*EntryResponse, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToEntryResponse(entry)
	return &resp, nil
}

// List returns a page of entries, newest first
func (s *StockService) List(ctx context.Context, f ListFilter) ([]EntryResponse, int64, error) {
	entries, total, err := s.repo.List(ctx, stock.ListFilter{
		Filter:      shared.Filter{Page: f.Page, PageSize: f.PageSize, Search: f.Search},
		InStockOnly: f.InStock,
	})
	if err != nil {
		return nil, 0, err
	}
	out := make([]EntryResponse, len(entries))
	for i := range entries {
		out[i] = ToEntryResponse(&entries[i])
	}
	return out, total, nil
}
