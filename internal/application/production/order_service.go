// Package production holds the order use cases: numbering, stage changes with
// their audit trail, and stock reconciliation on cancellation.
package production

import (
	"context"
	"time"

	"github.com/bewloop/quark-system/internal/domain/production"
	"github.com/bewloop/quark-system/internal/domain/sequence"
	"github.com/bewloop/quark-system/internal/domain/shared"
	"github.com/bewloop/quark-system/internal/domain/stock"
	"github.com/bewloop/quark-system/internal/infrastructure/logger"
	"github.com/bewloop/quark-system/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderServiceConfig holds numbering settings
type OrderServiceConfig struct {
	// OrderPrefix is the leading part of order numbers, e.g. QK
	OrderPrefix string
	// Location decides which calendar year a number belongs to
	Location *time.Location
}

// OrderService handles production order operations
type OrderService struct {
	tx         shared.TxManager
	allocator  sequence.Allocator
	orders     production.OrderRepository
	logs       production.StatusLogRepository
	audit      *AuditLogger
	reconciler *StockReconciler
	metrics    *telemetry.BusinessMetrics
	cfg        OrderServiceConfig
	now        func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(
	tx shared.TxManager,
	allocator sequence.Allocator,
	orders production.OrderRepository,
	logs production.StatusLogRepository,
	stockRepo stock.Repository,
	metrics *telemetry.BusinessMetrics,
	cfg OrderServiceConfig,
) *OrderService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &OrderService{
		tx:         tx,
		allocator:  allocator,
		orders:     orders,
		logs:       logs,
		audit:      NewAuditLogger(logs),
		reconciler: NewStockReconciler(stockRepo),
		metrics:    metrics,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Create allocates the next order number and persists the order at intake.
// The counter increment and the insert share one transaction.
func (s *OrderService) Create(ctx context.Context, actor uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create")
	defer span.End()

	details := production.OrderDetails{
		Material: stock.Material{
			CarModel: req.CarModel,
			CarYear:  req.CarYear,
			MatType:  req.MatType,
			MatColor: req.MatColor,
			MatQty:   req.MatQty,
		},
		Channel:       req.Channel,
		Customer:      req.Customer,
		SetType:       req.SetType,
		Note:          req.Note,
		PaymentStatus: production.PaymentStatus(req.PaymentStatus),
	}
	if err := details.Material.Validate(); err != nil {
		return nil, err
	}

	now := s.now().In(s.cfg.Location)
	var order *production.Order
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		n, err := s.allocator.Next(ctx, sequence.DocumentTypeOrder, sequence.PeriodKey(now))
		if err != nil {
			return err
		}
		orderNo := sequence.FormatOrderNumber(s.cfg.OrderPrefix, now.Year(), n)
		order, err = production.NewOrder(orderNo, details, actor, now)
		if err != nil {
			return err
		}
		return s.orders.Create(ctx, order)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		logFailure(ctx, "order create failed", err)
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrOrderID, order.ID.String(), telemetry.SpanAttrOrderNo, order.OrderNo)
	s.metrics.RecordOrderCreated(ctx)
	logger.L(ctx).Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_no", order.OrderNo))

	resp := ToOrderResponse(order)
	return &resp, nil
}

// ChangeStatus validates and applies a stage change. The status update, its
// audit entry and, on cancellation, the reconciled stock entry commit together.
// The order row is locked for the duration so concurrent changes serialize.
func (s *OrderService) ChangeStatus(ctx context.Context, actor, orderID uuid.UUID, req ChangeStatusRequest) (*StatusChangeResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "change_status",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrStatus, req.ProductionStatus))
	defer span.End()

	to := production.ParseStatus(req.ProductionStatus)
	var (
		order *production.Order
		from  production.Status
		entry *production.StatusLogEntry
		back  *stock.Entry
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.orders.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		from = order.ProductionStatus
		if err := order.ChangeStatus(to); err != nil {
			return err
		}
		if err := s.orders.UpdateStatus(ctx, order); err != nil {
			return err
		}
		if entry, err = s.audit.Record(ctx, order.ID, order.ProductionStatus, actor); err != nil {
			return err
		}
		if order.IsCancelled() {
			back, err = s.reconciler.Reconcile(ctx, order)
			return err
		}
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		logFailure(ctx, "order status change failed", err,
			zap.String("order_id", orderID.String()),
			zap.String("requested", string(to)))
		return nil, err
	}

	s.metrics.RecordTransition(ctx, string(from), string(to))
	logger.L(ctx).Info("order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)))

	resp := &StatusChangeResponse{
		Order: ToOrderResponse(order),
		Log:   ToStatusLogResponse(*entry),
	}
	if back != nil {
		id := back.ID
		resp.StockEntryID = &id
	}
	return resp, nil
}

// Get returns an order with its status history
func (s *OrderService) Get(ctx context.Context, orderID uuid.UUID) (*OrderDetailResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	history, err := s.logs.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := &OrderDetailResponse{
		OrderResponse: ToOrderResponse(order),
		History:       make([]StatusLogResponse, len(history)),
	}
	for i, e := range history {
		resp.History[i] = ToStatusLogResponse(e)
	}
	return resp, nil
}

// List returns a page of orders, newest first
func (s *OrderService) List(ctx context.Context, f ListOrdersFilter) ([]OrderResponse, int64, error) {
	status := production.ParseStatus(f.Status)
	if f.Status != "" && !status.IsValid() {
		return nil, 0, shared.ErrInvalidInput.WithMessage("unknown production_status %q", f.Status)
	}
	filter := production.ListFilter{
		Filter: shared.Filter{Page: f.Page, PageSize: f.PageSize, Search: f.Search},
		Status: status,
	}
	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out, total, nil
}

// logFailure logs business rejections at info and store failures at error
// with their cause.
func logFailure(ctx context.Context, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if shared.IsStoreFailure(err) {
		logger.L(ctx).Error(msg, fields...)
		return
	}
	logger.L(ctx).Info(msg, fields...)
}
