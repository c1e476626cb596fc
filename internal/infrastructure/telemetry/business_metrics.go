package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Metric attribute keys
const (
	AttrFromStatus = attribute.Key("from_status")
	AttrToStatus   = attribute.Key("to_status")
	AttrAction     = attribute.Key("action")
	AttrPayType    = attribute.Key("pay_type")
)

// InStockCounter reports how many stock entries are currently in stock
type InStockCounter func(ctx context.Context) (int64, error)

// BusinessMetrics counts the workshop's business events. A nil
// *BusinessMetrics is valid and records nothing.
type BusinessMetrics struct {
	logger *zap.Logger

	ordersCreated     *Counter
	statusTransitions *Counter
	ordersCancelled   *Counter
	periodLockChanges *Counter
	payrollItemsSaved *Counter
	invoicesIssued    *Counter
	inStockCallback   metric.Registration
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
	// InStock, when set, backs the quark_stock_in_stock gauge
	InStock InStockCounter
}

// NewBusinessMetrics registers the business instruments on cfg.Meter
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	bm := &BusinessMetrics{logger: logger}

	counters := []struct {
		target **Counter
		name   string
		desc   string
		unit   string
	}{
		{&bm.ordersCreated, "quark_order_created_total", "Total number of production orders created", "{orders}"},
		{&bm.statusTransitions, "quark_order_status_transition_total", "Total number of applied production status changes", "{transitions}"},
		{&bm.ordersCancelled, "quark_order_cancelled_total", "Total number of cancelled production orders", "{orders}"},
		{&bm.periodLockChanges, "quark_payroll_period_lock_total", "Total number of payroll period lock and unlock actions", "{events}"},
		{&bm.payrollItemsSaved, "quark_payroll_item_saved_total", "Total number of payroll item saves", "{items}"},
		{&bm.invoicesIssued, "quark_invoice_issued_total", "Total number of invoices issued", "{invoices}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(cfg.Meter, c.name, c.desc, c.unit)
		if err != nil {
			return nil, err
		}
		*c.target = counter
	}

	if cfg.InStock != nil {
		gauge, err := cfg.Meter.Int64ObservableGauge("quark_stock_in_stock",
			metric.WithDescription("Current number of stock entries not yet taken out"),
			metric.WithUnit("{entries}"))
		if err != nil {
			return nil, err
		}
		reg, err := cfg.Meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
			n, err := cfg.InStock(ctx)
			if err != nil {
				logger.Warn("failed to count in-stock entries", zap.Error(err))
				return nil
			}
			o.ObserveInt64(gauge, n)
			return nil
		}, gauge)
		if err != nil {
			return nil, err
		}
		bm.inStockCallback = reg
	}
	return bm, nil
}

// RecordOrderCreated counts a new production order
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context) {
	if bm == nil {
		return
	}
	bm.ordersCreated.Inc(ctx)
}

// RecordTransition counts an applied status change. Cancellations are also
// counted separately.
func (bm *BusinessMetrics) RecordTransition(ctx context.Context, from, to string) {
	if bm == nil {
		return
	}
	bm.statusTransitions.Inc(ctx, AttrFromStatus.String(from), AttrToStatus.String(to))
	if to == "cancelled" {
		bm.ordersCancelled.Inc(ctx, AttrFromStatus.String(from))
	}
}

// RecordPeriodLock counts a lock or unlock action
func (bm *BusinessMetrics) RecordPeriodLock(ctx context.Context, action string) {
	if bm == nil {
		return
	}
	bm.periodLockChanges.Inc(ctx, AttrAction.String(action))
}

// RecordPayrollSaved counts a payroll item save
func (bm *BusinessMetrics) RecordPayrollSaved(ctx context.Context, payType string) {
	if bm == nil {
		return
	}
	bm.payrollItemsSaved.Inc(ctx, AttrPayType.String(payType))
}

// RecordInvoiceIssued counts an issued invoice
func (bm *BusinessMetrics) RecordInvoiceIssued(ctx context.Context) {
	if bm == nil {
		return
	}
	bm.invoicesIssued.Inc(ctx)
}

// Stop unregisters the gauge callback
func (bm *BusinessMetrics) Stop() {
	if bm == nil || bm.inStockCallback == nil {
		return
	}
	if err := bm.inStockCallback.Unregister(); err != nil {
		bm.logger.Warn("failed to unregister metrics callback", zap.Error(err))
	}
}
