package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bewloop/quark-system/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumWhere(t *testing.T, agg metricdata.Aggregation, key, value string) int64 {
	t.Helper()
	sum, ok := agg.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		if key == "" {
			total += dp.Value
			continue
		}
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			total += dp.Value
		}
	}
	return total
}

func newTestMetrics(t *testing.T, inStock telemetry.InStockCounter) (*telemetry.BusinessMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:   mp.Meter(telemetry.MeterName),
		InStock: inStock,
	})
	require.NoError(t, err)
	return bm, reader
}

func TestBusinessMetrics_Counters(t *testing.T) {
	bm, reader := newTestMetrics(t, nil)
	ctx := context.Background()

	bm.RecordOrderCreated(ctx)
	bm.RecordOrderCreated(ctx)
	bm.RecordTransition(ctx, "intake", "cut")
	bm.RecordTransition(ctx, "cut", "cancelled")
	bm.RecordPeriodLock(ctx, "lock")
	bm.RecordPayrollSaved(ctx, "piece")
	bm.RecordInvoiceIssued(ctx)

	data := collect(t, reader)
	assert.Equal(t, int64(2), sumWhere(t, data["quark_order_created_total"], "", ""))
	assert.Equal(t, int64(2), sumWhere(t, data["quark_order_status_transition_total"], "", ""))
	assert.Equal(t, int64(1), sumWhere(t, data["quark_order_status_transition_total"], "to_status", "cut"))
	assert.Equal(t, int64(1), sumWhere(t, data["quark_order_cancelled_total"], "from_status", "cut"))
	assert.Equal(t, int64(1), sumWhere(t, data["quark_payroll_period_lock_total"], "action", "lock"))
	assert.Equal(t, int64(1), sumWhere(t, data["quark_payroll_item_saved_total"], "pay_type", "piece"))
	assert.Equal(t, int64(1), sumWhere(t, data["quark_invoice_issued_total"], "", ""))
}

func TestBusinessMetrics_InStockGauge(t *testing.T) {
	bm, reader := newTestMetrics(t, func(context.Context) (int64, error) {
		return 12, nil
	})
	defer bm.Stop()

	data := collect(t, reader)
	gauge, ok := data["quark_stock_in_stock"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(12), gauge.DataPoints[0].Value)
}

func TestBusinessMetrics_InStockFailureDoesNotFailCollect(t *testing.T) {
	bm, reader := newTestMetrics(t, func(context.Context) (int64, error) {
		return 0, errors.New("db down")
	})
	defer bm.Stop()

	var rm metricdata.ResourceMetrics
	assert.NoError(t, reader.Collect(context.Background(), &rm))
}

func TestBusinessMetrics_NilSafe(t *testing.T) {
	var bm *telemetry.BusinessMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		bm.RecordOrderCreated(ctx)
		bm.RecordTransition(ctx, "qc", "shipped")
		bm.RecordPeriodLock(ctx, "unlock")
		bm.RecordPayrollSaved(ctx, "daily")
		bm.RecordInvoiceIssued(ctx)
		bm.Stop()
	})
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	_, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{})
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}
