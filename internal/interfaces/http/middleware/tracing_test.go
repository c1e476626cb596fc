package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracingWithConfig(t *testing.T) {
	rec := withSpanRecorder(t)

	r := gin.New()
	r.Use(RequestID(), TracingWithConfig(TracingConfig{ServiceName: "quark-test", Enabled: true}),
		SpanErrorMarker(), TracingAttributeInjector())
	r.PUT("/orders/:id/production-status", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPut, "/orders/9/production-status", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	spans := rec.Ended()
	require.Len(t, spans, 2, "health probe must not be traced")

	rejected := spans[0]
	assert.Equal(t, "PUT /orders/:id/production-status", rejected.Name())
	v, ok := attrValue(rejected.Attributes(), "request_id")
	require.True(t, ok)
	assert.Equal(t, "req-42", v.AsString())
	assert.NotEqual(t, codes.Error, rejected.Status().Code, "4xx is a client outcome, not a server failure")

	failed := spans[1]
	assert.Equal(t, codes.Error, failed.Status().Code)
}

func TestTracingWithConfig_Disabled(t *testing.T) {
	rec := withSpanRecorder(t)

	r := gin.New()
	r.Use(TracingWithConfig(TracingConfig{Enabled: false}))
	r.GET("/orders", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, rec.Ended())
}
