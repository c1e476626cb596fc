// Package runner drives concurrent order traffic against the API and checks
// that order numbers stay unique and that retried creates are replayed.
package runner

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	mrand "math/rand/v2"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bewloop/quark-system/tools/loadgen/internal/client"
	"github.com/bewloop/quark-system/tools/loadgen/internal/pool"
	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/time/rate"
)

// nextStage mirrors the production pipeline; shipped and cancelled are terminal
var nextStage = map[string]string{
	"intake":    "cut",
	"cut":       "assembled",
	"assembled": "sewn",
	"sewn":      "qc",
	"qc":        "shipped",
}

// Config controls a run
type Config struct {
	Workers  int
	Duration time.Duration
	// ReplayRatio is the share of creates sent twice with the same key
	ReplayRatio float64
	// CancelRatio is the share of status changes that cancel instead of advance
	CancelRatio float64
	// QPS caps the request rate across all workers; zero is unlimited
	QPS float64
}

// Recorder receives per-request outcomes, e.g. a Prometheus exporter
type Recorder interface {
	RecordRequest(operation, outcome string, latency time.Duration)
	SetPoolSize(n int)
	RecordDuplicate()
}

type nopRecorder struct{}

func (nopRecorder) RecordRequest(string, string, time.Duration) {}
func (nopRecorder) SetPoolSize(int)                             {}
func (nopRecorder) RecordDuplicate()                            {}

// Report summarises a run. Conflicts counts 409s and lost status races;
// ReplayMismatches counts replays that returned a different order number.
type Report struct {
	Requests         int64
	Created          int64
	Replayed         int64
	Advanced         int64
	Cancelled        int64
	Conflicts        int64
	Errors           int64
	ReplayMismatches int64
	Duplicates       []string
	P50, P95, P99    time.Duration
}

type pooledOrder struct {
	ID    string
	Stage string
}

type createdOrder struct {
	ID               string `json:"id"`
	OrderNo          string `json:"order_no"`
	ProductionStatus string `json:"production_status"`
}

// Runner executes the scenario
type Runner struct {
	api      *client.Client
	pool     *pool.Pool
	cfg      Config
	limiter  *rate.Limiter
	recorder Recorder

	mu        sync.Mutex
	seen      map[string]string
	latencies []time.Duration
	report    Report
}

// New creates a runner using an authenticated client. A nil recorder
// discards outcomes.
func New(api *client.Client, cfg Config, recorder Recorder) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.QPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.QPS), max(1, int(cfg.QPS)))
	}
	return &Runner{
		api:      api,
		cfg:      cfg,
		limiter:  limiter,
		recorder: recorder,
		pool:     pool.New(pool.Config{MaxValuesPerType: 1000, DefaultTTL: 10 * time.Minute}),
		seen:     make(map[string]string),
	}
}

// Run blocks until the duration elapses or ctx is cancelled
func (r *Runner) Run(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Duration)
	defer cancel()
	defer func() { _ = r.pool.Close() }()

	var wg sync.WaitGroup
	for w := 0; w < r.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r.limiter.Wait(ctx) == nil {
				r.step(ctx)
			}
		}()
	}
	wg.Wait()
	return r.finish()
}

func (r *Runner) step(ctx context.Context) {
	// Half the traffic creates, the rest moves pooled orders along
	if mrand.IntN(2) == 0 {
		r.createOrder(ctx)
		return
	}
	v, err := r.pool.GetRandom(pool.SemanticTypeOrderID)
	if err != nil {
		r.createOrder(ctx)
		return
	}
	r.changeStatus(ctx, v)
}

func (r *Runner) createOrder(ctx context.Context) {
	key := newKey()
	body := map[string]any{
		"car_model":      gofakeit.CarMaker() + " " + gofakeit.CarModel(),
		"car_year":       fmt.Sprintf("%d", gofakeit.Number(2005, 2026)),
		"mat_type":       gofakeit.RandomString([]string{"rubber", "leather", "carpet", "vinyl"}),
		"mat_color":      gofakeit.SafeColor(),
		"mat_qty":        gofakeit.Number(1, 4),
		"payment_status": gofakeit.RandomString([]string{"unpaid", "deposit", "paid"}),
	}

	var out createdOrder
	if !r.call(ctx, "create_order", http.MethodPost, "/orders", body, key, &out) {
		return
	}
	atomic.AddInt64(&r.report.Created, 1)
	r.recordNumber(out.OrderNo, key)
	_ = r.pool.Add(pooledOrder{ID: out.ID, Stage: out.ProductionStatus}, pool.SemanticTypeOrderID, 0)
	r.updatePoolSize()

	if mrand.Float64() >= r.cfg.ReplayRatio {
		return
	}
	var again createdOrder
	res, err := r.api.Do(ctx, http.MethodPost, "/orders", body, key, &again)
	r.observe("replay_order", res, err)
	if err != nil {
		return
	}
	if res.Replayed {
		atomic.AddInt64(&r.report.Replayed, 1)
	}
	if again.OrderNo != out.OrderNo {
		atomic.AddInt64(&r.report.ReplayMismatches, 1)
	}
}

func (r *Runner) changeStatus(ctx context.Context, v *pool.Value) {
	o, ok := v.Value.(pooledOrder)
	if !ok {
		r.pool.Remove(v)
		return
	}
	target, cancelling := nextStage[o.Stage], mrand.Float64() < r.cfg.CancelRatio
	if cancelling {
		target = "cancelled"
	}
	if target == "" {
		r.pool.Remove(v)
		return
	}

	var out struct {
		Order createdOrder `json:"order"`
	}
	body := map[string]string{"production_status": target}
	if !r.call(ctx, "change_status", http.MethodPut, "/orders/"+o.ID+"/production-status", body, "", &out) {
		return
	}
	r.pool.Remove(v)
	defer r.updatePoolSize()
	if cancelling {
		atomic.AddInt64(&r.report.Cancelled, 1)
		return
	}
	atomic.AddInt64(&r.report.Advanced, 1)
	if _, more := nextStage[target]; more {
		_ = r.pool.Add(pooledOrder{ID: o.ID, Stage: target}, pool.SemanticTypeOrderID, 0)
	}
}

// call sends one request and classifies its outcome; it reports success
func (r *Runner) call(ctx context.Context, operation, method, path string, body any, key string, out any) bool {
	res, err := r.api.Do(ctx, method, path, body, key, out)
	r.observe(operation, res, err)
	return err == nil
}

func (r *Runner) observe(operation string, res client.Result, err error) {
	atomic.AddInt64(&r.report.Requests, 1)
	if res.Latency > 0 {
		r.mu.Lock()
		r.latencies = append(r.latencies, res.Latency)
		r.mu.Unlock()
	}

	outcome := "ok"
	var apiErr *client.APIError
	switch {
	case err == nil:
		if res.Replayed {
			outcome = "replayed"
		}
	// Workers racing on the same pooled order lose with INVALID_TRANSITION
	case errors.As(err, &apiErr) && (apiErr.Status == http.StatusConflict || apiErr.Code == "INVALID_TRANSITION"):
		atomic.AddInt64(&r.report.Conflicts, 1)
		outcome = "conflict"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		outcome = "cancelled"
	default:
		atomic.AddInt64(&r.report.Errors, 1)
		outcome = "error"
	}
	r.recorder.RecordRequest(operation, outcome, res.Latency)
}

func (r *Runner) updatePoolSize() {
	r.recorder.SetPoolSize(r.pool.Stats().ValuesByType[pool.SemanticTypeOrderID])
}

func (r *Runner) recordNumber(orderNo, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.seen[orderNo]; ok && prev != key {
		r.report.Duplicates = append(r.report.Duplicates, orderNo)
		r.recorder.RecordDuplicate()
		return
	}
	r.seen[orderNo] = key
}

func (r *Runner) finish() Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	sort.Slice(r.latencies, func(i, j int) bool { return r.latencies[i] < r.latencies[j] })
	rep := r.report
	rep.P50 = percentile(r.latencies, 0.50)
	rep.P95 = percentile(r.latencies, 0.95)
	rep.P99 = percentile(r.latencies, 0.99)
	return rep
}

// percentile expects sorted input
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

func newKey() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
