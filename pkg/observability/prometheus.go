package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/wordtiles/pkg/errors"
)

// PrometheusHooks implements every hook interface in this package on top of
// Prometheus collectors. Create it once per registry.
type PrometheusHooks struct {
	attempts       prometheus.Counter
	grows          prometheus.Counter
	runs           *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
	attemptsPerRun prometheus.Histogram
	gridSize       prometheus.Histogram

	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec

	cacheEvents *prometheus.CounterVec
	cacheBytes  prometheus.Counter

	ordersQueued    prometheus.Counter
	ordersProcessed *prometheus.CounterVec
	orderDuration   prometheus.Histogram
}

// NewPrometheusHooks registers the wordtiles collectors on reg and returns
// hooks that update them. Passing prometheus.DefaultRegisterer exposes the
// metrics on promhttp.Handler().
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		attempts: f.NewCounter(prometheus.CounterOpts{
			Namespace: "wordtiles",
			Subsystem: "engine",
			Name:      "attempts_total",
			Help:      "Shuffle-seed-place attempts started",
		}),
		grows: f.NewCounter(prometheus.CounterOpts{
			Namespace: "wordtiles",
			Subsystem: "engine",
			Name:      "grid_grows_total",
			Help:      "Stall-triggered grid doublings",
		}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wordtiles",
			Subsystem: "engine",
			Name:      "runs_total",
			Help:      "Completed engine runs by outcome",
		}, []string{"outcome"}),
		runDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wordtiles",
			Subsystem: "engine",
			Name:      "run_duration_seconds",
			Help:      "Engine run latency in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"outcome"}),
		attemptsPerRun: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wordtiles",
			Subsystem: "engine",
			Name:      "attempts_per_run",
			Help:      "Attempts consumed by a single run",
			Buckets:   []float64{1, 2, 3, 5, 10, 20, 50, 100},
		}),
		gridSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wordtiles",
			Subsystem: "engine",
			Name:      "grid_size_cells",
			Help:      "Grid dimension at the start of each attempt",
			Buckets:   []float64{8, 16, 32, 64, 128, 256, 512},
		}),
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wordtiles",
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		stageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wordtiles",
			Subsystem: "pipeline",
			Name:      "stage_errors_total",
			Help:      "Pipeline stage failures by error code",
		}, []string{"stage", "code"}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wordtiles",
			Subsystem: "cache",
			Name:      "events_total",
			Help:      "Cache hits, misses and writes by key type",
		}, []string{"event", "key_type"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: "wordtiles",
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache",
		}),
		ordersQueued: f.NewCounter(prometheus.CounterOpts{
			Namespace: "wordtiles",
			Subsystem: "intake",
			Name:      "orders_queued_total",
			Help:      "Orders discovered in the JSON directory",
		}),
		ordersProcessed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wordtiles",
			Subsystem: "intake",
			Name:      "orders_processed_total",
			Help:      "Processed orders by status",
		}, []string{"status"}),
		orderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wordtiles",
			Subsystem: "intake",
			Name:      "order_duration_seconds",
			Help:      "End-to-end order processing latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (h *PrometheusHooks) OnAttemptStart(_ int, gridSize, _ int) {
	h.attempts.Inc()
	h.gridSize.Observe(float64(gridSize))
}

func (h *PrometheusHooks) OnGrow(int, int) {
	h.grows.Inc()
}

func (h *PrometheusHooks) OnRunComplete(_ int, attempts int, d time.Duration, err error) {
	outcome := outcomeOf(err)
	h.runs.WithLabelValues(outcome).Inc()
	h.runDuration.WithLabelValues(outcome).Observe(d.Seconds())
	h.attemptsPerRun.Observe(float64(attempts))
}

func (h *PrometheusHooks) OnLayoutStart(context.Context, string, int) {}

func (h *PrometheusHooks) OnLayoutComplete(_ context.Context, _ string, d time.Duration, err error) {
	h.observeStage("layout", d, err)
}

func (h *PrometheusHooks) OnRenderStart(context.Context, []string) {}

func (h *PrometheusHooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	h.observeStage("render", d, err)
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues("hit", keyType).Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues("miss", keyType).Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheEvents.WithLabelValues("set", keyType).Inc()
	h.cacheBytes.Add(float64(size))
}

func (h *PrometheusHooks) OnOrderQueued(context.Context, string) {
	h.ordersQueued.Inc()
}

func (h *PrometheusHooks) OnOrderProcessed(_ context.Context, _ string, status string, d time.Duration) {
	h.ordersProcessed.WithLabelValues(status).Inc()
	h.orderDuration.Observe(d.Seconds())
}

func (h *PrometheusHooks) observeStage(stage string, d time.Duration, err error) {
	h.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		code := string(errors.GetCode(err))
		if code == "" {
			code = string(errors.ErrCodeInternal)
		}
		h.stageErrors.WithLabelValues(stage, code).Inc()
	}
}

// outcomeOf maps a run error to a low-cardinality label value.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, errors.ErrCodePlacementExhausted):
		return "exhausted"
	case errors.Is(err, errors.ErrCodeInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}

var (
	_ EngineHooks   = (*PrometheusHooks)(nil)
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ IntakeHooks   = (*PrometheusHooks)(nil)
)
