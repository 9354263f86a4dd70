package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/wordtiles/pkg/errors"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Engine hooks
	e := NoopEngineHooks{}
	e.OnAttemptStart(1, 10, 5)
	e.OnGrow(10, 20)
	e.OnRunComplete(5, 1, time.Millisecond, nil)

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnLayoutStart(ctx, "order-1", 5)
	p.OnLayoutComplete(ctx, "order-1", time.Second, nil)
	p.OnRenderStart(ctx, []string{"png"})
	p.OnRenderComplete(ctx, []string{"png"}, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	// Intake hooks
	i := NoopIntakeHooks{}
	i.OnOrderQueued(ctx, "order-1")
	i.OnOrderProcessed(ctx, "order-1", "completed", time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Engine() should return NoopEngineHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Intake().(NoopIntakeHooks); !ok {
		t.Error("Intake() should return NoopIntakeHooks by default")
	}

	customEngine := &testEngineHooks{}
	SetEngineHooks(customEngine)
	if Engine() != customEngine {
		t.Error("SetEngineHooks should set custom hooks")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customIntake := &testIntakeHooks{}
	SetIntakeHooks(customIntake)
	if Intake() != customIntake {
		t.Error("SetIntakeHooks should set custom hooks")
	}

	Reset()
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Reset() should restore NoopEngineHooks")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEngineHooks{}
	SetEngineHooks(custom)
	SetEngineHooks(nil)

	if Engine() != custom {
		t.Error("SetEngineHooks(nil) should be ignored")
	}

	Reset()
}

func TestPrometheusHooksEngine(t *testing.T) {
	h := NewPrometheusHooks(prometheus.NewRegistry())

	h.OnAttemptStart(1, 10, 3)
	h.OnAttemptStart(2, 20, 3)
	h.OnGrow(10, 20)
	h.OnRunComplete(3, 2, time.Millisecond, nil)
	h.OnRunComplete(2, 50, time.Millisecond, errors.New(errors.ErrCodePlacementExhausted, "budget"))

	if got := testutil.ToFloat64(h.attempts); got != 2 {
		t.Errorf("attempts = %v, want 2", got)
	}
	if got := testutil.ToFloat64(h.grows); got != 1 {
		t.Errorf("grows = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.runs.WithLabelValues("success")); got != 1 {
		t.Errorf("success runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.runs.WithLabelValues("exhausted")); got != 1 {
		t.Errorf("exhausted runs = %v, want 1", got)
	}
}

func TestPrometheusHooksPipelineAndCache(t *testing.T) {
	ctx := context.Background()
	h := NewPrometheusHooks(prometheus.NewRegistry())

	h.OnLayoutComplete(ctx, "o1", time.Millisecond, errors.New(errors.ErrCodeInvalidInput, "bad"))
	h.OnRenderComplete(ctx, []string{"png"}, time.Millisecond, nil)
	h.OnCacheHit(ctx, "layout")
	h.OnCacheMiss(ctx, "layout")
	h.OnCacheSet(ctx, "artifact", 512)
	h.OnOrderQueued(ctx, "o1")
	h.OnOrderProcessed(ctx, "o1", "completed", time.Second)

	if got := testutil.ToFloat64(h.stageErrors.WithLabelValues("layout", "INVALID_INPUT")); got != 1 {
		t.Errorf("layout errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.cacheEvents.WithLabelValues("hit", "layout")); got != 1 {
		t.Errorf("cache hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.cacheBytes); got != 512 {
		t.Errorf("cache bytes = %v, want 512", got)
	}
	if got := testutil.ToFloat64(h.ordersProcessed.WithLabelValues("completed")); got != 1 {
		t.Errorf("completed orders = %v, want 1", got)
	}
}

func TestPrometheusHooksDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusHooks(reg)

	defer func() {
		if recover() == nil {
			t.Error("registering twice on one registry should panic")
		}
	}()
	NewPrometheusHooks(reg)
}

// Test implementations
type testEngineHooks struct{ NoopEngineHooks }
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testIntakeHooks struct{ NoopIntakeHooks }
