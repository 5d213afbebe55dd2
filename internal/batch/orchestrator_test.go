package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/vidforge/vidforge-agent/internal/assemble"
	"github.com/vidforge/vidforge-agent/internal/metrics"
	"github.com/vidforge/vidforge-agent/internal/script"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// gauge tracks the peak number of concurrent holders.
type gauge struct {
	mu     sync.Mutex
	active int
	peak   int
}

func (g *gauge) inc() {
	g.mu.Lock()
	g.active++
	if g.active > g.peak {
		g.peak = g.active
	}
	g.mu.Unlock()
}

func (g *gauge) dec() {
	g.mu.Lock()
	g.active--
	g.mu.Unlock()
}

type fakeComposer struct {
	mu    sync.Mutex
	calls int
	delay time.Duration
	gauge *gauge
	fn    func(req script.ContentRequest) (*script.Script, error)
}

func (f *fakeComposer) Compose(ctx context.Context, req script.ContentRequest) (*script.Script, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()

	if f.gauge != nil {
		f.gauge.inc()
		defer f.gauge.dec()
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fn != nil {
		return f.fn(req)
	}
	return &script.Script{ID: fmt.Sprintf("s-%d", n), Niche: req.Niche, Platform: req.Platform}, nil
}

type fakeAssembler struct {
	mu    sync.Mutex
	calls int
	delay time.Duration
	gauge *gauge
	fn    func(s *script.Script) (*assemble.VideoArtifact, error)
}

func (f *fakeAssembler) Assemble(ctx context.Context, s *script.Script) (*assemble.VideoArtifact, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()

	if f.gauge != nil {
		f.gauge.inc()
		defer f.gauge.dec()
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fn != nil {
		return f.fn(s)
	}
	return &assemble.VideoArtifact{ID: fmt.Sprintf("a-%d", n), ScriptID: s.ID, Platform: s.Platform}, nil
}

type fakePersister struct {
	mu        sync.Mutex
	scripts   int
	artifacts int
	err       error
}

func (f *fakePersister) SaveScript(ctx context.Context, s *script.Script) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts++
	return f.err
}

func (f *fakePersister) SaveArtifact(ctx context.Context, a *assemble.VideoArtifact) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.artifacts++
	return f.err
}

func requests(n int) []script.ContentRequest {
	reqs := make([]script.ContentRequest, n)
	for i := range reqs {
		reqs[i] = script.ContentRequest{Niche: "ai_technology", Platform: "tiktok", Duration: 60}
	}
	return reqs
}

func TestRunBatch_AllSucceed(t *testing.T) {
	composer := &fakeComposer{}
	assembler := &fakeAssembler{}
	persister := &fakePersister{}
	sink := metrics.NewStubSink(testLogger())
	orch := NewOrchestrator(composer, assembler, persister, sink, Config{GateSize: 10, Logger: testLogger()})

	result := orch.RunBatch(context.Background(), requests(20))

	if result.Produced != 20 || result.Failed != 0 {
		t.Errorf("produced/failed = %d/%d, want 20/0", result.Produced, result.Failed)
	}
	if len(result.Outcomes) != 20 {
		t.Errorf("outcomes = %d, want 20", len(result.Outcomes))
	}
	if result.BatchID == "" {
		t.Error("batch must have an id")
	}
	if persister.scripts != 20 || persister.artifacts != 20 {
		t.Errorf("persisted %d scripts, %d artifacts, want 20/20", persister.scripts, persister.artifacts)
	}

	day := time.Now().UTC().Format("2006-01-02")
	produced, _ := sink.Produced(day)
	if produced != 20 {
		t.Errorf("metrics produced = %d, want 20", produced)
	}
}

func TestRunBatch_GateBoundsConcurrency(t *testing.T) {
	g := &gauge{}
	composer := &fakeComposer{gauge: g, delay: 5 * time.Millisecond}
	assembler := &fakeAssembler{gauge: g, delay: 5 * time.Millisecond}
	orch := NewOrchestrator(composer, assembler, &fakePersister{}, metrics.NewStubSink(testLogger()),
		Config{GateSize: 3, Logger: testLogger()})

	result := orch.RunBatch(context.Background(), requests(30))

	if result.Produced != 30 {
		t.Fatalf("produced = %d, want 30", result.Produced)
	}
	if g.peak > 3 {
		t.Errorf("peak concurrency = %d, want at most 3", g.peak)
	}
}

func TestRunBatch_FailureClassification(t *testing.T) {
	composer := &fakeComposer{fn: func(req script.ContentRequest) (*script.Script, error) {
		if req.Niche == "failgen" {
			return nil, script.ErrGenerationFailed
		}
		return &script.Script{ID: "s", Niche: req.Niche}, nil
	}}
	assembler := &fakeAssembler{fn: func(s *script.Script) (*assemble.VideoArtifact, error) {
		if s.Niche == "failcompose" {
			return nil, &assemble.FatalError{Stage: "compose", Err: errors.New("filter graph error")}
		}
		return &assemble.VideoArtifact{ID: "a", ScriptID: s.ID}, nil
	}}
	orch := NewOrchestrator(composer, assembler, &fakePersister{}, metrics.NewStubSink(testLogger()),
		Config{GateSize: 2, Logger: testLogger()})

	reqs := []script.ContentRequest{
		{Niche: "failgen"},
		{Niche: "failcompose"},
		{Niche: "ok"},
	}
	result := orch.RunBatch(context.Background(), reqs)

	if result.Produced != 1 || result.Failed != 2 {
		t.Fatalf("produced/failed = %d/%d, want 1/2", result.Produced, result.Failed)
	}

	stages := map[string]string{}
	for _, out := range result.Outcomes {
		stages[out.Request.Niche] = out.FailureStage()
	}
	if stages["failgen"] != "script" {
		t.Errorf("failgen stage = %q, want script", stages["failgen"])
	}
	if stages["failcompose"] != "compose" {
		t.Errorf("failcompose stage = %q, want compose", stages["failcompose"])
	}
	if stages["ok"] != "" {
		t.Errorf("ok stage = %q, want empty", stages["ok"])
	}
}

func TestRunBatch_PanicBecomesFailedOutcome(t *testing.T) {
	composer := &fakeComposer{fn: func(req script.ContentRequest) (*script.Script, error) {
		if req.Niche == "boom" {
			panic("nil map write")
		}
		return &script.Script{ID: "s", Niche: req.Niche}, nil
	}}
	orch := NewOrchestrator(composer, &fakeAssembler{}, &fakePersister{}, metrics.NewStubSink(testLogger()),
		Config{GateSize: 2, Logger: testLogger()})

	reqs := []script.ContentRequest{{Niche: "boom"}, {Niche: "ok"}}
	result := orch.RunBatch(context.Background(), reqs)

	if result.Produced != 1 || result.Failed != 1 {
		t.Fatalf("produced/failed = %d/%d, want 1/1", result.Produced, result.Failed)
	}
	for _, out := range result.Outcomes {
		if out.Request.Niche == "boom" && out.FailureStage() != "panic" {
			t.Errorf("panic stage = %q, want panic", out.FailureStage())
		}
	}

	// The gate must not leak slots after a panic.
	again := orch.RunBatch(context.Background(), requests(4))
	if again.Produced != 4 {
		t.Errorf("second batch produced = %d, want 4", again.Produced)
	}
}

func TestRunBatch_PersistFailureDoesNotFailItem(t *testing.T) {
	persister := &fakePersister{err: errors.New("disk full")}
	orch := NewOrchestrator(&fakeComposer{}, &fakeAssembler{}, persister, metrics.NewStubSink(testLogger()),
		Config{GateSize: 2, Logger: testLogger()})

	result := orch.RunBatch(context.Background(), requests(3))
	if result.Produced != 3 || result.Failed != 0 {
		t.Errorf("produced/failed = %d/%d, want 3/0", result.Produced, result.Failed)
	}
}

func TestRunBatch_Empty(t *testing.T) {
	orch := NewOrchestrator(&fakeComposer{}, &fakeAssembler{}, &fakePersister{}, metrics.NewStubSink(testLogger()),
		Config{Logger: testLogger()})

	result := orch.RunBatch(context.Background(), nil)
	if result.Produced != 0 || result.Failed != 0 || len(result.Outcomes) != 0 {
		t.Errorf("empty batch result = %+v", result)
	}
}
