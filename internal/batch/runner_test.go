package batch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vidforge/vidforge-agent/internal/metrics"
	"github.com/vidforge/vidforge-agent/internal/script"
)

func testRunner(t *testing.T, composer Composer, cfg RunnerConfig) *DailyRunner {
	t.Helper()
	cfg.Logger = testLogger()
	orch := NewOrchestrator(composer, &fakeAssembler{}, &fakePersister{}, metrics.NewStubSink(testLogger()),
		Config{GateSize: 4, Logger: testLogger()})
	return NewDailyRunner(orch, NewRequestSource(testCatalog(t)), cfg)
}

func TestDailyRunner_ReachesTarget(t *testing.T) {
	runner := testRunner(t, &fakeComposer{}, RunnerConfig{
		DailyTarget: 10,
		BatchSize:   4,
		Pause:       time.Millisecond,
	})

	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if report.Produced != 10 {
		t.Errorf("produced = %d, want 10", report.Produced)
	}
	// 4 + 4 + 2: the last batch is trimmed to the remainder.
	if report.Batches != 3 {
		t.Errorf("batches = %d, want 3", report.Batches)
	}
	if report.Target != 10 || report.Failed != 0 {
		t.Errorf("report = %+v", report)
	}
	if report.Date != time.Now().UTC().Format("2006-01-02") {
		t.Errorf("date = %q", report.Date)
	}
	if report.SuccessRate() != 100 {
		t.Errorf("success rate = %v, want 100", report.SuccessRate())
	}
}

func TestReport_Derived(t *testing.T) {
	r := Report{Date: "2026-08-28", Target: 10, Produced: 8, Failed: 2, Batches: 2, Elapsed: 16 * time.Second}
	if got := r.SuccessRate(); got != 80 {
		t.Errorf("success rate = %v, want 80", got)
	}
	if got := r.AvgPerVideo(); got != 2*time.Second {
		t.Errorf("avg/video = %v, want 2s", got)
	}
	if (Report{}).SuccessRate() != 0 || (Report{}).AvgPerVideo() != 0 {
		t.Error("empty report must not divide by zero")
	}
	s := r.Summary()
	for _, want := range []string{"2026-08-28", "8 / 10", "80.0%"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestDailyRunner_StalledProductionAborts(t *testing.T) {
	composer := &fakeComposer{fn: func(req script.ContentRequest) (*script.Script, error) {
		return nil, script.ErrGenerationFailed
	}}
	runner := testRunner(t, composer, RunnerConfig{
		DailyTarget: 100,
		BatchSize:   5,
		Pause:       time.Millisecond,
	})

	report, err := runner.Run(context.Background())
	if err == nil {
		t.Fatal("expected stall error")
	}
	if report.Batches != maxStalledBatches {
		t.Errorf("batches = %d, want %d", report.Batches, maxStalledBatches)
	}
	if report.Produced != 0 {
		t.Errorf("produced = %d, want 0", report.Produced)
	}
}

func TestDailyRunner_CancelledBetweenBatches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := testRunner(t, &fakeComposer{}, RunnerConfig{
		DailyTarget: 100,
		BatchSize:   5,
		Pause:       time.Hour,
	})

	report, err := runner.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if report.Batches != 1 {
		t.Errorf("batches = %d, want 1 (cancel lands on the pause)", report.Batches)
	}
	if report.Produced != 5 {
		t.Errorf("produced = %d, want 5", report.Produced)
	}
}

func TestDailyRunner_Defaults(t *testing.T) {
	orch := NewOrchestrator(&fakeComposer{}, &fakeAssembler{}, &fakePersister{}, metrics.NewStubSink(testLogger()),
		Config{Logger: testLogger()})
	runner := NewDailyRunner(orch, NewRequestSource(testCatalog(t)), RunnerConfig{Logger: testLogger()})

	if runner.cfg.DailyTarget != 1000 {
		t.Errorf("default target = %d, want 1000", runner.cfg.DailyTarget)
	}
	if runner.cfg.BatchSize != 50 {
		t.Errorf("default batch size = %d, want 50", runner.cfg.BatchSize)
	}
}
