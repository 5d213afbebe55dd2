package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Batches that produce nothing usually mean the backend or the media
// tools are down; after this many in a row the run aborts.
const maxStalledBatches = 3

// RunnerConfig holds the daily runner's configuration.
type RunnerConfig struct {
	DailyTarget int
	BatchSize   int
	Pause       time.Duration
	Logger      *slog.Logger
}

// Report summarises one daily run.
type Report struct {
	Date     string        `json:"date"`
	Target   int           `json:"target"`
	Produced int           `json:"produced"`
	Failed   int           `json:"failed"`
	Batches  int           `json:"batches"`
	Elapsed  time.Duration `json:"elapsed"`
}

// SuccessRate is the share of attempted items that produced an
// artifact, as a percentage.
func (r Report) SuccessRate() float64 {
	attempts := r.Produced + r.Failed
	if attempts == 0 {
		return 0
	}
	return float64(r.Produced) / float64(attempts) * 100
}

// AvgPerVideo is the mean wall-clock time per produced artifact.
func (r Report) AvgPerVideo() time.Duration {
	if r.Produced == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Produced)
}

// Summary renders the report for the end-of-run printout.
func (r Report) Summary() string {
	return fmt.Sprintf(
		"Production report %s\n"+
			"  produced:     %d / %d\n"+
			"  failed:       %d\n"+
			"  success rate: %.1f%%\n"+
			"  batches:      %d\n"+
			"  total time:   %s\n"+
			"  avg/video:    %s",
		r.Date, r.Produced, r.Target, r.Failed, r.SuccessRate(),
		r.Batches, r.Elapsed.Round(time.Second), r.AvgPerVideo().Round(time.Millisecond),
	)
}

// DailyRunner feeds batches to the orchestrator until the daily
// target is met.
type DailyRunner struct {
	orch   *Orchestrator
	source *RequestSource
	cfg    RunnerConfig
}

func NewDailyRunner(orch *Orchestrator, source *RequestSource, cfg RunnerConfig) *DailyRunner {
	if cfg.DailyTarget <= 0 {
		cfg.DailyTarget = 1000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	return &DailyRunner{orch: orch, source: source, cfg: cfg}
}

// Run produces batches until the target is reached, the context is
// cancelled, or production stalls completely.
func (r *DailyRunner) Run(ctx context.Context) (Report, error) {
	logger := r.cfg.Logger
	report := Report{
		Date:   time.Now().UTC().Format("2006-01-02"),
		Target: r.cfg.DailyTarget,
	}
	start := time.Now()
	stalled := 0

	logger.Info("daily run started",
		"target", r.cfg.DailyTarget,
		"batch_size", r.cfg.BatchSize,
	)

	for report.Produced < r.cfg.DailyTarget {
		size := r.cfg.DailyTarget - report.Produced
		if size > r.cfg.BatchSize {
			size = r.cfg.BatchSize
		}

		result := r.orch.RunBatch(ctx, r.source.Take(size))
		report.Batches++
		report.Produced += result.Produced
		report.Failed += result.Failed

		logger.Info("daily progress",
			"produced", report.Produced,
			"target", r.cfg.DailyTarget,
			"failed", report.Failed,
			"batches", report.Batches,
		)

		if result.Produced == 0 {
			stalled++
			if stalled >= maxStalledBatches {
				report.Elapsed = time.Since(start)
				return report, fmt.Errorf("production stalled: %d consecutive batches produced nothing", stalled)
			}
		} else {
			stalled = 0
		}

		if report.Produced >= r.cfg.DailyTarget {
			break
		}

		select {
		case <-ctx.Done():
			report.Elapsed = time.Since(start)
			return report, ctx.Err()
		case <-time.After(r.cfg.Pause):
		}
	}

	report.Elapsed = time.Since(start)
	logger.Info("daily run complete",
		"produced", report.Produced,
		"failed", report.Failed,
		"batches", report.Batches,
		"duration_s", int(report.Elapsed.Seconds()),
	)
	return report, nil
}
