// Package batch drives concurrent production runs: a gated batch
// orchestrator and a daily runner that works toward the output target.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vidforge/vidforge-agent/internal/assemble"
	"github.com/vidforge/vidforge-agent/internal/metrics"
	"github.com/vidforge/vidforge-agent/internal/script"
)

// Composer is the slice of the script package the orchestrator needs.
type Composer interface {
	Compose(ctx context.Context, req script.ContentRequest) (*script.Script, error)
}

// Assembler is the slice of the assemble package the orchestrator needs.
type Assembler interface {
	Assemble(ctx context.Context, s *script.Script) (*assemble.VideoArtifact, error)
}

// Persister saves production records. Persistence failures never fail
// an item; the orchestrator logs and moves on.
type Persister interface {
	SaveScript(ctx context.Context, s *script.Script) error
	SaveArtifact(ctx context.Context, a *assemble.VideoArtifact) error
}

// Outcome is the result of producing one item. Script is set once
// generation succeeded, Artifact once assembly did.
type Outcome struct {
	Request  script.ContentRequest
	Script   *script.Script
	Artifact *assemble.VideoArtifact
	Err      error
	Elapsed  time.Duration
}

func (o Outcome) Succeeded() bool { return o.Err == nil }

// FailureStage names where a failed item stopped: "script",
// an assembly stage, or "panic". Empty for successes.
func (o Outcome) FailureStage() string {
	if o.Err == nil {
		return ""
	}
	if o.Script == nil {
		return "script"
	}
	var fatal *assemble.FatalError
	if errors.As(o.Err, &fatal) {
		return fatal.Stage
	}
	return "panic"
}

// Result summarises one batch. Outcomes appear in completion order.
type Result struct {
	BatchID  string
	Produced int
	Failed   int
	Elapsed  time.Duration
	Outcomes []Outcome
}

// Config holds the orchestrator's configuration.
type Config struct {
	GateSize int
	Logger   *slog.Logger
}

// Orchestrator runs production batches under a concurrency gate. One
// gate slot covers an item end to end, generation through storage.
type Orchestrator struct {
	composer  Composer
	assembler Assembler
	persister Persister
	sink      metrics.Sink
	gate      chan struct{}
	logger    *slog.Logger
}

func NewOrchestrator(composer Composer, assembler Assembler, persister Persister, sink metrics.Sink, cfg Config) *Orchestrator {
	if cfg.GateSize <= 0 {
		cfg.GateSize = 10
	}
	return &Orchestrator{
		composer:  composer,
		assembler: assembler,
		persister: persister,
		sink:      sink,
		gate:      make(chan struct{}, cfg.GateSize),
		logger:    cfg.Logger,
	}
}

// RunBatch produces every request and waits for all of them. A failed
// or panicking item becomes a failed Outcome, never a failed batch.
func (o *Orchestrator) RunBatch(ctx context.Context, requests []script.ContentRequest) Result {
	batchID := uuid.NewString()
	logger := o.logger.With("batch_id", batchID)
	start := time.Now()

	logger.Info("batch started", "items", len(requests))

	outcomes := make(chan Outcome)
	var wg sync.WaitGroup
	for _, req := range requests {
		wg.Add(1)
		go func(req script.ContentRequest) {
			defer wg.Done()
			outcomes <- o.produce(ctx, logger, req)
		}(req)
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	result := Result{BatchID: batchID}
	for out := range outcomes {
		result.Outcomes = append(result.Outcomes, out)
		if out.Succeeded() {
			result.Produced++
		} else {
			result.Failed++
		}
	}
	result.Elapsed = time.Since(start)

	day := time.Now().UTC().Format("2006-01-02")
	if err := o.sink.Add(ctx, day, result.Produced, result.Elapsed); err != nil {
		logger.Warn("metrics report failed", "error", err)
	}

	logger.Info("batch complete",
		"produced", result.Produced,
		"failed", result.Failed,
		"duration_ms", result.Elapsed.Milliseconds(),
	)
	return result
}

func (o *Orchestrator) produce(ctx context.Context, logger *slog.Logger, req script.ContentRequest) (out Outcome) {
	start := time.Now()
	out.Request = req
	defer func() {
		if r := recover(); r != nil {
			logger.Error("production item panicked", "niche", req.Niche, "panic", r)
			out.Err = fmt.Errorf("production item panicked: %v", r)
		}
		out.Elapsed = time.Since(start)
	}()

	o.gate <- struct{}{}
	defer func() { <-o.gate }()

	s, err := o.composer.Compose(ctx, req)
	if err != nil {
		out.Err = fmt.Errorf("script: %w", err)
		return out
	}
	out.Script = s

	if err := o.persister.SaveScript(ctx, s); err != nil {
		logger.Warn("script persist failed", "script_id", s.ID, "error", err)
	}

	art, err := o.assembler.Assemble(ctx, s)
	if err != nil {
		out.Err = err
		return out
	}
	out.Artifact = art

	if err := o.persister.SaveArtifact(ctx, art); err != nil {
		logger.Warn("artifact persist failed", "artifact_id", art.ID, "error", err)
	}
	return out
}
