// Package metrics reports production counters to redis, one hash per
// UTC day, so an external dashboard can track daily throughput.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "production_metrics:"

	fieldProduced  = "videos_produced"
	fieldTotalTime = "total_time"

	// Daily hashes are kept for a month and then dropped.
	retention = 30 * 24 * time.Hour
)

// Sink receives per-batch production counters. Day is a UTC calendar
// day in YYYY-MM-DD form.
type Sink interface {
	Add(ctx context.Context, day string, produced int, elapsed time.Duration) error
}

// RedisSink is the production Sink.
type RedisSink struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisSink(client *redis.Client, logger *slog.Logger) *RedisSink {
	return &RedisSink{client: client, logger: logger}
}

func (s *RedisSink) Add(ctx context.Context, day string, produced int, elapsed time.Duration) error {
	key := keyPrefix + day

	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, key, fieldProduced, int64(produced))
	pipe.HIncrByFloat(ctx, key, fieldTotalTime, elapsed.Seconds())
	pipe.Expire(ctx, key, retention)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record production metrics: %w", err)
	}

	s.logger.Debug("production metrics recorded",
		"day", day,
		"produced", produced,
		"elapsed_s", elapsed.Seconds(),
	)
	return nil
}

// StubSink accumulates counters in memory. Used when redis is
// disabled and in tests.
type StubSink struct {
	mu       sync.Mutex
	produced map[string]int
	elapsed  map[string]time.Duration
	logger   *slog.Logger
}

func NewStubSink(logger *slog.Logger) *StubSink {
	return &StubSink{
		produced: make(map[string]int),
		elapsed:  make(map[string]time.Duration),
		logger:   logger,
	}
}

func (s *StubSink) Add(ctx context.Context, day string, produced int, elapsed time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.produced[day] += produced
	s.elapsed[day] += elapsed

	s.logger.Info("metrics stub: counters recorded",
		"day", day,
		"produced_total", s.produced[day],
	)
	return nil
}

// Produced returns the accumulated counters for one day.
func (s *StubSink) Produced(day string) (int, time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.produced[day], s.elapsed[day]
}
