package inference

import (
	"sync"
	"time"
)

// ModelStats is a point-in-time snapshot of one model's request counters.
// AverageTime is always recomputed from TotalTime/TotalRequests; it is
// never stored, so it cannot drift from its sources.
type ModelStats struct {
	TotalRequests      int64         `json:"total_requests"`
	SuccessfulRequests int64         `json:"successful_requests"`
	TotalTime          time.Duration `json:"total_time"`
	AverageTime        time.Duration `json:"average_time"`
}

// Stats accumulates per-model request counters. It is created once per
// process, shared by every pipeline worker, and protected by a single
// mutex; counter updates are read-modify-write and must stay atomic
// across workers.
type Stats struct {
	mu     sync.Mutex
	models map[string]*modelCounters
}

type modelCounters struct {
	total      int64
	successful int64
	totalTime  time.Duration
}

func NewStats() *Stats {
	return &Stats{models: make(map[string]*modelCounters)}
}

// Record registers one backend attempt. Elapsed time counts toward the
// cumulative total whether or not the attempt succeeded; only success
// increments the successful counter.
func (s *Stats) Record(model string, elapsed time.Duration, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.models[model]
	if !ok {
		c = &modelCounters{}
		s.models[model] = c
	}

	c.total++
	c.totalTime += elapsed
	if success {
		c.successful++
	}
}

// Snapshot returns a copy of all per-model counters with the derived
// average filled in.
func (s *Stats) Snapshot() map[string]ModelStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]ModelStats, len(s.models))
	for model, c := range s.models {
		ms := ModelStats{
			TotalRequests:      c.total,
			SuccessfulRequests: c.successful,
			TotalTime:          c.totalTime,
		}
		if c.total > 0 {
			ms.AverageTime = c.totalTime / time.Duration(c.total)
		}
		out[model] = ms
	}
	return out
}

// Model returns the snapshot for a single model. The zero value is
// returned for a model that has never been recorded.
func (s *Stats) Model(model string) ModelStats {
	return s.Snapshot()[model]
}
