package pipeline

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	at time.Time
	ms int64
	ok bool
}

// StatsSnapshot aggregates recent generation runs.
type StatsSnapshot struct {
	Runs      int     `json:"runs"`
	Failures  int     `json:"failures"`
	CacheHits int     `json:"cache_hits"`
	MinMs     int64   `json:"min_ms"`
	MaxMs     int64   `json:"max_ms"`
	AvgMs     float64 `json:"avg_ms"`
	P50Ms     float64 `json:"p50_ms"`
	P95Ms     float64 `json:"p95_ms"`
	P99Ms     float64 `json:"p99_ms"`
}

// GenerationStats keeps run latencies within a rolling window. Cache hits
// are counted separately and do not contribute latency samples.
type GenerationStats struct {
	mu      sync.Mutex
	samples []sample
	hits    []time.Time
	window  time.Duration
}

func NewGenerationStats(window time.Duration) *GenerationStats {
	if window <= 0 {
		window = time.Hour
	}
	return &GenerationStats{
		samples: make([]sample, 0, 256),
		window:  window,
	}
}

// Record adds one finished run.
func (s *GenerationStats) Record(d time.Duration, ok bool) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(now)
	s.samples = append(s.samples, sample{at: now, ms: ms, ok: ok})
}

// RecordCacheHit counts a job answered from the result cache.
func (s *GenerationStats) RecordCacheHit() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(now)
	s.hits = append(s.hits, now)
}

func (s *GenerationStats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(now)

	snap := StatsSnapshot{Runs: len(s.samples), CacheHits: len(s.hits)}
	if len(s.samples) == 0 {
		return snap
	}

	values := make([]int64, 0, len(s.samples))
	var sum int64
	for _, sm := range s.samples {
		if !sm.ok {
			snap.Failures++
		}
		values = append(values, sm.ms)
		sum += sm.ms
	}
	slices.Sort(values)

	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = float64(sum) / float64(len(values))
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	snap.P99Ms = percentile(values, 99)
	return snap
}

func (s *GenerationStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.samples = slices.DeleteFunc(s.samples, func(sm sample) bool { return sm.at.Before(cutoff) })
	s.hits = slices.DeleteFunc(s.hits, func(t time.Time) bool { return t.Before(cutoff) })
}

// percentile interpolates linearly between the two closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	rank := float64(len(sorted)-1) * pct / 100
	lower := int(rank)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(rank-float64(lower))
}
