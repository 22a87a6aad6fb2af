// Package stats implements the statistics aggregator: lock-light concurrent
// counters with a rolling-window RPS calculation, per-model histograms, and
// percentile-free min/avg/max latency, snapshot-serializable.
package stats

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/looplj/llmsim/internal/log"
)

// Endpoint identifies which API surface a request arrived on.
type Endpoint int

const (
	EndpointChatCompletions Endpoint = iota
	EndpointResponses
)

// window bounds how long a request-start timestamp survives in the rolling
// RPS window, and maxWindowEntries bounds the vector's memory regardless of
// traffic rate.
const (
	window           = 60 * time.Second
	maxWindowEntries = 10000
)

// Stats is the single process-wide aggregate. All counters use atomics;
// a small mutex guards the per-model map and the rolling timestamp window,
// the only two pieces of state that can't be expressed as independent
// atomics.
type Stats struct {
	startTime time.Time

	totalRequests          atomic.Uint64
	activeRequests         atomic.Uint64
	streamingRequests      atomic.Uint64
	nonStreamingRequests   atomic.Uint64
	completionsRequests    atomic.Uint64
	responsesRequests      atomic.Uint64

	promptTokens     atomic.Uint64
	completionTokens atomic.Uint64

	totalErrors      atomic.Uint64
	rateLimitErrors  atomic.Uint64
	serverErrors     atomic.Uint64
	timeoutErrors    atomic.Uint64

	totalLatencyUS     atomic.Uint64
	completedRequests  atomic.Uint64
	minLatencyUS       atomic.Uint64
	maxLatencyUS       atomic.Uint64

	mu             sync.Mutex
	modelRequests  map[string]uint64
	requestTimes   []time.Time

	instruments *otelInstruments
}

// New creates an empty Stats aggregate. meter may be nil, in which case no
// OpenTelemetry instruments are mirrored.
func New(meter metric.Meter) *Stats {
	s := &Stats{
		startTime:     time.Now(),
		modelRequests: make(map[string]uint64),
	}
	s.minLatencyUS.Store(math.MaxUint64)

	if meter != nil {
		s.instruments = newOtelInstruments(meter)
	}

	return s
}

// RecordRequestStart increments total/active/streaming-vs-not/per-endpoint
// counters, bumps the per-model map, and appends now() to the rolling
// window (evicting anything older than 60s and capping the vector size).
func (s *Stats) RecordRequestStart(ctx context.Context, model string, streaming bool, endpoint Endpoint) {
	s.totalRequests.Add(1)
	s.activeRequests.Add(1)

	if streaming {
		s.streamingRequests.Add(1)
	} else {
		s.nonStreamingRequests.Add(1)
	}

	switch endpoint {
	case EndpointChatCompletions:
		s.completionsRequests.Add(1)
	case EndpointResponses:
		s.responsesRequests.Add(1)
	}

	s.mu.Lock()
	s.modelRequests[model]++

	now := time.Now()
	s.requestTimes = append(s.requestTimes, now)
	s.requestTimes = evictOlderThan(s.requestTimes, now.Add(-window))

	if len(s.requestTimes) > maxWindowEntries {
		s.requestTimes = s.requestTimes[len(s.requestTimes)-maxWindowEntries:]
	}
	s.mu.Unlock()

	if s.instruments != nil {
		s.instruments.recordStart(ctx, model, streaming, endpoint)
	}
}

func evictOlderThan(times []time.Time, cutoff time.Time) []time.Time {
	kept := times[:0]

	for _, t := range times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	return kept
}

// RecordRequestEnd decrements active, increments completed, adds to token
// totals, and updates cumulative latency sum and monotonic min/max via a
// CAS retry loop.
func (s *Stats) RecordRequestEnd(ctx context.Context, latency time.Duration, promptTokens, completionTokens int) {
	s.activeRequests.Add(^uint64(0))
	s.completedRequests.Add(1)
	s.promptTokens.Add(uint64(promptTokens))
	s.completionTokens.Add(uint64(completionTokens))

	latencyUS := uint64(latency.Microseconds())
	s.totalLatencyUS.Add(latencyUS)

	casMin(&s.minLatencyUS, latencyUS)
	casMax(&s.maxLatencyUS, latencyUS)

	if s.instruments != nil {
		s.instruments.recordEnd(ctx, latency, promptTokens, completionTokens)
	}
}

func casMin(addr *atomic.Uint64, v uint64) {
	for {
		cur := addr.Load()
		if v >= cur {
			return
		}

		if addr.CompareAndSwap(cur, v) {
			return
		}
	}
}

func casMax(addr *atomic.Uint64, v uint64) {
	for {
		cur := addr.Load()
		if v <= cur {
			return
		}

		if addr.CompareAndSwap(cur, v) {
			return
		}
	}
}

// RecordError increments total_errors, decrements active, and bumps the
// matching kind counter (429→rate_limit; 500/503→server; 504→timeout).
func (s *Stats) RecordError(ctx context.Context, statusCode int) {
	s.totalErrors.Add(1)
	s.activeRequests.Add(^uint64(0))

	switch statusCode {
	case 429:
		s.rateLimitErrors.Add(1)
	case 500, 503:
		s.serverErrors.Add(1)
	case 504:
		s.timeoutErrors.Add(1)
	}

	if s.instruments != nil {
		s.instruments.recordError(ctx, statusCode)
	}
}

// pruneWindow drops request-start timestamps outside the rolling window.
// RecordRequestStart already evicts on every call; this exists so a
// background scheduler (see Pruner) can keep the vector tight even during
// lulls in traffic, when no new request would otherwise trigger eviction.
func (s *Stats) pruneWindow() {
	s.mu.Lock()
	s.requestTimes = evictOlderThan(s.requestTimes, time.Now().Add(-window))
	s.mu.Unlock()
}

// Snapshot is the serializable view returned by the /llmsim/stats endpoint.
type Snapshot struct {
	UptimeSeconds        uint64            `json:"uptime_secs"`
	TotalRequests        uint64            `json:"total_requests"`
	ActiveRequests       uint64            `json:"active_requests"`
	StreamingRequests    uint64            `json:"streaming_requests"`
	NonStreamingRequests uint64            `json:"non_streaming_requests"`
	CompletionsRequests  uint64            `json:"completions_requests"`
	ResponsesRequests    uint64            `json:"responses_requests"`
	PromptTokens         uint64            `json:"prompt_tokens"`
	CompletionTokens     uint64            `json:"completion_tokens"`
	TotalTokens          uint64            `json:"total_tokens"`
	TotalErrors          uint64            `json:"total_errors"`
	RateLimitErrors      uint64            `json:"rate_limit_errors"`
	ServerErrors         uint64            `json:"server_errors"`
	TimeoutErrors        uint64            `json:"timeout_errors"`
	RequestsPerSecond    float64           `json:"requests_per_second"`
	AvgLatencyMS         float64           `json:"avg_latency_ms"`
	MinLatencyMS         *float64          `json:"min_latency_ms"`
	MaxLatencyMS         *float64          `json:"max_latency_ms"`
	ModelRequests        map[string]uint64 `json:"model_requests"`
}

// Snapshot produces a statistically consistent (not linearizable) view of
// every counter plus its computed derivatives.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	models := make(map[string]uint64, len(s.modelRequests))
	for k, v := range s.modelRequests {
		models[k] = v
	}

	rps := s.requestsPerSecondLocked()
	s.mu.Unlock()

	promptTokens := s.promptTokens.Load()
	completionTokens := s.completionTokens.Load()

	return Snapshot{
		UptimeSeconds:        uint64(time.Since(s.startTime).Seconds()),
		TotalRequests:        s.totalRequests.Load(),
		ActiveRequests:       s.activeRequests.Load(),
		StreamingRequests:    s.streamingRequests.Load(),
		NonStreamingRequests: s.nonStreamingRequests.Load(),
		CompletionsRequests:  s.completionsRequests.Load(),
		ResponsesRequests:    s.responsesRequests.Load(),
		PromptTokens:         promptTokens,
		CompletionTokens:     completionTokens,
		TotalTokens:          promptTokens + completionTokens,
		TotalErrors:          s.totalErrors.Load(),
		RateLimitErrors:      s.rateLimitErrors.Load(),
		ServerErrors:         s.serverErrors.Load(),
		TimeoutErrors:        s.timeoutErrors.Load(),
		RequestsPerSecond:    rps,
		AvgLatencyMS:         s.avgLatencyMS(),
		MinLatencyMS:         s.minLatencyMS(),
		MaxLatencyMS:         s.maxLatencyMS(),
		ModelRequests:        models,
	}
}

// requestsPerSecondLocked must be called with s.mu held.
func (s *Stats) requestsPerSecondLocked() float64 {
	if len(s.requestTimes) == 0 {
		return 0
	}

	now := time.Now()
	oldest := s.requestTimes[0]

	for _, t := range s.requestTimes {
		if t.Before(oldest) {
			oldest = t
		}
	}

	windowSecs := now.Sub(oldest).Seconds()
	if windowSecs <= 0 {
		return 0
	}

	return float64(len(s.requestTimes)) / windowSecs
}

func (s *Stats) avgLatencyMS() float64 {
	completed := s.completedRequests.Load()
	if completed == 0 {
		return 0
	}

	return float64(s.totalLatencyUS.Load()) / float64(completed) / 1000.0
}

func (s *Stats) minLatencyMS() *float64 {
	v := s.minLatencyUS.Load()
	if v == math.MaxUint64 {
		return nil
	}

	ms := float64(v) / 1000.0

	return &ms
}

func (s *Stats) maxLatencyMS() *float64 {
	if s.completedRequests.Load() == 0 {
		return nil
	}

	ms := float64(s.maxLatencyUS.Load()) / 1000.0

	return &ms
}

// logDroppedPrune is a convenience for callers (e.g. the Pruner) that want
// to note pruning activity without making stats errors visible to request
// handlers — recording stats must never fail a response.
func logDroppedPrune(ctx context.Context, removed int) {
	if removed > 0 {
		log.Debug(ctx, "pruned stale rolling-window entries", log.Int("removed", removed))
	}
}
