package stats

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_EmptySnapshot(t *testing.T) {
	s := New(nil)
	snap := s.Snapshot()

	assert.Equal(t, uint64(0), snap.TotalRequests)
	assert.Equal(t, 0.0, snap.RequestsPerSecond)
	assert.Equal(t, 0.0, snap.AvgLatencyMS)
	assert.Nil(t, snap.MinLatencyMS)
	assert.Nil(t, snap.MaxLatencyMS)
}

func TestStats_RecordRequestLifecycle(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	s.RecordRequestStart(ctx, "gpt-5", true, EndpointChatCompletions)
	s.RecordRequestEnd(ctx, 50*time.Millisecond, 10, 20)

	snap := s.Snapshot()
	assert.Equal(t, uint64(1), snap.TotalRequests)
	assert.Equal(t, uint64(0), snap.ActiveRequests)
	assert.Equal(t, uint64(1), snap.StreamingRequests)
	assert.Equal(t, uint64(1), snap.CompletionsRequests)
	assert.Equal(t, uint64(10), snap.PromptTokens)
	assert.Equal(t, uint64(20), snap.CompletionTokens)
	assert.Equal(t, uint64(30), snap.TotalTokens)
	require.NotNil(t, snap.MinLatencyMS)
	require.NotNil(t, snap.MaxLatencyMS)
	assert.InDelta(t, 50.0, *snap.MinLatencyMS, 1.0)
	assert.InDelta(t, 50.0, *snap.MaxLatencyMS, 1.0)
	assert.Equal(t, snap.ModelRequests["gpt-5"], uint64(1))

	if diff := cmp.Diff(map[string]uint64{"gpt-5": 1}, snap.ModelRequests); diff != "" {
		t.Errorf("ModelRequests mismatch (-want +got):\n%s", diff)
	}
}

func TestStats_MinMaxLatency(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	s.RecordRequestStart(ctx, "gpt-5", false, EndpointChatCompletions)
	s.RecordRequestEnd(ctx, 100*time.Millisecond, 1, 1)
	s.RecordRequestStart(ctx, "gpt-5", false, EndpointChatCompletions)
	s.RecordRequestEnd(ctx, 10*time.Millisecond, 1, 1)
	s.RecordRequestStart(ctx, "gpt-5", false, EndpointChatCompletions)
	s.RecordRequestEnd(ctx, 200*time.Millisecond, 1, 1)

	snap := s.Snapshot()
	assert.InDelta(t, 10.0, *snap.MinLatencyMS, 1.0)
	assert.InDelta(t, 200.0, *snap.MaxLatencyMS, 1.0)
	assert.InDelta(t, 103.33, snap.AvgLatencyMS, 1.0)
}

func TestStats_RecordError(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	s.RecordRequestStart(ctx, "gpt-5", false, EndpointChatCompletions)
	s.RecordError(ctx, 429)

	snap := s.Snapshot()
	assert.Equal(t, uint64(1), snap.TotalErrors)
	assert.Equal(t, uint64(1), snap.RateLimitErrors)
	assert.Equal(t, uint64(0), snap.ActiveRequests)
}

func TestStats_RecordError_Kinds(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	s.RecordError(ctx, 500)
	s.RecordError(ctx, 503)
	s.RecordError(ctx, 504)

	snap := s.Snapshot()
	assert.Equal(t, uint64(3), snap.TotalErrors)
	assert.Equal(t, uint64(2), snap.ServerErrors)
	assert.Equal(t, uint64(1), snap.TimeoutErrors)
}

func TestStats_ConcurrentWriters(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := 0; j < 100; j++ {
				s.RecordRequestStart(ctx, "gpt-5", false, EndpointChatCompletions)
				s.RecordRequestEnd(ctx, time.Millisecond, 1, 1)
			}
		}()
	}

	wg.Wait()

	snap := s.Snapshot()
	assert.Equal(t, uint64(1000), snap.TotalRequests)
	assert.Equal(t, uint64(1000), snap.PromptTokens)
	assert.Equal(t, uint64(0), snap.ActiveRequests)
}

func TestStats_PruneWindow(t *testing.T) {
	s := New(nil)
	s.mu.Lock()
	s.requestTimes = []time.Time{time.Now().Add(-2 * window)}
	s.mu.Unlock()

	s.pruneWindow()

	assert.Equal(t, 0, s.windowLen())
}
