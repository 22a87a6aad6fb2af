package sse

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/looplj/llmsim/internal/latency"
	"github.com/looplj/llmsim/internal/simapi"
)

func drainResponses(t *testing.T, s *ResponsesStream) ([]string, []string) {
	t.Helper()

	var events, datas []string

	for s.Next() {
		require.NoError(t, s.Err())
		events = append(events, s.EventType())
		datas = append(datas, s.Current())
	}

	require.NoError(t, s.Err())

	return events, datas
}

func TestResponsesStream_NoReasoning(t *testing.T) {
	completed := false
	s := NewResponsesStream(context.Background(), ResponsesStreamParams{
		ID:         "resp_1",
		Model:      "gpt-4",
		Content:    "Ok.",
		MessageID:  "msg_1",
		Profile:    latency.Instant(),
		Usage:      simapi.ResponsesUsage{InputTokens: 5, OutputTokens: 1, TotalTokens: 6},
		OnComplete: func() { completed = true },
	})

	events, _ := drainResponses(t, s)

	require.NotEmpty(t, events)
	assert.Equal(t, "response.created", events[0])
	assert.Equal(t, "response.completed", events[len(events)-1])
	assert.True(t, completed)

	for _, e := range events {
		assert.NotContains(t, e, "reasoning")
	}
}

func TestResponsesStream_WithReasoning_SequenceContiguous(t *testing.T) {
	s := NewResponsesStream(context.Background(), ResponsesStreamParams{
		ID:           "resp_2",
		Model:        "o3",
		Content:      "Done now",
		HasReasoning: true,
		SummaryText:  "Thinking it over",
		ReasoningID:  "rs_1",
		MessageID:    "msg_2",
		Profile:      latency.Instant(),
		Usage:        simapi.ResponsesUsage{InputTokens: 5, OutputTokens: 2, TotalTokens: 7},
	})

	events, datas := drainResponses(t, s)

	reasoningDoneIdx := -1
	firstMsgAddedIdx := -1

	for i, e := range events {
		if e == "response.output_item.done" && reasoningDoneIdx == -1 {
			reasoningDoneIdx = i
		}

		if e == "response.output_item.added" && firstMsgAddedIdx == -1 && reasoningDoneIdx != -1 {
			firstMsgAddedIdx = i
		}
	}

	require.NotEqual(t, -1, reasoningDoneIdx)
	require.NotEqual(t, -1, firstMsgAddedIdx)
	assert.Less(t, reasoningDoneIdx, firstMsgAddedIdx)

	var seqs []int

	for i, e := range events {
		if e == "response.reasoning_summary_text.delta" || e == "response.output_text.delta" {
			var payload struct {
				SequenceNumber int `json:"sequence_number"`
			}
			require.NoError(t, json.Unmarshal([]byte(datas[i]), &payload))
			seqs = append(seqs, payload.SequenceNumber)
		}
	}

	for i, v := range seqs {
		assert.Equal(t, i, v)
	}

	assert.Equal(t, "response.created", events[0])
	assert.Equal(t, "response.completed", events[len(events)-1])
}
