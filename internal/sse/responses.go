package sse

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	ginsse "github.com/gin-contrib/sse"

	"github.com/looplj/llmsim/internal/latency"
	"github.com/looplj/llmsim/internal/pkg/streams"
	"github.com/looplj/llmsim/internal/simapi"
)

// ResponsesStream also satisfies streams.Stream[string] directly (EventType
// is the one addition beyond Next/Current/Err/Close); Framed below composes
// it into a Stream[string] of pre-formatted SSE text via streams.Map, which
// is what writeResponsesStream in internal/server/api actually consumes.
var _ streams.Stream[string] = (*ResponsesStream)(nil)

// ResponsesStream emits the multi-phase lifecycle frames of a /v1/responses
// SSE body: response.created, response.in_progress, an optional reasoning
// prelude, the message body, and response.completed. There is no [DONE]
// marker. OnComplete fires exactly once, only on full drain.
type ResponsesStream struct {
	ctx    context.Context
	cancel context.CancelFunc

	steps []func() (event, data string, ok bool)
	pos   int

	current     string
	currentType string
	err         error

	onComplete func()
}

// ResponsesStreamParams is everything needed to build the frame sequence.
type ResponsesStreamParams struct {
	ID          string
	Model       string
	CreatedAt   int64
	Content     string
	ReasoningID string
	SummaryText string // empty means reasoning enabled with no summary
	HasReasoning bool
	MessageID   string
	Profile     latency.Profile
	Usage       simapi.ResponsesUsage
	OnComplete  func()
}

// NewResponsesStream builds the ordered step list per the mandated ordering:
// created → (sleep TTFT) → in_progress → reasoning prelude (iff enabled) →
// message body → completed.
func NewResponsesStream(ctx context.Context, p ResponsesStreamParams) *ResponsesStream {
	cctx, cancel := context.WithCancel(ctx)

	s := &ResponsesStream{ctx: cctx, cancel: cancel, onComplete: p.OnComplete}

	seq := 0
	msgIdx := 0

	if p.HasReasoning {
		msgIdx = 1
	}

	base := func(status string) simapi.ResponsesResponse {
		return simapi.ResponsesResponse{
			ID:        p.ID,
			Object:    "response",
			CreatedAt: p.CreatedAt,
			Model:     p.Model,
			Status:    status,
			Output:    []interface{}{},
		}
	}

	s.steps = append(s.steps, func() (string, string, bool) {
		return "response.created", s.encode(base("in_progress")), true
	})

	s.steps = append(s.steps, func() (string, string, bool) {
		if !s.sleep(p.Profile.SampleTTFT()) {
			return "", "", false
		}

		return "response.in_progress", s.encode(base("in_progress")), true
	})

	if p.HasReasoning {
		s.steps = append(s.steps, func() (string, string, bool) {
			return "response.output_item.added", s.encode(map[string]interface{}{
				"output_index": 0,
				"item": simapi.ReasoningItem{
					ID:     p.ReasoningID,
					Type:   "reasoning",
					Status: "in_progress",
				},
			}), true
		})

		if p.SummaryText != "" {
			s.steps = append(s.steps, func() (string, string, bool) {
				return "response.reasoning_summary_part.added", s.encode(map[string]interface{}{
					"output_index":  0,
					"content_index": 0,
					"part":          simapi.SummaryPart{Type: "summary_text", Text: ""},
				}), true
			})

			for _, tok := range tokenize(p.SummaryText) {
				tok := tok
				s.steps = append(s.steps, func() (string, string, bool) {
					if !s.sleep(p.Profile.SampleTBT()) {
						return "", "", false
					}

					seq++

					return "response.reasoning_summary_text.delta", s.encode(map[string]interface{}{
						"output_index":    0,
						"content_index":   0,
						"delta":           tok,
						"sequence_number": seq - 1,
					}), true
				})
			}

			s.steps = append(s.steps, func() (string, string, bool) {
				return "response.reasoning_summary_text.done", s.encode(map[string]interface{}{
					"output_index":  0,
					"content_index": 0,
					"text":          p.SummaryText,
				}), true
			})

			s.steps = append(s.steps, func() (string, string, bool) {
				return "response.reasoning_summary_part.done", s.encode(map[string]interface{}{
					"output_index":  0,
					"content_index": 0,
					"part":          simapi.SummaryPart{Type: "summary_text", Text: p.SummaryText},
				}), true
			})
		}

		s.steps = append(s.steps, func() (string, string, bool) {
			var summary []simapi.SummaryPart
			if p.SummaryText != "" {
				summary = []simapi.SummaryPart{{Type: "summary_text", Text: p.SummaryText}}
			}

			return "response.output_item.done", s.encode(map[string]interface{}{
				"output_index": 0,
				"item": simapi.ReasoningItem{
					ID:      p.ReasoningID,
					Type:    "reasoning",
					Status:  "completed",
					Summary: summary,
				},
			}), true
		})
	}

	s.steps = append(s.steps, func() (string, string, bool) {
		return "response.output_item.added", s.encode(map[string]interface{}{
			"output_index": msgIdx,
			"item": simapi.MessageItem{
				ID:      p.MessageID,
				Type:    "message",
				Role:    "assistant",
				Status:  "in_progress",
				Content: []simapi.OutputTextPart{},
			},
		}), true
	})

	s.steps = append(s.steps, func() (string, string, bool) {
		return "response.content_part.added", s.encode(map[string]interface{}{
			"output_index":  msgIdx,
			"content_index": 0,
			"part":          simapi.OutputTextPart{Type: "output_text", Text: ""},
		}), true
	})

	for _, tok := range tokenize(p.Content) {
		tok := tok
		s.steps = append(s.steps, func() (string, string, bool) {
			if !s.sleep(p.Profile.SampleTBT()) {
				return "", "", false
			}

			seq++

			return "response.output_text.delta", s.encode(map[string]interface{}{
				"output_index":    msgIdx,
				"content_index":   0,
				"delta":           tok,
				"sequence_number": seq - 1,
			}), true
		})
	}

	s.steps = append(s.steps, func() (string, string, bool) {
		return "response.output_text.done", s.encode(map[string]interface{}{
			"output_index":  msgIdx,
			"content_index": 0,
			"text":          p.Content,
		}), true
	})

	s.steps = append(s.steps, func() (string, string, bool) {
		return "response.content_part.done", s.encode(map[string]interface{}{
			"output_index":  msgIdx,
			"content_index": 0,
			"part":          simapi.OutputTextPart{Type: "output_text", Text: p.Content},
		}), true
	})

	s.steps = append(s.steps, func() (string, string, bool) {
		return "response.output_item.done", s.encode(map[string]interface{}{
			"output_index": msgIdx,
			"item": simapi.MessageItem{
				ID:      p.MessageID,
				Type:    "message",
				Role:    "assistant",
				Status:  "completed",
				Content: []simapi.OutputTextPart{{Type: "output_text", Text: p.Content}},
			},
		}), true
	})

	s.steps = append(s.steps, func() (string, string, bool) {
		resp := base("completed")
		resp.OutputText = p.Content
		resp.Usage = p.Usage

		var output []interface{}

		if p.HasReasoning {
			var summary []simapi.SummaryPart
			if p.SummaryText != "" {
				summary = []simapi.SummaryPart{{Type: "summary_text", Text: p.SummaryText}}
			}

			output = append(output, simapi.ReasoningItem{ID: p.ReasoningID, Type: "reasoning", Status: "completed", Summary: summary})
		}

		output = append(output, simapi.MessageItem{
			ID: p.MessageID, Type: "message", Role: "assistant", Status: "completed",
			Content: []simapi.OutputTextPart{{Type: "output_text", Text: p.Content}},
		})
		resp.Output = output

		return "response.completed", s.encode(resp), true
	})

	return s
}

func (s *ResponsesStream) sleep(d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-s.ctx.Done():
		s.err = s.ctx.Err()
		return false
	}
}

func (s *ResponsesStream) encode(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		s.err = err
		return ""
	}

	return string(b)
}

// Next advances to the next frame. Each frame is addressable via
// EventType()/Current() after Next returns true.
func (s *ResponsesStream) Next() bool {
	if s.pos >= len(s.steps) {
		return false
	}

	event, data, ok := s.steps[s.pos]()
	s.pos++

	if !ok {
		s.pos = len(s.steps)
		return false
	}

	s.currentType = event
	s.current = data

	if s.pos >= len(s.steps) && s.onComplete != nil {
		s.onComplete()
	}

	return true
}

// EventType returns the SSE `event:` value for the current frame.
func (s *ResponsesStream) EventType() string { return s.currentType }

// Current returns the `data:` JSON payload (without the `data: ` prefix or
// trailing blank line) for the current frame.
func (s *ResponsesStream) Current() string { return s.current }

func (s *ResponsesStream) Err() error { return s.err }

func (s *ResponsesStream) Close() error {
	s.cancel()
	return nil
}

// responsesFrame pairs one frame's event type with its data payload.
type responsesFrame struct {
	event string
	data  string
}

// responsesRawStream adapts ResponsesStream's Next/EventType/Current/Err
// into a streams.Stream[responsesFrame], so Framed can compose it with
// streams.Map instead of hand-rolling the SSE text format inline.
type responsesRawStream struct{ s *ResponsesStream }

func (w responsesRawStream) Next() bool { return w.s.Next() }
func (w responsesRawStream) Current() responsesFrame {
	return responsesFrame{event: w.s.EventType(), data: w.s.Current()}
}
func (w responsesRawStream) Err() error   { return w.s.Err() }
func (w responsesRawStream) Close() error { return w.s.Close() }

// Framed returns s as a streams.Stream[string] of fully-framed SSE text
// ("event: <type>\ndata: <json>\n\n" per frame), for callers that only need
// to pull already-formatted text rather than EventType()/Current() pairs.
func (s *ResponsesStream) Framed() streams.Stream[string] {
	return streams.Map[responsesFrame, string](responsesRawStream{s}, func(f responsesFrame) string {
		var buf bytes.Buffer

		buf.WriteString("event: ")
		buf.WriteString(f.event)
		buf.WriteByte('\n')

		if err := ginsse.Encode(&buf, ginsse.Event{Data: f.data}); err != nil {
			s.err = err
			return ""
		}

		return buf.String()
	})
}
