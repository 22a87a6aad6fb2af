// Package pipeline wires token counting, latency simulation, error
// injection, content generation and stats into the end-to-end handling of
// one inbound request, for both the chat-completions and responses
// surfaces.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/looplj/llmsim/internal/content"
	"github.com/looplj/llmsim/internal/latency"
	"github.com/looplj/llmsim/internal/simapi"
	"github.com/looplj/llmsim/internal/simerror"
	"github.com/looplj/llmsim/internal/sse"
	"github.com/looplj/llmsim/internal/stats"
	"github.com/looplj/llmsim/internal/token"
)

// Pipeline is the shared, process-wide orchestrator. It holds no
// per-request state; every method takes the request and returns a result
// or error.
type Pipeline struct {
	Stats    *stats.Stats
	Injector *simerror.Injector
	Tokens   *token.Counter
	Producer content.Producer
	// Profile, if non-nil, overrides model-based latency routing for every
	// request (the configured --latency-profile flag).
	Profile *latency.Profile
}

// Failure is a fully-formed error outcome: HTTP status, JSON envelope, and
// optional Retry-After seconds.
type Failure struct {
	Status     int
	Envelope   simapi.ErrorEnvelope
	RetryAfter *int
}

func newFailure(e simerror.SimulatedError) *Failure {
	f := &Failure{
		Status: e.StatusCode(),
		Envelope: simapi.ErrorEnvelope{Error: simapi.ErrorBody{
			Message: e.ErrorMessage(),
			Type:    e.ErrorType(),
		}},
	}

	if ra, ok := e.RetryAfter(); ok {
		f.RetryAfter = &ra
	}

	return f
}

func (p *Pipeline) resolveProfile(model string) latency.Profile {
	if p.Profile != nil {
		return *p.Profile
	}

	return latency.FromModel(model)
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// maybeInject draws from the error injector, recording the outcome in
// stats and returning a Failure on a hit. A timeout hit sleeps the
// configured dwell before returning: the client still gets a response,
// just a delayed one.
func (p *Pipeline) maybeInject(ctx context.Context) *Failure {
	e, hit := p.Injector.Maybe()
	if !hit {
		return nil
	}

	if e.Kind == simerror.KindTimeout {
		sleepCtx(ctx, e.TimeoutAfter)
	}

	p.Stats.RecordError(ctx, e.StatusCode())

	return newFailure(e)
}

func promptTokens(counter *token.Counter, model string, messages []content.Message) int {
	total := 3

	for _, m := range messages {
		total += counter.Count(m.Content, model) + 4
	}

	return total
}

func projectChatMessages(msgs []simapi.ChatMessage) []content.Message {
	out := make([]content.Message, len(msgs))
	for i, m := range msgs {
		out[i] = content.Message{Role: m.Role, Content: m.Content}
	}

	return out
}

// ChatResult holds exactly one of Response (one-shot) or Stream
// (streaming).
type ChatResult struct {
	Response *simapi.ChatCompletionResponse
	Stream   *sse.ChatStream
}

// HandleChatCompletion runs the full pipeline for POST /v1/chat/completions.
func (p *Pipeline) HandleChatCompletion(ctx context.Context, req simapi.ChatCompletionRequest) (*ChatResult, *Failure) {
	endpoint := stats.EndpointChatCompletions

	p.Stats.RecordRequestStart(ctx, req.Model, req.Stream, endpoint)

	if f := p.maybeInject(ctx); f != nil {
		return nil, f
	}

	profile := p.resolveProfile(req.Model)
	messages := projectChatMessages(req.Messages)
	text := p.Producer.Generate(content.Request{Model: req.Model, Messages: messages})

	prompt := promptTokens(p.Tokens, req.Model, messages)
	completion := p.Tokens.Count(text, req.Model)
	usage := simapi.Usage{PromptTokens: prompt, CompletionTokens: completion, TotalTokens: prompt + completion}

	id := "chatcmpl-" + uuid.New().String()
	created := time.Now().Unix()

	if req.Stream {
		start := time.Now()
		stream := sse.NewChatStream(ctx, id, req.Model, created, text, profile, &usage, func() {
			p.Stats.RecordRequestEnd(ctx, time.Since(start), prompt, completion)
		})

		return &ChatResult{Stream: stream}, nil
	}

	start := time.Now()
	sleepCtx(ctx, profile.SampleTTFT())
	p.Stats.RecordRequestEnd(ctx, time.Since(start), prompt, completion)

	return &ChatResult{Response: &simapi.ChatCompletionResponse{
		ID:      id,
		Object:  "chat.completion",
		Created: created,
		Model:   req.Model,
		Choices: []simapi.ChatCompletionChoice{{
			Index:        0,
			Message:      simapi.ChatMessage{Role: "assistant", Content: text},
			FinishReason: "stop",
		}},
		Usage: usage,
	}}, nil
}

// ResponsesResult holds exactly one of Response (one-shot) or Stream
// (streaming).
type ResponsesResult struct {
	Response *simapi.ResponsesResponse
	Stream   *sse.ResponsesStream
}

func inputText(input interface{}) string {
	switch v := input.(type) {
	case string:
		return v
	case []interface{}:
		var sb strings.Builder

		for i, item := range v {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}

			if c, ok := m["content"].(string); ok {
				if i > 0 {
					sb.WriteByte('\n')
				}

				sb.WriteString(c)
			}
		}

		return sb.String()
	default:
		return ""
	}
}

// HandleResponses runs the full pipeline for POST /v1/responses.
func (p *Pipeline) HandleResponses(ctx context.Context, req simapi.ResponsesRequest) (*ResponsesResult, *Failure) {
	endpoint := stats.EndpointResponses

	p.Stats.RecordRequestStart(ctx, req.Model, req.Stream, endpoint)

	if f := p.maybeInject(ctx); f != nil {
		return nil, f
	}

	profile := p.resolveProfile(req.Model)

	text := inputText(req.Input)
	messages := []content.Message{{Role: "user", Content: text}}

	if req.Instructions != "" {
		messages = append([]content.Message{{Role: "system", Content: req.Instructions}}, messages...)
	}

	contentText := p.Producer.Generate(content.Request{Model: req.Model, Messages: messages})

	prompt := promptTokens(p.Tokens, req.Model, messages)
	completion := p.Tokens.Count(contentText, req.Model)

	hasReasoning := reasoningModel(req.Model)

	var rTokens int

	var summaryText string

	if hasReasoning {
		effort := req.Reasoning.Effort
		rTokens = reasoningTokens(completion, effort)

		if req.Reasoning.Summary != "" {
			summaryText = generateSummary(req.Reasoning.Summary, rTokens)
		}
	}

	usage := simapi.ResponsesUsage{
		InputTokens:  prompt,
		OutputTokens: completion,
		TotalTokens:  prompt + completion + rTokens,
	}
	if hasReasoning {
		usage.OutputTokensDetails = &simapi.OutputTokensDetails{ReasoningTokens: rTokens}
	}

	id := "resp_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	messageID := "msg_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	reasoningID := "rs_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	created := time.Now().Unix()

	if req.Stream {
		start := time.Now()
		stream := sse.NewResponsesStream(ctx, sse.ResponsesStreamParams{
			ID:           id,
			Model:        req.Model,
			CreatedAt:    created,
			Content:      contentText,
			HasReasoning: hasReasoning,
			ReasoningID:  reasoningID,
			SummaryText:  summaryText,
			MessageID:    messageID,
			Profile:      profile,
			Usage:        usage,
			OnComplete: func() {
				p.Stats.RecordRequestEnd(ctx, time.Since(start), prompt, completion)
			},
		})

		return &ResponsesResult{Stream: stream}, nil
	}

	start := time.Now()
	sleepCtx(ctx, profile.SampleTTFT())
	p.Stats.RecordRequestEnd(ctx, time.Since(start), prompt, completion)

	var output []interface{}

	if hasReasoning {
		var summary []simapi.SummaryPart
		if summaryText != "" {
			summary = []simapi.SummaryPart{{Type: "summary_text", Text: summaryText}}
		}

		output = append(output, simapi.ReasoningItem{ID: reasoningID, Type: "reasoning", Status: "completed", Summary: summary})
	}

	output = append(output, simapi.MessageItem{
		ID: messageID, Type: "message", Role: "assistant", Status: "completed",
		Content: []simapi.OutputTextPart{{Type: "output_text", Text: contentText}},
	})

	return &ResponsesResult{Response: &simapi.ResponsesResponse{
		ID:         id,
		Object:     "response",
		CreatedAt:  created,
		Model:      req.Model,
		Status:     "completed",
		Output:     output,
		OutputText: contentText,
		Usage:      usage,
	}}, nil
}
