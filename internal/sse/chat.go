// Package sse implements the two SSE stream engines (chat completions and
// responses) as cancellable, lazily-pulled frame sequences.
package sse

import (
	"bytes"
	"context"
	"time"

	ginsse "github.com/gin-contrib/sse"

	"github.com/looplj/llmsim/internal/latency"
	"github.com/looplj/llmsim/internal/pkg/streams"
	"github.com/looplj/llmsim/internal/simapi"
)

// ChatStream satisfies the shared lazy-sequence abstraction; writeChatStream
// in internal/server/api depends on streams.Stream[string] rather than this
// concrete type.
var _ streams.Stream[string] = (*ChatStream)(nil)

type chatState int

const (
	chatStateRole chatState = iota
	chatStateContent
	chatStateFinish
	chatStateDone
	chatStateClosed
)

// ChatStream emits the frames of a chat-completions SSE response: one role
// frame, one content frame per token with a TBT sleep before each, one
// finish frame, and a terminal [DONE] marker. OnComplete fires exactly once,
// only once the stream fully drains (never on cancellation).
type ChatStream struct {
	ctx     context.Context
	cancel  context.CancelFunc
	id      string
	model   string
	created int64
	tokens  []string
	idx     int
	state   chatState
	profile latency.Profile
	usage   *simapi.Usage

	onComplete func()

	current string
	err      error
}

// NewChatStream builds a ChatStream for the given content string. usage may
// be nil, in which case the finish frame omits it.
func NewChatStream(ctx context.Context, id, model string, created int64, content string, profile latency.Profile, usage *simapi.Usage, onComplete func()) *ChatStream {
	cctx, cancel := context.WithCancel(ctx)

	return &ChatStream{
		ctx:        cctx,
		cancel:     cancel,
		id:         id,
		model:      model,
		created:    created,
		tokens:     tokenize(content),
		profile:    profile,
		usage:      usage,
		onComplete: onComplete,
	}
}

func (s *ChatStream) sleep(d time.Duration) bool {
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

func (s *ChatStream) encode(v interface{}) string {
	var buf bytes.Buffer
	if err := ginsse.Encode(&buf, ginsse.Event{Data: v}); err != nil {
		s.err = err
		return ""
	}

	return buf.String()
}

// Next advances the stream by one frame. It returns false once the stream
// is exhausted or cancelled.
func (s *ChatStream) Next() bool {
	switch s.state {
	case chatStateRole:
		if !s.sleep(s.profile.SampleTTFT()) {
			s.state = chatStateClosed
			return false
		}

		s.current = s.encode(simapi.ChatCompletionChunk{
			ID:      s.id,
			Object:  "chat.completion.chunk",
			Created: s.created,
			Model:   s.model,
			Choices: []simapi.ChatCompletionChunkChoice{{Index: 0, Delta: simapi.ChatDelta{Role: "assistant"}}},
		})
		s.state = chatStateContent
		s.idx = 0

		return true

	case chatStateContent:
		if s.idx >= len(s.tokens) {
			s.state = chatStateFinish
			return s.Next()
		}

		if !s.sleep(s.profile.SampleTBT()) {
			s.state = chatStateClosed
			return false
		}

		tok := s.tokens[s.idx]
		s.idx++

		s.current = s.encode(simapi.ChatCompletionChunk{
			ID:      s.id,
			Object:  "chat.completion.chunk",
			Created: s.created,
			Model:   s.model,
			Choices: []simapi.ChatCompletionChunkChoice{{Index: 0, Delta: simapi.ChatDelta{Content: tok}}},
		})

		return true

	case chatStateFinish:
		finish := "stop"
		s.current = s.encode(simapi.ChatCompletionChunk{
			ID:      s.id,
			Object:  "chat.completion.chunk",
			Created: s.created,
			Model:   s.model,
			Choices: []simapi.ChatCompletionChunkChoice{{Index: 0, Delta: simapi.ChatDelta{}, FinishReason: &finish}},
			Usage:   s.usage,
		})
		s.state = chatStateDone

		return true

	case chatStateDone:
		s.current = s.encode("[DONE]")
		s.state = chatStateClosed

		if s.onComplete != nil {
			s.onComplete()
		}

		return true

	default:
		return false
	}
}

func (s *ChatStream) Current() string { return s.current }
func (s *ChatStream) Err() error      { return s.err }

func (s *ChatStream) Close() error {
	s.cancel()
	return nil
}
