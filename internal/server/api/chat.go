package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/looplj/llmsim/internal/log"
	"github.com/looplj/llmsim/internal/pipeline"
	"github.com/looplj/llmsim/internal/pkg/streams"
	"github.com/looplj/llmsim/internal/simapi"
)

// ChatHandlers serves /v1/chat/completions and its /openai alias.
type ChatHandlers struct {
	Pipeline *pipeline.Pipeline
}

func NewChatHandlers(p *pipeline.Pipeline) *ChatHandlers {
	return &ChatHandlers{Pipeline: p}
}

func (h *ChatHandlers) ChatCompletion(c *gin.Context) {
	ctx := c.Request.Context()

	var req simapi.ChatCompletionRequest
	if !bindRequest(c, &req) {
		return
	}

	result, failure := h.Pipeline.HandleChatCompletion(ctx, req)
	if failure != nil {
		writeFailure(c, failure)
		return
	}

	if result.Response != nil {
		c.JSON(http.StatusOK, result.Response)
		return
	}

	defer func() {
		if err := result.Stream.Close(); err != nil {
			log.Debug(ctx, "close chat stream", log.Cause(err))
		}
	}()

	writeChatStream(c, result.Stream)
}

// writeChatStream pumps frames from stream onto the response as raw SSE
// text, one already-framed "data: ...\n\n" string per Next(). It depends
// only on streams.Stream[string], not on *sse.ChatStream.
func writeChatStream(c *gin.Context, stream streams.Stream[string]) {
	ctx := c.Request.Context()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	for {
		select {
		case <-ctx.Done():
			// Client disconnected; the stream's own context cancellation
			// stops any pending sleep.
			return
		default:
		}

		if !stream.Next() {
			if err := stream.Err(); err != nil {
				log.Debug(ctx, "chat stream ended", log.Cause(err))
			}

			return
		}

		_, _ = c.Writer.WriteString(stream.Current())
		c.Writer.Flush()
	}
}
