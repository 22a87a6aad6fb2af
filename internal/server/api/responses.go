package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/looplj/llmsim/internal/log"
	"github.com/looplj/llmsim/internal/pipeline"
	"github.com/looplj/llmsim/internal/pkg/streams"
	"github.com/looplj/llmsim/internal/simapi"
)

// ResponsesHandlers serves /v1/responses and its /openresponses alias.
type ResponsesHandlers struct {
	Pipeline *pipeline.Pipeline
}

func NewResponsesHandlers(p *pipeline.Pipeline) *ResponsesHandlers {
	return &ResponsesHandlers{Pipeline: p}
}

func (h *ResponsesHandlers) CreateResponse(c *gin.Context) {
	ctx := c.Request.Context()

	var req simapi.ResponsesRequest
	if !bindRequest(c, &req) {
		return
	}

	result, failure := h.Pipeline.HandleResponses(ctx, req)
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
			log.Debug(ctx, "close responses stream", log.Cause(err))
		}
	}()

	writeResponsesStream(c, result.Stream.Framed())
}

// writeResponsesStream pumps already-framed `event: <type>\ndata:
// <json>\n\n` SSE text onto the response. It depends only on
// streams.Stream[string]; ResponsesStream.Framed composes its
// EventType()/Current() pairs into that shape.
func writeResponsesStream(c *gin.Context, stream streams.Stream[string]) {
	ctx := c.Request.Context()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !stream.Next() {
			if err := stream.Err(); err != nil {
				log.Debug(ctx, "responses stream ended", log.Cause(err))
			}

			return
		}

		_, _ = c.Writer.WriteString(stream.Current())
		c.Writer.Flush()
	}
}
