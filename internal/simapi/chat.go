// Package simapi defines the wire types for the two OpenAI-compatible
// surfaces the simulator exposes: chat completions and responses.
package simapi

// ChatMessage is one role-tagged message in a chat-completions request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
}

// ChatCompletionRequest is the inbound body for POST /v1/chat/completions.
// Unknown fields are tolerated by the JSON decoder; generation-cap fields
// are accepted but never change simulator behavior.
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Stream      bool          `json:"stream,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	TopP        *float64      `json:"top_p,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

// Usage is the chat-completions token-accounting object; the responses
// family uses ResponsesUsage instead.
type Usage struct {
	PromptTokens     int                `json:"prompt_tokens"`
	CompletionTokens int                `json:"completion_tokens"`
	TotalTokens      int                `json:"total_tokens"`
	CompletionDetails *CompletionDetails `json:"completion_tokens_details,omitempty"`
}

// CompletionDetails carries the reasoning-token breakdown for reasoning
// models.
type CompletionDetails struct {
	ReasoningTokens int `json:"reasoning_tokens"`
}

// ChatCompletionChoice is the single (index 0) choice the simulator ever
// returns.
type ChatCompletionChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ChatCompletionResponse is the one-shot (non-streaming) response body.
type ChatCompletionResponse struct {
	ID      string                  `json:"id"`
	Object  string                  `json:"object"`
	Created int64                   `json:"created"`
	Model   string                  `json:"model"`
	Choices []ChatCompletionChoice  `json:"choices"`
	Usage   Usage                   `json:"usage"`
}

// ChatCompletionChunkChoice is one choice within a streamed delta frame.
type ChatCompletionChunkChoice struct {
	Index        int         `json:"index"`
	Delta        ChatDelta   `json:"delta"`
	FinishReason *string     `json:"finish_reason,omitempty"`
	Logprobs     interface{} `json:"logprobs,omitempty"`
}

// ChatDelta is the incremental payload of a single streamed chunk.
type ChatDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// ChatCompletionChunk is the JSON payload of every `data:` frame in a
// ChatStream.
type ChatCompletionChunk struct {
	ID                string                      `json:"id"`
	Object            string                      `json:"object"`
	Created           int64                       `json:"created"`
	Model             string                      `json:"model"`
	Choices           []ChatCompletionChunkChoice `json:"choices"`
	Usage             *Usage                      `json:"usage,omitempty"`
	SystemFingerprint string                      `json:"system_fingerprint,omitempty"`
}
