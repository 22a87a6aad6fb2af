package simapi

// ReasoningConfig is the optional `reasoning` block of a responses request.
type ReasoningConfig struct {
	Effort  string `json:"effort,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// ResponsesRequest is the inbound body for POST /v1/responses. Input may be
// a bare string or a list of input items; both are accepted as raw JSON and
// normalized to prompt text by the pipeline.
type ResponsesRequest struct {
	Model           string          `json:"model"`
	Input           interface{}     `json:"input"`
	Instructions    string          `json:"instructions,omitempty"`
	Temperature     *float64        `json:"temperature,omitempty"`
	TopP            *float64        `json:"top_p,omitempty"`
	MaxOutputTokens *int            `json:"max_output_tokens,omitempty"`
	Stream          bool            `json:"stream,omitempty"`
	Reasoning       ReasoningConfig `json:"reasoning,omitempty"`
}

// OutputTextPart is the `output_text` content-part shape.
type OutputTextPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SummaryPart is the `summary_text` content-part shape used inside a
// reasoning item.
type SummaryPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ReasoningItem is the output item emitted before the message body when
// reasoning is enabled.
type ReasoningItem struct {
	ID      string        `json:"id"`
	Type    string        `json:"type"`
	Status  string        `json:"status"`
	Summary []SummaryPart `json:"summary"`
}

// MessageItem is the assistant message output item.
type MessageItem struct {
	ID      string           `json:"id"`
	Type    string           `json:"type"`
	Role    string           `json:"role"`
	Status  string           `json:"status"`
	Content []OutputTextPart `json:"content"`
}

// OutputTokensDetails carries the reasoning-token breakdown reported on a
// ResponsesResponse usage object.
type OutputTokensDetails struct {
	ReasoningTokens int `json:"reasoning_tokens"`
}

// ResponsesUsage mirrors Usage but with the responses-API field names.
type ResponsesUsage struct {
	InputTokens         int                  `json:"input_tokens"`
	OutputTokens         int                 `json:"output_tokens"`
	TotalTokens          int                 `json:"total_tokens"`
	OutputTokensDetails *OutputTokensDetails `json:"output_tokens_details,omitempty"`
}

// ResponsesResponse is the one-shot (non-streaming) response body, and also
// the payload embedded in the terminal response.completed frame.
type ResponsesResponse struct {
	ID         string         `json:"id"`
	Object     string         `json:"object"`
	CreatedAt  int64          `json:"created_at"`
	Model      string         `json:"model"`
	Status     string         `json:"status"`
	Output     []interface{}  `json:"output"`
	OutputText string         `json:"output_text"`
	Usage      ResponsesUsage `json:"usage"`
}

// ErrorEnvelope is the shared JSON error body for every failure response.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the inner object of ErrorEnvelope.
type ErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Model describes one entry of GET /v1/models.
type Model struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// ModelList is the body of GET /v1/models.
type ModelList struct {
	Object string  `json:"object"`
	Data   []Model `json:"data"`
}
