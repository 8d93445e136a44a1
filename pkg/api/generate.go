package api

// Role labels one side of a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Part is one piece of content inside a turn. Text-only for now.
type Part struct {
	Text string `json:"text,omitempty"`
}

// Content is a single conversation turn.
type Content struct {
	Role  Role   `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerateRequest is the provider-neutral generation input. An empty model
// means "use the registry's current selection".
type GenerateRequest struct {
	Model    string    `json:"model,omitempty"`
	Contents []Content `json:"contents" binding:"required,min=1"`
	Stream   bool      `json:"stream,omitempty"`

	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

// Candidate is one completed (or partial, when streaming) answer.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// Usage reports token accounting for a completed generation.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// GenerateResponse is a single completed response, or one incremental chunk
// when produced by a stream.
type GenerateResponse struct {
	ID         string      `json:"id,omitempty"`
	Model      string      `json:"model,omitempty"`
	Candidates []Candidate `json:"candidates"`
	Usage      *Usage      `json:"usage,omitempty"`
}

// StreamResult carries one streamed chunk or a terminal error. A failed
// stream delivers the error in-band as its final element before the channel
// closes.
type StreamResult struct {
	Response *GenerateResponse
	Err      error
}

// CountTokensRequest asks for the token cost of a prospective request
// without generating.
type CountTokensRequest struct {
	Model    string    `json:"model,omitempty"`
	Contents []Content `json:"contents" binding:"required,min=1"`
}

type CountTokensResponse struct {
	TotalTokens int `json:"totalTokens"`
}

// EmbedRequest asks for embedding vectors for input content.
type EmbedRequest struct {
	Model    string    `json:"model,omitempty"`
	Contents []Content `json:"contents" binding:"required,min=1"`
}

type Embedding struct {
	Values []float64 `json:"values"`
}

type EmbedResponse struct {
	Embeddings []Embedding `json:"embeddings"`
}
