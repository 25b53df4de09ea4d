package port

import "context"

// VisionRequest carries one image and the instructions for evaluating it.
// MaxTokens, Temperature and Detail are request hints; providers may ignore them.
type VisionRequest struct {
	SystemPrompt string
	UserText     string
	Image        []byte
	MediaType    string
	Detail       string
	MaxTokens    int
	Temperature  float64
}

// VisionResponse is the free-text reply of a vision model.
type VisionResponse struct {
	Text      string
	ModelUsed string
}

// VisionClient abstracts a vision-capable LLM. A failed call returns an
// error; callers must not assume any particular error type.
type VisionClient interface {
	Analyze(ctx context.Context, req VisionRequest) (*VisionResponse, error)
}
