package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"creativecheck/internal/checker"
	"creativecheck/internal/config"
	"creativecheck/internal/port"
)

const providerName = "gemini"

// Client implements port.VisionClient using the Gemini SDK.
type Client struct {
	apiKey  string
	model   string
	timeout time.Duration
	opts    []option.ClientOption
}

// NewClient creates a Gemini vision client from a checker config. Extra
// options are passed to the SDK client, e.g. a custom endpoint.
func NewClient(cfg *config.CheckerConfig, opts ...option.ClientOption) *Client {
	model := strings.TrimSpace(cfg.DefaultModel)
	if model == "" {
		model = "gemini-2.0-flash"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   model,
		timeout: timeout,
		opts:    opts,
	}
}

// Factory adapts NewClient to checker.ProviderFactory.
func Factory(cfg *config.CheckerConfig) (port.VisionClient, error) {
	return NewClient(cfg), nil
}

func (c *Client) Analyze(ctx context.Context, in port.VisionRequest) (*port.VisionResponse, error) {
	if c.apiKey == "" {
		return nil, &checker.CallError{Provider: providerName, Kind: checker.KindAuth, Err: errors.New("gemini API key is empty")}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts := append([]option.ClientOption{option.WithAPIKey(c.apiKey)}, c.opts...)
	cl, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, checker.NewTransportError(providerName, fmt.Errorf("creating gemini client: %w", err))
	}
	defer cl.Close()

	m := cl.GenerativeModel(c.model)
	m.SetTemperature(float32(in.Temperature))
	if in.MaxTokens > 0 {
		m.SetMaxOutputTokens(int32(in.MaxTokens))
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(in.SystemPrompt)},
	}

	resp, err := m.GenerateContent(ctx,
		genai.Text(in.UserText),
		genai.Blob{MIMEType: in.MediaType, Data: in.Image},
	)
	if err != nil {
		return nil, classify(err)
	}

	text := FirstText(resp)
	if text == "" {
		return nil, checker.NewCallError(providerName, fmt.Errorf("empty response from API"))
	}
	return &port.VisionResponse{Text: text, ModelUsed: c.model}, nil
}

// classify maps SDK errors onto checker.CallError.
func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		retryAfter := ""
		if apiErr.Header != nil {
			retryAfter = apiErr.Header.Get("Retry-After")
		}
		callErr := checker.NewStatusError(providerName, apiErr.Code, []byte(apiErr.Message), retryAfter)
		callErr.Err = fmt.Errorf("%w: %w", callErr.Err, err)
		return callErr
	}
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return checker.NewCallError(providerName, err)
	}
	return checker.NewTransportError(providerName, fmt.Errorf("calling gemini API: %w", err))
}

// FirstText joins the text parts of the first candidate that has any. The
// model may split one reply across several parts.
func FirstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, p := range cand.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		if sb.Len() > 0 {
			return sb.String()
		}
	}
	return ""
}
