package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creativecheck/internal/checker"
	"creativecheck/internal/checker/openai"
	"creativecheck/internal/config"
	"creativecheck/internal/port"
)

func newTestClient(serverURL string) *openai.Client {
	cfg := &config.CheckerConfig{
		Provider:     "openai",
		APIKey:       "test-openai-key",
		DefaultModel: "gpt-4o",
		TimeoutSecs:  30,
	}
	return openai.NewClientWithEndpoint(cfg, serverURL)
}

func testRequest() port.VisionRequest {
	return port.VisionRequest{
		SystemPrompt: "ruleset",
		UserText:     "analyze banner.png",
		Image:        []byte{0x89, 'P', 'N', 'G'},
		MediaType:    "image/png",
		Detail:       "high",
		MaxTokens:    2000,
		Temperature:  0.1,
	}
}

func successResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"model": "gpt-4o-2024-08-06",
		"choices": []map[string]interface{}{
			{
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
	}
}

func TestOpenAIClient_Analyze_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-openai-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "gpt-4o", reqBody["model"])
		assert.Equal(t, float64(2000), reqBody["max_tokens"])
		assert.InDelta(t, 0.1, reqBody["temperature"], 1e-9)

		messages := reqBody["messages"].([]interface{})
		require.Len(t, messages, 2)
		system := messages[0].(map[string]interface{})
		assert.Equal(t, "system", system["role"])
		assert.Equal(t, "ruleset", system["content"])

		user := messages[1].(map[string]interface{})
		content := user["content"].([]interface{})
		require.Len(t, content, 2)
		textBlock := content[0].(map[string]interface{})
		assert.Equal(t, "analyze banner.png", textBlock["text"])
		imgBlock := content[1].(map[string]interface{})
		assert.Equal(t, "image_url", imgBlock["type"])
		imageURL := imgBlock["image_url"].(map[string]interface{})
		assert.Equal(t, "data:image/png;base64,iVBORw==", imageURL["url"])
		assert.Equal(t, "high", imageURL["detail"])

		_ = json.NewEncoder(w).Encode(successResponse("```json\n{}\n```"))
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).Analyze(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "```json\n{}\n```", resp.Text)
	assert.Equal(t, "gpt-4o-2024-08-06", resp.ModelUsed)
}

func TestOpenAIClient_Analyze_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).Analyze(context.Background(), testRequest())
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Equal(t, checker.KindAuth, checker.KindOf(err))
	assert.Contains(t, err.Error(), "Incorrect API key")
}

func TestOpenAIClient_Analyze_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Analyze(context.Background(), testRequest())

	var callErr *checker.CallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, checker.KindRateLimit, callErr.Kind)
	assert.Equal(t, 7*time.Second, callErr.RetryAfter)
}

func TestOpenAIClient_Analyze_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Analyze(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestOpenAIClient_Analyze_ServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).Analyze(context.Background(), testRequest())
	require.Error(t, err)
	assert.Equal(t, checker.KindTransport, checker.KindOf(err))
}

func TestOpenAIClient_Analyze_ContextDeadline(t *testing.T) {
	done := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	// Release the handler before Close waits on it.
	defer close(done)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(server.URL).Analyze(ctx, testRequest())
	require.Error(t, err)
	assert.Equal(t, checker.KindTimeout, checker.KindOf(err))
}
