// Package tool exposes creative checks as MCP tools.
package tool

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"creativecheck/internal/domain"
	"creativecheck/internal/service"
)

// MetadataCheckCreative describes the check_creative tool.
var MetadataCheckCreative = &mcp.Tool{
	Name: "check_creative",
	Description: "Check an advertising creative (image or PDF) against the Oricon ranking-claim " +
		"ruleset using a vision model. Returns one result record per image or PDF page with a " +
		"judgment of 問題なし, 問題あり, 要確認, or エラー, the issues found, and the detected ranking elements " +
		"(year, issuer, ranking name, position, trademark symbol). " +
		"Supported formats: png, jpg, jpeg, gif, webp, bmp, pdf.",
	InputSchema: map[string]interface{}{
		"type":     "object",
		"required": []string{"file_name", "content_base64"},
		"properties": map[string]interface{}{
			"file_name": map[string]interface{}{
				"type":        "string",
				"description": "Original file name. The extension selects how the content is read.",
			},
			"content_base64": map[string]interface{}{
				"type":        "string",
				"description": "File content, base64 encoded.",
			},
			"api_key": map[string]interface{}{
				"type":        "string",
				"description": "Optional vision provider API key, used only when the server has none configured.",
			},
		},
	},
}

// InputCheckCreative is the input for the CheckCreative tool.
type InputCheckCreative struct {
	FileName      string `json:"file_name"`
	ContentBase64 string `json:"content_base64"`
	APIKey        string `json:"api_key,omitempty"`
}

// OutputCheckCreative is the output for the CheckCreative tool.
type OutputCheckCreative struct {
	RunID   uuid.UUID             `json:"run_id"`
	Records []domain.ResultRecord `json:"records"`
	Summary domain.Summary        `json:"summary"`
}

// Checker serves check_creative calls from a batch service.
type Checker struct {
	batch service.BatchService
}

// NewChecker creates a new Checker.
func NewChecker(batch service.BatchService) *Checker {
	return &Checker{batch: batch}
}

// Register adds every tool to the server.
func Register(server *mcp.Server, batch service.BatchService) {
	mcp.AddTool(server, MetadataCheckCreative, NewChecker(batch).CheckCreative)
}

// CheckCreative runs a single-file check run.
func (t *Checker) CheckCreative(ctx context.Context, _ *mcp.CallToolRequest, input InputCheckCreative) (*mcp.CallToolResult, OutputCheckCreative, error) {
	name := strings.TrimSpace(input.FileName)
	if name == "" {
		return nil, OutputCheckCreative{}, fmt.Errorf("file_name is required")
	}
	if input.ContentBase64 == "" {
		return nil, OutputCheckCreative{}, fmt.Errorf("content_base64 is required")
	}
	data, err := decodeContent(input.ContentBase64)
	if err != nil {
		return nil, OutputCheckCreative{}, fmt.Errorf("content_base64 is not valid base64: %w", err)
	}

	run, err := t.batch.Run(ctx, service.RunInput{
		Files:  []domain.UploadedFile{{Name: name, Data: data}},
		APIKey: input.APIKey,
	})
	if err != nil {
		return nil, OutputCheckCreative{}, err
	}

	return nil, OutputCheckCreative{
		RunID:   run.ID,
		Records: run.Results,
		Summary: run.Summary,
	}, nil
}

// decodeContent accepts standard base64 and data URIs.
func decodeContent(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	return base64.StdEncoding.DecodeString(s)
}
