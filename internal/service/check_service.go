package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"creativecheck/internal/checker"
	"creativecheck/internal/domain"
	"creativecheck/internal/port"
	"creativecheck/internal/reply"
)

// CheckOptions are the request parameters sent with every image.
type CheckOptions struct {
	SystemPrompt string
	Detail       string
	MaxTokens    int
	Temperature  float64
}

// DefaultCheckOptions returns the built-in prompt with high detail, a 2000
// token budget and temperature 0.1.
func DefaultCheckOptions() CheckOptions {
	return CheckOptions{
		SystemPrompt: checker.DefaultSystemPrompt(),
		Detail:       "high",
		MaxTokens:    2000,
		Temperature:  0.1,
	}
}

// CheckService evaluates the payloads of one file.
type CheckService interface {
	// CheckFile returns exactly one record per payload, in payload order.
	CheckFile(ctx context.Context, payloads []domain.Payload, fileName string) []domain.ResultRecord
}

type checkService struct {
	client port.VisionClient
	opts   CheckOptions
}

// NewCheckService creates a CheckService that calls client once per payload.
func NewCheckService(client port.VisionClient, opts CheckOptions) CheckService {
	return &checkService{client: client, opts: opts}
}

func (s *checkService) CheckFile(ctx context.Context, payloads []domain.Payload, fileName string) []domain.ResultRecord {
	records := make([]domain.ResultRecord, 0, len(payloads))
	for i, p := range payloads {
		name := DisplayName(fileName, i, len(payloads))
		records = append(records, s.checkPayload(ctx, p, name))
	}
	return records
}

func (s *checkService) checkPayload(ctx context.Context, p domain.Payload, displayName string) domain.ResultRecord {
	resp, err := s.client.Analyze(ctx, port.VisionRequest{
		SystemPrompt: s.opts.SystemPrompt,
		UserText:     checker.UserPrompt(displayName),
		Image:        p.Data,
		MediaType:    p.MediaType,
		Detail:       s.opts.Detail,
		MaxTokens:    s.opts.MaxTokens,
		Temperature:  s.opts.Temperature,
	})
	if err == nil && resp == nil {
		err = errors.New("vision provider returned no reply")
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"file": displayName,
			"kind": checker.KindOf(err),
		}).Warnf("checkService.CheckFile: vision call failed: %v", err)
		return SystemErrorRecord(displayName, err)
	}

	rec := reply.Parse(resp.Text, displayName)
	if rec.RawResponse != nil {
		logrus.WithField("file", displayName).Info("checkService.CheckFile: reply was not structured JSON, used fallback judgment")
	}
	logrus.WithFields(logrus.Fields{
		"file":     displayName,
		"judgment": rec.Judgment.Key(),
		"issues":   len(rec.Issues),
		"model":    resp.ModelUsed,
	}).Debug("checkService.CheckFile: payload checked")
	return rec
}
