package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"creativecheck/internal/config"
	"creativecheck/internal/domain"
	"creativecheck/internal/export"
	"creativecheck/internal/port"
)

// ExportFile is a rendered export ready for download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PublishResult describes an export uploaded to object storage.
type PublishResult struct {
	Bucket    string `json:"bucket"`
	Key       string `json:"key"`
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expires_in"`
}

// ExportService renders and publishes the results of finished runs.
type ExportService interface {
	Render(ctx context.Context, runID uuid.UUID, format export.Format) (*ExportFile, error)
	Publish(ctx context.Context, runID uuid.UUID, format export.Format) (*PublishResult, error)
}

type exportService struct {
	runRepo port.RunRepository
	storage port.ObjectStorage
	cfg     *config.S3Config
	now     func() time.Time
}

// NewExportService creates a new ExportService. storage may be nil when
// publishing is not configured.
func NewExportService(runRepo port.RunRepository, storage port.ObjectStorage, cfg *config.S3Config) ExportService {
	return &exportService{
		runRepo: runRepo,
		storage: storage,
		cfg:     cfg,
		now:     time.Now,
	}
}

func (s *exportService) Render(ctx context.Context, runID uuid.UUID, format export.Format) (*ExportFile, error) {
	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	return renderRun(run, format, s.now())
}

func renderRun(run *domain.RunInfo, format export.Format, now time.Time) (*ExportFile, error) {
	var buf bytes.Buffer
	if err := export.Render(&buf, format, run.Results); err != nil {
		return nil, fmt.Errorf("rendering %s export: %w", format, err)
	}
	return &ExportFile{
		Filename:    export.Filename(format, now),
		ContentType: format.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

func (s *exportService) Publish(ctx context.Context, runID uuid.UUID, format export.Format) (*PublishResult, error) {
	if s.storage == nil || s.cfg == nil || !s.cfg.Enabled() {
		return nil, domain.ErrStorageDisabled
	}

	file, err := s.Render(ctx, runID, format)
	if err != nil {
		return nil, err
	}

	key := path.Join(s.cfg.Prefix, runID.String(), file.Filename)
	logrus.Infof("exportService.Publish: uploading %s export of run %s to s3://%s/%s", format, runID, s.cfg.Bucket, key)

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        bytes.NewReader(file.Data),
		ContentType: file.ContentType,
		Size:        int64(len(file.Data)),
	})
	if err != nil {
		logrus.Errorf("exportService.Publish: upload failed for run %s: %v", runID, err)
		return nil, domain.ErrUploadFailed
	}

	url, err := s.storage.GetPresignedURL(ctx, s.cfg.Bucket, key, s.cfg.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("generating download url: %w", err)
	}

	return &PublishResult{
		Bucket:    s.cfg.Bucket,
		Key:       key,
		URL:       url,
		ExpiresIn: s.cfg.PresignExpiry,
	}, nil
}
