package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"creativecheck/internal/aggregate"
	"creativecheck/internal/checker"
	"creativecheck/internal/credential"
	"creativecheck/internal/domain"
	"creativecheck/internal/normalizer"
	"creativecheck/internal/port"
)

// FileNormalizer turns one uploaded file into image payloads.
type FileNormalizer interface {
	Normalize(ctx context.Context, fileName string, data []byte) ([]domain.Payload, error)
	PageCount(ctx context.Context, data []byte) (int, error)
	RasterizerAvailable() bool
}

// KeyResolver finds the API key for a run.
type KeyResolver interface {
	Resolve(interactive string) (string, credential.Source)
}

// BatchConfig holds the settings applied to every run.
type BatchConfig struct {
	Provider    string
	Model       string
	Concurrency int
	Options     CheckOptions
}

// RunInput is the DTO for starting a check run.
type RunInput struct {
	Files []domain.UploadedFile
	// APIKey is the key typed by the user. It is only used when no key is
	// configured in the secrets file or environment.
	APIKey string
}

// FormatsInfo lists the accepted upload extensions.
type FormatsInfo struct {
	Images     []string `json:"images"`
	Documents  []string `json:"documents"`
	PDFEnabled bool     `json:"pdf_enabled"`
	Provider   string   `json:"provider"`
}

// BatchService runs checks over a batch of uploaded files.
type BatchService interface {
	Run(ctx context.Context, input RunInput) (*domain.RunInfo, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.RunInfo, error)
	Formats() FormatsInfo
}

type batchService struct {
	normalizer FileNormalizer
	resolver   KeyResolver
	newClient  checker.ClientFactory
	runRepo    port.RunRepository
	cfg        BatchConfig
}

// NewBatchService creates a new BatchService.
func NewBatchService(
	normalizer FileNormalizer,
	resolver KeyResolver,
	newClient checker.ClientFactory,
	runRepo port.RunRepository,
	cfg BatchConfig,
) BatchService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &batchService{
		normalizer: normalizer,
		resolver:   resolver,
		newClient:  newClient,
		runRepo:    runRepo,
		cfg:        cfg,
	}
}

// Run checks every file and returns the finished run. A missing API key
// refuses the run before any file is read. Failures inside a single file
// become Error records and never stop the batch.
func (s *batchService) Run(ctx context.Context, input RunInput) (*domain.RunInfo, error) {
	apiKey, source := s.resolver.Resolve(input.APIKey)
	if apiKey == "" {
		return nil, domain.ErrMissingCredential
	}
	if len(input.Files) == 0 {
		return nil, domain.ErrNoFiles
	}

	client, err := s.newClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("creating vision client: %w", err)
	}
	check := NewCheckService(client, s.cfg.Options)

	run := &domain.RunInfo{
		ID:        uuid.New(),
		Provider:  s.cfg.Provider,
		Model:     s.cfg.Model,
		Files:     make([]domain.FileSummary, len(input.Files)),
		StartedAt: time.Now().UTC(),
	}
	results := aggregate.NewCollection()

	logrus.WithFields(logrus.Fields{
		"run_id":      run.ID,
		"files":       len(input.Files),
		"provider":    s.cfg.Provider,
		"key_source":  source,
		"concurrency": s.cfg.Concurrency,
	}).Info("batchService.Run: starting check run")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i := range input.Files {
		file := input.Files[i]
		g.Go(func() error {
			records, summary := s.processFile(gctx, check, file)
			results.Append(records...)
			run.Files[i] = summary
			return nil
		})
	}
	_ = g.Wait()

	run.Results = results.Records()
	run.Summary = results.Summary()
	run.FinishedAt = time.Now().UTC()

	if err := s.runRepo.Save(ctx, run); err != nil {
		logrus.WithError(err).WithField("run_id", run.ID).Error("batchService.Run: failed to save run")
		return nil, fmt.Errorf("saving run: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"run_id":       run.ID,
		"records":      run.Summary.Total,
		"clean":        run.Summary.Clean,
		"violation":    run.Summary.Violation,
		"needs_review": run.Summary.NeedsReview,
		"error":        run.Summary.Error,
		"elapsed":      run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond),
	}).Info("batchService.Run: check run finished")

	return run, nil
}

// processFile contains every failure of one file, including panics.
func (s *batchService) processFile(ctx context.Context, check CheckService, file domain.UploadedFile) (records []domain.ResultRecord, summary domain.FileSummary) {
	summary = domain.FileSummary{Name: file.Name, SizeKB: sizeKB(len(file.Data))}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("unexpected failure: %v", r)
			logrus.WithField("file", file.Name).Errorf("batchService.processFile: recovered: %v", r)
			records = []domain.ResultRecord{ProcessingErrorRecord(file.Name, err)}
			summary.Error = err.Error()
		}
	}()

	if file.Err != nil {
		logrus.WithField("file", file.Name).Warnf("batchService.processFile: cannot read file: %v", file.Err)
		summary.Error = file.Err.Error()
		return []domain.ResultRecord{ProcessingErrorRecord(file.Name, file.Err)}, summary
	}

	// Report the page count even when rendering a later page fails.
	if normalizer.FileKind(file.Name) == domain.FileKindDocument {
		if pages, err := s.normalizer.PageCount(ctx, file.Data); err == nil {
			summary.Pages = pages
		}
	}

	payloads, err := s.normalizer.Normalize(ctx, file.Name, file.Data)
	if err != nil {
		logrus.WithField("file", file.Name).Warnf("batchService.processFile: cannot process file: %v", err)
		summary.Error = err.Error()
		return []domain.ResultRecord{ProcessingErrorRecord(file.Name, err)}, summary
	}
	summary.Pages = len(payloads)

	return check.CheckFile(ctx, payloads, file.Name), summary
}

func (s *batchService) Get(ctx context.Context, id uuid.UUID) (*domain.RunInfo, error) {
	return s.runRepo.GetByID(ctx, id)
}

func (s *batchService) Formats() FormatsInfo {
	return FormatsInfo{
		Images:     sortedKeys(domain.ImageExtensions),
		Documents:  sortedKeys(domain.DocumentExtensions),
		PDFEnabled: s.normalizer.RasterizerAvailable(),
		Provider:   s.cfg.Provider,
	}
}

// sizeKB returns n bytes in kilobytes, rounded to one decimal.
func sizeKB(n int) float64 {
	return math.Round(float64(n)/1024*10) / 10
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
