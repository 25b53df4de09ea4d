package main

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/sirupsen/logrus"

	"creativecheck/internal/checker"
	"creativecheck/internal/checker/claude"
	"creativecheck/internal/checker/gemini"
	"creativecheck/internal/checker/openai"
	"creativecheck/internal/config"
	"creativecheck/internal/credential"
	"creativecheck/internal/logging"
	"creativecheck/internal/normalizer"
	"creativecheck/internal/port"
	"creativecheck/internal/rasterizer"
	"creativecheck/internal/repository/memory"
	"creativecheck/internal/service"
	s3storage "creativecheck/internal/storage/s3"
)

// app holds the services shared by every subcommand.
type app struct {
	cfg        *config.Config
	normalizer *normalizer.Normalizer
	resolver   *credential.Resolver
	batch      service.BatchService
	export     service.ExportService
}

func registerProviders() {
	checker.RegisterProvider("openai", openai.Factory)
	checker.RegisterProvider("claude", claude.Factory)
	checker.RegisterProvider("gemini", gemini.Factory)
}

// newApp loads configuration and wires the services. logOut receives log
// output; the mcp command passes stderr so stdout stays a clean transport.
func newApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logging.Setup(cfg.Log, logOut)

	registerProviders()
	if !slices.Contains(checker.Providers(), cfg.Checker.Provider) {
		return nil, fmt.Errorf("unknown vision provider %q; choose one of %v", cfg.Checker.Provider, checker.Providers())
	}

	prompt, source, err := checker.LoadPrompt(cfg.Checker.PromptFile)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"provider": cfg.Checker.Provider,
		"prompt":   source,
	}).Info("app: checker configured")

	raster := rasterizer.New(cfg.Rasterizer.DPI)
	norm := normalizer.New(raster)
	if !norm.RasterizerAvailable() {
		logrus.Warn("app: pdf rasterizer unavailable, pdf files will be reported as errors")
	}

	resolver := credential.NewResolver(&cfg.Checker)
	runRepo := memory.NewRunRepo(cfg.Runs.MaxRetained)

	var store port.ObjectStorage
	if cfg.S3.Enabled() {
		store, err = s3storage.NewExportStore(ctx, &cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	opts := service.CheckOptions{
		SystemPrompt: prompt,
		Detail:       cfg.Checker.Detail,
		MaxTokens:    cfg.Checker.MaxTokens,
		Temperature:  cfg.Checker.Temperature,
	}
	batch := service.NewBatchService(norm, resolver, checker.NewClientFactory(&cfg.Checker), runRepo, service.BatchConfig{
		Provider:    cfg.Checker.Provider,
		Model:       cfg.Checker.DefaultModel,
		Concurrency: cfg.Checker.Concurrency,
		Options:     opts,
	})

	return &app{
		cfg:        cfg,
		normalizer: norm,
		resolver:   resolver,
		batch:      batch,
		export:     service.NewExportService(runRepo, store, &cfg.S3),
	}, nil
}
