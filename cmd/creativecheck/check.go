package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"creativecheck/internal/domain"
	"creativecheck/internal/export"
	"creativecheck/internal/normalizer"
	"creativecheck/internal/service"
)

type checkFlags struct {
	out    string
	format string
}

func newCheckCmd() *cobra.Command {
	var flags checkFlags
	cmd := &cobra.Command{
		Use:   "check <files...>",
		Short: "Check image or PDF files and write the results",
		Long: "Check one or more creatives and write the results to --out.\n" +
			"When no API key is configured and stdin is a terminal, the key is read with a hidden prompt.\n" +
			"Use --out - to write the results to stdout.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := export.ParseFormat(flags.format)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), os.Stderr)
			if err != nil {
				return err
			}
			var prompt keyPrompt
			if !a.resolver.HasDefault() {
				prompt = terminalPrompt(os.Stdin, cmd.ErrOrStderr())
			}
			return runCheck(cmd.Context(), a.batch, a.export, args, format, flags.out, prompt, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&flags.out, "out", "o", ".", "directory for the result file, or - for stdout")
	cmd.Flags().StringVarP(&flags.format, "format", "f", string(export.FormatJSON), "result format: json, csv, xlsx, yaml")
	return cmd
}

// keyPrompt asks the user for an API key. A nil keyPrompt means a key is
// already configured.
type keyPrompt func() (string, error)

func terminalPrompt(in *os.File, w io.Writer) keyPrompt {
	return func() (string, error) {
		fd := int(in.Fd())
		if !term.IsTerminal(fd) {
			return "", nil
		}
		fmt.Fprint(w, "API key: ")
		key, err := term.ReadPassword(fd)
		fmt.Fprintln(w)
		if err != nil {
			return "", fmt.Errorf("reading api key: %w", err)
		}
		return string(key), nil
	}
}

func runCheck(
	ctx context.Context,
	batch service.BatchService,
	exporter service.ExportService,
	paths []string,
	format export.Format,
	out string,
	prompt keyPrompt,
	stdout io.Writer,
) error {
	var apiKey string
	if prompt != nil {
		key, err := prompt()
		if err != nil {
			return err
		}
		apiKey = key
	}

	files := loadFiles(paths)

	run, err := batch.Run(ctx, service.RunInput{Files: files, APIKey: apiKey})
	if err != nil {
		if errors.Is(err, domain.ErrMissingCredential) {
			return fmt.Errorf("%w: set it in the secrets file, the provider environment variable, or CREATIVECHECK_CHECKER_API_KEY", err)
		}
		return err
	}

	file, err := exporter.Render(ctx, run.ID, format)
	if err != nil {
		return err
	}

	if out == "-" {
		_, err = stdout.Write(file.Data)
		return err
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	dest := filepath.Join(out, file.Filename)
	if err := os.WriteFile(dest, file.Data, 0o644); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	logrus.WithField("path", dest).Info("check: results written")

	writeSummary(stdout, run, dest)
	return nil
}

// loadFiles reads every path. A directory contributes its supported files,
// in name order. An unreadable path becomes a file carrying its read error so
// the batch reports it without stopping.
func loadFiles(paths []string) []domain.UploadedFile {
	files := make([]domain.UploadedFile, 0, len(paths))
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			files = append(files, loadDir(p)...)
			continue
		}
		files = append(files, readFile(p))
	}
	return files
}

func loadDir(dir string) []domain.UploadedFile {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []domain.UploadedFile{{
			Name: filepath.Base(dir),
			Err:  fmt.Errorf("reading directory %s: %w", dir, err),
		}}
	}
	var files []domain.UploadedFile
	for _, e := range entries {
		if e.IsDir() || !normalizer.IsSupported(e.Name()) {
			continue
		}
		files = append(files, readFile(filepath.Join(dir, e.Name())))
	}
	if len(files) == 0 {
		logrus.WithField("dir", dir).Warn("check: no supported files in directory")
	}
	return files
}

func readFile(p string) domain.UploadedFile {
	file := domain.UploadedFile{Name: filepath.Base(p)}
	data, err := os.ReadFile(p)
	if err != nil {
		file.Err = fmt.Errorf("reading %s: %w", p, err)
		return file
	}
	file.Data = data
	return file
}

func writeSummary(w io.Writer, run *domain.RunInfo, dest string) {
	for _, rec := range run.Results {
		fmt.Fprintf(w, "%-12s %s (%d issues)\n", rec.Judgment, rec.FileName, len(rec.Issues))
	}
	s := run.Summary
	fmt.Fprintf(w, "\ntotal %d  %s %d  %s %d  %s %d  %s %d\n",
		s.Total,
		domain.JudgmentClean, s.Clean,
		domain.JudgmentViolation, s.Violation,
		domain.JudgmentNeedsReview, s.NeedsReview,
		domain.JudgmentError, s.Error)
	fmt.Fprintf(w, "results: %s\n", dest)
}
