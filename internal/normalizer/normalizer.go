// Package normalizer turns uploaded creatives into the image payloads sent to
// the vision model.
package normalizer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"creativecheck/internal/domain"
	"creativecheck/internal/port"
)

// Normalizer dispatches files by extension. Images pass through unchanged,
// PDFs are rendered page by page through the rasterizer.
type Normalizer struct {
	rasterizer port.Rasterizer
}

// New creates a Normalizer. r may be nil, in which case PDFs are rejected
// with domain.ErrRasterizerUnavailable.
func New(r port.Rasterizer) *Normalizer {
	return &Normalizer{rasterizer: r}
}

// extension returns the lowercased extension of name without the dot.
func extension(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// FileKind classifies name by its extension.
func FileKind(name string) domain.FileKind {
	ext := extension(name)
	switch {
	case domain.ImageExtensions[ext]:
		return domain.FileKindImage
	case domain.DocumentExtensions[ext]:
		return domain.FileKindDocument
	default:
		return domain.FileKindUnknown
	}
}

// IsSupported reports whether name has an accepted image or document extension.
func IsSupported(name string) bool {
	return FileKind(name) != domain.FileKindUnknown
}

// RasterizerAvailable reports whether PDFs can be processed.
func (n *Normalizer) RasterizerAvailable() bool {
	return n.rasterizer != nil && n.rasterizer.Available()
}

// Normalize converts one file into an ordered list of payloads. data is
// only read.
func (n *Normalizer) Normalize(ctx context.Context, fileName string, data []byte) ([]domain.Payload, error) {
	switch FileKind(fileName) {
	case domain.FileKindImage:
		mediaType, ok := domain.ImageMediaTypes[extension(fileName)]
		if !ok {
			mediaType = domain.DefaultMediaType
		}
		return []domain.Payload{{Data: data, MediaType: mediaType}}, nil
	case domain.FileKindDocument:
		return n.renderPages(ctx, data)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, fileName)
	}
}

// PageCount returns the number of pages in a PDF.
func (n *Normalizer) PageCount(ctx context.Context, data []byte) (int, error) {
	doc, err := n.open(ctx, data)
	if err != nil {
		return 0, err
	}
	defer doc.Close()
	return doc.PageCount(), nil
}

func (n *Normalizer) open(ctx context.Context, data []byte) (port.RasterDocument, error) {
	if !n.RasterizerAvailable() {
		return nil, domain.ErrRasterizerUnavailable
	}
	return n.rasterizer.Open(ctx, data)
}

func (n *Normalizer) renderPages(ctx context.Context, data []byte) ([]domain.Payload, error) {
	doc, err := n.open(ctx, data)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	count := doc.PageCount()
	payloads := make([]domain.Payload, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := doc.RenderPNG(i)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, domain.Payload{Data: img, MediaType: domain.DefaultMediaType})
	}
	return payloads, nil
}
