//go:build cgo

package rasterizer

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"

	"creativecheck/internal/port"
)

// MuPDF renders PDF pages with the MuPDF engine.
type MuPDF struct {
	dpi float64
}

// New creates a MuPDF rasterizer rendering at dpi (72 when dpi <= 0).
func New(dpi float64) *MuPDF {
	if dpi <= 0 {
		dpi = 72
	}
	return &MuPDF{dpi: dpi}
}

// Available reports whether the engine was compiled in.
func (r *MuPDF) Available() bool { return true }

// Open parses data as a PDF document.
func (r *MuPDF) Open(ctx context.Context, data []byte) (port.RasterDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening pdf: %w", err)
	}
	return &document{doc: doc, dpi: r.dpi}, nil
}

type document struct {
	doc *fitz.Document
	dpi float64
}

func (d *document) PageCount() int {
	return d.doc.NumPage()
}

func (d *document) RenderPNG(page int) ([]byte, error) {
	img, err := d.doc.ImagePNG(page, d.dpi)
	if err != nil {
		return nil, fmt.Errorf("rendering page %d: %w", page+1, err)
	}
	return img, nil
}

func (d *document) Close() error {
	return d.doc.Close()
}
