//go:build !cgo

package rasterizer

import (
	"context"

	"creativecheck/internal/domain"
	"creativecheck/internal/port"
)

// MuPDF is a placeholder used when the binary is built without cgo, so the
// MuPDF engine is absent. Every Open fails with ErrRasterizerUnavailable.
type MuPDF struct{}

// New returns the unavailable rasterizer; dpi is ignored.
func New(_ float64) *MuPDF {
	return &MuPDF{}
}

// Available always reports false.
func (r *MuPDF) Available() bool { return false }

// Open always fails.
func (r *MuPDF) Open(_ context.Context, _ []byte) (port.RasterDocument, error) {
	return nil, domain.ErrRasterizerUnavailable
}
