package port

import "context"

// Rasterizer opens multi-page documents for rendering.
type Rasterizer interface {
	Open(ctx context.Context, data []byte) (RasterDocument, error)
	Available() bool
}

// RasterDocument is an open document. It must be closed after use.
type RasterDocument interface {
	PageCount() int
	// RenderPNG renders the zero-based page as a PNG image.
	RenderPNG(page int) ([]byte, error)
	Close() error
}
