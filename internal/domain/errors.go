package domain

import "errors"

var (
	ErrUnsupportedFileType   = errors.New("unsupported file type")
	ErrRasterizerUnavailable = errors.New("pdf rasterizer is not available")
	ErrMissingCredential     = errors.New("api key is required")
	ErrNoFiles               = errors.New("no files to check")
	ErrFileTooLarge          = errors.New("file exceeds maximum allowed size")
	ErrRunNotFound           = errors.New("check run not found")
	ErrUnsupportedFormat     = errors.New("unsupported export format")
	ErrStorageDisabled       = errors.New("export storage is not configured")
	ErrUploadFailed          = errors.New("export upload to storage failed")
)
