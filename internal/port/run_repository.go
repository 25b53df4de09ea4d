package port

import (
	"context"

	"github.com/google/uuid"

	"creativecheck/internal/domain"
)

// RunRepository keeps finished check runs available for export.
type RunRepository interface {
	Save(ctx context.Context, run *domain.RunInfo) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.RunInfo, error)
}
