package service

import (
	"context"

	"Natalis/internal/domain/models"
	"Natalis/internal/services/natal"
)

// ChartEngine turns upstream positions into a report.
type ChartEngine interface {
	Compute(ctx context.Context, in models.ChartInput, opts natal.Options) (*models.Report, error)
}
