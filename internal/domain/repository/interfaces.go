package repository

import (
	"context"

	"Natalis/internal/domain/models"
)

// EphemerisProvider computes raw positions and the angle/house block for a
// birth moment and place.
type EphemerisProvider interface {
	Compute(ctx context.Context, req models.EphemerisRequest) (*models.EphemerisData, error)
}

// ChartPublisher emits chart events to downstream consumers.
type ChartPublisher interface {
	Publish(ctx context.Context, event *models.ChartEvent) error
	Close() error
}

type Metrics interface {
	RecordChart(source, status string)
	RecordNote(code string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordCache(result string)
}
