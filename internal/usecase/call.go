package usecase

import (
	"context"

	"Natalis/internal/domain/models"
)

// Call describes who asked for a chart.
type Call struct {
	Source        string
	Authorization string
	JobID         string
}

type callKey struct{}

// WithCall attaches caller details to ctx.
func WithCall(ctx context.Context, c Call) context.Context {
	return context.WithValue(ctx, callKey{}, c)
}

// CallFrom returns the caller details of ctx. The source defaults to HTTP.
func CallFrom(ctx context.Context) Call {
	c, _ := ctx.Value(callKey{}).(Call)
	if c.Source == "" {
		c.Source = models.SourceHTTP
	}
	return c
}
