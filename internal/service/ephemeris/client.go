package ephemeris

import (
	"context"
	"time"

	"Natalis/internal/domain/models"
	"Natalis/internal/service/metrics"
	"Natalis/internal/services/natal"
	"Natalis/pkg/errors"
	applogger "Natalis/pkg/logger"
)

// ComputePath is the provider function that returns positions and houses.
const ComputePath = "/calculate-ephemeris-data"

// Config configures the upstream client.
type Config struct {
	URL        string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// Client calls the ephemeris provider over HTTP.
type Client struct {
	*HTTPServiceBase
	apiKey   string
	attempts int
	log      *applogger.Logger
}

// NewClient builds a provider client. MaxRetries counts retries on top of
// the first attempt.
func NewClient(cfg Config, log *applogger.Logger) *Client {
	metrics.Register()
	if log == nil {
		log = applogger.Nop()
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return &Client{
		HTTPServiceBase: NewHTTPServiceBase(cfg.URL, cfg.Timeout),
		apiKey:          cfg.APIKey,
		attempts:        retries + 1,
		log:             log,
	}
}

// Compute fetches the body table and house block for one birth moment.
// Failures are marked ErrUpstreamComputation.
func (c *Client) Compute(ctx context.Context, req models.EphemerisRequest) (*models.EphemerisData, error) {
	if len(req.Bodies) == 0 {
		req.Bodies = natal.RequiredBodies
	}

	headers := map[string]string{}
	if req.Authorization != "" {
		headers["Authorization"] = req.Authorization
	}
	if c.apiKey != "" {
		headers["Apikey"] = c.apiKey
	}

	start := time.Now()
	var out models.EphemerisData
	err := c.PostJSONWithRetry(ctx, ComputePath, headers, req, &out, c.attempts, func(err error) {
		metrics.EphemerisAttempts.WithLabelValues(outcome(err)).Inc()
	})
	metrics.EphemerisLatency.WithLabelValues(outcome(err)).Observe(time.Since(start).Seconds())

	if err != nil {
		c.log.Warn("ephemeris: compute failed",
			applogger.Error(err),
			applogger.String("house_system", req.HouseSystem),
		)
		return nil, errors.Mark(errors.Wrap(err, "ephemeris compute"), errors.ErrUpstreamComputation)
	}
	c.log.Debug("ephemeris: computed",
		applogger.Int("bodies", len(out.Bodies)),
		applogger.Bool("houses", out.Houses != nil),
	)
	return &out, nil
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
