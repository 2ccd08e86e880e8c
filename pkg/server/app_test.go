package server

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Natalis/internal/domain/models"
	"Natalis/pkg/config"
	xhttp "Natalis/pkg/http"
)

type closingPublisher struct {
	closed atomic.Bool
}

func (p *closingPublisher) Publish(context.Context, *models.ChartEvent) error { return nil }

func (p *closingPublisher) Close() error {
	p.closed.Store(true)
	return nil
}

func TestAppRunStopsOnContextCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Server.ShutdownTimeout = time.Second

	srv := xhttp.NewServer(nil, xhttp.WithHost("127.0.0.1"), xhttp.WithPort(0), xhttp.WithMetricsPath(""))
	pub := &closingPublisher{}
	app := New(cfg, nil, srv, nil, nil, nil, pub)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.True(t, pub.closed.Load())
}
