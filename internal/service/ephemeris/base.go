package ephemeris

import (
	"context"
	"fmt"
	"net"
	"time"

	"Natalis/pkg/errors"
	xhttp "Natalis/pkg/http"
)

// HTTPServiceBase holds the client and base URL shared by upstream JSON calls.
type HTTPServiceBase struct {
	baseURL string
	client  *xhttp.Client
	backoff time.Duration
}

// NewHTTPServiceBase builds a client with the given timeout. A non-positive
// timeout falls back to 10s.
func NewHTTPServiceBase(baseURL string, timeout time.Duration) *HTTPServiceBase {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPServiceBase{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		backoff: 50 * time.Millisecond,
	}
}

// PostJSON posts payload to path under baseURL and decodes JSON into dest.
func (b *HTTPServiceBase) PostJSON(ctx context.Context, path string, headers map[string]string, payload, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return errors.New("ephemeris http client not initialized")
	}
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     b.baseURL + path,
		Headers: headers,
		Body:    payload,
	}, dest)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return nil
}

// PostJSONWithRetry posts JSON, retrying transient failures up to attempts
// times with linear backoff. onAttempt, when set, observes every attempt.
func (b *HTTPServiceBase) PostJSONWithRetry(ctx context.Context, path string, headers map[string]string, payload, dest interface{}, attempts int, onAttempt func(error)) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = b.PostJSON(ctx, path, headers, payload, dest)
		if onAttempt != nil {
			onAttempt(err)
		}
		if err == nil || !retryable(err) || i == attempts {
			return err
		}
		select {
		case <-time.After(time.Duration(i) * b.backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	var ne net.Error
	return errors.As(err, &ne)
}
