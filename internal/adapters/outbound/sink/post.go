// Package sink implements the notification channels a finished run is
// dispatched to.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
)

const defaultMaxTries = 3

// poster delivers JSON payloads over HTTP, retrying transient failures with
// exponential backoff.
type poster struct {
	client          *http.Client
	maxTries        uint
	initialInterval time.Duration
	logger          zerolog.Logger
}

// Option tunes the HTTP delivery of the Slack and webhook sinks.
type Option func(*poster)

// WithRetry sets the number of delivery attempts and the first backoff wait.
func WithRetry(maxTries uint, initial time.Duration) Option {
	return func(p *poster) {
		p.maxTries = maxTries
		p.initialInterval = initial
	}
}

// WithHTTPClient replaces the HTTP client. Its timeout is kept as is.
func WithHTTPClient(c *http.Client) Option {
	return func(p *poster) { p.client = c }
}

func newPoster(timeout time.Duration, logger zerolog.Logger, opts []Option) *poster {
	p := &poster{
		client:          &http.Client{Timeout: timeout},
		maxTries:        defaultMaxTries,
		initialInterval: 500 * time.Millisecond,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// statusError is a non-2xx answer from the receiving end.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// retryable reports whether a status is worth another attempt.
func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

func (p *poster) post(ctx context.Context, url string, payload any, header http.Header) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.initialInterval

	attempt := 0
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := p.once(ctx, url, body, header)
		if err == nil {
			return struct{}{}, nil
		}
		var se *statusError
		if errors.As(err, &se) && !retryable(se.Code) {
			return struct{}{}, backoff.Permanent(err)
		}
		p.logger.Warn().Err(err).Str("url", maskURL(url)).Int("attempt", attempt).Msg("delivery failed, retrying")
		return struct{}{}, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(p.maxTries))
	if err != nil {
		return fmt.Errorf("posting to %s: %w", maskURL(url), err)
	}
	return nil
}

func (p *poster) once(ctx context.Context, url string, body []byte, header http.Header) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("building request: %w", err))
	}
	for k, v := range header {
		req.Header[k] = v
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return &statusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(msg))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// maskURL hides the secret tail of webhook URLs in logs and errors.
func maskURL(url string) string {
	if len(url) > 50 {
		return url[:30] + "..." + url[len(url)-10:]
	}
	return url
}
