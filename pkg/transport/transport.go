// Package transport issues one-shot HTTP requests with ordered query
// joining, content-type inference from the body's shape, and a timeout that
// bounds only the arrival of response headers. It also opens event streams
// for decoding by pkg/sse.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papercomputeco/wiretap/pkg/sse"
)

// Request describes one invocation.
type Request struct {
	// Method is the HTTP method. Empty defaults to GET.
	Method string

	// URL is the bare request URL; Query is joined onto it.
	URL string

	// Query parameters, percent-encoded in insertion order.
	Query Params

	// Header entries are merged onto the request as-is. Callers must not
	// supply Content-Type; that is inferred from Body.
	Header map[string]string

	// Body is the request payload. See encodeBody for the inference rules.
	Body any

	// Timeout bounds the arrival of response headers. Zero means no timeout.
	// It does not bound reading the response body.
	Timeout time.Duration
}

// Client invokes requests. The zero-value-ish New client is ready to use;
// the underlying http.Client is shared and safe for concurrent use.
type Client struct {
	http   *http.Client
	logger *zap.Logger
}

// Option configures a Client created with New.
type Option func(*Client)

// WithLogger sets the logger for request/response debug logging.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient overrides the underlying http.Client, e.g. to install a
// custom RoundTripper in tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		http:   &http.Client{},
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// cancelBody ties the request's cancel-cause context to the response body so
// the context is released when the caller finishes with the stream.
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelCauseFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel(nil)
	return err
}

// headerTimer bounds the arrival of response headers. The timer callback and
// disarm race by nature; the mutex guarantees a timeout cancel can never land
// once disarm has run, even if the timer fired in the same instant.
type headerTimer struct {
	mu       sync.Mutex
	disarmed bool
	cancel   context.CancelCauseFunc
	timer    *time.Timer
}

// armTimeout starts a header timer that cancels the request context with
// ErrTimeout after d. A non-positive d arms nothing; disarm is still safe.
func armTimeout(d time.Duration, cancel context.CancelCauseFunc) *headerTimer {
	t := &headerTimer{cancel: cancel}
	if d > 0 {
		t.timer = time.AfterFunc(d, t.fire)
	}
	return t
}

func (t *headerTimer) fire() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.disarmed {
		return
	}
	t.cancel(ErrTimeout)
}

// disarm marks the headers as arrived and stops the timer. Any callback that
// has not yet cancelled becomes a no-op.
func (t *headerTimer) disarm() {
	t.mu.Lock()
	t.disarmed = true
	t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
}

// Do issues the request and returns the response regardless of HTTP status;
// 4xx/5xx are the caller's to inspect. Only network failure or timeout
// produce an error.
//
// The timeout is armed when the call starts and disarmed the moment response
// headers arrive, so a streaming body can outlive it indefinitely. The
// returned response's Body must be closed by the caller.
func (c *Client) Do(ctx context.Context, req Request) (*http.Response, error) {
	reader, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithCancelCause(ctx)
	timer := armTimeout(req.Timeout, cancel)

	httpReq, err := http.NewRequestWithContext(reqCtx, req.Method, JoinQuery(req.URL, req.Query), reader)
	if err != nil {
		timer.disarm()
		cancel(nil)
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-Id", requestID)

	c.logger.Debug("sending request",
		zap.String("method", httpReq.Method),
		zap.String("url", httpReq.URL.String()),
		zap.String("request_id", requestID),
	)

	resp, err := c.http.Do(httpReq)
	timer.disarm()

	if err != nil {
		cancel(nil)
		if errors.Is(context.Cause(reqCtx), ErrTimeout) {
			return nil, fmt.Errorf("%w after %s: %s", ErrTimeout, req.Timeout, req.URL)
		}
		return nil, fmt.Errorf("sending request: %w", err)
	}

	c.logger.Debug("response received",
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
	)

	// The request context stays alive for the streaming phase; closing the
	// body releases it.
	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}

	return resp, nil
}

// Stream issues req with event-stream headers and wraps the response in a
// frame decoder. Request-level failures (network, timeout) are returned;
// decode failures surface through the decoder's outcome.
func (c *Client) Stream(ctx context.Context, req Request) (*sse.Decoder, error) {
	header := map[string]string{
		"Accept":        "text/event-stream",
		"Cache-Control": "no-cache",
	}
	for k, v := range req.Header {
		header[k] = v
	}
	req.Header = header

	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	return sse.NewDecoder(resp, sse.WithLogger(c.logger)), nil
}
