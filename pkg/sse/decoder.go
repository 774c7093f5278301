// Package sse decodes strict `data: <payload>\n\n` frames from a streaming
// HTTP response body, yielding one message string per frame.
//
// This is deliberately a narrow subset of the Server-Sent Events wire format:
// no event types, no ids, no retry directives, no comment lines, no blank-line
// tolerance. Every frame must be the literal "data: " prefix, the payload, and
// a blank-line terminator; anything else at a frame boundary fails the whole
// decode session.
//
// See the SSE specification for the full protocol this is a subset of:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

import (
	"fmt"
	"io"
	"iter"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

// defaultChunkSize is the read buffer handed to the response body.
const defaultChunkSize = 32 * 1024

// Decoder is a single-pass, pull-based decoder over one response stream.
// The caller drives iteration with Next; the body is never read ahead of
// consumer demand. A Decoder serves exactly one stream and cannot be
// restarted or shared between goroutines.
//
// Decode failures are never raised to the consumer: Next simply stops, and
// the terminal outcome is reported through Ok and Err.
type Decoder struct {
	body   io.ReadCloser
	logger *zap.Logger

	// acc buffers bytes received but not yet resolved into a complete frame.
	// Invariant: acc holds exactly the bytes after the last extracted frame's
	// terminator. It must be empty at clean stream end.
	acc   []byte
	chunk []byte
	eof   bool

	msg  string
	done bool
	ok   bool
	err  error

	closeOnce sync.Once
}

// Option configures a Decoder created with NewDecoder.
type Option func(*Decoder)

// WithLogger sets the logger used to observe decode failures.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Decoder) {
		d.logger = logger
	}
}

// NewDecoder wraps resp's body in a frame decoder. A nil or missing body, or
// a status outside the 2xx range, fails the session immediately: Next yields
// nothing and the body is never read.
func NewDecoder(resp *http.Response, opts ...Option) *Decoder {
	d := &Decoder{
		logger: zap.NewNop(),
		chunk:  make([]byte, defaultChunkSize),
	}

	for _, opt := range opts {
		opt(d)
	}

	switch {
	case resp == nil || resp.Body == nil:
		d.fail(ErrNoBody)

	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		d.body = resp.Body
		d.fail(fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode))

	default:
		d.body = resp.Body
	}

	return d
}

// Next advances the decoder to the next message, pulling chunks from the
// stream as needed. It returns false when the session is over; Ok and Err
// then report the terminal outcome. After Next returns false it never
// returns true again.
func (d *Decoder) Next() bool {
	if d.done {
		return false
	}

	for {
		payload, rest, found, err := extractFrame(d.acc)
		switch {
		case err != nil:
			d.fail(err)
			return false
		case found:
			d.acc = rest
			d.msg = payload
			return true
		}

		if d.eof {
			if len(d.acc) > 0 {
				// Stream ended mid-frame.
				d.fail(fmt.Errorf("%w: %d undecoded bytes at stream end", ErrTruncated, len(d.acc)))
				return false
			}
			d.finish()
			return false
		}

		n, err := d.body.Read(d.chunk)
		if n > 0 {
			d.acc = append(d.acc, d.chunk[:n]...)
		}
		if err != nil {
			if err == io.EOF {
				d.eof = true
				continue
			}
			d.fail(fmt.Errorf("reading stream: %w", err))
			return false
		}
	}
}

// Message returns the payload extracted by the last successful call to Next.
func (d *Decoder) Message() string {
	return d.msg
}

// Messages returns an iterator over the remaining messages in the stream.
// It is a convenience over Next/Message; check Ok after the loop for the
// session outcome. Breaking out of the loop releases the stream.
func (d *Decoder) Messages() iter.Seq[string] {
	return func(yield func(string) bool) {
		for d.Next() {
			if !yield(d.msg) {
				_ = d.Close()
				return
			}
		}
	}
}

// Ok reports whether the session ended cleanly: the stream was exhausted with
// every byte accounted for by a complete frame. It is meaningful once Next
// has returned false.
func (d *Decoder) Ok() bool {
	return d.done && d.ok
}

// Err returns the failure observed by the session, if any. Errors are folded
// into the outcome rather than raised from Next.
func (d *Decoder) Err() error {
	return d.err
}

// Close releases the underlying stream. It is idempotent, runs on every
// session exit path, and is safe to call while the stream is still open,
// e.g. when abandoning iteration early.
func (d *Decoder) Close() error {
	var err error
	d.closeOnce.Do(func() {
		if d.body != nil {
			err = d.body.Close()
		}
	})
	return err
}

// fail terminates the session with a failure outcome. Messages already
// yielded stand; the error is observed via the logger and Err, never raised.
func (d *Decoder) fail(err error) {
	d.done = true
	d.ok = false
	d.err = err
	d.msg = ""
	d.logger.Warn("decode session failed", zap.Error(err))
	_ = d.Close()
}

// finish terminates the session with a success outcome.
func (d *Decoder) finish() {
	d.done = true
	d.ok = true
	d.msg = ""
	_ = d.Close()
}
