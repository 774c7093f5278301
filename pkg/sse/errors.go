package sse

import "errors"

var (
	// ErrBadFrame is returned when the bytes at a frame boundary are not the
	// required "data: " prefix.
	ErrBadFrame = errors.New("malformed frame")

	// ErrTruncated is returned when the stream ends with a partial frame left
	// in the accumulator.
	ErrTruncated = errors.New("truncated stream")

	// ErrNoBody is returned when the response carries no readable stream.
	ErrNoBody = errors.New("response has no body")

	// ErrStatus is returned when the response status is outside the 2xx range.
	ErrStatus = errors.New("unexpected response status")
)
