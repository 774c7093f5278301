package transport

import "errors"

// ErrTimeout is returned when response headers do not arrive within the
// request's timeout window.
var ErrTimeout = errors.New("timed out waiting for response")
