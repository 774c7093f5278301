package sse

import (
	"bytes"
	"fmt"
)

const (
	// prefix is the only field name this wire format recognizes. Every frame
	// starts with exactly these six bytes.
	prefix = "data: "

	// terminator is the two-byte blank line ending every frame.
	terminator = "\n\n"

	// minFrame is the smallest complete frame: the prefix, an empty payload,
	// and the terminator. Accumulators shorter than this cannot hold a frame
	// and are skipped without scanning.
	minFrame = len(prefix) + len(terminator)
)

// extractFrame attempts to pull one complete frame off the front of acc.
// When a full frame is present it returns the decoded payload and the
// unconsumed remainder with found=true. found=false means more bytes are
// needed. A non-nil error means the leading bytes are not a legal frame
// start, which is fatal for the whole session.
//
// The payload occupies the bytes strictly between the prefix and the
// terminator: acc[len(prefix):i] where i is the index of the terminator's
// first byte. A lone newline immediately before the terminator pair belongs
// to the payload; the terminator itself is always exactly two bytes.
func extractFrame(acc []byte) (payload string, rest []byte, found bool, err error) {
	if len(acc) < minFrame {
		return "", acc, false, nil
	}

	if !bytes.HasPrefix(acc, []byte(prefix)) {
		return "", acc, false, fmt.Errorf("%w: expected %q, got %q", ErrBadFrame, prefix, acc[:len(prefix)])
	}

	i := bytes.Index(acc, []byte(terminator))
	if i < 0 {
		return "", acc, false, nil
	}

	return string(acc[len(prefix):i]), acc[i+len(terminator):], true, nil
}
