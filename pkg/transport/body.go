package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	contentTypeJSON = "application/json"
	contentTypeText = "text/plain"
)

// encodeBody resolves a request body into a reader and an inferred content
// type. A nil body produces no reader and no content type. io.Reader and
// []byte bodies (raw uploads, pre-built multipart containers) pass through
// untouched with the content type left to the caller. Strings and numbers
// become text/plain. Everything else is marshaled to JSON.
func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil

	case io.Reader:
		return b, "", nil

	case []byte:
		return bytes.NewReader(b), "", nil

	case string:
		return strings.NewReader(b), contentTypeText, nil

	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return strings.NewReader(fmt.Sprint(b)), contentTypeText, nil

	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("marshaling request body: %w", err)
		}
		return bytes.NewReader(data), contentTypeJSON, nil
	}
}
