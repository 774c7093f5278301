package transport

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Param is one query parameter. Values may be strings, integers, floats, or
// booleans.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered list of query parameters. Insertion order is preserved
// in the joined query string, unlike url.Values whose Encode sorts keys.
type Params []Param

// Add appends a parameter and returns the extended list.
func (p Params) Add(key string, value any) Params {
	return append(p, Param{Key: key, Value: value})
}

// JoinQuery appends params to rawURL as a percent-encoded query string in
// insertion order. An empty parameter list returns rawURL untouched; a URL
// that already carries a query string is extended with '&'.
func JoinQuery(rawURL string, params Params) string {
	if len(params) == 0 {
		return rawURL
	}

	var b strings.Builder
	b.WriteString(rawURL)

	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}

	for _, p := range params {
		b.WriteString(sep)
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(formatParam(p.Value)))
		sep = "&"
	}

	return b.String()
}

// formatParam stringifies a parameter value before escaping.
func formatParam(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
