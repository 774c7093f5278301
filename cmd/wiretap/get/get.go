// Package getcmder provides the get command for issuing one-shot requests.
package getcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/wiretap/pkg/cliui"
	"github.com/papercomputeco/wiretap/pkg/config"
	"github.com/papercomputeco/wiretap/pkg/logger"
	"github.com/papercomputeco/wiretap/pkg/transport"
)

type getCommander struct {
	method    string
	queries   []string
	headers   []string
	data      string
	jsonData  string
	timeoutMs uint
	debug     bool

	logger *zap.Logger
}

const getLongDesc string = `Issue a one-shot request and print the response.

Query parameters are appended in the order given. The body content type is
inferred: --data sends plain text, --json sends JSON. HTTP error statuses are
printed, not treated as command failures; only a network failure or timeout
exits non-zero.

Examples:
  wiretap get http://localhost:8089/ping
  wiretap get http://localhost:8089/stream -q count=2
  wiretap get http://api.example.com/v1/jobs -X POST --json '{"name":"demo"}'`

const getShortDesc string = "Issue a one-shot request"

func NewGetCmd() *cobra.Command {
	cmder := &getCommander{}

	cmd := &cobra.Command{
		Use:   "get <url>",
		Short: getShortDesc,
		Long:  getLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run(args[0])
		},
	}

	cmd.Flags().StringVarP(&cmder.method, "method", "X", http.MethodGet, "HTTP method")
	cmd.Flags().StringArrayVarP(&cmder.queries, "query", "q", nil, "Query parameter as key=value (repeatable, order preserved)")
	cmd.Flags().StringArrayVarP(&cmder.headers, "header", "H", nil, "Request header as key=value (repeatable)")
	cmd.Flags().StringVar(&cmder.data, "data", "", "Plain text request body")
	cmd.Flags().StringVar(&cmder.jsonData, "json", "", "JSON request body")
	config.AddUintFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeoutMs)

	cmd.MarkFlagsMutuallyExclusive("data", "json")

	return cmd
}

func (c *getCommander) run(url string) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	params, err := parsePairs(c.queries)
	if err != nil {
		return fmt.Errorf("parsing query flags: %w", err)
	}

	headers, err := parseHeaders(c.headers)
	if err != nil {
		return fmt.Errorf("parsing header flags: %w", err)
	}

	var body any
	switch {
	case c.jsonData != "":
		if !json.Valid([]byte(c.jsonData)) {
			return fmt.Errorf("invalid JSON body: %q", c.jsonData)
		}
		body = json.RawMessage(c.jsonData)
	case c.data != "":
		body = c.data
	}

	client := transport.New(transport.WithLogger(c.logger))

	var resp *http.Response
	err = cliui.Step(os.Stderr, fmt.Sprintf("%s %s", c.method, url), func() error {
		var stepErr error
		resp, stepErr = client.Do(context.Background(), transport.Request{
			Method:  c.method,
			URL:     url,
			Query:   params,
			Header:  headers,
			Body:    body,
			Timeout: time.Duration(c.timeoutMs) * time.Millisecond,
		})
		return stepErr
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	fmt.Printf("\n  %s %s\n\n",
		cliui.KeyStyle.Render("Status:"),
		cliui.ValueStyle.Render(resp.Status),
	)

	if _, err := io.Copy(os.Stdout, resp.Body); err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	fmt.Println()

	return nil
}

// parsePairs converts key=value flag strings into ordered query params.
func parsePairs(pairs []string) (transport.Params, error) {
	var params transport.Params
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		params = params.Add(key, value)
	}
	return params, nil
}

// parseHeaders converts key=value flag strings into a header map.
func parseHeaders(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	headers := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		headers[key] = value
	}
	return headers, nil
}
