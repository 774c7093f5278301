// Package tailcmder provides the tail command for streaming decoded frames
// from a wiretap-compatible event stream server.
package tailcmder

import (
	"context"
	"fmt"
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

type tailCommander struct {
	target    string
	path      string
	timeoutMs uint
	debug     bool

	logger *zap.Logger
}

const tailLongDesc string = `Stream decoded frames from an event stream server.

Opens the configured endpoint and prints one line per decoded frame payload
until the stream ends. The exit status reflects the decode outcome: a stream
that ends mid-frame, carries malformed framing, or drops the connection is
reported as a failure even after messages were printed.

Examples:
  wiretap tail
  wiretap tail --target http://localhost:8089 --path /stream
  wiretap tail -t https://streams.example.com -p /firehose`

const tailShortDesc string = "Stream decoded frames from a server"

func NewTailCmd() *cobra.Command {
	cmder := &tailCommander{}

	cmd := &cobra.Command{
		Use:   "tail",
		Short: tailShortDesc,
		Long:  tailLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, []string{
				config.FlagTarget,
				config.FlagTailPath,
				config.FlagTimeout,
			})

			cmder.target = v.GetString("client.target")
			cmder.path = v.GetString("tail.path")
			cmder.timeoutMs = v.GetUint("client.timeout_ms")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagTarget, &cmder.target)
	config.AddStringFlag(cmd, config.Flags, config.FlagTailPath, &cmder.path)
	config.AddUintFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeoutMs)

	return cmd
}

func (c *tailCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	client := transport.New(transport.WithLogger(c.logger))

	url := strings.TrimRight(c.target, "/") + c.path
	fmt.Printf("\n  %s %s\n\n",
		cliui.KeyStyle.Render("Streaming:"),
		cliui.NameStyle.Render(url),
	)

	d, err := client.Stream(context.Background(), transport.Request{
		URL:     url,
		Timeout: time.Duration(c.timeoutMs) * time.Millisecond,
	})
	if err != nil {
		return fmt.Errorf("opening stream: %w", err)
	}
	defer d.Close()

	count := 0
	for msg := range d.Messages() {
		count++
		fmt.Println(msg)
	}

	if !d.Ok() {
		fmt.Fprintf(os.Stderr, "\n  %s stream failed after %d message(s)\n",
			cliui.FailMark, count)
		return fmt.Errorf("decoding stream: %w", d.Err())
	}

	fmt.Printf("\n  %s %s\n",
		cliui.SuccessMark,
		cliui.DimStyle.Render(fmt.Sprintf("%d message(s), stream complete", count)),
	)
	return nil
}
