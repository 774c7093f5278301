// Package servecmder provides the serve command for running the demo emitter.
package servecmder

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/wiretap/pkg/config"
	"github.com/papercomputeco/wiretap/pkg/emitter"
	"github.com/papercomputeco/wiretap/pkg/logger"
)

type serveCommander struct {
	listen     string
	intervalMs uint
	count      uint
	logFile    string
	debug      bool

	logger *slog.Logger
}

const serveLongDesc string = `Run a local event stream emitter.

The emitter serves /ping for health checks and /stream, which emits a bounded
sequence of data frames at a fixed interval. It exists so tail and get have a
well-behaved endpoint to exercise.

Examples:
  wiretap serve
  wiretap serve --listen :9000 --count 50
  wiretap serve --interval-ms 100 --log-file wiretap.log`

const serveShortDesc string = "Run a local event stream emitter"

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, []string{
				config.FlagServeListen,
				config.FlagServeInterval,
				config.FlagServeCount,
			})

			cmder.listen = v.GetString("serve.listen")
			cmder.intervalMs = v.GetUint("serve.interval_ms")
			cmder.count = v.GetUint("serve.count")
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

	config.AddStringFlag(cmd, config.Flags, config.FlagServeListen, &cmder.listen)
	config.AddUintFlag(cmd, config.Flags, config.FlagServeInterval, &cmder.intervalMs)
	config.AddUintFlag(cmd, config.Flags, config.FlagServeCount, &cmder.count)
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")

	return cmd
}

func (c *serveCommander) run() error {
	if err := c.initLogger(); err != nil {
		return err
	}

	srv := emitter.NewServer(emitter.Config{
		ListenAddr: c.listen,
		Interval:   time.Duration(c.intervalMs) * time.Millisecond,
		Count:      c.count,
	}, c.logger)

	c.logger.Info("starting emitter",
		"listen", c.listen,
		"interval_ms", c.intervalMs,
		"count", c.count,
	)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- fmt.Errorf("emitter error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return srv.Shutdown()
	}
}

func (c *serveCommander) initLogger() error {
	pretty := logger.New(
		logger.WithPretty(true),
		logger.WithDebug(c.debug),
	)

	if c.logFile == "" {
		c.logger = pretty
		return nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	file := logger.New(
		logger.WithJSON(true),
		logger.WithDebug(c.debug),
		logger.WithWriter(f),
	)
	c.logger = logger.Multi(pretty, file)

	return nil
}
