package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pthm/pwashell/server"
)

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Serve the public directory",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			c.bind(flags, "addr", "addr")
			c.bind(flags, "public_dir", "dir")
			c.bind(flags, "app_name", "name")
			c.bind(flags, "live_reload", "live-reload")
			c.bind(flags, "otel_endpoint", "otel-endpoint")

			cfg, err := c.serverConfig()
			if err != nil {
				return err
			}
			logger, err := c.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			shutdown, err := setupTracing(ctx, cfg.OTelEndpoint, "pwashell")
			if err != nil {
				return err
			}
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Warn("trace shutdown", "error", err)
				}
			}()

			return server.New(cfg, server.WithLogger(logger)).Run(ctx)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", ":8080", "listen address")
	flags.String("dir", "public", "public directory")
	flags.String("name", "pwashell", "application name")
	flags.Bool("live-reload", false, "reload pages when files change")
	flags.String("otel-endpoint", "", "OTLP/HTTP trace endpoint")
	return cmd
}
