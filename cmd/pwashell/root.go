package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pthm/pwashell/server"
)

// cli holds what the commands share.
type cli struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "pwashell",
		Short: "Serve and package pwashell apps",
		Long: `pwashell serves a multi-page progressive web app built with the
pwashell component shell and generates the file list its offline worker
precaches.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default is ./pwashell.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")
	c.bind(flags, "log_level", "log-level")
	c.bind(flags, "log_format", "log-format")

	root.AddCommand(
		newServeCmd(c),
		newManifestCmd(c),
		newVersionCmd(),
	)
	return root
}

// bind makes a flag the highest-precedence source of key.
func (c *cli) bind(fs *pflag.FlagSet, key, flag string) {
	if err := c.v.BindPFlag(key, fs.Lookup(flag)); err != nil {
		panic(err)
	}
}

func (c *cli) initConfig() error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		c.v.AddConfigPath(".")
		c.v.SetConfigName("pwashell")
		c.v.SetConfigType("yaml")
	}
	c.v.SetEnvPrefix("PWASHELL")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	c.v.AutomaticEnv()

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if c.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// serverConfig starts from the environment and applies every value viper
// knows about.
func (c *cli) serverConfig() (server.Config, error) {
	cfg, err := server.LoadConfig()
	if err != nil {
		return server.Config{}, err
	}
	if c.v.IsSet("addr") {
		cfg.Addr = c.v.GetString("addr")
	}
	if c.v.IsSet("public_dir") {
		cfg.PublicDir = c.v.GetString("public_dir")
	}
	if c.v.IsSet("app_name") {
		cfg.AppName = c.v.GetString("app_name")
	}
	if c.v.IsSet("live_reload") {
		cfg.LiveReload = c.v.GetBool("live_reload")
	}
	if c.v.IsSet("otel_endpoint") {
		cfg.OTelEndpoint = c.v.GetString("otel_endpoint")
	}
	return cfg, nil
}

func (c *cli) logger(w io.Writer) (*slog.Logger, error) {
	return newLogger(w, c.v.GetString("log_level"), c.v.GetString("log_format"))
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}
