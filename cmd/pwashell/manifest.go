package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pthm/pwashell/lib/manifest"
)

func newManifestCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Maintain the offline cache manifest",
	}

	var dryRun bool
	generate := &cobra.Command{
		Use:   "generate [dir]",
		Short: "Write app-files.json and app-version.json",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.bind(cmd.Flags(), "app_name", "name")
			cfg, err := c.serverConfig()
			if err != nil {
				return err
			}
			dir := cfg.PublicDir
			if len(args) == 1 {
				dir = args[0]
			}

			gen := manifest.New(manifest.Options{
				Name:   cfg.AppName,
				DryRun: dryRun,
				Log:    cmd.OutOrStdout(),
			})
			m, err := gen.Generate(dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d files, cache %s\n", len(m.Files), m.CacheName())
			return nil
		},
	}
	generate.Flags().String("name", "pwashell", "application name")
	generate.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be written")

	clean := &cobra.Command{
		Use:   "clean [dir]",
		Short: "Remove generated manifest files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.serverConfig()
			if err != nil {
				return err
			}
			dir := cfg.PublicDir
			if len(args) == 1 {
				dir = args[0]
			}
			return manifest.New(manifest.Options{DryRun: dryRun, Log: cmd.OutOrStdout()}).Clean(dir)
		},
	}
	clean.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be removed")

	cmd.AddCommand(generate, clean)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pwashell version %s\n", version)
		},
	}
}
