// Command marketdash browses and exports prediction markets from the markets
// REST API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alanyoungcy/marketdash/internal/app"
	"github.com/alanyoungcy/marketdash/internal/config"
)

var version = "dev"

// cli holds state shared by every subcommand. The App is built lazily so
// commands that only inspect configuration never connect to anything.
type cli struct {
	cfgFile  string
	logLevel string

	cfg    *config.Config
	logger *slog.Logger
	app    *app.App
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "marketdash",
		Short:         "Browse, filter and export prediction markets",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			c.close()
		},
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "marketdash.toml", "path to configuration file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		marketsCmd(c),
		exportCmd(c),
		categoriesCmd(c),
		statsCmd(c),
		settingsCmd(c),
		statusCmd(c),
		historyCmd(c),
		browseCmd(c),
		configCmd(c),
	)
	return root
}

// setup loads and validates configuration and sets up logging. Logs go to
// stderr so stdout carries only command output.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.cfgFile)
	if err != nil {
		return fmt.Errorf("load config %s: %w", c.cfgFile, err)
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(c.logger)
	return nil
}

// application wires dependencies on first use.
func (c *cli) application(ctx context.Context) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	a, err := app.New(ctx, c.cfg, c.logger)
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

func (c *cli) close() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}
