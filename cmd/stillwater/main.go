package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcus/stillwater/internal/app"
	"github.com/marcus/stillwater/internal/config"
)

// hydrateTimeout bounds how long one-shot commands wait for stored
// preferences before giving up.
const hydrateTimeout = 5 * time.Second

type rootOptions struct {
	configPath string
	debug      bool

	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "stillwater",
		Short: "Resolve, inspect and change the calm theme",
		Long: `stillwater resolves the effective theme from the base mode, font scale,
platform accessibility flags and your saved preferences.

Examples:
  stillwater resolve --mode dark --scale 1.3
  stillwater set mode dark
  stillwater override high-contrast on
  stillwater preview`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newResolveCmd(opts),
		newShowCmd(opts),
		newSetCmd(opts),
		newToggleCmd(opts),
		newOverrideCmd(opts),
		newPreviewCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration and installs the logger.
func (o *rootOptions) setup(stderr io.Writer) error {
	cfg, err := config.LoadFrom(o.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	o.cfg = cfg

	level, _ := config.ParseLevel(cfg.Log.Level)
	if o.debug {
		level = slog.LevelDebug
	}
	o.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(o.logger)
	return nil
}

// withEngine opens the configured engine, waits for stored preferences, runs
// fn and closes the engine, which flushes any writes fn queued.
func (o *rootOptions) withEngine(ctx context.Context, fn func(*app.App) error) (err error) {
	a, err := app.Open(o.cfg, o.logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	wctx, cancel := context.WithTimeout(ctx, hydrateTimeout)
	defer cancel()
	if err := a.StartAndWait(wctx); err != nil {
		return err
	}
	return fn(a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
