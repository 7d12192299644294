package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/marcus/stillwater/internal/a11y"
	"github.com/marcus/stillwater/internal/app"
	"github.com/marcus/stillwater/internal/config"
	"github.com/marcus/stillwater/internal/preview"
	"github.com/marcus/stillwater/internal/theme"
	"github.com/marcus/stillwater/internal/tokens"
	"github.com/marcus/stillwater/internal/version"
)

func newResolveCmd(opts *rootOptions) *cobra.Command {
	var (
		mode          string
		scale         float64
		reducedMotion bool
		highContrast  bool
		screenReader  bool
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the theme for the given inputs as JSON",
		Long:  "Resolve is a pure computation: it ignores saved preferences and platform state.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := theme.ParseMode(mode)
			if err != nil {
				return err
			}
			catalog, err := tokens.LoadFile(opts.cfg.Theme.TokensFile)
			if err != nil {
				return err
			}
			access := a11y.State{
				ReducedMotion:      reducedMotion,
				HighContrast:       highContrast,
				ScreenReaderActive: screenReader,
			}
			return printJSON(cmd.OutOrStdout(), theme.Resolve(m, access, scale, catalog))
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(theme.Light), "base mode (light or dark)")
	cmd.Flags().Float64Var(&scale, "scale", theme.DefaultFontScale, "font scale multiplier")
	cmd.Flags().BoolVar(&reducedMotion, "reduced-motion", false, "resolve with reduced motion")
	cmd.Flags().BoolVar(&highContrast, "high-contrast", false, "resolve with high contrast")
	cmd.Flags().BoolVar(&screenReader, "screen-reader", false, "resolve with a screen reader active")
	return cmd
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current engine state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withEngine(cmd.Context(), func(a *app.App) error {
				if full {
					return printJSON(cmd.OutOrStdout(), a.Engine.EffectiveTheme())
				}
				return printJSON(cmd.OutOrStdout(), a.Snapshot())
			})
		},
	}
	cmd.Flags().BoolVar(&full, "theme", false, "print the full effective theme")
	return cmd
}

func newSetCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change and save a preference",
	}

	mutate := func(use, short string, apply func(*app.App, string) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withEngine(cmd.Context(), func(a *app.App) error {
					if err := apply(a, args[0]); err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), a.Snapshot())
				})
			},
		}
	}

	cmd.AddCommand(
		mutate("mode <light|dark>", "Set the base mode", func(a *app.App, v string) error {
			m, err := theme.ParseMode(v)
			if err != nil {
				return err
			}
			a.Engine.SetMode(m)
			return nil
		}),
		mutate("scale <multiplier>", "Set the font scale", func(a *app.App, v string) error {
			s, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("scale %q: %w", v, err)
			}
			a.Engine.SetFontScale(s)
			return nil
		}),
		mutate("category <small|normal|large|extraLarge>", "Set the font size category", func(a *app.App, v string) error {
			c, err := theme.ParseFontSizeCategory(v)
			if err != nil {
				return err
			}
			a.Engine.SetFontSizeCategory(c)
			return nil
		}),
	)
	return cmd
}

func newToggleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withEngine(cmd.Context(), func(a *app.App) error {
				a.Engine.ToggleMode()
				return printJSON(cmd.OutOrStdout(), a.Snapshot())
			})
		},
	}
}

// overrideFlags maps CLI names to the Partial field they set.
var overrideFlags = map[string]func(*bool) a11y.Partial{
	"reduced-motion": func(b *bool) a11y.Partial { return a11y.Partial{ReducedMotion: b} },
	"high-contrast":  func(b *bool) a11y.Partial { return a11y.Partial{HighContrast: b} },
	"screen-reader":  func(b *bool) a11y.Partial { return a11y.Partial{ScreenReaderActive: b} },
}

var errBadOverride = errors.New("want reduced-motion, high-contrast or screen-reader")

func newOverrideCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "override <reduced-motion|high-contrast|screen-reader> <on|off> | override clear",
		Short: "Override a platform accessibility flag, or clear all overrides",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var apply func(*app.App)
			switch {
			case len(args) == 1 && args[0] == "clear":
				apply = func(a *app.App) { a.Engine.ClearAccessibilityOverrides() }
			case len(args) == 2:
				build, ok := overrideFlags[strings.ToLower(args[0])]
				if !ok {
					return fmt.Errorf("unknown flag %q: %w", args[0], errBadOverride)
				}
				on, err := parseOnOff(args[1])
				if err != nil {
					return err
				}
				p := build(a11y.Bool(on))
				apply = func(a *app.App) { a.Engine.UpdateAccessibilityOverride(p) }
			default:
				return cmd.Usage()
			}
			return opts.withEngine(cmd.Context(), func(a *app.App) error {
				apply(a)
				return printJSON(cmd.OutOrStdout(), a.Snapshot())
			})
		},
	}
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%q: want on or off", s)
	}
	return b, nil
}

func newPreviewCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Open an interactive theme preview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			a, err := app.Open(opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := a.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			model := preview.New(a.Engine)
			defer model.Close()
			// Render immediately; stored preferences arrive as a theme update.
			if err := a.Start(cmd.Context()); err != nil {
				return err
			}

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run preview: %w", err)
			}
			return nil
		},
	}
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := opts.configPath
			if path == "" {
				path = config.ConfigPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			path := opts.configPath
			if path == "" {
				path = config.ConfigPath()
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), opts.cfg)
		},
	}

	cmd.AddCommand(initCmd, pathCmd, showCmd)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Current())
		},
	}
}
