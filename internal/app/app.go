// Package app assembles a theme engine from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/marcus/stillwater/internal/a11y"
	"github.com/marcus/stillwater/internal/config"
	"github.com/marcus/stillwater/internal/engine"
	"github.com/marcus/stillwater/internal/prefs"
	"github.com/marcus/stillwater/internal/theme"
	"github.com/marcus/stillwater/internal/tokens"
)

// App owns an Orchestrator and the resources behind it.
type App struct {
	Engine *engine.Orchestrator
	Config *config.Config

	logger  *slog.Logger
	closers []io.Closer
}

// Open builds the token catalog, preference store and accessibility monitor
// named by cfg and returns an App whose engine is not yet started.
func Open(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, logger: logger}

	catalog, err := tokens.LoadFile(cfg.Theme.TokensFile)
	if err != nil {
		return nil, err
	}

	store, storeCloser, err := prefs.Open(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	a.closers = append(a.closers, storeCloser)

	monitor, err := a.openMonitor(cfg.Accessibility)
	if err != nil {
		a.closeAll()
		return nil, err
	}

	a.Engine = engine.New(engine.Options{
		Catalog:      catalog,
		Monitor:      monitor,
		Store:        store,
		Logger:       logger,
		DefaultMode:  theme.Mode(cfg.Theme.DefaultMode),
		FlushTimeout: cfg.Engine.FlushTimeout,
	})
	logger.Debug("engine ready",
		"session", a.Engine.Session(),
		"store", cfg.Store.Backend,
		"accessibility", cfg.Accessibility.Source,
		"catalog", catalog.Name)
	return a, nil
}

func (a *App) openMonitor(cfg config.AccessibilityConfig) (a11y.Monitor, error) {
	switch cfg.Source {
	case config.SourceStatic:
		return a11y.Static{}, nil
	case config.SourceFile:
		m, err := a11y.NewFileMonitor(cfg.File, a11y.DefaultDebounce, a.logger)
		if err != nil {
			return nil, fmt.Errorf("watch accessibility file: %w", err)
		}
		a.closers = append(a.closers, m)
		return m, nil
	}
	return a11y.FromEnv(nil), nil
}

// Start starts the engine.
func (a *App) Start(ctx context.Context) error {
	return a.Engine.Start(ctx)
}

// StartAndWait starts the engine and waits for hydration or ctx.
func (a *App) StartAndWait(ctx context.Context) error {
	if err := a.Engine.Start(ctx); err != nil {
		return err
	}
	select {
	case <-a.Engine.Hydrated():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for preferences: %w", ctx.Err())
	}
}

// Close stops the engine, flushing pending writes, then releases the store
// and monitor.
func (a *App) Close() error {
	a.Engine.Stop()
	return a.closeAll()
}

func (a *App) closeAll() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// Snapshot is a JSON-friendly view of the engine state.
type Snapshot struct {
	Session       string                 `json:"session"`
	Phase         string                 `json:"phase"`
	Mode          theme.Mode             `json:"mode"`
	FontScale     float64                `json:"fontScale"`
	Category      theme.FontSizeCategory `json:"fontSizeCategory"`
	Accessibility a11y.State             `json:"accessibility"`
	Overrides     a11y.Partial           `json:"overrides"`
	Fingerprint   string                 `json:"fingerprint"`
}

// Snapshot reports the engine's current state.
func (a *App) Snapshot() Snapshot {
	e := a.Engine
	return Snapshot{
		Session:       e.Session(),
		Phase:         e.Phase().String(),
		Mode:          e.Mode(),
		FontScale:     e.FontScale(),
		Category:      e.FontSizeCategory(),
		Accessibility: e.Accessibility(),
		Overrides:     e.Overrides(),
		Fingerprint:   fmt.Sprintf("%016x", e.EffectiveTheme().Fingerprint()),
	}
}
