package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marcus/stillwater/internal/config"
	"github.com/marcus/stillwater/internal/prefs"
	"github.com/marcus/stillwater/internal/theme"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Store.Backend = backend
	cfg.Store.Path = filepath.Join(dir, "prefs."+backend)
	cfg.Accessibility.Source = config.SourceStatic
	cfg.Theme.DefaultMode = string(theme.Light)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return cfg
}

func startApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := Open(cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.StartAndWait(ctx); err != nil {
		t.Fatalf("StartAndWait: %v", err)
	}
	return a
}

func TestPreferencesSurviveRestart(t *testing.T) {
	for _, backend := range []string{prefs.BackendFile, prefs.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)

			a := startApp(t, cfg)
			a.Engine.ToggleMode()
			a.Engine.SetFontSizeCategory(theme.CategoryExtraLarge)
			if err := a.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}

			a = startApp(t, cfg)
			defer a.Close()
			snap := a.Snapshot()
			if snap.Mode != theme.Dark {
				t.Errorf("mode after restart = %q, want dark", snap.Mode)
			}
			if snap.Category != theme.CategoryExtraLarge || snap.FontScale != 1.3 {
				t.Errorf("scale after restart = %v/%q, want 1.3/extraLarge", snap.FontScale, snap.Category)
			}
			if snap.Phase != "ready" {
				t.Errorf("phase = %q, want ready", snap.Phase)
			}
		})
	}
}

func TestOpenWithTokensFile(t *testing.T) {
	cfg := testConfig(t, prefs.BackendMemory)
	cfg.Theme.TokensFile = filepath.Join(t.TempDir(), "tokens.toml")
	content := "name = \"dusk\"\n\n[light.colors]\nprimary = \"#123456\"\n"
	if err := os.WriteFile(cfg.Theme.TokensFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	a := startApp(t, cfg)
	defer a.Close()
	if got := a.Engine.EffectiveTheme().Colors.Primary; got != "#123456" {
		t.Errorf("primary = %q, want override from tokens file", got)
	}
}

func TestOpenFileMonitor(t *testing.T) {
	cfg := testConfig(t, prefs.BackendMemory)
	cfg.Accessibility.Source = config.SourceFile
	cfg.Accessibility.File = filepath.Join(t.TempDir(), "a11y.json")
	if err := os.WriteFile(cfg.Accessibility.File, []byte(`{"highContrast": true}`), 0644); err != nil {
		t.Fatal(err)
	}

	a := startApp(t, cfg)
	defer a.Close()
	if !a.Snapshot().Accessibility.HighContrast {
		t.Error("file monitor state not applied")
	}
}

func TestOpenBadTokensFile(t *testing.T) {
	cfg := testConfig(t, prefs.BackendMemory)
	cfg.Theme.TokensFile = filepath.Join(t.TempDir(), "tokens.toml")
	if err := os.WriteFile(cfg.Theme.TokensFile, []byte("[light"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(cfg, nil); err == nil {
		t.Error("expected error for malformed tokens file")
	}
}

func TestSnapshotFingerprintTracksTheme(t *testing.T) {
	a := startApp(t, testConfig(t, prefs.BackendMemory))
	defer a.Close()

	before := a.Snapshot().Fingerprint
	a.Engine.ToggleMode()
	if a.Snapshot().Fingerprint == before {
		t.Error("fingerprint unchanged after toggle")
	}
	a.Engine.ToggleMode()
	if a.Snapshot().Fingerprint != before {
		t.Error("fingerprint differs after toggling back")
	}
}
