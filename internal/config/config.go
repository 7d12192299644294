// Package config loads stillwater settings from a TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/marcus/stillwater/internal/prefs"
	"github.com/marcus/stillwater/internal/theme"
)

const (
	configDir  = ".config/stillwater"
	configFile = "config.toml"
	envPrefix  = "STILLWATER"
)

// Accessibility sources.
const (
	SourceEnv    = "env"
	SourceFile   = "file"
	SourceStatic = "static"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the root configuration structure.
type Config struct {
	Store         StoreConfig         `mapstructure:"store"`
	Accessibility AccessibilityConfig `mapstructure:"accessibility"`
	Theme         ThemeConfig         `mapstructure:"theme"`
	Engine        EngineConfig        `mapstructure:"engine"`
	Log           LogConfig           `mapstructure:"log"`
}

// StoreConfig selects where preferences persist.
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // memory, file or sqlite
	Path    string `mapstructure:"path"`    // "" = default for the backend
}

// AccessibilityConfig selects where platform accessibility flags come from.
type AccessibilityConfig struct {
	Source string `mapstructure:"source"` // env, file or static
	File   string `mapstructure:"file"`
}

// ThemeConfig configures the base theme.
type ThemeConfig struct {
	DefaultMode string `mapstructure:"defaultMode"` // "" = detect from terminal
	TokensFile  string `mapstructure:"tokensFile"`
}

// EngineConfig tunes the orchestrator.
type EngineConfig struct {
	FlushTimeout time.Duration `mapstructure:"flushTimeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: prefs.BackendFile,
		},
		Accessibility: AccessibilityConfig{
			Source: SourceEnv,
			File:   "~/.config/stillwater/accessibility.json",
		},
		Engine: EngineConfig{
			FlushTimeout: 2 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("accessibility.source", d.Accessibility.Source)
	v.SetDefault("accessibility.file", d.Accessibility.File)
	v.SetDefault("theme.defaultMode", d.Theme.DefaultMode)
	v.SetDefault("theme.tokensFile", d.Theme.TokensFile)
	v.SetDefault("engine.flushTimeout", d.Engine.FlushTimeout)
	v.SetDefault("log.level", d.Log.Level)
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from path, then applies STILLWATER_*
// environment overrides (store.backend is STILLWATER_STORE_BACKEND).
// If path is empty, $STILLWATER_CONFIG or ~/.config/stillwater/config.toml
// is used. A missing file yields defaults.
func LoadFrom(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat config: %w", err)
		} else {
			slog.Debug("no config file, using defaults", "path", path)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Store.Path = ExpandPath(cfg.Store.Path)
	cfg.Accessibility.File = ExpandPath(cfg.Accessibility.File)
	cfg.Theme.TokensFile = ExpandPath(cfg.Theme.TokensFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration, filling derived defaults and clamping
// out-of-range values.
func (c *Config) Validate() error {
	c.Store.Backend = strings.ToLower(c.Store.Backend)
	switch c.Store.Backend {
	case prefs.BackendMemory, prefs.BackendFile, prefs.BackendSQLite:
	case "":
		c.Store.Backend = prefs.BackendFile
	default:
		return fmt.Errorf("%w: store.backend: %w: %q", ErrInvalid, prefs.ErrUnknownBackend, c.Store.Backend)
	}
	if c.Store.Path == "" {
		c.Store.Path = DefaultStorePath(c.Store.Backend)
	}

	c.Accessibility.Source = strings.ToLower(c.Accessibility.Source)
	switch c.Accessibility.Source {
	case SourceEnv, SourceStatic:
	case SourceFile:
		if c.Accessibility.File == "" {
			return fmt.Errorf("%w: accessibility.file is required when source is file", ErrInvalid)
		}
	case "":
		c.Accessibility.Source = SourceEnv
	default:
		return fmt.Errorf("%w: accessibility.source %q: want env, file or static", ErrInvalid, c.Accessibility.Source)
	}

	if c.Theme.DefaultMode != "" {
		m, err := theme.ParseMode(c.Theme.DefaultMode)
		if err != nil {
			return fmt.Errorf("%w: theme.defaultMode: %w", ErrInvalid, err)
		}
		c.Theme.DefaultMode = string(m)
	}

	if c.Engine.FlushTimeout <= 0 {
		c.Engine.FlushTimeout = 2 * time.Second
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// ParseLevel maps a log level name to a slog.Level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level %q: %w", s, err)
	}
	return l, nil
}

// DefaultStorePath returns where a backend keeps preferences when no path
// is configured. It is "" for the memory backend.
func DefaultStorePath(backend string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	switch backend {
	case prefs.BackendSQLite:
		return filepath.Join(home, configDir, "prefs.db")
	case prefs.BackendMemory:
		return ""
	}
	return filepath.Join(home, configDir, "prefs.json")
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigPath returns the path to the config file: $STILLWATER_CONFIG when
// set, otherwise ~/.config/stillwater/config.toml.
func ConfigPath() string {
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		return ExpandPath(p)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}

// Save writes cfg to path as TOML, creating the directory if needed.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("store.backend", cfg.Store.Backend)
	v.Set("store.path", cfg.Store.Path)
	v.Set("accessibility.source", cfg.Accessibility.Source)
	v.Set("accessibility.file", cfg.Accessibility.File)
	v.Set("theme.defaultMode", cfg.Theme.DefaultMode)
	v.Set("theme.tokensFile", cfg.Theme.TokensFile)
	v.Set("engine.flushTimeout", cfg.Engine.FlushTimeout.String())
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
