package theme

import (
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// EnvMode overrides platform appearance detection.
const EnvMode = "STILLWATER_MODE"

// DetectTimeout bounds the terminal background query. Terminals that never
// answer it read as Light.
const DetectTimeout = 250 * time.Millisecond

var hasDarkBackground = lipgloss.HasDarkBackground

// DetectMode returns the platform's current appearance: the EnvMode
// variable when it parses, otherwise the terminal background as long as the
// terminal answers within DetectTimeout.
// A nil getenv uses os.Getenv.
func DetectMode(getenv func(string) string) Mode {
	if getenv == nil {
		getenv = os.Getenv
	}
	if env := getenv(EnvMode); env != "" {
		m, err := ParseMode(env)
		if err == nil {
			return m
		}
		slog.Warn("ignoring mode override", "env", EnvMode, "err", err)
	}

	query := hasDarkBackground
	dark := make(chan bool, 1)
	go func() { dark <- query() }()
	select {
	case d := <-dark:
		if d {
			return Dark
		}
		return Light
	case <-time.After(DetectTimeout):
		slog.Debug("terminal background query timed out", "timeout", DetectTimeout)
		return Light
	}
}
