package tokens

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ApplyColorOverrides sets color roles by their camelCase JSON name.
// Values must be valid hex colors; invalid values and unknown keys are
// skipped and returned so the caller can report them.
func (m *ModeTokens) ApplyColorOverrides(overrides map[string]string) (skipped []string) {
	for key, value := range overrides {
		if !IsValidHexColor(value) || !applyColorOverride(&m.Colors, key, value) {
			skipped = append(skipped, key)
		}
	}
	return skipped
}

func applyColorOverride(c *ColorRoles, key, value string) bool {
	switch key {
	case "primary":
		c.Primary = value
	case "secondary":
		c.Secondary = value
	case "accent":
		c.Accent = value
	case "success":
		c.Success = value
	case "warning":
		c.Warning = value
	case "error":
		c.Error = value
	case "info":
		c.Info = value
	case "textPrimary":
		c.TextPrimary = value
	case "textSecondary":
		c.TextSecondary = value
	case "textMuted":
		c.TextMuted = value
	case "textInverse":
		c.TextInverse = value
	case "bgPrimary":
		c.BgPrimary = value
	case "bgSecondary":
		c.BgSecondary = value
	case "bgElevated":
		c.BgElevated = value
	case "bgOverlay":
		c.BgOverlay = value
	case "borderNormal":
		c.BorderNormal = value
	case "borderActive":
		c.BorderActive = value
	case "borderMuted":
		c.BorderMuted = value
	case "outline":
		c.Outline = value
	case "moodGreat":
		c.MoodGreat = value
	case "moodGood":
		c.MoodGood = value
	case "moodOkay":
		c.MoodOkay = value
	case "moodLow":
		c.MoodLow = value
	case "moodBad":
		c.MoodBad = value
	default:
		return false
	}
	return true
}

// ApplyMotionOverrides sets motion durations by name from Go duration
// strings ("120ms"). Negative or unparseable values are skipped.
func (m *Motion) ApplyMotionOverrides(overrides map[string]string) (skipped []string) {
	for key, raw := range overrides {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			skipped = append(skipped, key)
			continue
		}
		switch key {
		case "instant":
			m.Instant = d
		case "fast":
			m.Fast = d
		case "normal":
			m.Normal = d
		case "slow":
			m.Slow = d
		case "breathing":
			m.Breathing = d
		case "pageTransition":
			m.PageTransition = d
		default:
			skipped = append(skipped, key)
		}
	}
	return skipped
}

// overrideFile is the TOML shape accepted by LoadFile.
type overrideFile struct {
	Name  string `toml:"name"`
	Light struct {
		Colors map[string]string `toml:"colors"`
	} `toml:"light"`
	Dark struct {
		Colors map[string]string `toml:"colors"`
	} `toml:"dark"`
	Motion map[string]string `toml:"motion"`
}

// LoadFile reads a TOML token override file and layers it over Default.
//
//	name = "evening"
//	[light.colors]
//	primary = "#6A5ACD"
//	[dark.colors]
//	bgPrimary = "#000000"
//	[motion]
//	fast = "120ms"
//
// Invalid entries are logged and skipped. A missing path returns Default.
func LoadFile(path string) (Catalog, error) {
	cat := Default()
	if path == "" {
		return cat, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cat, nil
		}
		return cat, fmt.Errorf("read tokens file: %w", err)
	}

	var f overrideFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return cat, fmt.Errorf("parse tokens file %s: %w", path, err)
	}

	if f.Name != "" {
		cat.Name = f.Name
	}
	for _, key := range cat.Light.ApplyColorOverrides(f.Light.Colors) {
		slog.Warn("skipping light color override", "key", key, "path", path)
	}
	for _, key := range cat.Dark.ApplyColorOverrides(f.Dark.Colors) {
		slog.Warn("skipping dark color override", "key", key, "path", path)
	}
	for _, key := range cat.Motion.ApplyMotionOverrides(f.Motion) {
		slog.Warn("skipping motion override", "key", key, "path", path)
	}
	for _, role := range cat.Light.EnforceTextContrast(MinTextContrast) {
		slog.Warn("raised light text contrast", "role", role, "path", path)
	}
	for _, role := range cat.Dark.EnforceTextContrast(MinTextContrast) {
		slog.Warn("raised dark text contrast", "role", role, "path", path)
	}
	return cat, nil
}
