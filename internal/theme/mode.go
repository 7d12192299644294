package theme

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Mode is the base appearance.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// ErrUnknownMode is returned by ParseMode for unrecognised input.
var ErrUnknownMode = errors.New("unknown mode")

// ErrUnknownCategory is returned by ParseFontSizeCategory.
var ErrUnknownCategory = errors.New("unknown font size category")

// Toggle returns the opposite mode. Anything that is not Dark toggles to Dark.
func (m Mode) Toggle() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// Valid reports whether m is Light or Dark.
func (m Mode) Valid() bool {
	return m == Light || m == Dark
}

// ParseMode parses "light" or "dark", case-insensitively.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch Mode(s) {
	case Light, Dark:
		return Mode(s), nil
	}
	return "", unknownErr(ErrUnknownMode, s, []string{string(Light), string(Dark)})
}

// FontSizeCategory is the user-facing text size setting.
type FontSizeCategory string

const (
	CategorySmall      FontSizeCategory = "small"
	CategoryNormal     FontSizeCategory = "normal"
	CategoryLarge      FontSizeCategory = "large"
	CategoryExtraLarge FontSizeCategory = "extraLarge"
)

var categories = []FontSizeCategory{CategorySmall, CategoryNormal, CategoryLarge, CategoryExtraLarge}

// Scale returns the canonical font scale for c. Unknown categories map to 1.0.
func (c FontSizeCategory) Scale() float64 {
	switch c {
	case CategorySmall:
		return 0.85
	case CategoryLarge:
		return 1.15
	case CategoryExtraLarge:
		return 1.3
	default:
		return DefaultFontScale
	}
}

// ParseFontSizeCategory parses a category name, case-insensitively.
func ParseFontSizeCategory(s string) (FontSizeCategory, error) {
	trimmed := strings.TrimSpace(s)
	names := make([]string, len(categories))
	for i, c := range categories {
		if strings.EqualFold(trimmed, string(c)) {
			return c, nil
		}
		names[i] = string(c)
	}
	return "", unknownErr(ErrUnknownCategory, trimmed, names)
}

// CategoryForScale maps a font scale to the category whose band contains it.
func CategoryForScale(scale float64) FontSizeCategory {
	scale = ClampFontScale(scale)
	switch {
	case scale < 0.95:
		return CategorySmall
	case scale < 1.10:
		return CategoryNormal
	case scale < 1.30:
		return CategoryLarge
	default:
		return CategoryExtraLarge
	}
}

// Font scale bounds. Non-positive scales clamp to MinFontScale rather than
// failing, since resolution sits on the render path.
const (
	MinFontScale     = 0.5
	MaxFontScale     = 3.0
	DefaultFontScale = 1.0
)

// ClampFontScale maps any float to [MinFontScale, MaxFontScale]. NaN maps
// to DefaultFontScale.
func ClampFontScale(scale float64) float64 {
	switch {
	case math.IsNaN(scale):
		return DefaultFontScale
	case scale < MinFontScale:
		return MinFontScale
	case scale > MaxFontScale:
		return MaxFontScale
	}
	return scale
}

// unknownErr wraps sentinel with the closest known name, if any is close.
func unknownErr(sentinel error, got string, known []string) error {
	best, bestDist := "", -1
	for _, k := range known {
		d := levenshtein.ComputeDistance(strings.ToLower(got), strings.ToLower(k))
		if bestDist < 0 || d < bestDist {
			best, bestDist = k, d
		}
	}
	if got != "" && bestDist >= 0 && bestDist <= 2 {
		return fmt.Errorf("%w %q (did you mean %q?)", sentinel, got, best)
	}
	return fmt.Errorf("%w %q (want one of %s)", sentinel, got, strings.Join(known, ", "))
}
