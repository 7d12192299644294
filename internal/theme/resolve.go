package theme

import (
	"fmt"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/marcus/stillwater/internal/a11y"
	"github.com/marcus/stillwater/internal/tokens"
)

// EffectiveTheme is the fully merged set of design values consumed by the
// view layer. Every field is a comparable value, so two themes can be
// compared with ==, and a copy never shares state with its source.
type EffectiveTheme struct {
	Mode          Mode               `json:"mode"`
	Accessibility a11y.State         `json:"accessibility"`
	FontScale     float64            `json:"fontScale"`
	Category      FontSizeCategory   `json:"fontSizeCategory"`
	Colors        tokens.ColorRoles  `json:"colors"`
	Typography    tokens.TypeScale   `json:"typography"`
	Shadows       tokens.ShadowScale `json:"shadows"`
	Spacing       tokens.Spacing     `json:"spacing"`
	Radii         tokens.Radii       `json:"radii"`
	Gradients     tokens.Gradients   `json:"gradients"`
	Motion        tokens.Motion      `json:"motion"`
}

// Fingerprint returns a hash of every field of t. Equal themes always have
// equal fingerprints.
func (t EffectiveTheme) Fingerprint() uint64 {
	d := xxhash.New()
	fmt.Fprintf(d, "%+v", t)
	return d.Sum64()
}

// Resolve computes the effective theme. It is pure and never panics: an
// invalid mode resolves as Light and fontScale is clamped.
//
// Order of application:
//  1. pick the mode's color, typography and shadow tables
//  2. high contrast replaces text, background, border and outline colors
//  3. font sizes and line heights are scaled with ScaleSize
//  4. reduced motion zeroes every duration
func Resolve(mode Mode, access a11y.State, fontScale float64, catalog tokens.Catalog) EffectiveTheme {
	if !mode.Valid() {
		mode = Light
	}
	scale := ClampFontScale(fontScale)
	base := catalog.ForMode(mode == Dark)

	colors := base.Colors
	if access.HighContrast {
		colors = HighContrastRoles(colors)
	}

	motion := catalog.Motion
	if access.ReducedMotion {
		motion = tokens.Motion{}
	}

	return EffectiveTheme{
		Mode:          mode,
		Accessibility: access,
		FontScale:     scale,
		Category:      CategoryForScale(scale),
		Colors:        colors,
		Typography:    scaleTypography(base.Typography, scale),
		Shadows:       base.Shadows,
		Spacing:       catalog.Spacing,
		Radii:         catalog.Radii,
		Gradients:     catalog.Gradients,
		Motion:        motion,
	}
}

// ScaleSize scales a point size, rounding half up: floor(base*scale + 0.5).
func ScaleSize(base int, scale float64) int {
	return int(math.Floor(float64(base)*ClampFontScale(scale) + 0.5))
}

func scaleTypography(ts tokens.TypeScale, scale float64) tokens.TypeScale {
	if scale == DefaultFontScale {
		return ts
	}
	for _, s := range []*tokens.TypeStyle{
		&ts.Display, &ts.Headline, &ts.Title, &ts.Body, &ts.BodySmall, &ts.Label, &ts.Caption,
	} {
		s.Size = ScaleSize(s.Size, scale)
		s.LineHeight = ScaleSize(s.LineHeight, scale)
	}
	return ts
}

// High contrast palette. It is the same for both modes.
const (
	hcTextPrimary   = "#FFFFFF"
	hcTextSecondary = "#F5F5F5"
	hcTextMuted     = "#E0E0E0"
	hcTextInverse   = "#000000"
	hcBgPrimary     = "#000000"
	hcBgSecondary   = "#0A0A0A"
	hcBgElevated    = "#141414"
	hcBgOverlay     = "#000000CC"
	hcBorderNormal  = "#FFFFFF"
	hcBorderActive  = "#FFD400"
	hcBorderMuted   = "#BDBDBD"
	hcOutline       = "#FFD400"
)

// HighContrastRoles returns base with the text, background, border and
// outline roles replaced by the fixed high contrast palette. Brand, status
// and mood colors pass through.
func HighContrastRoles(base tokens.ColorRoles) tokens.ColorRoles {
	base.TextPrimary = hcTextPrimary
	base.TextSecondary = hcTextSecondary
	base.TextMuted = hcTextMuted
	base.TextInverse = hcTextInverse
	base.BgPrimary = hcBgPrimary
	base.BgSecondary = hcBgSecondary
	base.BgElevated = hcBgElevated
	base.BgOverlay = hcBgOverlay
	base.BorderNormal = hcBorderNormal
	base.BorderActive = hcBorderActive
	base.BorderMuted = hcBorderMuted
	base.Outline = hcOutline
	return base
}

type cacheKey struct {
	mode    Mode
	access  a11y.State
	scale   float64
	catalog tokens.Catalog
}

// Cache memoizes the most recent Resolve call. It is safe for concurrent use.
type Cache struct {
	mu    sync.Mutex
	key   cacheKey
	theme EffectiveTheme
	ok    bool
	hits  uint64
}

// Resolve returns the cached theme when the inputs match the last call,
// otherwise it resolves and replaces the cached entry.
func (c *Cache) Resolve(mode Mode, access a11y.State, fontScale float64, catalog tokens.Catalog) EffectiveTheme {
	key := cacheKey{mode: mode, access: access, scale: ClampFontScale(fontScale), catalog: catalog}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ok && c.key == key {
		c.hits++
		return c.theme
	}
	c.key = key
	c.theme = Resolve(mode, access, fontScale, catalog)
	c.ok = true
	return c.theme
}

// Hits returns how many calls were served from the cache.
func (c *Cache) Hits() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}
