// Package tokens holds the static design token catalog: colors, typography,
// shadows, gradients, spacing, radii and motion durations for both modes.
//
// Every type in this package is a plain value. A Catalog copied out of
// Default or LoadFile shares no memory with any other copy.
package tokens

import (
	"regexp"
	"time"
)

// hexColorRegex validates hex color codes (#RRGGBB or #RRGGBBAA with alpha)
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// ColorRoles holds the semantic color slots for one mode.
type ColorRoles struct {
	// Brand colors
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`

	// Status colors
	Success string `json:"success"`
	Warning string `json:"warning"`
	Error   string `json:"error"`
	Info    string `json:"info"`

	// Text colors
	TextPrimary   string `json:"textPrimary"`
	TextSecondary string `json:"textSecondary"`
	TextMuted     string `json:"textMuted"`
	TextInverse   string `json:"textInverse"`

	// Background colors
	BgPrimary   string `json:"bgPrimary"`
	BgSecondary string `json:"bgSecondary"`
	BgElevated  string `json:"bgElevated"`
	BgOverlay   string `json:"bgOverlay"`

	// Border colors
	BorderNormal string `json:"borderNormal"`
	BorderActive string `json:"borderActive"`
	BorderMuted  string `json:"borderMuted"`
	Outline      string `json:"outline"`

	// Mood scale, great to bad
	MoodGreat string `json:"moodGreat"`
	MoodGood  string `json:"moodGood"`
	MoodOkay  string `json:"moodOkay"`
	MoodLow   string `json:"moodLow"`
	MoodBad   string `json:"moodBad"`
}

// TypeStyle is one entry of the typography table. Size and LineHeight are in
// points and are the only fields affected by font scaling.
type TypeStyle struct {
	Family        string  `json:"family"`
	Weight        string  `json:"weight"`
	Size          int     `json:"size"`
	LineHeight    int     `json:"lineHeight"`
	LetterSpacing float64 `json:"letterSpacing"`
}

// TypeScale is the full typography table.
type TypeScale struct {
	Display   TypeStyle `json:"display"`
	Headline  TypeStyle `json:"headline"`
	Title     TypeStyle `json:"title"`
	Body      TypeStyle `json:"body"`
	BodySmall TypeStyle `json:"bodySmall"`
	Label     TypeStyle `json:"label"`
	Caption   TypeStyle `json:"caption"`
}

// ShadowSpec describes a drop shadow.
type ShadowSpec struct {
	Color     string  `json:"color"`
	OffsetX   float64 `json:"offsetX"`
	OffsetY   float64 `json:"offsetY"`
	Blur      float64 `json:"blur"`
	Opacity   float64 `json:"opacity"`
	Elevation int     `json:"elevation"`
}

// ShadowScale is the shadow table for one mode.
type ShadowScale struct {
	None   ShadowSpec `json:"none"`
	Small  ShadowSpec `json:"small"`
	Medium ShadowSpec `json:"medium"`
	Large  ShadowSpec `json:"large"`
}

// GradientSpec is a two-stop linear gradient. Angle is in degrees.
type GradientSpec struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Angle float64 `json:"angle"`
}

// Gradients is the gradient catalog shared by both modes.
type Gradients struct {
	Calm    GradientSpec `json:"calm"`
	Energy  GradientSpec `json:"energy"`
	Sunrise GradientSpec `json:"sunrise"`
	Night   GradientSpec `json:"night"`
	Breathe GradientSpec `json:"breathe"`
}

// Spacing is the spacing scale in points.
type Spacing struct {
	XXS int `json:"xxs"`
	XS  int `json:"xs"`
	S   int `json:"s"`
	M   int `json:"m"`
	L   int `json:"l"`
	XL  int `json:"xl"`
	XXL int `json:"xxl"`
}

// Radii is the corner radius scale in points.
type Radii struct {
	Small  int `json:"small"`
	Medium int `json:"medium"`
	Large  int `json:"large"`
	Pill   int `json:"pill"`
}

// Motion holds animation durations.
type Motion struct {
	Instant        time.Duration `json:"instant"`
	Fast           time.Duration `json:"fast"`
	Normal         time.Duration `json:"normal"`
	Slow           time.Duration `json:"slow"`
	Breathing      time.Duration `json:"breathing"`
	PageTransition time.Duration `json:"pageTransition"`
}

// ModeTokens are the sub-tables that differ between light and dark mode.
type ModeTokens struct {
	Colors     ColorRoles  `json:"colors"`
	Typography TypeScale   `json:"typography"`
	Shadows    ShadowScale `json:"shadows"`
}

// Catalog is the complete token catalog.
type Catalog struct {
	Name      string     `json:"name"`
	Light     ModeTokens `json:"light"`
	Dark      ModeTokens `json:"dark"`
	Spacing   Spacing    `json:"spacing"`
	Radii     Radii      `json:"radii"`
	Gradients Gradients  `json:"gradients"`
	Motion    Motion     `json:"motion"`
}

// IsValidHexColor reports whether hex is #RRGGBB or #RRGGBBAA.
func IsValidHexColor(hex string) bool {
	return hexColorRegex.MatchString(hex)
}

const (
	fontSans    = "Nunito"
	fontDisplay = "Quicksand"
)

func typeScale() TypeScale {
	return TypeScale{
		Display:   TypeStyle{Family: fontDisplay, Weight: "700", Size: 34, LineHeight: 41, LetterSpacing: 0.4},
		Headline:  TypeStyle{Family: fontDisplay, Weight: "600", Size: 24, LineHeight: 30},
		Title:     TypeStyle{Family: fontSans, Weight: "600", Size: 20, LineHeight: 25},
		Body:      TypeStyle{Family: fontSans, Weight: "400", Size: 16, LineHeight: 22},
		BodySmall: TypeStyle{Family: fontSans, Weight: "400", Size: 14, LineHeight: 20},
		Label:     TypeStyle{Family: fontSans, Weight: "600", Size: 13, LineHeight: 18, LetterSpacing: 0.2},
		Caption:   TypeStyle{Family: fontSans, Weight: "400", Size: 12, LineHeight: 16},
	}
}

func shadowScale(color string, opacity float64) ShadowScale {
	return ShadowScale{
		None:   ShadowSpec{Color: color},
		Small:  ShadowSpec{Color: color, OffsetY: 1, Blur: 2, Opacity: opacity, Elevation: 1},
		Medium: ShadowSpec{Color: color, OffsetY: 4, Blur: 8, Opacity: opacity, Elevation: 4},
		Large:  ShadowSpec{Color: color, OffsetY: 10, Blur: 20, Opacity: opacity * 1.5, Elevation: 10},
	}
}

// Default returns the built-in catalog.
func Default() Catalog {
	return Catalog{
		Name: "stillwater",
		Light: ModeTokens{
			Colors: ColorRoles{
				Primary:   "#5B7FDB", // Periwinkle
				Secondary: "#4FA3A5", // Teal
				Accent:    "#F2A65A", // Apricot

				Success: "#3E9B6B",
				Warning: "#D9962B",
				Error:   "#D1495B",
				Info:    "#4A8FD4",

				TextPrimary:   "#1F2433",
				TextSecondary: "#4A5168",
				TextMuted:     "#7A8197",
				TextInverse:   "#FFFFFF",

				BgPrimary:   "#F7F8FC",
				BgSecondary: "#EEF1F8",
				BgElevated:  "#FFFFFF",
				BgOverlay:   "#1F243366",

				BorderNormal: "#D8DCE8",
				BorderActive: "#5B7FDB",
				BorderMuted:  "#E8EBF3",
				Outline:      "#5B7FDB",

				MoodGreat: "#3E9B6B",
				MoodGood:  "#7CC18F",
				MoodOkay:  "#F2C94C",
				MoodLow:   "#F2994A",
				MoodBad:   "#D1495B",
			},
			Typography: typeScale(),
			Shadows:    shadowScale("#1F2433", 0.08),
		},
		Dark: ModeTokens{
			Colors: ColorRoles{
				Primary:   "#8FA8F0",
				Secondary: "#6CC4C6",
				Accent:    "#F5B97A",

				Success: "#5CC08A",
				Warning: "#F0B452",
				Error:   "#EF6F7F",
				Info:    "#72AEEA",

				TextPrimary:   "#EEF0F7",
				TextSecondary: "#B6BBCC",
				TextMuted:     "#858BA0",
				TextInverse:   "#141722",

				BgPrimary:   "#141722",
				BgSecondary: "#1C2030",
				BgElevated:  "#252A3D",
				BgOverlay:   "#00000099",

				BorderNormal: "#2F354B",
				BorderActive: "#8FA8F0",
				BorderMuted:  "#232838",
				Outline:      "#8FA8F0",

				MoodGreat: "#5CC08A",
				MoodGood:  "#98D4A8",
				MoodOkay:  "#F5D66E",
				MoodLow:   "#F5AE6E",
				MoodBad:   "#EF6F7F",
			},
			Typography: typeScale(),
			Shadows:    shadowScale("#000000", 0.32),
		},
		Spacing: Spacing{XXS: 2, XS: 4, S: 8, M: 16, L: 24, XL: 32, XXL: 48},
		Radii:   Radii{Small: 6, Medium: 12, Large: 20, Pill: 999},
		Gradients: Gradients{
			Calm:    GradientSpec{From: "#A8C0FF", To: "#3F2B96", Angle: 135},
			Energy:  GradientSpec{From: "#F6D365", To: "#FDA085", Angle: 120},
			Sunrise: GradientSpec{From: "#FBC2EB", To: "#A6C1EE", Angle: 180},
			Night:   GradientSpec{From: "#141E30", To: "#243B55", Angle: 180},
			Breathe: GradientSpec{From: "#84FAB0", To: "#8FD3F4", Angle: 90},
		},
		Motion: Motion{
			Instant:        100 * time.Millisecond,
			Fast:           150 * time.Millisecond,
			Normal:         250 * time.Millisecond,
			Slow:           400 * time.Millisecond,
			Breathing:      4 * time.Second,
			PageTransition: 300 * time.Millisecond,
		},
	}
}

// ForMode returns the light or dark sub-tables.
func (c Catalog) ForMode(dark bool) ModeTokens {
	if dark {
		return c.Dark
	}
	return c.Light
}
