package tokens

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIsValidHexColor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"valid uppercase", "#FF5500", true},
		{"valid lowercase", "#aabbcc", true},
		{"valid with alpha", "#00000080", true},
		{"invalid 3-char", "#FFF", false},
		{"invalid 7-char", "#FF55001", false},
		{"no hash", "FF5500", false},
		{"invalid char", "#GGGGGG", false},
		{"empty string", "", false},
		{"just hash", "#", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidHexColor(tt.input)
			if got != tt.valid {
				t.Errorf("IsValidHexColor(%q) = %v, want %v", tt.input, got, tt.valid)
			}
		})
	}
}

func TestDefaultCatalogColorsAreValid(t *testing.T) {
	cat := Default()
	for name, mode := range map[string]ModeTokens{"light": cat.Light, "dark": cat.Dark} {
		c := mode.Colors
		for role, hex := range map[string]string{
			"primary": c.Primary, "textPrimary": c.TextPrimary, "bgPrimary": c.BgPrimary,
			"bgOverlay": c.BgOverlay, "borderNormal": c.BorderNormal, "outline": c.Outline,
			"moodGreat": c.MoodGreat, "moodBad": c.MoodBad,
		} {
			if !IsValidHexColor(hex) {
				t.Errorf("%s.%s = %q, not a valid hex color", name, role, hex)
			}
		}
	}
}

func TestDefaultReturnsIndependentCopies(t *testing.T) {
	a := Default()
	a.Light.Colors.Primary = "#000000"
	a.Motion.Fast = 0

	b := Default()
	if b.Light.Colors.Primary == "#000000" {
		t.Error("mutating one catalog leaked into another")
	}
	if b.Motion.Fast == 0 {
		t.Error("mutating motion leaked into another catalog")
	}
}

func TestContrastRatio(t *testing.T) {
	tests := []struct {
		name   string
		fg, bg string
		want   float64
	}{
		{"black on white", "#000000", "#FFFFFF", 21},
		{"white on black", "#FFFFFF", "#000000", 21},
		{"same color", "#777777", "#777777", 1},
		{"alpha ignored", "#000000FF", "#FFFFFF80", 21},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContrastRatio(tt.fg, tt.bg)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("ContrastRatio(%q, %q) = %.3f, want %.3f", tt.fg, tt.bg, got, tt.want)
			}
		})
	}
}

func TestDefaultTextMeetsAA(t *testing.T) {
	cat := Default()
	for name, mode := range map[string]ModeTokens{"light": cat.Light, "dark": cat.Dark} {
		if r := ContrastRatio(mode.Colors.TextPrimary, mode.Colors.BgPrimary); r < 4.5 {
			t.Errorf("%s text/background contrast = %.2f, want >= 4.5", name, r)
		}
	}
}

func TestApplyColorOverrides(t *testing.T) {
	mode := Default().Light
	skipped := mode.ApplyColorOverrides(map[string]string{
		"primary":   "#123456",
		"bgPrimary": "not-a-color",
		"unknown":   "#FFFFFF",
	})

	if mode.Colors.Primary != "#123456" {
		t.Errorf("Primary = %q, want #123456", mode.Colors.Primary)
	}
	if mode.Colors.BgPrimary != Default().Light.Colors.BgPrimary {
		t.Errorf("BgPrimary changed to %q despite invalid value", mode.Colors.BgPrimary)
	}
	if len(skipped) != 2 {
		t.Errorf("skipped = %v, want 2 entries", skipped)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tokens.toml")
	content := []byte(`
name = "evening"

[light.colors]
primary = "#6A5ACD"

[dark.colors]
bgPrimary = "#000000"
textPrimary = "nope"

[motion]
fast = "120ms"
slow = "-1s"
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cat, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cat.Name != "evening" {
		t.Errorf("Name = %q, want evening", cat.Name)
	}
	if cat.Light.Colors.Primary != "#6A5ACD" {
		t.Errorf("light primary = %q, want #6A5ACD", cat.Light.Colors.Primary)
	}
	if cat.Dark.Colors.BgPrimary != "#000000" {
		t.Errorf("dark bgPrimary = %q, want #000000", cat.Dark.Colors.BgPrimary)
	}
	if cat.Dark.Colors.TextPrimary != Default().Dark.Colors.TextPrimary {
		t.Errorf("invalid dark textPrimary was applied: %q", cat.Dark.Colors.TextPrimary)
	}
	if cat.Motion.Fast != 120*time.Millisecond {
		t.Errorf("motion fast = %v, want 120ms", cat.Motion.Fast)
	}
	if cat.Motion.Slow != Default().Motion.Slow {
		t.Errorf("negative motion slow was applied: %v", cat.Motion.Slow)
	}
}

func TestLoadFileMissing(t *testing.T) {
	cat, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFile on missing file: %v", err)
	}
	if cat != Default() {
		t.Error("missing tokens file should yield the default catalog")
	}
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[light.colors\nprimary="), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected parse error for malformed TOML")
	}
}

func TestEnsureContrast(t *testing.T) {
	tests := []struct {
		name   string
		fg, bg string
	}{
		{"already fine", "#000000", "#FFFFFF"},
		{"grey on white", "#BBBBBB", "#FFFFFF"},
		{"grey on black", "#333333", "#000000"},
		{"mid background", "#777777", "#808080"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnsureContrast(tt.fg, tt.bg, MinTextContrast)
			if r := ContrastRatio(got, tt.bg); r < MinTextContrast {
				t.Errorf("EnsureContrast(%s, %s) = %s with ratio %.2f, want >= %.1f", tt.fg, tt.bg, got, r, MinTextContrast)
			}
			if ContrastRatio(tt.fg, tt.bg) >= MinTextContrast && got != tt.fg {
				t.Errorf("sufficient color %s was changed to %s", tt.fg, got)
			}
		})
	}

	if got := EnsureContrast("nope", "#FFFFFF", MinTextContrast); got != "nope" {
		t.Errorf("invalid fg changed to %q", got)
	}
}

func TestLoadFileRaisesTextContrast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.toml")
	content := []byte(`
[light.colors]
textPrimary = "#EEEEEE"
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	cat, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	c := cat.Light.Colors
	if c.TextPrimary == "#EEEEEE" {
		t.Fatal("unreadable text override kept as is")
	}
	if r := ContrastRatio(c.TextPrimary, c.BgPrimary); r < MinTextContrast {
		t.Errorf("text contrast = %.2f after load, want >= %.1f", r, MinTextContrast)
	}
	if cat.Dark != Default().Dark {
		t.Error("dark tokens changed although the file did not touch them")
	}
}
