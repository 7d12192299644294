package theme

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/marcus/stillwater/internal/a11y"
	"github.com/marcus/stillwater/internal/tokens"
)

func allTypeStyles(ts tokens.TypeScale) map[string]tokens.TypeStyle {
	return map[string]tokens.TypeStyle{
		"display": ts.Display, "headline": ts.Headline, "title": ts.Title,
		"body": ts.Body, "bodySmall": ts.BodySmall, "label": ts.Label, "caption": ts.Caption,
	}
}

func allDurations(m tokens.Motion) map[string]time.Duration {
	return map[string]time.Duration{
		"instant": m.Instant, "fast": m.Fast, "normal": m.Normal,
		"slow": m.Slow, "breathing": m.Breathing, "pageTransition": m.PageTransition,
	}
}

func TestResolveDeterministic(t *testing.T) {
	t.Parallel()
	cat := tokens.Default()

	tests := []struct {
		name   string
		mode   Mode
		access a11y.State
		scale  float64
	}{
		{"light default", Light, a11y.State{}, 1.0},
		{"dark scaled", Dark, a11y.State{}, 1.3},
		{"light all flags", Light, a11y.State{ReducedMotion: true, HighContrast: true, ScreenReaderActive: true}, 0.85},
		{"dark high contrast", Dark, a11y.State{HighContrast: true}, 2.2},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			first := Resolve(tt.mode, tt.access, tt.scale, cat)
			second := Resolve(tt.mode, tt.access, tt.scale, cat)
			if first != second {
				t.Fatalf("Resolve is not deterministic:\n%+v\n%+v", first, second)
			}
			if first.Fingerprint() != second.Fingerprint() {
				t.Fatal("equal themes produced different fingerprints")
			}
		})
	}
}

func TestResolveSelectsModeTables(t *testing.T) {
	cat := tokens.Default()

	light := Resolve(Light, a11y.State{}, 1, cat)
	if light.Colors != cat.Light.Colors {
		t.Error("light theme did not use light color table")
	}
	dark := Resolve(Dark, a11y.State{}, 1, cat)
	if dark.Colors != cat.Dark.Colors {
		t.Error("dark theme did not use dark color table")
	}
	if dark.Shadows != cat.Dark.Shadows {
		t.Error("dark theme did not use dark shadow table")
	}
	if dark.Spacing != cat.Spacing || dark.Radii != cat.Radii || dark.Gradients != cat.Gradients {
		t.Error("spacing, radii and gradients must pass through unchanged")
	}
	if dark.Motion != cat.Motion {
		t.Error("motion must pass through when reduced motion is off")
	}
}

func TestResolveInvalidModeFallsBackToLight(t *testing.T) {
	cat := tokens.Default()
	got := Resolve(Mode("sepia"), a11y.State{}, 1, cat)
	if got.Mode != Light || got.Colors != cat.Light.Colors {
		t.Errorf("Resolve(sepia) mode = %q, want light tables", got.Mode)
	}
}

func TestResolveFontScale(t *testing.T) {
	cat := tokens.Default()
	base := cat.Light.Typography

	for _, scale := range []float64{0.5, 0.85, 1.15, 1.3, 1.5, 2.0, 2.75} {
		got := Resolve(Light, a11y.State{}, scale, cat)
		want := allTypeStyles(base)
		for name, style := range allTypeStyles(got.Typography) {
			b := want[name]
			wantSize := int(math.Floor(float64(b.Size)*scale + 0.5))
			wantLine := int(math.Floor(float64(b.LineHeight)*scale + 0.5))
			if style.Size != wantSize {
				t.Errorf("scale %.2f %s size = %d, want %d", scale, name, style.Size, wantSize)
			}
			if style.LineHeight != wantLine {
				t.Errorf("scale %.2f %s lineHeight = %d, want %d", scale, name, style.LineHeight, wantLine)
			}
			if style.Family != b.Family || style.Weight != b.Weight || style.LetterSpacing != b.LetterSpacing {
				t.Errorf("scale %.2f %s non-size fields changed", scale, name)
			}
		}
	}
}

func TestScaleSize(t *testing.T) {
	tests := []struct {
		base  int
		scale float64
		want  int
	}{
		{16, 1.5, 24},
		{16, 1.0, 16},
		{13, 1.5, 20}, // 19.5 rounds half up
		{15, 0.5, 8},  // 7.5 rounds half up
		{12, 1.15, 14},
		{16, 0, 8},    // clamped to 0.5
		{16, -2, 8},   // clamped to 0.5
		{10, 100, 30}, // clamped to 3.0
	}
	for _, tt := range tests {
		if got := ScaleSize(tt.base, tt.scale); got != tt.want {
			t.Errorf("ScaleSize(%d, %v) = %d, want %d", tt.base, tt.scale, got, tt.want)
		}
	}
}

func TestResolveBodyAtOnePointFive(t *testing.T) {
	got := Resolve(Light, a11y.State{}, 1.5, tokens.Default())
	if got.Typography.Body.Size != 24 {
		t.Errorf("body size at 1.5 = %d, want 24", got.Typography.Body.Size)
	}
}

func TestResolveClampsFontScale(t *testing.T) {
	cat := tokens.Default()
	for _, scale := range []float64{0, -2, math.Inf(-1)} {
		got := Resolve(Light, a11y.State{}, scale, cat)
		if got.FontScale != MinFontScale {
			t.Errorf("Resolve(scale=%v).FontScale = %v, want %v", scale, got.FontScale, MinFontScale)
		}
	}
	if got := Resolve(Light, a11y.State{}, math.NaN(), cat); got.FontScale != DefaultFontScale {
		t.Errorf("NaN scale resolved to %v, want %v", got.FontScale, DefaultFontScale)
	}
}

func TestResolveReducedMotion(t *testing.T) {
	cat := tokens.Default()
	for _, mode := range []Mode{Light, Dark} {
		got := Resolve(mode, a11y.State{ReducedMotion: true}, 1, cat)
		for name, d := range allDurations(got.Motion) {
			if d != 0 {
				t.Errorf("%s reduced motion %s = %v, want 0", mode, name, d)
			}
		}
	}
}

func TestResolveHighContrastIgnoresMode(t *testing.T) {
	cat := tokens.Default()
	hc := a11y.State{HighContrast: true}
	light := Resolve(Light, hc, 1, cat).Colors
	dark := Resolve(Dark, hc, 1, cat).Colors

	pairs := []struct {
		name        string
		light, dark string
	}{
		{"textPrimary", light.TextPrimary, dark.TextPrimary},
		{"textSecondary", light.TextSecondary, dark.TextSecondary},
		{"textMuted", light.TextMuted, dark.TextMuted},
		{"bgPrimary", light.BgPrimary, dark.BgPrimary},
		{"bgSecondary", light.BgSecondary, dark.BgSecondary},
		{"bgElevated", light.BgElevated, dark.BgElevated},
		{"borderNormal", light.BorderNormal, dark.BorderNormal},
		{"borderActive", light.BorderActive, dark.BorderActive},
		{"outline", light.Outline, dark.Outline},
	}
	for _, p := range pairs {
		if p.light != p.dark {
			t.Errorf("high contrast %s differs by mode: light %s, dark %s", p.name, p.light, p.dark)
		}
	}

	if light.Primary != cat.Light.Colors.Primary || dark.Primary != cat.Dark.Colors.Primary {
		t.Error("high contrast must not touch brand colors")
	}
	if ratio := tokens.ContrastRatio(light.TextPrimary, light.BgPrimary); ratio < 7 {
		t.Errorf("high contrast text/background ratio = %.2f, want >= 7", ratio)
	}
}

func TestResolveDoesNotShareState(t *testing.T) {
	cat := tokens.Default()
	first := Resolve(Dark, a11y.State{}, 1.2, cat)
	first.Colors.Primary = "#000000"
	first.Typography.Body.Size = 1

	second := Resolve(Dark, a11y.State{}, 1.2, cat)
	if second.Colors.Primary == "#000000" || second.Typography.Body.Size == 1 {
		t.Fatal("resolved themes share state")
	}
	if cat.Dark.Colors.Primary == "#000000" {
		t.Fatal("Resolve result aliases the catalog")
	}
}

func TestCache(t *testing.T) {
	var c Cache
	cat := tokens.Default()

	a := c.Resolve(Light, a11y.State{}, 1, cat)
	b := c.Resolve(Light, a11y.State{}, 1, cat)
	if a != b {
		t.Error("cached theme differs from first resolution")
	}
	if c.Hits() != 1 {
		t.Errorf("Hits() = %d, want 1", c.Hits())
	}

	// clamped scales share a key
	c.Resolve(Light, a11y.State{}, 0, cat)
	c.Resolve(Light, a11y.State{}, -1, cat)
	if c.Hits() != 2 {
		t.Errorf("Hits() after clamped scales = %d, want 2", c.Hits())
	}

	d := c.Resolve(Dark, a11y.State{}, 1, cat)
	if d != Resolve(Dark, a11y.State{}, 1, cat) {
		t.Error("cache returned a stale theme for new inputs")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
		hint    string
	}{
		{"light", Light, false, ""},
		{" Dark ", Dark, false, ""},
		{"drak", "", true, `did you mean "dark"`},
		{"sepia", "", true, "want one of"},
		{"", "", true, "want one of"},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if err != nil {
			if !errors.Is(err, ErrUnknownMode) {
				t.Errorf("ParseMode(%q) err does not wrap ErrUnknownMode", tt.in)
			}
			if !strings.Contains(err.Error(), tt.hint) {
				t.Errorf("ParseMode(%q) err = %q, want hint %q", tt.in, err, tt.hint)
			}
		}
	}
}

func TestModeToggle(t *testing.T) {
	if Light.Toggle() != Dark || Dark.Toggle() != Light {
		t.Error("Toggle does not flip light and dark")
	}
	if Light.Toggle().Toggle() != Light {
		t.Error("double toggle is not the identity")
	}
}

func TestCategoryForScale(t *testing.T) {
	tests := []struct {
		scale float64
		want  FontSizeCategory
	}{
		{0.5, CategorySmall},
		{0.85, CategorySmall},
		{1.0, CategoryNormal},
		{1.15, CategoryLarge},
		{1.3, CategoryExtraLarge},
		{3.0, CategoryExtraLarge},
		{-1, CategorySmall},
	}
	for _, tt := range tests {
		if got := CategoryForScale(tt.scale); got != tt.want {
			t.Errorf("CategoryForScale(%v) = %q, want %q", tt.scale, got, tt.want)
		}
	}
	for _, c := range categories {
		if got := CategoryForScale(c.Scale()); got != c {
			t.Errorf("CategoryForScale(%q.Scale()) = %q", c, got)
		}
	}
}

func TestParseFontSizeCategory(t *testing.T) {
	if c, err := ParseFontSizeCategory("ExtraLarge"); err != nil || c != CategoryExtraLarge {
		t.Errorf("ParseFontSizeCategory(ExtraLarge) = %q, %v", c, err)
	}
	if _, err := ParseFontSizeCategory("larg"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("ParseFontSizeCategory(larg) err = %v, want ErrUnknownCategory", err)
	}
}

func TestDetectModeEnvOverride(t *testing.T) {
	env := map[string]string{EnvMode: "DARK"}
	if got := DetectMode(func(k string) string { return env[k] }); got != Dark {
		t.Errorf("DetectMode with env override = %q, want dark", got)
	}
	env[EnvMode] = "light"
	if got := DetectMode(func(k string) string { return env[k] }); got != Light {
		t.Errorf("DetectMode with env override = %q, want light", got)
	}
}

func TestDetectModeTerminalBackground(t *testing.T) {
	noEnv := func(string) string { return "" }
	orig := hasDarkBackground
	t.Cleanup(func() { hasDarkBackground = orig })

	tests := []struct {
		name  string
		query func() bool
		want  Mode
	}{
		{"dark terminal", func() bool { return true }, Dark},
		{"light terminal", func() bool { return false }, Light},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hasDarkBackground = tt.query
			if got := DetectMode(noEnv); got != tt.want {
				t.Errorf("DetectMode() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("silent terminal", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)
		hasDarkBackground = func() bool {
			<-release
			return true
		}
		start := time.Now()
		if got := DetectMode(noEnv); got != Light {
			t.Errorf("DetectMode() = %q, want light when the terminal never answers", got)
		}
		if elapsed := time.Since(start); elapsed > 10*DetectTimeout {
			t.Errorf("DetectMode() took %v, want about %v", elapsed, DetectTimeout)
		}
	})
}
