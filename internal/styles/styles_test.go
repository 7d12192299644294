package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/stillwater/internal/a11y"
	"github.com/marcus/stillwater/internal/theme"
	"github.com/marcus/stillwater/internal/tokens"
)

func TestColorDropsAlpha(t *testing.T) {
	tests := []struct {
		in   string
		want lipgloss.Color
	}{
		{"#112233", "#112233"},
		{"#000000CC", "#000000"},
	}
	for _, tt := range tests {
		if got := Color(tt.in); got != tt.want {
			t.Errorf("Color(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewFollowsTheme(t *testing.T) {
	cat := tokens.Default()
	light := New(theme.Resolve(theme.Light, a11y.State{}, 1, cat))
	hc := New(theme.Resolve(theme.Light, a11y.State{HighContrast: true}, 1, cat))

	if got := light.Page.GetBackground(); got != Color(cat.Light.Colors.BgPrimary) {
		t.Errorf("light page background = %v, want %s", got, cat.Light.Colors.BgPrimary)
	}
	if got := hc.Page.GetBackground(); got != lipgloss.Color("#000000") {
		t.Errorf("high contrast page background = %v, want #000000", got)
	}
}

func TestGradientBar(t *testing.T) {
	if got := GradientBar(tokens.GradientSpec{From: "nope", To: "#000000"}, 10); got != "nope -> #000000" {
		t.Errorf("fallback = %q", got)
	}
	g := tokens.Default().Gradients.Calm
	bar := GradientBar(g, 12)
	if w := lipgloss.Width(bar); w != 12 {
		t.Errorf("bar width = %d, want 12", w)
	}
	if got := ansi.Strip(bar); got != "            " {
		t.Errorf("bar text = %q, want 12 blank cells", got)
	}
}

func TestSwatch(t *testing.T) {
	if got := ansi.Strip(Swatch("#123456", 4)); got != "    " {
		t.Errorf("Swatch text = %q, want 4 blank cells", got)
	}
}

func TestPlaceWithoutSize(t *testing.T) {
	s := New(theme.Resolve(theme.Dark, a11y.State{}, 1, tokens.Default()))
	if got := s.Place(0, 0, "x"); got != "x" {
		t.Errorf("Place(0,0) = %q, want content unchanged", got)
	}
}
