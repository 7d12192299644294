// Package styles turns an EffectiveTheme into lipgloss styles for terminal
// rendering.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/marcus/stillwater/internal/theme"
	"github.com/marcus/stillwater/internal/tokens"
)

// Styles is the set of lipgloss styles for one theme.
type Styles struct {
	Page    lipgloss.Style
	Heading lipgloss.Style
	Body    lipgloss.Style
	Muted   lipgloss.Style
	Status  lipgloss.Style
	Panel   lipgloss.Style

	bg lipgloss.Color
}

// Color converts a token color to a lipgloss color, dropping the alpha
// suffix terminals cannot render.
func Color(hex string) lipgloss.Color {
	if len(hex) == 9 {
		hex = hex[:7]
	}
	return lipgloss.Color(hex)
}

// New builds the styles for t.
func New(t theme.EffectiveTheme) Styles {
	c := t.Colors
	bg := Color(c.BgPrimary)
	return Styles{
		Page:    lipgloss.NewStyle().Foreground(Color(c.TextPrimary)).Background(bg),
		Heading: lipgloss.NewStyle().Bold(true).Foreground(Color(c.Primary)),
		Body:    lipgloss.NewStyle().Foreground(Color(c.TextPrimary)),
		Muted:   lipgloss.NewStyle().Foreground(Color(c.TextMuted)),
		Status:  lipgloss.NewStyle().Foreground(Color(c.Info)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Color(c.BorderNormal)).
			Background(Color(c.BgElevated)).
			Padding(0, 1),
		bg: bg,
	}
}

// Place fills a width x height area with the page background.
func (s Styles) Place(width, height int, content string) string {
	if width <= 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(s.bg))
}

// Swatch renders a solid block of hex that is width cells wide.
func Swatch(hex string, width int) string {
	return lipgloss.NewStyle().Background(Color(hex)).Render(strings.Repeat(" ", width))
}

// GradientBar renders width cells blended from g.From to g.To in Lab space.
// Unparseable stops render as plain text.
func GradientBar(g tokens.GradientSpec, width int) string {
	from, err1 := colorful.Hex(string(Color(g.From)))
	to, err2 := colorful.Hex(string(Color(g.To)))
	if err1 != nil || err2 != nil || width < 2 {
		return g.From + " -> " + g.To
	}
	var sb strings.Builder
	for i := 0; i < width; i++ {
		c := from.BlendLab(to, float64(i)/float64(width-1)).Clamped()
		sb.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(c.Hex())).Render(" "))
	}
	return sb.String()
}
