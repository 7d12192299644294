package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/stillwater/internal/styles"
	"github.com/marcus/stillwater/internal/theme"
	"github.com/marcus/stillwater/internal/tokens"
)

const gradientWidth = 24

type swatch struct {
	name, hex string
}

func colorSwatches(c tokens.ColorRoles) []swatch {
	return []swatch{
		{"primary", c.Primary}, {"secondary", c.Secondary}, {"accent", c.Accent},
		{"success", c.Success}, {"warning", c.Warning}, {"error", c.Error}, {"info", c.Info},
		{"textPrimary", c.TextPrimary}, {"textSecondary", c.TextSecondary},
		{"textMuted", c.TextMuted}, {"textInverse", c.TextInverse},
		{"bgPrimary", c.BgPrimary}, {"bgSecondary", c.BgSecondary},
		{"bgElevated", c.BgElevated}, {"bgOverlay", c.BgOverlay},
		{"borderNormal", c.BorderNormal}, {"borderActive", c.BorderActive},
		{"borderMuted", c.BorderMuted}, {"outline", c.Outline},
		{"moodGreat", c.MoodGreat}, {"moodGood", c.MoodGood}, {"moodOkay", c.MoodOkay},
		{"moodLow", c.MoodLow}, {"moodBad", c.MoodBad},
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	t := m.theme
	st := styles.New(t)

	var b strings.Builder
	b.WriteString(st.Heading.Render(fmt.Sprintf("stillwater  %s  scale %.2f (%s)", t.Mode, t.FontScale, t.Category)))
	b.WriteString("\n")
	b.WriteString(st.Muted.Render(accessibilityLine(t)))
	b.WriteString("\n\n")

	left := st.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		st.Heading.Render("Colors"),
		renderSwatches(t.Colors),
	))
	right := st.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		st.Heading.Render("Typography"),
		st.Body.Render(renderTypography(t.Typography)),
		"",
		st.Heading.Render("Motion"),
		st.Body.Render(renderMotion(t.Motion)),
		"",
		st.Heading.Render("Gradients"),
		renderGradients(t.Gradients),
	))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	b.WriteString("\n\n")

	if m.status != "" {
		b.WriteString(st.Status.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))

	return st.Place(m.width, m.height, st.Page.Render(b.String()))
}

func accessibilityLine(t theme.EffectiveTheme) string {
	flag := func(name string, on bool) string {
		if on {
			return name + ": on"
		}
		return name + ": off"
	}
	a := t.Accessibility
	return strings.Join([]string{
		flag("reduced motion", a.ReducedMotion),
		flag("high contrast", a.HighContrast),
		flag("screen reader", a.ScreenReaderActive),
	}, "  ")
}

func renderSwatches(c tokens.ColorRoles) string {
	var lines []string
	for _, s := range colorSwatches(c) {
		chip := styles.Swatch(s.hex, 4)
		lines = append(lines, fmt.Sprintf("%s %-14s %s", chip, s.name, s.hex))
	}
	return strings.Join(lines, "\n")
}

func renderTypography(ts tokens.TypeScale) string {
	rows := []struct {
		name string
		s    tokens.TypeStyle
	}{
		{"display", ts.Display}, {"headline", ts.Headline}, {"title", ts.Title},
		{"body", ts.Body}, {"bodySmall", ts.BodySmall}, {"label", ts.Label},
		{"caption", ts.Caption},
	}
	var lines []string
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%-10s %3dpt / %3dpt  %s", r.name, r.s.Size, r.s.LineHeight, r.s.Weight))
	}
	return strings.Join(lines, "\n")
}

func renderMotion(mo tokens.Motion) string {
	if mo == (tokens.Motion{}) {
		return "all animations disabled"
	}
	return fmt.Sprintf("instant %v  fast %v  normal %v\nslow %v  breathing %v  page %v",
		mo.Instant, mo.Fast, mo.Normal, mo.Slow, mo.Breathing, mo.PageTransition)
}

func renderGradients(g tokens.Gradients) string {
	rows := []struct {
		name string
		spec tokens.GradientSpec
	}{
		{"calm", g.Calm}, {"energy", g.Energy}, {"sunrise", g.Sunrise},
		{"night", g.Night}, {"breathe", g.Breathe},
	}
	var lines []string
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%-8s %s", r.name, styles.GradientBar(r.spec, gradientWidth)))
	}
	return strings.Join(lines, "\n")
}
