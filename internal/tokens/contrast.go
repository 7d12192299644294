package tokens

import (
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ContrastRatio returns the WCAG 2.x contrast ratio between two hex colors,
// from 1 (identical luminance) to 21 (black on white). An alpha suffix is
// ignored. Unparseable colors are treated as black.
func ContrastRatio(fg, bg string) float64 {
	l1 := relativeLuminance(fg)
	l2 := relativeLuminance(bg)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func relativeLuminance(hex string) float64 {
	c, err := parseHex(hex)
	if err != nil {
		return 0
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

func parseHex(hex string) (colorful.Color, error) {
	if len(hex) == 9 && strings.HasPrefix(hex, "#") {
		hex = hex[:7]
	}
	return colorful.Hex(hex)
}
