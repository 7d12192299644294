package tokens

import "math"

// MinTextContrast is the WCAG AA ratio for body text.
const MinTextContrast = 4.5

// EnsureContrast adjusts fg until its contrast ratio against bg meets
// minRatio, blending toward whichever of white or black needs the smaller
// shift. It returns fg unchanged when the ratio is already met or fg is not
// a valid color.
func EnsureContrast(fg, bg string, minRatio float64) string {
	from, err := parseHex(fg)
	if err != nil || ContrastRatio(fg, bg) >= minRatio {
		return fg
	}

	best, bestT := "", math.Inf(1)
	for _, pole := range []string{"#ffffff", "#000000"} {
		if ContrastRatio(pole, bg) < minRatio {
			continue
		}
		to, _ := parseHex(pole)
		lo, hi := 0.0, 1.0
		for i := 0; i < 16; i++ {
			mid := (lo + hi) / 2
			if ContrastRatio(from.BlendRgb(to, mid).Clamped().Hex(), bg) >= minRatio {
				hi = mid
			} else {
				lo = mid
			}
		}
		if hi < bestT {
			best, bestT = from.BlendRgb(to, hi).Clamped().Hex(), hi
		}
	}
	if best == "" {
		// Neither pole reaches minRatio; take the stronger one.
		if ContrastRatio("#ffffff", bg) >= ContrastRatio("#000000", bg) {
			return "#ffffff"
		}
		return "#000000"
	}
	return best
}

// EnforceTextContrast raises the primary and secondary text roles to
// minRatio against the primary background. It returns the roles it changed.
func (m *ModeTokens) EnforceTextContrast(minRatio float64) []string {
	var changed []string
	fix := func(name string, role *string) {
		if v := EnsureContrast(*role, m.Colors.BgPrimary, minRatio); v != *role {
			*role = v
			changed = append(changed, name)
		}
	}
	fix("textPrimary", &m.Colors.TextPrimary)
	fix("textSecondary", &m.Colors.TextSecondary)
	return changed
}
