// Package a11y models platform accessibility signals and the sources that
// report them.
package a11y

// State is a full accessibility snapshot. Each flag is owned by the
// platform; the engine only mirrors it.
type State struct {
	ReducedMotion      bool `json:"reducedMotion"`
	HighContrast       bool `json:"highContrast"`
	ScreenReaderActive bool `json:"screenReaderActive"`
}

// Partial is a partial State. A nil field means "not present".
type Partial struct {
	ReducedMotion      *bool `json:"reducedMotion,omitempty"`
	HighContrast       *bool `json:"highContrast,omitempty"`
	ScreenReaderActive *bool `json:"screenReaderActive,omitempty"`
}

// Bool returns a pointer to b, for building Partial literals.
func Bool(b bool) *bool {
	return &b
}

// Full returns s as a Partial with every field present.
func (s State) Full() Partial {
	return Partial{
		ReducedMotion:      Bool(s.ReducedMotion),
		HighContrast:       Bool(s.HighContrast),
		ScreenReaderActive: Bool(s.ScreenReaderActive),
	}
}

// IsEmpty reports whether no field is present.
func (p Partial) IsEmpty() bool {
	return p.ReducedMotion == nil && p.HighContrast == nil && p.ScreenReaderActive == nil
}

// Apply returns s with every present field of p written over it.
func (p Partial) Apply(s State) State {
	if p.ReducedMotion != nil {
		s.ReducedMotion = *p.ReducedMotion
	}
	if p.HighContrast != nil {
		s.HighContrast = *p.HighContrast
	}
	if p.ScreenReaderActive != nil {
		s.ScreenReaderActive = *p.ScreenReaderActive
	}
	return s
}

// Merge returns p with every present field of q written over it.
// The result never aliases q's pointers.
func (p Partial) Merge(q Partial) Partial {
	if q.ReducedMotion != nil {
		p.ReducedMotion = Bool(*q.ReducedMotion)
	}
	if q.HighContrast != nil {
		p.HighContrast = Bool(*q.HighContrast)
	}
	if q.ScreenReaderActive != nil {
		p.ScreenReaderActive = Bool(*q.ScreenReaderActive)
	}
	return p
}

// Without returns p with the fields present in mask removed.
func (p Partial) Without(mask Partial) Partial {
	if mask.ReducedMotion != nil {
		p.ReducedMotion = nil
	}
	if mask.HighContrast != nil {
		p.HighContrast = nil
	}
	if mask.ScreenReaderActive != nil {
		p.ScreenReaderActive = nil
	}
	return p
}

// Diff returns the fields of next that differ from prev.
func Diff(prev, next State) Partial {
	var p Partial
	if prev.ReducedMotion != next.ReducedMotion {
		p.ReducedMotion = Bool(next.ReducedMotion)
	}
	if prev.HighContrast != next.HighContrast {
		p.HighContrast = Bool(next.HighContrast)
	}
	if prev.ScreenReaderActive != next.ScreenReaderActive {
		p.ScreenReaderActive = Bool(next.ScreenReaderActive)
	}
	return p
}
