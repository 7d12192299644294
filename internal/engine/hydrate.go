package engine

import (
	"context"
	"strconv"

	"github.com/marcus/stillwater/internal/a11y"
	"github.com/marcus/stillwater/internal/prefs"
	"github.com/marcus/stillwater/internal/theme"
)

// stored is what hydration found in the store. Nil fields were absent,
// unreadable or invalid.
type stored struct {
	raw       map[string]string
	mode      *theme.Mode
	scale     *float64
	category  *theme.FontSizeCategory
	overrides *a11y.Partial
}

// hydrate reads persisted preferences and applies them. Read failures
// count as "not found".
func (o *Orchestrator) hydrate(ctx context.Context) {
	found := stored{raw: make(map[string]string)}
	get := func(key string) (string, bool) {
		v, ok, err := o.store.Get(ctx, key)
		if err != nil {
			if ctx.Err() == nil {
				o.logger.Warn("read preference", "key", key, "err", err)
			}
			return "", false
		}
		if ok {
			found.raw[key] = v
		}
		return v, ok
	}

	if v, ok := get(prefs.KeyMode); ok {
		if m, err := theme.ParseMode(v); err == nil {
			found.mode = &m
		} else {
			o.logger.Warn("ignoring stored mode", "err", err)
		}
	}
	if v, ok := get(prefs.KeyFontScale); ok {
		if s, err := strconv.ParseFloat(v, 64); err == nil {
			s = theme.ClampFontScale(s)
			found.scale = &s
		} else {
			o.logger.Warn("ignoring stored font scale", "value", v, "err", err)
		}
	}
	if v, ok := get(prefs.KeyFontSizeCategory); ok {
		if c, err := theme.ParseFontSizeCategory(v); err == nil {
			found.category = &c
		} else {
			o.logger.Warn("ignoring stored font size category", "err", err)
		}
	}
	if v, ok := get(prefs.KeyAccessibilityOverrides); ok {
		if p, err := prefs.DecodeOverrides(v); err == nil {
			found.overrides = &p
		} else {
			o.logger.Warn("ignoring stored accessibility overrides", "err", err)
		}
	}

	o.applyHydration(found)
}

// applyHydration merges found into state and moves to PhaseReady. Fields
// the user changed this session keep the user's value: a persisted value
// always predates any mutation made after startup. A stopped Orchestrator
// ignores the result.
func (o *Orchestrator) applyHydration(found stored) {
	o.mu.Lock()
	if o.phase != PhaseHydrating {
		o.mu.Unlock()
		o.logger.Debug("dropping hydration result", "phase", o.Phase())
		return
	}

	if found.mode != nil && o.touched[fieldMode] == 0 {
		o.mode = *found.mode
		o.w.seed(prefs.KeyMode, found.raw[prefs.KeyMode])
	}

	if o.touched[fieldScale] == 0 {
		// The scale decides the category; a stored category that disagrees
		// is left over from a failed write.
		switch {
		case found.scale != nil:
			o.scale, o.category = *found.scale, theme.CategoryForScale(*found.scale)
		case found.category != nil:
			o.scale, o.category = found.category.Scale(), *found.category
		}
		if v, ok := found.raw[prefs.KeyFontScale]; ok && found.scale != nil {
			o.w.seed(prefs.KeyFontScale, v)
		}
		if v, ok := found.raw[prefs.KeyFontSizeCategory]; ok && found.category != nil {
			o.w.seed(prefs.KeyFontSizeCategory, v)
		}
	}

	if found.overrides != nil {
		untouched := found.overrides.Without(o.touchedOverrides)
		o.overrides = untouched.Merge(o.overrides)
		if o.touchedOverrides.IsEmpty() {
			o.w.seed(prefs.KeyAccessibilityOverrides, found.raw[prefs.KeyAccessibilityOverrides])
		}
	}

	o.phase = PhaseReady
	o.recomputeLocked()
	mode, scale := o.mode, o.scale
	o.mu.Unlock()

	o.closeHydrated()
	o.dispatch()
	o.logger.Debug("preferences hydrated", "phase", PhaseReady, "mode", mode, "scale", scale)
}
