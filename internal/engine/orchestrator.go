// Package engine owns the live theme state: the current mode, font scale and
// accessibility flags, the memoized effective theme built from them, and the
// glue that hydrates and persists user preferences.
//
// An Orchestrator is created once per application session and injected into
// the view layer. Reads never block on I/O. Mutations update state
// synchronously and persist in the background.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marcus/stillwater/internal/a11y"
	"github.com/marcus/stillwater/internal/prefs"
	"github.com/marcus/stillwater/internal/theme"
	"github.com/marcus/stillwater/internal/tokens"
)

// Phase is the Orchestrator lifecycle state.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseHydrating
	PhaseReady
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseHydrating:
		return "hydrating"
	case PhaseReady:
		return "ready"
	case PhaseStopped:
		return "stopped"
	}
	return "unknown"
}

// ErrAlreadyStarted is returned by Start on an Orchestrator that has
// already been started or stopped.
var ErrAlreadyStarted = errors.New("orchestrator already started")

// DefaultFlushTimeout bounds how long Stop waits for queued writes.
const DefaultFlushTimeout = 2 * time.Second

// Options configures an Orchestrator. Zero values select defaults.
type Options struct {
	// Catalog defaults to tokens.Default().
	Catalog tokens.Catalog
	// Monitor defaults to a static all-off accessibility state.
	Monitor a11y.Monitor
	// Store defaults to an in-memory store.
	Store prefs.Store
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// DefaultMode is the mode used until the user picks one. Empty means
	// detect from the platform.
	DefaultMode theme.Mode
	// FlushTimeout defaults to DefaultFlushTimeout.
	FlushTimeout time.Duration
}

// Mutable fields tracked for hydration precedence.
const (
	fieldMode = iota
	fieldScale
	numFields
)

// Orchestrator merges the base mode, live accessibility signals and
// persisted preferences into one EffectiveTheme. It is safe for concurrent
// use; all state transitions are serialised, so events and mutations apply
// in the order they arrive.
type Orchestrator struct {
	catalog      tokens.Catalog
	monitor      a11y.Monitor
	store        prefs.Store
	logger       *slog.Logger
	session      string
	flushTimeout time.Duration
	w            *writer

	mu        sync.Mutex
	phase     Phase
	mode      theme.Mode
	scale     float64
	category  theme.FontSizeCategory
	live      a11y.State
	overrides a11y.Partial
	cache     theme.Cache
	current   theme.EffectiveTheme
	printed   uint64

	// seq numbers every mutation. touched holds the seq of the last user
	// mutation per field, and touchedOverrides the override fields the user
	// has set; hydration never overwrites either.
	seq              uint64
	touched          [numFields]uint64
	touchedOverrides a11y.Partial

	unsubscribe   a11y.Unsubscribe
	cancelHydrate context.CancelFunc
	hydrated      chan struct{}
	hydratedOnce  sync.Once

	subs        map[int]func(theme.EffectiveTheme)
	subOrder    []int
	nextSub     int
	queue       []theme.EffectiveTheme
	dispatching bool
}

// New returns an Orchestrator in PhaseUninitialized. Its EffectiveTheme is
// already valid, computed from platform defaults.
func New(opts Options) *Orchestrator {
	if opts.Catalog == (tokens.Catalog{}) {
		opts.Catalog = tokens.Default()
	}
	if opts.Monitor == nil {
		opts.Monitor = a11y.Static{}
	}
	if opts.Store == nil {
		opts.Store = prefs.NewMemoryStore()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if !opts.DefaultMode.Valid() {
		opts.DefaultMode = theme.DetectMode(nil)
	}
	if opts.FlushTimeout <= 0 {
		opts.FlushTimeout = DefaultFlushTimeout
	}

	session := uuid.NewString()
	logger := opts.Logger.With("session", session)

	o := &Orchestrator{
		catalog:      opts.Catalog,
		monitor:      opts.Monitor,
		store:        opts.Store,
		logger:       logger,
		session:      session,
		flushTimeout: opts.FlushTimeout,
		w:            newWriter(opts.Store, logger),
		mode:         opts.DefaultMode,
		scale:        theme.DefaultFontScale,
		category:     theme.CategoryNormal,
		live:         opts.Monitor.Current(),
		hydrated:     make(chan struct{}),
		subs:         make(map[int]func(theme.EffectiveTheme)),
	}
	o.recomputeLocked()
	return o
}

// Session returns the unique id of this Orchestrator, as logged.
func (o *Orchestrator) Session() string {
	return o.session
}

// Start subscribes to the accessibility monitor and begins loading
// persisted preferences in the background. It returns immediately.
// A failed subscription is logged and the engine keeps the last known
// accessibility state.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.phase != PhaseUninitialized {
		o.mu.Unlock()
		return ErrAlreadyStarted
	}
	o.phase = PhaseHydrating
	hctx, cancel := context.WithCancel(ctx)
	o.cancelHydrate = cancel
	o.mu.Unlock()

	unsubscribe, err := o.monitor.Subscribe(o.onAccessibilityChange)
	if err != nil {
		o.logger.Warn("accessibility subscription failed", "err", err)
	}

	o.mu.Lock()
	if o.phase == PhaseStopped {
		o.mu.Unlock()
		if unsubscribe != nil {
			unsubscribe()
		}
		return nil
	}
	o.unsubscribe = unsubscribe
	if err == nil {
		o.live = o.monitor.Current()
		o.recomputeLocked()
	}
	o.mu.Unlock()
	o.dispatch()

	// A subscriber may have stopped the engine during dispatch.
	if o.Phase() == PhaseStopped {
		cancel()
		return nil
	}
	o.w.start()
	go o.hydrate(hctx)
	o.logger.Debug("orchestrator started", "phase", PhaseHydrating)
	return nil
}

// Stop unsubscribes from the monitor, cancels an in-flight hydration so it
// can no longer change state, and flushes queued writes (bounded by the
// flush timeout). Stop is idempotent. Mutations after Stop still update the
// in-memory theme but are not persisted.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.phase == PhaseStopped {
		o.mu.Unlock()
		return
	}
	o.phase = PhaseStopped
	unsubscribe := o.unsubscribe
	cancel := o.cancelHydrate
	o.unsubscribe = nil
	o.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
	o.closeHydrated()
	o.w.stop(o.flushTimeout)
	o.logger.Debug("orchestrator stopped")
}

// Hydrated returns a channel closed once persisted preferences have been
// applied (or found absent), or when the Orchestrator is stopped.
func (o *Orchestrator) Hydrated() <-chan struct{} {
	return o.hydrated
}

// Flush blocks until every queued preference write has been attempted.
func (o *Orchestrator) Flush(ctx context.Context) error {
	return o.w.flush(ctx)
}

// EffectiveTheme returns the current theme. It never blocks on I/O.
func (o *Orchestrator) EffectiveTheme() theme.EffectiveTheme {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// Phase returns the lifecycle phase.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

// Mode returns the current base mode.
func (o *Orchestrator) Mode() theme.Mode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mode
}

// FontScale returns the current (clamped) font scale.
func (o *Orchestrator) FontScale() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.scale
}

// FontSizeCategory returns the current font size category.
func (o *Orchestrator) FontSizeCategory() theme.FontSizeCategory {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.category
}

// Accessibility returns the effective accessibility state: live platform
// flags with manual overrides applied.
func (o *Orchestrator) Accessibility() a11y.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.overrides.Apply(o.live)
}

// Overrides returns the manual accessibility overrides in effect.
func (o *Orchestrator) Overrides() a11y.Partial {
	o.mu.Lock()
	defer o.mu.Unlock()
	return a11y.Partial{}.Merge(o.overrides)
}

// Subscribe registers fn to receive every new EffectiveTheme, in change
// order. fn runs outside the Orchestrator's lock and may call back into it.
func (o *Orchestrator) Subscribe(fn func(theme.EffectiveTheme)) a11y.Unsubscribe {
	o.mu.Lock()
	id := o.nextSub
	o.nextSub++
	o.subs[id] = fn
	o.subOrder = append(o.subOrder, id)
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.subs, id)
			for i, sid := range o.subOrder {
				if sid == id {
					o.subOrder = append(o.subOrder[:i], o.subOrder[i+1:]...)
					break
				}
			}
			o.mu.Unlock()
		})
	}
}

// ToggleMode flips between light and dark.
func (o *Orchestrator) ToggleMode() {
	o.mu.Lock()
	o.setModeLocked(o.mode.Toggle())
	o.mu.Unlock()
	o.dispatch()
}

// SetMode selects mode explicitly. Setting the current mode again is a
// no-op apart from marking the mode as user-chosen. Invalid modes are
// ignored.
func (o *Orchestrator) SetMode(mode theme.Mode) {
	if !mode.Valid() {
		o.logger.Warn("ignoring invalid mode", "mode", mode)
		return
	}
	o.mu.Lock()
	o.setModeLocked(mode)
	o.mu.Unlock()
	o.dispatch()
}

func (o *Orchestrator) setModeLocked(mode theme.Mode) {
	seq := o.nextSeqLocked()
	o.touched[fieldMode] = seq
	o.mode = mode
	o.recomputeLocked()
	o.persistLocked(prefs.KeyMode, string(mode), seq)
}

// SetFontScale sets the font scale, clamping it to
// [theme.MinFontScale, theme.MaxFontScale], and remaps the size category.
func (o *Orchestrator) SetFontScale(scale float64) {
	clamped := theme.ClampFontScale(scale)
	if clamped != scale {
		o.logger.Debug("clamped font scale", "requested", scale, "scale", clamped)
	}
	o.mu.Lock()
	o.setScaleLocked(clamped, theme.CategoryForScale(clamped))
	o.mu.Unlock()
	o.dispatch()
}

// SetFontSizeCategory selects a size category and its canonical scale.
// Unknown categories are ignored.
func (o *Orchestrator) SetFontSizeCategory(category theme.FontSizeCategory) {
	if _, err := theme.ParseFontSizeCategory(string(category)); err != nil {
		o.logger.Warn("ignoring invalid font size category", "err", err)
		return
	}
	o.mu.Lock()
	o.setScaleLocked(category.Scale(), category)
	o.mu.Unlock()
	o.dispatch()
}

func (o *Orchestrator) setScaleLocked(scale float64, category theme.FontSizeCategory) {
	seq := o.nextSeqLocked()
	o.touched[fieldScale] = seq
	o.scale = scale
	o.category = category
	o.recomputeLocked()
	o.persistLocked(prefs.KeyFontScale, formatScale(scale), seq)
	o.persistLocked(prefs.KeyFontSizeCategory, string(category), seq)
}

// UpdateAccessibilityOverride merges p into the manual overrides. Fields
// present in p take precedence over live platform events until cleared;
// fields absent from p keep following the platform.
func (o *Orchestrator) UpdateAccessibilityOverride(p a11y.Partial) {
	if p.IsEmpty() {
		return
	}
	o.mu.Lock()
	seq := o.nextSeqLocked()
	o.overrides = o.overrides.Merge(p)
	o.touchedOverrides = o.touchedOverrides.Merge(p)
	o.recomputeLocked()
	o.persistLocked(prefs.KeyAccessibilityOverrides, prefs.EncodeOverrides(o.overrides), seq)
	o.mu.Unlock()
	o.dispatch()
}

// ClearAccessibilityOverrides drops every manual override so all flags
// follow the platform again.
func (o *Orchestrator) ClearAccessibilityOverrides() {
	o.mu.Lock()
	seq := o.nextSeqLocked()
	o.overrides = a11y.Partial{}
	o.touchedOverrides = a11y.State{}.Full()
	o.recomputeLocked()
	o.persistLocked(prefs.KeyAccessibilityOverrides, prefs.EncodeOverrides(o.overrides), seq)
	o.mu.Unlock()
	o.dispatch()
}

// onAccessibilityChange applies a live platform event.
func (o *Orchestrator) onAccessibilityChange(p a11y.Partial) {
	o.mu.Lock()
	if o.phase == PhaseStopped {
		o.mu.Unlock()
		return
	}
	o.live = p.Apply(o.live)
	o.recomputeLocked()
	o.mu.Unlock()
	o.dispatch()
}

func (o *Orchestrator) nextSeqLocked() uint64 {
	o.seq++
	return o.seq
}

func (o *Orchestrator) persistLocked(key, value string, seq uint64) {
	if o.phase == PhaseStopped {
		return
	}
	o.w.enqueue(key, value, seq)
}

// recomputeLocked rebuilds the effective theme from the current inputs and
// queues a notification when it changed.
func (o *Orchestrator) recomputeLocked() {
	t := o.cache.Resolve(o.mode, o.overrides.Apply(o.live), o.scale, o.catalog)
	o.current = t
	fp := t.Fingerprint()
	if fp == o.printed {
		return
	}
	o.printed = fp
	if len(o.subs) > 0 {
		o.queue = append(o.queue, t)
	}
}

// dispatch delivers queued themes to subscribers outside the lock. Only one
// goroutine dispatches at a time, which keeps delivery in change order even
// when a subscriber mutates the Orchestrator.
func (o *Orchestrator) dispatch() {
	o.mu.Lock()
	if o.dispatching {
		o.mu.Unlock()
		return
	}
	o.dispatching = true
	for len(o.queue) > 0 {
		t := o.queue[0]
		o.queue = o.queue[1:]
		fns := make([]func(theme.EffectiveTheme), 0, len(o.subOrder))
		for _, id := range o.subOrder {
			fns = append(fns, o.subs[id])
		}
		o.mu.Unlock()
		for _, fn := range fns {
			fn(t)
		}
		o.mu.Lock()
	}
	o.dispatching = false
	o.mu.Unlock()
}

func (o *Orchestrator) closeHydrated() {
	o.hydratedOnce.Do(func() { close(o.hydrated) })
}

func formatScale(scale float64) string {
	return strconv.FormatFloat(scale, 'f', -1, 64)
}
