// Package preview is a terminal consumer of the theme engine: it renders the
// current EffectiveTheme and lets the user drive the engine's mutations.
package preview

import (
	"encoding/json"
	"math"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/stillwater/internal/a11y"
	"github.com/marcus/stillwater/internal/theme"
)

// scaleStep is how far one +/- keypress moves the font scale.
const scaleStep = 0.05

const statusDuration = 2 * time.Second

// Engine is the part of the orchestrator the preview drives.
type Engine interface {
	EffectiveTheme() theme.EffectiveTheme
	Subscribe(func(theme.EffectiveTheme)) a11y.Unsubscribe
	ToggleMode()
	FontScale() float64
	SetFontScale(float64)
	Accessibility() a11y.State
	UpdateAccessibilityOverride(a11y.Partial)
	ClearAccessibilityOverrides()
}

// themeMsg carries a theme pushed by the engine.
type themeMsg struct{ theme theme.EffectiveTheme }

type clearStatusMsg struct{ id int }

// inbox holds the newest theme from the engine until the program reads it.
// Intermediate themes are superseded, never queued.
type inbox struct {
	mu     sync.Mutex
	latest theme.EffectiveTheme
	ready  chan struct{}
	closed chan struct{}
}

func newInbox() *inbox {
	return &inbox{ready: make(chan struct{}, 1), closed: make(chan struct{})}
}

func (b *inbox) put(t theme.EffectiveTheme) {
	b.mu.Lock()
	b.latest = t
	b.mu.Unlock()
	select {
	case b.ready <- struct{}{}:
	default:
	}
}

// wait returns a command that delivers the next theme.
func (b *inbox) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.ready:
		case <-b.closed:
			return nil
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		return themeMsg{theme: b.latest}
	}
}

// Model is the bubbletea model for the preview.
type Model struct {
	eng   Engine
	box   *inbox
	unsub a11y.Unsubscribe

	// copyText writes to the system clipboard. Tests replace it.
	copyText func(string) error

	theme    theme.EffectiveTheme
	keys     keyMap
	help     help.Model
	width    int
	height   int
	status   string
	statusID int
}

// New subscribes to eng and returns a Model showing its current theme. Call
// Close when the program exits.
func New(eng Engine) *Model {
	box := newInbox()
	m := &Model{
		eng:      eng,
		box:      box,
		copyText: clipboard.WriteAll,
		theme:    eng.EffectiveTheme(),
		keys:     defaultKeys(),
		help:     help.New(),
	}
	m.unsub = eng.Subscribe(box.put)
	return m
}

// Close unsubscribes from the engine and releases a pending wait.
func (m *Model) Close() {
	m.unsub()
	select {
	case <-m.box.closed:
	default:
		close(m.box.closed)
	}
}

// Theme returns the theme the model is currently rendering.
func (m *Model) Theme() theme.EffectiveTheme {
	return m.theme
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.box.wait()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case themeMsg:
		m.theme = msg.theme
		return m, m.box.wait()

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		m.eng.ToggleMode()

	case key.Matches(msg, m.keys.Bigger):
		m.eng.SetFontScale(roundScale(m.eng.FontScale() + scaleStep))

	case key.Matches(msg, m.keys.Smaller):
		m.eng.SetFontScale(roundScale(m.eng.FontScale() - scaleStep))

	case key.Matches(msg, m.keys.Motion):
		on := !m.eng.Accessibility().ReducedMotion
		m.eng.UpdateAccessibilityOverride(a11y.Partial{ReducedMotion: a11y.Bool(on)})
		return m.refresh(onOff("reduced motion", on))

	case key.Matches(msg, m.keys.Contrast):
		on := !m.eng.Accessibility().HighContrast
		m.eng.UpdateAccessibilityOverride(a11y.Partial{HighContrast: a11y.Bool(on)})
		return m.refresh(onOff("high contrast", on))

	case key.Matches(msg, m.keys.Clear):
		m.eng.ClearAccessibilityOverrides()
		return m.refresh("following system accessibility settings")

	case key.Matches(msg, m.keys.Copy):
		return m.refresh(m.copyTheme())

	default:
		return m, nil
	}
	return m.refresh("")
}

// refresh reads the engine's theme directly so the keypress that changed it
// renders without waiting for the subscription round trip.
func (m *Model) refresh(status string) (tea.Model, tea.Cmd) {
	m.theme = m.eng.EffectiveTheme()
	if status == "" {
		return m, nil
	}
	m.statusID++
	m.status = status
	id := m.statusID
	return m, tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

// copyTheme puts the engine's current theme on the clipboard as JSON and
// returns the status line to show.
func (m *Model) copyTheme() string {
	data, err := json.MarshalIndent(m.eng.EffectiveTheme(), "", "  ")
	if err != nil {
		return "Copy failed: " + err.Error()
	}
	if err := m.copyText(string(data)); err != nil {
		return "Copy failed: " + err.Error()
	}
	return "Copied theme JSON"
}

func roundScale(s float64) float64 {
	return math.Round(s*100) / 100
}

func onOff(label string, on bool) string {
	if on {
		return label + " on"
	}
	return label + " off"
}
