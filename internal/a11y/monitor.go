package a11y

import (
	"errors"
	"os"
	"strconv"
	"sync"
)

// Unsubscribe detaches a subscriber. It is safe to call more than once.
type Unsubscribe func()

// Monitor reports the platform's accessibility state.
type Monitor interface {
	// Current returns a best-effort snapshot. It must not block.
	Current() State
	// Subscribe registers onChange for change events. Events carry only
	// the fields that changed.
	Subscribe(onChange func(Partial)) (Unsubscribe, error)
}

// ErrSubscribeFailed is returned by a Manual monitor set to fail.
var ErrSubscribeFailed = errors.New("accessibility subscription failed")

// Static is a Monitor with a fixed snapshot that never emits.
type Static State

// Current implements Monitor.
func (s Static) Current() State { return State(s) }

// Subscribe implements Monitor.
func (s Static) Subscribe(func(Partial)) (Unsubscribe, error) {
	return func() {}, nil
}

// Env variable names read by FromEnv.
const (
	EnvReducedMotion = "STILLWATER_REDUCED_MOTION"
	EnvHighContrast  = "STILLWATER_HIGH_CONTRAST"
	EnvScreenReader  = "STILLWATER_SCREEN_READER"
)

// FromEnv returns a Static monitor read from environment variables.
// Unset or unparseable values are false. A nil getenv uses os.Getenv.
func FromEnv(getenv func(string) string) Static {
	if getenv == nil {
		getenv = os.Getenv
	}
	flag := func(name string) bool {
		v, err := strconv.ParseBool(getenv(name))
		return err == nil && v
	}
	return Static{
		ReducedMotion:      flag(EnvReducedMotion),
		HighContrast:       flag(EnvHighContrast),
		ScreenReaderActive: flag(EnvScreenReader),
	}
}

// Manual is a programmable Monitor. Emit delivers events synchronously to
// every subscriber in subscription order.
type Manual struct {
	mu            sync.Mutex
	state         State
	subs          map[int]func(Partial)
	order         []int
	nextID        int
	failSubscribe bool
}

// NewManual returns a Manual monitor starting at initial.
func NewManual(initial State) *Manual {
	return &Manual{state: initial, subs: make(map[int]func(Partial))}
}

// FailSubscribe makes later Subscribe calls fail.
func (m *Manual) FailSubscribe(fail bool) {
	m.mu.Lock()
	m.failSubscribe = fail
	m.mu.Unlock()
}

// Current implements Monitor.
func (m *Manual) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe implements Monitor.
func (m *Manual) Subscribe(onChange func(Partial)) (Unsubscribe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSubscribe {
		return nil, ErrSubscribeFailed
	}
	id := m.nextID
	m.nextID++
	m.subs[id] = onChange
	m.order = append(m.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.order = removeID(m.order, id)
			m.mu.Unlock()
		})
	}, nil
}

// Subscribers returns the number of active subscribers.
func (m *Manual) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// Emit applies p to the snapshot and notifies subscribers.
func (m *Manual) Emit(p Partial) {
	m.mu.Lock()
	m.state = p.Apply(m.state)
	var fns []func(Partial)
	for _, id := range m.order {
		if fn, ok := m.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
}

func removeID(ids []int, id int) []int {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
