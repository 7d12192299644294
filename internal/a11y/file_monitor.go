package a11y

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of file events into one reload.
const DefaultDebounce = 100 * time.Millisecond

// FileMonitor mirrors accessibility flags from a JSON file such as
//
//	{"reducedMotion": true, "highContrast": false, "screenReaderActive": false}
//
// and emits the changed fields whenever the file is rewritten. A missing
// file reads as all flags off. The parent directory is watched so that
// editors replacing the file by rename are still seen.
type FileMonitor struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	watcher  *fsnotify.Watcher

	mu     sync.Mutex
	state  State
	subs   map[int]func(Partial)
	order  []int
	nextID int
	closed bool

	done      chan struct{}
	closeOnce sync.Once
}

// NewFileMonitor reads path once and starts watching it.
func NewFileMonitor(path string, debounce time.Duration, logger *slog.Logger) (*FileMonitor, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	m := &FileMonitor{
		path:     path,
		debounce: debounce,
		logger:   logger,
		watcher:  watcher,
		subs:     make(map[int]func(Partial)),
		done:     make(chan struct{}),
	}
	if s, err := readStateFile(path); err == nil {
		m.state = s
	} else {
		logger.Warn("read accessibility file", "path", path, "err", err)
	}

	go m.run()
	return m, nil
}

// Current implements Monitor.
func (m *FileMonitor) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe implements Monitor.
func (m *FileMonitor) Subscribe(onChange func(Partial)) (Unsubscribe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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

// Close stops watching. Pending debounced reloads are dropped.
func (m *FileMonitor) Close() error {
	var err error
	m.closeOnce.Do(func() {
		m.mu.Lock()
		m.closed = true
		m.mu.Unlock()
		close(m.done)
		err = m.watcher.Close()
	})
	return err
}

// run owns the debounce timer and performs every reload, so reloads never
// overlap.
func (m *FileMonitor) run() {
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-m.done:
			return
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != m.path {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(m.debounce)
			} else {
				timer.Reset(m.debounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			m.reload()
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.logger.Warn("accessibility file watcher", "path", m.path, "err", err)
		}
	}
}

func (m *FileMonitor) reload() {
	next, err := readStateFile(m.path)
	if err != nil {
		m.logger.Warn("read accessibility file", "path", m.path, "err", err)
		return
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	change := Diff(m.state, next)
	if change.IsEmpty() {
		m.mu.Unlock()
		return
	}
	m.state = next
	var fns []func(Partial)
	for _, id := range m.order {
		if fn, ok := m.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}

func readStateFile(path string) (State, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return State{}, nil
	}
	if err != nil {
		return State{}, err
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, err
	}
	return s, nil
}
