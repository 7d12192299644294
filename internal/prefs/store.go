// Package prefs persists user theme preferences in a key-value store.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/marcus/stillwater/internal/a11y"
)

// Keys used by the theme engine. Each is read and written independently.
const (
	KeyMode                   = "theme.mode"
	KeyFontScale              = "theme.fontScale"
	KeyFontSizeCategory       = "theme.fontSizeCategory"
	KeyAccessibilityOverrides = "theme.accessibilityOverrides"
)

// Store is a string key-value store. Calls may block on I/O; callers that
// must not block run them on their own goroutine.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned by Open for unsupported backends.
var ErrUnknownBackend = errors.New("unknown preference store backend")

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns a Store for the named backend. The Closer releases any
// resources the store holds and is never nil on success.
func Open(backend, path string) (Store, io.Closer, error) {
	switch strings.ToLower(backend) {
	case BackendMemory:
		return NewMemoryStore(), nopCloser{}, nil
	case BackendFile, "":
		return NewFileStore(path), nopCloser{}, nil
	case BackendSQLite:
		s, err := OpenSQLiteStore(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

// EncodeOverrides serialises the present fields of p as JSON.
func EncodeOverrides(p a11y.Partial) string {
	data, err := json.Marshal(p)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// DecodeOverrides parses a value written by EncodeOverrides. An empty
// string decodes to an empty Partial.
func DecodeOverrides(s string) (a11y.Partial, error) {
	var p a11y.Partial
	if strings.TrimSpace(s) == "" {
		return p, nil
	}
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return a11y.Partial{}, fmt.Errorf("decode accessibility overrides: %w", err)
	}
	return p, nil
}
