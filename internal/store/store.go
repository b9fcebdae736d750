// Package store persists the floating size of windows by class, so a window
// that closes floating reopens at the same size.
package store

import (
	"context"
	"sync"

	"github.com/Gaurav-Gosain/tessera/internal/config"
	tserrors "github.com/Gaurav-Gosain/tessera/internal/errors"
	"github.com/Gaurav-Gosain/tessera/internal/geom"
)

// Store remembers floating sizes.
type Store interface {
	// LoadFloatingSize returns the size saved for class. ok is false when
	// nothing was saved.
	LoadFloatingSize(ctx context.Context, class string) (size geom.Vector2D, ok bool, err error)
	SaveFloatingSize(ctx context.Context, class string, size geom.Vector2D) error
	Close() error
}

// Open builds the store selected by cfg.
func Open(cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		path := cfg.Path
		if path == "" {
			p, err := config.DefaultStorePath()
			if err != nil {
				return nil, tserrors.Wrap(tserrors.ErrCodeStore, err, "resolve store path")
			}
			path = p
		}
		db, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
	return nil, tserrors.New(tserrors.ErrCodeStore, "unknown store driver %q", cfg.Driver)
}

// Memory is a Store that forgets everything on exit.
type Memory struct {
	mu    sync.RWMutex
	sizes map[string]geom.Vector2D
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{sizes: make(map[string]geom.Vector2D)}
}

func (m *Memory) LoadFloatingSize(_ context.Context, class string) (geom.Vector2D, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	size, ok := m.sizes[class]
	return size, ok, nil
}

func (m *Memory) SaveFloatingSize(_ context.Context, class string, size geom.Vector2D) error {
	if class == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sizes[class] = size
	return nil
}

func (m *Memory) Close() error { return nil }
