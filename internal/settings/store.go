package settings

import "sync"

// Store holds the current grid settings for the web panel and persists
// changes back to the settings file. Readers get value snapshots; a worker
// started from one snapshot never observes later edits.
type Store struct {
	mu   sync.RWMutex
	path string
	grid Grid
}

// NewStore loads the settings from path (best-effort, falling back to
// defaults) and returns a store persisting to the same path.
func NewStore(path string) *Store {
	return &Store{path: path, grid: Load(path)}
}

// Get returns a snapshot of the current settings.
func (s *Store) Get() Grid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grid
}

// Set validates, applies and persists new settings. On any error the stored
// settings stay unchanged.
func (s *Store) Set(g Grid) error {
	if err := g.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := g.Save(s.path); err != nil {
		return err
	}
	s.grid = g
	return nil
}

// Reset restores and persists the built-in defaults.
func (s *Store) Reset() (Grid, error) {
	g := Default()
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := g.Save(s.path); err != nil {
		return Grid{}, err
	}
	s.grid = g
	return g, nil
}
