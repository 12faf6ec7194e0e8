// Package selector holds the active dataset choice.
package selector

import (
	"sync"

	"barstack/domain/core"
	"barstack/domain/dataset"
	internaldataset "barstack/internal/dataset"
)

// Selector tracks which registry key is active. Set is its only writer; reads may run
// concurrently from request handlers.
type Selector struct {
	mu       sync.RWMutex
	registry *internaldataset.Registry
	key      string
}

// New starts on the registry's first key.
func New(registry *internaldataset.Registry) *Selector {
	return &Selector{registry: registry, key: registry.First()}
}

// Set activates key. An unknown key leaves the current selection in place.
func (s *Selector) Set(key string) error {
	if _, err := s.registry.Get(key); err != nil {
		return err
	}
	s.mu.Lock()
	s.key = key
	s.mu.Unlock()
	return nil
}

// Key returns the active key.
func (s *Selector) Key() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

// Current returns the active entry.
func (s *Selector) Current() (dataset.Entry, error) {
	key := s.Key()
	if key == "" {
		return dataset.Entry{}, &core.UnknownDatasetError{Key: key}
	}
	return s.registry.Get(key)
}

// Lookup returns any entry without changing the selection.
func (s *Selector) Lookup(key string) (dataset.Entry, error) {
	return s.registry.Get(key)
}

// Resolve returns the entry for key, or the active entry when key is empty.
func (s *Selector) Resolve(key string) (string, dataset.Entry, error) {
	if key == "" {
		key = s.Key()
	}
	entry, err := s.registry.Get(key)
	return key, entry, err
}

// Keys lists the dropdown options in registry order.
func (s *Selector) Keys() []string { return s.registry.Keys() }
