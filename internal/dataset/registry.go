package dataset

import (
	"fmt"

	"barstack/domain/core"
	"barstack/domain/dataset"
)

// Registry is the ordered, load-once set of parsed datasets keyed by label.
// It is never mutated after BuildRegistry or Loader.Load returns.
type Registry struct {
	keys    []string
	entries map[string]dataset.Entry
}

func newRegistry() *Registry {
	return &Registry{entries: make(map[string]dataset.Entry)}
}

func (r *Registry) register(entry dataset.Entry) error {
	key := entry.Metadata.Label
	if key == "" {
		return fmt.Errorf("dataset label is required")
	}
	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("duplicate dataset %q", key)
	}
	r.keys = append(r.keys, key)
	r.entries[key] = entry
	return nil
}

// BuildRegistry registers entries in the given order.
func BuildRegistry(entries ...dataset.Entry) (*Registry, error) {
	r := newRegistry()
	for _, e := range entries {
		if err := r.register(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Keys returns dataset labels in manifest order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Get looks up one dataset.
func (r *Registry) Get(key string) (dataset.Entry, error) {
	e, ok := r.entries[key]
	if !ok {
		return dataset.Entry{}, &core.UnknownDatasetError{Key: key}
	}
	return e, nil
}

// Len returns the number of datasets.
func (r *Registry) Len() int { return len(r.keys) }

// First returns the first key, or "" when empty.
func (r *Registry) First() string {
	if len(r.keys) == 0 {
		return ""
	}
	return r.keys[0]
}
