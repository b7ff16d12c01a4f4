package preset

import (
	"errors"
	"fmt"
)

var errDuplicatePreset = errors.New("duplicate preset id")

// Registry is an in-memory preset store keyed by id.
type Registry struct {
	presets map[string]Preset
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{presets: make(map[string]Preset)}
}

// DefaultRegistry returns a registry with the built-in vowel presets.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range builtins {
		if err := r.Add(p); err != nil {
			panic("preset registry: " + err.Error())
		}
	}

	return r
}

// Add stores a preset under its id.
func (r *Registry) Add(p Preset) error {
	if p.ID == "" {
		return errors.New("empty preset id")
	}

	if _, exists := r.presets[p.ID]; exists {
		return fmt.Errorf("%w: %s", errDuplicatePreset, p.ID)
	}

	r.presets[p.ID] = p

	return nil
}

// Lookup returns the preset stored under id.
func (r *Registry) Lookup(id string) (Preset, bool) {
	p, ok := r.presets[id]
	return p, ok
}

// IDs returns the stored preset ids in unspecified order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.presets))
	for id := range r.presets {
		ids = append(ids, id)
	}

	return ids
}
