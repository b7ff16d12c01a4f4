package source

import (
	"errors"
	"fmt"
)

// ErrUnknownSource is returned when a lookup references an unregistered source.
var ErrUnknownSource = errors.New("unknown excitation source")

var errDuplicateSource = errors.New("duplicate excitation source")

// Registry maps excitation source names to shared Source instances.
type Registry struct {
	sources map[string]Source
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

// DefaultRegistry returns a registry with all built-in sources registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(NewGlottalPulse())
	r.MustRegister(NewRosenberg())
	r.MustRegister(NewSine())

	return r
}

// Register adds a source under its own name.
func (r *Registry) Register(s Source) error {
	if s == nil {
		return errors.New("nil source")
	}

	name := s.Name()
	if name == "" {
		return errors.New("empty source name")
	}

	if _, exists := r.sources[name]; exists {
		return fmt.Errorf("%w: %s", errDuplicateSource, name)
	}

	r.sources[name] = s

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(s Source) {
	err := r.Register(s)
	if err != nil {
		panic("source registry: " + err.Error())
	}
}

// Lookup returns the source registered under name.
func (r *Registry) Lookup(name string) (Source, error) {
	s, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, name)
	}

	return s, nil
}

// Names returns the registered source names in unspecified order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}

	return names
}
