package preset

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// file is the on-disk YAML layout: a document holding a list of presets.
type file struct {
	Presets []Preset `yaml:"presets"`
}

// Load reads the YAML preset file at path.
func Load(path string) ([]Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("preset: open %q: %w", path, err)
	}
	defer f.Close()

	presets, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("preset: parse %q: %w", path, err)
	}

	return presets, nil
}

// LoadFromReader decodes a YAML preset list from r. Unknown fields are
// rejected so typos in hand-written preset files surface immediately.
func LoadFromReader(r io.Reader) ([]Preset, error) {
	var doc file

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("preset: decode yaml: %w", err)
	}

	return doc.Presets, nil
}

// LoadInto loads the YAML preset file at path and adds every preset to r.
func LoadInto(r *Registry, path string) error {
	presets, err := Load(path)
	if err != nil {
		return err
	}

	for _, p := range presets {
		if err := r.Add(p); err != nil {
			return err
		}
	}

	return nil
}
