// Package preset defines voice presets (fundamental frequency, excitation
// source selection and formant tables), an in-memory registry and a YAML
// loader. The voice engine itself only ever consumes in-memory [Preset]
// values; persistence stays at this boundary.
package preset
