package voice

import "errors"

// ErrPresetNotFound is returned by LoadPreset for an empty or unknown id.
var ErrPresetNotFound = errors.New("preset not found")

// ErrInvalidParameter is returned by SetSource when a parameter key is not
// recognized by the selected excitation source. State is never mutated when
// this error is returned.
var ErrInvalidParameter = errors.New("invalid source parameter")
