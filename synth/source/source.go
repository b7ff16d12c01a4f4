package source

import "math"

// Param describes one named numeric parameter of an excitation source.
type Param struct {
	Name    string
	Default float64
}

// Source models a periodic vocal-fold excitation generator.
//
// Implementations must be deterministic: identical inputs produce identical
// buffers. PeriodicBuffer returns exactly one cycle that is phase-continuous
// at the loop boundary, so the graph can loop it seamlessly. NoiseBuffer
// derives aspiration noise of the same length whose amplitude envelope tracks
// the tonal buffer's voicing strength.
//
// Sources hold no per-voice state and may be shared read-only across engines.
type Source interface {
	Name() string
	Params() []Param
	PeriodicBuffer(sampleRate, frequency float64, overrides map[string]float64) []float64
	NoiseBuffer(periodic []float64) []float64
}

// HasParam reports whether the source declares a parameter with the given name.
func HasParam(s Source, name string) bool {
	for _, p := range s.Params() {
		if p.Name == name {
			return true
		}
	}

	return false
}

// Defaults returns the source's parameter defaults merged with overrides.
// Unknown override keys are ignored here; the engine validates them upfront.
func Defaults(s Source, overrides map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(s.Params()))
	for _, p := range s.Params() {
		out[p.Name] = p.Default
	}

	for k, v := range overrides {
		if _, ok := out[k]; ok {
			out[k] = v
		}
	}

	return out
}

// cycleLength returns the sample count of one period, minimum 2.
// The realized fundamental is sampleRate/cycleLength, which is why pitch
// comparisons elsewhere derive frequency from the loop length instead of
// trusting the requested value.
func cycleLength(sampleRate, frequency float64) int {
	if sampleRate <= 0 || frequency <= 0 {
		return 2
	}

	n := int(math.Round(sampleRate / frequency))
	if n < 2 {
		n = 2
	}

	return n
}
