package source

import "math"

// Sine is a parameterless pure-tone source, mainly useful as a neutral
// excitation for tests and for auditioning the resonator bank.
type Sine struct{}

// NewSine returns the built-in "sine" excitation source.
func NewSine() *Sine {
	return &Sine{}
}

// Name implements Source.
func (*Sine) Name() string { return "sine" }

// Params implements Source.
func (*Sine) Params() []Param { return nil }

// PeriodicBuffer implements Source.
func (*Sine) PeriodicBuffer(sampleRate, frequency float64, _ map[string]float64) []float64 {
	n := cycleLength(sampleRate, frequency)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * float64(i) / float64(n))
	}

	return out
}

// NoiseBuffer implements Source.
func (*Sine) NoiseBuffer(periodic []float64) []float64 {
	return correlatedNoise(periodic)
}
