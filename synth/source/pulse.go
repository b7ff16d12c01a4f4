package source

// GlottalPulse is a wavetable-style glottal pulse: a smoothstep rise, a
// parabolic fall and a closed phase, after the gnuspeech waveshape.
type GlottalPulse struct{}

// NewGlottalPulse returns the built-in "pulse" excitation source.
func NewGlottalPulse() *GlottalPulse {
	return &GlottalPulse{}
}

// Name implements Source.
func (*GlottalPulse) Name() string { return "pulse" }

// Params implements Source.
//
// openQuotient is the open fraction of the cycle; riseRatio is the rising
// fraction of the open phase.
func (*GlottalPulse) Params() []Param {
	return []Param{
		{Name: "openQuotient", Default: 0.6},
		{Name: "riseRatio", Default: 0.5},
	}
}

// PeriodicBuffer implements Source.
func (g *GlottalPulse) PeriodicBuffer(sampleRate, frequency float64, overrides map[string]float64) []float64 {
	params := Defaults(g, overrides)
	oq := params["openQuotient"]
	rr := params["riseRatio"]

	n := cycleLength(sampleRate, frequency)
	riseEnd := oq * rr
	fallEnd := oq

	out := make([]float64, n)
	for i := range out {
		p := float64(i) / float64(n)
		switch {
		case riseEnd > 0 && p < riseEnd:
			x := p / riseEnd
			out[i] = (3 - 2*x) * x * x
		case fallEnd > riseEnd && p < fallEnd:
			x := (p - riseEnd) / (fallEnd - riseEnd)
			out[i] = 1 - x*x
		default:
			out[i] = 0
		}
	}

	finishCycle(out)

	return out
}

// NoiseBuffer implements Source.
func (*GlottalPulse) NoiseBuffer(periodic []float64) []float64 {
	return correlatedNoise(periodic)
}
