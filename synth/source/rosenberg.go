package source

import "math"

// Rosenberg is the classic two-phase Rosenberg glottal flow model: a raised
// cosine opening followed by a quarter-cosine closure and a closed phase.
type Rosenberg struct{}

// NewRosenberg returns the built-in "rosenberg" excitation source.
func NewRosenberg() *Rosenberg {
	return &Rosenberg{}
}

// Name implements Source.
func (*Rosenberg) Name() string { return "rosenberg" }

// Params implements Source.
//
// openQuotient is the open fraction of the cycle; speedQuotient is the ratio
// of opening time to closing time.
func (*Rosenberg) Params() []Param {
	return []Param{
		{Name: "openQuotient", Default: 0.6},
		{Name: "speedQuotient", Default: 2},
	}
}

// PeriodicBuffer implements Source.
func (r *Rosenberg) PeriodicBuffer(sampleRate, frequency float64, overrides map[string]float64) []float64 {
	params := Defaults(r, overrides)
	oq := params["openQuotient"]
	sq := params["speedQuotient"]
	if sq <= 0 {
		sq = 1
	}

	// Split the open phase so opening:closing = speedQuotient.
	opening := oq * sq / (sq + 1)
	closing := oq - opening

	n := cycleLength(sampleRate, frequency)
	out := make([]float64, n)
	for i := range out {
		p := float64(i) / float64(n)
		switch {
		case opening > 0 && p < opening:
			out[i] = 0.5 * (1 - math.Cos(math.Pi*p/opening))
		case closing > 0 && p < oq:
			out[i] = math.Cos(math.Pi * (p - opening) / (2 * closing))
		default:
			out[i] = 0
		}
	}

	finishCycle(out)

	return out
}

// NoiseBuffer implements Source.
func (*Rosenberg) NoiseBuffer(periodic []float64) []float64 {
	return correlatedNoise(periodic)
}
