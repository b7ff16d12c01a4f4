package source

import (
	"math"
	"math/rand"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-voice/synth/core"
)

// noiseSeed keeps aspiration noise deterministic across calls and engines.
const noiseSeed = 1

// correlatedNoise derives aspiration noise from a tonal cycle: deterministic
// white noise shaped by the cycle's analytic amplitude envelope, so breathiness
// tracks voicing strength within the period.
func correlatedNoise(periodic []float64) []float64 {
	if len(periodic) == 0 {
		return nil
	}

	env := analyticEnvelope(periodic)

	rng := rand.New(rand.NewSource(noiseSeed))
	out := make([]float64, len(periodic))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * env[i]
	}

	return out
}

// analyticEnvelope computes |analytic(x)| via an FFT Hilbert transform,
// zero-padded to a power of two. Falls back to |x| if no plan can be built.
func analyticEnvelope(x []float64) []float64 {
	n := len(x)
	fftSize := core.NextPowerOf2(n)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		out := make([]float64, n)
		for i, v := range x {
			out[i] = math.Abs(v)
		}

		return out
	}

	in := make([]complex128, fftSize)
	for i, v := range x {
		in[i] = complex(v, 0)
	}

	freq := make([]complex128, fftSize)
	if err := plan.Forward(freq, in); err != nil {
		out := make([]float64, n)
		for i, v := range x {
			out[i] = math.Abs(v)
		}

		return out
	}

	// Analytic signal: keep DC and Nyquist, double positive bins, zero the rest.
	for i := 1; i < fftSize/2; i++ {
		freq[i] *= 2
	}
	for i := fftSize/2 + 1; i < fftSize; i++ {
		freq[i] = 0
	}

	analytic := make([]complex128, fftSize)
	if err := plan.Inverse(analytic, freq); err != nil {
		out := make([]float64, n)
		for i, v := range x {
			out[i] = math.Abs(v)
		}

		return out
	}

	re := make([]float64, n)
	im := make([]float64, n)
	for i := 0; i < n; i++ {
		re[i] = real(analytic[i])
		im[i] = imag(analytic[i])
	}

	env := make([]float64, n)
	vecmath.Magnitude(env, re, im)

	return env
}
