package graph

import (
	"github.com/cwbudde/algo-voice/synth/core"
	"github.com/cwbudde/algo-voice/synth/filter"
)

// Resonator is one formant band of the bank: a bandpass section whose center
// frequency and Q follow automation params, feeding a per-band gain.
//
// The gain param is linear amplitude; dB conversion is the caller's concern.
type Resonator struct {
	freq *Param
	q    *Param
	gain *Param

	section *filter.Section
}

func newResonator(freqHz, q, gain, sampleRate float64) *Resonator {
	return &Resonator{
		freq:    NewParam(freqHz),
		q:       NewParam(q),
		gain:    NewParam(gain),
		section: filter.NewSection(filter.Bandpass(freqHz, q, sampleRate)),
	}
}

// Frequency returns the center-frequency param (Hz).
func (r *Resonator) Frequency() *Param { return r.freq }

// Quality returns the quality-factor param.
func (r *Resonator) Quality() *Param { return r.q }

// Gain returns the linear band-gain param.
func (r *Resonator) Gain() *Param { return r.gain }

// updateCoefficients redesigns the bandpass from the param values at t.
// Out-of-range values yield zero coefficients, i.e. the band goes silent;
// that boundary behavior is intentional and left to the caller to avoid.
func (r *Resonator) updateCoefficients(t, sampleRate float64) {
	c := filter.Bandpass(r.freq.ValueAt(t), r.q.ValueAt(t), sampleRate)
	r.section.SetCoefficients(c)
}

// ResponseDB returns the band's magnitude response in dB at freqHz, including
// the band gain evaluated at time t.
func (r *Resonator) ResponseDB(freqHz, t, sampleRate float64) float64 {
	c := filter.Bandpass(r.freq.ValueAt(t), r.q.ValueAt(t), sampleRate)
	db := c.MagnitudeDB(freqHz, sampleRate)

	g := r.gain.ValueAt(t)
	if g <= 0 {
		return db - 120
	}

	return db + core.LinearToDB(g)
}
