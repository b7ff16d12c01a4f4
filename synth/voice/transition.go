package voice

import (
	"github.com/cwbudde/algo-voice/synth/core"
	"github.com/cwbudde/algo-voice/synth/graph"
)

// startLocked runs the source/pitch transition and fades the master
// amplifier toward the stored volume. Callers hold e.mu.
func (e *Engine) startLocked() {
	e.transitionLocked()

	now := e.graph.Now()
	e.graph.MasterGain().LinearRampTo(e.state.Volume, now, now+fadeInDuration)

	e.state.Playing = true
	e.phase = Playing
}

// transitionLocked swaps in a freshly generated excitation pair for the
// current frequency/source/params. If a pair is already live it keeps
// sounding for the stop lead while both pairs glide across the pitch gap,
// so the swap is covered by a smooth slide instead of a jump.
//
// Ordering inside the call is load-bearing: the cleanup handler is attached
// and the new pair is connected before any ramp is scheduled, so a ramp is
// never issued against a disconnected node and a superseded pair can never
// leak.
func (e *Engine) transitionLocked() {
	src, err := e.sources.Lookup(e.state.SourceName)
	if err != nil {
		// Name was validated when written; an unresolvable source here means
		// the registry changed underneath us. Keep the old pair sounding.
		return
	}

	sampleRate := e.cfg.SampleRate
	now := e.graph.Now()

	periodic := src.PeriodicBuffer(sampleRate, e.state.Frequency, e.state.SourceParams)
	aspiration := src.NoiseBuffer(periodic)

	pair := &voicePair{
		tonal: graph.NewBufferSource(periodic),
		noise: graph.NewBufferSource(aspiration),
	}

	pair.tonal.OnEnded(e.cleanupFunc(pair))

	prev := e.current

	// A pair already retiring from an earlier transition is cut off and
	// disconnected right away; only the immediately superseded pair gets the
	// glide treatment. This caps the connected pair count at two no matter
	// how quickly transitions are issued.
	if old := e.retiring; old != nil {
		e.stopPairLocked(old, now)
		e.graph.DisconnectPair(old.tonal, old.noise)
		e.retiring = nil
	}

	e.graph.ConnectPair(pair.tonal, pair.noise)

	if prev != nil {
		e.schedulePitchGlideLocked(prev, pair, now)
		e.retiring = prev
	}

	pair.tonal.Start(now)
	pair.noise.Start(now)
	e.current = pair
}

// schedulePitchGlideLocked retires prev at now+stopLead and ramps the
// fine-tune of both pairs across the musical gap over half the stop lead:
// the retiring pair bends up/down toward the new pitch while the incoming
// pair starts offset by the same interval and settles to zero.
func (e *Engine) schedulePitchGlideLocked(prev, next *voicePair, now float64) {
	sampleRate := e.cfg.SampleRate
	oldFreq := prev.tonal.LoopFrequency(sampleRate)
	newFreq := next.tonal.LoopFrequency(sampleRate)

	cents := 0.0
	if oldFreq > 0 {
		cents = core.RatioCents(newFreq / oldFreq)
	}

	stopAt := now + stopLead
	glideEnd := now + stopLead/2

	prev.tonal.StopAt(stopAt)
	prev.noise.StopAt(stopAt)

	prev.tonal.Detune().LinearRampTo(cents, now, glideEnd)
	prev.noise.Detune().LinearRampTo(cents, now, glideEnd)

	next.tonal.Detune().SetValueAtTime(-cents, now)
	next.tonal.Detune().LinearRampTo(0, now, glideEnd)
	next.noise.Detune().SetValueAtTime(-cents, now)
	next.noise.Detune().LinearRampTo(0, now, glideEnd)
}

// stopPairLocked schedules both nodes of a pair to end at stopAt.
func (e *Engine) stopPairLocked(pair *voicePair, stopAt float64) {
	if pair == nil {
		return
	}

	pair.tonal.StopAt(stopAt)
	pair.noise.StopAt(stopAt)
}

// cleanupFunc returns the once-only completion handler that disconnects a
// pair's nodes after their scheduled stop elapsed on the render clock. It
// runs on the render path under the engine lock, so it touches engine state
// directly.
func (e *Engine) cleanupFunc(pair *voicePair) func() {
	return func() {
		e.graph.DisconnectPair(pair.tonal, pair.noise)

		if e.retiring == pair {
			e.retiring = nil
		}

		if e.current == pair {
			e.current = nil
		}
	}
}

// rampFormantsLocked ramps resonator frequency, Q and linear gain of the
// given bands toward the stored targets over the formant ramp window.
// Untouched bands are left alone.
func (e *Engine) rampFormantsLocked(indices []int) {
	now := e.graph.Now()
	end := now + formantRampTime

	for _, i := range indices {
		band := e.graph.Band(i)
		if band == nil {
			continue
		}

		target := e.state.Formants[i]
		band.Frequency().LinearRampTo(target.Frequency, now, end)
		band.Quality().LinearRampTo(target.Q(), now, end)
		band.Gain().LinearRampTo(core.DBToLinear(target.GainDB), now, end)
	}
}

// applyFormantTargets sets band params as immediate steps at time t, used
// during construction before the clock has started.
func (e *Engine) applyFormantTargets(indices []int, t float64) {
	for _, i := range indices {
		band := e.graph.Band(i)
		if band == nil {
			continue
		}

		target := e.state.Formants[i]
		band.Frequency().SetValueAtTime(target.Frequency, t)
		band.Quality().SetValueAtTime(target.Q(), t)
		band.Gain().SetValueAtTime(core.DBToLinear(target.GainDB), t)
	}
}
