package graph

import (
	"math"

	"github.com/cwbudde/algo-voice/synth/core"
)

// BufferSource loops a single-cycle buffer with linear table interpolation.
// Its detune parameter (cents) bends the playback rate, which is how the
// transition controller glides a retiring pair toward the incoming pitch.
//
// A source is silent before Start and after its scheduled stop time. Once the
// render clock passes the stop time, the OnEnded handler fires exactly once so
// the owner can disconnect the node.
type BufferSource struct {
	buffer []float64
	pos    float64

	detune *Param

	started   bool
	startTime float64
	stopTime  float64
	ended     bool

	onEnded func()
}

// NewBufferSource wraps one loopable cycle. The buffer is not copied.
func NewBufferSource(buf []float64) *BufferSource {
	return &BufferSource{
		buffer:   buf,
		detune:   NewParam(0),
		stopTime: math.Inf(1),
	}
}

// Detune returns the fine-tune parameter in cents.
func (s *BufferSource) Detune() *Param {
	return s.detune
}

// LoopFrequency returns the fundamental realized by looping the buffer at
// the given sample rate. This, not the requested pitch, is the authoritative
// frequency of the node.
func (s *BufferSource) LoopFrequency(sampleRate float64) float64 {
	if len(s.buffer) == 0 {
		return 0
	}

	return sampleRate / float64(len(s.buffer))
}

// Start schedules playback from time t.
func (s *BufferSource) Start(t float64) {
	if s.started {
		return
	}

	s.started = true
	s.startTime = t
}

// StopAt schedules the end of playback at time t.
func (s *BufferSource) StopAt(t float64) {
	if t < s.stopTime {
		s.stopTime = t
	}
}

// OnEnded registers a handler invoked once when the render clock passes the
// scheduled stop time.
func (s *BufferSource) OnEnded(fn func()) {
	s.onEnded = fn
}

// Ended reports whether the source has passed its stop time.
func (s *BufferSource) Ended() bool {
	return s.ended
}

// renderAdd mixes the source into dst for a block starting at t0.
func (s *BufferSource) renderAdd(dst []float64, t0, dt float64) {
	if !s.started || s.ended || len(s.buffer) == 0 {
		return
	}

	n := float64(len(s.buffer))
	for i := range dst {
		t := t0 + float64(i)*dt
		if t < s.startTime || t >= s.stopTime {
			continue
		}

		rate := core.CentsRatio(s.detune.ValueAt(t))

		lower := int(s.pos)
		upper := lower + 1
		if upper >= len(s.buffer) {
			upper = 0
		}

		frac := s.pos - float64(lower)
		dst[i] += s.buffer[lower] + frac*(s.buffer[upper]-s.buffer[lower])

		s.pos += rate
		for s.pos >= n {
			s.pos -= n
		}
	}
}

// finishIfStopped marks the source ended when the clock has passed its stop
// time and returns its handler to run, or nil.
func (s *BufferSource) finishIfStopped(now float64) func() {
	if s.ended || now < s.stopTime {
		return nil
	}

	s.ended = true

	return s.onEnded
}
