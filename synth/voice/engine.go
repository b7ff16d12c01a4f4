package voice

import (
	"fmt"
	"sync"
	"time"

	"github.com/cwbudde/algo-voice/synth/core"
	"github.com/cwbudde/algo-voice/synth/graph"
	"github.com/cwbudde/algo-voice/synth/preset"
	"github.com/cwbudde/algo-voice/synth/source"
)

const (
	// DefaultFormantCount is the band count used unless overridden.
	DefaultFormantCount = 5

	// stopLead is the grace window a retiring pair keeps sounding while the
	// incoming pair takes over; the pitch glide covers the first half of it.
	stopLead = 0.1

	fadeInDuration  = 0.05
	fadeOutDuration = 0.1
	formantRampTime = 0.005
	volumeRampTime  = 0.01

	// settleDelay is the fire-and-forget notification interval for optional
	// completion callbacks. It is a fixed delay, not a ramp-completion
	// barrier; callers must not assume the audio has settled when it fires.
	settleDelay = 10 * time.Millisecond

	defaultSourceGain    = 0.4
	defaultPreFilterGain = 1.0

	defaultFrequency  = 130.81
	defaultSourceName = "pulse"
	defaultVolume     = 0.8
)

// Engine is one synthesized voice: it owns its signal graph and render clock,
// holds the voice state and mediates every mutation through click-free
// transitions. No process-wide audio state exists; independent engines are
// fully isolated.
//
// All public operations are non-blocking: they validate, mutate state and
// schedule value-at-time events, leaving the sample-accurate application to
// the render clock. The host audio callback drives the clock via Render.
type Engine struct {
	mu sync.Mutex

	cfg     core.EngineConfig
	sources *source.Registry
	presets *preset.Registry
	graph   *graph.Graph

	state State
	phase Phase

	// stopDeadline is the clock time at which a scheduled stop completes and
	// the phase falls back to Idle.
	stopDeadline float64

	current  *voicePair
	retiring *voicePair
}

// voicePair is one live (tonal, noise) excitation node pair.
type voicePair struct {
	tonal *graph.BufferSource
	noise *graph.BufferSource
}

// Option configures engine construction.
type Option func(*engineSettings)

type engineSettings struct {
	formantCount int
	sourceName   string
}

// WithFormantCount fixes the resonator band count for the engine's lifetime.
// Changing the count requires constructing a new engine (full graph rebuild).
func WithFormantCount(n int) Option {
	return func(s *engineSettings) {
		if n > 0 {
			s.formantCount = n
		}
	}
}

// WithInitialSource selects the excitation source active after construction.
func WithInitialSource(name string) Option {
	return func(s *engineSettings) {
		if name != "" {
			s.sourceName = name
		}
	}
}

// New creates an idle voice engine wired to the given source and preset
// registries.
func New(sources *source.Registry, presets *preset.Registry, coreOpts []core.EngineOption, opts ...Option) (*Engine, error) {
	if sources == nil {
		return nil, fmt.Errorf("voice: nil source registry")
	}

	if presets == nil {
		presets = preset.NewRegistry()
	}

	settings := engineSettings{
		formantCount: DefaultFormantCount,
		sourceName:   defaultSourceName,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}

	if _, err := sources.Lookup(settings.sourceName); err != nil {
		return nil, fmt.Errorf("voice: initial source: %w", err)
	}

	cfg := core.ApplyEngineOptions(coreOpts...)

	e := &Engine{
		cfg:     cfg,
		sources: sources,
		presets: presets,
		graph:   graph.New(cfg, settings.formantCount),
		state: State{
			Frequency:    defaultFrequency,
			SourceName:   settings.sourceName,
			SourceParams: map[string]float64{},
			Formants:     make([]FormantBand, settings.formantCount),
			Volume:       defaultVolume,
		},
		phase: Idle,
	}

	e.graph.SourceGain().SetValueAtTime(defaultSourceGain, 0)
	e.graph.PreFilterGain().SetValueAtTime(defaultPreFilterGain, 0)
	e.applyFormantTargets(allBandIndices(settings.formantCount), 0)

	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() core.EngineConfig {
	return e.cfg
}

// State returns a copy of the current voice state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.snapshotLocked()
}

// Phase returns the engine lifecycle phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.phase
}

// Now returns the render clock position in seconds.
func (e *Engine) Now() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.graph.Now()
}

// LiveSourceCount returns the number of excitation/noise nodes currently
// connected to the conditioning stages. It never exceeds four: one current
// pair plus at most one retiring pair.
func (e *Engine) LiveSourceCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.graph.LiveSourceCount()
}

// Render produces the next block of output samples and advances the render
// clock. It is the only operation meant for the audio thread; everything
// else belongs to the control thread.
func (e *Engine) Render(dst []float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.graph.Render(dst)

	if e.phase == Stopping && e.graph.Now() >= e.stopDeadline {
		e.phase = Idle
	}
}

// Start begins (or re-triggers) playback. From Idle it swaps in a fresh
// excitation pair and fades the master amplifier from silence to the stored
// volume; while already Playing it re-runs the source transition, which is
// how the setters restart the voice without an audible gap.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.startLocked()
}

// Stop fades the voice to silence and schedules the live pairs to end. It is
// a no-op when already Idle.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase == Idle {
		return
	}

	now := e.graph.Now()
	stopAt := now + fadeOutDuration

	e.graph.MasterGain().LinearRampTo(0, now, stopAt)
	e.stopPairLocked(e.current, stopAt)
	e.stopPairLocked(e.retiring, stopAt)

	e.state.Playing = false
	e.phase = Stopping
	e.stopDeadline = stopAt
}

// SetVolume stores the master volume. While Playing it ramps the amplifier
// immediately; while Idle the value simply applies at the next Start.
func (e *Engine) SetVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Volume = v

	if e.state.Playing {
		now := e.graph.Now()
		e.graph.MasterGain().LinearRampTo(v, now, now+volumeRampTime)
	}
}

// SetSource applies a partial excitation update. Parameter keys are
// validated against the selected source before any state is written;
// an unrecognized key fails with ErrInvalidParameter and leaves the voice
// untouched. While Playing, any change triggers a full restart.
func (e *Engine) SetSource(update SourceUpdate) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	name := update.Name
	if name == "" {
		name = e.state.SourceName
	}

	src, err := e.sources.Lookup(name)
	if err != nil {
		return err
	}

	for key := range update.Params {
		if !source.HasParam(src, key) {
			return fmt.Errorf("%w: %q not a parameter of source %q", ErrInvalidParameter, key, name)
		}
	}

	if update.Frequency != 0 {
		e.state.Frequency = update.Frequency
	}

	if update.Name != "" && update.Name != e.state.SourceName {
		e.state.SourceName = update.Name
		e.state.SourceParams = map[string]float64{}
	}

	for key, value := range update.Params {
		e.state.SourceParams[key] = value
	}

	if e.state.Playing {
		e.startLocked()
	}

	return nil
}

// SetFormants applies a sequence of partial band edits, then ramps exactly
// the touched bands toward their new targets. Bands outside the valid range
// are ignored. The optional callback fires after the settle delay.
func (e *Engine) SetFormants(edits []FormantEdit, callback func()) {
	e.mu.Lock()

	touched := make([]int, 0, len(edits))
	for _, edit := range edits {
		if edit.Index < 0 || edit.Index >= len(e.state.Formants) {
			continue
		}

		band := &e.state.Formants[edit.Index]
		if edit.Frequency != nil {
			band.Frequency = *edit.Frequency
		}

		if edit.Bandwidth != nil {
			band.Bandwidth = *edit.Bandwidth
		}

		if edit.GainDB != nil {
			band.GainDB = *edit.GainDB
		}

		touched = append(touched, edit.Index)
	}

	e.rampFormantsLocked(touched)
	e.mu.Unlock()

	notifyAfterSettle(callback)
}

// ToggleFilters switches between the resonator bank and the bypass path.
// Stored formant values survive bypass; re-enabling filtering ramps every
// band back to its last configured target.
func (e *Engine) ToggleFilters(filtered bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.FilterBypass = !filtered
	e.graph.SetBypass(!filtered)
	e.rampFormantsLocked(allBandIndices(len(e.state.Formants)))
}

// LoadPreset atomically replaces frequency, excitation source (with its full
// parameter set) and all formant bands from the stored preset, resets the
// gain-stage constants to their defaults and ramps every band. While
// Playing this performs a full restart. The optional callback receives the
// preset after the settle delay.
func (e *Engine) LoadPreset(id string, callback func(preset.Preset)) error {
	e.mu.Lock()

	if id == "" {
		e.mu.Unlock()
		return fmt.Errorf("%w: empty id", ErrPresetNotFound)
	}

	p, ok := e.presets.Lookup(id)
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrPresetNotFound, id)
	}

	e.state.Frequency = p.Frequency
	e.state.SourceName = p.Source.Name
	e.state.SourceParams = make(map[string]float64, len(p.Source.Params))
	for k, v := range p.Source.Params {
		e.state.SourceParams[k] = v
	}

	for i := range e.state.Formants {
		freq, bw, gain := p.Band(i)
		e.state.Formants[i] = FormantBand{Frequency: freq, Bandwidth: bw, GainDB: gain}
	}

	now := e.graph.Now()
	e.graph.SourceGain().SetValueAtTime(defaultSourceGain, now)
	e.graph.PreFilterGain().SetValueAtTime(defaultPreFilterGain, now)
	e.rampFormantsLocked(allBandIndices(len(e.state.Formants)))

	if e.state.Playing {
		e.startLocked()
	}

	e.mu.Unlock()

	if callback != nil {
		time.AfterFunc(settleDelay, func() { callback(p) })
	}

	return nil
}

// BandResponseDB returns the magnitude response in dB of band i at freqHz,
// evaluated at the current clock position. Returns -120 for an invalid band.
func (e *Engine) BandResponseDB(i int, freqHz float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	band := e.graph.Band(i)
	if band == nil {
		return -120
	}

	return band.ResponseDB(freqHz, e.graph.Now(), e.cfg.SampleRate)
}

func (e *Engine) snapshotLocked() State {
	s := e.state

	s.SourceParams = make(map[string]float64, len(e.state.SourceParams))
	for k, v := range e.state.SourceParams {
		s.SourceParams[k] = v
	}

	s.Formants = make([]FormantBand, len(e.state.Formants))
	copy(s.Formants, e.state.Formants)

	return s
}

func allBandIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}

	return out
}

// notifyAfterSettle schedules the fire-and-forget completion signal. It is
// decoupled from actual ramp completion on purpose.
func notifyAfterSettle(callback func()) {
	if callback == nil {
		return
	}

	time.AfterFunc(settleDelay, callback)
}
