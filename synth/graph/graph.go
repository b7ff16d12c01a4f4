package graph

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-voice/synth/buffer"
	"github.com/cwbudde/algo-voice/synth/core"
	"github.com/cwbudde/algo-voice/synth/filter"
)

const (
	// TonalCutoffHz conditions the periodic excitation path.
	TonalCutoffHz = 10000
	// NoiseCutoffHz conditions the aspiration-noise path.
	NoiseCutoffHz = 1500

	// Bypass path: a very wide unity bandpass spanning the voice range.
	bypassCenterHz = 450
	bypassQ        = 0.05
)

// Graph is the fixed signal topology of one voice:
//
//	tonal sources -> tonal lowpass ┐
//	noise sources -> noise lowpass ┴-> source gain -> pre-filter gain ->
//	N x (bandpass resonator -> band gain) -> master gain -> output
//
// plus a wide bypass bandpass from source gain directly to master. The
// topology is built once; only the source-gain fan-out edge moves when
// bypass toggles, so the bank's state and parameters survive a bypass round
// trip untouched.
//
// Graph is not safe for concurrent use. The voice engine serializes control
// operations and Render calls; all scheduling is non-blocking and expressed
// as value-at-time events, so the audio result does not depend on control
// timing jitter.
type Graph struct {
	cfg        core.EngineConfig
	nowSamples int64
	pool       *buffer.Pool

	tonal []*BufferSource
	noise []*BufferSource

	tonalLP *filter.Section
	noiseLP *filter.Section

	sourceGain *Param
	preGain    *Param
	masterGain *Param

	bands    []*Resonator
	bypass   *filter.Section
	bypassed bool
}

// New builds the voice topology for numBands formant bands.
func New(cfg core.EngineConfig, numBands int) *Graph {
	if numBands < 1 {
		numBands = 1
	}

	sr := cfg.SampleRate
	tonalCut := math.Min(TonalCutoffHz, 0.49*sr)
	noiseCut := math.Min(NoiseCutoffHz, 0.49*sr)

	g := &Graph{
		cfg:        cfg,
		pool:       buffer.NewPool(),
		tonalLP:    filter.NewSection(filter.Lowpass(tonalCut, 0, sr)),
		noiseLP:    filter.NewSection(filter.Lowpass(noiseCut, 0, sr)),
		sourceGain: NewParam(1),
		preGain:    NewParam(1),
		masterGain: NewParam(0),
		bypass:     filter.NewSection(filter.Bandpass(bypassCenterHz, bypassQ, sr)),
	}

	g.bands = make([]*Resonator, numBands)
	for i := range g.bands {
		g.bands[i] = newResonator(1000, 1, 1, sr)
	}

	return g
}

// Config returns the engine configuration the graph was built with.
func (g *Graph) Config() core.EngineConfig {
	return g.cfg
}

// Now returns the render clock position in seconds.
func (g *Graph) Now() float64 {
	return float64(g.nowSamples) / g.cfg.SampleRate
}

// SourceGain returns the shared source-gain param.
func (g *Graph) SourceGain() *Param { return g.sourceGain }

// PreFilterGain returns the pre-filter gain param feeding the bank.
func (g *Graph) PreFilterGain() *Param { return g.preGain }

// MasterGain returns the master amplifier param, the sole sink to output.
func (g *Graph) MasterGain() *Param { return g.masterGain }

// NumBands returns the fixed formant band count.
func (g *Graph) NumBands() int {
	return len(g.bands)
}

// Band returns the i-th resonator, or nil when out of range.
func (g *Graph) Band(i int) *Resonator {
	if i < 0 || i >= len(g.bands) {
		return nil
	}

	return g.bands[i]
}

// SetBypass routes the source-gain output around the resonator bank (true)
// or through it (false). The bank keeps its wiring and parameters either way.
func (g *Graph) SetBypass(bypassed bool) {
	g.bypassed = bypassed
}

// Bypassed reports whether the bypass path is active.
func (g *Graph) Bypassed() bool {
	return g.bypassed
}

// ConnectPair attaches a (tonal, noise) source pair to the conditioning
// stages. Connection is synchronous: the pair contributes to the very next
// rendered block.
func (g *Graph) ConnectPair(tonal, noise *BufferSource) {
	if tonal != nil {
		g.tonal = append(g.tonal, tonal)
	}

	if noise != nil {
		g.noise = append(g.noise, noise)
	}
}

// DisconnectPair detaches a source pair. Unknown nodes are ignored.
func (g *Graph) DisconnectPair(tonal, noise *BufferSource) {
	g.tonal = removeSource(g.tonal, tonal)
	g.noise = removeSource(g.noise, noise)
}

// LiveSourceCount returns the number of currently connected source nodes
// (tonal plus noise).
func (g *Graph) LiveSourceCount() int {
	return len(g.tonal) + len(g.noise)
}

// Render fills dst with the next block of output samples and advances the
// clock. Completion handlers of sources whose stop time elapsed during the
// block run after the block is produced.
func (g *Graph) Render(dst []float64) {
	n := len(dst)
	if n == 0 {
		return
	}

	t0 := g.Now()
	dt := 1 / g.cfg.SampleRate

	mixB := g.pool.Get(n)
	noiseB := g.pool.Get(n)
	curveB := g.pool.Get(n)
	defer g.pool.Put(mixB)
	defer g.pool.Put(noiseB)
	defer g.pool.Put(curveB)

	mix := mixB.Samples()
	noise := noiseB.Samples()
	curve := curveB.Samples()

	for _, s := range g.tonal {
		s.renderAdd(mix, t0, dt)
	}
	g.tonalLP.ProcessBlock(mix)

	for _, s := range g.noise {
		s.renderAdd(noise, t0, dt)
	}
	g.noiseLP.ProcessBlock(noise)

	vecmath.AddBlockInPlace(mix, noise)
	g.sourceGain.Fill(curve, t0, dt)
	vecmath.MulBlockInPlace(mix, curve)

	if g.bypassed {
		g.bypass.ProcessBlock(mix)
	} else {
		g.renderBank(mix, curve, t0, dt)
	}

	g.masterGain.Fill(curve, t0, dt)
	vecmath.MulBlock(dst, mix, curve)

	g.nowSamples += int64(n)
	g.finishStopped(g.Now())
}

// renderBank runs mix through the resonator bank in place.
func (g *Graph) renderBank(mix, curve []float64, t0, dt float64) {
	n := len(mix)

	preB := g.pool.Get(n)
	bandB := g.pool.Get(n)
	outB := g.pool.Get(n)
	defer g.pool.Put(preB)
	defer g.pool.Put(bandB)
	defer g.pool.Put(outB)

	pre := preB.Samples()
	band := bandB.Samples()
	out := outB.Samples()

	g.preGain.Fill(curve, t0, dt)
	vecmath.MulBlock(pre, mix, curve)

	for _, r := range g.bands {
		r.updateCoefficients(t0, g.cfg.SampleRate)
		r.section.ProcessBlockTo(band, pre)
		r.gain.Fill(curve, t0, dt)
		vecmath.MulBlockInPlace(band, curve)
		vecmath.AddBlockInPlace(out, band)
	}

	copy(mix, out)
}

// finishStopped fires completion handlers for sources whose stop time has
// passed, then drops any ended sources still connected. Handlers may call
// DisconnectPair themselves; the sweep afterwards is a no-op in that case.
func (g *Graph) finishStopped(now float64) {
	var handlers []func()

	for _, s := range g.tonal {
		if fn := s.finishIfStopped(now); fn != nil {
			handlers = append(handlers, fn)
		}
	}

	for _, s := range g.noise {
		if fn := s.finishIfStopped(now); fn != nil {
			handlers = append(handlers, fn)
		}
	}

	for _, fn := range handlers {
		fn()
	}

	g.tonal = dropEnded(g.tonal)
	g.noise = dropEnded(g.noise)
}

func removeSource(list []*BufferSource, s *BufferSource) []*BufferSource {
	if s == nil {
		return list
	}

	for i, cur := range list {
		if cur == s {
			return append(list[:i], list[i+1:]...)
		}
	}

	return list
}

func dropEnded(list []*BufferSource) []*BufferSource {
	keep := list[:0]
	for _, s := range list {
		if !s.Ended() {
			keep = append(keep, s)
		}
	}

	return keep
}
