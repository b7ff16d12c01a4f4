package voice

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/cwbudde/algo-voice/synth/preset"
	"github.com/cwbudde/algo-voice/synth/source"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()

	e, err := New(source.DefaultRegistry(), preset.DefaultRegistry(), nil, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return e
}

func renderSeconds(e *Engine, seconds float64) []float64 {
	cfg := e.Config()
	blocks := int(seconds*cfg.SampleRate) / cfg.BlockSize
	out := make([]float64, 0, blocks*cfg.BlockSize)
	block := make([]float64, cfg.BlockSize)

	for i := 0; i < blocks; i++ {
		e.Render(block)
		out = append(out, block...)
	}

	return out
}

func rms(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range samples {
		sum += v * v
	}

	return math.Sqrt(sum / float64(len(samples)))
}

func allZero(samples []float64) bool {
	for _, v := range samples {
		if v != 0 {
			return false
		}
	}

	return true
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestNew_Defaults(t *testing.T) {
	e := newTestEngine(t)

	s := e.State()
	if s.Frequency != defaultFrequency {
		t.Errorf("frequency = %v, want %v", s.Frequency, defaultFrequency)
	}
	if s.SourceName != "pulse" {
		t.Errorf("source = %q, want pulse", s.SourceName)
	}
	if s.Volume != defaultVolume {
		t.Errorf("volume = %v, want %v", s.Volume, defaultVolume)
	}
	if len(s.Formants) != DefaultFormantCount {
		t.Errorf("formant count = %d, want %d", len(s.Formants), DefaultFormantCount)
	}
	if s.Playing || s.FilterBypass {
		t.Errorf("state flags = playing %v, bypass %v, want both false", s.Playing, s.FilterBypass)
	}
	if e.Phase() != Idle {
		t.Errorf("phase = %v, want idle", e.Phase())
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, nil, nil); err == nil {
		t.Error("nil source registry accepted")
	}

	_, err := New(source.DefaultRegistry(), nil, nil, WithInitialSource("theremin"))
	if !errors.Is(err, source.ErrUnknownSource) {
		t.Errorf("unknown initial source error = %v, want ErrUnknownSource", err)
	}

	// Nil preset registry is fine; presets are optional.
	e, err := New(source.DefaultRegistry(), nil, nil, WithFormantCount(3))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(e.State().Formants) != 3 {
		t.Errorf("formant count = %d, want 3", len(e.State().Formants))
	}
}

func TestStart_FadesInFromSilence(t *testing.T) {
	e := newTestEngine(t)
	if err := e.LoadPreset("vowel-a", nil); err != nil {
		t.Fatal(err)
	}

	e.Start()
	if e.Phase() != Playing {
		t.Fatalf("phase = %v, want playing", e.Phase())
	}
	if !e.State().Playing {
		t.Fatal("state not marked playing")
	}

	out := renderSeconds(e, 0.2)
	if out[0] != 0 {
		t.Errorf("first sample = %v, want 0 (fade starts from silence)", out[0])
	}

	tail := out[len(out)/2:]
	if rms(tail) < 0.001 {
		t.Errorf("steady-state rms %v, want audible signal", rms(tail))
	}
}

func TestStop_FadesOutToIdle(t *testing.T) {
	e := newTestEngine(t)
	if err := e.LoadPreset("vowel-a", nil); err != nil {
		t.Fatal(err)
	}

	e.Start()
	renderSeconds(e, 0.2)

	e.Stop()
	if e.Phase() != Stopping {
		t.Fatalf("phase = %v, want stopping", e.Phase())
	}
	if e.State().Playing {
		t.Fatal("state still marked playing after Stop")
	}

	out := renderSeconds(e, 0.2)
	if e.Phase() != Idle {
		t.Errorf("phase = %v after fade-out elapsed, want idle", e.Phase())
	}

	lastBlock := out[len(out)-e.Config().BlockSize:]
	if !allZero(lastBlock) {
		t.Errorf("output not silent after fade-out, rms %v", rms(lastBlock))
	}

	if n := e.LiveSourceCount(); n != 0 {
		t.Errorf("LiveSourceCount = %d after stop, want 0", n)
	}
}

func TestStop_NoOpWhenIdle(t *testing.T) {
	e := newTestEngine(t)
	e.Stop()
	if e.Phase() != Idle {
		t.Errorf("phase = %v, want idle", e.Phase())
	}
}

func TestSetVolume_IdleStoresOnly(t *testing.T) {
	e := newTestEngine(t)

	e.SetVolume(0.5)
	if got := e.State().Volume; got != 0.5 {
		t.Errorf("volume = %v, want 0.5", got)
	}
	if e.Phase() != Idle {
		t.Errorf("phase = %v, want idle", e.Phase())
	}
	if !allZero(renderSeconds(e, 0.05)) {
		t.Error("idle engine produced signal after SetVolume")
	}
}

func TestSetVolume_ZeroSilencesWithinWindow(t *testing.T) {
	e := newTestEngine(t)
	if err := e.LoadPreset("vowel-a", nil); err != nil {
		t.Fatal(err)
	}

	e.Start()
	out := renderSeconds(e, 0.2)
	if rms(out[len(out)/2:]) < 0.001 {
		t.Fatal("expected audible signal before muting")
	}

	e.SetVolume(0)
	renderSeconds(e, 0.05)

	block := make([]float64, e.Config().BlockSize)
	e.Render(block)
	if !allZero(block) {
		t.Errorf("output not silent after ramp to zero, rms %v", rms(block))
	}

	// Still playing; only the amplifier is down.
	if e.Phase() != Playing {
		t.Errorf("phase = %v, want playing", e.Phase())
	}
}

func TestLoadPreset_RoundTrip(t *testing.T) {
	e := newTestEngine(t)

	presets := preset.DefaultRegistry()
	want, _ := presets.Lookup("vowel-o")

	done := make(chan struct{})
	err := e.LoadPreset("vowel-o", func(p preset.Preset) {
		if p.ID != "vowel-o" {
			t.Errorf("callback preset id = %q", p.ID)
		}
		close(done)
	})
	if err != nil {
		t.Fatalf("LoadPreset: %v", err)
	}

	s := e.State()
	if s.Frequency != want.Frequency {
		t.Errorf("frequency = %v, want %v", s.Frequency, want.Frequency)
	}
	if s.SourceName != want.Source.Name {
		t.Errorf("source = %q, want %q", s.SourceName, want.Source.Name)
	}
	if !reflect.DeepEqual(s.SourceParams, want.Source.Params) {
		t.Errorf("source params = %v, want %v", s.SourceParams, want.Source.Params)
	}

	for i, band := range s.Formants {
		freq, bw, gain := want.Band(i)
		if band.Frequency != freq || band.Bandwidth != bw || band.GainDB != gain {
			t.Errorf("band %d = %+v, want (%v, %v, %v)", i, band, freq, bw, gain)
		}
	}

	waitFor(t, done, "preset callback")
}

func TestLoadPreset_NotFound(t *testing.T) {
	e := newTestEngine(t)
	before := e.State()

	for _, id := range []string{"", "vowel-x"} {
		err := e.LoadPreset(id, nil)
		if !errors.Is(err, ErrPresetNotFound) {
			t.Errorf("LoadPreset(%q) error = %v, want ErrPresetNotFound", id, err)
		}
	}

	if !reflect.DeepEqual(e.State(), before) {
		t.Error("failed LoadPreset modified the voice state")
	}
}

func TestSetSource_PartialUpdate(t *testing.T) {
	e := newTestEngine(t)

	// Frequency only.
	if err := e.SetSource(SourceUpdate{Frequency: 220}); err != nil {
		t.Fatal(err)
	}
	s := e.State()
	if s.Frequency != 220 || s.SourceName != "pulse" {
		t.Errorf("after frequency update: %v / %q", s.Frequency, s.SourceName)
	}

	// Param merge on the current source.
	if err := e.SetSource(SourceUpdate{Params: map[string]float64{"openQuotient": 0.7}}); err != nil {
		t.Fatal(err)
	}
	if got := e.State().SourceParams["openQuotient"]; got != 0.7 {
		t.Errorf("openQuotient = %v, want 0.7", got)
	}

	// Switching sources drops the previous overrides.
	if err := e.SetSource(SourceUpdate{Name: "rosenberg"}); err != nil {
		t.Fatal(err)
	}
	s = e.State()
	if s.SourceName != "rosenberg" {
		t.Errorf("source = %q, want rosenberg", s.SourceName)
	}
	if len(s.SourceParams) != 0 {
		t.Errorf("params after source switch = %v, want empty", s.SourceParams)
	}
	if s.Frequency != 220 {
		t.Errorf("frequency = %v, want 220 (unchanged)", s.Frequency)
	}
}

func TestSetSource_InvalidParameterLeavesStateUntouched(t *testing.T) {
	e := newTestEngine(t)
	before := e.State()

	err := e.SetSource(SourceUpdate{
		Frequency: 330,
		Params:    map[string]float64{"openQuotient": 0.7, "vibrato": 1},
	})
	if !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("error = %v, want ErrInvalidParameter", err)
	}

	if !reflect.DeepEqual(e.State(), before) {
		t.Error("rejected update modified the voice state")
	}
}

func TestSetSource_ValidatesAgainstNewSource(t *testing.T) {
	e := newTestEngine(t)

	// speedQuotient belongs to rosenberg, not to the current pulse source;
	// with the name switch in the same update it must pass.
	err := e.SetSource(SourceUpdate{
		Name:   "rosenberg",
		Params: map[string]float64{"speedQuotient": 3},
	})
	if err != nil {
		t.Fatalf("SetSource: %v", err)
	}
	if got := e.State().SourceParams["speedQuotient"]; got != 3 {
		t.Errorf("speedQuotient = %v, want 3", got)
	}
}

func TestSetSource_UnknownName(t *testing.T) {
	e := newTestEngine(t)
	before := e.State()

	err := e.SetSource(SourceUpdate{Name: "theremin"})
	if !errors.Is(err, source.ErrUnknownSource) {
		t.Fatalf("error = %v, want ErrUnknownSource", err)
	}

	if !reflect.DeepEqual(e.State(), before) {
		t.Error("rejected update modified the voice state")
	}
}

func TestSetSource_RestartRetiresOldPair(t *testing.T) {
	e := newTestEngine(t)
	if err := e.LoadPreset("vowel-a", nil); err != nil {
		t.Fatal(err)
	}

	e.Start()
	renderSeconds(e, 0.1)
	if n := e.LiveSourceCount(); n != 2 {
		t.Fatalf("LiveSourceCount = %d while playing, want 2", n)
	}

	if err := e.SetSource(SourceUpdate{Frequency: 196}); err != nil {
		t.Fatal(err)
	}
	if n := e.LiveSourceCount(); n != 4 {
		t.Errorf("LiveSourceCount = %d during handover, want 4", n)
	}

	// The retiring pair ends after the stop lead.
	renderSeconds(e, 0.15)
	if n := e.LiveSourceCount(); n != 2 {
		t.Errorf("LiveSourceCount = %d after handover, want 2", n)
	}
}

func TestSetSource_RapidCallsBoundedPairs(t *testing.T) {
	e := newTestEngine(t)
	if err := e.LoadPreset("vowel-a", nil); err != nil {
		t.Fatal(err)
	}

	e.Start()

	freqs := []float64{130.81, 146.83, 164.81, 174.61, 196, 220, 246.94, 261.63}
	for _, f := range freqs {
		if err := e.SetSource(SourceUpdate{Frequency: f}); err != nil {
			t.Fatal(err)
		}
		if n := e.LiveSourceCount(); n > 4 {
			t.Fatalf("LiveSourceCount = %d, want at most 4 (two pairs)", n)
		}
	}

	renderSeconds(e, 0.2)
	if n := e.LiveSourceCount(); n != 2 {
		t.Errorf("LiveSourceCount = %d after settling, want 2", n)
	}
}

func TestSetFormants_TargetedEdit(t *testing.T) {
	e := newTestEngine(t)
	if err := e.LoadPreset("vowel-a", nil); err != nil {
		t.Fatal(err)
	}

	before := e.State().Formants

	done := make(chan struct{})
	e.SetFormants([]FormantEdit{
		{Index: 2, Frequency: Float(1800)},
		{Index: 99, Frequency: Float(1)}, // out of range, ignored
	}, func() { close(done) })

	after := e.State().Formants
	for i := range after {
		if i == 2 {
			if after[i].Frequency != 1800 {
				t.Errorf("band 2 frequency = %v, want 1800", after[i].Frequency)
			}
			if after[i].Bandwidth != before[i].Bandwidth || after[i].GainDB != before[i].GainDB {
				t.Errorf("band 2 untouched fields changed: %+v vs %+v", after[i], before[i])
			}
			continue
		}

		if after[i] != before[i] {
			t.Errorf("band %d changed by an edit targeting band 2: %+v vs %+v", i, after[i], before[i])
		}
	}

	waitFor(t, done, "formant callback")
}

func TestToggleFilters_RoundTripRestoresTimbre(t *testing.T) {
	e := newTestEngine(t)
	if err := e.LoadPreset("vowel-a", nil); err != nil {
		t.Fatal(err)
	}

	e.Start()
	renderSeconds(e, 0.3)
	filtered := rms(renderSeconds(e, 0.2))

	e.ToggleFilters(false)
	if !e.State().FilterBypass {
		t.Fatal("FilterBypass not set after disabling filtering")
	}
	renderSeconds(e, 0.2)

	e.ToggleFilters(true)
	if e.State().FilterBypass {
		t.Fatal("FilterBypass still set after re-enabling filtering")
	}
	renderSeconds(e, 0.3)
	restored := rms(renderSeconds(e, 0.2))

	if diff := math.Abs(filtered - restored); diff > 0.3*math.Max(filtered, restored) {
		t.Errorf("timbre not restored: rms %v before bypass, %v after round trip", filtered, restored)
	}
}

func TestBandResponseDB(t *testing.T) {
	e := newTestEngine(t)
	if err := e.LoadPreset("vowel-a", nil); err != nil {
		t.Fatal(err)
	}

	// Band 0 of vowel-a is centered at 600 Hz.
	center := e.BandResponseDB(0, 600)
	skirt := e.BandResponseDB(0, 5000)
	if center <= skirt+10 {
		t.Errorf("center %v dB not clearly above skirt %v dB", center, skirt)
	}

	if got := e.BandResponseDB(99, 600); got != -120 {
		t.Errorf("invalid band response = %v, want -120", got)
	}
}

func TestState_ReturnsCopy(t *testing.T) {
	e := newTestEngine(t)

	s := e.State()
	s.SourceParams["openQuotient"] = 99
	if len(s.Formants) > 0 {
		s.Formants[0].Frequency = 99999
	}

	fresh := e.State()
	if fresh.SourceParams["openQuotient"] == 99 {
		t.Error("mutating the returned params map leaked into the engine")
	}
	if len(fresh.Formants) > 0 && fresh.Formants[0].Frequency == 99999 {
		t.Error("mutating the returned formant slice leaked into the engine")
	}
}

func TestRestartWhilePlayingKeepsPlaying(t *testing.T) {
	e := newTestEngine(t)
	if err := e.LoadPreset("vowel-a", nil); err != nil {
		t.Fatal(err)
	}

	e.Start()
	renderSeconds(e, 0.1)

	if err := e.LoadPreset("vowel-i", nil); err != nil {
		t.Fatal(err)
	}
	if e.Phase() != Playing {
		t.Errorf("phase = %v after preset swap while playing, want playing", e.Phase())
	}

	out := renderSeconds(e, 0.3)
	if rms(out[len(out)/2:]) < 0.001 {
		t.Error("voice fell silent across a preset swap")
	}
}
