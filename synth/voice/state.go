package voice

// FormantBand describes one resonance of the vocal tract.
type FormantBand struct {
	Frequency float64 // center frequency, Hz
	Bandwidth float64 // bandwidth, Hz
	GainDB    float64 // band gain, dB
}

// Q returns the derived quality factor Frequency/Bandwidth. It is reported
// as-is; a zero bandwidth yields a non-finite Q, which the engine passes
// through unguarded like every other numeric boundary condition.
func (b FormantBand) Q() float64 {
	return b.Frequency / b.Bandwidth
}

// State is the synthesis state of one voice. It is created with the engine,
// mutated only through the engine's public operations and lives as long as
// the engine instance.
type State struct {
	Frequency    float64
	SourceName   string
	SourceParams map[string]float64
	Formants     []FormantBand
	Volume       float64
	Playing      bool
	FilterBypass bool
}

// SourceUpdate is a partial update for SetSource. Zero-valued Frequency and
// empty Name mean "leave unchanged"; Params entries merge into the current
// overrides after validation.
type SourceUpdate struct {
	Frequency float64
	Name      string
	Params    map[string]float64
}

// FormantEdit is one partial band update for SetFormants. Nil fields leave
// the corresponding band property unchanged.
type FormantEdit struct {
	Index     int
	Frequency *float64
	Bandwidth *float64
	GainDB    *float64
}

// Float is a convenience for building FormantEdit literals.
func Float(v float64) *float64 {
	return &v
}

// Phase is the engine's lifecycle state.
type Phase int

const (
	// Idle: constructed or fully stopped, no live nodes.
	Idle Phase = iota
	// Playing: one or two node pairs live, amplifier non-zero or ramping up.
	Playing
	// Stopping: fade to zero scheduled; becomes Idle once the scheduled stop
	// time passes on the render clock.
	Stopping
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Stopping:
		return "stopping"
	default:
		return "unknown"
	}
}
