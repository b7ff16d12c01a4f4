package preset

// Source selects an excitation source and its parameter overrides.
type Source struct {
	Name   string             `yaml:"name"`
	Params map[string]float64 `yaml:"params"`
}

// Formants holds per-band arrays, index-aligned across the three lists.
type Formants struct {
	Freqs []float64 `yaml:"freqs"` // center frequencies, Hz
	Bands []float64 `yaml:"bands"` // bandwidths, Hz
	Gains []float64 `yaml:"gains"` // gains, dB
}

// Preset is one named voice configuration.
type Preset struct {
	ID        string   `yaml:"id"`
	Frequency float64  `yaml:"frequency"`
	Source    Source   `yaml:"source"`
	Formants  Formants `yaml:"formants"`
}

// Band returns (frequency, bandwidth, gainDB) for band i, zero-filled when a
// list is shorter than i+1.
func (p Preset) Band(i int) (freq, bandwidth, gainDB float64) {
	if i >= 0 && i < len(p.Formants.Freqs) {
		freq = p.Formants.Freqs[i]
	}

	if i >= 0 && i < len(p.Formants.Bands) {
		bandwidth = p.Formants.Bands[i]
	}

	if i >= 0 && i < len(p.Formants.Gains) {
		gainDB = p.Formants.Gains[i]
	}

	return freq, bandwidth, gainDB
}
