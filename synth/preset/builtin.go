package preset

// builtins are five-formant vowel presets with the usual singing-synthesis
// formant tables (bass voice).
var builtins = []Preset{
	{
		ID:        "vowel-a",
		Frequency: 130.81,
		Source:    Source{Name: "pulse", Params: map[string]float64{"openQuotient": 0.6}},
		Formants: Formants{
			Freqs: []float64{600, 1040, 2250, 2450, 2750},
			Bands: []float64{60, 70, 110, 120, 130},
			Gains: []float64{0, -7, -9, -9, -20},
		},
	},
	{
		ID:        "vowel-e",
		Frequency: 130.81,
		Source:    Source{Name: "pulse", Params: map[string]float64{"openQuotient": 0.6}},
		Formants: Formants{
			Freqs: []float64{400, 1620, 2400, 2800, 3100},
			Bands: []float64{40, 80, 100, 120, 120},
			Gains: []float64{0, -12, -9, -12, -18},
		},
	},
	{
		ID:        "vowel-i",
		Frequency: 130.81,
		Source:    Source{Name: "pulse", Params: map[string]float64{"openQuotient": 0.55}},
		Formants: Formants{
			Freqs: []float64{250, 1750, 2600, 3050, 3340},
			Bands: []float64{60, 90, 100, 120, 120},
			Gains: []float64{0, -30, -16, -22, -28},
		},
	},
	{
		ID:        "vowel-o",
		Frequency: 130.81,
		Source:    Source{Name: "rosenberg", Params: map[string]float64{"openQuotient": 0.65}},
		Formants: Formants{
			Freqs: []float64{400, 750, 2400, 2600, 2900},
			Bands: []float64{40, 80, 100, 120, 120},
			Gains: []float64{0, -11, -21, -20, -40},
		},
	},
	{
		ID:        "vowel-u",
		Frequency: 130.81,
		Source:    Source{Name: "rosenberg", Params: map[string]float64{"openQuotient": 0.7}},
		Formants: Formants{
			Freqs: []float64{350, 600, 2400, 2675, 2950},
			Bands: []float64{40, 80, 100, 120, 120},
			Gains: []float64{0, -20, -32, -28, -36},
		},
	},
}
