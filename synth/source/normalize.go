package source

import "math"

// finishCycle removes the DC offset of a unipolar glottal cycle and
// normalizes its peak to 1, leaving level control to the graph's gain stages.
func finishCycle(buf []float64) {
	if len(buf) == 0 {
		return
	}

	mean := 0.0
	for _, v := range buf {
		mean += v
	}
	mean /= float64(len(buf))

	maxAbs := 0.0
	for i := range buf {
		buf[i] -= mean
		if av := math.Abs(buf[i]); av > maxAbs {
			maxAbs = av
		}
	}

	if maxAbs == 0 {
		return
	}

	scale := 1 / maxAbs
	for i := range buf {
		buf[i] *= scale
	}
}
