// Package filter provides the biquad (second-order IIR) runtime and the
// coefficient designs used by the voice signal graph: RBJ lowpass for the
// source-conditioning stages and constant-peak-gain bandpass for the formant
// resonators and the bypass path.
package filter
