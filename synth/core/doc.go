// Package core provides shared numeric helpers and the engine configuration
// used across the synth packages. All DSP code operates on float64 samples
// normalized to [-1, 1].
package core
