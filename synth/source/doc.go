// Package source defines the excitation-source contract of the voice
// synthesizer and its built-in vocal-fold models.
//
// A [Source] produces one loopable, phase-continuous cycle of periodic
// excitation for a requested pitch plus a correlated aspiration-noise buffer
// of the same length. Sources are stateless per call and may be shared across
// engines; the [Registry] selects them by name.
package source
