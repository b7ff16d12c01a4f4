// Package voice implements the public voice engine: a single synthesized
// voice whose pitch, excitation source, formant structure, volume and filter
// bypass can be changed live without audible clicks.
//
// Every mutation goes through the engine's transition logic: source swaps
// are covered by a pitch glide across overlapping node pairs, levels move on
// linear ramps and formant parameters interpolate over a short window. The
// engine owns its signal graph and render clock; completion callbacks are
// best-effort notifications fired after a fixed settle delay, never a
// barrier for ramp completion.
package voice
