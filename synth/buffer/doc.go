// Package buffer provides a reusable float64 buffer type and pool for
// allocation-friendly block rendering. The graph render loop draws its
// per-node scratch blocks from a Pool so steady-state rendering does not
// allocate.
package buffer
