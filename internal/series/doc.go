// Package series provides the four-point temporal window underlying
// trajectory post-processing.
//
// A [Window] tracks one sampled quantity (scalar or vector) at four
// consecutive timesteps and exposes centered second-order
// finite-difference derivatives against a shared [Axis] of absolute
// time values. The centered stencil is exact for quadratics.
//
// Windows are plain values. The only shared state is the Axis, which
// the sampling driver owns and advances once per step before any
// quantity window is advanced.
package series
