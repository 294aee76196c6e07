// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Multiple sections can be
// cascaded via [Chain] for higher-order filters such as the Butterworth
// family. [Chain.ZeroPhase] runs the cascade forward and backward over a
// whole series, cancelling the phase response; this is the primitive the
// Lagrangian filtering engine is built on.
//
// This package provides the processing runtime only. Coefficient design
// lives in dsp/filter/design.
package biquad
