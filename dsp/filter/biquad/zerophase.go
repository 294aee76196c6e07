package biquad

import "errors"

// ErrSeriesTooShort is returned by ZeroPhase when the input series does not
// exceed the reflection pad length required by the filter order.
var ErrSeriesTooShort = errors.New("biquad: series shorter than zero-phase pad length")

// padFactor scales the filter order into the reflection pad length,
// matching the customary 3*(order+1) edge extension.
const padFactor = 3

// PadLen returns the number of samples mirrored onto each end of a series
// before zero-phase filtering. A series must be strictly longer than this.
func (c *Chain) PadLen() int {
	return padFactor * (c.Order() + 1)
}

// ZeroPhase filters sig in-place with no net phase shift by running the
// cascade forward and then backward over the series. The series is first
// extended on both ends by odd reflection about the end samples, and every
// pass starts from the step steady-state of each section scaled by its first
// input, so that edge transients stay out of the retained samples.
//
// The magnitude response of the combined operation is |H(f)|^2; the phase
// response is identically zero.
func (c *Chain) ZeroPhase(sig []float64) error {
	pad := c.PadLen()
	if len(sig) <= pad {
		return ErrSeriesTooShort
	}

	n := len(sig)
	ext := make([]float64, n+2*pad)
	oddExtend(ext, sig, pad)

	c.zeroPhaseForward(ext)
	c.zeroPhaseBackward(ext)
	copy(sig, ext[pad:pad+n])

	return nil
}

// zeroPhaseForward runs each section over buf front-to-back, starting from
// its step steady-state scaled by the first sample.
func (c *Chain) zeroPhaseForward(buf []float64) {
	for i := range c.sections {
		s := &c.sections[i]
		st := s.Coefficients.StepState()
		s.SetState([2]float64{st[0] * buf[0], st[1] * buf[0]})
		s.ProcessBlock(buf)
	}
}

// zeroPhaseBackward is the time-reversed counterpart, seeded from the last
// sample.
func (c *Chain) zeroPhaseBackward(buf []float64) {
	for i := range c.sections {
		s := &c.sections[i]
		last := buf[len(buf)-1]
		st := s.Coefficients.StepState()
		s.SetState([2]float64{st[0] * last, st[1] * last})
		s.ProcessBlockReverse(buf)
	}
}

// oddExtend writes sig into ext[pad:pad+len(sig)] and fills both pads with
// the series reflected point-wise through its end samples, so the extension
// is continuous in value and slope at the joins.
func oddExtend(ext, sig []float64, pad int) {
	n := len(sig)
	copy(ext[pad:], sig)

	first, last := sig[0], sig[n-1]
	for i := 0; i < pad; i++ {
		ext[pad-1-i] = 2*first - sig[i+1]
		ext[pad+n+i] = 2*last - sig[n-2-i]
	}
}
