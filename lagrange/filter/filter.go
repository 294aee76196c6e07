// Package filter applies zero-phase high-pass filtering to buffered particle
// trajectories. The base [Filter] uses one fixed 4th-order Butterworth
// design for every particle; [SpatialFilter] selects among pre-built designs
// by discretized particle location, for cutoffs that vary with latitude
// (e.g. the local inertial frequency).
//
// Filtering a (time x particle) window is one bulk operation over all
// particle columns; the only blocking step is materializing lazily-loaded
// window data. Particles whose trajectory contains NaN produce NaN outputs
// rather than failing the batch.
package filter

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-lagrange/dsp/filter/biquad"
	"github.com/cwbudde/algo-lagrange/dsp/filter/design/pass"
	"github.com/cwbudde/algo-lagrange/lagrange/series"
)

// Errors returned by filter construction and application.
var (
	ErrInvalidSampleRate = errors.New("filter: sampling frequency must be positive")
	ErrInvalidCutoff     = errors.New("filter: cutoff must be positive and below the Nyquist frequency")
	ErrTimeIndex         = errors.New("filter: center time index out of window bounds")
	ErrWindowTooShort    = errors.New("filter: window shorter than zero-phase pad length")
	ErrLocationLength    = errors.New("filter: location array length does not match particle count")
	ErrEmptyGrid         = errors.New("filter: discretization grid must not be empty")
)

// order is the fixed design order of the high-pass Butterworth filter.
const order = 4

// Filter holds immutable zero-phase high-pass filter state.
type Filter struct {
	cutoff   float64
	fs       float64
	sections []biquad.Coefficients
}

// New builds a 4th-order high-pass Butterworth filter with the given cutoff
// frequency, for data sampled at fs. Both frequencies share units; a cutoff
// at or above the Nyquist frequency fs/2 is rejected.
func New(cutoff, fs float64) (*Filter, error) {
	if fs <= 0 || math.IsNaN(fs) || math.IsInf(fs, 0) {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidSampleRate, fs)
	}
	if cutoff <= 0 || cutoff >= fs/2 || math.IsNaN(cutoff) {
		return nil, fmt.Errorf("%w: cutoff %g, Nyquist %g", ErrInvalidCutoff, cutoff, fs/2)
	}

	return &Filter{
		cutoff:   cutoff,
		fs:       fs,
		sections: pass.ButterworthHP(cutoff, order, fs),
	}, nil
}

// Cutoff returns the high-pass cutoff frequency.
func (f *Filter) Cutoff() float64 { return f.cutoff }

// SampleRate returns the sampling frequency the filter was designed for.
func (f *Filter) SampleRate() float64 { return f.fs }

// PadLen returns the number of reflected samples prepended and appended to
// the window before filtering. Windows must be strictly longer than this.
func (f *Filter) PadLen() int {
	return padLen(f.sections)
}

// Apply zero-phase filters every particle column of data along the time
// axis and returns the filtered row at timeIndex, one value per particle.
//
// data is materialized in full before filtering; zero-phase operation needs
// the whole window, so there is no streaming variant. The result is either
// a complete length-N slice or an error, never partial.
func (f *Filter) Apply(data series.Matrix, timeIndex int) ([]float64, error) {
	d, err := series.Materialize(data)
	if err != nil {
		return nil, fmt.Errorf("filter: materializing window: %w", err)
	}

	return f.applyDense(d, timeIndex)
}

func (f *Filter) applyDense(d *series.Dense, timeIndex int) ([]float64, error) {
	rows, cols := d.Dims()
	if timeIndex < 0 || timeIndex >= rows {
		return nil, fmt.Errorf("%w: index %d, window length %d", ErrTimeIndex, timeIndex, rows)
	}
	if rows <= f.PadLen() {
		return nil, fmt.Errorf("%w: %d rows, need more than %d", ErrWindowTooShort, rows, f.PadLen())
	}
	if cols == 0 {
		return []float64{}, nil
	}

	return zeroPhaseCenter(f.sections, d, timeIndex), nil
}

// ResponseMagnitudes returns |H(f)| of the filter at each frequency in
// freqs (same units as the construction frequencies).
func (f *Filter) ResponseMagnitudes(freqs []float64) []float64 {
	re := make([]float64, len(freqs))
	im := make([]float64, len(freqs))
	for i, freq := range freqs {
		h := complex(1, 0)
		for _, s := range f.sections {
			h *= s.Response(freq, f.fs)
		}
		re[i] = real(h)
		im[i] = imag(h)
	}

	out := make([]float64, len(freqs))
	vecmath.Magnitude(out, re, im)

	return out
}
