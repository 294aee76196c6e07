package filter

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-lagrange/lagrange/series"
)

// ErrEmptyWindow is returned when a spectrum is requested over a window with
// no timesteps.
var ErrEmptyWindow = errors.New("filter: window has no timesteps")

// MeanPowerSpectrum computes the single-sided power spectrum of every
// particle column of data and averages them. The returned freqs and power
// slices cover the bins [0, Nyquist]; freqs shares units with fs.
//
// Columns containing non-finite values (dead particles) are excluded from
// the mean. If every column is excluded, power is all-NaN.
//
// The spectrum is a diagnostic for choosing a cutoff frequency: the dominant
// low-frequency peak marks the energy the high-pass filter should remove.
func MeanPowerSpectrum(data series.Matrix, fs float64) (freqs, power []float64, err error) {
	if fs <= 0 || math.IsNaN(fs) || math.IsInf(fs, 0) {
		return nil, nil, fmt.Errorf("%w: got %g", ErrInvalidSampleRate, fs)
	}

	d, err := series.Materialize(data)
	if err != nil {
		return nil, nil, fmt.Errorf("filter: materializing window: %w", err)
	}

	rows, cols := d.Dims()
	if rows == 0 {
		return nil, nil, ErrEmptyWindow
	}

	fftSize := nextPowerOf2(rows)
	bins := fftSize/2 + 1

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, nil, fmt.Errorf("filter: fft plan: %w", err)
	}

	freqs = make([]float64, bins)
	for k := range freqs {
		freqs[k] = fs * float64(k) / float64(fftSize)
	}

	sum := make([]float64, bins)
	counted := 0

	in := make([]complex128, fftSize)
	out := make([]complex128, fftSize)
	re := make([]float64, bins)
	im := make([]float64, bins)
	binPower := make([]float64, bins)

	for p := 0; p < cols; p++ {
		finite := true
		for r := 0; r < rows; r++ {
			v := d.Row(r)[p]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				finite = false
				break
			}

			in[r] = complex(v, 0)
		}
		if !finite {
			continue
		}
		for r := rows; r < fftSize; r++ {
			in[r] = 0
		}

		if err := plan.Forward(out, in); err != nil {
			return nil, nil, fmt.Errorf("filter: fft: %w", err)
		}

		for k := 0; k < bins; k++ {
			re[k] = real(out[k])
			im[k] = imag(out[k])
		}
		vecmath.Power(binPower, re, im)

		for k := range sum {
			sum[k] += binPower[k]
		}

		counted++
	}

	if counted == 0 {
		for k := range sum {
			sum[k] = math.NaN()
		}

		return freqs, sum, nil
	}

	scale := 1.0 / (float64(counted) * float64(fftSize) * float64(fftSize))
	for k := range sum {
		sum[k] *= scale
	}

	return freqs, sum, nil
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
