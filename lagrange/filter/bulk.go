package filter

import (
	"github.com/cwbudde/algo-lagrange/dsp/filter/biquad"
	"github.com/cwbudde/algo-lagrange/lagrange/series"
)

// padFactor matches the single-series convention in dsp/filter/biquad:
// 3*(order+1) samples of odd reflection on each end of the window.
const padFactor = 3

func padLen(sections []biquad.Coefficients) int {
	return padFactor * (2*len(sections) + 1)
}

// zeroPhaseCenter filters every column of d along the time axis with the
// cascade, forward then backward, and returns the filtered row at timeIndex.
//
// All columns advance together one timestep at a time with per-column
// delay-line state, so the inner loop is a flat pass over contiguous rows
// rather than a per-particle scalar loop. Callers have already validated
// timeIndex and the window length.
func zeroPhaseCenter(sections []biquad.Coefficients, d *series.Dense, timeIndex int) []float64 {
	rows, cols := d.Dims()
	pad := padLen(sections)

	work := oddExtendRows(d, pad)
	total := rows + 2*pad

	d0 := make([]float64, cols)
	d1 := make([]float64, cols)
	for i := range sections {
		sweep(sections[i], work, total, cols, d0, d1, false)
	}
	for i := range sections {
		sweep(sections[i], work, total, cols, d0, d1, true)
	}

	out := make([]float64, cols)
	copy(out, work[(pad+timeIndex)*cols:(pad+timeIndex+1)*cols])

	return out
}

// oddExtendRows copies d into the middle of a working array with pad rows of
// odd reflection about the first and last timestep on either side.
func oddExtendRows(d *series.Dense, pad int) []float64 {
	rows, cols := d.Dims()
	work := make([]float64, (rows+2*pad)*cols)

	for r := 0; r < rows; r++ {
		copy(work[(pad+r)*cols:], d.Row(r))
	}

	first := d.Row(0)
	last := d.Row(rows - 1)
	for i := 0; i < pad; i++ {
		top := work[(pad-1-i)*cols : (pad-i)*cols]
		mirror := d.Row(i + 1)
		for j := range top {
			top[j] = 2*first[j] - mirror[j]
		}

		bottom := work[(pad+rows+i)*cols : (pad+rows+i+1)*cols]
		mirror = d.Row(rows - 2 - i)
		for j := range bottom {
			bottom[j] = 2*last[j] - mirror[j]
		}
	}

	return work
}

// sweep runs one section over all columns of work, seeding each column's
// delay line with the section's step steady-state scaled by that column's
// first input sample (first in sweep direction).
func sweep(c biquad.Coefficients, work []float64, rows, cols int, d0, d1 []float64, reverse bool) {
	st := c.StepState()
	seedRow := 0
	if reverse {
		seedRow = rows - 1
	}
	seed := work[seedRow*cols : (seedRow+1)*cols]
	for j, x := range seed {
		d0[j] = st[0] * x
		d1[j] = st[1] * x
	}

	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	step := func(row []float64) {
		for j, x := range row {
			y := b0*x + d0[j]
			d0[j] = b1*x - a1*y + d1[j]
			d1[j] = b2*x - a2*y
			row[j] = y
		}
	}

	if reverse {
		for r := rows - 1; r >= 0; r-- {
			step(work[r*cols : (r+1)*cols])
		}

		return
	}
	for r := 0; r < rows; r++ {
		step(work[r*cols : (r+1)*cols])
	}
}
