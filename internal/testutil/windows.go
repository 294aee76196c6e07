// Package testutil provides deterministic trajectory-window generators and
// tolerance helpers shared by the package tests.
package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-lagrange/lagrange/series"
)

// ConstantWindow returns a (rows x cols) window with every sample equal to
// value.
func ConstantWindow(rows, cols int, value float64) *series.Dense {
	d := series.Empty(cols)
	row := make([]float64, cols)
	for j := range row {
		row[j] = value
	}
	for t := 0; t < rows; t++ {
		if err := d.AppendRow(row); err != nil {
			panic(err)
		}
	}

	return d
}

// SineWindow returns a (rows x cols) window where every particle column
// carries the same sinusoid offset + amplitude*sin(2*pi*freq*(t-center)/fs),
// sampled at t = 0..rows-1.
func SineWindow(rows, cols, center int, freq, fs, amplitude, offset float64) *series.Dense {
	d := series.Empty(cols)
	row := make([]float64, cols)
	for t := 0; t < rows; t++ {
		v := offset + amplitude*math.Sin(2*math.Pi*freq*float64(t-center)/fs)
		for j := range row {
			row[j] = v
		}
		if err := d.AppendRow(row); err != nil {
			panic(err)
		}
	}

	return d
}

// NoiseWindow returns a (rows x cols) window of seeded uniform noise in
// [-amplitude, amplitude), independent per sample. Reproducible per seed.
func NoiseWindow(rows, cols int, seed int64, amplitude float64) *series.Dense {
	rng := rand.New(rand.NewSource(seed))
	d := series.Empty(cols)
	row := make([]float64, cols)
	for t := 0; t < rows; t++ {
		for j := range row {
			row[j] = (rng.Float64()*2 - 1) * amplitude
		}
		if err := d.AppendRow(row); err != nil {
			panic(err)
		}
	}

	return d
}

// KillParticle marks column col as dead from timestep from onward, the way a
// particle leaving the domain surfaces in a trajectory window.
func KillParticle(d *series.Dense, col, from int) {
	rows, _ := d.Dims()
	for r := from; r < rows; r++ {
		d.Row(r)[col] = math.NaN()
	}
}
