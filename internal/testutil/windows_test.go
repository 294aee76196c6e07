package testutil

import (
	"math"
	"testing"
)

func TestConstantWindow(t *testing.T) {
	d := ConstantWindow(5, 3, 2.5)

	rows, cols := d.Dims()
	if rows != 5 || cols != 3 {
		t.Fatalf("dims = (%d, %d), want (5, 3)", rows, cols)
	}

	for r := 0; r < rows; r++ {
		for _, v := range d.Row(r) {
			if v != 2.5 {
				t.Fatalf("row %d: got %v, want 2.5", r, v)
			}
		}
	}
}

func TestSineWindow_CenterValue(t *testing.T) {
	d := SineWindow(37, 2, 18, 1.0/6, 1, 2, 5)

	// sin(0) at the center timestep leaves only the offset.
	for j, v := range d.Row(18) {
		if math.Abs(v-5) > 1e-12 {
			t.Fatalf("column %d center = %v, want 5", j, v)
		}
	}

	// Quarter period after the center hits offset + amplitude. One period
	// is 6 timesteps here, so index 18 + 6/4 lands between samples; check
	// mid-period symmetry instead: sin is odd about the center.
	for i := 1; i <= 3; i++ {
		before := d.Row(18 - i)[0]
		after := d.Row(18 + i)[0]
		if math.Abs((before-5)+(after-5)) > 1e-12 {
			t.Fatalf("offset %d: %v and %v not symmetric about the center", i, before, after)
		}
	}
}

func TestNoiseWindow_Reproducible(t *testing.T) {
	a := NoiseWindow(10, 4, 42, 1)
	b := NoiseWindow(10, 4, 42, 1)

	for r := 0; r < 10; r++ {
		RequireSliceNearlyEqual(t, a.Row(r), b.Row(r), 0)
		RequireFinite(t, a.Row(r))

		for j, v := range a.Row(r) {
			if v < -1 || v >= 1 {
				t.Fatalf("row %d col %d: %v outside [-1, 1)", r, j, v)
			}
		}
	}
}

func TestKillParticle(t *testing.T) {
	d := ConstantWindow(6, 2, 1)
	KillParticle(d, 1, 3)

	for r := 0; r < 6; r++ {
		if math.IsNaN(d.Row(r)[0]) {
			t.Fatalf("row %d: live column went NaN", r)
		}

		dead := math.IsNaN(d.Row(r)[1])
		if dead != (r >= 3) {
			t.Fatalf("row %d: dead = %v, want %v", r, dead, r >= 3)
		}
	}
}
