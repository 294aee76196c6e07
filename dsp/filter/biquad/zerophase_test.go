package biquad

import (
	"errors"
	"math"
	"testing"
)

func TestZeroPhase_ConstantInputIsSuppressed(t *testing.T) {
	c := NewChain(testCascade())

	sig := make([]float64, 64)
	for i := range sig {
		sig[i] = 3.5
	}

	if err := c.ZeroPhase(sig); err != nil {
		t.Fatalf("ZeroPhase: %v", err)
	}

	// A constant has no content above any highpass cutoff.
	for i, v := range sig {
		if math.Abs(v) > 1e-8 {
			t.Fatalf("index %d: |%v| > 1e-8 for constant input", i, v)
		}
	}
}

func TestZeroPhase_SymmetricInputStaysSymmetric(t *testing.T) {
	c := NewChain(testCascade())

	// Even-symmetric input about the center index: zero phase distortion
	// must preserve the symmetry away from numerical noise.
	n := 101
	mid := n / 2
	sig := make([]float64, n)
	for i := range sig {
		d := float64(i - mid)
		sig[i] = math.Cos(0.4*d) * math.Exp(-d*d/400)
	}

	if err := c.ZeroPhase(sig); err != nil {
		t.Fatalf("ZeroPhase: %v", err)
	}

	for i := 1; i <= mid; i++ {
		if math.Abs(sig[mid-i]-sig[mid+i]) > 1e-6 {
			t.Fatalf("asymmetry at offset %d: %v vs %v", i, sig[mid-i], sig[mid+i])
		}
	}
}

func TestZeroPhase_Deterministic(t *testing.T) {
	in := make([]float64, 80)
	for i := range in {
		in[i] = math.Sin(0.37*float64(i)) + 0.25*float64(i%3)
	}

	a := append([]float64(nil), in...)
	b := append([]float64(nil), in...)

	if err := NewChain(testCascade()).ZeroPhase(a); err != nil {
		t.Fatalf("ZeroPhase: %v", err)
	}
	if err := NewChain(testCascade()).ZeroPhase(b); err != nil {
		t.Fatalf("ZeroPhase: %v", err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("index %d: runs differ (%v != %v)", i, a[i], b[i])
		}
	}
}

func TestZeroPhase_SeriesTooShort(t *testing.T) {
	c := NewChain(testCascade())

	sig := make([]float64, c.PadLen())
	err := c.ZeroPhase(sig)
	if !errors.Is(err, ErrSeriesTooShort) {
		t.Fatalf("err = %v, want ErrSeriesTooShort", err)
	}
}

func TestPadLen(t *testing.T) {
	c := NewChain(testCascade())
	if got, want := c.PadLen(), 3*(4+1); got != want {
		t.Fatalf("PadLen = %d, want %d", got, want)
	}
}
