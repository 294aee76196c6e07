package pass

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-lagrange/dsp/filter/biquad"
)

func TestButterworth_SectionCount(t *testing.T) {
	for order := 1; order <= 8; order++ {
		want := (order + 1) / 2
		if got := len(ButterworthHP(0.1, order, 1)); got != want {
			t.Fatalf("HP order %d: sections=%d, want %d", order, got, want)
		}
		if got := len(ButterworthLP(0.1, order, 1)); got != want {
			t.Fatalf("LP order %d: sections=%d, want %d", order, got, want)
		}
	}
}

func TestButterworth_OddOrderHasFirstOrderTail(t *testing.T) {
	for _, order := range []int{1, 3, 5, 7} {
		sections := ButterworthHP(0.1, order, 1)
		tail := sections[len(sections)-1]
		if tail.B2 != 0 || tail.A2 != 0 {
			t.Fatalf("order %d: tail section %+v is not first-order", order, tail)
		}
	}
}

func TestButterworthHP_Minus3dBAtCutoff(t *testing.T) {
	for _, order := range []int{1, 2, 3, 4, 6, 8} {
		chain := biquad.NewChain(ButterworthHP(0.05, order, 1))
		db := chain.MagnitudeDB(0.05, 1)
		if math.Abs(db-(-3.01)) > 0.05 {
			t.Fatalf("order %d: %.3f dB at cutoff, want ~-3.01", order, db)
		}
	}
}

func TestButterworthHP_HigherOrderSteeperRolloff(t *testing.T) {
	prev := 0.0
	for _, order := range []int{1, 2, 4, 6} {
		chain := biquad.NewChain(ButterworthHP(0.1, order, 1))
		atten := -chain.MagnitudeDB(0.05, 1) // one octave into the stopband
		if atten <= prev {
			t.Fatalf("order %d: attenuation %.2f dB not steeper than %.2f dB", order, atten, prev)
		}
		prev = atten
	}
}

func TestButterworthHP_MatchesAnalyticMagnitude(t *testing.T) {
	// |H(f)|^2 of an analog Butterworth highpass is 1/(1+(fc/f)^(2n)).
	// After the bilinear transform the match holds on prewarped frequencies.
	order := 4
	fc := 0.05
	chain := biquad.NewChain(ButterworthHP(fc, order, 1))

	warp := func(f float64) float64 { return math.Tan(math.Pi * f) }
	for _, f := range []float64{0.01, 0.02, 0.05, 0.1, 0.2, 0.4} {
		want := 1 / math.Sqrt(1+math.Pow(warp(fc)/warp(f), 2*float64(order)))
		got := chain.Magnitude(f, 1)
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("f=%v: |H|=%v, want %v", f, got, want)
		}
	}
}

func TestButterworth_AllSectionsStable(t *testing.T) {
	for _, order := range []int{1, 2, 4, 8} {
		for _, fc := range []float64{0.01, 0.1, 0.4} {
			if !biquad.NewChain(ButterworthHP(fc, order, 1)).IsStable() {
				t.Fatalf("HP order %d fc %v: unstable section", order, fc)
			}
			if !biquad.NewChain(ButterworthLP(fc, order, 1)).IsStable() {
				t.Fatalf("LP order %d fc %v: unstable section", order, fc)
			}
		}
	}
}

func TestButterworth_InvalidOrder(t *testing.T) {
	if ButterworthHP(0.1, 0, 1) != nil {
		t.Fatal("order 0 should design no sections")
	}
	if ButterworthLP(0.1, -3, 1) != nil {
		t.Fatal("negative order should design no sections")
	}
}
