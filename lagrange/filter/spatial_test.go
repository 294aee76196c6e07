package filter

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-lagrange/internal/testutil"
	"github.com/cwbudde/algo-lagrange/lagrange/series"
)

func inertialCutoff(lon, lat float64) float64 {
	return 0.1 * lat
}

func TestNewSpatial_BuildsFilterPerCell(t *testing.T) {
	s, err := NewSpatial(inertialCutoff, 1, []float64{-10, 0, 10}, []float64{1, 2})
	if err != nil {
		t.Fatalf("NewSpatial failed: %v", err)
	}

	filters := s.Filters()
	if len(filters) != 6 {
		t.Fatalf("got %d filters, want 6", len(filters))
	}

	// Lat-major layout: first row of cells at lat 1, second at lat 2.
	for i := 0; i < 3; i++ {
		if got := filters[i].Cutoff(); got != 0.1 {
			t.Fatalf("filter %d cutoff = %g, want 0.1", i, got)
		}
		if got := filters[3+i].Cutoff(); got != 0.2 {
			t.Fatalf("filter %d cutoff = %g, want 0.2", 3+i, got)
		}
	}
}

func TestNewSpatial_EmptyGrid(t *testing.T) {
	if _, err := NewSpatial(inertialCutoff, 1, nil, []float64{1}); !errors.Is(err, ErrEmptyGrid) {
		t.Fatalf("empty lons: error = %v, want ErrEmptyGrid", err)
	}

	if _, err := NewSpatial(inertialCutoff, 1, []float64{0}, nil); !errors.Is(err, ErrEmptyGrid) {
		t.Fatalf("empty lats: error = %v, want ErrEmptyGrid", err)
	}
}

func TestNewSpatial_InvalidCellCutoff(t *testing.T) {
	// Cutoff at lat 5 would reach the Nyquist frequency and must fail
	// construction eagerly, not at first Apply.
	_, err := NewSpatial(inertialCutoff, 1, []float64{0}, []float64{1, 5})
	if !errors.Is(err, ErrInvalidCutoff) {
		t.Fatalf("error = %v, want ErrInvalidCutoff", err)
	}
}

func TestSpatial_BucketResponses(t *testing.T) {
	s, err := NewSpatial(inertialCutoff, 1, []float64{0}, []float64{1, 2})
	if err != nil {
		t.Fatalf("NewSpatial failed: %v", err)
	}

	for _, f := range s.Filters() {
		fc := f.Cutoff()
		freqs := []float64{fc / 8, fc / 4, fc / 2}
		for i, m := range f.ResponseMagnitudes(freqs) {
			if m >= 0.1 {
				t.Fatalf("cutoff %g: |H(%g)| = %g, want < 0.1", fc, freqs[i], m)
			}
		}
	}
}

func TestSpatial_ApplyMatchesPerBucketBaseFilter(t *testing.T) {
	s, err := NewSpatial(inertialCutoff, 1, []float64{0}, []float64{1, 2})
	if err != nil {
		t.Fatalf("NewSpatial failed: %v", err)
	}

	const (
		rows = 40
		cols = 6
	)

	d := series.Empty(cols)
	row := make([]float64, cols)
	for r := 0; r < rows; r++ {
		for j := range row {
			row[j] = math.Sin(0.21*float64(r)*float64(j+1)) + float64(j)
		}
		if err := d.AppendRow(row); err != nil {
			t.Fatalf("AppendRow failed: %v", err)
		}
	}

	// Interleave particles between the two latitude buckets.
	lon := make([]float64, cols)
	lat := make([]float64, cols)
	for j := range lat {
		lat[j] = float64(1 + j%2)
	}

	const center = 17

	out, err := s.Apply(d, center, lon, lat)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if len(out) != cols {
		t.Fatalf("output length = %d, want %d", len(out), cols)
	}

	// Each particle must carry exactly the value the matching base filter
	// produces for its column alone.
	for j := 0; j < cols; j++ {
		base, err := New(inertialCutoff(lon[j], lat[j]), 1)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}

		single := series.Empty(1)
		for r := 0; r < rows; r++ {
			if err := single.AppendRow([]float64{d.Row(r)[j]}); err != nil {
				t.Fatalf("AppendRow failed: %v", err)
			}
		}

		want, err := base.Apply(single, center)
		if err != nil {
			t.Fatalf("base Apply failed: %v", err)
		}

		if diff := math.Abs(out[j] - want[0]); diff > 1e-12 {
			t.Fatalf("particle %d: spatial %g vs base %g (diff %g)", j, out[j], want[0], diff)
		}
	}
}

func TestSpatial_NearestBucketSelection(t *testing.T) {
	calls := make(map[float64]bool)
	fn := func(lon, lat float64) float64 {
		calls[lat] = true
		return 0.1 * lat
	}

	s, err := NewSpatial(fn, 1, []float64{0}, []float64{1, 2})
	if err != nil {
		t.Fatalf("NewSpatial failed: %v", err)
	}

	if !calls[1] || !calls[2] {
		t.Fatalf("cutoff function not evaluated at all cells: %v", calls)
	}

	// lat 1.4 snaps to center 1, lat 1.6 to center 2.
	if got := s.bucket(0, 1.4); got != 0 {
		t.Fatalf("bucket(0, 1.4) = %d, want 0", got)
	}
	if got := s.bucket(0, 1.6); got != 1 {
		t.Fatalf("bucket(0, 1.6) = %d, want 1", got)
	}
}

func TestSpatial_ApplyValidation(t *testing.T) {
	s, err := NewSpatial(inertialCutoff, 1, []float64{0}, []float64{1, 2})
	if err != nil {
		t.Fatalf("NewSpatial failed: %v", err)
	}

	d := testutil.ConstantWindow(30, 3, 1)
	lon := []float64{0, 0, 0}
	lat := []float64{1, 1, 2}

	if _, err := s.Apply(d, -1, lon, lat); !errors.Is(err, ErrTimeIndex) {
		t.Fatalf("negative index: error = %v, want ErrTimeIndex", err)
	}
	if _, err := s.Apply(d, 30, lon, lat); !errors.Is(err, ErrTimeIndex) {
		t.Fatalf("index at T: error = %v, want ErrTimeIndex", err)
	}

	if _, err := s.Apply(d, 10, lon[:2], lat); !errors.Is(err, ErrLocationLength) {
		t.Fatalf("short lon: error = %v, want ErrLocationLength", err)
	}
	if _, err := s.Apply(d, 10, lon, lat[:1]); !errors.Is(err, ErrLocationLength) {
		t.Fatalf("short lat: error = %v, want ErrLocationLength", err)
	}
}
