package filter

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-lagrange/lagrange/series"
)

// CutoffFunc evaluates the high-pass cutoff frequency at a location, e.g.
// the local inertial frequency as a function of latitude.
type CutoffFunc func(lon, lat float64) float64

// SpatialFilter applies a location-dependent zero-phase filter: one base
// Filter is pre-built per discretization grid cell, and each particle is
// filtered with the design of its nearest cell.
type SpatialFilter struct {
	fs      float64
	lons    []float64
	lats    []float64
	filters []*Filter // lat-major: index = j*len(lons) + i
}

// NewSpatial eagerly builds one filter per (lon, lat) combination of the
// discretization grid, with the cutoff evaluated by fn at each cell center.
// Any cell whose cutoff is invalid fails construction.
func NewSpatial(fn CutoffFunc, fs float64, lons, lats []float64) (*SpatialFilter, error) {
	if len(lons) == 0 || len(lats) == 0 {
		return nil, ErrEmptyGrid
	}

	filters := make([]*Filter, 0, len(lons)*len(lats))
	for _, lat := range lats {
		for _, lon := range lons {
			f, err := New(fn(lon, lat), fs)
			if err != nil {
				return nil, fmt.Errorf("filter: cell (lon %g, lat %g): %w", lon, lat, err)
			}
			filters = append(filters, f)
		}
	}

	return &SpatialFilter{
		fs:      fs,
		lons:    append([]float64(nil), lons...),
		lats:    append([]float64(nil), lats...),
		filters: filters,
	}, nil
}

// Filters returns the pre-built per-cell filters in lat-major order.
func (s *SpatialFilter) Filters() []*Filter {
	return s.filters
}

// Apply filters each particle column with the filter of its nearest grid
// cell and returns the filtered row at timeIndex in original particle order.
// lon and lat give the per-particle location and must match the particle
// count of data.
//
// Particles are grouped per cell so each pre-built filter runs as one bulk
// operation over its members, exactly as if the base Apply had been invoked
// on that subset alone.
func (s *SpatialFilter) Apply(data series.Matrix, timeIndex int, lon, lat []float64) ([]float64, error) {
	d, err := series.Materialize(data)
	if err != nil {
		return nil, fmt.Errorf("filter: materializing window: %w", err)
	}

	rows, cols := d.Dims()
	if timeIndex < 0 || timeIndex >= rows {
		return nil, fmt.Errorf("%w: index %d, window length %d", ErrTimeIndex, timeIndex, rows)
	}
	if len(lon) != cols || len(lat) != cols {
		return nil, fmt.Errorf("%w: %d particles, %d lon, %d lat", ErrLocationLength, cols, len(lon), len(lat))
	}

	members := make([][]int, len(s.filters))
	for p := 0; p < cols; p++ {
		b := s.bucket(lon[p], lat[p])
		members[b] = append(members[b], p)
	}

	out := make([]float64, cols)
	for b, parts := range members {
		if len(parts) == 0 {
			continue
		}

		sub := series.NewDense(rows, len(parts))
		for r := 0; r < rows; r++ {
			row := d.Row(r)
			subRow := sub.Row(r)
			for k, p := range parts {
				subRow[k] = row[p]
			}
		}

		vals, err := s.filters[b].applyDense(sub, timeIndex)
		if err != nil {
			return nil, err
		}
		for k, p := range parts {
			out[p] = vals[k]
		}
	}

	return out, nil
}

// bucket returns the lat-major index of the grid cell nearest to (lon, lat).
// Non-finite locations (dead particles) fall into cell 0; their trajectory
// columns are NaN and produce NaN outputs regardless.
func (s *SpatialFilter) bucket(lon, lat float64) int {
	return nearest(s.lats, lat)*len(s.lons) + nearest(s.lons, lon)
}

func nearest(centers []float64, v float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range centers {
		if d := math.Abs(c - v); d < bestDist {
			best = i
			bestDist = d
		}
	}

	return best
}
