// Package series provides the time-major matrix abstraction shared between
// the trajectory buffer and the filtering engine.
//
// A Matrix is a (time x particle) array: rows are timesteps, columns are
// particles. Implementations may hold the data in memory ([Dense]) or page
// it in lazily from backing storage; consumers that need the whole window
// resident call [Materialize].
package series

import (
	"errors"
	"fmt"
)

// Errors returned by series operations.
var (
	ErrRowLength = errors.New("series: row length does not match column count")
	ErrRowRange  = errors.New("series: row range out of bounds")
	ErrShortDst  = errors.New("series: destination slice too short")
)

// Matrix is a read-only time-major 2-D array of float64 values.
type Matrix interface {
	// Dims returns the number of rows (timesteps) and columns (particles).
	Dims() (rows, cols int)

	// ReadRows copies rows [start, end) into dst in row-major order.
	// dst must hold at least (end-start)*cols values.
	ReadRows(dst []float64, start, end int) error
}

// Dense is a row-major in-memory Matrix with a fixed column count and a
// growable row count.
type Dense struct {
	rows, cols int
	data       []float64
}

// NewDense returns a zero-filled Dense of the given shape.
func NewDense(rows, cols int) *Dense {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}

	return &Dense{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// Empty returns a (0, cols) Dense ready for row appends.
func Empty(cols int) *Dense {
	return NewDense(0, cols)
}

// Dims returns the current row and column counts.
func (d *Dense) Dims() (rows, cols int) {
	return d.rows, d.cols
}

// Row returns the i-th row as a slice view into the backing array.
// Mutations through the view are visible in the matrix.
func (d *Dense) Row(i int) []float64 {
	return d.data[i*d.cols : (i+1)*d.cols]
}

// AppendRow grows the matrix by one row, copying vals. The length of vals
// must equal the column count.
func (d *Dense) AppendRow(vals []float64) error {
	if len(vals) != d.cols {
		return fmt.Errorf("%w: got %d, want %d", ErrRowLength, len(vals), d.cols)
	}

	d.data = append(d.data, vals...)
	d.rows++

	return nil
}

// ReadRows copies rows [start, end) into dst in row-major order.
func (d *Dense) ReadRows(dst []float64, start, end int) error {
	rows, cols := d.Dims()
	if start < 0 || end < start || end > rows {
		return fmt.Errorf("%w: [%d, %d) of %d rows", ErrRowRange, start, end, rows)
	}
	if len(dst) < (end-start)*cols {
		return ErrShortDst
	}

	copy(dst, d.data[start*cols:end*cols])

	return nil
}

// Materialize returns a Dense holding the full contents of m. If m is
// already a Dense it is returned unchanged; otherwise all rows are pulled
// through ReadRows in one blocking call.
func Materialize(m Matrix) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d, nil
	}

	rows, cols := m.Dims()
	d := NewDense(rows, cols)
	if rows == 0 || cols == 0 {
		return d, nil
	}

	if err := m.ReadRows(d.data, 0, rows); err != nil {
		return nil, err
	}

	return d, nil
}
