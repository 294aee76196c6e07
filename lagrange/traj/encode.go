package traj

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// convert copies src into dst across float widths. Both slices must have the
// same length.
func convert[D, S constraints.Float](dst []D, src []S) {
	for i, v := range src {
		dst[i] = D(v)
	}
}

// encodeRow serializes one particle row little-endian at the variable's
// storage width.
func encodeRow(dt Dtype, vals []float64) []byte {
	buf := make([]byte, dt.Size()*len(vals))

	switch dt {
	case Float32:
		narrow := make([]float32, len(vals))
		convert(narrow, vals)
		for i, v := range narrow {
			binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
		}
	default:
		for i, v := range vals {
			binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
		}
	}

	return buf
}

// decodeRow deserializes one row into dst, widening as needed.
func decodeRow(dt Dtype, payload []byte, dst []float64) error {
	if len(payload) != dt.Size()*len(dst) {
		return fmt.Errorf("traj: row payload is %d bytes, want %d", len(payload), dt.Size()*len(dst))
	}

	switch dt {
	case Float32:
		narrow := make([]float32, len(dst))
		for i := range narrow {
			narrow[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload[4*i:]))
		}
		convert(dst, narrow)
	default:
		for i := range dst {
			dst[i] = math.Float64frombits(binary.LittleEndian.Uint64(payload[8*i:]))
		}
	}

	return nil
}
