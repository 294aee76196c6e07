// Package traj buffers per-timestep particle state over a filtering window.
//
// As advection proceeds, one row of every tracked variable is appended per
// timestep into the active group (one group per window). Two implementations
// satisfy the same [Buffer] contract: [MemoryBuffer] keeps everything in
// addressable memory, [FileBuffer] appends compressed pages to a private
// temporary file so that total trajectory volume may exceed memory.
//
// The particle count is fixed at construction. Buffers are single-writer,
// single-reader; concurrent use of one buffer requires external locking.
package traj

import (
	"errors"

	"github.com/cwbudde/algo-lagrange/lagrange/series"
)

// Errors returned by trajectory buffers.
var (
	ErrNoActiveGroup = errors.New("traj: no active group, call SetGroup before Write")
	ErrUnknownGroup  = errors.New("traj: unknown group")
	ErrSourceLength  = errors.New("traj: particle source length does not match buffer")
	ErrClosed        = errors.New("traj: buffer is closed")
)

// Dtype selects the storage width of one variable. Values cross the API as
// float64 regardless; Dtype only affects how the disk-backed buffer encodes
// rows.
type Dtype uint8

const (
	Float64 Dtype = iota
	Float32
)

// Size returns the encoded byte width of one value.
func (d Dtype) Size() int {
	if d == Float32 {
		return 4
	}

	return 8
}

// String returns the dtype name.
func (d Dtype) String() string {
	if d == Float32 {
		return "float32"
	}

	return "float64"
}

// Descriptor describes one particle attribute. Immutable once a buffer has
// been constructed from it.
type Descriptor struct {
	Name    string
	Dtype   Dtype
	ToWrite bool
}

// ParticleSource exposes the live state of a particle set: a fixed, ordered
// set of variable descriptors and, per variable, an array of current values
// whose length equals Len. The advection engine implements this.
type ParticleSource interface {
	Len() int
	Variables() []Descriptor
	Values(name string) []float64
}

// Buffer accumulates per-timestep particle data into named groups and hands
// it back as time-major matrices.
//
// All implementations share the same semantics: SetGroup lazily creates a
// group and re-attaches idempotently; Write appends one row per tracked
// variable, all-or-nothing across variables; Data returns views that reflect
// every write made so far, in write order.
type Buffer interface {
	SetGroup(name string) error
	Write(src ParticleSource, time float64, deletedOnly bool) error
	Data(group string) (map[string]series.Matrix, error)
	Close() error
}

// trackedVariables filters the source descriptors down to those marked for
// writing and, when an allow-list is given, named in it. An empty result is
// valid: the buffer simply records nothing.
func trackedVariables(src ParticleSource, allow []string) []Descriptor {
	var allowed map[string]struct{}
	if allow != nil {
		allowed = make(map[string]struct{}, len(allow))
		for _, name := range allow {
			allowed[name] = struct{}{}
		}
	}

	var tracked []Descriptor
	for _, v := range src.Variables() {
		if !v.ToWrite {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[v.Name]; !ok {
				continue
			}
		}
		tracked = append(tracked, v)
	}

	return tracked
}

// collectRows pulls the current value slice of every tracked variable and
// validates lengths up front, so that row appends can proceed without
// leaving a group half-written.
func collectRows(src ParticleSource, vars []Descriptor, n int) ([][]float64, error) {
	if src.Len() != n {
		return nil, ErrSourceLength
	}

	rows := make([][]float64, len(vars))
	for i, v := range vars {
		vals := src.Values(v.Name)
		if len(vals) != n {
			return nil, ErrSourceLength
		}
		rows[i] = vals
	}

	return rows, nil
}
