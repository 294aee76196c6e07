package traj

import (
	"github.com/cwbudde/algo-lagrange/lagrange/series"
)

// MemoryBuffer buffers trajectory data entirely in memory. It is the cheap
// option when the window comfortably fits in RAM.
type MemoryBuffer struct {
	n      int
	vars   []Descriptor
	groups map[string]map[string]*series.Dense
	active map[string]*series.Dense
	closed bool
}

var _ Buffer = (*MemoryBuffer)(nil)

// NewMemory constructs an in-memory buffer for the particles in src.
// Only variables with ToWrite set are tracked; a non-nil variables slice
// further restricts tracking to the named subset.
func NewMemory(src ParticleSource, variables []string) *MemoryBuffer {
	return &MemoryBuffer{
		n:      src.Len(),
		vars:   trackedVariables(src, variables),
		groups: make(map[string]map[string]*series.Dense),
	}
}

// Variables returns the tracked variable descriptors.
func (b *MemoryBuffer) Variables() []Descriptor {
	return b.vars
}

// SetGroup makes name the active group for subsequent writes, creating
// empty (0, N) datasets on first reference. Re-attaching to an existing
// group keeps its contents.
func (b *MemoryBuffer) SetGroup(name string) error {
	if b.closed {
		return ErrClosed
	}

	g, ok := b.groups[name]
	if !ok {
		g = make(map[string]*series.Dense, len(b.vars))
		for _, v := range b.vars {
			g[v.Name] = series.Empty(b.n)
		}
		b.groups[name] = g
	}
	b.active = g

	return nil
}

// Write appends the current value of every tracked variable as one new row
// in the active group. When deletedOnly is set no live particle data changed
// and the call is a no-op.
func (b *MemoryBuffer) Write(src ParticleSource, _ float64, deletedOnly bool) error {
	if b.closed {
		return ErrClosed
	}
	if deletedOnly {
		return nil
	}
	if b.active == nil {
		return ErrNoActiveGroup
	}

	rows, err := collectRows(src, b.vars, b.n)
	if err != nil {
		return err
	}

	for i, v := range b.vars {
		if err := b.active[v.Name].AppendRow(rows[i]); err != nil {
			return err
		}
	}

	return nil
}

// Data returns the per-variable (time x particle) matrices of a group.
func (b *MemoryBuffer) Data(group string) (map[string]series.Matrix, error) {
	if b.closed {
		return nil, ErrClosed
	}

	g, ok := b.groups[group]
	if !ok {
		return nil, ErrUnknownGroup
	}

	out := make(map[string]series.Matrix, len(g))
	for name, d := range g {
		out[name] = d
	}

	return out, nil
}

// Close releases the buffered data.
func (b *MemoryBuffer) Close() error {
	b.groups = nil
	b.active = nil
	b.closed = true

	return nil
}
