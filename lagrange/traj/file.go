package traj

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/cwbudde/algo-lagrange/internal/codec"
	"github.com/cwbudde/algo-lagrange/lagrange/series"
)

// ErrChecksum is returned when a page read back from the backing file fails
// checksum verification.
var ErrChecksum = errors.New("traj: page checksum mismatch")

var fileMagic = [4]byte{'L', 'G', 'T', 'J'}

const (
	fileVersion    = 1
	fileHeaderSize = 6  // magic + version + codec
	pageHeaderSize = 12 // xxhash64 + payload length
)

// FileOption configures a FileBuffer.
type FileOption func(*fileConfig)

type fileConfig struct {
	compression codec.Type
	dir         string
}

func defaultFileConfig() fileConfig {
	return fileConfig{compression: codec.S2}
}

// WithCompression selects the page compression codec. The default is S2,
// which is nearly free to encode and shrinks the constant-heavy rows that
// particle trajectories tend to produce.
func WithCompression(t codec.Type) FileOption {
	return func(cfg *fileConfig) { cfg.compression = t }
}

// WithDir places the backing temporary file in dir instead of the default
// temp directory.
func WithDir(dir string) FileOption {
	return func(cfg *fileConfig) { cfg.dir = dir }
}

// pageRef locates one page (header + payload) in the backing file.
type pageRef struct {
	off  int64
	size uint32
}

type fileGroup struct {
	rows  int
	pages map[string][]pageRef
}

// FileBuffer buffers trajectory data in a private temporary file. Pages are
// appended as writes arrive, so storage grows incrementally and the total
// volume may exceed memory; only the page index stays resident. The file is
// deleted on Close.
type FileBuffer struct {
	n      int
	vars   []Descriptor
	f      *os.File
	size   int64
	codec  codec.Codec
	groups map[string]*fileGroup
	active *fileGroup
	times  []float64
	closed bool
}

var _ Buffer = (*FileBuffer)(nil)

// NewFile constructs a disk-backed buffer for the particles in src.
// Variable tracking follows the same rules as NewMemory.
func NewFile(src ParticleSource, variables []string, opts ...FileOption) (*FileBuffer, error) {
	cfg := defaultFileConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	c, err := codec.New(cfg.compression)
	if err != nil {
		return nil, fmt.Errorf("traj: %w", err)
	}

	f, err := os.CreateTemp(cfg.dir, "lagrange-traj-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("traj: creating backing file: %w", err)
	}

	header := make([]byte, fileHeaderSize)
	copy(header, fileMagic[:])
	header[4] = fileVersion
	header[5] = byte(cfg.compression)
	if _, err := f.WriteAt(header, 0); err != nil {
		name := f.Name()
		_ = f.Close()
		_ = os.Remove(name)

		return nil, fmt.Errorf("traj: writing file header: %w", err)
	}

	return &FileBuffer{
		n:      src.Len(),
		vars:   trackedVariables(src, variables),
		f:      f,
		size:   fileHeaderSize,
		codec:  c,
		groups: make(map[string]*fileGroup),
	}, nil
}

// Variables returns the tracked variable descriptors.
func (b *FileBuffer) Variables() []Descriptor {
	return b.vars
}

// SetGroup makes name the active group for subsequent writes, creating it
// on first reference. Re-attaching to an existing group keeps its contents.
func (b *FileBuffer) SetGroup(name string) error {
	if b.closed {
		return ErrClosed
	}

	g, ok := b.groups[name]
	if !ok {
		g = &fileGroup{pages: make(map[string][]pageRef, len(b.vars))}
		for _, v := range b.vars {
			g.pages[v.Name] = nil
		}
		b.groups[name] = g
	}
	b.active = g

	return nil
}

// Write appends one compressed page per tracked variable and records the
// time value in the shared time sequence. The append is atomic per timestep:
// if any page fails, the file is truncated back and no index entry is made.
// When deletedOnly is set the call is a no-op.
func (b *FileBuffer) Write(src ParticleSource, time float64, deletedOnly bool) error {
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

	start := b.size
	refs := make([]pageRef, len(b.vars))
	for i, v := range b.vars {
		payload, err := b.codec.Compress(encodeRow(v.Dtype, rows[i]))
		if err != nil {
			b.rollback(start)

			return fmt.Errorf("traj: compressing %q row: %w", v.Name, err)
		}

		refs[i], err = b.appendPage(payload)
		if err != nil {
			b.rollback(start)

			return err
		}
	}

	// All pages landed; commit the index for every variable together.
	for i, v := range b.vars {
		b.active.pages[v.Name] = append(b.active.pages[v.Name], refs[i])
	}
	b.active.rows++
	b.times = append(b.times, time)

	return nil
}

func (b *FileBuffer) appendPage(payload []byte) (pageRef, error) {
	header := make([]byte, pageHeaderSize)
	binary.LittleEndian.PutUint64(header, xxhash.Sum64(payload))
	binary.LittleEndian.PutUint32(header[8:], uint32(len(payload)))

	off := b.size
	if _, err := b.f.WriteAt(header, off); err != nil {
		return pageRef{}, fmt.Errorf("traj: writing page header: %w", err)
	}
	if _, err := b.f.WriteAt(payload, off+pageHeaderSize); err != nil {
		return pageRef{}, fmt.Errorf("traj: writing page payload: %w", err)
	}

	size := uint32(pageHeaderSize + len(payload))
	b.size = off + int64(size)

	return pageRef{off: off, size: size}, nil
}

// rollback discards a half-written timestep. The index was never updated,
// so truncation only reclaims space.
func (b *FileBuffer) rollback(size int64) {
	_ = b.f.Truncate(size)
	b.size = size
}

// Data returns lazy per-variable matrices over the group's pages. Rows are
// decompressed and checksum-verified on access, not up front.
func (b *FileBuffer) Data(group string) (map[string]series.Matrix, error) {
	if b.closed {
		return nil, ErrClosed
	}

	g, ok := b.groups[group]
	if !ok {
		return nil, ErrUnknownGroup
	}

	out := make(map[string]series.Matrix, len(b.vars))
	for _, v := range b.vars {
		out[v.Name] = &fileMatrix{b: b, g: g, name: v.Name, dtype: v.Dtype}
	}

	return out, nil
}

// Times returns a copy of the shared time sequence, one entry per write.
func (b *FileBuffer) Times() []float64 {
	return append([]float64(nil), b.times...)
}

// Close deletes the backing file. The buffer is unusable afterwards.
func (b *FileBuffer) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.groups = nil
	b.active = nil

	name := b.f.Name()
	err := b.f.Close()
	if rmErr := os.Remove(name); err == nil {
		err = rmErr
	}

	return err
}

// fileMatrix is a lazy Matrix view over one variable's pages in one group.
// It reflects rows appended after its creation.
type fileMatrix struct {
	b     *FileBuffer
	g     *fileGroup
	name  string
	dtype Dtype
}

var _ series.Matrix = (*fileMatrix)(nil)

func (m *fileMatrix) Dims() (rows, cols int) {
	return m.g.rows, m.b.n
}

func (m *fileMatrix) ReadRows(dst []float64, start, end int) error {
	if m.b.closed {
		return ErrClosed
	}

	rows, cols := m.Dims()
	if start < 0 || end < start || end > rows {
		return fmt.Errorf("%w: [%d, %d) of %d rows", series.ErrRowRange, start, end, rows)
	}
	if len(dst) < (end-start)*cols {
		return series.ErrShortDst
	}

	refs := m.g.pages[m.name]
	for r := start; r < end; r++ {
		row := dst[(r-start)*cols : (r-start+1)*cols]
		if err := m.readRow(refs[r], row); err != nil {
			return err
		}
	}

	return nil
}

func (m *fileMatrix) readRow(ref pageRef, dst []float64) error {
	page := make([]byte, ref.size)
	if _, err := m.b.f.ReadAt(page, ref.off); err != nil {
		return fmt.Errorf("traj: reading page: %w", err)
	}

	sum := binary.LittleEndian.Uint64(page)
	payloadLen := binary.LittleEndian.Uint32(page[8:])
	payload := page[pageHeaderSize : pageHeaderSize+int(payloadLen)]
	if xxhash.Sum64(payload) != sum {
		return fmt.Errorf("%w: variable %q", ErrChecksum, m.name)
	}

	raw, err := m.b.codec.Decompress(payload)
	if err != nil {
		return fmt.Errorf("traj: decompressing %q row: %w", m.name, err)
	}

	return decodeRow(m.dtype, raw, dst)
}
