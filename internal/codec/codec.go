// Package codec provides page compression for the disk-backed trajectory
// buffer. Pages are small (one particle row each), written once and read
// back rarely, so the codecs favor cheap compression over ratio.
package codec

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type selects the page compression algorithm.
type Type uint8

const (
	None Type = iota
	S2
	LZ4
	Zstd
)

// String returns the codec name.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("codec(%d)", uint8(t))
	}
}

// Codec compresses and decompresses byte pages. The returned slices are
// owned by the caller; inputs are never modified.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// New returns the Codec for the given type.
func New(t Type) (Codec, error) {
	switch t {
	case None:
		return noopCodec{}, nil
	case S2:
		return s2Codec{}, nil
	case LZ4:
		return lz4Codec{}, nil
	case Zstd:
		return zstdCodec{}, nil
	default:
		return nil, fmt.Errorf("codec: unsupported compression type: %s", t)
	}
}

type noopCodec struct{}

func (noopCodec) Compress(data []byte) ([]byte, error)   { return data, nil }
func (noopCodec) Decompress(data []byte) ([]byte, error) { return data, nil }

type s2Codec struct{}

func (s2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Encode(nil, data), nil
}

func (s2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.Decode(nil, data)
}

// lz4Codec uses LZ4 block compression with a one-byte frame marker.
// CompressBlock reports incompressible input by returning zero bytes;
// such pages are stored raw behind a 0 marker.
type lz4Codec struct{}

var lz4CompressorPool = sync.Pool{
	New: func() any { return &lz4.Compressor{} },
}

func (lz4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dst := make([]byte, 1+lz4.CompressBlockBound(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[1:])
	if err != nil {
		return nil, err
	}
	if n == 0 || n >= len(data) {
		out := make([]byte, 1+len(data))
		copy(out[1:], data)

		return out, nil
	}

	dst[0] = 1

	return dst[:1+n], nil
}

func (lz4Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == 0 {
		out := make([]byte, len(data)-1)
		copy(out, data[1:])

		return out, nil
	}

	bufSize := len(data) * 4
	const maxSize = 128 * 1024 * 1024

	for bufSize <= maxSize {
		buf := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(data[1:], buf)
		if err != nil {
			if bufSize < maxSize {
				bufSize *= 2

				continue
			}

			return nil, err
		}

		return buf[:n], nil
	}

	return nil, lz4.ErrInvalidSourceShortBuffer
}

type zstdCodec struct{}

var zstdEncoderPool = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedDefault),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("codec: zstd encoder: %v", err))
		}

		return enc
	},
}

var zstdDecoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			panic(fmt.Sprintf("codec: zstd decoder: %v", err))
		}

		return dec
	},
}

func (zstdCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	enc := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(enc)

	return enc.EncodeAll(data, nil), nil
}

func (zstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	dec := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(dec)

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("codec: zstd decompression failed: %w", err)
	}

	return out, nil
}
