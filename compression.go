package runset

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType selects how an encoded bitset is framed when persisted.
type CompressionType uint8

const (
	// CompressionNone stores the binary encoding as is.
	CompressionNone CompressionType = 0
	// CompressionLZ4 uses LZ4 block compression.
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD uses ZSTD compression.
	CompressionZSTD CompressionType = 2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("CompressionType(%d)", uint8(c))
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// lz4MaxRatio bounds how many output bytes one LZ4 block byte can expand to.
const lz4MaxRatio = 255

// frame prefixes data with its compression type.
// LZ4 frames also carry the uncompressed length as a big endian uint32.
// Data that LZ4 can't shrink is stored uncompressed.
func frame(data []byte, compression CompressionType) ([]byte, error) {
	switch compression {
	case CompressionNone:
		return append([]byte{byte(CompressionNone)}, data...), nil
	case CompressionZSTD:
		enc := getZstdEncoder()
		defer putZstdEncoder(enc)
		return enc.EncodeAll(data, []byte{byte(CompressionZSTD)}), nil
	case CompressionLZ4:
		compressed := make([]byte, 1+4+lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, compressed[5:], nil)
		if err != nil {
			return nil, fmt.Errorf("runset: lz4 compression failed: %w", err)
		}
		if n == 0 {
			return frame(data, CompressionNone)
		}
		compressed[0] = byte(CompressionLZ4)
		binary.BigEndian.PutUint32(compressed[1:5], uint32(len(data)))
		return compressed[:5+n], nil
	default:
		return nil, fmt.Errorf("runset: unknown compression type %v", compression)
	}
}

// unframe reverses frame.
func unframe(framed []byte) ([]byte, error) {
	if len(framed) == 0 {
		return nil, fmt.Errorf("runset: %w: empty frame", ErrCorruptEncoding)
	}
	payload := framed[1:]
	switch CompressionType(framed[0]) {
	case CompressionNone:
		return payload, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer putZstdDecoder(dec)
		data, err := dec.DecodeAll(payload, nil)
		if err != nil {
			return nil, fmt.Errorf("runset: %w: zstd: %v", ErrCorruptEncoding, err)
		}
		return data, nil
	case CompressionLZ4:
		if len(payload) < 4 {
			return nil, fmt.Errorf("runset: %w: short lz4 frame", ErrCorruptEncoding)
		}
		size := uint64(binary.BigEndian.Uint32(payload[:4]))
		if size == 0 || size > lz4MaxRatio*uint64(len(payload)-4) {
			return nil, fmt.Errorf("runset: %w: lz4 length %d doesn't match a %d byte block", ErrCorruptEncoding, size, len(payload)-4)
		}
		data := make([]byte, size)
		n, err := lz4.UncompressBlock(payload[4:], data)
		if err != nil {
			return nil, fmt.Errorf("runset: %w: lz4: %v", ErrCorruptEncoding, err)
		}
		if n != len(data) {
			return nil, fmt.Errorf("runset: %w: lz4 block holds %d bytes, expected %d", ErrCorruptEncoding, n, len(data))
		}
		return data, nil
	default:
		return nil, fmt.Errorf("runset: %w: unknown compression type %d", ErrCorruptEncoding, framed[0])
	}
}
