package runset

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Binary layout, big endian:
//
//	capacity       int64
//	initial value  1 byte bool
//	repeated:      has_more 1 byte bool, then boundary int64 if has_more
//
// with one boundary per run after the first and a trailing has_more of false.

const (
	int64Bytes = 8
	boolBytes  = 1
)

// encodedSize returns the number of bytes MarshalBinary produces
func (chain *runChain) encodedSize() int {
	return int64Bytes + boolBytes + (chain.count()-1)*(boolBytes+int64Bytes) + boolBytes
}

func (chain *runChain) appendBinary(buf []byte) []byte {
	buf = binary.BigEndian.AppendUint64(buf, uint64(chain.capacity))
	buf = appendBool(buf, chain.runs[chain.head].enabled)
	for current := chain.runs[chain.head].next; current != noRun; current = chain.runs[current].next {
		buf = appendBool(buf, true)
		buf = binary.BigEndian.AppendUint64(buf, uint64(chain.runs[current].start))
	}
	return appendBool(buf, false)
}

func appendBool(buf []byte, value bool) []byte {
	if value {
		return append(buf, 1)
	}
	return append(buf, 0)
}

// runDecoder reads the binary layout from a stream without reading past
// its end, counting the bytes consumed.
type runDecoder struct {
	stream io.Reader
	read   int64
	buf    [int64Bytes]byte
}

func (decoder *runDecoder) fill(n int) error {
	m, err := io.ReadFull(decoder.stream, decoder.buf[:n])
	decoder.read += int64(m)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("runset: %w: truncated input", ErrCorruptEncoding)
	}
	if err != nil {
		return fmt.Errorf("runset: error while reading bitset: %w", err)
	}
	return nil
}

func (decoder *runDecoder) readInt64() (int64, error) {
	if err := decoder.fill(int64Bytes); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(decoder.buf[:int64Bytes])), nil
}

func (decoder *runDecoder) readBool() (bool, error) {
	if err := decoder.fill(boolBytes); err != nil {
		return false, err
	}
	switch decoder.buf[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("runset: %w: invalid boolean byte %#x", ErrCorruptEncoding, decoder.buf[0])
	}
}

// decodeChain rebuilds a chain by extending the tail with flipRight for every
// boundary, the same primitive live mutations use.
func (decoder *runDecoder) decodeChain() (*runChain, error) {
	capacity, err := decoder.readInt64()
	if err != nil {
		return nil, err
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("runset: %w: capacity must be greater than 0: %d", ErrCorruptEncoding, capacity)
	}
	enabled, err := decoder.readBool()
	if err != nil {
		return nil, err
	}
	chain := newRunChain(capacity, enabled)
	for {
		more, err := decoder.readBool()
		if err != nil {
			return nil, err
		}
		if !more {
			return chain, nil
		}
		start, err := decoder.readInt64()
		if err != nil {
			return nil, err
		}
		if previous := chain.runs[chain.tail].start; start <= previous || start >= capacity {
			return nil, fmt.Errorf("runset: %w: boundary %d must be in (%d, %d)", ErrCorruptEncoding, start, previous, capacity)
		}
		chain.flipRight(chain.tail, start)
	}
}

// WriteTo writes the bitset to a stream and returns the number of bytes written onto the stream
func (bitSet *CompressedBitSet) WriteTo(stream io.Writer) (int64, error) {
	data, err := bitSet.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := stream.Write(data)
	return int64(n), err
}

// ReadFrom reads the stream and imports it into the bitset and returns the number of bytes read.
// On error the bitset is left unchanged.
func (bitSet *CompressedBitSet) ReadFrom(stream io.Reader) (int64, error) {
	decoder := &runDecoder{stream: stream}
	chain, err := decoder.decodeChain()
	if err != nil {
		return decoder.read, err
	}
	bitSet.chain = chain
	return decoder.read, nil
}

// MarshalBinary encodes the runs of the bitset
func (bitSet *CompressedBitSet) MarshalBinary() ([]byte, error) {
	return bitSet.runs().appendBinary(make([]byte, 0, bitSet.runs().encodedSize())), nil
}

// UnmarshalBinary decodes data produced by MarshalBinary into the bitset.
// Trailing bytes after the terminator are rejected.
func (bitSet *CompressedBitSet) UnmarshalBinary(data []byte) error {
	reader := bytes.NewReader(data)
	decoder := &runDecoder{stream: reader}
	chain, err := decoder.decodeChain()
	if err != nil {
		return err
	}
	if reader.Len() != 0 {
		return fmt.Errorf("runset: %w: %d trailing bytes", ErrCorruptEncoding, reader.Len())
	}
	bitSet.chain = chain
	return nil
}

// Export returns the capacity and the json marshalling of the bitset
func (bitSet *CompressedBitSet) Export() (int64, []byte, error) {
	raw, err := bitSet.MarshalBinary()
	if err != nil {
		return 0, nil, err
	}
	data, err := json.Marshal(base64.URLEncoding.EncodeToString(raw))
	if err != nil {
		return 0, nil, err
	}
	return bitSet.Capacity(), data, nil
}

// Import imports the marshalled json in the byte array data into the bitset
func (bitSet *CompressedBitSet) Import(data []byte) (bool, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return false, fmt.Errorf("runset: error while unmarshalling json: %w", err)
	}
	raw, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return false, fmt.Errorf("runset: %w: %v", ErrCorruptEncoding, err)
	}
	if err := bitSet.UnmarshalBinary(raw); err != nil {
		return false, err
	}
	return true, nil
}
