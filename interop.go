package runset

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"
)

// maxConvertCapacity is the largest capacity that can be converted to a
// dense bitset or a roaring bitmap.
const maxConvertCapacity = math.MaxUint32 + 1

// ToBitSet materializes the bitset as an uncompressed bitset of Capacity() bits,
// see https://github.com/bits-and-blooms/bitset. Memory use is proportional
// to the capacity, not to the number of runs, so the capacity must not exceed 1<<32.
func (bitSet *CompressedBitSet) ToBitSet() (*bitset.BitSet, error) {
	if bitSet.Capacity() > maxConvertCapacity {
		return nil, fmt.Errorf("runset: %w: capacity %d is too large for a dense bitset", ErrCapacityOverflow, bitSet.Capacity())
	}
	dense := bitset.New(uint(bitSet.Capacity()))
	bitSet.ForEachRun(func(start, end int64, enabled bool) bool {
		if enabled {
			dense.FlipRange(uint(start), uint(end))
		}
		return true
	})
	return dense, nil
}

// NewCompressedBitSetFromBitSet compresses the first _capacity_ bits of _dense_.
// Bits of _dense_ at or beyond _capacity_ are ignored.
func NewCompressedBitSetFromBitSet(dense *bitset.BitSet, capacity int64) (*CompressedBitSet, error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	enabled := dense.Test(0)
	chain := newRunChain(capacity, enabled)
	position := uint(0)
	for {
		var next uint
		var ok bool
		if enabled {
			next, ok = dense.NextClear(position)
			if !ok {
				// bits past Len() read as clear
				next, ok = dense.Len(), true
			}
		} else {
			next, ok = dense.NextSet(position)
		}
		if !ok || next >= uint(capacity) {
			return &CompressedBitSet{chain: chain}, nil
		}
		chain.flipRight(chain.tail, int64(next))
		enabled = !enabled
		position = next
	}
}

// ToRoaring converts the bitset into a run-optimized roaring bitmap.
// Roaring addresses 32-bit values, so the capacity must not exceed 1<<32.
func (bitSet *CompressedBitSet) ToRoaring() (*roaring.Bitmap, error) {
	if bitSet.Capacity() > maxConvertCapacity {
		return nil, fmt.Errorf("runset: %w: capacity %d exceeds the roaring range", ErrCapacityOverflow, bitSet.Capacity())
	}
	rb := roaring.New()
	bitSet.ForEachRun(func(start, end int64, enabled bool) bool {
		if enabled {
			rb.AddRange(uint64(start), uint64(end))
		}
		return true
	})
	rb.RunOptimize()
	return rb, nil
}

// NewCompressedBitSetFromRoaring creates a CompressedBitSet of capacity _capacity_
// holding the values of _rb_. Every value must be less than the capacity.
func NewCompressedBitSetFromRoaring(rb *roaring.Bitmap, capacity int64) (*CompressedBitSet, error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	if !rb.IsEmpty() && int64(rb.Maximum()) >= capacity {
		return nil, fmt.Errorf("runset: %w: value %d doesn't fit capacity %d", ErrIndexOutOfRange, rb.Maximum(), capacity)
	}
	chain := newRunChain(capacity, false)
	it := rb.Iterator()
	for it.HasNext() {
		start := int64(it.Next())
		end := start + 1
		for it.HasNext() && int64(it.PeekNext()) == end {
			it.Next()
			end++
		}
		if start == 0 {
			chain.runs[chain.head].enabled = true
		} else {
			chain.flipRight(chain.tail, start)
		}
		if end < capacity {
			chain.flipRight(chain.tail, end)
		}
	}
	return &CompressedBitSet{chain: chain}, nil
}
