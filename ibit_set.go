/*
Package runset implements a run-length compressed bitset.

Instead of one storage unit per bit, a CompressedBitSet keeps a chain of
maximal runs of identical bits, so a stretch of set or unset bits costs a single
record no matter how long it is. It suits bit vectors over huge index spaces
where bits come in bursts: range markers, presence masks, interval sets.

The bitset can be converted to and from https://github.com/bits-and-blooms/bitset
and https://github.com/RoaringBitmap/roaring bitmaps, and persisted to redis.
*/
package runset

// IBitSet is the read-only query surface of a bitset.
type IBitSet interface {
	// Capacity returns the exclusive upper bound of valid bit indices
	Capacity() int64

	// BitCount returns the total number of set bits in the bitset
	BitCount() int64

	// HasBit returns true if the bit is set at index, else false
	HasBit(index int64) (bool, error)

	// HasAllBits returns true if every bit in [start, end) is set
	HasAllBits(start, end int64) (bool, error)

	// HasAnyBits returns true if at least one bit in [start, end) is set
	HasAnyBits(start, end int64) (bool, error)

	// NextBit returns the smallest index >= from whose bit equals enabled,
	// or -1 if there is none
	NextBit(from int64, enabled bool) (int64, error)

	// PreviousBit returns the largest index <= from whose bit equals enabled,
	// or -1 if there is none
	PreviousBit(from int64, enabled bool) (int64, error)
}

// IMutableBitSet is an IBitSet that can also be modified.
// Range arguments are half-open: [start, end).
type IMutableBitSet interface {
	IBitSet

	// SetBit sets the bit at index to enabled
	SetBit(index int64, enabled bool) error

	// SetAllBits sets the bits in [start, end) to enabled
	SetAllBits(start, end int64, enabled bool) error

	// PutBit sets the bit at index to true
	PutBit(index int64) error

	// PutAllBits sets the bits in [start, end) to true
	PutAllBits(start, end int64) error

	// RemoveBit sets the bit at index to false
	RemoveBit(index int64) error

	// RemoveAllBits sets the bits in [start, end) to false
	RemoveAllBits(start, end int64) error

	// FlipBit inverts the bit at index
	FlipBit(index int64) error

	// FlipAllBits inverts the bits in [start, end)
	FlipAllBits(start, end int64) error
}

// forEachRunOf walks the runs of any IBitSet using NextBit, so bitsets other
// than CompressedBitSet can be compared run by run.
func forEachRunOf(bitSet IBitSet, fn func(start, end int64, enabled bool) bool) error {
	capacity := bitSet.Capacity()
	start := int64(0)
	for start < capacity {
		enabled, err := bitSet.HasBit(start)
		if err != nil {
			return err
		}
		end, err := bitSet.NextBit(start, !enabled)
		if err != nil {
			return err
		}
		if end == -1 {
			end = capacity
		}
		if !fn(start, end, enabled) {
			return nil
		}
		start = end
	}
	return nil
}
