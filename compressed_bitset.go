package runset

import (
	"fmt"
	"math"
	"strings"
)

// CompressedBitSet is a run-length compressed implementation of IMutableBitSet.
// _capacity_ is fixed at creation; valid bit indices are [0, capacity).
// _chain_ holds the maximal runs of identical bits covering [0, capacity).
//
// The zero value is an empty bitset spanning the whole non-negative int64
// range, like NewDefaultCompressedBitSet.
//
// A CompressedBitSet is not safe for concurrent use. Callers sharing one
// across goroutines must synchronize access themselves.
type CompressedBitSet struct {
	chain *runChain
}

// NewCompressedBitSet creates a new CompressedBitSet of capacity _capacity_
// with every bit unset
func NewCompressedBitSet(capacity int64) (*CompressedBitSet, error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	return &CompressedBitSet{chain: newRunChain(capacity, false)}, nil
}

// NewDefaultCompressedBitSet creates a CompressedBitSet spanning the whole
// non-negative int64 range
func NewDefaultCompressedBitSet() *CompressedBitSet {
	return &CompressedBitSet{chain: newRunChain(math.MaxInt64, false)}
}

func (bitSet *CompressedBitSet) runs() *runChain {
	if bitSet.chain == nil {
		bitSet.chain = newRunChain(math.MaxInt64, false)
	}
	return bitSet.chain
}

// Capacity returns the exclusive upper bound of valid bit indices
func (bitSet *CompressedBitSet) Capacity() int64 {
	return bitSet.runs().capacity
}

// RunCount returns the number of maximal runs in the bitset
func (bitSet *CompressedBitSet) RunCount() int {
	return bitSet.runs().count()
}

// BitCount returns the total number of set bits in the bitset
func (bitSet *CompressedBitSet) BitCount() int64 {
	return bitSet.runs().bitCount()
}

// HasBit checks if the bit at index _index_ is set
func (bitSet *CompressedBitSet) HasBit(index int64) (bool, error) {
	if err := bitSet.checkIndex(index); err != nil {
		return false, err
	}
	chain := bitSet.runs()
	return chain.runs[chain.locate(index)].enabled, nil
}

// HasAllBits checks if every bit in [start, end) is set
func (bitSet *CompressedBitSet) HasAllBits(start, end int64) (bool, error) {
	if err := bitSet.checkRange(start, end); err != nil {
		return false, err
	}
	chain := bitSet.runs()
	first := chain.locate(start)
	if chain.walk(first, end-1) != first {
		return false, nil
	}
	return chain.runs[first].enabled, nil
}

// HasAnyBits checks if at least one bit in [start, end) is set.
// A range crossing a run boundary always has one: adjacent runs alternate.
func (bitSet *CompressedBitSet) HasAnyBits(start, end int64) (bool, error) {
	if err := bitSet.checkRange(start, end); err != nil {
		return false, err
	}
	chain := bitSet.runs()
	first := chain.locate(start)
	if chain.walk(first, end-1) != first {
		return true, nil
	}
	return chain.runs[first].enabled, nil
}

// NextBit returns the first index >= from whose bit equals _enabled_, or -1
func (bitSet *CompressedBitSet) NextBit(from int64, enabled bool) (int64, error) {
	if err := bitSet.checkIndex(from); err != nil {
		return -1, err
	}
	chain := bitSet.runs()
	current := chain.locate(from)
	if chain.runs[current].enabled == enabled {
		return from, nil
	}
	next := chain.runs[current].next
	if next == noRun {
		return -1, nil
	}
	return chain.runs[next].start, nil
}

// PreviousBit returns the last index <= from whose bit equals _enabled_, or -1
func (bitSet *CompressedBitSet) PreviousBit(from int64, enabled bool) (int64, error) {
	if err := bitSet.checkIndex(from); err != nil {
		return -1, err
	}
	chain := bitSet.runs()
	current := chain.locate(from)
	if chain.runs[current].enabled == enabled {
		return from, nil
	}
	if chain.runs[current].prev == noRun {
		return -1, nil
	}
	return chain.runs[current].start - 1, nil
}

// SetBit sets the bit at index _index_ to _enabled_
func (bitSet *CompressedBitSet) SetBit(index int64, enabled bool) error {
	if err := bitSet.checkIndex(index); err != nil {
		return err
	}
	chain := bitSet.runs()
	chain.setAll(chain.locate(index), index, index+1, enabled)
	return nil
}

// SetAllBits sets every bit in [start, end) to _enabled_
func (bitSet *CompressedBitSet) SetAllBits(start, end int64, enabled bool) error {
	if err := bitSet.checkRange(start, end); err != nil {
		return err
	}
	chain := bitSet.runs()
	chain.setAll(chain.locate(start), start, end, enabled)
	return nil
}

// PutBit sets the bit at index _index_
func (bitSet *CompressedBitSet) PutBit(index int64) error {
	return bitSet.SetBit(index, true)
}

// PutAllBits sets every bit in [start, end)
func (bitSet *CompressedBitSet) PutAllBits(start, end int64) error {
	return bitSet.SetAllBits(start, end, true)
}

// RemoveBit clears the bit at index _index_
func (bitSet *CompressedBitSet) RemoveBit(index int64) error {
	return bitSet.SetBit(index, false)
}

// RemoveAllBits clears every bit in [start, end)
func (bitSet *CompressedBitSet) RemoveAllBits(start, end int64) error {
	return bitSet.SetAllBits(start, end, false)
}

// FlipBit inverts the bit at index _index_
func (bitSet *CompressedBitSet) FlipBit(index int64) error {
	if err := bitSet.checkIndex(index); err != nil {
		return err
	}
	chain := bitSet.runs()
	chain.flip(chain.locate(index), index, index+1)
	return nil
}

// FlipAllBits inverts every bit in [start, end)
func (bitSet *CompressedBitSet) FlipAllBits(start, end int64) error {
	if err := bitSet.checkRange(start, end); err != nil {
		return err
	}
	chain := bitSet.runs()
	chain.flipAll(chain.locate(start), start, end)
	return nil
}

// ForEachRun calls fn for every maximal run [start, end) in ascending order
// until fn returns false
func (bitSet *CompressedBitSet) ForEachRun(fn func(start, end int64, enabled bool) bool) {
	chain := bitSet.runs()
	for current := chain.head; current != noRun; current = chain.runs[current].next {
		if !fn(chain.runs[current].start, chain.end(current), chain.runs[current].enabled) {
			return
		}
	}
}

// Clone returns an independent copy of the bitset
func (bitSet *CompressedBitSet) Clone() *CompressedBitSet {
	return &CompressedBitSet{chain: bitSet.runs().clone()}
}

// ImmutableView returns a read-only handle on the bitset
func (bitSet *CompressedBitSet) ImmutableView() IBitSet {
	return ImmutableView(bitSet)
}

// Equals checks if two bitsets have the same capacity and the same bits.
// _otherBitSet_ may be any IBitSet; it is compared run by run.
func (bitSet *CompressedBitSet) Equals(otherBitSet IBitSet) (bool, error) {
	if otherBitSet == nil {
		return false, fmt.Errorf("runset: can't compare with a nil bitset")
	}
	if bitSet.Capacity() != otherBitSet.Capacity() {
		return false, nil
	}
	chain := bitSet.runs()
	current := chain.head
	equal := true
	err := forEachRunOf(otherBitSet, func(start, end int64, enabled bool) bool {
		if current == noRun ||
			chain.runs[current].start != start ||
			chain.end(current) != end ||
			chain.runs[current].enabled != enabled {
			equal = false
			return false
		}
		current = chain.runs[current].next
		return true
	})
	if err != nil {
		return false, err
	}
	return equal && current == noRun, nil
}

// String renders the runs of the bitset, e.g. CompressedBitSet{10: [0,2):0 [2,5):1 [5,10):0}
func (bitSet *CompressedBitSet) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CompressedBitSet{%d:", bitSet.Capacity())
	bitSet.ForEachRun(func(start, end int64, enabled bool) bool {
		bit := 0
		if enabled {
			bit = 1
		}
		fmt.Fprintf(&sb, " [%d,%d):%d", start, end, bit)
		return true
	})
	sb.WriteString("}")
	return sb.String()
}
