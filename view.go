package runset

// bitSetView forwards every query to the bitset it was created from.
// It never mutates the bitset and must not outlive it.
type bitSetView struct {
	bitSet IBitSet
}

// ImmutableView returns a read-only IBitSet over _bitSet_. Changes made
// through _bitSet_ are visible through the view.
func ImmutableView(bitSet IMutableBitSet) IBitSet {
	return bitSetView{bitSet: bitSet}
}

func (view bitSetView) Capacity() int64 {
	return view.bitSet.Capacity()
}

func (view bitSetView) BitCount() int64 {
	return view.bitSet.BitCount()
}

func (view bitSetView) HasBit(index int64) (bool, error) {
	return view.bitSet.HasBit(index)
}

func (view bitSetView) HasAllBits(start, end int64) (bool, error) {
	return view.bitSet.HasAllBits(start, end)
}

func (view bitSetView) HasAnyBits(start, end int64) (bool, error) {
	return view.bitSet.HasAnyBits(start, end)
}

func (view bitSetView) NextBit(from int64, enabled bool) (int64, error) {
	return view.bitSet.NextBit(from, enabled)
}

func (view bitSetView) PreviousBit(from int64, enabled bool) (int64, error) {
	return view.bitSet.PreviousBit(from, enabled)
}
