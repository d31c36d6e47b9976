package runset

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCapacity is returned when a bitset is created with capacity <= 0.
	ErrInvalidCapacity = errors.New("capacity must be greater than 0")

	// ErrIndexOutOfRange is returned when a bit index is outside [0, capacity).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidRange is returned when a [start, end) range is rejected.
	// Note that end must be strictly less than the capacity.
	ErrInvalidRange = errors.New("invalid range")

	// ErrCorruptEncoding is returned when decoding input violates the run layout.
	ErrCorruptEncoding = errors.New("corrupt encoding")

	// ErrCapacityOverflow is returned when a conversion target can't address the full capacity.
	ErrCapacityOverflow = errors.New("capacity overflow")

	// ErrRedisNotConfigured is returned by redis operations before MakeRedisClient is called.
	ErrRedisNotConfigured = errors.New("redis client is not configured, call MakeRedisClient first")
)

func checkCapacity(capacity int64) error {
	if capacity <= 0 {
		return fmt.Errorf("runset: %w: %d", ErrInvalidCapacity, capacity)
	}
	return nil
}

func (bitSet *CompressedBitSet) checkIndex(index int64) error {
	if index < 0 || index >= bitSet.Capacity() {
		return fmt.Errorf("runset: %w: bit must be between 0 and %d: %d", ErrIndexOutOfRange, bitSet.Capacity(), index)
	}
	return nil
}

func (bitSet *CompressedBitSet) checkRange(start, end int64) error {
	if start < 0 {
		return fmt.Errorf("runset: %w: start must be positive: %d", ErrInvalidRange, start)
	}
	if end <= start {
		return fmt.Errorf("runset: %w: end must be greater than start: %d <= %d", ErrInvalidRange, end, start)
	}
	if end >= bitSet.Capacity() {
		return fmt.Errorf("runset: %w: end must be less than capacity: %d >= %d", ErrInvalidRange, end, bitSet.Capacity())
	}
	return nil
}
