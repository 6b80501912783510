package spscq

import "math"

// cacheLineSize is a reasonable default for modern CPUs. The padding
// fields in the queue structs use cpu.CacheLinePad, which agrees with
// this on all supported architectures.
const cacheLineSize = 64

// ringIdx holds the wrap arithmetic for a ring of a fixed allocated size.
//
// When the size is a power of two the wrap is a bitmask AND, otherwise a
// modulo. Both paths agree for every size where both are valid; the mask
// is size-1, never a function of log2(size).
type ringIdx struct {
	size uint64
	mask uint64
	pow2 bool
}

func newRingIdx(size uint64) ringIdx {
	r := ringIdx{size: size}
	if size&(size-1) == 0 {
		r.pow2 = true
		r.mask = size - 1
	}
	return r
}

// next returns (i+1) wrapped to [0, size). i must already be in range.
func (r ringIdx) next(i uint64) uint64 {
	if r.pow2 {
		return (i + 1) & r.mask
	}
	i++
	if i == r.size {
		return 0
	}
	return i
}

// wrap maps a monotonically increasing position onto a slot index.
func (r ringIdx) wrap(i uint64) uint64 {
	if r.pow2 {
		return i & r.mask
	}
	return i % r.size
}

// guardSlots returns how many elements of size elemSize cover at least
// one cache line. Zero-size elements cannot share a cache line with
// anything, so they need no guard.
func guardSlots(elemSize uintptr) uint64 {
	if elemSize == 0 {
		return 0
	}
	return uint64((cacheLineSize + elemSize - 1) / elemSize)
}

// checkAlloc validates that totalSlots elements of elemSize bytes fit in
// the address space. totalSlots includes the slack slot and any guard
// padding.
func checkAlloc(totalSlots uint64, elemSize uintptr) error {
	if totalSlots > math.MaxInt {
		return ErrInvalidCapacity
	}
	if elemSize > 0 && totalSlots > uint64(math.MaxInt)/uint64(elemSize) {
		return ErrInvalidCapacity
	}
	return nil
}
