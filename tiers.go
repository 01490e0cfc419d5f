// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seqbuf

import (
	"unsafe"

	"github.com/temperlang/seqbuf/internal"
)

// AlignedMem returns a byte slice with the specified size and starting
// address aligned to the given page size.
//
// The returned slice shares underlying memory with a larger allocation;
// do not assume len(result) == cap(result).
func AlignedMem(size int, pageSize uintptr) []byte {
	p := make([]byte, uintptr(size)+pageSize-1)
	base := unsafe.Pointer(unsafe.SliceData(p))
	offset := ((uintptr(base)+pageSize-1)/pageSize)*pageSize - uintptr(base)
	return unsafe.Slice((*byte)(unsafe.Add(base, offset)), size)
}

// CacheLineSize is the CPU L1 cache line size for the current architecture,
// detected at compile time (see internal/cacheline_*.go).
const CacheLineSize = internal.CacheLineSize

// CacheLineAlignedMem returns a byte slice with the specified size and
// starting address aligned to the CPU cache line size.
//
// The channel ring storage uses this: the producer mutates only the written
// region and the consumer reads only the readable region, but both regions
// live in one backing array, so keeping the allocation cache-line aligned
// avoids false sharing between the two sides.
func CacheLineAlignedMem(size int) []byte {
	align := uintptr(CacheLineSize)
	p := make([]byte, uintptr(size)+align-1)
	base := unsafe.Pointer(unsafe.SliceData(p))
	offset := ((uintptr(base)+align-1)/align)*align - uintptr(base)
	return unsafe.Slice((*byte)(unsafe.Add(base, offset)), size)
}

// Growth-step tiers for packed storage capacity, following a power-of-4
// progression starting at 32 bytes. A growing value/bit storage rounds its
// requested byte footprint up to the next tier rather than doubling from an
// arbitrary starting point, giving the same amortized-O(1) append cost with
// a coarser, more allocator-friendly step table.
const (
	tierSizePico   = 1 << 5  // 32 B
	tierSizeNano   = 1 << 7  // 128 B
	tierSizeMicro  = 1 << 9  // 512 B
	tierSizeSmall  = 1 << 11 // 2 KiB
	tierSizeMedium = 1 << 13 // 8 KiB
	tierSizeBig    = 1 << 15 // 32 KiB
	tierSizeLarge  = 1 << 17 // 128 KiB
	tierSizeGreat  = 1 << 19 // 512 KiB
	tierSizeHuge   = 1 << 21 // 2 MiB
	tierSizeVast   = 1 << 23 // 8 MiB
	tierSizeGiant  = 1 << 25 // 32 MiB
	tierSizeTitan  = 1 << 27 // 128 MiB
)

var growthTiers = [...]int{
	tierSizePico, tierSizeNano, tierSizeMicro, tierSizeSmall,
	tierSizeMedium, tierSizeBig, tierSizeLarge, tierSizeGreat,
	tierSizeHuge, tierSizeVast, tierSizeGiant, tierSizeTitan,
}

// nextTierSize returns the smallest growth-tier size that can hold n bytes.
// For n larger than the largest tier, it falls back to doubling from the
// largest tier so capacity growth never stalls.
func nextTierSize(n int) int {
	for _, t := range growthTiers {
		if n <= t {
			return t
		}
	}
	size := tierSizeTitan
	for size < n {
		size *= 2
	}
	return size
}
