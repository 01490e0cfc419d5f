// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seqbuf

// Builder ties an element type to a concrete storage and produces one of
// ROBuf, IOBuf, or Chan from it. A Builder may be used more than once:
// each Build* method copies the initial contents supplied at construction
// into a fresh storage instance, so calling more than one Build* method on
// the same Builder produces independent buffers rather than aliasing views
// of one another.
type Builder[E any] struct {
	isRef   bool
	aligned bool
	kind    *CUK
	initial []E
}

// BuilderForReferences returns a Builder for a reference-transport sequence:
// its Chan uses a plain (non-cache-aligned) backing array, since the ring
// cannot be safely reinterpreted from a raw aligned byte buffer without
// hiding pointers from the garbage collector (see newRing).
func BuilderForReferences[E any](initial ...E) *Builder[E] {
	return &Builder[E]{isRef: true, aligned: false, initial: initial}
}

// BuilderForValues returns a Builder for a packed value transport of the
// given code-unit kind. prim must match kind.Prim; it is accepted
// explicitly, rather than derived from kind, so the zero value of a
// mismatched instantiation fails obviously at the call site instead of
// silently reinterpreting bytes.
func BuilderForValues[E any](kind CUK, prim PrimTag, initial ...E) *Builder[E] {
	if kind.Prim != prim {
		panic("seqbuf: builder prim tag does not match code-unit kind")
	}
	k := kind
	return &Builder[E]{isRef: false, aligned: true, kind: &k, initial: initial}
}

// BuilderForBits returns a Builder for the BIT code-unit kind.
func BuilderForBits(initial ...bool) *Builder[bool] {
	k := BIT
	return &Builder[bool]{isRef: false, aligned: true, kind: &k, initial: initial}
}

// BuilderForBytes returns a Builder for the BYTE code-unit kind.
func BuilderForBytes(initial ...byte) *Builder[byte] {
	k := BYTE
	return &Builder[byte]{isRef: false, aligned: true, kind: &k, initial: initial}
}

// BuilderForChars returns a Builder for the UTF16 code-unit kind.
func BuilderForChars(initial ...uint16) *Builder[uint16] {
	k := UTF16
	return &Builder[uint16]{isRef: false, aligned: true, kind: &k, initial: initial}
}

// BuilderForShorts returns a Builder over 16-bit signed values, carried with
// the same physical layout as UTF16 code units.
func BuilderForShorts(initial ...int16) *Builder[int16] {
	k := UTF16
	return &Builder[int16]{isRef: false, aligned: true, kind: &k, initial: initial}
}

// BuilderForInts returns a Builder for the INT32 code-unit kind.
func BuilderForInts(initial ...int32) *Builder[int32] {
	k := INT32
	return &Builder[int32]{isRef: false, aligned: true, kind: &k, initial: initial}
}

// BuilderForUints returns a Builder over 32-bit unsigned values, carried
// with the same physical layout as INT32/UTF32 code units.
func BuilderForUints(initial ...uint32) *Builder[uint32] {
	k := UTF32
	return &Builder[uint32]{isRef: false, aligned: true, kind: &k, initial: initial}
}

// BuilderForLongs returns a Builder for the INT64 code-unit kind.
func BuilderForLongs(initial ...int64) *Builder[int64] {
	k := INT64
	return &Builder[int64]{isRef: false, aligned: true, kind: &k, initial: initial}
}

// BuilderForFloats returns a Builder for the FLOAT32 code-unit kind.
func BuilderForFloats(initial ...float32) *Builder[float32] {
	k := FLOAT32
	return &Builder[float32]{isRef: false, aligned: true, kind: &k, initial: initial}
}

// BuilderForDoubles returns a Builder for the FLOAT64 code-unit kind.
func BuilderForDoubles(initial ...float64) *Builder[float64] {
	k := FLOAT64
	return &Builder[float64]{isRef: false, aligned: true, kind: &k, initial: initial}
}

// newEmptyStorage returns a fresh, empty storage of the Builder's element
// family: bit-packed storage for the BIT kind, flat slice storage otherwise.
// The runtime assertion ties the bit transport to bool elements; a Builder
// instantiated with any other E and a bool-primed kind is a wrong-transport
// contract violation and panics here.
func (b *Builder[E]) newEmptyStorage() storage[E] {
	if b.kind != nil && b.kind.Prim == PrimBool {
		return any(newBitStorage(nil)).(storage[E])
	}
	return newSliceStorage[E](b.isRef, b.kind, nil)
}

func (b *Builder[E]) newStorage() storage[E] {
	st := b.newEmptyStorage()
	if len(b.initial) > 0 {
		st.BulkWrite(0, b.initial, 0, len(b.initial))
	}
	return st
}

// BuildReadOnly returns an ROBuf pre-populated with the Builder's initial
// contents, already frozen.
func (b *Builder[E]) BuildReadOnly() *ROBuf[E] {
	st := b.newStorage()
	frozen := st.Freeze(0, st.Len())
	return newROBuf(frozen)
}

// BuildReadWrite returns an IOBuf pre-populated with the Builder's initial
// contents, open for further Append/AppendSlice calls.
func (b *Builder[E]) BuildReadWrite() *IOBuf[E] {
	return newIOBuf(b.newStorage())
}

// BuildChannel returns a Chan of the given ring capacity. The Builder's
// initial contents, if any, are not carried into the channel: a channel's
// contents are whatever its writer commits, not a pre-populated backlog.
//
// A BIT channel's ring holds one bool per cell rather than packing eight
// per byte: the producer and consumer touch disjoint cells without holding
// the ring lock, and a packed byte straddling the readable/written boundary
// would break that disjointness.
func (b *Builder[E]) BuildChannel(capacity int) *Chan[E] {
	return newChan[E](capacity, b.aligned)
}

// NewScratchPool returns a BoundedPool of reusable read-write scratch
// buffers, each with capacity preallocated via EnsureCapacity. It is
// independent of Chan's read/write path: pooled buffers are handed out by
// index, filled by a caller, and returned, with no lock-free structure on
// the channel's own hot path.
func (b *Builder[E]) NewScratchPool(poolCapacity, bufferCapacity int) *BoundedPool[*IOBuf[E]] {
	pool := NewBoundedPool[*IOBuf[E]](poolCapacity)
	pool.Fill(func() *IOBuf[E] {
		buf := newIOBuf[E](b.newEmptyStorage())
		buf.EnsureCapacity(bufferCapacity)
		return buf
	})
	return pool
}
