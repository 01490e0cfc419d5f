// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seqbuf

// ICur is the read-side cursor protocol: a value type that borrows,
// non-owning, from the buffer it was produced by. Cursors never
// outlive their buffer in any exposed API, so no weak-reference scheme is
// needed.
//
// Cursors on different buffers compare Unrelated rather than producing an
// arbitrary total order; CountBetweenExceeds answers Fail for the same
// reason, plus whenever the "later" cursor is not actually later.
type ICur[E any] interface {
	// Pos reports the cursor's linear position for display/debugging. It is
	// not meaningful across buffer kinds (a channel cursor's position is an
	// absolute count that never wraps; ChanCursor derives its ring cycle and
	// index from it).
	Pos() int

	// Advance returns a cursor Δ positions ahead, or (_, false) if that
	// would move past the end of the currently readable region.
	Advance(delta int) (ICur[E], bool)

	// Read returns the element at the cursor, or (_, false) past the end.
	Read() (E, bool)

	// ReadInto copies up to n elements starting at the cursor into
	// dest[di:], returning the count actually copied.
	ReadInto(dest []E, di, n int) int

	// CountBetweenExceeds answers whether other's position is at least n
	// past this cursor's position. It is Fail, not False, when the two
	// cursors belong to different buffers or other precedes self: an
	// ill-posed question gets the distinct third answer, not a guess.
	CountBetweenExceeds(other ICur[E], n int) TB

	// Cmp partially orders this cursor against other: Unrelated when they
	// do not share a buffer.
	Cmp(other ICur[E]) PCmp
}

// OCur is the write-side cursor protocol.
type OCur[E any] interface {
	ICur[E]

	// NeedCapacity ensures at least n more elements of room exist ahead of
	// the cursor and reports the resulting capacity. For plain buffers this
	// grows the backing storage; channel writer cursors instead block until
	// free space exists (channel.go), returning 0 on close.
	NeedCapacity(n int) int
}
