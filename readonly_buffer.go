// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seqbuf

// ROBuf is a frozen view over immutable storage. It is produced by
// IOBuf.Freeze and shares no mutable state with the buffer it came from.
type ROBuf[E any] struct {
	st storage[E]
}

func newROBuf[E any](st storage[E]) *ROBuf[E] {
	return &ROBuf[E]{st: st}
}

// Len reports the buffer's fixed length.
func (b *ROBuf[E]) Len() int { return b.st.Len() }

func (b *ROBuf[E]) readAt(i int) E { return b.st.ReadAt(i) }

// Start returns a cursor at index 0.
func (b *ROBuf[E]) Start() ICur[E] { return roCursor[E]{buf: b, pos: 0} }

// End returns a cursor at the end sentinel, index Len().
func (b *ROBuf[E]) End() ICur[E] { return roCursor[E]{buf: b, pos: b.st.Len()} }

// Snapshot returns the buffer's current end cursor. Since ROBuf never
// mutates, this always equals End().
func (b *ROBuf[E]) Snapshot() ICur[E] { return b.End() }

// Restore accepts only cursors this buffer emitted, panicking on any
// other, and performs no mutation: ROBuf has no length to roll back.
func (b *ROBuf[E]) Restore(cur ICur[E]) {
	c, ok := cur.(roCursor[E])
	if !ok || c.buf != b {
		panic("seqbuf: restore with a cursor from another buffer")
	}
}

// roCursor is the cursor type ROBuf hands out. It implements ICur[E]; ROBuf
// has no growable capacity, so it does not implement OCur.
type roCursor[E any] struct {
	buf *ROBuf[E]
	pos int
}

func (c roCursor[E]) Pos() int { return c.pos }

func (c roCursor[E]) Advance(delta int) (ICur[E], bool) {
	if delta < 0 {
		panic("seqbuf: negative advance delta")
	}
	np := c.pos + delta
	if np > c.buf.Len() {
		return nil, false
	}
	return roCursor[E]{buf: c.buf, pos: np}, true
}

func (c roCursor[E]) Read() (E, bool) {
	var zero E
	if c.pos >= c.buf.Len() {
		return zero, false
	}
	return c.buf.readAt(c.pos), true
}

func (c roCursor[E]) ReadInto(dest []E, di, n int) int {
	avail := c.buf.Len() - c.pos
	if n > avail {
		n = avail
	}
	room := len(dest) - di
	if n > room {
		n = room
	}
	if n <= 0 {
		return 0
	}
	for i := 0; i < n; i++ {
		dest[di+i] = c.buf.readAt(c.pos + i)
	}
	return n
}

func (c roCursor[E]) CountBetweenExceeds(other ICur[E], n int) TB {
	oc, ok := other.(roCursor[E])
	if !ok || oc.buf != c.buf {
		return Fail
	}
	delta := oc.pos - c.pos
	if delta < 0 {
		return Fail
	}
	if delta >= n {
		return True
	}
	return False
}

func (c roCursor[E]) Cmp(other ICur[E]) PCmp {
	oc, ok := other.(roCursor[E])
	if !ok || oc.buf != c.buf {
		return Unrelated
	}
	return FromInt(c.pos - oc.pos)
}
