// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seqbuf

import (
	"sync"
	"unsafe"

	"code.hybscloud.com/iox"
)

// Chan is a bounded single-producer/single-consumer ring buffer. No
// assumption is made about goroutine identity: coordinating more than one
// producer or more than one consumer is the caller's responsibility.
//
// The ring's three regions (readable, written-but-uncommitted, free) are
// tracked as counters against one monotonically increasing absolute
// position rather than as a (cycle, index) pair: consumed is the absolute
// position of the readable region's start, and readable/written measure
// forward from there. A cursor's externally meaningful (cycle, index)
// pair is derived on demand from its absolute pos via Cycle/Index;
// internally, plain uint64 arithmetic sidesteps wraparound bookkeeping
// entirely and is exactly equivalent.
type Chan[E any] struct {
	mu         sync.Mutex
	readReady  sync.Cond
	writeReady sync.Cond
	data       []E
	cap        uint64
	consumed   uint64 // absolute position of read_start
	readable   uint64 // n_readable
	written    uint64 // n_written
	closed     bool

	writer ChanWriter[E]
	reader ChanReader[E]
}

// newRing allocates the ring's backing array. Flat (non-pointer) element
// channels get a cache-line-aligned allocation, since the producer's
// written region and the consumer's readable region share one backing
// array; reference channels fall back to a plain make([]E, n) because
// reslicing a raw aligned byte buffer as []E for a pointer-containing E
// would hide those pointers from the garbage collector's scan of the
// allocation.
func newRing[E any](capacity int, aligned bool) []E {
	if !aligned {
		return make([]E, capacity)
	}
	var zero E
	elemSize := int(unsafe.Sizeof(zero))
	if elemSize <= 0 {
		elemSize = 1
	}
	buf := CacheLineAlignedMem(capacity * elemSize)
	return unsafe.Slice((*E)(unsafe.Pointer(unsafe.SliceData(buf))), capacity)
}

// newChan constructs a channel with the given capacity, which must be at
// least 2. aligned should be true only for flat value-transport element
// types; see newRing.
func newChan[E any](capacity int, aligned bool) *Chan[E] {
	if capacity < 2 {
		panic("seqbuf: channel capacity must be at least 2")
	}
	ch := &Chan[E]{data: newRing[E](capacity, aligned), cap: uint64(capacity)}
	ch.readReady.L = &ch.mu
	ch.writeReady.L = &ch.mu
	ch.writer.ch = ch
	ch.reader.ch = ch
	return ch
}

// Cap reports the channel's fixed ring capacity.
func (ch *Chan[E]) Cap() int { return int(ch.cap) }

// Writer returns the channel's writer-side handle.
func (ch *Chan[E]) Writer() *ChanWriter[E] { return &ch.writer }

// Reader returns the channel's reader-side handle.
func (ch *Chan[E]) Reader() *ChanReader[E] { return &ch.reader }

func (ch *Chan[E]) releaseRangeLocked(a, b uint64) {
	var zero E
	for p := a; p < b; p++ {
		ch.data[int(p%ch.cap)] = zero
	}
}

// ChanCursor is the channel's cursor value type: a ring identity plus an
// absolute position. It implements both ICur (reads of committed,
// readable data) and OCur (NeedCapacity, for a writer's cursor); the
// same shape serves either side, since position comparison and advance
// work identically on both.
type ChanCursor[E any] struct {
	ch  *Chan[E]
	pos uint64
}

// Pos reports the cursor's absolute position for display/debugging.
func (c ChanCursor[E]) Pos() int { return int(c.pos) }

// Cycle reports how many times the ring has wrapped at this cursor's
// position.
func (c ChanCursor[E]) Cycle() uint64 { return c.pos / c.ch.cap }

// Index reports the physical ring slot at this cursor's position.
func (c ChanCursor[E]) Index() int { return int(c.pos % c.ch.cap) }

// Advance returns a cursor delta positions ahead, or (_, false) if that
// would move past the currently committed readable region's end. It never
// blocks; waiting for more data to become committed is Read/ReadInto's job.
func (c ChanCursor[E]) Advance(delta int) (ICur[E], bool) {
	if delta < 0 {
		panic("seqbuf: negative advance delta")
	}
	ch := c.ch
	ch.mu.Lock()
	bound := ch.consumed + ch.readable
	ch.mu.Unlock()
	np := c.pos + uint64(delta)
	if np > bound {
		return nil, false
	}
	return ChanCursor[E]{ch: ch, pos: np}, true
}

// Read blocks until the element at this cursor's position is committed and
// readable, or the channel closes first.
func (c ChanCursor[E]) Read() (E, bool) {
	ch := c.ch
	ch.mu.Lock()
	defer ch.mu.Unlock()
	for {
		if c.pos >= ch.consumed && c.pos < ch.consumed+ch.readable {
			return ch.data[int(c.pos%ch.cap)], true
		}
		if ch.closed {
			var zero E
			return zero, false
		}
		ch.readReady.Wait()
	}
}

// ReadInto copies up to n elements starting at this cursor into dest[di:],
// taking the largest contiguous available span per iteration and handling
// ring wraparound with a second sub-copy. It blocks only while nothing has
// been copied yet and the channel remains open; it returns early once the
// channel closes or once some progress has been made and no more is
// immediately available.
func (c ChanCursor[E]) ReadInto(dest []E, di, n int) int {
	ch := c.ch
	pos := c.pos
	read := 0
	for read < n {
		ch.mu.Lock()
		for pos >= ch.consumed+ch.readable && !ch.closed && read == 0 {
			ch.readReady.Wait()
		}
		avail := uint64(0)
		if pos < ch.consumed+ch.readable {
			avail = ch.consumed + ch.readable - pos
		}
		if avail == 0 {
			ch.mu.Unlock()
			break
		}
		want := uint64(n - read)
		if want > avail {
			want = avail
		}
		idx := int(pos % ch.cap)
		run := int(want)
		if idx+run > int(ch.cap) {
			run = int(ch.cap) - idx
		}
		ch.mu.Unlock()
		copy(dest[di+read:di+read+run], ch.data[idx:idx+run])
		read += run
		pos += uint64(run)
	}
	return read
}

// TryRead is Read's non-blocking counterpart: it returns iox.ErrWouldBlock
// instead of waiting when the position is not yet committed, and
// iox.EOF once the channel has closed with nothing left to deliver there.
func (c ChanCursor[E]) TryRead() (E, error) {
	ch := c.ch
	ch.mu.Lock()
	defer ch.mu.Unlock()
	var zero E
	if c.pos >= ch.consumed && c.pos < ch.consumed+ch.readable {
		return ch.data[int(c.pos%ch.cap)], nil
	}
	if ch.closed {
		return zero, iox.EOF
	}
	return zero, iox.ErrWouldBlock
}

// TryReadInto is ReadInto's non-blocking counterpart: it copies whatever
// contiguous span is immediately available without waiting, returning
// iox.ErrWouldBlock (or iox.EOF once closed) only when nothing at all was
// copied.
func (c ChanCursor[E]) TryReadInto(dest []E, di, n int) (int, error) {
	ch := c.ch
	ch.mu.Lock()
	avail := uint64(0)
	if c.pos < ch.consumed+ch.readable {
		avail = ch.consumed + ch.readable - c.pos
	}
	if avail == 0 {
		closed := ch.closed
		ch.mu.Unlock()
		if closed {
			return 0, iox.EOF
		}
		return 0, iox.ErrWouldBlock
	}
	want := uint64(n)
	if want > avail {
		want = avail
	}
	idx := int(c.pos % ch.cap)
	run := int(want)
	if idx+run > int(ch.cap) {
		run = int(ch.cap) - idx
	}
	ch.mu.Unlock()
	copy(dest[di:di+run], ch.data[idx:idx+run])
	return run, nil
}

// CountBetweenExceeds answers whether other's absolute position is at
// least n past this cursor's; positions are absolute, so no cross-cycle
// normalization is needed. It is Fail when the cursors belong to different
// channels or other precedes self, and always False when n exceeds the
// ring's capacity (the ring cannot host that many live elements at once).
func (c ChanCursor[E]) CountBetweenExceeds(other ICur[E], n int) TB {
	oc, ok := other.(ChanCursor[E])
	if !ok || oc.ch != c.ch {
		return Fail
	}
	if oc.pos < c.pos {
		return Fail
	}
	if uint64(n) > c.ch.cap {
		return False
	}
	if oc.pos-c.pos >= uint64(n) {
		return True
	}
	return False
}

// Cmp partially orders this cursor against other: Unrelated when they do
// not share a channel.
func (c ChanCursor[E]) Cmp(other ICur[E]) PCmp {
	oc, ok := other.(ChanCursor[E])
	if !ok || oc.ch != c.ch {
		return Unrelated
	}
	switch {
	case c.pos < oc.pos:
		return Less
	case c.pos > oc.pos:
		return Greater
	default:
		return Equal
	}
}

// NeedCapacity blocks until at least one free ring slot exists and returns
// the currently available free slot count, or 0 once the channel is
// closed. n is accepted for interface symmetry with plain-buffer cursors
// but is otherwise unused: a ring cannot grow, so the question is only
// whether any free cell exists, not whether n of them do.
func (c ChanCursor[E]) NeedCapacity(n int) int {
	ch := c.ch
	ch.mu.Lock()
	defer ch.mu.Unlock()
	for {
		if ch.closed {
			return 0
		}
		free := ch.cap - ch.readable - ch.written
		if free > 0 {
			return int(free)
		}
		ch.writeReady.Wait()
	}
}

// WriterSpans returns up to two IoVec descriptors covering the channel's
// current writable region, for callers feeding the ring from a vectored
// read (readv-style) instead of one element at a time. The returned spans
// describe live ring memory and are invalidated by the next
// Append/AppendSlice/Commit.
func (ch *Chan[E]) WriterSpans() []IoVec {
	ch.mu.Lock()
	start := ch.consumed + ch.readable + ch.written
	free := ch.cap - ch.readable - ch.written
	ch.mu.Unlock()
	return ch.spansFor(start, free)
}

// ReaderSpans returns up to two IoVec descriptors covering the channel's
// current readable region, for callers draining the ring into a vectored
// write (writev-style) instead of one element at a time. The returned
// spans describe live ring memory and are invalidated by the next reader
// Commit.
func (ch *Chan[E]) ReaderSpans() []IoVec {
	ch.mu.Lock()
	start := ch.consumed
	n := ch.readable
	ch.mu.Unlock()
	return ch.spansFor(start, n)
}

func (ch *Chan[E]) spansFor(start, n uint64) []IoVec {
	if n == 0 {
		return nil
	}
	var zero E
	elemSize := uint64(unsafe.Sizeof(zero))
	if elemSize == 0 {
		elemSize = 1
	}
	idx := int(start % ch.cap)
	first := n
	if uint64(idx)+first > ch.cap {
		first = ch.cap - uint64(idx)
	}
	spans := make([]IoVec, 0, 2)
	spans = append(spans, IoVec{
		Base: (*byte)(unsafe.Pointer(&ch.data[idx])),
		Len:  first * elemSize,
	})
	if rem := n - first; rem > 0 {
		spans = append(spans, IoVec{
			Base: (*byte)(unsafe.Pointer(&ch.data[0])),
			Len:  rem * elemSize,
		})
	}
	return spans
}

// ChanWriter is the channel's writer-side handle.
type ChanWriter[E any] struct {
	ch *Chan[E]
}

// Append writes v once ring space is available, blocking if the ring is
// full. It is a silent no-op once the channel is closed.
func (w *ChanWriter[E]) Append(v E) {
	ch := w.ch
	ch.mu.Lock()
	for !ch.closed && ch.readable+ch.written == ch.cap {
		ch.writeReady.Wait()
	}
	if ch.closed {
		ch.mu.Unlock()
		return
	}
	pos := ch.consumed + ch.readable + ch.written
	ch.written++
	ch.mu.Unlock()
	ch.data[int(pos%ch.cap)] = v
	ch.readReady.Broadcast()
}

// TryAppend is Append's non-blocking counterpart: it returns
// iox.ErrWouldBlock instead of waiting when the ring is full, and nil
// (without writing) once the channel is closed.
func (w *ChanWriter[E]) TryAppend(v E) error {
	ch := w.ch
	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()
		return nil
	}
	if ch.readable+ch.written == ch.cap {
		ch.mu.Unlock()
		return iox.ErrWouldBlock
	}
	pos := ch.consumed + ch.readable + ch.written
	ch.written++
	ch.mu.Unlock()
	ch.data[int(pos%ch.cap)] = v
	ch.readReady.Broadcast()
	return nil
}

// AppendSlice repeatedly claims whatever ring space is contiguously free,
// writes as much of s[l:r] as fits, and returns the total count appended.
// It blocks only while nothing has been written yet; once some elements
// have gone in and no more space remains it returns without blocking
// further.
func (w *ChanWriter[E]) AppendSlice(s []E, l, r int) int {
	ch := w.ch
	total := 0
	for l < r {
		ch.mu.Lock()
		for !ch.closed && ch.readable+ch.written == ch.cap && total == 0 {
			ch.writeReady.Wait()
		}
		if ch.closed {
			ch.mu.Unlock()
			break
		}
		free := ch.cap - ch.readable - ch.written
		if free == 0 {
			ch.mu.Unlock()
			break
		}
		want := uint64(r - l)
		if want > free {
			want = free
		}
		pos := ch.consumed + ch.readable + ch.written
		idx := int(pos % ch.cap)
		run := int(want)
		if idx+run > int(ch.cap) {
			run = int(ch.cap) - idx
		}
		ch.written += uint64(run)
		ch.mu.Unlock()
		copy(ch.data[idx:idx+run], s[l:l+run])
		ch.readReady.Broadcast()
		total += run
		l += run
	}
	return total
}

// TryAppendSlice is AppendSlice's non-blocking counterpart: it claims
// whatever contiguous space is immediately free without waiting, returning
// iox.ErrWouldBlock only when nothing at all could be written.
func (w *ChanWriter[E]) TryAppendSlice(s []E, l, r int) (int, error) {
	ch := w.ch
	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()
		return 0, nil
	}
	free := ch.cap - ch.readable - ch.written
	if free == 0 {
		ch.mu.Unlock()
		return 0, iox.ErrWouldBlock
	}
	want := uint64(r - l)
	if want > free {
		want = free
	}
	pos := ch.consumed + ch.readable + ch.written
	idx := int(pos % ch.cap)
	run := int(want)
	if idx+run > int(ch.cap) {
		run = int(ch.cap) - idx
	}
	ch.written += uint64(run)
	ch.mu.Unlock()
	copy(ch.data[idx:idx+run], s[l:l+run])
	ch.readReady.Broadcast()
	return run, nil
}

// End returns a fresh cursor at the current write end, one past the last
// uncommitted element.
func (w *ChanWriter[E]) End() ChanCursor[E] {
	ch := w.ch
	ch.mu.Lock()
	pos := ch.consumed + ch.readable + ch.written
	ch.mu.Unlock()
	return ChanCursor[E]{ch: ch, pos: pos}
}

// Snapshot is an alias for End: a writer's snapshot is its write end.
func (w *ChanWriter[E]) Snapshot() ChanCursor[E] { return w.End() }

// Commit publishes the prefix of the uncommitted written region up to cur,
// moving it into the readable region.
func (w *ChanWriter[E]) Commit(c ICur[E]) {
	ch := w.ch
	cur, ok := c.(ChanCursor[E])
	if !ok || cur.ch != ch {
		panic("seqbuf: commit with a cursor from another channel")
	}
	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()
		return
	}
	writeStart := ch.consumed + ch.readable
	writeEnd := writeStart + ch.written
	if cur.pos < writeStart || cur.pos > writeEnd {
		ch.mu.Unlock()
		panic("seqbuf: commit cursor outside the writer's uncommitted region")
	}
	delta := cur.pos - writeStart
	ch.written -= delta
	ch.readable += delta
	ch.mu.Unlock()
	ch.readReady.Broadcast()
}

// Restore rolls back the uncommitted written region to cur. It does not
// wake the write monitor: only the producer rolls back, and it is already
// running.
func (w *ChanWriter[E]) Restore(c ICur[E]) {
	ch := w.ch
	cur, ok := c.(ChanCursor[E])
	if !ok || cur.ch != ch {
		panic("seqbuf: restore with a cursor from another channel")
	}
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.closed {
		return
	}
	writeStart := ch.consumed + ch.readable
	writeEnd := writeStart + ch.written
	if cur.pos < writeStart || cur.pos > writeEnd {
		panic("seqbuf: restore cursor outside the writer's uncommitted region")
	}
	ch.written -= writeEnd - cur.pos
}

// NeedCapacity blocks until at least one free ring slot exists, per
// ChanCursor.NeedCapacity.
func (w *ChanWriter[E]) NeedCapacity(n int) int {
	return ChanCursor[E]{ch: w.ch}.NeedCapacity(n)
}

// Close marks the channel closed, releases any cells in the uncommitted
// written region (they will never become visible to a reader), and wakes
// both monitors.
func (w *ChanWriter[E]) Close() {
	ch := w.ch
	ch.mu.Lock()
	if ch.closed {
		ch.mu.Unlock()
		return
	}
	ch.closed = true
	start := ch.consumed + ch.readable
	ch.releaseRangeLocked(start, start+ch.written)
	ch.written = 0
	ch.mu.Unlock()
	ch.readReady.Broadcast()
	ch.writeReady.Broadcast()
}

// ChanReader is the channel's reader-side handle.
type ChanReader[E any] struct {
	ch *Chan[E]
}

// Start returns a cursor at read_start.
func (r *ChanReader[E]) Start() ChanCursor[E] {
	ch := r.ch
	ch.mu.Lock()
	pos := ch.consumed
	ch.mu.Unlock()
	return ChanCursor[E]{ch: ch, pos: pos}
}

// End returns a cursor at the read end (= write_start, exclusive).
func (r *ChanReader[E]) End() ChanCursor[E] {
	ch := r.ch
	ch.mu.Lock()
	pos := ch.consumed + ch.readable
	ch.mu.Unlock()
	return ChanCursor[E]{ch: ch, pos: pos}
}

// Snapshot returns the reader's current start cursor.
func (r *ChanReader[E]) Snapshot() ChanCursor[E] { return r.Start() }

// Restore is a no-op: a reader can never un-consume already-committed
// data.
func (r *ChanReader[E]) Restore(c ICur[E]) {
	cur, ok := c.(ChanCursor[E])
	if !ok || cur.ch != r.ch {
		panic("seqbuf: restore with a cursor from another channel")
	}
}

// Commit releases the prefix of the readable region up to cur back to the
// free region and wakes the write monitor. The vacated cells are zeroed so
// a reference channel does not pin user objects through a long-lived ring.
func (r *ChanReader[E]) Commit(c ICur[E]) {
	ch := r.ch
	cur, ok := c.(ChanCursor[E])
	if !ok || cur.ch != ch {
		panic("seqbuf: commit with a cursor from another channel")
	}
	ch.mu.Lock()
	if cur.pos < ch.consumed || cur.pos > ch.consumed+ch.readable {
		ch.mu.Unlock()
		panic("seqbuf: commit cursor outside the reader's readable region")
	}
	delta := cur.pos - ch.consumed
	ch.releaseRangeLocked(ch.consumed, ch.consumed+delta)
	ch.consumed += delta
	ch.readable -= delta
	ch.mu.Unlock()
	ch.writeReady.Broadcast()
}

// Close commits the reader's end cursor (releasing any buffered content's
// retention) and closes the underlying channel.
func (r *ChanReader[E]) Close() {
	ch := r.ch
	ch.mu.Lock()
	delta := ch.readable
	ch.releaseRangeLocked(ch.consumed, ch.consumed+delta)
	ch.consumed += delta
	ch.readable = 0
	ch.closed = true
	ch.mu.Unlock()
	ch.readReady.Broadcast()
	ch.writeReady.Broadcast()
}
