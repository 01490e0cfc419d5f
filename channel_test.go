// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seqbuf

import (
	"sync"
	"testing"

	"code.hybscloud.com/iox"
)

func TestChan_InvalidCapacityPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("newChan with capacity 1 did not panic")
		}
	}()
	newChan[byte](1, true)
}

func TestChan_WriteCommitReadCommit(t *testing.T) {
	ch := newChan[byte](4, true)
	w, r := ch.Writer(), ch.Reader()

	w.Append('a')
	w.Append('b')
	w.Commit(w.End())

	var c ICur[byte] = r.Start()
	v, ok := c.Read()
	if !ok || v != 'a' {
		t.Fatalf("Read() = (%c, %v), want ('a', true)", v, ok)
	}
	c, _ = c.Advance(1)
	v, ok = c.Read()
	if !ok || v != 'b' {
		t.Fatalf("Read() = (%c, %v), want ('b', true)", v, ok)
	}
	c, _ = c.Advance(1)
	r.Commit(c)
}

// alphabetProducerConsumer exercises a channel of the given capacity by
// writing the 26-letter alphabet one element at a time while a concurrent
// reader drains it one element at a time, mirroring the boundary scenario
// of running a fixed byte stream through every small ring size.
func alphabetProducerConsumer(t *testing.T, capacity int) {
	ch := newChan[byte](capacity, true)
	w, r := ch.Writer(), ch.Reader()

	const alphabet = "abcdefghijklmnopqrstuvwxyz"
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		defer w.Close()
		for i := 0; i < len(alphabet); i++ {
			w.Append(alphabet[i])
			w.Commit(w.End())
		}
	}()

	var got []byte
	go func() {
		defer wg.Done()
		var c ICur[byte] = r.Start()
		for {
			v, ok := c.Read()
			if !ok {
				return
			}
			got = append(got, v)
			c, ok = c.Advance(1)
			if !ok {
				return
			}
			r.Commit(c)
		}
	}()

	wg.Wait()
	if string(got) != alphabet {
		t.Errorf("capacity %d: got %q, want %q", capacity, string(got), alphabet)
	}
}

func TestChan_AlphabetAtSmallCapacities(t *testing.T) {
	for capacity := 2; capacity <= 6; capacity++ {
		alphabetProducerConsumer(t, capacity)
	}
}

// alphabetBulkChunks exercises AppendSlice/ReadInto bulk transfer at a given
// ring capacity, chunking the alphabet into 5-element pieces; the whole
// alphabet is longer than every ring tested, so the writer and reader both
// observe wraparound.
func alphabetBulkChunks(t *testing.T, capacity int) {
	ch := newChan[byte](capacity, true)
	w, r := ch.Writer(), ch.Reader()

	const alphabet = "abcdefghijklmnopqrstuvwxyz"
	const chunk = 5

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		defer w.Close()
		for i := 0; i < len(alphabet); i += chunk {
			end := i + chunk
			if end > len(alphabet) {
				end = len(alphabet)
			}
			s := []byte(alphabet[i:end])
			l := 0
			for l < len(s) {
				n := w.AppendSlice(s, l, len(s))
				l += n
				w.Commit(w.End())
			}
		}
	}()

	got := make([]byte, 0, len(alphabet))
	go func() {
		defer wg.Done()
		var c ICur[byte] = r.Start()
		dest := make([]byte, chunk)
		for {
			n := c.ReadInto(dest, 0, chunk)
			if n == 0 {
				return
			}
			got = append(got, dest[:n]...)
			var ok bool
			c, ok = c.Advance(n)
			if !ok {
				return
			}
			r.Commit(c)
		}
	}()

	wg.Wait()
	if string(got) != alphabet {
		t.Errorf("capacity %d: got %q, want %q", capacity, string(got), alphabet)
	}
}

func TestChan_BulkChunksAtVariousCapacities(t *testing.T) {
	for _, capacity := range []int{7, 9, 11, 13} {
		alphabetBulkChunks(t, capacity)
	}
}

func TestChan_TryAppendWouldBlockWhenFull(t *testing.T) {
	ch := newChan[byte](2, true)
	w := ch.Writer()
	if err := w.TryAppend('a'); err != nil {
		t.Fatalf("first TryAppend failed: %v", err)
	}
	if err := w.TryAppend('b'); err != nil {
		t.Fatalf("second TryAppend failed: %v", err)
	}
	if err := w.TryAppend('c'); err != iox.ErrWouldBlock {
		t.Fatalf("TryAppend on full ring = %v, want iox.ErrWouldBlock", err)
	}
}

func TestChan_CloseUnblocksReader(t *testing.T) {
	ch := newChan[byte](4, true)
	w, r := ch.Writer(), ch.Reader()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c := r.Start()
		_, ok := c.Read()
		if ok {
			t.Error("Read() after Close should report ok=false")
		}
	}()

	w.Close()
	<-done
}

func TestChan_NoValueVisibleBeforeCommit(t *testing.T) {
	ch := newChan[byte](4, true)
	w, r := ch.Writer(), ch.Reader()
	w.Append('a')
	w.Append('b')
	if _, err := r.Start().TryRead(); err != iox.ErrWouldBlock {
		t.Fatalf("TryRead before commit = %v, want iox.ErrWouldBlock", err)
	}
	w.Commit(w.End())
	if v, err := r.Start().TryRead(); err != nil || v != 'a' {
		t.Fatalf("TryRead after commit = (%c, %v), want ('a', nil)", v, err)
	}
}

func TestChan_TryReadReportsEOFAfterDrain(t *testing.T) {
	ch := newChan[byte](4, true)
	w, r := ch.Writer(), ch.Reader()
	w.Append('x')
	w.Commit(w.End())
	w.Close()

	c := r.Start()
	if v, err := c.TryRead(); err != nil || v != 'x' {
		t.Fatalf("TryRead = (%c, %v), want ('x', nil)", v, err)
	}
	next, ok := c.Advance(1)
	if !ok {
		t.Fatal("Advance(1) over a committed element failed")
	}
	r.Commit(next)
	if _, err := next.(ChanCursor[byte]).TryRead(); err != iox.EOF {
		t.Fatalf("TryRead past the drained end = %v, want iox.EOF", err)
	}
}

func TestChan_WriterRestoreDiscardsUncommitted(t *testing.T) {
	ch := newChan[byte](4, true)
	w, r := ch.Writer(), ch.Reader()

	mark := w.End()
	w.Append('z')
	w.Restore(mark)
	w.Commit(w.End())
	if _, err := r.Start().TryRead(); err != iox.ErrWouldBlock {
		t.Fatalf("rolled-back element became visible: TryRead = %v, want iox.ErrWouldBlock", err)
	}

	w.Append('a')
	w.Commit(w.End())
	if v, err := r.Start().TryRead(); err != nil || v != 'a' {
		t.Fatalf("TryRead = (%c, %v), want ('a', nil)", v, err)
	}
}

func TestChanCursor_CycleAndIndexAcrossWraps(t *testing.T) {
	ch := newChan[byte](4, true)
	w, r := ch.Writer(), ch.Reader()

	for i := 0; i < 6; i++ {
		w.Append(byte('a' + i))
		w.Commit(w.End())
		c, ok := r.Start().Advance(1)
		if !ok {
			t.Fatalf("Advance failed at element %d", i)
		}
		r.Commit(c)
	}

	end := w.End()
	if end.Cycle() != 1 || end.Index() != 2 {
		t.Errorf("writer end after 6 elements = (cycle %d, index %d), want (1, 2)", end.Cycle(), end.Index())
	}
	if got := r.Start().CountBetweenExceeds(end, 5); got != False {
		t.Errorf("CountBetweenExceeds with a larger-than-capacity count = %v, want False", got)
	}
}

func TestChan_CrossChannelCursorsAreUnrelated(t *testing.T) {
	a := newChan[byte](4, true)
	b := newChan[byte](4, true)
	if a.Reader().Start().Cmp(b.Reader().Start()) != Unrelated {
		t.Error("cross-channel Cmp did not return Unrelated")
	}
}

func TestChan_NeedCapacityReturnsZeroOnClose(t *testing.T) {
	ch := newChan[byte](2, true)
	w := ch.Writer()
	w.Append('a')
	w.Append('b')

	done := make(chan struct{})
	go func() {
		defer close(done)
		n := w.NeedCapacity(1)
		if n != 0 {
			t.Errorf("NeedCapacity() after Close = %d, want 0", n)
		}
	}()
	w.Close()
	<-done
}
