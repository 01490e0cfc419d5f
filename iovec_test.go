// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seqbuf_test

import (
	"testing"
	"unsafe"

	"github.com/temperlang/seqbuf"
)

func TestIoVecFromBytesSlice(t *testing.T) {
	t.Run("empty slice", func(t *testing.T) {
		addr, n := seqbuf.IoVecFromBytesSlice(nil)
		if addr != 0 || n != 0 {
			t.Errorf("expected (0, 0), got (%d, %d)", addr, n)
		}
	})

	t.Run("single buffer", func(t *testing.T) {
		buf := make([]byte, 128)
		buf[0] = 0xAB
		iov := [][]byte{buf}
		addr, n := seqbuf.IoVecFromBytesSlice(iov)
		if n != 1 {
			t.Errorf("expected n=1, got %d", n)
		}
		if addr == 0 {
			t.Error("expected non-zero address")
		}
	})

	t.Run("multiple buffers", func(t *testing.T) {
		bufs := [][]byte{
			make([]byte, 64),
			make([]byte, 128),
			make([]byte, 256),
		}
		addr, n := seqbuf.IoVecFromBytesSlice(bufs)
		if n != 3 {
			t.Errorf("expected n=3, got %d", n)
		}
		if addr == 0 {
			t.Error("expected non-zero address")
		}
	})
}

func TestIoVecAddrLen(t *testing.T) {
	t.Run("empty slice", func(t *testing.T) {
		addr, n := seqbuf.IoVecAddrLen(nil)
		if addr != 0 || n != 0 {
			t.Errorf("expected (0, 0), got (%d, %d)", addr, n)
		}
	})

	t.Run("non-empty slice", func(t *testing.T) {
		vec := make([]seqbuf.IoVec, 4)
		addr, n := seqbuf.IoVecAddrLen(vec)
		if n != 4 {
			t.Errorf("expected n=4, got %d", n)
		}
		if addr == 0 {
			t.Error("expected non-zero address")
		}
		expectedAddr := uintptr(unsafe.Pointer(&vec[0]))
		if addr != expectedAddr {
			t.Errorf("expected addr=%d, got %d", expectedAddr, addr)
		}
	})
}

func TestChan_WriterReaderSpans(t *testing.T) {
	ch := seqbuf.BuilderForBytes().BuildChannel(8)
	w, r := ch.Writer(), ch.Reader()

	n := w.NeedCapacity(3)
	if n < 3 {
		t.Fatalf("NeedCapacity(3) = %d, want >= 3", n)
	}
	if err := w.TryAppend('a'); err != nil {
		t.Fatalf("TryAppend('a') failed: %v", err)
	}
	if err := w.TryAppend('b'); err != nil {
		t.Fatalf("TryAppend('b') failed: %v", err)
	}
	if err := w.TryAppend('c'); err != nil {
		t.Fatalf("TryAppend('c') failed: %v", err)
	}
	w.Commit(w.End())

	spans := ch.ReaderSpans()
	if len(spans) == 0 {
		t.Fatal("expected at least one readable span")
	}
	var total uint64
	for _, s := range spans {
		total += s.Len
	}
	if total != 3 {
		t.Errorf("total readable span length = %d, want 3", total)
	}

	wspans := ch.WriterSpans()
	if len(wspans) == 0 {
		t.Fatal("expected at least one writable span")
	}
	_ = r
}
