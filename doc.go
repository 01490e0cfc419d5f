// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package seqbuf provides append-only and bounded-ring sequence buffers for
// passing runtime values between producers and consumers without copying
// more than necessary.
//
// Three buffer kinds share one cursor protocol:
//
//	ROBuf[E]  read-only, immutable once produced
//	IOBuf[E]  append-only, grows until frozen into an ROBuf or abandoned
//	Chan[E]   bounded ring buffer shared by one writer and one reader
//
// # Cursors
//
// All three kinds are read through cursors rather than indices. ICur[E]
// covers position, bounded advance, single and bulk reads, and comparison.
// OCur[E] additionally exposes NeedCapacity, for the writer side of an IOBuf
// or Chan. Cursors from one buffer are never valid against another: the
// comparison methods (CountBetweenExceeds, Cmp) answer Fail or Unrelated for
// a foreign cursor, while Restore and Commit panic on one.
//
// # Storage
//
// Builder selects a concrete element-transport storage per CUK (code-unit
// kind): bit-packed storage for BIT, and flat slice storage for every other
// kind, reference or value. Both grow along the same power-of-4 tier
// progression (tiers.go); a channel ring has a fixed capacity and does not
// grow.
//
// # Channels and cancellation
//
// Chan[E] is a mutex-and-condvar bounded ring, not lock-free; BoundedPool is
// the package's one lock-free structure, and it sits outside the channel's
// read/write path as an optional scratch-buffer recycler. A blocked Append,
// Read, or NeedCapacity call is unblocked by another goroutine calling
// Close, which is the only portable way to interrupt a blocked waiter in Go.
//
// # Dependencies
//
// seqbuf depends on:
//   - iox: Semantic error types (ErrWouldBlock, EOF) and adaptive backoff
//   - spin: Spin-wait primitives used by BoundedPool
package seqbuf
