// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seqbuf

// Pool is a generic object pool interface with configurable blocking semantics.
//
// Implementations may operate in blocking or non-blocking mode. In blocking
// mode, Get blocks until an item is available and Put blocks until space
// is available. In non-blocking mode, both operations return iox.ErrWouldBlock
// instead of blocking.
//
// All implementations must be safe for concurrent use.
type Pool[T any] interface {
	// Put returns the item to the pool.
	// Returns iox.ErrWouldBlock if non-blocking and full.
	Put(item T) error

	// Get acquires an item from the pool.
	// Returns iox.ErrWouldBlock if non-blocking and empty.
	Get() (item T, err error)
}

// IndirectPool manages items by index rather than by value, enabling
// zero-copy access to pooled buffers.
//
// The pool stores buffer indices (int) rather than buffer values directly.
// This design allows:
//   - Zero-copy buffer access via Value() without moving large buffers
//   - Efficient pool operations (only small integers are enqueued/dequeued)
//   - Clear ownership semantics through index hand-off
//
// Usage pattern:
//
//	idx, _ := pool.Get()     // Acquire buffer index
//	buf := pool.Value(idx)   // Access buffer by index
//	// Use buf...
//	pool.Put(idx)            // Return buffer to pool
type IndirectPool[T any] interface {
	Pool[int]

	// Value returns the item associated with the given indirect index.
	// The caller must have acquired this index via Get.
	Value(indirect int) T

	// SetValue updates the item at the specified indirect index.
	// The caller must have acquired this index via Get.
	SetValue(indirect int, item T)
}
