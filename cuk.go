// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seqbuf

// PrimTag identifies the native Go representation backing a CUK.
type PrimTag int8

const (
	PrimBool PrimTag = iota
	PrimByte
	PrimChar16
	PrimInt32
	PrimInt64
	PrimFloat32
	PrimFloat64
)

func (p PrimTag) String() string {
	switch p {
	case PrimBool:
		return "bool"
	case PrimByte:
		return "byte"
	case PrimChar16:
		return "char16"
	case PrimInt32:
		return "int32"
	case PrimInt64:
		return "int64"
	case PrimFloat32:
		return "float32"
	case PrimFloat64:
		return "float64"
	default:
		return "prim(unknown)"
	}
}

// CUK (code-unit kind) is an immutable descriptor for the physical
// representation family of a packed element: its bit-width range and the
// Go primitive type that carries it.
type CUK struct {
	Name    string
	MinBits uint8
	MaxBits uint8
	Prim    PrimTag
}

// OctetAligned reports whether both bit-width bounds are byte-multiples.
func (k CUK) OctetAligned() bool {
	return k.MinBits%8 == 0 && k.MaxBits%8 == 0
}

// FixedWidth reports whether every value of this kind has the same width.
func (k CUK) FixedWidth() bool {
	return k.MinBits == k.MaxBits
}

func (k CUK) String() string {
	return k.Name
}

// The nine built-in code-unit kinds from the external interface table.
var (
	BIT     = CUK{Name: "BIT", MinBits: 1, MaxBits: 1, Prim: PrimBool}
	BYTE    = CUK{Name: "BYTE", MinBits: 8, MaxBits: 8, Prim: PrimByte}
	UTF8    = CUK{Name: "UTF8", MinBits: 8, MaxBits: 32, Prim: PrimInt32}
	UTF16   = CUK{Name: "UTF16", MinBits: 16, MaxBits: 16, Prim: PrimChar16}
	UTF32   = CUK{Name: "UTF32", MinBits: 32, MaxBits: 32, Prim: PrimInt32}
	INT32   = CUK{Name: "INT32", MinBits: 32, MaxBits: 32, Prim: PrimInt32}
	FLOAT32 = CUK{Name: "FLOAT32", MinBits: 32, MaxBits: 32, Prim: PrimFloat32}
	INT64   = CUK{Name: "INT64", MinBits: 64, MaxBits: 64, Prim: PrimInt64}
	FLOAT64 = CUK{Name: "FLOAT64", MinBits: 64, MaxBits: 64, Prim: PrimFloat64}
)

// CUKTable returns the nine built-in code-unit kinds, in the order given by
// the external interface table.
func CUKTable() []CUK {
	return []CUK{BIT, BYTE, UTF8, UTF16, UTF32, INT32, FLOAT32, INT64, FLOAT64}
}
