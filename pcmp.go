// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seqbuf

// PCmp is a partial order result: Less, Equal, Greater, or Unrelated.
// Cursors belonging to different buffers compare Unrelated rather than
// producing an arbitrary total order.
type PCmp int8

const (
	Less PCmp = iota
	Equal
	Greater
	Unrelated
)

// Neg swaps Less and Greater, leaving Equal and Unrelated fixed.
func (c PCmp) Neg() PCmp {
	switch c {
	case Less:
		return Greater
	case Greater:
		return Less
	default:
		return c
	}
}

// FromInt maps the sign of an int comparison (as from strings.Compare-style
// functions) to a PCmp.
func FromInt(n int) PCmp {
	switch {
	case n < 0:
		return Less
	case n > 0:
		return Greater
	default:
		return Equal
	}
}

func (c PCmp) String() string {
	switch c {
	case Less:
		return "less"
	case Equal:
		return "equal"
	case Greater:
		return "greater"
	default:
		return "unrelated"
	}
}
