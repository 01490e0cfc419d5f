// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package seqbuf

// TB is a three-valued truth used whenever a question posed of a cursor
// pair is not well-formed, e.g. comparing positions across two unrelated
// buffers. It is not a boolean-with-an-error-bit: Fail is a distinct,
// well-typed third answer, not a failure to compute one of the other two.
type TB int8

const (
	False TB = iota
	True
	Fail
)

// Not negates a TB value. Not(Fail) is Fail: negating an ill-posed question
// does not make it well-posed.
func (t TB) Not() TB {
	switch t {
	case True:
		return False
	case False:
		return True
	default:
		return Fail
	}
}

func (t TB) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "fail"
	}
}
