// Package value defines the runtime values that flow through format arguments.
//
// A Value is a closed tagged type: every argument handed to a control is one of
// nil, bool, int, uint, float, char, string, sequence or custom. Custom values wrap
// arbitrary Go values and expose their rendering through the Formatter and
// DebugFormatter capability interfaces.
package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindChar
	KindString
	KindSeq
	KindCustom
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindChar:
		return "char"
	case KindString:
		return "string"
	case KindSeq:
		return "sequence"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Formatter is implemented by custom values that provide their own
// human-readable rendering for ~A.
type Formatter interface {
	FormatString() string
}

// DebugFormatter is implemented by custom values that provide a debug
// rendering for the colon variants of ~A, ~S and ~W.
type DebugFormatter interface {
	FormatDebug() string
}

// Value is a single runtime argument.
type Value struct {
	kind Kind

	b      bool
	i      int64
	u      uint64
	f      float64
	r      rune
	s      string
	seq    []Value
	custom any
}

// ============================================================
// Constructors
// ============================================================

// Nil returns the absent value.
func Nil() Value { return Value{} }

// Bool creates a boolean value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Int creates a signed integer value.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Uint creates an unsigned integer value.
func Uint(v uint64) Value { return Value{kind: KindUint, u: v} }

// Float creates a floating point value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Char creates a character value.
func Char(v rune) Value { return Value{kind: KindChar, r: v} }

// String creates a string value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Seq creates an ordered sequence.
func Seq(values ...Value) Value {
	if values == nil {
		values = []Value{}
	}
	return Value{kind: KindSeq, seq: values}
}

// Custom wraps an arbitrary Go value. A nil x yields Nil.
func Custom(x any) Value {
	if x == nil {
		return Nil()
	}
	return Value{kind: KindCustom, custom: x}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v is the absent value.
func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

func (v Value) AsUint() (uint64, bool) { return v.u, v.kind == KindUint }

func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsChar returns the character held by v. A string holding exactly one rune
// is accepted as well.
func (v Value) AsChar() (rune, bool) {
	switch v.kind {
	case KindChar:
		return v.r, true
	case KindString:
		rs := []rune(v.s)
		if len(rs) == 1 {
			return rs[0], true
		}
	}
	return 0, false
}

// AsString returns the string held by v. Characters are widened to strings.
func (v Value) AsString() (string, bool) {
	switch v.kind {
	case KindString:
		return v.s, true
	case KindChar:
		return string(v.r), true
	}
	return "", false
}

// Elements returns the elements of a sequence.
func (v Value) Elements() ([]Value, bool) {
	if v.kind != KindSeq {
		return nil, false
	}
	return v.seq, true
}

// Len returns the number of elements of a sequence, or 0.
func (v Value) Len() int { return len(v.seq) }

// Interface returns the wrapped Go value of a custom value.
func (v Value) Interface() (any, bool) {
	if v.kind != KindCustom {
		return nil, false
	}
	return v.custom, true
}

// Equal reports whether v and o hold the same variant and payload.
// Custom values compare with ==, so they must wrap comparable types.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindUint:
		return v.u == o.u
	case KindFloat:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case KindChar:
		return v.r == o.r
	case KindString:
		return v.s == o.s
	case KindSeq:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	default:
		return v.custom == o.custom
	}
}

// ============================================================
// Rendering
// ============================================================

// String returns the human-readable rendering used by ~A.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindFloat:
		return FormatFloat(v.f)
	case KindChar:
		return string(v.r)
	case KindString:
		return v.s
	case KindSeq:
		return v.join(Value.String)
	default:
		if f, ok := v.custom.(Formatter); ok {
			return f.FormatString()
		}
		return describe(v.custom)
	}
}

// Describe returns the rendering used by ~W. Custom values render through
// fmt.Stringer or error before falling back to fmt's default.
func (v Value) Describe() string {
	switch v.kind {
	case KindSeq:
		return v.join(Value.Describe)
	case KindCustom:
		return describe(v.custom)
	default:
		return v.String()
	}
}

// Quoted returns the rendering used by ~S: strings and characters are
// quoted, everything else renders as with String.
func (v Value) Quoted() string {
	switch v.kind {
	case KindString:
		return `"` + v.s + `"`
	case KindChar:
		return "'" + string(v.r) + "'"
	case KindSeq:
		return v.join(Value.Quoted)
	default:
		return v.String()
	}
}

// Debug returns the debug rendering used by the colon variants of ~A, ~S
// and ~W.
func (v Value) Debug() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.s)
	case KindChar:
		return strconv.QuoteRune(v.r)
	case KindSeq:
		return v.join(Value.Debug)
	case KindCustom:
		if f, ok := v.custom.(DebugFormatter); ok {
			return f.FormatDebug()
		}
		return fmt.Sprintf("%#v", v.custom)
	default:
		return v.String()
	}
}

func (v Value) join(render func(Value) string) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range v.seq {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(render(e))
	}
	sb.WriteByte(']')
	return sb.String()
}

func describe(x any) string {
	switch t := x.(type) {
	case fmt.Stringer:
		return t.String()
	case error:
		return t.Error()
	default:
		return fmt.Sprint(x)
	}
}

// FormatFloat renders f the way generic directives print floats: plain
// decimal notation with at least one fraction digit for moderate
// magnitudes, and the shortest exponent form otherwise.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
