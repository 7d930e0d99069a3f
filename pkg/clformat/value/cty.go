package value

import (
	"fmt"
	"math/big"
	"reflect"
	"unicode/utf8"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/gocty"
)

// CharType is the cty capsule type used to carry characters, which cty has
// no primitive for. Values of this type are produced by the char() literal
// function.
var CharType = cty.Capsule("char", reflect.TypeOf(rune(0)))

// CharFunc converts a one-character string into a CharType value.
var CharFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "str", Type: cty.String},
	},
	Type: function.StaticReturnType(CharType),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		s := args[0].AsString()
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || size != len(s) {
			return cty.NilVal, fmt.Errorf("char expects exactly one character, got %q", s)
		}
		return cty.CapsuleVal(CharType, &r), nil
	},
})

// FromCty converts a cty value into a Value. Whole numbers that fit into 64
// bits become Int or Uint, other numbers become Float. Lists, tuples and sets
// become sequences; maps and objects become sequences of [key, value] pairs
// in key order.
func FromCty(v cty.Value) (Value, error) {
	if !v.IsKnown() {
		return Nil(), fmt.Errorf("value: cannot convert unknown value of type %s", v.Type().FriendlyName())
	}
	if v.IsNull() {
		return Nil(), nil
	}

	ty := v.Type()

	switch {
	case ty == cty.String:
		return String(v.AsString()), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			var i int64
			if err := gocty.FromCtyValue(v, &i); err == nil {
				return Int(i), nil
			}
			if u, acc := bf.Uint64(); acc == big.Exact {
				return Uint(u), nil
			}
		}
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return Nil(), fmt.Errorf("value: could not convert number: %w", err)
		}
		return Float(f), nil

	case ty == cty.Bool:
		var b bool
		if err := gocty.FromCtyValue(v, &b); err != nil {
			return Nil(), fmt.Errorf("value: could not convert bool: %w", err)
		}
		return Bool(b), nil

	case ty.Equals(CharType):
		return Char(*v.EncapsulatedValue().(*rune)), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		vals := make([]Value, 0, v.LengthInt())
		it := v.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			conv, err := FromCty(elem)
			if err != nil {
				return Nil(), err
			}
			vals = append(vals, conv)
		}
		return Seq(vals...), nil

	case ty.IsObjectType() || ty.IsMapType():
		vals := make([]Value, 0)
		it := v.ElementIterator()
		for it.Next() {
			key, elem := it.Element()
			conv, err := FromCty(elem)
			if err != nil {
				return Nil(), fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			vals = append(vals, Seq(String(key.AsString()), conv))
		}
		return Seq(vals...), nil

	default:
		return Nil(), fmt.Errorf("value: unsupported cty type %s", ty.FriendlyName())
	}
}
