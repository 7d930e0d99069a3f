package value

import (
	"fmt"
	"math"
	"reflect"
	"sort"
)

// Of converts a Go value into a Value.
//
// Integers, floats, strings and booleans map onto their kinds. Slices and
// arrays become sequences, maps become sequences of [key, value] pairs
// ordered by the rendered key, and nil pointers become Nil. Everything else
// is wrapped as a custom value. Note that rune is an alias of int32 and
// therefore converts to an Int; use Char for characters.
func Of(x any) Value {
	switch t := x.(type) {
	case nil:
		return Nil()
	case Value:
		return t
	case *Value:
		if t == nil {
			return Nil()
		}
		return *t
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint:
		return fromUint(uint64(t))
	case uint8:
		return Int(int64(t))
	case uint16:
		return Int(int64(t))
	case uint32:
		return Int(int64(t))
	case uint64:
		return fromUint(t)
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case string:
		return String(t)
	case []byte:
		return String(string(t))
	case []Value:
		return Seq(t...)
	case []any:
		return List(t...)
	case Formatter, DebugFormatter, fmt.Stringer, error:
		return Custom(t)
	}
	return ofReflect(reflect.ValueOf(x))
}

// List converts each Go value with Of and returns the results as a sequence.
func List(xs ...any) Value {
	vals := make([]Value, len(xs))
	for i, x := range xs {
		vals[i] = Of(x)
	}
	return Seq(vals...)
}

// Values converts Go values into an argument list.
func Values(xs ...any) []Value {
	vals := make([]Value, len(xs))
	for i, x := range xs {
		vals[i] = Of(x)
	}
	return vals
}

func fromUint(u uint64) Value {
	if u <= math.MaxInt64 {
		return Int(int64(u))
	}
	return Uint(u)
}

func ofReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Nil()
		}
		return Custom(rv.Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return Seq()
		}
		fallthrough
	case reflect.Array:
		vals := make([]Value, rv.Len())
		for i := range vals {
			vals[i] = Of(rv.Index(i).Interface())
		}
		return Seq(vals...)
	case reflect.Map:
		type pair struct {
			key string
			val Value
		}
		pairs := make([]pair, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := Of(iter.Key().Interface())
			pairs = append(pairs, pair{key: k.String(), val: Seq(k, Of(iter.Value().Interface()))})
		}
		sort.Slice(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })
		vals := make([]Value, len(pairs))
		for i, p := range pairs {
			vals[i] = p.val
		}
		return Seq(vals...)
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return fromUint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float())
	case reflect.String:
		return String(rv.String())
	case reflect.Invalid:
		return Nil()
	default:
		return Custom(rv.Interface())
	}
}
