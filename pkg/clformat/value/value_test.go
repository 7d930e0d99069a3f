package value

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct{ x, y int }

func (p point) FormatString() string { return "point" }
func (p point) FormatDebug() string  { return "point{x,y}" }

type label string

func (l label) String() string { return "label:" + string(l) }

func TestOf(t *testing.T) {
	var nilPtr *int
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Nil()},
		{"int", 42, Int(42)},
		{"int8", int8(-3), Int(-3)},
		{"uint small", uint64(7), Int(7)},
		{"uint large", uint64(math.MaxUint64), Uint(math.MaxUint64)},
		{"float32", float32(1.5), Float(1.5)},
		{"float64", 2.25, Float(2.25)},
		{"bool", true, Bool(true)},
		{"string", "hi", String("hi")},
		{"bytes", []byte("raw"), String("raw")},
		{"value passthrough", Char('x'), Char('x')},
		{"any slice", []any{1, "a", nil}, Seq(Int(1), String("a"), Nil())},
		{"typed slice", []string{"a", "b"}, Seq(String("a"), String("b"))},
		{"array", [2]int{1, 2}, Seq(Int(1), Int(2))},
		{"nested", [][]int{{1}, {2, 3}}, Seq(Seq(Int(1)), Seq(Int(2), Int(3)))},
		{"nil pointer", nilPtr, Nil()},
		{"map", map[string]int{"b": 2, "a": 1}, Seq(Seq(String("a"), Int(1)), Seq(String("b"), Int(2)))},
		{"named string", label("x"), Custom(label("x"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Of(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Of(%v) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestRendering(t *testing.T) {
	tests := []struct {
		name                         string
		v                            Value
		str, describe, quoted, debug string
	}{
		{"nil", Nil(), "nil", "nil", "nil", "nil"},
		{"int", Int(-12), "-12", "-12", "-12", "-12"},
		{"float", Float(3), "3.0", "3.0", "3.0", "3.0"},
		{"char", Char('a'), "a", "a", "'a'", "'a'"},
		{"string", String("a\"b"), "a\"b", "a\"b", "\"a\"b\"", `"a\"b"`},
		{"seq", Seq(Int(1), String("two")), "[1, two]", "[1, two]", `[1, "two"]`, `[1, "two"]`},
		{"custom formatter", Custom(point{1, 2}), "point", "{1 2}", "point", "point{x,y}"},
		{"custom stringer", Custom(label("q")), "label:q", "label:q", "label:q", `"q"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.str, tt.v.String(), "String")
			assert.Equal(t, tt.describe, tt.v.Describe(), "Describe")
			assert.Equal(t, tt.quoted, tt.v.Quoted(), "Quoted")
			assert.Equal(t, tt.debug, tt.v.Debug(), "Debug")
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{123456.78901, "123456.78901"},
		{-2.5, "-2.5"},
		{12345678.1234, "12345678.1234"},
		{12345678901234567.1234, "1.2345678901234568e+16"},
		{0.00001, "1e-05"},
		{math.Inf(1), "inf"},
		{math.NaN(), "nan"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFloat(tt.in), "FormatFloat(%v)", tt.in)
	}
}

func TestAccessors(t *testing.T) {
	r, ok := String("Ü").AsChar()
	require.True(t, ok)
	assert.Equal(t, 'Ü', r)

	_, ok = String("ab").AsChar()
	assert.False(t, ok)

	s, ok := Char('z').AsString()
	require.True(t, ok)
	assert.Equal(t, "z", s)

	_, ok = Int(1).Elements()
	assert.False(t, ok)

	assert.True(t, Nil().IsNil())
	assert.False(t, Bool(false).IsNil())

	assert.Equal(t, KindCustom, Of(errors.New("boom")).Kind())
	assert.Equal(t, "boom", Of(errors.New("boom")).String())
}

func TestEqual(t *testing.T) {
	assert.True(t, Seq(Int(1), Seq(String("a"))).Equal(Seq(Int(1), Seq(String("a")))))
	assert.False(t, Int(1).Equal(Uint(1)))
	assert.False(t, Seq(Int(1)).Equal(Seq(Int(1), Int(2))))
	assert.True(t, Float(math.NaN()).Equal(Float(math.NaN())))
}
