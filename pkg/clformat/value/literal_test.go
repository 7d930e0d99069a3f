package value

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestParseLiterals(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Value
	}{
		{"empty", "   ", nil},
		{"scalars", `1, "two", 3.5, true, null`, []Value{Int(1), String("two"), Float(3.5), Bool(true), Nil()}},
		{"nested", `["hot", "dog"], ["hamburger"]`, []Value{
			Seq(String("hot"), String("dog")),
			Seq(String("hamburger")),
		}},
		{"negative", `-7`, []Value{Int(-7)}},
		{"char", `char("Ü"), "A"`, []Value{Char('Ü'), String("A")}},
		{"object", `{b = 2, a = "x"}`, []Value{Seq(Seq(String("a"), String("x")), Seq(String("b"), Int(2)))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLiterals(tt.src)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseLiterals(%q) mismatch (-want +got):\n%s", tt.src, diff)
			}
		})
	}
}

func TestParseLiteralsErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `1, [`},
		{"variable", `foo`},
		{"bad char", `char("ab")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLiterals(tt.src)
			assert.Error(t, err)
		})
	}
}

func TestFromCty(t *testing.T) {
	big := cty.MustParseNumberVal("18446744073709551615")
	got, err := FromCty(big)
	require.NoError(t, err)
	assert.Equal(t, KindUint, got.Kind())

	got, err = FromCty(cty.NullVal(cty.String))
	require.NoError(t, err)
	assert.True(t, got.IsNil())

	_, err = FromCty(cty.UnknownVal(cty.String))
	assert.Error(t, err)

	got, err = FromCty(cty.SetVal([]cty.Value{cty.StringVal("a")}))
	require.NoError(t, err)
	assert.True(t, got.Equal(Seq(String("a"))))
}
