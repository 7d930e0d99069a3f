package clformat

import (
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComponents(t *testing.T) {
	tests := []struct {
		control string
		want    string
	}{
		{"Hello ~A!", `"Hello ", ~A, "!"`},
		{"~5,'0:D", `~5,'0:D`},
		{"~,2F", `~,2F`},
		{"~v,#@A", `~v,#@A`},
		{"~-3,'x+:@E", `~-3,'x:@+E`},
		{"~~ and ~%", `~~, " and ", ~%`},
		{"a~\n   b", `"a", "b"`},
		{"a~:\n   b", `"a", "   b"`},
		{"a~@\n   b", `"a", ~%, "b"`},
		{"~(abc~)", `~(`},
		{"~[a~;b~:;c~]x", `~[, "x"`},
	}
	for _, tt := range tests {
		t.Run(tt.control, func(t *testing.T) {
			ctl, err := Parse(tt.control, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ctl.String())
		})
	}
}

func TestParseKeepsIdentifierCase(t *testing.T) {
	ctl, err := Parse("~a~A~:d~{~x~}", nil)
	require.NoError(t, err)
	assert.Equal(t, "~a, ~A, ~:d, ~{", ctl.String())

	comps := ctl.Components()
	lower, upper := comps[0].Directive, comps[1].Directive
	assert.Equal(t, 'a', lower.Identifier)
	assert.Equal(t, 'A', upper.Identifier)
	assert.Same(t, lower.Specifier, upper.Specifier)

	body := comps[3].Directive.Specifier.(Composite).Bodies()[0]
	assert.Equal(t, "~x", body.String())

	manual := &Directive{Specifier: lower.Specifier}
	assert.Equal(t, "~a", manual.String())
}

func TestParseParameters(t *testing.T) {
	ctl, err := Parse("~10,,'*,v,#,-2A", nil)
	require.NoError(t, err)
	require.Equal(t, 1, ctl.Len())

	d := ctl.Components()[0].Directive
	want := Parameters{NumberParam(10), NoParam(), CharParam('*'), NextArgumentParam(), RemainingParam(), NumberParam(-2)}
	if diff := cmp.Diff(want, d.Parameters); diff != "" {
		t.Errorf("parameters mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, KindAscii, d.Specifier.Kind())
	assert.Equal(t, Modifiers(0), d.Modifiers)
}

func TestParseCompositeBodies(t *testing.T) {
	ctl, err := Parse("~[zero~;one~:;other ~A~]", nil)
	require.NoError(t, err)

	cond, ok := ctl.Components()[0].Directive.Specifier.(Composite)
	require.True(t, ok)
	var bodies []string
	for _, b := range cond.Bodies() {
		bodies = append(bodies, b.String())
	}
	want := []string{`"zero"`, `"one"`, `"other ", ~A`}
	if diff := cmp.Diff(want, bodies); diff != "" {
		t.Errorf("branches mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, cond.(*conditional).hasDefault)
}

func TestParseJustificationSpare(t *testing.T) {
	ctl, err := Parse("~<~%;; ~2,40:;~A~>", nil)
	require.NoError(t, err)
	j := ctl.Components()[0].Directive.Specifier.(*justification)
	assert.True(t, j.hasSpare)
	assert.Equal(t, 2, j.spare)
	assert.True(t, j.hasWidth)
	assert.Equal(t, 40, j.width)
	assert.Len(t, j.sections, 2)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		control  string
		kind     ParseErrorKind
		position int
	}{
		{"lone tilde", "abc~", ParsePrematureEnd, 4},
		{"unterminated params", "~5,", ParsePrematureEnd, 3},
		{"duplicate colon", "~::A", ParseDuplicateModifier, 3},
		{"duplicate at", "~@:@A", ParseDuplicateModifier, 4},
		{"unknown directive", "~Q", ParseUnknownDirective, 1},
		{"misplaced end", "~]", ParseMisplacedDirective, 2},
		{"misplaced separator", "a~;b", ParseMisplacedDirective, 3},
		{"bad negative", "~-xD", ParseMalformedNumericParameter, 3},
		{"huge number", "~99999999999999999999D", ParseMalformedNumericParameter, 1},
		{"adjacent params", "~5#D", ParseMalformedParameter, 3},
		{"open conversion", "~(abc", ParseMalformedDirectiveSyntax, 5},
		{"wrong closer", "~(abc~]", ParseMalformedDirectiveSyntax, 7},
		{"separator after default", "~[a~:;b~;c~]", ParseMalformedDirectiveSyntax, 9},
		{"late spare separator", "~<a~;b~:;c~>", ParseMalformedDirectiveSyntax, 9},
		{"end marker with params", "~(x~1)", ParseMalformedDirective, 6},
		{"separator with at", "~[a~@;b~]", ParseMalformedDirective, 6},
		{"separator with params", "~[a~1;b~]", ParseMalformedDirective, 6},
		{"iteration end with at", "~{x~@}", ParseMalformedDirective, 6},
		{"newline colon at", "~:@\n", ParseMalformedDirective, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctl, err := Parse(tt.control, nil)
			require.Error(t, err)
			assert.Nil(t, ctl)

			var pe *ParseError
			require.True(t, errors.As(err, &pe), "expected *ParseError, got %T", err)
			assert.Equal(t, tt.kind, pe.Kind, "error: %v", err)
			assert.Equal(t, tt.position, pe.Position, "error: %v", err)
			assert.True(t, IsParseError(err))
		})
	}
}

func TestParseErrorMessages(t *testing.T) {
	_, err := Parse("~]", nil)
	require.Error(t, err)
	assert.Equal(t, "parse error at position 2: directive ~] in unsupported place", err.Error())

	_, err = Parse("~Q", nil)
	require.Error(t, err)
	assert.Equal(t, "parse error at position 1: unknown directive ~Q", err.Error())

	_, err = Parse("~", nil)
	require.Error(t, err)
	assert.Equal(t, "parse error at position 1: premature end of control", err.Error())
}

func TestParseDepthLimit(t *testing.T) {
	control := "~(~(~(x~)~)~)"

	_, err := ParseWithDepth(control, nil, 3)
	require.Error(t, err)
	assert.True(t, IsDepthError(err))

	ctl, err := ParseWithDepth(control, nil, 4)
	require.NoError(t, err)
	out, err := ctl.Sprint()
	require.NoError(t, err)
	assert.Equal(t, "x", out)
}

func TestRegistryBuilder(t *testing.T) {
	quote := NewSpecifier('q', func(_ *Context, _ Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
		s, err := args.NextString()
		if err != nil {
			return Instruction{}, err
		}
		if mods.Has(At) {
			return Append("«" + s + "»"), nil
		}
		return Append("'" + s + "'"), nil
	})

	reg := StandardRegistry().Extend().Atomic(quote, 'q', 'Q').Remove('r', 'R').Build()

	ctl, err := Parse("~A ~q ~@Q", reg)
	require.NoError(t, err)
	out, err := ctl.Sprint("say", "hi", "there")
	require.NoError(t, err)
	assert.Equal(t, "say 'hi' «there»", out)

	_, err = Parse("~R", reg)
	require.Error(t, err)
	assert.True(t, IsParseError(err))

	// The standard registry is unaffected.
	_, ok := StandardRegistry().Lookup('q')
	assert.False(t, ok)
	_, ok = StandardRegistry().Lookup('R')
	assert.True(t, ok)
	assert.Equal(t, KindCustom, quote.Kind())
}

func TestRegistryIdentifiers(t *testing.T) {
	ids := StandardRegistry().Identifiers()
	assert.True(t, sort.SliceIsSorted(ids, func(i, j int) bool { return ids[i] < ids[j] }))
	for _, id := range []rune{'A', 'a', 'D', 'd', '%', '&', '~', '[', ']', '{', '}', '<', '>', '(', ')', ';', '?', '^', '*', '\n', '$'} {
		assert.Contains(t, ids, id, "missing %q", id)
	}
	assert.Equal(t, len(ids), StandardRegistry().Len())

	empty := NewRegistryBuilder().Build()
	assert.Empty(t, empty.Identifiers())
	_, err := Parse("~A", empty)
	require.Error(t, err)
}
