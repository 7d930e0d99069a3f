package clformat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionDirective(t *testing.T) {
	runDirectiveCases(t, []directiveCase{
		{"lower", "~(Hello World~)", nil, "hello world"},
		{"capitalize words", "~:(hello world~)", nil, "Hello World"},
		{"capitalize first", "~@(hello WORLD~)", nil, "Hello WORLD"},
		{"upper", "~:@(hello ~A~)", []any{"world"}, "HELLO WORLD"},
		{"empty", "~@(~)", nil, ""},
		{"nested", "~:@(a~(B~)c~)", nil, "ABC"},
	})
}

func TestConditionalDirective(t *testing.T) {
	runDirectiveCases(t, []directiveCase{
		{"select", "~[zero~;one~;two~]", []any{1}, "one"},
		{"out of range", "~[zero~;one~;two~]|", []any{5}, "|"},
		{"default", "~[zero~;one~:;many~]", []any{7}, "many"},
		{"negative takes default", "~[zero~;one~:;many~]", []any{-1}, "many"},
		{"parameter index", "~2[a~;b~;c~]~A", []any{"x"}, "cx"},
		{"remaining index", "~#[none~;one~;two~]", []any{1, 2}, "two"},
		{"boolean false", "~:[no~;yes~]", []any{false}, "yes"},
		{"boolean true", "~:[no~;yes~]", []any{true}, "yes"},
		{"boolean nil", "~:[no~;yes~]", []any{nil}, "no"},
		{"boolean zero is present", "~:[no~;yes~]", []any{0}, "yes"},
		{"present", "~@[x=~A~] done", []any{5}, "x=5 done"},
		{"absent", "~@[x=~A~] done", []any{nil}, " done"},
		{"absent consumes", "~@[~A~]~A", []any{nil, "b"}, "b"},
		{"false is present", "~@[x=~A~] done", []any{false}, "x=false done"},
		{"false is not absent", "~:[absent~;present~]", []any{false}, "present"},
		{"separator list", "~@{~A~#[~:;, ~]~}", []any{1, 2, 3}, "1, 2, 3"},
	})

	tests := []struct {
		name    string
		control string
		args    []any
		kind    FormatErrorKind
	}{
		{"colon needs two branches", "~:[a~]", []any{true}, ExecMalformedDirective},
		{"colon at", "~:@[a~;b~]", []any{true}, ExecMalformedDirective},
		{"at needs one branch", "~@[a~;b~]", []any{true}, ExecMalformedDirective},
		{"index must be a number", "~[a~]", []any{"x"}, ExecExpectedNumberArgument},
		{"character index", "~'x[a~]", nil, ExecExpectedNumberParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := formatErr(t, tt.control, tt.args...)
			assert.Equal(t, tt.kind, fe.Kind)
		})
	}
}

func TestIterationDirective(t *testing.T) {
	runDirectiveCases(t, []directiveCase{
		{"list", "~{~A~^, ~}", []any{[]any{1, 2, 3}}, "1, 2, 3"},
		{"empty list", "<~{~A~}>", []any{[]any{}}, "<>"},
		{"nil is empty", "<~{~A~}>", []any{nil}, "<>"},
		{"pass limit", "~2{~A~}", []any{[]any{1, 2, 3}}, "12"},
		{"zero passes", "<~0{~A~}>", []any{[]any{1}}, "<>"},
		{"at least once", "<~{x~:}>", []any{[]any{}}, "<x>"},
		{"no progress stops", "~{x~}", []any{[]any{1}}, "x"},
		{"rest of arguments", "~@{~A~}", []any{1, 2}, "12"},
		{"sublists", "~:{~A=~A~:^; ~}", []any{[]any{[]any{"a", 1}, []any{"b", 2}}}, "a=1; b=2"},
		{"sublist limit", "~,1:{~A~}", []any{[]any{[]any{1, 2}, []any{3, 4}}}, "13"},
		{"scalar sublist", "~:{<~A>~}", []any{[]any{1, 2}}, "<1><2>"},
		{"nil sublist element", "~:{<~A>~}", []any{[]any{nil, []any{1}}}, "<nil><1>"},
		{"zero sublist cap skips scalars", "~,0:{x~}", []any{[]any{1, []any{2}, nil}}, "x"},
		{"at least once sublists", "<~:{x~:}>", []any{[]any{}}, "<x>"},
		{"repeat count without progress", "~3@{-~}", []any{1}, "---"},
		{"repeat count stops when exhausted", "~5{~A~}", []any{[]any{1, 2}}, "12"},
		{"rest as sublists", "~:@{<~A,~A>~}", []any{[]any{1, 2}, []any{3, 4}}, "<1,2><3,4>"},
		{"outer exit", "~:{~A~:^, ~}", []any{[]any{[]any{1}, []any{2}, []any{3}}}, "1, 2, 3"},
		{"control from argument", "~{~}", []any{"~A-", []any{1, 2}}, "1-2-"},
		{"nested", "~{[~{~A~}]~}", []any{[]any{[]any{1, 2}, []any{3}}}, "[12][3]"},
		{"continues after", "~{~A~}~A", []any{[]any{1}, "z"}, "1z"},
	})

	fe := formatErr(t, "~{~A~}", "abc")
	assert.Equal(t, ExecExpectedSequenceArgument, fe.Kind)
	assert.Equal(t, "format error: expected argument 0 to be a sequence; instead it is abc", fe.Error())

	// The iteration scope cannot back up past its first argument.
	fe = formatErr(t, "~A~@{~:*~A~}", 1, 2)
	assert.Equal(t, ExecArgumentOutOfRange, fe.Kind)

	fe = formatErr(t, "~{~}", 5, []any{1})
	assert.Equal(t, ExecExpectedStringArgument, fe.Kind)
}

func TestJustificationDirective(t *testing.T) {
	runDirectiveCases(t, []directiveCase{
		{"right align", "|~16<foo~>|", nil, "|             foo|"},
		{"spread", "~10<foo~;bar~>", nil, "foo    bar"},
		{"leading gap", "~10:<foo~;bar~>", nil, "  foo  bar"},
		{"trailing gap", "~10@<foo~>", nil, "foo       "},
		{"centered", "~10:@<foo~>", nil, "    foo   "},
		{"padchar", "~10,,,'*<a~;b~;c~>", nil, "a****b***c"},
		{"too wide", "~3<abc~;def~>", nil, "abcdef"},
		{"colinc", "~4,3<abcde~>", nil, "  abcde"},
		{"minpad", "~,,2<a~;b~>", nil, "a  b"},
		{"arguments", "~12<~A~;~A~>", []any{"left", "right"}, "left   right"},
		{"exit drops sections", "~15<~A~;~^~A~;~^~A~>", []any{"foo", "bar"}, "foo         bar"},
		{"nothing left", "[~10<~^~>]", nil, "[]"},
		{"truncate", "~,,,,5,'.<abcdefgh~>", nil, "abcd."},
		{"truncate from argument", "~,,,,v,'.<abcdefgh~>", []any{5}, "abcd."},
		{"fill fits", "~<~%;; ~1,10:;~A~>", []any{"short"}, "short"},
		{"fill wraps", "~<~%;; ~1,10:;~A~>", []any{"a long item"}, "\n;; a long item"},
		{"fill uses column", "abcdefgh~<~%;; ~1,10:;~A~>", []any{"ab"}, "abcdefgh\n;; ab"},
	})

	fe := formatErr(t, "~:{~<~A~:^~>~}", []any{[]any{1}})
	assert.Equal(t, ExecMalformedDirective, fe.Kind)

	// maxcol is only valid with a single section, checked once it is resolved.
	_, err := Parse("~1,2,3,' ,5<a~;b~>", nil)
	require.NoError(t, err)
	fe = formatErr(t, "~1,2,3,' ,5<a~;b~>")
	assert.Equal(t, ExecMalformedDirective, fe.Kind)
	fe = formatErr(t, "~,,,,v<a~;b~>", 5)
	assert.Equal(t, ExecMalformedDirective, fe.Kind)
}

func TestIndirectionDirective(t *testing.T) {
	runDirectiveCases(t, []directiveCase{
		{"sequence arguments", "~? ~D", []any{"<~A ~D>", []any{"Foo", 5}, 7}, "<Foo 5> 7"},
		{"shared arguments", "~@? ~D", []any{"<~A ~D>", "Foo", 5, 14}, "<Foo 5> 14"},
		{"exit stays inside", "~?~A", []any{"a~^b", []any{}, "z"}, "az"},
	})

	ctl, err := Parse("~?", nil)
	require.NoError(t, err)
	_, err = ctl.Sprint("~Q", []any{})
	require.Error(t, err)
	assert.True(t, IsParseError(err))

	fe := formatErr(t, "~?", 42, []any{})
	assert.Equal(t, ExecExpectedStringArgument, fe.Kind)

	engine := NewWithOptions(WithMaxDepth(2))
	_, err = engine.Format("~@?", "~@?", "~@?", "x")
	require.Error(t, err)
	assert.True(t, IsDepthError(err))
}

// Examples from the directive reference.
func TestFormatScenarios(t *testing.T) {
	const items = "Items:~#[ none~; ~A~; ~A and ~A~:;~@{~#[~; and~] ~A~^,~}~]."
	tests := []struct {
		name    string
		control string
		args    []any
		want    string
	}{
		{"items none", items, nil, "Items: none."},
		{"items one", items, []any{"FOO"}, "Items: FOO."},
		{"items two", items, []any{"FOO", "BAR"}, "Items: FOO and BAR."},
		{"items three", items, []any{"FOO", "BAR", "BAZ"}, "Items: FOO, BAR, and BAZ."},
		{"plurals", "~D tr~:@P/~D win~:P", []any{1, 3}, "1 try/3 wins"},
		{"justify", "|~16<foo~>|", nil, "|             foo|"},
		{"sublists", "~:{/~A~^ ...~}", []any{[]any{
			[]any{"hot", "dog"}, []any{"hamburger"}, []any{"ice", "cream"}, []any{"french", "fries"},
		}}, "/hot .../hamburger/ice .../french ..."},
		{"nil argument", "~A and ~A and ~A", []any{1, nil, 3}, "1 and nil and 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Format(tt.control, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}

	_, err := Format("~]")
	require.Error(t, err)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, ParseMisplacedDirective, pe.Kind)
}
