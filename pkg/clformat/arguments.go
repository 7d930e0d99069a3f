package clformat

import (
	"math"
	"unicode/utf8"

	"github.com/benjaminschreck/go-clformat/pkg/clformat/numfmt"
	"github.com/benjaminschreck/go-clformat/pkg/clformat/value"
	"golang.org/x/text/language"
)

const (
	// DefaultTabSize is the tab width used for column tracking.
	DefaultTabSize = 8
	// DefaultLineWidth is the line width used by fill justification.
	DefaultLineWidth = 80
	// Unlimited means no cap on iterations or argument counts.
	Unlimited = -1
)

// Arguments is a cursor over the values consumed by a control. Movement is
// bounded below by a scope floor (firstArg) so that nested directives cannot
// reach arguments outside their scope. An Arguments value is single use.
type Arguments struct {
	args     []value.Value
	index    int
	firstArg int

	outerLeft    int
	hasOuterLeft bool

	locale    language.Tag
	tabSize   int
	lineWidth int
}

// ArgumentsOption configures an Arguments cursor.
type ArgumentsOption func(*Arguments)

// ArgLocale sets the locale used by the locale-aware directives.
func ArgLocale(tag language.Tag) ArgumentsOption {
	return func(a *Arguments) { a.locale = tag }
}

// ArgTabSize sets the tab width used for column tracking.
func ArgTabSize(n int) ArgumentsOption {
	return func(a *Arguments) {
		if n > 0 {
			a.tabSize = n
		}
	}
}

// ArgLineWidth sets the line width used by fill justification.
func ArgLineWidth(n int) ArgumentsOption {
	return func(a *Arguments) {
		if n > 0 {
			a.lineWidth = n
		}
	}
}

// NewArguments creates a cursor over args.
func NewArguments(args []value.Value, opts ...ArgumentsOption) *Arguments {
	a := &Arguments{
		args:      args,
		tabSize:   DefaultTabSize,
		lineWidth: DefaultLineWidth,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// derive creates a cursor over args that inherits the rendering settings.
func (a *Arguments) derive(args []value.Value, limit int) *Arguments {
	if limit >= 0 && len(args) > limit {
		args = args[:limit]
	}
	return &Arguments{args: args, locale: a.locale, tabSize: a.tabSize, lineWidth: a.lineWidth}
}

func (a *Arguments) Locale() language.Tag { return a.locale }

func (a *Arguments) TabSize() int { return a.tabSize }

func (a *Arguments) LineWidth() int { return a.lineWidth }

// Index returns the position of the next argument.
func (a *Arguments) Index() int { return a.index }

// Count returns the total number of arguments.
func (a *Arguments) Count() int { return len(a.args) }

// Remaining returns the number of arguments not yet consumed.
func (a *Arguments) Remaining() int { return len(a.args) - a.index }

// OuterLeft returns the number of elements an enclosing ~:{ iteration has
// left after the current one.
func (a *Arguments) OuterLeft() (int, bool) { return a.outerLeft, a.hasOuterLeft }

// Peek returns the next argument without consuming it.
func (a *Arguments) Peek() (value.Value, error) {
	if a.index >= len(a.args) {
		return value.Value{}, &FormatError{Kind: ExecMissingArgument, Index: a.index, Total: len(a.args)}
	}
	return a.args[a.index], nil
}

// Next consumes and returns the next argument.
func (a *Arguments) Next() (value.Value, error) {
	v, err := a.Peek()
	if err != nil {
		return v, err
	}
	a.index++
	return v, nil
}

// Advance moves the cursor by n, which may be negative.
func (a *Arguments) Advance(n int) error {
	target := a.index + n
	if target < a.firstArg || target > len(a.args) {
		return &FormatError{Kind: ExecArgumentOutOfRange, Index: target, Total: len(a.args)}
	}
	a.index = target
	return nil
}

// Jump moves the cursor to argument i relative to the scope floor.
func (a *Arguments) Jump(i int) error {
	if i < 0 || i > len(a.args)-a.firstArg {
		return &FormatError{Kind: ExecArgumentOutOfRange, Index: i, Total: len(a.args)}
	}
	a.index = a.firstArg + i
	return nil
}

// SetFirstArg installs a new scope floor and returns the previous one.
func (a *Arguments) SetFirstArg(floor int) int {
	prev := a.firstArg
	a.firstArg = max(0, min(floor, len(a.args)))
	return prev
}

// MarkFirstArg makes the current position the scope floor and returns the
// previous floor.
func (a *Arguments) MarkFirstArg() int {
	return a.SetFirstArg(a.index)
}

// NextNumber consumes a numeric argument.
func (a *Arguments) NextNumber() (numfmt.Number, error) {
	idx := a.index
	v, err := a.Next()
	if err != nil {
		return numfmt.Number{}, err
	}
	if n, ok := toNumber(v); ok {
		return n, nil
	}
	return numfmt.Number{}, &FormatError{Kind: ExecExpectedNumberArgument, Index: idx, Value: v.Describe()}
}

// NextInt consumes an argument that is exactly representable as an int.
func (a *Arguments) NextInt() (int, error) {
	idx := a.index
	v, err := a.Next()
	if err != nil {
		return 0, err
	}
	if i, ok := toInt(v); ok {
		return i, nil
	}
	return 0, &FormatError{Kind: ExecExpectedNumberArgument, Index: idx, Value: v.Describe()}
}

// NextChar consumes a character argument. A single-rune string counts.
func (a *Arguments) NextChar() (rune, error) {
	idx := a.index
	v, err := a.Next()
	if err != nil {
		return 0, err
	}
	if ch, ok := v.AsChar(); ok {
		return ch, nil
	}
	return 0, &FormatError{Kind: ExecExpectedCharacterArgument, Index: idx, Value: v.Describe()}
}

// NextString consumes a string argument. Characters are widened.
func (a *Arguments) NextString() (string, error) {
	idx := a.index
	v, err := a.Next()
	if err != nil {
		return "", err
	}
	if s, ok := v.AsString(); ok {
		return s, nil
	}
	return "", &FormatError{Kind: ExecExpectedStringArgument, Index: idx, Value: v.Describe()}
}

// NextParameter consumes an argument for a "v" parameter slot.
func (a *Arguments) NextParameter() (Parameter, error) {
	idx := a.index
	v, err := a.Next()
	if err != nil {
		return Parameter{}, err
	}
	if v.IsNil() {
		return NoParam(), nil
	}
	if i, ok := toInt(v); ok {
		return NumberParam(i), nil
	}
	if s, ok := v.AsString(); ok {
		switch utf8.RuneCountInString(s) {
		case 0:
			return NoParam(), nil
		case 1:
			ch, _ := utf8.DecodeRuneInString(s)
			return CharParam(ch), nil
		}
	}
	return Parameter{}, &FormatError{Kind: ExecCannotUseArgumentAsParameter, Index: idx, Value: v.Describe()}
}

// NextArguments consumes a sequence argument and returns a cursor over at
// most limit of its elements. Nil counts as the empty sequence.
func (a *Arguments) NextArguments(limit int) (*Arguments, error) {
	idx := a.index
	v, err := a.Next()
	if err != nil {
		return nil, err
	}
	if v.IsNil() {
		return a.derive(nil, limit), nil
	}
	elems, ok := v.Elements()
	if !ok {
		return nil, &FormatError{Kind: ExecExpectedSequenceArgument, Index: idx, Value: v.Describe()}
	}
	return a.derive(elems, limit), nil
}

// SubArguments builds a cursor over v without consuming anything. A sequence
// yields its elements and any other value, Nil included, yields a single
// element. outerLeft is reported through OuterLeft.
func (a *Arguments) SubArguments(v value.Value, limit int, outerLeft int) *Arguments {
	elems, ok := v.Elements()
	if !ok {
		elems = []value.Value{v}
	}
	return a.scoped(elems, limit, outerLeft)
}

func (a *Arguments) scoped(elems []value.Value, limit int, outerLeft int) *Arguments {
	sub := a.derive(elems, limit)
	sub.outerLeft = outerLeft
	sub.hasOuterLeft = true
	return sub
}

func toNumber(v value.Value) (numfmt.Number, bool) {
	switch v.Kind() {
	case value.KindInt:
		i, _ := v.AsInt()
		return numfmt.Int(i), true
	case value.KindUint:
		u, _ := v.AsUint()
		return numfmt.Uint(u), true
	case value.KindFloat:
		f, _ := v.AsFloat()
		return numfmt.Float(f), true
	}
	return numfmt.Number{}, false
}

func toInt(v value.Value) (int, bool) {
	switch v.Kind() {
	case value.KindInt:
		i, _ := v.AsInt()
		if i < math.MinInt || i > math.MaxInt {
			return 0, false
		}
		return int(i), true
	case value.KindUint:
		u, _ := v.AsUint()
		if u > math.MaxInt {
			return 0, false
		}
		return int(u), true
	}
	return 0, false
}
