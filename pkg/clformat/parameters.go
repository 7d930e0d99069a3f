package clformat

import (
	"strconv"
	"strings"
)

// ParamKind identifies the variant held by a Parameter.
type ParamKind uint8

const (
	// ParamNone is an empty slot, as in the middle of "~,2F".
	ParamNone ParamKind = iota
	// ParamNextArgument is "v": the value is taken from the next argument.
	ParamNextArgument
	// ParamRemaining is "#": the number of arguments left.
	ParamRemaining
	// ParamNumber is a decimal integer.
	ParamNumber
	// ParamCharacter is a quoted character such as 'x.
	ParamCharacter
)

// Parameter is one parsed directive parameter slot.
type Parameter struct {
	Kind ParamKind
	Num  int
	Char rune
}

func NoParam() Parameter { return Parameter{} }

func NextArgumentParam() Parameter { return Parameter{Kind: ParamNextArgument} }

func RemainingParam() Parameter { return Parameter{Kind: ParamRemaining} }

func NumberParam(n int) Parameter { return Parameter{Kind: ParamNumber, Num: n} }

func CharParam(ch rune) Parameter { return Parameter{Kind: ParamCharacter, Char: ch} }

// String renders the parameter in control string syntax.
func (p Parameter) String() string {
	switch p.Kind {
	case ParamNextArgument:
		return "v"
	case ParamRemaining:
		return "#"
	case ParamNumber:
		return strconv.Itoa(p.Num)
	case ParamCharacter:
		return "'" + string(p.Char)
	default:
		return ""
	}
}

// Parameters is the ordered parameter list of a directive. An index beyond
// the list is "not provided", as is an explicit ParamNone slot.
type Parameters []Parameter

// Count returns the number of parsed slots, including empty ones.
func (ps Parameters) Count() int { return len(ps) }

// At returns the parameter at index i.
func (ps Parameters) At(i int) (Parameter, bool) {
	if i < 0 || i >= len(ps) {
		return Parameter{}, false
	}
	return ps[i], true
}

// Provided reports whether slot i holds a value.
func (ps Parameters) Provided(i int) bool {
	p, ok := ps.At(i)
	return ok && p.Kind != ParamNone
}

// Number returns parameter i as a non-negative integer. The boolean is false
// when the parameter was not provided.
func (ps Parameters) Number(i int) (int, bool, error) {
	n, ok, err := ps.SignedNumber(i)
	if err != nil || !ok {
		return 0, ok, err
	}
	if n < 0 {
		return 0, false, &FormatError{Kind: ExecExpectedPositiveNumberParameter, Index: i, Value: ps[i].String()}
	}
	return n, true, nil
}

// SignedNumber is like Number but accepts negative values.
func (ps Parameters) SignedNumber(i int) (int, bool, error) {
	p, ok := ps.At(i)
	if !ok {
		return 0, false, nil
	}
	switch p.Kind {
	case ParamNone:
		return 0, false, nil
	case ParamNumber:
		return p.Num, true, nil
	default:
		return 0, false, &FormatError{Kind: ExecExpectedNumberParameter, Index: i, Value: p.String()}
	}
}

// NumberOr returns parameter i as a non-negative integer, or def when it
// was not provided.
func (ps Parameters) NumberOr(i, def int) (int, error) {
	n, ok, err := ps.Number(i)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	return n, nil
}

// SignedNumberOr is like NumberOr but accepts negative values.
func (ps Parameters) SignedNumberOr(i, def int) (int, error) {
	n, ok, err := ps.SignedNumber(i)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	return n, nil
}

// Char returns parameter i as a character.
func (ps Parameters) Char(i int) (rune, bool, error) {
	p, ok := ps.At(i)
	if !ok {
		return 0, false, nil
	}
	switch p.Kind {
	case ParamNone:
		return 0, false, nil
	case ParamCharacter:
		return p.Char, true, nil
	default:
		return 0, false, &FormatError{Kind: ExecExpectedCharacterParameter, Index: i, Value: p.String()}
	}
}

// CharOr returns parameter i as a character, or def when it was not
// provided.
func (ps Parameters) CharOr(i int, def rune) (rune, error) {
	ch, ok, err := ps.Char(i)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	return ch, nil
}

// Resolve replaces "v" and "#" slots using the live arguments. A "v" slot
// consumes one argument.
func (ps Parameters) Resolve(args *Arguments) (Parameters, error) {
	resolved := ps
	copied := false
	for i, p := range ps {
		var r Parameter
		switch p.Kind {
		case ParamNextArgument:
			var err error
			if r, err = args.NextParameter(); err != nil {
				return nil, err
			}
		case ParamRemaining:
			r = NumberParam(args.Remaining())
		default:
			continue
		}
		if !copied {
			resolved = append(Parameters(nil), ps...)
			copied = true
		}
		resolved[i] = r
	}
	return resolved, nil
}

// String renders the list in control string syntax.
func (ps Parameters) String() string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}

// Modifiers is the set of flags attached to a directive.
type Modifiers uint8

const (
	Colon Modifiers = 1 << iota
	At
	Plus
)

// Has reports whether all flags in f are set.
func (m Modifiers) Has(f Modifiers) bool { return m&f == f }

func (m Modifiers) String() string {
	var sb strings.Builder
	if m.Has(Colon) {
		sb.WriteByte(':')
	}
	if m.Has(At) {
		sb.WriteByte('@')
	}
	if m.Has(Plus) {
		sb.WriteByte('+')
	}
	return sb.String()
}
