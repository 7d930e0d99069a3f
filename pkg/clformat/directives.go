package clformat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benjaminschreck/go-clformat/pkg/clformat/numfmt"
	"github.com/benjaminschreck/go-clformat/pkg/clformat/render"
	"github.com/benjaminschreck/go-clformat/pkg/clformat/value"
	"golang.org/x/text/unicode/runenames"
)

func builtin(id rune, kind Kind, fn ApplyFunc) Specifier {
	return &atomic{id: id, kind: kind, apply: fn}
}

func builtinAtomics() []Specifier {
	return []Specifier{
		builtin('a', KindAscii, applyAscii),
		builtin('w', KindWrite, applyWrite),
		builtin('s', KindSexpr, applySexpr),
		builtin('d', KindDecimal, applyDecimal),
		builtin('r', KindRadix, applyRadix),
		builtin('b', KindBinary, radixApply(2, ' ', 4)),
		builtin('o', KindOctal, radixApply(8, ' ', 4)),
		builtin('x', KindHex, radixApply(16, ':', 2)),
		builtin('c', KindCharacter, applyCharacter),
		builtin('f', KindFixed, applyFixed),
		builtin('e', KindExponent, applyExponent),
		builtin('g', KindGeneral, applyGeneral),
		builtin('$', KindMoney, applyMoney),
		newlineSpec,
		builtin('&', KindFreshLine, applyFreshLine),
		builtin('|', KindPage, repeatApply("\f")),
		builtin('~', KindTilde, repeatApply("~")),
		builtin('p', KindPlural, applyPlural),
		builtin('t', KindTabulate, applyTabulate),
		builtin('*', KindSkip, applySkip),
		builtin('^', KindUpAndOut, applyUpAndOut),
		builtin('?', KindIndirection, applyIndirection),
	}
}

var newlineSpec = builtin('%', KindNewline, repeatApply("\n"))

func malformed(params Parameters, mods Modifiers, id rune) error {
	return &FormatError{Kind: ExecMalformedDirective, Detail: directiveString(params, mods, id)}
}

func cannotRepresent(n numfmt.Number, err error) error {
	detail := ""
	if err != nil {
		detail = strings.TrimPrefix(err.Error(), numfmt.ErrCannotRepresent.Error()+": ")
		if detail == numfmt.ErrCannotRepresent.Error() {
			detail = ""
		}
	}
	return &FormatError{Kind: ExecCannotRepresentNumber, Value: n.String(), Detail: detail, Cause: err}
}

// padSpec reads the padding parameters shared by ~A, ~W and ~S: mincol,
// colinc, minpad, padchar, maxcol and ellipsis.
func padSpec(params Parameters, mods Modifiers) (render.PadSpec, error) {
	var spec render.PadSpec
	var err error
	if spec.MinCol, err = params.NumberOr(0, 0); err != nil {
		return spec, err
	}
	if spec.ColInc, err = params.NumberOr(1, 1); err != nil {
		return spec, err
	}
	if spec.MinPad, err = params.NumberOr(2, 0); err != nil {
		return spec, err
	}
	if spec.PadChar, err = params.CharOr(3, ' '); err != nil {
		return spec, err
	}
	if spec.MaxCol, spec.HasMax, err = params.Number(4); err != nil {
		return spec, err
	}
	if spec.Ellipsis, err = params.CharOr(5, render.DefaultEllipsis); err != nil {
		return spec, err
	}
	spec.Left = mods.Has(At)
	spec.Right = !spec.Left
	return spec, nil
}

func padded(params Parameters, mods Modifiers, str string) (Instruction, error) {
	spec, err := padSpec(params, mods)
	if err != nil {
		return Instruction{}, err
	}
	return Append(render.Pad(str, spec)), nil
}

func applyAscii(_ *Context, params Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
	v, err := args.Next()
	if err != nil {
		return Instruction{}, err
	}
	str := v.String()
	if mods.Has(Colon) {
		str = v.Debug()
	}
	return padded(params, mods, str)
}

func applyWrite(_ *Context, params Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
	v, err := args.Next()
	if err != nil {
		return Instruction{}, err
	}
	str := v.Describe()
	if mods.Has(Colon) {
		str = v.Debug()
	}
	return padded(params, mods, str)
}

func applySexpr(_ *Context, params Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
	v, err := args.Next()
	if err != nil {
		return Instruction{}, err
	}
	var str string
	switch {
	case v.Kind() == value.KindString || v.Kind() == value.KindChar:
		str = v.Quoted()
	case mods.Has(Colon):
		str = v.Debug()
	default:
		str = v.Quoted()
	}
	return padded(params, mods, str)
}

func decimalStyle(params Parameters, mods Modifiers, args *Arguments, offset int) (numfmt.DecimalStyle, error) {
	s := numfmt.DecimalStyle{
		Group:     mods.Has(Colon),
		ForceSign: mods.Has(At),
		UseLocale: mods.Has(Plus),
		Locale:    args.Locale(),
	}
	var err error
	if s.MinCol, err = params.NumberOr(offset, 0); err != nil {
		return s, err
	}
	if s.PadChar, err = params.CharOr(offset+1, ' '); err != nil {
		return s, err
	}
	if s.GroupSep, err = params.CharOr(offset+2, 0); err != nil {
		return s, err
	}
	if s.GroupSize, err = params.NumberOr(offset+3, 0); err != nil {
		return s, err
	}
	return s, nil
}

func applyDecimal(_ *Context, params Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
	n, err := args.NextNumber()
	if err != nil {
		return Instruction{}, err
	}
	s, err := decimalStyle(params, mods, args, 0)
	if err != nil {
		return Instruction{}, err
	}
	return Append(numfmt.Decimal(n, s)), nil
}

func applyRadix(_ *Context, params Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
	n, err := args.NextNumber()
	if err != nil {
		return Instruction{}, err
	}
	if params.Count() == 0 {
		return spellNumber(n, mods)
	}
	radix, err := params.NumberOr(0, 10)
	if err != nil {
		return Instruction{}, err
	}
	if radix == 10 {
		s, err := decimalStyle(params, mods, args, 1)
		if err != nil {
			return Instruction{}, err
		}
		return Append(numfmt.Decimal(n, s)), nil
	}
	s, err := radixStyle(params, mods, 1, ',', 3)
	if err != nil {
		return Instruction{}, err
	}
	s.Upper = mods.Has(Plus)
	str, err := numfmt.Radix(n, radix, s)
	if err != nil {
		return Instruction{}, cannotRepresent(n, err)
	}
	return Append(str), nil
}

// spellNumber implements ~R without parameters.
func spellNumber(n numfmt.Number, mods Modifiers) (Instruction, error) {
	var str string
	var err error
	switch {
	case mods.Has(Colon | At):
		str, err = numfmt.Roman(n, true)
	case mods.Has(At):
		str, err = numfmt.Roman(n, false)
	case mods.Has(Colon):
		str, err = numfmt.Ordinal(n)
	default:
		str, err = numfmt.Cardinal(n)
	}
	if err != nil {
		if mods.Has(At) && errors.Is(err, numfmt.ErrCannotRepresent) {
			return Append(n.String()), nil
		}
		return Instruction{}, cannotRepresent(n, err)
	}
	return Append(str), nil
}

func radixStyle(params Parameters, mods Modifiers, offset int, sep rune, size int) (numfmt.RadixStyle, error) {
	s := numfmt.RadixStyle{
		Group:     mods.Has(Colon),
		ForceSign: mods.Has(At),
	}
	var err error
	if s.MinCol, err = params.NumberOr(offset, 0); err != nil {
		return s, err
	}
	if s.PadChar, err = params.CharOr(offset+1, ' '); err != nil {
		return s, err
	}
	if s.GroupSep, err = params.CharOr(offset+2, sep); err != nil {
		return s, err
	}
	if s.GroupSize, err = params.NumberOr(offset+3, size); err != nil {
		return s, err
	}
	return s, nil
}

// radixApply returns the apply function of ~B, ~O and ~X.
func radixApply(radix int, sep rune, size int) ApplyFunc {
	return func(_ *Context, params Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
		n, err := args.NextNumber()
		if err != nil {
			return Instruction{}, err
		}
		s, err := radixStyle(params, mods, 0, sep, size)
		if err != nil {
			return Instruction{}, err
		}
		s.Upper = mods.Has(Plus)
		str, err := numfmt.Radix(n, radix, s)
		if err != nil {
			return Instruction{}, cannotRepresent(n, err)
		}
		return Append(str), nil
	}
}

func applyCharacter(_ *Context, _ Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
	ch, err := args.NextChar()
	if err != nil {
		return Instruction{}, err
	}
	var str string
	switch {
	case mods.Has(Plus | Colon):
		str = fmt.Sprintf("U+%04X", ch)
	case mods.Has(Plus):
		str = fmt.Sprintf("&#x%X;", ch)
	case mods.Has(Colon | At):
		if ch > 0xFFFF {
			str = fmt.Sprintf(`"\U%08X"`, ch)
		} else {
			str = fmt.Sprintf(`"\u%04X"`, ch)
		}
	case mods.Has(At):
		if ch >= 0x20 && ch < 0x7F {
			str = `"` + string(ch) + `"`
		} else {
			str = `"\N{` + charName(ch) + `}"`
		}
	case mods.Has(Colon):
		str = charName(ch)
	default:
		str = string(ch)
	}
	return Append(str), nil
}

// charName returns the Unicode name of ch, or its code point when the
// character has no name.
func charName(ch rune) string {
	if name := runenames.Name(ch); name != "" && !strings.HasPrefix(name, "<") {
		return name
	}
	return fmt.Sprintf("U+%04X", ch)
}

func applyFixed(_ *Context, params Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
	n, err := args.NextNumber()
	if err != nil {
		return Instruction{}, err
	}
	s := numfmt.FixedStyle{
		Group:     mods.Has(Colon),
		ForceSign: mods.Has(At),
		UseLocale: mods.Has(Plus),
		Locale:    args.Locale(),
	}
	if s.Width, err = params.NumberOr(0, 0); err != nil {
		return Instruction{}, err
	}
	if s.Digits, err = params.NumberOr(1, numfmt.Auto); err != nil {
		return Instruction{}, err
	}
	if s.Scale, err = params.SignedNumberOr(2, 0); err != nil {
		return Instruction{}, err
	}
	if s.OverflowChar, err = params.CharOr(3, 0); err != nil {
		return Instruction{}, err
	}
	if s.PadChar, err = params.CharOr(4, ' '); err != nil {
		return Instruction{}, err
	}
	if s.GroupSep, err = params.CharOr(5, 0); err != nil {
		return Instruction{}, err
	}
	if s.GroupSize, err = params.NumberOr(6, 0); err != nil {
		return Instruction{}, err
	}
	return Append(numfmt.Fixed(n, s)), nil
}

// exponentStyle reads the parameters shared by ~E and ~G: w, d, e, k,
// overflowchar, padchar and exponentchar.
func exponentStyle(params Parameters, mods Modifiers, args *Arguments) (numfmt.ExponentStyle, error) {
	s := numfmt.ExponentStyle{
		ForceSign: mods.Has(At),
		UseLocale: mods.Has(Plus),
		Locale:    args.Locale(),
	}
	var err error
	if s.Width, err = params.NumberOr(0, 0); err != nil {
		return s, err
	}
	if s.Digits, err = params.NumberOr(1, numfmt.Auto); err != nil {
		return s, err
	}
	if s.ExpDigits, err = params.NumberOr(2, numfmt.Auto); err != nil {
		return s, err
	}
	if s.Scale, err = params.SignedNumberOr(3, 1); err != nil {
		return s, err
	}
	if s.OverflowChar, err = params.CharOr(4, 0); err != nil {
		return s, err
	}
	if s.PadChar, err = params.CharOr(5, ' '); err != nil {
		return s, err
	}
	if s.ExpChar, err = params.CharOr(6, 'E'); err != nil {
		return s, err
	}
	return s, nil
}

func applyExponent(_ *Context, params Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
	n, err := args.NextNumber()
	if err != nil {
		return Instruction{}, err
	}
	s, err := exponentStyle(params, mods, args)
	if err != nil {
		return Instruction{}, err
	}
	return Append(numfmt.Exponential(n, s)), nil
}

func applyGeneral(_ *Context, params Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
	n, err := args.NextNumber()
	if err != nil {
		return Instruction{}, err
	}
	s, err := exponentStyle(params, mods, args)
	if err != nil {
		return Instruction{}, err
	}
	return Append(numfmt.General(n, numfmt.GeneralStyle(s))), nil
}

func applyMoney(_ *Context, params Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
	n, err := args.NextNumber()
	if err != nil {
		return Instruction{}, err
	}
	s := numfmt.MoneyStyle{
		Group:         params.Provided(5) || params.Provided(6),
		ForceSign:     mods.Has(At),
		SignBeforePad: mods.Has(Colon),
		UseLocale:     mods.Has(Plus),
		Locale:        args.Locale(),
	}
	if s.Digits, err = params.NumberOr(0, 2); err != nil {
		return Instruction{}, err
	}
	if s.MinIntDigits, err = params.NumberOr(1, 1); err != nil {
		return Instruction{}, err
	}
	if s.Width, err = params.NumberOr(2, 0); err != nil {
		return Instruction{}, err
	}
	if s.PadChar, err = params.CharOr(3, ' '); err != nil {
		return Instruction{}, err
	}
	if s.CurChar, err = params.CharOr(4, 0); err != nil {
		return Instruction{}, err
	}
	if s.GroupSep, err = params.CharOr(5, 0); err != nil {
		return Instruction{}, err
	}
	if s.GroupSize, err = params.NumberOr(6, 0); err != nil {
		return Instruction{}, err
	}
	return Append(numfmt.Money(n, s)), nil
}

// repeatApply returns an apply function that emits str n times, n being
// parameter 0 (default 1).
func repeatApply(str string) ApplyFunc {
	return func(_ *Context, params Parameters, _ Modifiers, _ *Arguments) (Instruction, error) {
		n, err := params.NumberOr(0, 1)
		if err != nil {
			return Instruction{}, err
		}
		return Append(strings.Repeat(str, n)), nil
	}
}

func applyFreshLine(ctx *Context, params Parameters, _ Modifiers, _ *Arguments) (Instruction, error) {
	n, err := params.NumberOr(0, 1)
	if err != nil {
		return Instruction{}, err
	}
	if n > 0 && strings.HasSuffix(ctx.Output(), "\n") {
		n--
	}
	return Append(strings.Repeat("\n", n)), nil
}

func applyPlural(_ *Context, _ Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
	if mods.Has(Colon) {
		if err := args.Advance(-1); err != nil {
			return Instruction{}, err
		}
	}
	n, err := args.NextNumber()
	if err != nil {
		return Instruction{}, err
	}
	one := n.EqualsInt(1)
	switch {
	case mods.Has(At) && one:
		return Append("y"), nil
	case mods.Has(At):
		return Append("ies"), nil
	case one:
		return Append(""), nil
	default:
		return Append("s"), nil
	}
}

func applyTabulate(ctx *Context, params Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
	colnum, err := params.NumberOr(0, 1)
	if err != nil {
		return Instruction{}, err
	}
	colinc, err := params.NumberOr(1, 1)
	if err != nil {
		return Instruction{}, err
	}
	col := ctx.Column(args.TabSize())
	var n int
	switch {
	case mods.Has(At):
		n = colnum
		if colinc > 0 {
			if rem := (col + colnum) % colinc; rem > 0 {
				n += colinc - rem
			}
		}
	case col < colnum:
		n = colnum - col
	case colinc > 0:
		n = colinc - (col-colnum)%colinc
	}
	return Append(strings.Repeat(" ", n)), nil
}

func applySkip(_ *Context, params Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
	var err error
	switch {
	case mods.Has(Colon | At):
		return Instruction{}, malformed(params, mods, '*')
	case mods.Has(At):
		var i int
		if i, err = params.NumberOr(0, 0); err == nil {
			err = args.Jump(i)
		}
	case mods.Has(Colon):
		var n int
		if n, err = params.NumberOr(0, 1); err == nil {
			err = args.Advance(-n)
		}
	default:
		var n int
		if n, err = params.NumberOr(0, 1); err == nil {
			err = args.Advance(n)
		}
	}
	return Append(""), err
}

func applyUpAndOut(_ *Context, params Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
	exit := Continue("")
	if mods.Has(Colon) {
		exit = Break("")
	}

	if mods.Has(Colon) && params.Count() == 0 {
		if left, ok := args.OuterLeft(); ok && left == 0 {
			return exit, nil
		}
		return Append(""), nil
	}

	fire := false
	switch params.Count() {
	case 0, 1:
		n, ok, err := params.SignedNumber(0)
		if err != nil {
			return Instruction{}, err
		}
		if !ok {
			n = args.Remaining()
		}
		fire = n == 0
	case 2:
		fire = params[0] == params[1]
	case 3:
		var bounds [3]int
		for i := range bounds {
			n, ok, err := params.SignedNumber(i)
			if err != nil || !ok {
				return Instruction{}, malformed(params, mods, '^')
			}
			bounds[i] = n
		}
		fire = bounds[0] <= bounds[1] && bounds[1] <= bounds[2]
	default:
		return Instruction{}, malformed(params, mods, '^')
	}
	if fire {
		return exit, nil
	}
	return Append(""), nil
}

// parseNewline handles a tilde at the end of a line. The newline and the
// whitespace following it are dropped; ~:<newline> keeps the whitespace and
// ~@<newline> keeps the newline.
func parseNewline(p *Parser, params Parameters, mods Modifiers) (ParseResult, error) {
	if mods.Has(Colon | At) {
		return ParseResult{}, p.Error(ParseMalformedDirective, directiveString(params, mods, '\n'))
	}
	if mods.Has(Colon) {
		return Ignore(), nil
	}
	for {
		ch, ok := p.Lookahead()
		if !ok || (ch != ' ' && ch != '\t') {
			break
		}
		p.pos++
	}
	if mods.Has(At) {
		return AppendDirective(&Directive{Identifier: '%', Specifier: newlineSpec}), nil
	}
	return Ignore(), nil
}
