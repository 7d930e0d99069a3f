package clformat

import (
	"strings"
	"unicode/utf8"

	"github.com/benjaminschreck/go-clformat/pkg/clformat/render"
	"github.com/benjaminschreck/go-clformat/pkg/clformat/value"
	"golang.org/x/text/cases"
)

func unsupported(id rune, kind Kind) Specifier {
	return builtin(id, kind, func(_ *Context, params Parameters, mods Modifiers, _ *Arguments) (Instruction, error) {
		return Instruction{}, &FormatError{Kind: ExecUnsupportedDirective, Detail: directiveString(params, mods, id)}
	})
}

var (
	conversionEnd    = unsupported(')', KindConversionEnd)
	conditionalEnd   = unsupported(']', KindConditionalEnd)
	separator        = unsupported(';', KindSeparator)
	iterationEnd     = unsupported('}', KindIterationEnd)
	justificationEnd = unsupported('>', KindJustificationEnd)
)

func closing(p *Parser, spec Specifier, params Parameters, mods Modifiers) ParseResult {
	return ExitDirective(&Directive{Identifier: p.Current(), Parameters: params, Modifiers: mods, Specifier: spec})
}

// parseEndMarker returns the parse function of ~), ~] and ~>, which take
// neither parameters nor the : and @ modifiers.
func parseEndMarker(spec Specifier) ParseFunc {
	return func(p *Parser, params Parameters, mods Modifiers) (ParseResult, error) {
		if params.Count() > 0 || mods.Has(Colon) || mods.Has(At) {
			return ParseResult{}, p.Error(ParseMalformedDirective, directiveString(params, mods, spec.Identifier()))
		}
		return closing(p, spec, params, mods), nil
	}
}

func parseIterationEnd(p *Parser, params Parameters, mods Modifiers) (ParseResult, error) {
	if params.Count() > 0 || mods.Has(At) {
		return ParseResult{}, p.Error(ParseMalformedDirective, directiveString(params, mods, '}'))
	}
	return closing(p, iterationEnd, params, mods), nil
}

func parseSeparator(p *Parser, params Parameters, mods Modifiers) (ParseResult, error) {
	ok := !mods.Has(At) && (params.Count() == 0 || (mods.Has(Colon) && params.Count() <= 2))
	if !ok {
		return ParseResult{}, p.Error(ParseMalformedDirective, directiveString(params, mods, ';'))
	}
	return closing(p, separator, params, mods), nil
}

func isExit(d *Directive, kind Kind) bool {
	return d != nil && d.Specifier.Kind() == kind
}

// conversion implements ~(...~).
type conversion struct {
	body *Control
}

func parseConversion(p *Parser, params Parameters, mods Modifiers) (ParseResult, error) {
	id := p.Current()
	body, exit, err := p.Body()
	if err != nil {
		return ParseResult{}, err
	}
	if !isExit(exit, KindConversionEnd) {
		return ParseResult{}, p.Error(ParseMalformedDirectiveSyntax, "conversion syntax ~(...~)")
	}
	return AppendDirective(&Directive{Identifier: id, Parameters: params, Modifiers: mods, Specifier: &conversion{body: body}}), nil
}

func (c *conversion) Identifier() rune { return '(' }

func (c *conversion) Kind() Kind { return KindConversion }

func (c *conversion) Bodies() []*Control { return []*Control{c.body} }

func (c *conversion) Apply(ctx *Context, _ Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
	res, err := c.body.Execute(args, ctx)
	if err != nil {
		return Instruction{}, err
	}
	tag := args.Locale()
	var text string
	switch {
	case mods.Has(Colon | At):
		text = cases.Upper(tag).String(res.Text)
	case mods.Has(Colon):
		text = cases.Title(tag).String(res.Text)
	case mods.Has(At):
		first, size := utf8.DecodeRuneInString(res.Text)
		if size > 0 {
			text = cases.Upper(tag).String(string(first)) + res.Text[size:]
		}
	default:
		text = cases.Lower(tag).String(res.Text)
	}
	return res.withText(text), nil
}

// conditional implements ~[...~;...~]. When hasDefault is set the last
// branch is the ~:; default.
type conditional struct {
	branches   []*Control
	hasDefault bool
}

func parseConditional(p *Parser, params Parameters, mods Modifiers) (ParseResult, error) {
	id := p.Current()
	c := &conditional{}
	for {
		body, exit, err := p.Body()
		if err != nil {
			return ParseResult{}, err
		}
		c.branches = append(c.branches, body)
		switch {
		case isExit(exit, KindConditionalEnd):
			return AppendDirective(&Directive{Identifier: id, Parameters: params, Modifiers: mods, Specifier: c}), nil
		case isExit(exit, KindSeparator):
			if c.hasDefault {
				return ParseResult{}, p.Error(ParseMalformedDirectiveSyntax, "conditional syntax ~[...~:;...~]")
			}
			c.hasDefault = exit.Modifiers.Has(Colon)
		default:
			return ParseResult{}, p.Error(ParseMalformedDirectiveSyntax, "conditional syntax ~[...~]")
		}
	}
}

func (c *conditional) Identifier() rune { return '[' }

func (c *conditional) Kind() Kind { return KindConditional }

func (c *conditional) Bodies() []*Control { return c.branches }

func (c *conditional) Apply(ctx *Context, params Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
	switch {
	case mods.Has(Colon | At):
		return Instruction{}, malformed(params, mods, '[')
	case mods.Has(Colon):
		if len(c.branches) != 2 || c.hasDefault || params.Count() > 0 {
			return Instruction{}, malformed(params, mods, '[')
		}
		v, err := args.Next()
		if err != nil {
			return Instruction{}, err
		}
		if !v.IsNil() {
			return c.branches[1].Execute(args, ctx)
		}
		return c.branches[0].Execute(args, ctx)
	case mods.Has(At):
		if len(c.branches) != 1 || c.hasDefault || params.Count() > 0 {
			return Instruction{}, malformed(params, mods, '[')
		}
		v, err := args.Peek()
		if err != nil {
			return Instruction{}, err
		}
		if !v.IsNil() {
			return c.branches[0].Execute(args, ctx)
		}
		if _, err := args.Next(); err != nil {
			return Instruction{}, err
		}
		return Append(""), nil
	}

	idx, ok, err := params.SignedNumber(0)
	if err != nil {
		return Instruction{}, err
	}
	if !ok {
		if idx, err = args.NextInt(); err != nil {
			return Instruction{}, err
		}
	}
	branches := c.branches
	if c.hasDefault {
		branches = branches[:len(branches)-1]
	}
	switch {
	case idx >= 0 && idx < len(branches):
		return branches[idx].Execute(args, ctx)
	case c.hasDefault:
		return c.branches[len(c.branches)-1].Execute(args, ctx)
	}
	return Append(""), nil
}

// iteration implements ~{...~}. An empty body takes its control string
// from the arguments.
type iteration struct {
	body        *Control
	atLeastOnce bool
}

func parseIteration(p *Parser, params Parameters, mods Modifiers) (ParseResult, error) {
	id := p.Current()
	body, exit, err := p.Body()
	if err != nil {
		return ParseResult{}, err
	}
	if !isExit(exit, KindIterationEnd) {
		return ParseResult{}, p.Error(ParseMalformedDirectiveSyntax, "iteration syntax ~{...~}")
	}
	it := &iteration{body: body, atLeastOnce: exit.Modifiers.Has(Colon)}
	return AppendDirective(&Directive{Identifier: id, Parameters: params, Modifiers: mods, Specifier: it}), nil
}

func (it *iteration) Identifier() rune { return '{' }

func (it *iteration) Kind() Kind { return KindIteration }

func (it *iteration) Bodies() []*Control { return []*Control{it.body} }

func (it *iteration) Apply(ctx *Context, params Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
	passes := Unlimited
	if n, ok, err := params.Number(0); err != nil {
		return Instruction{}, err
	} else if ok {
		passes = n
	}
	sublist := Unlimited
	if n, ok, err := params.Number(1); err != nil {
		return Instruction{}, err
	} else if ok {
		sublist = n
	}

	body := it.body
	if body.Len() == 0 {
		src, err := args.NextString()
		if err != nil {
			return Instruction{}, err
		}
		if ctx, err = ctx.Nested(); err != nil {
			return Instruction{}, err
		}
		if body, err = ParseWithDepth(src, ctx.Registry(), ctx.MaxDepth()); err != nil {
			return Instruction{}, err
		}
	}

	source := args
	if !mods.Has(At) {
		var err error
		if source, err = args.NextArguments(Unlimited); err != nil {
			return Instruction{}, err
		}
	}

	var out strings.Builder
	if !mods.Has(Colon) {
		floor := source.MarkFirstArg()
		defer source.SetFirstArg(floor)
	}
	for pass := 0; passes < 0 || pass < passes; pass++ {
		if source.Remaining() == 0 && !(it.atLeastOnce && pass == 0) {
			break
		}
		frame := ctx.Push(out.String())
		var res Instruction
		var err error
		if mods.Has(Colon) {
			var sub *Arguments
			if source.Remaining() > 0 {
				elem, err := source.Next()
				if err != nil {
					return Instruction{}, err
				}
				if elem.Kind() != value.KindSeq && sublist == 0 {
					continue
				}
				sub = source.SubArguments(elem, sublist, source.Remaining())
			} else {
				sub = source.scoped(nil, sublist, 0)
			}
			res, err = body.Execute(sub, frame)
		} else {
			before := source.Index()
			res, err = body.Execute(source, frame)
			if err == nil && res.Kind != InstructionBreak && passes == Unlimited && source.Index() == before {
				out.WriteString(res.Text)
				break
			}
		}
		if err != nil {
			return Instruction{}, err
		}
		out.WriteString(res.Text)
		if res.Kind == InstructionBreak {
			break
		}
	}
	return Append(out.String()), nil
}

// justification implements ~mincol,colinc,minpad,padchar,maxcol,ellipsis<...~>.
// With hasSpare the first section is only printed when the justified text
// does not fit on the current line.
type justification struct {
	sections []*Control
	spare    int
	hasSpare bool
	width    int
	hasWidth bool
}

func parseJustification(p *Parser, params Parameters, mods Modifiers) (ParseResult, error) {
	id := p.Current()
	j := &justification{}
	for {
		body, exit, err := p.Body()
		if err != nil {
			return ParseResult{}, err
		}
		j.sections = append(j.sections, body)
		switch {
		case isExit(exit, KindJustificationEnd):
			return AppendDirective(&Directive{Identifier: id, Parameters: params, Modifiers: mods, Specifier: j}), nil
		case isExit(exit, KindSeparator):
			if !exit.Modifiers.Has(Colon) {
				continue
			}
			if len(j.sections) != 1 {
				return ParseResult{}, p.Error(ParseMalformedDirectiveSyntax, "justification syntax ~<...~:;...~>")
			}
			spare, err := exit.Parameters.NumberOr(0, 0)
			if err != nil {
				return ParseResult{}, p.Error(ParseMalformedDirective, exit.String())
			}
			width, hasWidth, err := exit.Parameters.Number(1)
			if err != nil {
				return ParseResult{}, p.Error(ParseMalformedDirective, exit.String())
			}
			j.spare, j.hasSpare, j.width, j.hasWidth = spare, true, width, hasWidth
		default:
			return ParseResult{}, p.Error(ParseMalformedDirectiveSyntax, "justification syntax ~<...~>")
		}
	}
}

func (j *justification) Identifier() rune { return '<' }

func (j *justification) Kind() Kind { return KindJustification }

func (j *justification) Bodies() []*Control { return j.sections }

func (j *justification) Apply(ctx *Context, params Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
	spec, err := padSpec(params, 0)
	if err != nil {
		return Instruction{}, err
	}
	if spec.HasMax && len(j.sections) != 1 {
		return Instruction{}, malformed(params, mods, '<')
	}
	colinc := max(spec.ColInc, 1)

	var strs []string
collect:
	for _, section := range j.sections {
		res, err := section.Execute(args, ctx)
		if err != nil {
			return Instruction{}, err
		}
		switch res.Kind {
		case InstructionAppend:
			strs = append(strs, res.Text)
		case InstructionContinue:
			break collect
		default:
			return Instruction{}, malformed(params, mods, '<')
		}
	}
	if len(strs) == 0 {
		return Append(""), nil
	}

	body := strs
	if j.hasSpare && len(strs) > 1 {
		body = strs[1:]
	}
	textLen := 0
	for _, s := range body {
		textLen += render.Width(s)
	}
	gaps := len(body) - 1
	if mods.Has(Colon) {
		gaps++
	}
	if mods.Has(At) {
		gaps++
	}
	length := textLen + spec.MinPad*gaps
	width := spec.MinCol
	if length > width {
		width += (length - spec.MinCol + colinc - 1) / colinc * colinc
	}

	var justified string
	switch {
	case len(body) == 1 && !j.hasSpare && spec.HasMax:
		justified = render.Pad(body[0], render.PadSpec{
			MinCol:   width,
			ColInc:   1,
			PadChar:  spec.PadChar,
			MaxCol:   spec.MaxCol,
			HasMax:   true,
			Ellipsis: spec.Ellipsis,
			Left:     mods.Has(Colon) || !mods.Has(At),
			Right:    mods.Has(At),
		})
	case gaps == 0:
		justified = render.Repeat(spec.PadChar, width-textLen) + body[0]
	default:
		dist := render.Distribute(width-textLen, gaps)
		var sb strings.Builder
		gap := 0
		next := func() {
			sb.WriteString(render.Repeat(spec.PadChar, dist[gap]))
			gap++
		}
		if mods.Has(Colon) {
			next()
		}
		for i, s := range body {
			if i > 0 {
				next()
			}
			sb.WriteString(s)
		}
		if mods.Has(At) {
			next()
		}
		justified = sb.String()
	}

	if j.hasSpare && len(strs) > 1 {
		lineWidth := args.LineWidth()
		if j.hasWidth {
			lineWidth = j.width
		}
		if ctx.Column(args.TabSize())+render.Width(justified)+j.spare > lineWidth {
			justified = strs[0] + justified
		}
	}
	return Append(justified), nil
}

// applyIndirection implements ~?. The control string is taken from the
// next argument. Without @ its arguments come from a sequence argument;
// with @ it consumes the enclosing arguments. Early exits do not leave the
// indirected control.
func applyIndirection(ctx *Context, _ Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
	src, err := args.NextString()
	if err != nil {
		return Instruction{}, err
	}
	nested, err := ctx.Nested()
	if err != nil {
		return Instruction{}, err
	}
	ctl, err := ParseWithDepth(src, ctx.Registry(), ctx.MaxDepth())
	if err != nil {
		return Instruction{}, err
	}
	source := args
	if !mods.Has(At) {
		if source, err = args.NextArguments(Unlimited); err != nil {
			return Instruction{}, err
		}
	}
	res, err := ctl.Execute(source, nested)
	if err != nil {
		return Instruction{}, err
	}
	return Append(res.Text), nil
}
