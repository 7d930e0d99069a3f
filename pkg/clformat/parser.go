package clformat

import (
	"strconv"
	"strings"
)

// Parser reads a control string. Parse functions registered in a Registry
// receive the parser so that composite directives can read nested bodies.
type Parser struct {
	src      []rune
	pos      int
	registry *Registry
	depth    int
	maxDepth int
	current  rune
}

// NewParser creates a parser for control using registry.
func NewParser(control string, registry *Registry) *Parser {
	return NewParserWithDepth(control, registry, DefaultMaxDepth)
}

// NewParserWithDepth creates a parser that fails with a DepthError when
// bodies nest deeper than maxDepth.
func NewParserWithDepth(control string, registry *Registry, maxDepth int) *Parser {
	if registry == nil {
		registry = StandardRegistry()
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Parser{src: []rune(control), registry: registry, maxDepth: maxDepth}
}

// Parse parses control into a Control.
func Parse(control string, registry *Registry) (*Control, error) {
	return NewParser(control, registry).Parse()
}

// ParseWithDepth is like Parse with an explicit nesting limit.
func ParseWithDepth(control string, registry *Registry, maxDepth int) (*Control, error) {
	return NewParserWithDepth(control, registry, maxDepth).Parse()
}

// Parse parses the whole input. A closing directive at the top level is an
// error.
func (p *Parser) Parse() (*Control, error) {
	ctl, exit, err := p.Body()
	if err != nil {
		return nil, err
	}
	if exit != nil {
		return nil, p.Error(ParseMisplacedDirective, exit.String())
	}
	return ctl, nil
}

// Position returns the rune offset of the next unread character.
func (p *Parser) Position() int { return p.pos }

// Registry returns the registry used for lookups.
func (p *Parser) Registry() *Registry { return p.registry }

// Current returns the identifier of the directive being parsed.
func (p *Parser) Current() rune { return p.current }

// Error creates a ParseError at the current position.
func (p *Parser) Error(kind ParseErrorKind, detail string) error {
	return NewParseError(kind, p.pos, detail)
}

// NextChar consumes and returns the next character.
func (p *Parser) NextChar() (rune, error) {
	if p.pos >= len(p.src) {
		return 0, p.Error(ParsePrematureEnd, "")
	}
	ch := p.src[p.pos]
	p.pos++
	return ch, nil
}

// Lookahead returns the next character without consuming it.
func (p *Parser) Lookahead() (rune, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

// Body parses components until the input ends or a directive asks to exit.
// The exiting directive is returned alongside the body; it is nil when the
// input ended.
func (p *Parser) Body() (*Control, *Directive, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		return nil, nil, &DepthError{Limit: p.maxDepth}
	}

	var components []Component
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			components = append(components, Component{Text: text.String()})
			text.Reset()
		}
	}

	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		p.pos++
		if ch != '~' {
			text.WriteRune(ch)
			continue
		}
		flush()

		res, err := p.directive()
		if err != nil {
			return nil, nil, err
		}
		switch res.Action {
		case ParseAppend:
			components = append(components, Component{Directive: res.Directive})
		case ParseExit:
			return NewControl(components, p.registry), res.Directive, nil
		}
	}
	flush()
	return NewControl(components, p.registry), nil, nil
}

// directive parses one directive after its leading tilde.
func (p *Parser) directive() (ParseResult, error) {
	var params Parameters
	ch, err := p.NextChar()
	if err != nil {
		return ParseResult{}, err
	}
	for {
		switch {
		case ch == '#':
			params = append(params, RemainingParam())
			ch, err = p.NextChar()
		case ch == 'v' || ch == 'V':
			params = append(params, NextArgumentParam())
			ch, err = p.NextChar()
		case ch == '\'':
			var quoted rune
			if quoted, err = p.NextChar(); err == nil {
				params = append(params, CharParam(quoted))
				ch, err = p.NextChar()
			}
		case ch == '-' || isDigit(ch):
			var n int
			n, ch, err = p.number(ch)
			if err == nil {
				params = append(params, NumberParam(n))
			}
		case ch == ',':
			params = append(params, NoParam())
		}
		if err != nil {
			return ParseResult{}, err
		}
		if ch != ',' {
			if len(params) > 0 && isParamStart(ch) {
				return ParseResult{}, p.Error(ParseMalformedParameter, string(ch))
			}
			break
		}
		if ch, err = p.NextChar(); err != nil {
			return ParseResult{}, err
		}
	}

	var mods Modifiers
	for {
		var m Modifiers
		switch ch {
		case ':':
			m = Colon
		case '@':
			m = At
		case '+':
			m = Plus
		}
		if m == 0 {
			break
		}
		if mods.Has(m) {
			return ParseResult{}, p.Error(ParseDuplicateModifier, string(ch))
		}
		mods |= m
		if ch, err = p.NextChar(); err != nil {
			return ParseResult{}, err
		}
	}

	fn, ok := p.registry.Lookup(ch)
	if !ok {
		return ParseResult{}, NewParseError(ParseUnknownDirective, p.pos-1, "~"+string(ch))
	}
	p.current = ch
	res, err := fn(p, params, mods)
	if err == nil && res.Directive != nil && res.Directive.Identifier == 0 {
		res.Directive.Identifier = ch
	}
	return res, err
}

// number reads an optionally signed integer starting with first. It returns
// the value and the character following it.
func (p *Parser) number(first rune) (int, rune, error) {
	start := p.pos - 1
	digits := []rune{first}
	ch, err := p.NextChar()
	if err != nil {
		return 0, 0, err
	}
	if first == '-' && !isDigit(ch) {
		return 0, 0, p.Error(ParseMalformedNumericParameter, "-"+string(ch))
	}
	for isDigit(ch) {
		digits = append(digits, ch)
		if ch, err = p.NextChar(); err != nil {
			return 0, 0, err
		}
	}
	n, convErr := strconv.Atoi(string(digits))
	if convErr != nil {
		return 0, 0, NewParseError(ParseMalformedNumericParameter, start, string(digits))
	}
	return n, ch, nil
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func isParamStart(ch rune) bool {
	return isDigit(ch) || strings.ContainsRune("#'-vV", ch)
}
