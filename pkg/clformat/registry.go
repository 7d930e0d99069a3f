package clformat

import (
	"sort"
	"sync"
)

// ParseAction tells the parser what to do with a parsed directive.
type ParseAction uint8

const (
	// ParseIgnore drops the directive.
	ParseIgnore ParseAction = iota
	// ParseAppend appends the directive to the current body.
	ParseAppend
	// ParseExit appends nothing and closes the current body.
	ParseExit
)

// ParseResult is returned by a ParseFunc.
type ParseResult struct {
	Action    ParseAction
	Directive *Directive
}

func Ignore() ParseResult { return ParseResult{Action: ParseIgnore} }

func AppendDirective(d *Directive) ParseResult {
	return ParseResult{Action: ParseAppend, Directive: d}
}

func ExitDirective(d *Directive) ParseResult {
	return ParseResult{Action: ParseExit, Directive: d}
}

// ParseFunc is called once the parameters and modifiers of a directive have
// been read. The parser is positioned right after the identifier, so
// composite directives can parse their bodies with p.Body.
type ParseFunc func(p *Parser, params Parameters, mods Modifiers) (ParseResult, error)

// AtomicParser returns the parse function for a directive without a body.
func AtomicParser(spec Specifier) ParseFunc {
	return func(p *Parser, params Parameters, mods Modifiers) (ParseResult, error) {
		return AppendDirective(&Directive{Identifier: p.Current(), Parameters: params, Modifiers: mods, Specifier: spec}), nil
	}
}

// Registry maps directive identifiers to parse functions. A Registry is
// immutable; use Extend or NewRegistryBuilder to derive new ones.
type Registry struct {
	parsers map[rune]ParseFunc
}

// Lookup returns the parse function registered for id.
func (r *Registry) Lookup(id rune) (ParseFunc, bool) {
	fn, ok := r.parsers[id]
	return fn, ok
}

// Identifiers returns the registered identifiers in sorted order.
func (r *Registry) Identifiers() []rune {
	ids := make([]rune, 0, len(r.parsers))
	for id := range r.parsers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of registered identifiers.
func (r *Registry) Len() int { return len(r.parsers) }

// Extend returns a builder initialized with the registrations of r.
func (r *Registry) Extend() *RegistryBuilder {
	b := NewRegistryBuilder()
	for id, fn := range r.parsers {
		b.parsers[id] = fn
	}
	return b
}

// RegistryBuilder assembles a Registry.
type RegistryBuilder struct {
	parsers map[rune]ParseFunc
}

// NewRegistryBuilder creates an empty builder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{parsers: make(map[rune]ParseFunc)}
}

// Parse registers fn for each identifier.
func (b *RegistryBuilder) Parse(fn ParseFunc, ids ...rune) *RegistryBuilder {
	for _, id := range ids {
		b.parsers[id] = fn
	}
	return b
}

// Atomic registers spec as a directive without a body. Without ids, the
// specifier's own identifier is used.
func (b *RegistryBuilder) Atomic(spec Specifier, ids ...rune) *RegistryBuilder {
	if len(ids) == 0 {
		ids = []rune{spec.Identifier()}
	}
	return b.Parse(AtomicParser(spec), ids...)
}

// Remove drops the registrations for ids.
func (b *RegistryBuilder) Remove(ids ...rune) *RegistryBuilder {
	for _, id := range ids {
		delete(b.parsers, id)
	}
	return b
}

// Build returns an immutable registry. The builder can be reused.
func (b *RegistryBuilder) Build() *Registry {
	parsers := make(map[rune]ParseFunc, len(b.parsers))
	for id, fn := range b.parsers {
		parsers[id] = fn
	}
	return &Registry{parsers: parsers}
}

var (
	standardRegistry     *Registry
	standardRegistryOnce sync.Once
)

// StandardRegistry returns the registry of built-in directives.
func StandardRegistry() *Registry {
	standardRegistryOnce.Do(func() {
		standardRegistry = buildStandardRegistry()
	})
	return standardRegistry
}

// atomicBoth registers spec under the lower and upper case form of its
// identifier.
func atomicBoth(b *RegistryBuilder, spec Specifier) {
	id := spec.Identifier()
	ids := []rune{id}
	if id >= 'a' && id <= 'z' {
		ids = append(ids, id-'a'+'A')
	}
	b.Atomic(spec, ids...)
}

func buildStandardRegistry() *Registry {
	b := NewRegistryBuilder()
	for _, spec := range builtinAtomics() {
		atomicBoth(b, spec)
	}
	b.Parse(parseNewline, '\n')
	b.Parse(parseConversion, '(')
	b.Parse(parseEndMarker(conversionEnd), ')')
	b.Parse(parseConditional, '[')
	b.Parse(parseEndMarker(conditionalEnd), ']')
	b.Parse(parseSeparator, ';')
	b.Parse(parseIteration, '{')
	b.Parse(parseIterationEnd, '}')
	b.Parse(parseJustification, '<')
	b.Parse(parseEndMarker(justificationEnd), '>')
	return b.Build()
}
