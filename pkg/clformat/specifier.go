package clformat

// Kind identifies a built-in directive. Directives registered through
// NewSpecifier report KindCustom.
type Kind uint8

const (
	KindCustom Kind = iota
	KindAscii
	KindWrite
	KindSexpr
	KindDecimal
	KindRadix
	KindBinary
	KindOctal
	KindHex
	KindCharacter
	KindFixed
	KindExponent
	KindGeneral
	KindMoney
	KindNewline
	KindFreshLine
	KindPage
	KindTilde
	KindPlural
	KindTabulate
	KindSkip
	KindUpAndOut
	KindIndirection
	KindConversion
	KindConversionEnd
	KindConditional
	KindConditionalEnd
	KindSeparator
	KindIteration
	KindIterationEnd
	KindJustification
	KindJustificationEnd
)

var kindNames = map[Kind]string{
	KindCustom:           "custom",
	KindAscii:            "ascii",
	KindWrite:            "write",
	KindSexpr:            "sexpr",
	KindDecimal:          "decimal",
	KindRadix:            "radix",
	KindBinary:           "binary",
	KindOctal:            "octal",
	KindHex:              "hex",
	KindCharacter:        "character",
	KindFixed:            "fixed",
	KindExponent:         "exponent",
	KindGeneral:          "general",
	KindMoney:            "money",
	KindNewline:          "newline",
	KindFreshLine:        "fresh-line",
	KindPage:             "page",
	KindTilde:            "tilde",
	KindPlural:           "plural",
	KindTabulate:         "tabulate",
	KindSkip:             "skip",
	KindUpAndOut:         "up-and-out",
	KindIndirection:      "indirection",
	KindConversion:       "conversion",
	KindConversionEnd:    "conversion-end",
	KindConditional:      "conditional",
	KindConditionalEnd:   "conditional-end",
	KindSeparator:        "separator",
	KindIteration:        "iteration",
	KindIterationEnd:     "iteration-end",
	KindJustification:    "justification",
	KindJustificationEnd: "justification-end",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Specifier implements a directive at run time.
type Specifier interface {
	Identifier() rune
	Kind() Kind
	Apply(ctx *Context, params Parameters, mods Modifiers, args *Arguments) (Instruction, error)
}

// Composite is implemented by specifiers that own nested controls.
type Composite interface {
	Specifier
	Bodies() []*Control
}

// ApplyFunc is the run-time behavior of an atomic directive. ctx holds the
// output produced so far and params are already resolved.
type ApplyFunc func(ctx *Context, params Parameters, mods Modifiers, args *Arguments) (Instruction, error)

type atomic struct {
	id    rune
	kind  Kind
	apply ApplyFunc
}

// NewSpecifier creates a custom atomic directive.
func NewSpecifier(id rune, fn ApplyFunc) Specifier {
	return &atomic{id: id, kind: KindCustom, apply: fn}
}

func (s *atomic) Identifier() rune { return s.id }

func (s *atomic) Kind() Kind { return s.kind }

func (s *atomic) Apply(ctx *Context, params Parameters, mods Modifiers, args *Arguments) (Instruction, error) {
	return s.apply(ctx, params, mods, args)
}
