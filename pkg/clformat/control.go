package clformat

import (
	"strconv"
	"strings"

	"github.com/benjaminschreck/go-clformat/pkg/clformat/render"
	"github.com/benjaminschreck/go-clformat/pkg/clformat/value"
)

// InstructionKind tells the enclosing control how to proceed after a
// directive has been applied.
type InstructionKind uint8

const (
	// InstructionAppend appends the text and continues.
	InstructionAppend InstructionKind = iota
	// InstructionContinue ends the innermost pass or section.
	InstructionContinue
	// InstructionBreak ends the enclosing iteration.
	InstructionBreak
)

func (k InstructionKind) String() string {
	switch k {
	case InstructionContinue:
		return "continue"
	case InstructionBreak:
		return "break"
	default:
		return "append"
	}
}

// Instruction is the result of applying a directive or executing a control.
type Instruction struct {
	Kind InstructionKind
	Text string
}

func Append(text string) Instruction { return Instruction{Kind: InstructionAppend, Text: text} }

func Continue(text string) Instruction { return Instruction{Kind: InstructionContinue, Text: text} }

func Break(text string) Instruction { return Instruction{Kind: InstructionBreak, Text: text} }

// withText returns the instruction with its text replaced.
func (in Instruction) withText(text string) Instruction {
	in.Text = text
	return in
}

// Directive is a parsed directive: its parameters, modifiers and the
// specifier that implements it.
// Directive is one parsed directive. Identifier is the character written in
// the control, so ~a and ~A keep their spelling while sharing a specifier.
type Directive struct {
	Identifier rune
	Parameters Parameters
	Modifiers  Modifiers
	Specifier  Specifier
}

// ID returns the identifier the directive was written with, falling back to
// the specifier's identifier for directives built by hand.
func (d *Directive) ID() rune {
	if d.Identifier != 0 {
		return d.Identifier
	}
	return d.Specifier.Identifier()
}

// String renders the directive head in control string syntax, e.g. "~2,'0:D".
func (d *Directive) String() string {
	return directiveString(d.Parameters, d.Modifiers, d.ID())
}

func directiveString(params Parameters, mods Modifiers, id rune) string {
	return "~" + params.String() + mods.String() + string(id)
}

// Component is one element of a control: literal text or a directive.
type Component struct {
	Text      string
	Directive *Directive
}

// IsText reports whether the component is literal text.
func (c Component) IsText() bool { return c.Directive == nil }

// Control is a parsed control string. It is immutable after parsing and safe
// for concurrent use.
type Control struct {
	components []Component
	registry   *Registry
}

// NewControl creates a control from components. registry is the registry
// the components were parsed with.
func NewControl(components []Component, registry *Registry) *Control {
	return &Control{components: components, registry: registry}
}

// Components returns a copy of the component list.
func (c *Control) Components() []Component {
	return append([]Component(nil), c.components...)
}

func (c *Control) Len() int { return len(c.components) }

func (c *Control) Registry() *Registry { return c.registry }

// String renders the component list, quoting literal text.
func (c *Control) String() string {
	parts := make([]string, len(c.components))
	for i, comp := range c.components {
		if comp.IsText() {
			parts[i] = strconv.Quote(comp.Text)
		} else {
			parts[i] = comp.Directive.String()
		}
	}
	return strings.Join(parts, ", ")
}

// Execute runs the control against args, appending to the output already in
// ctx. A Continue or Break from a directive stops execution and is returned
// with the text accumulated so far.
func (c *Control) Execute(args *Arguments, ctx *Context) (Instruction, error) {
	var sb strings.Builder
	for _, comp := range c.components {
		if comp.IsText() {
			sb.WriteString(comp.Text)
			continue
		}
		d := comp.Directive
		params, err := d.Parameters.Resolve(args)
		if err != nil {
			return Instruction{}, err
		}
		res, err := d.Specifier.Apply(ctx.Push(sb.String()), params, d.Modifiers, args)
		if err != nil {
			return Instruction{}, err
		}
		sb.WriteString(res.Text)
		if res.Kind != InstructionAppend {
			return res.withText(sb.String()), nil
		}
	}
	return Append(sb.String()), nil
}

// Format runs the control with a fresh root context and returns the text.
func (c *Control) Format(args *Arguments) (string, error) {
	res, err := c.Execute(args, NewContext(c.registry, DefaultMaxDepth))
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Sprint converts args with value.Of and formats them.
func (c *Control) Sprint(args ...any) (string, error) {
	return c.Format(NewArguments(value.Values(args...)))
}

// DefaultMaxDepth bounds the nesting of bodies and indirections.
const DefaultMaxDepth = 100

// Context is an immutable chain of output frames. Each frame holds the text
// produced before a directive, so a directive can inspect the full output
// written so far without copying it.
type Context struct {
	parent   *Context
	text     string
	registry *Registry
	depth    int
	maxDepth int
}

// NewContext creates a root context.
func NewContext(registry *Registry, maxDepth int) *Context {
	if registry == nil {
		registry = StandardRegistry()
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Context{registry: registry, maxDepth: maxDepth}
}

// Push returns a child frame holding text.
func (c *Context) Push(text string) *Context {
	return &Context{parent: c, text: text, registry: c.registry, depth: c.depth, maxDepth: c.maxDepth}
}

// Nested returns a child frame one indirection level deeper.
func (c *Context) Nested() (*Context, error) {
	if c.depth+1 > c.maxDepth {
		return nil, &DepthError{Limit: c.maxDepth}
	}
	return &Context{parent: c, registry: c.registry, depth: c.depth + 1, maxDepth: c.maxDepth}, nil
}

// Output returns the text of the whole chain, oldest frame first.
func (c *Context) Output() string {
	var frames []string
	for f := c; f != nil; f = f.parent {
		if f.text != "" {
			frames = append(frames, f.text)
		}
	}
	var sb strings.Builder
	for i := len(frames) - 1; i >= 0; i-- {
		sb.WriteString(frames[i])
	}
	return sb.String()
}

// Column returns the display column at the end of the output.
func (c *Context) Column(tabSize int) int {
	return render.Column(c.Output(), tabSize)
}

func (c *Context) Registry() *Registry { return c.registry }

func (c *Context) Depth() int { return c.depth }

func (c *Context) MaxDepth() int { return c.maxDepth }
