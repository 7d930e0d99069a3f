package value

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty/function"
)

var literalContext = &hcl.EvalContext{
	Functions: map[string]function.Function{
		"char": CharFunc,
	},
}

// ParseLiterals parses a comma separated list of HCL literal expressions,
// such as `1, "two", [3, 4.5], null, char("x")`, into an argument list.
// Variables are not available; char() is the only function.
func ParseLiterals(src string) ([]Value, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}
	expr, diags := hclsyntax.ParseExpression([]byte("["+src+"]"), "arguments", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, diags
	}
	v, diags := expr.Value(literalContext)
	if diags.HasErrors() {
		return nil, diags
	}
	conv, err := FromCty(v)
	if err != nil {
		return nil, err
	}
	elems, _ := conv.Elements()
	return elems, nil
}
