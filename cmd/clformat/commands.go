package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/benjaminschreck/go-clformat/pkg/clformat"
	"github.com/benjaminschreck/go-clformat/pkg/clformat/value"
)

type directiveInfo struct {
	name    string
	ids     string
	syntax  string
	summary string
}

// catalog documents the standard directives in the order they are listed.
var catalog = []directiveInfo{
	{"ascii", "aA", "~mincol,colinc,minpad,padchar,maxcol,elchar:@A", "print an argument without escapes"},
	{"write", "wW", "~mincol,colinc,minpad,padchar,maxcol,elchar:@W", "print an argument in its debug form"},
	{"sexpr", "sS", "~mincol,colinc,minpad,padchar,maxcol,elchar:@S", "print an argument with strings quoted"},
	{"decimal", "dD", "~mincol,padchar,commachar,commainterval:@+D", "print an integer in radix 10"},
	{"radix", "rR", "~radix,mincol,padchar,commachar,commainterval:@+R", "print an integer in any radix or spell it out"},
	{"binary", "bB", "~mincol,padchar,commachar,commainterval:@+B", "print an integer in radix 2"},
	{"octal", "oO", "~mincol,padchar,commachar,commainterval:@+O", "print an integer in radix 8"},
	{"hex", "xX", "~mincol,padchar,commachar,commainterval:@+X", "print an integer in radix 16"},
	{"character", "cC", "~:@+C", "print a character"},
	{"fixed", "fF", "~w,d,k,overflowchar,padchar,groupchar,groupsize@+F", "print a fixed-format floating point number"},
	{"exponent", "eE", "~w,d,e,k,overflowchar,padchar,exptchar@+E", "print an exponential floating point number"},
	{"general", "gG", "~w,d,e,k,overflowchar,padchar,exptchar@+G", "print a number in fixed or exponential form"},
	{"money", "$", "~d,n,w,padchar,currchar,groupchar,groupsize:@+$", "print a monetary amount"},
	{"newline", "%", "~n%", "print n newlines"},
	{"fresh-line", "&", "~n&", "print a newline unless at the start of a line"},
	{"page", "|", "~n|", "print n page separators"},
	{"tilde", "~", "~n~", "print n tildes"},
	{"plural", "pP", "~:@P", "print a plural suffix"},
	{"tabulate", "tT", "~colnum,colinc:@T", "move to a column"},
	{"skip", "*", "~n:@*", "skip, back up or jump between arguments"},
	{"up-and-out", "^", "~a,b,c:^", "leave the enclosing construct"},
	{"indirection", "?", "~@?", "format an argument as a control"},
	{"conversion", "(", "~:@(str~)", "convert the case of the enclosed output"},
	{"conditional", "[", "~n:@[str0~;str1~;...~:;default~]", "select one clause"},
	{"iteration", "{", "~n:@{str~}", "format every element of a sequence"},
	{"justification", "<", "~mincol,colinc,minpad,padchar:@<str~>", "justify text sections within a field"},
	{"ignored-newline", "\n", "~:@<newline>", "ignore a newline and the whitespace after it"},
}

func lookupDirective(name string) (directiveInfo, bool) {
	for _, info := range catalog {
		if strings.EqualFold(info.name, name) {
			return info, true
		}
	}
	if r := []rune(name); len(r) == 1 {
		for _, info := range catalog {
			if strings.ContainsRune(info.ids, r[0]) {
				return info, true
			}
		}
	}
	return directiveInfo{}, false
}

func cmdFormat(env *environment, args []string) error {
	if len(args) == 0 {
		return usageError("format requires a CONTROL argument")
	}
	values, err := env.arguments(args[1:])
	if err != nil {
		return err
	}
	out, err := env.engine.FormatValues(args[0], values)
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}
	writeLine(env.stdout, out)
	return nil
}

// arguments parses the command line literals, or the -args-file contents
// when that flag is set.
func (env *environment) arguments(literals []string) ([]value.Value, error) {
	if env.opts.argsFile != "" {
		if len(literals) > 0 {
			return nil, usageError("cannot combine ARGS with -args-file")
		}
		data, err := os.ReadFile(env.opts.argsFile)
		if err != nil {
			return nil, usageError("reading arguments: %v", err)
		}
		values, err := value.ParseYAML(data)
		if err != nil {
			return nil, usageError("parsing arguments: %v", err)
		}
		return values, nil
	}
	if len(literals) == 0 {
		return nil, nil
	}
	values, err := value.ParseLiterals(strings.Join(literals, ", "))
	if err != nil {
		return nil, usageError("parsing arguments: %v", err)
	}
	return values, nil
}

func cmdCheck(env *environment, args []string) error {
	if len(args) != 1 {
		return usageError("check requires exactly one CONTROL argument")
	}
	control, err := env.engine.Compile(args[0])
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}
	printTree(env.stdout, control, 0)
	return nil
}

func printTree(w io.Writer, control *clformat.Control, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, comp := range control.Components() {
		if comp.IsText() {
			fmt.Fprintf(w, "%s%s\n", indent, strconv.Quote(comp.Text))
			continue
		}
		d := comp.Directive
		fmt.Fprintf(w, "%s%s  %s\n", indent, strconv.Quote(d.String()), d.Specifier.Kind())
		composite, ok := d.Specifier.(clformat.Composite)
		if !ok {
			continue
		}
		bodies := composite.Bodies()
		for i, body := range bodies {
			if len(bodies) > 1 {
				fmt.Fprintf(w, "%s  [%d]\n", indent, i)
				printTree(w, body, depth+2)
			} else {
				printTree(w, body, depth+1)
			}
		}
	}
}

func cmdDirectives(env *environment, args []string) error {
	registry := env.engine.Registry()
	if len(args) == 0 {
		for _, info := range catalog {
			if _, ok := registry.Lookup([]rune(info.ids)[0]); !ok {
				continue
			}
			fmt.Fprintf(env.stdout, "  %-16s %-5s %s\n", info.name, displayIDs(info.ids), info.summary)
		}
		return nil
	}

	info, ok := lookupDirective(args[0])
	if !ok {
		names := make([]string, len(catalog))
		for i, c := range catalog {
			names[i] = c.name
		}
		msg := fmt.Sprintf("unknown directive %q", args[0])
		if s := suggest(args[0], names); s != "" {
			msg += fmt.Sprintf("; did you mean %q?", s)
		}
		return &ExitError{Code: 1, Message: msg}
	}
	fmt.Fprintf(env.stdout, "%s (%s)\n  %s\n  %s\n", info.name, displayIDs(info.ids), info.syntax, info.summary)
	return nil
}

func displayIDs(ids string) string {
	if ids == "\n" {
		return "~\\n"
	}
	var sb strings.Builder
	for i, r := range ids {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString("~" + string(r))
	}
	return sb.String()
}

// cmdRepl reads a control line followed by an arguments line until an empty
// control or end of input.
func cmdRepl(env *environment, args []string) error {
	if len(args) != 0 {
		return usageError("repl takes no arguments")
	}
	scanner := bufio.NewScanner(env.stdin)
	for {
		fmt.Fprint(env.stdout, "control> ")
		if !scanner.Scan() {
			fmt.Fprintln(env.stdout)
			break
		}
		control := scanner.Text()
		if control == "" {
			break
		}
		fmt.Fprint(env.stdout, "arguments> ")
		var literals string
		if scanner.Scan() {
			literals = scanner.Text()
		}

		var values []value.Value
		var err error
		if strings.TrimSpace(literals) != "" {
			values, err = value.ParseLiterals(literals)
		}
		if err == nil {
			var out string
			out, err = env.engine.FormatValues(control, values)
			if err == nil {
				writeLine(env.stdout, out)
				continue
			}
		}
		fmt.Fprintf(env.stdout, "error: %v\n", err)
	}
	if err := scanner.Err(); err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}
	return nil
}

func cmdVersion(env *environment, args []string) error {
	fmt.Fprintf(env.stdout, "clformat version %s\n", version)
	return nil
}

func writeLine(w io.Writer, s string) {
	if strings.HasSuffix(s, "\n") {
		fmt.Fprint(w, s)
		return
	}
	fmt.Fprintln(w, s)
}
