// Command clformat formats values with Common Lisp style control strings.
//
// Usage:
//
//	clformat [options] format CONTROL [ARGS...]
//	clformat [options] check CONTROL
//	clformat directives [NAME]
//	clformat repl
//	clformat version
//
// ARGS are HCL literals such as 1, "two", [3, 4] or char("x"). They can also
// be read from a YAML sequence with -args-file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/benjaminschreck/go-clformat/pkg/clformat"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"
)

const version = "0.1.0"

// ExitError is an error that carries the process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

func main() {
	if err := run(os.Stdout, os.Stderr, os.Stdin, os.Args[1:]); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	locale     string
	logLevel   string
	argsFile   string
	tabSize    int
	lineWidth  int
}

// environment is what the commands run against.
type environment struct {
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
	opts   options
	config *clformat.Config
	engine *clformat.Engine
	logger *clformat.Logger
}

type command struct {
	name    string
	summary string
	run     func(env *environment, args []string) error
}

var commands = []command{
	{"format", "format CONTROL with ARGS and print the result", cmdFormat},
	{"check", "parse CONTROL and print its component tree", cmdCheck},
	{"directives", "list the available directives", cmdDirectives},
	{"repl", "read controls and arguments interactively", cmdRepl},
	{"version", "print the version", cmdVersion},
}

func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}
	return names
}

// run parses args and executes the selected command.
func run(stdout, stderr io.Writer, stdin io.Reader, args []string) error {
	flagSet := flag.NewFlagSet("clformat", flag.ContinueOnError)
	flagSet.SetOutput(stderr)

	var opts options
	flagSet.StringVar(&opts.configPath, "config", "", "Path to a YAML configuration file.")
	flagSet.StringVar(&opts.locale, "locale", "", "BCP 47 locale used by the + directives, e.g. de-CH.")
	flagSet.StringVar(&opts.logLevel, "log-level", "", "Logging level: debug, info, warn, error or off.")
	flagSet.StringVar(&opts.argsFile, "args-file", "", "Read the arguments from a YAML sequence.")
	flagSet.IntVar(&opts.tabSize, "tabsize", 0, "Tab width used for column computations.")
	flagSet.IntVar(&opts.lineWidth, "linewidth", 0, "Line width used by fill justification.")

	flagSet.Usage = func() {
		fmt.Fprint(stderr, "clformat - Common Lisp style formatting\n\nUsage:\n  clformat [options] <command> [arguments]\n\nCommands:\n")
		for _, c := range commands {
			fmt.Fprintf(stderr, "  %-11s %s\n", c.name, c.summary)
		}
		fmt.Fprint(stderr, "\nOptions:\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return usageError("%v", err)
	}
	if flagSet.NArg() == 0 {
		flagSet.Usage()
		return usageError("missing command")
	}

	name := flagSet.Arg(0)
	var selected *command
	for i := range commands {
		if commands[i].name == name {
			selected = &commands[i]
			break
		}
	}
	if selected == nil {
		msg := fmt.Sprintf("unknown command %q", name)
		if s := suggest(name, commandNames()); s != "" {
			msg += fmt.Sprintf("; did you mean %q?", s)
		}
		return usageError("%s", msg)
	}

	env, err := newEnvironment(stdout, stderr, stdin, opts)
	if err != nil {
		return err
	}
	env.logger.WithField("command", name).Debug("running command")
	return selected.run(env, flagSet.Args()[1:])
}

func newEnvironment(stdout, stderr io.Writer, stdin io.Reader, opts options) (*environment, error) {
	config, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	logger := clformat.NewLogger(stderr, clformat.ParseLogLevel(config.LogLevel))
	engine := clformat.NewWithOptions(clformat.WithConfig(config), clformat.WithLogger(logger))
	return &environment{
		stdout: stdout,
		stderr: stderr,
		stdin:  stdin,
		opts:   opts,
		config: config,
		engine: engine,
		logger: logger,
	}, nil
}

// loadConfig layers the configuration file and the flags over the
// environment configuration.
func loadConfig(opts options) (*clformat.Config, error) {
	config := clformat.ConfigFromEnvironment()
	if opts.configPath != "" {
		data, err := os.ReadFile(opts.configPath)
		if err != nil {
			return nil, usageError("reading config: %v", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, usageError("parsing config %s: %v", opts.configPath, err)
		}
	}
	if opts.locale != "" {
		config.Locale = opts.locale
	}
	if opts.logLevel != "" {
		config.LogLevel = strings.ToLower(opts.logLevel)
	}
	if opts.tabSize != 0 {
		config.TabSize = opts.tabSize
	}
	if opts.lineWidth != 0 {
		config.LineWidth = opts.lineWidth
	}
	if err := config.Validate(); err != nil {
		return nil, usageError("invalid configuration: %v", err)
	}
	return config, nil
}

// suggest returns the candidate closest to target, or "" when nothing is
// close. Fuzzy subsequence matches win over edit distance.
func suggest(target string, candidates []string) string {
	if target == "" {
		return ""
	}
	if ranks := fuzzy.RankFindFold(target, candidates); len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}
	best, bestDist := "", 3
	lower := strings.ToLower(target)
	for _, c := range candidates {
		if d := levenshtein.Distance(lower, strings.ToLower(c), nil); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
