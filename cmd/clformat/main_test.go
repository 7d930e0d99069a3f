package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(&stdout, &stderr, strings.NewReader(stdin), args)
	return stdout.String(), stderr.String(), err
}

func requireExitCode(t *testing.T, err error, code int) *ExitError {
	t.Helper()
	require.Error(t, err)
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr), "expected an ExitError, got %T", err)
	require.Equal(t, code, exitErr.Code)
	return exitErr
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRun_Help(t *testing.T) {
	_, stderr, err := runCLI(t, "", "-h")

	require.NoError(t, err, "run() should return nil for -h")
	require.Contains(t, stderr, "Usage:")
	require.Contains(t, stderr, "directives")
}

func TestRun_MissingCommand(t *testing.T) {
	_, stderr, err := runCLI(t, "")

	exitErr := requireExitCode(t, err, 2)
	require.Equal(t, "missing command", exitErr.Message)
	require.Contains(t, stderr, "Commands:")
}

func TestRun_UnknownFlag(t *testing.T) {
	_, _, err := runCLI(t, "", "--this-is-not-a-valid-flag")

	exitErr := requireExitCode(t, err, 2)
	require.Contains(t, exitErr.Message, "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_UnknownCommand(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    string
	}{
		{"subsequence match", "fmt", `unknown command "fmt"; did you mean "format"?`},
		{"transposed letters", "fromat", `unknown command "fromat"; did you mean "format"?`},
		{"nothing close", "zzzzzz", `unknown command "zzzzzz"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, "", tt.command)
			exitErr := requireExitCode(t, err, 2)
			require.Equal(t, tt.want, exitErr.Message)
		})
	}
}

func TestRun_Format(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no arguments", []string{"format", "hello~%"}, "hello\n"},
		{"plural", []string{"format", "~D item~:P", "3"}, "3 items\n"},
		{"several literals", []string{"format", "~A and ~S", "1", `"two"`}, "1 and \"two\"\n"},
		{"list literal", []string{"format", "~{~A~^, ~}", "[1, 2, 3]"}, "1, 2, 3\n"},
		{"character", []string{"format", "~@C", `char("x")`}, "\"x\"\n"},
		{"locale flag", []string{"-locale", "de", "format", "~+D", "1234567"}, "1.234.567\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runCLI(t, "", tt.args...)
			require.NoError(t, err)
			require.Equal(t, tt.want, stdout)
		})
	}
}

func TestRun_FormatErrors(t *testing.T) {
	_, _, err := runCLI(t, "", "format")
	requireExitCode(t, err, 2)

	_, _, err = runCLI(t, "", "format", "~A", "[1,")
	exitErr := requireExitCode(t, err, 2)
	require.Contains(t, exitErr.Message, "parsing arguments")

	_, _, err = runCLI(t, "", "format", "~A")
	exitErr = requireExitCode(t, err, 1)
	require.Contains(t, exitErr.Message, "missing argument")

	_, _, err = runCLI(t, "", "format", "~Z")
	exitErr = requireExitCode(t, err, 1)
	require.Contains(t, exitErr.Message, "unknown directive")
}

func TestRun_ArgsFile(t *testing.T) {
	path := writeFile(t, "args.yaml", "- 42\n- [a, b]\n")

	stdout, _, err := runCLI(t, "", "-args-file", path, "format", "~D: ~{~A~^/~}")
	require.NoError(t, err)
	require.Equal(t, "42: a/b\n", stdout)

	_, _, err = runCLI(t, "", "-args-file", path, "format", "~A", "1")
	exitErr := requireExitCode(t, err, 2)
	require.Equal(t, "cannot combine ARGS with -args-file", exitErr.Message)
}

func TestRun_ConfigFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "locale: de\ntab_size: 4\n")

	stdout, _, err := runCLI(t, "", "-config", path, "format", "~+D", "1234567")
	require.NoError(t, err)
	require.Equal(t, "1.234.567\n", stdout)

	// Flags take precedence over the file.
	stdout, _, err = runCLI(t, "", "-config", path, "-locale", "en-US", "format", "~+D", "1234567")
	require.NoError(t, err)
	require.Equal(t, "1,234,567\n", stdout)
}

func TestRun_InvalidConfig(t *testing.T) {
	_, _, err := runCLI(t, "", "-config", filepath.Join(t.TempDir(), "missing.yaml"), "version")
	exitErr := requireExitCode(t, err, 2)
	require.Contains(t, exitErr.Message, "reading config")

	path := writeFile(t, "bad.yaml", "tab_size: [\n")
	_, _, err = runCLI(t, "", "-config", path, "version")
	exitErr = requireExitCode(t, err, 2)
	require.Contains(t, exitErr.Message, "parsing config")

	_, _, err = runCLI(t, "", "-tabsize", "-3", "version")
	exitErr = requireExitCode(t, err, 2)
	require.Contains(t, exitErr.Message, "TabSize")

	_, _, err = runCLI(t, "", "-log-level", "loud", "version")
	exitErr = requireExitCode(t, err, 2)
	require.Contains(t, exitErr.Message, "invalid log level: loud")
}

func TestRun_DebugLogging(t *testing.T) {
	_, stderr, err := runCLI(t, "", "-log-level", "debug", "format", "~A", "1")
	require.NoError(t, err)
	require.Contains(t, stderr, "[DEBUG] running command command=format")
	require.Contains(t, stderr, "control cache miss")
}

func TestRun_Check(t *testing.T) {
	stdout, _, err := runCLI(t, "", "check", "Items:~{ ~A~^,~}")
	require.NoError(t, err)

	want := strings.Join([]string{
		`"Items:"`,
		`"~{"  iteration`,
		`  " "`,
		`  "~A"  ascii`,
		`  "~^"  up-and-out`,
		`  ","`,
		"",
	}, "\n")
	require.Equal(t, want, stdout)

	stdout, _, err = runCLI(t, "", "check", "~[a~;b~]")
	require.NoError(t, err)
	require.Contains(t, stdout, "  [0]\n    \"a\"\n")
	require.Contains(t, stdout, "  [1]\n    \"b\"\n")

	_, _, err = runCLI(t, "", "check", "~{")
	requireExitCode(t, err, 1)

	_, _, err = runCLI(t, "", "check")
	requireExitCode(t, err, 2)
}

func TestRun_Directives(t *testing.T) {
	stdout, _, err := runCLI(t, "", "directives")
	require.NoError(t, err)
	require.Contains(t, stdout, "decimal")
	require.Contains(t, stdout, "~d ~D")
	require.Contains(t, stdout, "justification")

	stdout, _, err = runCLI(t, "", "directives", "plural")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "plural (~p ~P)\n"), "got %q", stdout)

	stdout, _, err = runCLI(t, "", "directives", "$")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "money (~$)\n"), "got %q", stdout)

	_, _, err = runCLI(t, "", "directives", "decimel")
	exitErr := requireExitCode(t, err, 1)
	require.Equal(t, `unknown directive "decimel"; did you mean "decimal"?`, exitErr.Message)
}

func TestRun_Repl(t *testing.T) {
	input := "~A + ~A\n1, 2\n~D\n\nhi\n\n\n"
	stdout, _, err := runCLI(t, input, "repl")
	require.NoError(t, err)

	require.Contains(t, stdout, "arguments> 1 + 2\n")
	require.Contains(t, stdout, "error: ")
	require.Contains(t, stdout, "arguments> hi\n")
	require.True(t, strings.HasSuffix(stdout, "control> "), "got %q", stdout)

	_, _, err = runCLI(t, "", "repl", "extra")
	requireExitCode(t, err, 2)
}

func TestRun_Version(t *testing.T) {
	stdout, _, err := runCLI(t, "", "version")
	require.NoError(t, err)
	require.Equal(t, "clformat version "+version+"\n", stdout)
}
