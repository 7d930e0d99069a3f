package clformat

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ParseErrorKind classifies a ParseError.
type ParseErrorKind int

const (
	ParsePrematureEnd ParseErrorKind = iota
	ParseDuplicateModifier
	ParseMalformedParameter
	ParseMalformedNumericParameter
	ParseMalformedDirectiveSyntax
	ParseMalformedDirective
	ParseMisplacedDirective
	ParseUnsupportedDirective
	ParseUnknownDirective
)

func (k ParseErrorKind) String() string {
	switch k {
	case ParsePrematureEnd:
		return "premature end"
	case ParseDuplicateModifier:
		return "duplicate modifier"
	case ParseMalformedParameter:
		return "malformed parameter"
	case ParseMalformedNumericParameter:
		return "malformed numeric parameter"
	case ParseMalformedDirectiveSyntax:
		return "malformed directive syntax"
	case ParseMalformedDirective:
		return "malformed directive"
	case ParseMisplacedDirective:
		return "misplaced directive"
	case ParseUnsupportedDirective:
		return "unsupported directive"
	case ParseUnknownDirective:
		return "unknown directive"
	default:
		return "unknown parse error"
	}
}

// ParseError represents an error while parsing a control string. Position
// is a rune offset into the control string.
type ParseError struct {
	Kind     ParseErrorKind
	Position int
	Detail   string
}

func (e *ParseError) Error() string {
	var msg string
	switch e.Kind {
	case ParsePrematureEnd:
		msg = "premature end of control"
	case ParseMalformedNumericParameter:
		msg = "malformed numeric parameter: " + e.Detail
	case ParseMalformedDirectiveSyntax:
		msg = "malformed " + e.Detail
	case ParseMisplacedDirective:
		msg = fmt.Sprintf("directive %s in unsupported place", e.Detail)
	default:
		msg = e.Kind.String()
		if e.Detail != "" {
			msg += " " + e.Detail
		}
	}
	return fmt.Sprintf("parse error at position %d: %s", e.Position, msg)
}

// NewParseError creates a new parse error
func NewParseError(kind ParseErrorKind, position int, detail string) error {
	return &ParseError{Kind: kind, Position: position, Detail: detail}
}

// FormatErrorKind classifies a FormatError.
type FormatErrorKind int

const (
	ExecMalformedDirective FormatErrorKind = iota
	ExecUnsupportedDirective
	ExecArgumentOutOfRange
	ExecMissingArgument
	ExecExpectedNumberArgument
	ExecExpectedSequenceArgument
	ExecExpectedStringArgument
	ExecExpectedCharacterArgument
	ExecCannotUseArgumentAsParameter
	ExecMissingNumberParameter
	ExecExpectedNumberParameter
	ExecExpectedPositiveNumberParameter
	ExecMissingCharacterParameter
	ExecExpectedCharacterParameter
	ExecCannotRepresentNumber
)

func (k FormatErrorKind) String() string {
	switch k {
	case ExecMalformedDirective:
		return "malformed directive"
	case ExecUnsupportedDirective:
		return "unsupported directive"
	case ExecArgumentOutOfRange:
		return "argument out of range"
	case ExecMissingArgument:
		return "missing argument"
	case ExecExpectedNumberArgument:
		return "expected number argument"
	case ExecExpectedSequenceArgument:
		return "expected sequence argument"
	case ExecExpectedStringArgument:
		return "expected string argument"
	case ExecExpectedCharacterArgument:
		return "expected character argument"
	case ExecCannotUseArgumentAsParameter:
		return "cannot use argument as parameter"
	case ExecMissingNumberParameter:
		return "missing number parameter"
	case ExecExpectedNumberParameter:
		return "expected number parameter"
	case ExecExpectedPositiveNumberParameter:
		return "expected non-negative number parameter"
	case ExecMissingCharacterParameter:
		return "missing character parameter"
	case ExecExpectedCharacterParameter:
		return "expected character parameter"
	case ExecCannotRepresentNumber:
		return "cannot represent number"
	default:
		return "unknown format error"
	}
}

// FormatError represents an error while applying a control to arguments.
// Index is an argument or parameter index depending on the kind.
type FormatError struct {
	Kind   FormatErrorKind
	Index  int
	Total  int
	Value  string
	Detail string
	Cause  error
}

func (e *FormatError) Error() string {
	var msg string
	switch e.Kind {
	case ExecMalformedDirective, ExecUnsupportedDirective:
		msg = e.Kind.String() + " " + e.Detail
	case ExecArgumentOutOfRange:
		msg = fmt.Sprintf("cannot access argument %d; only %d arguments in total", e.Index, e.Total)
	case ExecMissingArgument:
		msg = fmt.Sprintf("missing argument %d", e.Index)
	case ExecExpectedNumberArgument:
		msg = fmt.Sprintf("expected argument %d to be a number; instead it is %s", e.Index, e.Value)
	case ExecExpectedSequenceArgument:
		msg = fmt.Sprintf("expected argument %d to be a sequence; instead it is %s", e.Index, e.Value)
	case ExecExpectedStringArgument:
		msg = fmt.Sprintf("expected argument %d to be a string; instead it is %s", e.Index, e.Value)
	case ExecExpectedCharacterArgument:
		msg = fmt.Sprintf("expected argument %d to be a character; instead it is %s", e.Index, e.Value)
	case ExecCannotUseArgumentAsParameter:
		msg = fmt.Sprintf("cannot use argument %d as a parameter: %s", e.Index, e.Value)
	case ExecMissingNumberParameter:
		msg = fmt.Sprintf("missing number parameter %d", e.Index)
	case ExecExpectedNumberParameter:
		msg = fmt.Sprintf("expected parameter %d to be a number; instead it is %q", e.Index, e.Value)
	case ExecExpectedPositiveNumberParameter:
		msg = fmt.Sprintf("expected parameter %d to be a non-negative number; instead it is %s", e.Index, e.Value)
	case ExecMissingCharacterParameter:
		msg = fmt.Sprintf("missing character parameter %d", e.Index)
	case ExecExpectedCharacterParameter:
		msg = fmt.Sprintf("expected parameter %d to be a character; instead it is %q", e.Index, e.Value)
	case ExecCannotRepresentNumber:
		msg = "cannot represent " + e.Value
		if e.Detail != "" {
			msg = "cannot represent " + e.Detail
		}
	default:
		msg = e.Kind.String()
	}
	return "format error: " + msg
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

// DepthError is returned when nested controls exceed the configured depth.
type DepthError struct {
	Limit int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("maximum nesting depth of %d exceeded", e.Limit)
}

// ValidationIssue represents a single validation problem
type ValidationIssue struct {
	Field   string
	Message string
}

// ValidationError represents multiple validation issues
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "validation error"
	}
	if len(e.Issues) == 1 {
		return fmt.Sprintf("validation error: %s - %s", e.Issues[0].Field, e.Issues[0].Message)
	}
	parts := []string{fmt.Sprintf("%d validation issues:", len(e.Issues))}
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("  %s: %s", issue.Field, issue.Message))
	}
	return strings.Join(parts, "\n")
}

// add records an issue. err returns nil when nothing was recorded.
func (e *ValidationError) add(field, format string, args ...any) {
	e.Issues = append(e.Issues, ValidationIssue{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (e *ValidationError) err() error {
	if len(e.Issues) == 0 {
		return nil
	}
	return e
}

// ContextError adds context to an existing error
type ContextError struct {
	Operation string
	Context   map[string]any
	Cause     error
}

func (e *ContextError) Error() string {
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, e.Context[k])
	}
	if len(parts) > 0 {
		return fmt.Sprintf("%s [%s]: %v", e.Operation, strings.Join(parts, ", "), e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// WithContext wraps an error with additional context
func WithContext(err error, operation string, context map[string]any) error {
	if err == nil {
		return nil
	}
	return &ContextError{Operation: operation, Context: context, Cause: err}
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}

// IsFormatError checks if an error is a format error
func IsFormatError(err error) bool {
	var target *FormatError
	return errors.As(err, &target)
}

// IsDepthError checks if an error is a depth error
func IsDepthError(err error) bool {
	var target *DepthError
	return errors.As(err, &target)
}

// errorKind returns a short classification of err for logging.
func errorKind(err error) string {
	var pe *ParseError
	var fe *FormatError
	switch {
	case errors.As(err, &pe):
		return pe.Kind.String()
	case errors.As(err, &fe):
		return fe.Kind.String()
	case IsDepthError(err):
		return "depth"
	default:
		return "other"
	}
}
