// Package verrors defines the error taxonomy shared by the validator and the
// derived-variable resolver.
//
// Every user-facing rejection is an *Error whose Message is the exact
// diagnostic text printed to the user. Messages are a compatibility surface:
// tests compare them verbatim.
package verrors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure.
type Kind string

const (
	MalformedInputFile       Kind = "MALFORMED_INPUT_FILE"
	UnsupportedModality      Kind = "UNSUPPORTED_MODALITY"
	UnrecognizedVariable     Kind = "UNRECOGNIZED_VARIABLE"
	AmbiguousName            Kind = "AMBIGUOUS_NAME"
	NotAName                 Kind = "NOT_A_NAME"
	InvalidRegularExpression Kind = "INVALID_REGULAR_EXPRESSION"
	DuplicateDirective       Kind = "DUPLICATE_DIRECTIVE"
	CircularDependency       Kind = "CIRCULAR_DEPENDENCY"
	StructuralMismatch       Kind = "STRUCTURAL_MISMATCH"

	// InvalidConfig reports a run file that fails decoding or schema checks.
	InvalidConfig Kind = "INVALID_CONFIG"
)

// Error is a classified validation failure.
type Error struct {
	Kind        Kind
	Message     string   // Exact diagnostic text
	Token       string   // Offending token, when there is one
	Suggestions []string // "Might you have meant" candidates
	Cause       error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (caused by: %v)", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap allows error unwrapping
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with a fixed message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that records the underlying cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// WithToken records the offending token.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithSuggestions records suggestion candidates.
func (e *Error) WithSuggestions(s []string) *Error {
	e.Suggestions = s
	return e
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Alternatives joins candidates the way diagnostics print them: "A or B".
func Alternatives(s []string) string {
	return strings.Join(s, " or ")
}
