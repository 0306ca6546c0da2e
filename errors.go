package dice

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors for conditions that do not carry additional context beyond
// their kind.
var (
	// ErrNilDie is returned when an operation is attempted against a nil Die.
	ErrNilDie = errors.New("dice: nil die")

	// ErrUnrolled is returned when a value is requested from a Roller that has
	// not yet produced a result.
	ErrUnrolled = errors.New("dice: not yet rolled")

	// ErrRolled is returned when a Roller that does not support re-rolling in
	// place is rolled a second time.
	ErrRolled = errors.New("dice: already rolled")

	// ErrMaxRolls is returned when a context's roll budget (see WithRollBudget) has
	// been exhausted.
	ErrMaxRolls = errors.New("dice: maximum rolls exceeded for context")

	// ErrSizeZero is returned when a die or range of zero size is requested.
	ErrSizeZero = errors.New("dice: size must be greater than zero")

	// ErrNilExpression is returned when an expression evaluator receives an
	// empty or nil parsed expression to evaluate.
	ErrNilExpression = errors.New("dice: nil expression")

	// ErrNoCapability is returned when an engine lacks an operation required by
	// the Generator contract.
	ErrNoCapability = errors.New("dice: engine lacks required capability")
)

// ErrorKind classifies the family an error belongs to, per the core's error
// taxonomy. Concrete error types below already distinguish themselves via
// Go's type system; Kind lets callers bucket errors (translating into HTTP
// status codes, for instance) without a long type switch.
type ErrorKind int

// Error kinds.
const (
	KindUnknown ErrorKind = iota
	KindMissingArgument
	KindInvalidArgument
	KindOutOfRange
	KindInvalidOperator
	KindInvalidDieAction
	KindSyntaxError
	KindNotationError
	KindDataFormat
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingArgument:
		return "MissingArgument"
	case KindInvalidArgument:
		return "InvalidArgument"
	case KindOutOfRange:
		return "OutOfRange"
	case KindInvalidOperator:
		return "InvalidOperator"
	case KindInvalidDieAction:
		return "InvalidDieAction"
	case KindSyntaxError:
		return "SyntaxError"
	case KindNotationError:
		return "NotationError"
	case KindDataFormat:
		return "DataFormat"
	default:
		return "Unknown"
	}
}

// Error is the core package's error type. Every error the evaluation pipeline
// returns for a classified failure can be type-asserted to *Error to recover
// its Kind, except notation parse failures, which are *SyntaxError.
type Error struct {
	Kind    ErrorKind
	Message string
	// Cause, if set, is the underlying error that triggered this one.
	Cause error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is/errors.As to see through to the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind ErrorKind, cause error, format string, args ...interface{}) *Error {
	msg := fmt.Sprintf(format, args...)
	if cause != nil {
		cause = errors.Wrap(cause, msg)
	}
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// MissingArgument returns a KindMissingArgument error.
func MissingArgument(what string) error {
	return newError(KindMissingArgument, nil, "missing required argument: %s", what)
}

// InvalidArgument returns a KindInvalidArgument error.
func InvalidArgument(format string, args ...interface{}) error {
	return newError(KindInvalidArgument, nil, format, args...)
}

// OutOfRange returns a KindOutOfRange error.
func OutOfRange(format string, args ...interface{}) error {
	return newError(KindOutOfRange, nil, format, args...)
}

// InvalidOperator returns a KindInvalidOperator error.
func InvalidOperator(op string) error {
	return newError(KindInvalidOperator, nil, "invalid compare point operator %q", op)
}

// InvalidDieAction returns a KindInvalidDieAction error, used when a modifier
// loop (explode/re-roll/unique) is attached to a die whose min equals its max
// and would therefore never terminate.
func InvalidDieAction(format string, args ...interface{}) error {
	return newError(KindInvalidDieAction, nil, format, args...)
}

// DataFormat returns a KindDataFormat error, used by Import when a payload's
// shape cannot be recognized.
func DataFormat(cause error, format string, args ...interface{}) error {
	return newError(KindDataFormat, cause, format, args...)
}

// NotationError returns a KindNotationError error, used when the notation
// argument itself is not a usable string.
func NotationError(format string, args ...interface{}) error {
	return newError(KindNotationError, nil, format, args...)
}

// SyntaxError is returned when notation fails to parse. It carries the
// position the parser was at and the set of token kinds it would have
// accepted there, matching the spec's requirement that parse failures surface
// position and expected-token information.
type SyntaxError struct {
	Notation string
	Offset   int
	Line     int
	Column   int
	Expected []string
	Message  string
}

func (e *SyntaxError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("dice: syntax error in %q at %d:%d (offset %d): %s",
			e.Notation, e.Line, e.Column, e.Offset, e.Message)
	}
	return fmt.Sprintf("dice: syntax error in %q at %d:%d (offset %d): %s (expected one of %v)",
		e.Notation, e.Line, e.Column, e.Offset, e.Message, e.Expected)
}

// Kind lets SyntaxError be bucketed like the *Error values above.
func (e *SyntaxError) Kind() ErrorKind { return KindSyntaxError }

// ErrParseError is a flat description of which element of a notation string
// failed to parse and why. Kept from an earlier revision of this package's
// parser for simple, single-token failures that don't need full SyntaxError
// position tracking (e.g. a bad die size).
type ErrParseError struct {
	Notation     string
	NotationElem string
	ValueElem    string
	Message      string
}

func (e *ErrParseError) Error() string {
	if e.Message == "" {
		return "parsing dice string " +
			quote(e.Notation) + ": cannot parse " +
			quote(e.ValueElem) + " as " +
			quote(e.NotationElem)
	}
	return "parsing dice " + quote(e.Notation) + e.Message
}

// ErrNotImplemented is returned by code paths for features that are
// intentionally unimplemented.
type ErrNotImplemented struct {
	message string
}

// NewErrNotImplemented returns a new not implemented error.
func NewErrNotImplemented(message string) *ErrNotImplemented {
	return &ErrNotImplemented{message: message}
}

func (e *ErrNotImplemented) Error() string {
	return e.message
}
