// Package lcmerr defines the error kinds shared across the schema compiler,
// transport providers, and runtime: every failure that crosses a package
// boundary in this module carries a Kind so callers can branch on errors.Is
// / errors.As instead of matching strings.
package lcmerr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error without requiring callers to parse its message.
type Kind int

const (
	// Unknown is the zero value; real errors always set a specific Kind.
	Unknown Kind = iota

	// URL indicates a malformed or unsupported provider URL.
	URL

	// NoProvider indicates a URL scheme with no registered provider.
	NoProvider

	// Transport indicates a failure in a provider's underlying socket or I/O.
	Transport

	// Schema indicates a malformed or invalid schema definition.
	Schema

	// EncodeOverflow indicates an encode exceeded a size or length limit.
	EncodeOverflow

	// DecodeTruncated indicates a decode ran out of input before finishing.
	DecodeTruncated

	// HashMismatch indicates a decoded frame's type hash did not match the
	// expected type.
	HashMismatch

	// NotFound indicates a lookup (channel, type, provider) found nothing.
	NotFound

	// Regex indicates a channel pattern failed to compile.
	Regex
)

func (k Kind) String() string {
	switch k {
	case URL:
		return "url"
	case NoProvider:
		return "no_provider"
	case Transport:
		return "transport"
	case Schema:
		return "schema"
	case EncodeOverflow:
		return "encode_overflow"
	case DecodeTruncated:
		return "decode_truncated"
	case HashMismatch:
		return "hash_mismatch"
	case NotFound:
		return "not_found"
	case Regex:
		return "regex"
	default:
		return "unknown"
	}
}

// Error is the structured error type returned by this module's public APIs.
// It always carries a Kind, an Op naming the failing call, and optionally a
// wrapped Cause.
type Error struct {
	Kind  Kind
	Op    string
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	var b []byte
	b = append(b, e.Op...)
	b = append(b, ": "...)
	b = append(b, e.Msg...)
	if e.Cause != nil {
		b = append(b, ": "...)
		b = append(b, e.Cause.Error()...)
	}
	return string(b)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, or whether the
// wrapped Cause matches target. This lets callers write
// errors.Is(err, lcmerr.New(lcmerr.NotFound, "", "")) as well as
// errors.Is(err, someSentinel).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	if e.Cause != nil {
		return errors.Is(e.Cause, target)
	}
	return false
}

// New builds an *Error with no wrapped cause.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Wrap builds an *Error around an existing cause.
func Wrap(kind Kind, op, msg string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Cause: cause}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(kind Kind, op string, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the Kind of err if it is, or wraps, an *Error, and Unknown
// otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err is, or wraps, an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
