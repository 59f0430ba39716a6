// Package wire provides the big-endian primitive codec that the LCM wire
// format is built on: fixed-width integers and floats, raw byte runs, and
// NUL-terminated length-prefixed strings. Every array-shaped primitive in a
// generated message (see pkg/codegen) bottoms out in one of the
// EncodeXxxArray/DecodeXxxArray pairs in this package.
package wire

import "errors"

// ErrOverflow is returned by an EncodeXxxArray call when writing n elements
// would exceed the caller-supplied maxlen budget.
var ErrOverflow = errors.New("wire: encode would exceed maxlen")

// ErrTruncated is returned by a DecodeXxxArray call when maxlen is smaller
// than the bytes needed to decode n elements.
var ErrTruncated = errors.New("wire: buffer truncated")

// ErrNegativeLength is returned when a decoded string length prefix is
// negative or otherwise not representable.
var ErrNegativeLength = errors.New("wire: negative length prefix")
