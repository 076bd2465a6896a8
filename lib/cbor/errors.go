// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"errors"
	"fmt"
)

// Errors returned by the encoder and decoder. Decoder errors wrap these
// sentinels with position and type detail; match with errors.Is.
var (
	// ErrEndOfBuffer means a read ran past the end of the input.
	ErrEndOfBuffer = errors.New("cbor: unexpected end of buffer")

	// ErrUnexpectedType means the item at the cursor has a different
	// major type than the read operation expects.
	ErrUnexpectedType = errors.New("cbor: unexpected major type")

	// ErrValueOutOfRange means an integer item does not fit the
	// requested Go type.
	ErrValueOutOfRange = errors.New("cbor: integer value out of range")

	// ErrNegativeIntoUnsigned means a negative integer item was read
	// through an unsigned accessor.
	ErrNegativeIntoUnsigned = errors.New("cbor: negative value read as unsigned")

	// ErrUnsupportedAdditionalInfo means the item head uses a reserved
	// additional-info value (28-30), or the indefinite-length value 31
	// on an integer or tag head.
	ErrUnsupportedAdditionalInfo = errors.New("cbor: unsupported additional info")

	// ErrInvalidBreak means a break code (0xff) appeared where no
	// indefinite-length item was open, or was expected and absent.
	ErrInvalidBreak = errors.New("cbor: invalid break code")

	// ErrNestedIndefinite means an indefinite-length string contained a
	// chunk that is itself indefinite, which RFC 8949 forbids.
	ErrNestedIndefinite = errors.New("cbor: indefinite chunk inside indefinite string")

	// ErrOpenContainer means Finish was called with unbalanced
	// Begin/End calls. This is a programmer error in the caller.
	ErrOpenContainer = errors.New("cbor: container still open at finish")

	// ErrContainerMismatch means an End call did not match the
	// innermost open container, or a definite-length container was
	// closed with a different item count than declared.
	ErrContainerMismatch = errors.New("cbor: container begin/end mismatch")
)

// majorTypeNames maps major types to the names used in error text.
var majorTypeNames = [8]string{
	"unsigned integer",
	"negative integer",
	"byte string",
	"text string",
	"array",
	"map",
	"tag",
	"simple/float",
}

// MajorType identifies one of the eight CBOR major types.
type MajorType uint8

// The eight CBOR major types (RFC 8949 §3.1).
const (
	MajorUnsigned MajorType = 0
	MajorNegative MajorType = 1
	MajorBytes    MajorType = 2
	MajorText     MajorType = 3
	MajorArray    MajorType = 4
	MajorMap      MajorType = 5
	MajorTag      MajorType = 6
	MajorSimple   MajorType = 7
)

// String returns the major type's name as used in error messages.
func (m MajorType) String() string {
	if m > 7 {
		return fmt.Sprintf("invalid major type %d", uint8(m))
	}
	return majorTypeNames[m]
}

// typeError builds an ErrUnexpectedType with the expected and actual
// major types and the buffer position of the offending item.
func typeError(want MajorType, got MajorType, pos int) error {
	return fmt.Errorf("%w: want %s, got %s at byte %d", ErrUnexpectedType, want, got, pos)
}
