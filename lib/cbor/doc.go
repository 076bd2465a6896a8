// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package cbor implements an item-level CBOR codec (RFC 8949) for the
// token wire format.
//
// Unlike reflection-based CBOR libraries, this package exposes the wire
// format one item at a time: the encoder appends heads and payloads in
// call order, the decoder advances a cursor over a byte buffer. Token
// code needs this level of control because COSE treats some substructures
// as opaque byte strings (the protected header, the MAC payload) whose
// exact bytes feed the HMAC computation, and because claims maps use
// integer keys with heterogeneous, arbitrarily nested values.
//
// The encoder always selects the smallest integer head that fits the
// value. Definite- and indefinite-length forms are supported for arrays,
// maps, byte strings, and text strings. Floats are emitted at exactly
// the width the caller requests; half-precision conversion uses
// github.com/x448/float16, the same conversion backend the fxamacker
// CBOR stack uses.
//
// Interop tests cross-validate this codec against fxamacker/cbor/v2 so
// that a divergence from the ecosystem's reading of RFC 8949 fails the
// suite rather than surfacing as a peer-compatibility bug.
package cbor
