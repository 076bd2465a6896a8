// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package cose implements the COSE_Mac0 message (RFC 8152 §6.2) used
// to authenticate Common Access Token payloads.
//
// A Mac0 envelope is the 4-element CBOR array
//
//	[protected: bstr, unprotected: map, payload: bstr, tag: bstr]
//
// The protected header is a CBOR map treated as opaque bytes — those
// exact bytes participate in the MAC computation, so they are carried
// verbatim rather than re-encoded. The MAC input is the CBOR encoding
// of ["MAC0", protected, external_aad, payload]; the unprotected header
// is deliberately absent from it, and including it would break
// verification against peer implementations.
//
// This profile is HMAC-SHA-256 only (COSE algorithm 5). Tag comparison
// uses crypto/hmac's constant-time Equal; a mismatch reports
// ErrTagMismatch with no indication of where the comparison diverged.
package cose
