// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package claims

import "errors"

// Errors returned by setters and by Decode. Decode wraps these with the
// offending label; match with errors.Is.
var (
	// ErrWrongType means a claim value's shape does not match its
	// label's schema (e.g., an integer where iss expects text).
	ErrWrongType = errors.New("claims: wrong value type for claim label")

	// ErrReplayModeRange means a catreplay value outside {0, 1, 2}.
	ErrReplayModeRange = errors.New("claims: replay mode out of range")

	// ErrEmptyRule means a restriction claim with no entries: a catm
	// array with no methods, a catu map with no components, or a catu
	// component with no match rules.
	ErrEmptyRule = errors.New("claims: restriction claim has no entries")

	// ErrMissingField means a structured claim lacks a required
	// subfield, such as a cattprint map without the fingerprint type
	// or value.
	ErrMissingField = errors.New("claims: required subfield missing")

	// ErrNegativeTime means a time claim (exp, nbf, iat) with a
	// negative value.
	ErrNegativeTime = errors.New("claims: negative time claim")
)
