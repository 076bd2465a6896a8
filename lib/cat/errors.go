// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package cat

import "errors"

// Errors returned by Issue and Verify. Verification errors never carry
// key material or token bytes.
var (
	// ErrInvalidToken means the token envelope is not valid base64url
	// or does not contain well-formed CBOR.
	ErrInvalidToken = errors.New("cat: invalid token encoding")

	// ErrExpectedCWTTag means the verifier expects the CWT tag
	// sequence tag(61) tag(17) and the token lacks it or carries
	// different tag numbers.
	ErrExpectedCWTTag = errors.New("cat: expected CWT tag")

	// ErrKeyNotFound means the token's kid names no configured key.
	ErrKeyNotFound = errors.New("cat: key id not found")

	// ErrMissingIssuer means the token carries no iss claim, which
	// this profile requires.
	ErrMissingIssuer = errors.New("cat: missing issuer claim")

	// ErrInvalidIssuer means the iss claim does not equal the
	// verifier's expected issuer.
	ErrInvalidIssuer = errors.New("cat: issuer mismatch")

	// ErrTokenExpired means the exp claim is in the past.
	ErrTokenExpired = errors.New("cat: token has expired")

	// ErrTokenNotActive means the nbf claim is in the future.
	ErrTokenNotActive = errors.New("cat: token not yet active")

	// ErrAudienceMismatch means the aud claim does not equal the
	// verifier's expected audience.
	ErrAudienceMismatch = errors.New("cat: audience mismatch")

	// ErrMethodNotAllowed means the request method is not in the
	// token's catm allow-list.
	ErrMethodNotAllowed = errors.New("cat: method not in allow-list")

	// ErrReplayProhibited means the token prohibits replay and the
	// caller reports it as seen before.
	ErrReplayProhibited = errors.New("cat: token replay prohibited")

	// ErrFingerprintMismatch means the request's TLS fingerprint does
	// not match the token's cattprint claim.
	ErrFingerprintMismatch = errors.New("cat: TLS fingerprint mismatch")

	// ErrUnsupportedClaim means the token carries a CAT restriction
	// claim this verifier does not implement and the verifier is not
	// configured to treat such claims as advisory.
	ErrUnsupportedClaim = errors.New("cat: unsupported restriction claim")

	// ErrConfig means an issuer or verifier was constructed with an
	// unusable configuration.
	ErrConfig = errors.New("cat: invalid configuration")
)
