// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package cat issues and verifies Common Access Tokens (CTA-5007).
//
// A CAT is a CWT claims map authenticated as a COSE_Mac0 message with
// HMAC-SHA-256 and serialized as URL-safe base64 without padding.
//
// # Wire format
//
// Before the base64url envelope, a token is CBOR:
//
//	tag(61) tag(17) [protected, unprotected, payload, tag]   (CWT-tagged)
//	                [protected, unprotected, payload, tag]   (untagged)
//
// The protected header carries the algorithm (HS256 = 5); the
// unprotected header carries the key identifier (kid, parameter 4); the
// payload byte string wraps the CBOR claims map; the tag is the 32-byte
// HMAC output.
//
// # Verification
//
// Verification is atomic: the claims are returned only when the
// envelope parses, the kid resolves to a configured key, the
// authentication tag matches (constant time), the claims map satisfies
// its schema, and every restriction claim passes against the caller's
// request context. Restriction checks run in a fixed order — issuer,
// expiry, audience, not-before, CATU, CATM, CATREPLAY, CATTPRINT — and
// only after the MAC check, so a caller cannot learn whether a forged
// token's claims were otherwise acceptable.
//
// Restriction claims this package does not implement (catalpn, cath,
// the geo claims, and the rest of the CAT range) fail verification by
// default. Verifiers that accept tokens from issuers using those
// claims can opt into treating them as advisory.
//
// The only process-wide state is crypto/rand, used to mint CWT IDs;
// issuers and verifiers are immutable after construction and safe for
// concurrent use. Claims values handed to Issue are never mutated.
package cat
