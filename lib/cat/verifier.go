// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package cat

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/catkit-foundation/catkit/lib/cbor"
	"github.com/catkit-foundation/catkit/lib/claims"
	"github.com/catkit-foundation/catkit/lib/cose"
)

// VerifierConfig configures a Verifier.
type VerifierConfig struct {
	// Keys maps key identifiers to raw HMAC keys. The token's kid
	// header selects the key.
	Keys map[string][]byte

	// Issuer is the expected iss claim. Required: tokens without a
	// matching issuer are rejected.
	Issuer string

	// Audience, when non-empty, must equal the token's aud claim.
	Audience string

	// ExpectCWTTag requires the tag(61) tag(17) wrapping. When false,
	// both tagged and untagged tokens are accepted.
	ExpectCWTTag bool

	// AdvisoryUnsupportedClaims downgrades unimplemented CAT
	// restriction claims from rejection to pass-through. Leave false
	// for the fail-closed posture.
	AdvisoryUnsupportedClaims bool
}

// Fingerprint is the TLS client fingerprint observed on the request.
type Fingerprint struct {
	Type  claims.FingerprintType
	Value string
}

// Request is the caller-supplied request context the restriction
// claims are validated against. Zero fields skip the corresponding
// checks: an empty URL skips CATU, an empty Method skips CATM, a nil
// Fingerprint skips CATTPRINT.
type Request struct {
	// URL is the absolute URL of the request being authorized.
	URL string

	// Method is the HTTP method of the request.
	Method string

	// SeenBefore reports whether the caller's replay oracle has seen
	// this token before. See ReplayCache.
	SeenBefore bool

	// Fingerprint is the observed TLS client fingerprint.
	Fingerprint *Fingerprint
}

// Verifier checks Common Access Tokens. Immutable after construction
// and safe for concurrent use.
type Verifier struct {
	config VerifierConfig
}

// NewVerifier validates the configuration and returns a Verifier.
func NewVerifier(config VerifierConfig) (*Verifier, error) {
	if len(config.Keys) == 0 {
		return nil, fmt.Errorf("%w: no keys", ErrConfig)
	}
	if config.Issuer == "" {
		return nil, fmt.Errorf("%w: empty expected issuer", ErrConfig)
	}
	keys := make(map[string][]byte, len(config.Keys))
	for kid, key := range config.Keys {
		if len(key) == 0 {
			return nil, fmt.Errorf("%w: empty key for kid %q", ErrConfig, kid)
		}
		owned := make([]byte, len(key))
		copy(owned, key)
		keys[kid] = owned
	}
	config.Keys = keys
	return &Verifier{config: config}, nil
}

// Verify checks token against the current time. See VerifyAt.
func (v *Verifier) Verify(token string, request Request) (*claims.Claims, error) {
	return v.VerifyAt(token, request, time.Now())
}

// VerifyAt cryptographically verifies token and validates its
// restriction claims against request at the given time. The claims are
// returned only when every check passes. The explicit time parameter
// supports deterministic testing.
func (v *Verifier) VerifyAt(token string, request Request, now time.Time) (*claims.Claims, error) {
	wire, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	decoder := cbor.NewDecoder(wire)
	if err := v.unwrapTags(decoder); err != nil {
		return nil, err
	}

	mac0, err := cose.Parse(decoder)
	if err != nil {
		return nil, err
	}
	if decoder.Remaining() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidToken, decoder.Remaining())
	}

	key, ok := v.config.Keys[string(mac0.KeyID)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, string(mac0.KeyID))
	}
	if err := mac0.Verify(key); err != nil {
		return nil, err
	}

	tokenClaims, err := claims.Decode(mac0.Payload)
	if err != nil {
		return nil, err
	}

	if err := v.validate(tokenClaims, request, now); err != nil {
		return nil, err
	}
	return tokenClaims, nil
}

// unwrapTags consumes the optional CWT tag sequence. With ExpectCWTTag
// the sequence is mandatory and must be exactly tag(61) tag(17); without
// it, untagged envelopes are accepted and any tags present must still
// carry the right numbers.
func (v *Verifier) unwrapTags(decoder *cbor.Decoder) error {
	major, err := decoder.PeekMajorType()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if major != cbor.MajorTag {
		if v.config.ExpectCWTTag {
			return fmt.Errorf("%w: token is untagged", ErrExpectedCWTTag)
		}
		return nil
	}

	outer, err := decoder.ReadTag()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if outer != TagCWT {
		return fmt.Errorf("%w: outer tag %d", ErrExpectedCWTTag, outer)
	}
	inner, err := decoder.ReadTag()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExpectedCWTTag, err)
	}
	if inner != cose.TagMac0 {
		return fmt.Errorf("%w: inner tag %d", ErrExpectedCWTTag, inner)
	}
	return nil
}
