// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package cat

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/catkit-foundation/catkit/lib/cbor"
	"github.com/catkit-foundation/catkit/lib/claims"
	"github.com/catkit-foundation/catkit/lib/cose"
)

// TagCWT is the CBOR tag number identifying a CWT (RFC 8392).
const TagCWT uint64 = 61

// cwtIDSize is the number of random bytes minted for an auto-generated
// CWT ID. The claim stores their lowercase hex form.
const cwtIDSize = 16

// IssuerConfig configures an Issuer.
type IssuerConfig struct {
	// Key is the raw HMAC key. HS256 expects 32 bytes; shorter keys
	// pass through to HMAC unchanged.
	Key []byte

	// KeyID names the key in the token's unprotected header so
	// verifiers can select the right key.
	KeyID string

	// DisableCWTTag omits the outer tag(61) tag(17) wrapping and emits
	// the bare COSE_Mac0 array.
	DisableCWTTag bool

	// GenerateCWTID mints a random CTI claim for tokens that lack one,
	// for replay tracking.
	GenerateCWTID bool
}

// Issuer mints Common Access Tokens. Immutable after construction and
// safe for concurrent use.
type Issuer struct {
	config IssuerConfig
}

// NewIssuer validates the configuration and returns an Issuer.
func NewIssuer(config IssuerConfig) (*Issuer, error) {
	if len(config.Key) == 0 {
		return nil, fmt.Errorf("%w: empty key", ErrConfig)
	}
	if config.KeyID == "" {
		return nil, fmt.Errorf("%w: empty key id", ErrConfig)
	}
	owned := make([]byte, len(config.Key))
	copy(owned, config.Key)
	config.Key = owned
	return &Issuer{config: config}, nil
}

// Issue serializes the claims, authenticates them as a COSE_Mac0
// message, and returns the base64url token. The claims value is not
// mutated; auto-generated CWT IDs are added to an internal clone.
func (i *Issuer) Issue(tokenClaims *claims.Claims) (string, error) {
	if i.config.GenerateCWTID {
		if _, present := tokenClaims.CWTID(); !present {
			cloned := tokenClaims.Clone()
			id, err := NewCWTID()
			if err != nil {
				return "", err
			}
			cloned.SetCWTID([]byte(id))
			tokenClaims = cloned
		}
	}

	payload, err := tokenClaims.Encode()
	if err != nil {
		return "", fmt.Errorf("cat: encoding claims: %w", err)
	}

	mac0, err := cose.Create(i.config.Key, payload, []byte(i.config.KeyID))
	if err != nil {
		return "", fmt.Errorf("cat: building MAC: %w", err)
	}

	encoder := cbor.NewEncoder()
	if !i.config.DisableCWTTag {
		encoder.PushTag(TagCWT)
		encoder.PushTag(cose.TagMac0)
	}
	mac0.EncodeInto(encoder)
	wire, err := encoder.Finish()
	if err != nil {
		return "", fmt.Errorf("cat: encoding envelope: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(wire), nil
}

// NewCWTID returns a fresh token identifier: 16 cryptographically
// random bytes as lowercase hex. crypto/rand is safe for concurrent
// use; this is the package's only global facility.
func NewCWTID() (string, error) {
	var buf [cwtIDSize]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("cat: reading random bytes: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}
