// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package cat

import (
	"fmt"
	"strings"
	"time"

	"github.com/catkit-foundation/catkit/lib/claims"
	"github.com/catkit-foundation/catkit/lib/urimatch"
)

// supportedLabels are the claims this verifier understands: the
// standard CWT set plus the implemented restriction claims. Any other
// label in the CAT restriction range fails closed.
var supportedLabels = map[uint64]bool{
	claims.LabelIssuer:         true,
	claims.LabelSubject:        true,
	claims.LabelAudience:       true,
	claims.LabelExpiration:     true,
	claims.LabelNotBefore:      true,
	claims.LabelIssuedAt:       true,
	claims.LabelCWTID:          true,
	claims.LabelConfirmation:   true,
	claims.LabelReplay:         true,
	claims.LabelURI:            true,
	claims.LabelMethods:        true,
	claims.LabelTLSFingerprint: true,
}

// catRangeStart and catRangeEnd bound the CAT restriction claim label
// space this verifier treats as restrictions.
const (
	catRangeStart uint64 = 308
	catRangeEnd   uint64 = 399
)

// validate runs the restriction pass in its fixed order. It is only
// called after the MAC check succeeded.
func (v *Verifier) validate(tokenClaims *claims.Claims, request Request, now time.Time) error {
	issuer, ok := tokenClaims.Issuer()
	if !ok {
		return ErrMissingIssuer
	}
	if issuer != v.config.Issuer {
		return fmt.Errorf("%w: %q", ErrInvalidIssuer, issuer)
	}

	if expiration, ok := tokenClaims.Expiration(); ok {
		if now.Unix() >= expiration {
			return ErrTokenExpired
		}
	}

	if v.config.Audience != "" {
		audience, ok := tokenClaims.Audience()
		if !ok || audience != v.config.Audience {
			return fmt.Errorf("%w: %q", ErrAudienceMismatch, audience)
		}
	}

	if notBefore, ok := tokenClaims.NotBefore(); ok {
		if now.Unix() < notBefore {
			return ErrTokenNotActive
		}
	}

	if request.URL != "" {
		if err := validateURI(tokenClaims, request.URL); err != nil {
			return err
		}
	}

	if request.Method != "" {
		if err := validateMethod(tokenClaims, request.Method); err != nil {
			return err
		}
	}

	if tokenClaims.ReplayMode() == claims.ReplayProhibited && request.SeenBefore {
		return ErrReplayProhibited
	}

	if request.Fingerprint != nil {
		if err := validateFingerprint(tokenClaims, request.Fingerprint); err != nil {
			return err
		}
	}

	if !v.config.AdvisoryUnsupportedClaims {
		for _, label := range tokenClaims.Labels() {
			if label >= catRangeStart && label <= catRangeEnd && !supportedLabels[label] {
				return fmt.Errorf("%w: %d", ErrUnsupportedClaim, label)
			}
		}
	}

	return nil
}

// validateURI evaluates the catu claim against the request URL. Absent
// claim passes.
func validateURI(tokenClaims *claims.Claims, url string) error {
	rules, ok := tokenClaims.URIRules()
	if !ok {
		return nil
	}
	components, err := urimatch.Parse(url)
	if err != nil {
		return err
	}
	return rules.Evaluate(components)
}

// validateMethod checks the request method against the catm allow-list
// under ASCII case-insensitive comparison. Absent claim passes.
func validateMethod(tokenClaims *claims.Claims, method string) error {
	allowed, ok := tokenClaims.Methods()
	if !ok {
		return nil
	}
	for _, candidate := range allowed {
		if strings.EqualFold(candidate, method) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrMethodNotAllowed, method)
}

// validateFingerprint checks the request's TLS fingerprint against the
// cattprint claim: the type must match exactly, the value under ASCII
// case-insensitive comparison. Absent claim passes.
func validateFingerprint(tokenClaims *claims.Claims, fingerprint *Fingerprint) error {
	storedType, storedValue, ok := tokenClaims.TLSFingerprint()
	if !ok {
		return nil
	}
	if storedType != fingerprint.Type || !strings.EqualFold(storedValue, fingerprint.Value) {
		return fmt.Errorf("%w: type %d", ErrFingerprintMismatch, fingerprint.Type)
	}
	return nil
}
