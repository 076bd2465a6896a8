// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package cat

import (
	"errors"
	"testing"

	"github.com/catkit-foundation/catkit/lib/claims"
	"github.com/catkit-foundation/catkit/lib/urimatch"
)

func issueToken(t *testing.T, c *claims.Claims) string {
	t.Helper()
	token, err := testIssuer(t, IssuerConfig{}).Issue(c)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}

func TestCATUSuffixHost(t *testing.T) {
	c := baseClaims(t)
	if err := c.SetURIRules(map[urimatch.Component]map[urimatch.MatchKind]string{
		urimatch.ComponentScheme: {urimatch.MatchExact: "https"},
		urimatch.ComponentHost:   {urimatch.MatchSuffix: ".example.com"},
	}); err != nil {
		t.Fatalf("SetURIRules: %v", err)
	}
	token := issueToken(t, c)
	verifier := testVerifier(t, VerifierConfig{})

	if _, err := verifier.VerifyAt(token, Request{URL: "https://api.example.com/x"}, at(1700000050)); err != nil {
		t.Errorf("matching URL rejected: %v", err)
	}
	if _, err := verifier.VerifyAt(token, Request{URL: "http://api.example.com/x"}, at(1700000050)); !errors.Is(err, urimatch.ErrComponentMismatch) {
		t.Errorf("wrong scheme: got %v, want ErrComponentMismatch", err)
	}
	if _, err := verifier.VerifyAt(token, Request{URL: "https://example.org/x"}, at(1700000050)); !errors.Is(err, urimatch.ErrComponentMismatch) {
		t.Errorf("wrong host: got %v, want ErrComponentMismatch", err)
	}

	// No URL supplied: the CATU check is skipped.
	if _, err := verifier.VerifyAt(token, Request{}, at(1700000050)); err != nil {
		t.Errorf("no URL: %v", err)
	}
}

func TestCATUPortStringified(t *testing.T) {
	c := baseClaims(t)
	if err := c.SetURIRules(map[urimatch.Component]map[urimatch.MatchKind]string{
		urimatch.ComponentPort: {urimatch.MatchExact: "8443"},
	}); err != nil {
		t.Fatalf("SetURIRules: %v", err)
	}
	token := issueToken(t, c)
	verifier := testVerifier(t, VerifierConfig{})

	if _, err := verifier.VerifyAt(token, Request{URL: "https://api.example.com:8443/x"}, at(1700000050)); err != nil {
		t.Errorf("port 8443: %v", err)
	}
	if _, err := verifier.VerifyAt(token, Request{URL: "https://api.example.com:9000/x"}, at(1700000050)); !errors.Is(err, urimatch.ErrComponentMismatch) {
		t.Errorf("port 9000: got %v, want ErrComponentMismatch", err)
	}
}

func TestCATUReservedKindFailsClosed(t *testing.T) {
	c := baseClaims(t)
	if err := c.SetURIRules(map[urimatch.Component]map[urimatch.MatchKind]string{
		urimatch.ComponentPath: {urimatch.MatchRegex: `^/v1/.*$`},
	}); err != nil {
		t.Fatalf("SetURIRules: %v", err)
	}
	token := issueToken(t, c)
	verifier := testVerifier(t, VerifierConfig{})
	if _, err := verifier.VerifyAt(token, Request{URL: "https://api.example.com/v1/x"}, at(1700000050)); !errors.Is(err, urimatch.ErrUnsupportedMatchKind) {
		t.Fatalf("regex rule: got %v, want ErrUnsupportedMatchKind", err)
	}
}

func TestCATMCaseInsensitive(t *testing.T) {
	c := baseClaims(t)
	if err := c.SetMethods("GET", "POST"); err != nil {
		t.Fatalf("SetMethods: %v", err)
	}
	token := issueToken(t, c)
	verifier := testVerifier(t, VerifierConfig{})

	for _, method := range []string{"GET", "get", "post", "Post"} {
		if _, err := verifier.VerifyAt(token, Request{Method: method}, at(1700000050)); err != nil {
			t.Errorf("method %q rejected: %v", method, err)
		}
	}
	if _, err := verifier.VerifyAt(token, Request{Method: "DELETE"}, at(1700000050)); !errors.Is(err, ErrMethodNotAllowed) {
		t.Errorf("DELETE: got %v, want ErrMethodNotAllowed", err)
	}

	// No method supplied: the CATM check is skipped.
	if _, err := verifier.VerifyAt(token, Request{}, at(1700000050)); err != nil {
		t.Errorf("no method: %v", err)
	}
}

func TestReplayProhibited(t *testing.T) {
	c := baseClaims(t)
	if err := c.SetReplayMode(claims.ReplayProhibited); err != nil {
		t.Fatalf("SetReplayMode: %v", err)
	}
	token := issueToken(t, c)
	verifier := testVerifier(t, VerifierConfig{})

	if _, err := verifier.VerifyAt(token, Request{SeenBefore: true}, at(1700000050)); !errors.Is(err, ErrReplayProhibited) {
		t.Fatalf("seen before: got %v, want ErrReplayProhibited", err)
	}
	if _, err := verifier.VerifyAt(token, Request{SeenBefore: false}, at(1700000050)); err != nil {
		t.Fatalf("first use: %v", err)
	}
}

func TestReplayReuseDetectionPasses(t *testing.T) {
	c := baseClaims(t)
	if err := c.SetReplayMode(claims.ReplayReuseDetection); err != nil {
		t.Fatalf("SetReplayMode: %v", err)
	}
	token := issueToken(t, c)
	verifier := testVerifier(t, VerifierConfig{})

	// Reuse detection always passes; acting on the reuse is the
	// caller's job.
	if _, err := verifier.VerifyAt(token, Request{SeenBefore: true}, at(1700000050)); err != nil {
		t.Fatalf("reuse detection with seen token: %v", err)
	}
}

func TestTLSFingerprint(t *testing.T) {
	const ja4 = "t13d1516h2_8daaf6152771_b186095e22b6"
	c := baseClaims(t)
	if err := c.SetTLSFingerprint(claims.FingerprintJA4, ja4); err != nil {
		t.Fatalf("SetTLSFingerprint: %v", err)
	}
	token := issueToken(t, c)
	verifier := testVerifier(t, VerifierConfig{})

	// Same type, uppercase value: passes (ASCII case-insensitive).
	upper := "T13D1516H2_8DAAF6152771_B186095E22B6"
	request := Request{Fingerprint: &Fingerprint{Type: claims.FingerprintJA4, Value: upper}}
	if _, err := verifier.VerifyAt(token, request, at(1700000050)); err != nil {
		t.Errorf("uppercase value: %v", err)
	}

	// Wrong family, same value: rejected.
	request = Request{Fingerprint: &Fingerprint{Type: claims.FingerprintJA3, Value: ja4}}
	if _, err := verifier.VerifyAt(token, request, at(1700000050)); !errors.Is(err, ErrFingerprintMismatch) {
		t.Errorf("JA3 type: got %v, want ErrFingerprintMismatch", err)
	}

	// No fingerprint supplied: the check is skipped.
	if _, err := verifier.VerifyAt(token, Request{}, at(1700000050)); err != nil {
		t.Errorf("no fingerprint: %v", err)
	}
}

func TestRestrictionOrderIssuerFirst(t *testing.T) {
	// A token failing multiple checks reports the issuer mismatch:
	// the restriction pass runs in fixed order.
	c := baseClaims(t)
	if err := c.SetExpiration(1700000000); err != nil {
		t.Fatalf("SetExpiration: %v", err)
	}
	token := issueToken(t, c)
	verifier := testVerifier(t, VerifierConfig{Issuer: "attacker"})
	if _, err := verifier.VerifyAt(token, Request{}, at(1700000100)); !errors.Is(err, ErrInvalidIssuer) {
		t.Fatalf("got %v, want ErrInvalidIssuer before ErrTokenExpired", err)
	}
}
