// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package claims

import (
	"bytes"
	"errors"
	"testing"

	"github.com/catkit-foundation/catkit/lib/urimatch"
)

func TestSettersAndGetters(t *testing.T) {
	c := New()
	c.SetIssuer("eyevinn")
	c.SetSubject("jane")
	c.SetAudience("svc")
	if err := c.SetIssuedAt(1700000000); err != nil {
		t.Fatalf("SetIssuedAt: %v", err)
	}
	if err := c.SetExpiration(1700000120); err != nil {
		t.Fatalf("SetExpiration: %v", err)
	}
	c.SetCWTID([]byte{0x01, 0x02})

	if iss, _ := c.Issuer(); iss != "eyevinn" {
		t.Errorf("Issuer = %q", iss)
	}
	if sub, _ := c.Subject(); sub != "jane" {
		t.Errorf("Subject = %q", sub)
	}
	if exp, _ := c.Expiration(); exp != 1700000120 {
		t.Errorf("Expiration = %d", exp)
	}
	if cti, _ := c.CWTID(); !bytes.Equal(cti, []byte{0x01, 0x02}) {
		t.Errorf("CWTID = %x", cti)
	}
	if c.Len() != 6 {
		t.Errorf("Len = %d, want 6", c.Len())
	}
}

func TestNegativeTimeRejected(t *testing.T) {
	c := New()
	if err := c.SetExpiration(-1); !errors.Is(err, ErrNegativeTime) {
		t.Fatalf("SetExpiration(-1): got %v, want ErrNegativeTime", err)
	}
}

func TestReplayModeValidation(t *testing.T) {
	c := New()
	for _, mode := range []ReplayMode{ReplayPermitted, ReplayProhibited, ReplayReuseDetection} {
		if err := c.SetReplayMode(mode); err != nil {
			t.Errorf("SetReplayMode(%d): %v", mode, err)
		}
	}
	if err := c.SetReplayMode(3); !errors.Is(err, ErrReplayModeRange) {
		t.Fatalf("SetReplayMode(3): got %v, want ErrReplayModeRange", err)
	}
	if err := c.SetReplayMode(-1); !errors.Is(err, ErrReplayModeRange) {
		t.Fatalf("SetReplayMode(-1): got %v, want ErrReplayModeRange", err)
	}
}

func TestMethodsValidation(t *testing.T) {
	c := New()
	if err := c.SetMethods(); !errors.Is(err, ErrEmptyRule) {
		t.Fatalf("SetMethods(): got %v, want ErrEmptyRule", err)
	}
	if err := c.SetMethods("GET", "POST"); err != nil {
		t.Fatalf("SetMethods: %v", err)
	}
	methods, ok := c.Methods()
	if !ok || len(methods) != 2 || methods[0] != "GET" {
		t.Fatalf("Methods = %v, %v", methods, ok)
	}
}

func TestWrongTypeRejected(t *testing.T) {
	c := New()
	if err := c.Set(LabelIssuer, Int(7)); !errors.Is(err, ErrWrongType) {
		t.Fatalf("integer iss: got %v, want ErrWrongType", err)
	}
	if err := c.Set(LabelExpiration, Text("soon")); !errors.Is(err, ErrWrongType) {
		t.Fatalf("text exp: got %v, want ErrWrongType", err)
	}
}

func TestTLSFingerprintValidation(t *testing.T) {
	c := New()
	if err := c.SetTLSFingerprint(FingerprintJA4, "t13d1516h2_8daaf6152771_b186095e22b6"); err != nil {
		t.Fatalf("SetTLSFingerprint: %v", err)
	}
	fpType, fpValue, ok := c.TLSFingerprint()
	if !ok || fpType != FingerprintJA4 || fpValue != "t13d1516h2_8daaf6152771_b186095e22b6" {
		t.Fatalf("TLSFingerprint = %v %q %v", fpType, fpValue, ok)
	}

	// A cattprint map missing the value subfield is rejected.
	err := c.Set(LabelTLSFingerprint, Map(map[uint64]Value{0: Int(3)}))
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("incomplete cattprint: got %v, want ErrMissingField", err)
	}
}

func TestURIRulesRoundTrip(t *testing.T) {
	c := New()
	rules := map[urimatch.Component]map[urimatch.MatchKind]string{
		urimatch.ComponentScheme: {urimatch.MatchExact: "https"},
		urimatch.ComponentHost:   {urimatch.MatchSuffix: ".example.com"},
	}
	if err := c.SetURIRules(rules); err != nil {
		t.Fatalf("SetURIRules: %v", err)
	}
	got, ok := c.URIRules()
	if !ok {
		t.Fatal("URIRules absent")
	}
	if got[urimatch.ComponentScheme][urimatch.MatchExact] != "https" {
		t.Errorf("scheme rule = %v", got[urimatch.ComponentScheme])
	}
	if got[urimatch.ComponentHost][urimatch.MatchSuffix] != ".example.com" {
		t.Errorf("host rule = %v", got[urimatch.ComponentHost])
	}
}

func TestEmptyURIRulesRejected(t *testing.T) {
	c := New()
	err := c.Set(LabelURI, Map(map[uint64]Value{}))
	if !errors.Is(err, ErrEmptyRule) {
		t.Fatalf("empty catu: got %v, want ErrEmptyRule", err)
	}
	err = c.Set(LabelURI, Map(map[uint64]Value{1: Map(map[uint64]Value{})}))
	if !errors.Is(err, ErrEmptyRule) {
		t.Fatalf("empty component rules: got %v, want ErrEmptyRule", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	c := New()
	c.SetIssuer("eyevinn")
	c.SetCWTID([]byte{0x01, 0x02})
	if err := c.SetMethods("GET"); err != nil {
		t.Fatalf("SetMethods: %v", err)
	}

	cloned := c.Clone()
	if !c.Equal(cloned) {
		t.Fatal("clone not equal to original")
	}

	cloned.SetIssuer("attacker")
	cloned.SetCWTID([]byte{0xff})
	if iss, _ := c.Issuer(); iss != "eyevinn" {
		t.Fatalf("mutating clone changed original issuer: %q", iss)
	}
	if cti, _ := c.CWTID(); !bytes.Equal(cti, []byte{0x01, 0x02}) {
		t.Fatalf("mutating clone changed original cti: %x", cti)
	}
}

func TestValueEqualUnorderedMaps(t *testing.T) {
	a := Map(map[uint64]Value{1: Text("x"), 2: Int(3)})
	b := Map(map[uint64]Value{2: Int(3), 1: Text("x")})
	if !a.Equal(b) {
		t.Fatal("maps with same entries not equal")
	}
	c := Map(map[uint64]Value{1: Text("x"), 2: Int(4)})
	if a.Equal(c) {
		t.Fatal("maps with different values equal")
	}
}

func TestValueEqualArraysOrdered(t *testing.T) {
	a := Array(Int(1), Int(2))
	b := Array(Int(2), Int(1))
	if a.Equal(b) {
		t.Fatal("arrays with different order equal")
	}
}
