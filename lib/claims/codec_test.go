// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package claims

import (
	"bytes"
	"errors"
	"testing"

	"github.com/catkit-foundation/catkit/lib/cbor"
	"github.com/catkit-foundation/catkit/lib/urimatch"
)

func encode(t *testing.T, c *Claims) []byte {
	t.Helper()
	payload, err := c.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return payload
}

func TestRoundTrip(t *testing.T) {
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
	c.SetCWTID([]byte{0xde, 0xad, 0xbe, 0xef})
	if err := c.SetMethods("GET", "POST"); err != nil {
		t.Fatalf("SetMethods: %v", err)
	}
	if err := c.SetReplayMode(ReplayProhibited); err != nil {
		t.Fatalf("SetReplayMode: %v", err)
	}
	if err := c.SetURIRules(map[urimatch.Component]map[urimatch.MatchKind]string{
		urimatch.ComponentScheme: {urimatch.MatchExact: "https"},
		urimatch.ComponentHost:   {urimatch.MatchSuffix: ".example.com"},
	}); err != nil {
		t.Fatalf("SetURIRules: %v", err)
	}
	if err := c.SetTLSFingerprint(FingerprintJA4, "t13d1516h2_8daaf6152771_b186095e22b6"); err != nil {
		t.Fatalf("SetTLSFingerprint: %v", err)
	}

	decoded, err := Decode(encode(t, c))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !c.Equal(decoded) {
		t.Fatal("round trip lost claims")
	}
}

func TestRoundTripDeepNesting(t *testing.T) {
	// Arbitrary nesting of arrays and maps with all leaf shapes, the
	// structure catu/cath/catdpop/catr legitimately produce.
	deep := Map(map[uint64]Value{
		1: Array(
			Int(-42),
			Text("leaf"),
			Bytes([]byte{0x00, 0x01}),
			Map(map[uint64]Value{
				7: Array(Map(map[uint64]Value{9: Text("bottom")})),
			}),
		),
		2: Map(map[uint64]Value{
			3: Map(map[uint64]Value{4: Array(Int(1), Int(2), Int(3))}),
		}),
	})

	c := New()
	if err := c.Set(900, deep); err != nil {
		t.Fatalf("Set: %v", err)
	}
	decoded, err := Decode(encode(t, c))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, ok := decoded.Get(900)
	if !ok {
		t.Fatal("claim 900 missing")
	}
	if !got.Equal(deep) {
		t.Fatal("deep value changed across round trip")
	}
}

func TestEncodeDeterministic(t *testing.T) {
	build := func() *Claims {
		c := New()
		c.SetIssuer("eyevinn")
		if err := c.SetURIRules(map[urimatch.Component]map[urimatch.MatchKind]string{
			urimatch.ComponentHost: {
				urimatch.MatchSuffix: ".example.com",
				urimatch.MatchExact:  "cdn.example.com",
			},
			urimatch.ComponentScheme: {urimatch.MatchExact: "https"},
		}); err != nil {
			t.Fatalf("SetURIRules: %v", err)
		}
		return c
	}
	first := encode(t, build())
	for i := 0; i < 16; i++ {
		if next := encode(t, build()); !bytes.Equal(first, next) {
			t.Fatalf("encoding differs across runs:\n%x\n%x", first, next)
		}
	}
}

func TestDecodeRejectsReplayOutOfRange(t *testing.T) {
	e := cbor.NewEncoder()
	e.BeginMap(1)
	e.PushUint(LabelReplay)
	e.PushUint(7)
	e.EndMap()
	payload, err := e.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if _, err := Decode(payload); !errors.Is(err, ErrReplayModeRange) {
		t.Fatalf("got %v, want ErrReplayModeRange", err)
	}
}

func TestDecodeRejectsWrongShape(t *testing.T) {
	e := cbor.NewEncoder()
	e.BeginMap(1)
	e.PushUint(LabelIssuer)
	e.PushUint(12)
	e.EndMap()
	payload, err := e.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if _, err := Decode(payload); !errors.Is(err, ErrWrongType) {
		t.Fatalf("got %v, want ErrWrongType", err)
	}
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	c := New()
	c.SetIssuer("eyevinn")
	payload := append(encode(t, c), 0x00)
	if _, err := Decode(payload); err == nil {
		t.Fatal("trailing bytes accepted")
	}
}

func TestDecodeIndefiniteMap(t *testing.T) {
	e := cbor.NewEncoder()
	e.BeginIndefiniteMap()
	e.PushUint(LabelIssuer)
	e.PushText("eyevinn")
	e.PushUint(LabelSubject)
	e.PushText("jane")
	e.EndMap()
	payload, err := e.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	decoded, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if iss, _ := decoded.Issuer(); iss != "eyevinn" {
		t.Fatalf("Issuer = %q", iss)
	}
	if sub, _ := decoded.Subject(); sub != "jane" {
		t.Fatalf("Subject = %q", sub)
	}
}

func TestNegativeMatchKindKeysRoundTrip(t *testing.T) {
	// The reserved hash match kinds use negative map keys; they must
	// survive encoding even though this implementation rejects them at
	// validation time.
	c := New()
	deep := Map(map[uint64]Value{
		uint64(urimatch.ComponentPath): Map(map[uint64]Value{
			matchKindKey(urimatch.MatchSHA256): Text("deadbeef"),
		}),
	})
	if err := c.Set(LabelURI, deep); err != nil {
		t.Fatalf("Set: %v", err)
	}
	decoded, err := Decode(encode(t, c))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	rules, ok := decoded.URIRules()
	if !ok {
		t.Fatal("catu missing")
	}
	if rules[urimatch.ComponentPath][urimatch.MatchSHA256] != "deadbeef" {
		t.Fatalf("hash rule = %v", rules[urimatch.ComponentPath])
	}
}
