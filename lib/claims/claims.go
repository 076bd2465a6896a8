// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package claims

import (
	"fmt"

	"github.com/catkit-foundation/catkit/lib/urimatch"
)

// Claims is an ordered mapping from integer claim labels to values.
// Construct with New, populate with setters, then hand to the token
// pipeline; the pipeline treats the value as immutable from that point.
//
// A Claims value is not safe for concurrent mutation. Independent
// values may be used from different goroutines freely.
type Claims struct {
	order  []uint64
	values map[uint64]Value
}

// New returns an empty claims map.
func New() *Claims {
	return &Claims{values: make(map[uint64]Value)}
}

// Len returns the number of claims present.
func (c *Claims) Len() int { return len(c.values) }

// Labels returns the claim labels in insertion order. The slice is a
// copy.
func (c *Claims) Labels() []uint64 {
	out := make([]uint64, len(c.order))
	copy(out, c.order)
	return out
}

// Get returns the value stored under label.
func (c *Claims) Get(label uint64) (Value, bool) {
	v, ok := c.values[label]
	return v, ok
}

// Set stores value under label, validating the value's shape against
// the label's schema when the label is known. Setting an existing label
// replaces its value without changing its position in emit order.
func (c *Claims) Set(label uint64, value Value) error {
	if err := checkSchema(label, value); err != nil {
		return err
	}
	c.store(label, value)
	return nil
}

// store inserts without validation; callers have already validated.
func (c *Claims) store(label uint64, value Value) {
	if _, exists := c.values[label]; !exists {
		c.order = append(c.order, label)
	}
	c.values[label] = value
}

// checkSchema validates a value against a label's expected shape and
// the label-specific invariants (time signs, replay range, non-empty
// restriction rules, cattprint subfields).
func checkSchema(label uint64, value Value) error {
	want, known := labelKinds[label]
	if !known {
		return nil
	}
	if value.Kind() != want {
		return fmt.Errorf("%w: label %d wants %s, got %s", ErrWrongType, label, want, value.Kind())
	}

	switch label {
	case LabelExpiration, LabelNotBefore, LabelIssuedAt:
		if n, _ := value.Int(); n < 0 {
			return fmt.Errorf("%w: label %d = %d", ErrNegativeTime, label, n)
		}

	case LabelReplay:
		n, _ := value.Int()
		if mode := ReplayMode(n); mode != ReplayPermitted && mode != ReplayProhibited && mode != ReplayReuseDetection {
			return fmt.Errorf("%w: %d", ErrReplayModeRange, n)
		}

	case LabelMethods:
		items, _ := value.Array()
		if len(items) == 0 {
			return fmt.Errorf("%w: catm", ErrEmptyRule)
		}
		for _, item := range items {
			if item.Kind() != KindText {
				return fmt.Errorf("%w: catm entries must be text, got %s", ErrWrongType, item.Kind())
			}
		}

	case LabelURI:
		entries, _ := value.Map()
		if len(entries) == 0 {
			return fmt.Errorf("%w: catu", ErrEmptyRule)
		}
		for component, rules := range entries {
			ruleMap, ok := rules.Map()
			if !ok {
				return fmt.Errorf("%w: catu component %d wants map, got %s", ErrWrongType, component, rules.Kind())
			}
			if len(ruleMap) == 0 {
				return fmt.Errorf("%w: catu component %d", ErrEmptyRule, component)
			}
			for _, pattern := range ruleMap {
				if pattern.Kind() != KindText {
					return fmt.Errorf("%w: catu pattern wants text, got %s", ErrWrongType, pattern.Kind())
				}
			}
		}

	case LabelTLSFingerprint:
		entries, _ := value.Map()
		fpType, ok := entries[tprintKeyType]
		if !ok {
			return fmt.Errorf("%w: cattprint fingerprint type", ErrMissingField)
		}
		if fpType.Kind() != KindInt {
			return fmt.Errorf("%w: cattprint type wants integer, got %s", ErrWrongType, fpType.Kind())
		}
		fpValue, ok := entries[tprintKeyValue]
		if !ok {
			return fmt.Errorf("%w: cattprint fingerprint value", ErrMissingField)
		}
		if fpValue.Kind() != KindText {
			return fmt.Errorf("%w: cattprint value wants text, got %s", ErrWrongType, fpValue.Kind())
		}
	}

	return nil
}

// Clone returns a deep copy, preserving emit order.
func (c *Claims) Clone() *Claims {
	out := &Claims{
		order:  make([]uint64, len(c.order)),
		values: make(map[uint64]Value, len(c.values)),
	}
	copy(out.order, c.order)
	for label, value := range c.values {
		out.values[label] = value.Clone()
	}
	return out
}

// Equal reports whether two claims maps hold the same labels and
// structurally equal values. Emit order does not participate.
func (c *Claims) Equal(other *Claims) bool {
	if len(c.values) != len(other.values) {
		return false
	}
	for label, value := range c.values {
		otherValue, ok := other.values[label]
		if !ok || !value.Equal(otherValue) {
			return false
		}
	}
	return true
}

// SetIssuer sets the iss claim.
func (c *Claims) SetIssuer(issuer string) { c.store(LabelIssuer, Text(issuer)) }

// SetSubject sets the sub claim.
func (c *Claims) SetSubject(subject string) { c.store(LabelSubject, Text(subject)) }

// SetAudience sets the aud claim.
func (c *Claims) SetAudience(audience string) { c.store(LabelAudience, Text(audience)) }

// SetExpiration sets the exp claim (Unix seconds).
func (c *Claims) SetExpiration(unixSeconds int64) error {
	return c.Set(LabelExpiration, Int(unixSeconds))
}

// SetNotBefore sets the nbf claim (Unix seconds).
func (c *Claims) SetNotBefore(unixSeconds int64) error {
	return c.Set(LabelNotBefore, Int(unixSeconds))
}

// SetIssuedAt sets the iat claim (Unix seconds).
func (c *Claims) SetIssuedAt(unixSeconds int64) error {
	return c.Set(LabelIssuedAt, Int(unixSeconds))
}

// SetCWTID sets the cti claim.
func (c *Claims) SetCWTID(id []byte) { c.store(LabelCWTID, Bytes(id)) }

// SetConfirmation sets the cnf claim.
func (c *Claims) SetConfirmation(entries map[uint64]Value) {
	c.store(LabelConfirmation, Map(entries))
}

// SetReplayMode sets the catreplay claim.
func (c *Claims) SetReplayMode(mode ReplayMode) error {
	return c.Set(LabelReplay, Int(int64(mode)))
}

// SetMethods sets the catm claim: the HTTP methods the token permits.
// At least one method is required.
func (c *Claims) SetMethods(methods ...string) error {
	items := make([]Value, len(methods))
	for i, method := range methods {
		items[i] = Text(method)
	}
	return c.Set(LabelMethods, Array(items...))
}

// SetNetworkIPs sets the catnip claim: the client networks (CIDR
// strings) the token permits.
func (c *Claims) SetNetworkIPs(networks ...string) error {
	items := make([]Value, len(networks))
	for i, network := range networks {
		items[i] = Text(network)
	}
	return c.Set(LabelNetworkIP, Array(items...))
}

// SetURIRules sets the catu claim from per-component match rules.
func (c *Claims) SetURIRules(rules map[urimatch.Component]map[urimatch.MatchKind]string) error {
	entries := make(map[uint64]Value, len(rules))
	for component, ruleSet := range rules {
		ruleEntries := make(map[uint64]Value, len(ruleSet))
		for kind, pattern := range ruleSet {
			ruleEntries[matchKindKey(kind)] = Text(pattern)
		}
		entries[uint64(component)] = Map(ruleEntries)
	}
	return c.Set(LabelURI, Map(entries))
}

// URIRules extracts the catu claim as typed rules. Returns false when
// the claim is absent.
func (c *Claims) URIRules() (urimatch.Rules, bool) {
	value, ok := c.values[LabelURI]
	if !ok {
		return nil, false
	}
	entries, ok := value.Map()
	if !ok {
		return nil, false
	}
	rules := make(urimatch.Rules, len(entries))
	for component, ruleValue := range entries {
		ruleEntries, ok := ruleValue.Map()
		if !ok {
			continue
		}
		ruleSet := make(map[urimatch.MatchKind]string, len(ruleEntries))
		for kindKey, pattern := range ruleEntries {
			text, ok := pattern.Text()
			if !ok {
				continue
			}
			ruleSet[matchKindFromKey(kindKey)] = text
		}
		rules[urimatch.Component(component)] = ruleSet
	}
	return rules, true
}

// SetTLSFingerprint sets the cattprint claim.
func (c *Claims) SetTLSFingerprint(fpType FingerprintType, value string) error {
	return c.Set(LabelTLSFingerprint, Map(map[uint64]Value{
		tprintKeyType:  Int(int64(fpType)),
		tprintKeyValue: Text(value),
	}))
}

// TLSFingerprint extracts the cattprint claim. Returns false when the
// claim is absent.
func (c *Claims) TLSFingerprint() (FingerprintType, string, bool) {
	value, ok := c.values[LabelTLSFingerprint]
	if !ok {
		return 0, "", false
	}
	entries, ok := value.Map()
	if !ok {
		return 0, "", false
	}
	fpType, _ := entries[tprintKeyType].Int()
	fpValue, _ := entries[tprintKeyValue].Text()
	return FingerprintType(fpType), fpValue, true
}

// Issuer returns the iss claim.
func (c *Claims) Issuer() (string, bool) { return c.text(LabelIssuer) }

// Subject returns the sub claim.
func (c *Claims) Subject() (string, bool) { return c.text(LabelSubject) }

// Audience returns the aud claim.
func (c *Claims) Audience() (string, bool) { return c.text(LabelAudience) }

// Expiration returns the exp claim.
func (c *Claims) Expiration() (int64, bool) { return c.integer(LabelExpiration) }

// NotBefore returns the nbf claim.
func (c *Claims) NotBefore() (int64, bool) { return c.integer(LabelNotBefore) }

// IssuedAt returns the iat claim.
func (c *Claims) IssuedAt() (int64, bool) { return c.integer(LabelIssuedAt) }

// CWTID returns the cti claim.
func (c *Claims) CWTID() ([]byte, bool) {
	value, ok := c.values[LabelCWTID]
	if !ok {
		return nil, false
	}
	return value.Bytes()
}

// ReplayMode returns the catreplay claim, or ReplayPermitted when the
// claim is absent.
func (c *Claims) ReplayMode() ReplayMode {
	n, ok := c.integer(LabelReplay)
	if !ok {
		return ReplayPermitted
	}
	return ReplayMode(n)
}

// Methods returns the catm claim's method list. Returns false when the
// claim is absent.
func (c *Claims) Methods() ([]string, bool) {
	value, ok := c.values[LabelMethods]
	if !ok {
		return nil, false
	}
	items, ok := value.Array()
	if !ok {
		return nil, false
	}
	methods := make([]string, 0, len(items))
	for _, item := range items {
		if text, ok := item.Text(); ok {
			methods = append(methods, text)
		}
	}
	return methods, true
}

func (c *Claims) text(label uint64) (string, bool) {
	value, ok := c.values[label]
	if !ok {
		return "", false
	}
	return value.Text()
}

func (c *Claims) integer(label uint64) (int64, bool) {
	value, ok := c.values[label]
	if !ok {
		return 0, false
	}
	return value.Int()
}

// matchKindKey maps a signed match kind to the uint64 key space of a
// Value map: CBOR map keys here are the claim's integers, and the
// reserved hash kinds are negative. The CBOR layer encodes them as
// negative integers; inside Value maps they ride as two's complement.
func matchKindKey(kind urimatch.MatchKind) uint64 {
	return uint64(int64(kind))
}

func matchKindFromKey(key uint64) urimatch.MatchKind {
	return urimatch.MatchKind(int64(key))
}
