// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package urimatch

import (
	"errors"
	"fmt"
	"strings"
)

// MatchKind identifies how a CATU rule's pattern is compared against a
// component value. Kinds are signed because the hash kinds use negative
// codes.
type MatchKind int64

// Match kinds (keys inside a CATU component's match map).
const (
	MatchExact    MatchKind = 0
	MatchPrefix   MatchKind = 1
	MatchSuffix   MatchKind = 2
	MatchContains MatchKind = 3

	// Reserved by the CAT specification; rules of these kinds are
	// rejected (fail closed).
	MatchRegex     MatchKind = 4
	MatchSHA256    MatchKind = -1
	MatchSHA512256 MatchKind = -2
)

var matchKindNames = map[MatchKind]string{
	MatchExact:     "exact",
	MatchPrefix:    "prefix",
	MatchSuffix:    "suffix",
	MatchContains:  "contains",
	MatchRegex:     "regex",
	MatchSHA256:    "sha-256",
	MatchSHA512256: "sha-512/256",
}

// String returns the kind's name as used in error messages.
func (k MatchKind) String() string {
	if name, ok := matchKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("match kind %d", int64(k))
}

// Errors returned by rule evaluation.
var (
	// ErrUnsupportedMatchKind marks a rule using a reserved or unknown
	// match kind. Tokens declaring such rules are rejected rather than
	// silently passed.
	ErrUnsupportedMatchKind = errors.New("urimatch: unsupported match kind")

	// ErrComponentMismatch means a declared component had no rule that
	// matched the request URL's component value.
	ErrComponentMismatch = errors.New("urimatch: URI component rule failed")
)

// Match evaluates one rule against a component value.
func Match(kind MatchKind, pattern, value string) (bool, error) {
	switch kind {
	case MatchExact:
		return value == pattern, nil
	case MatchPrefix:
		return strings.HasPrefix(value, pattern), nil
	case MatchSuffix:
		return strings.HasSuffix(value, pattern), nil
	case MatchContains:
		return strings.Contains(value, pattern), nil
	}
	return false, fmt.Errorf("%w: %s", ErrUnsupportedMatchKind, kind)
}

// Rules maps each constrained component to its match rules. A component
// passes when at least one of its rules matches; the URL passes when
// every declared component passes.
type Rules map[Component]map[MatchKind]string

// Evaluate checks every declared component of rules against the parsed
// URL. The error identifies the first failing component, or the first
// rule of a reserved kind.
func (r Rules) Evaluate(components *Components) error {
	for id, ruleSet := range r {
		value, known := components.Get(id)
		if !known {
			return fmt.Errorf("%w: %s", ErrComponentMismatch, id)
		}
		matched := false
		for kind, pattern := range ruleSet {
			ok, err := Match(kind, pattern, value)
			if err != nil {
				return err
			}
			if ok {
				matched = true
			}
		}
		if !matched {
			return fmt.Errorf("%w: %s %q", ErrComponentMismatch, id, value)
		}
	}
	return nil
}
