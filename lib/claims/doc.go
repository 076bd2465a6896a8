// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package claims models the CWT claims map carried in a Common Access
// Token payload.
//
// A claims map takes integer labels to values of five shapes: integer,
// text string, byte string, array, and map with integer keys. Value is
// a tagged sum over those shapes — no interfaces, no reflection — so
// consumers switch exhaustively on Value.Kind. Nesting is unrestricted:
// CATU carries a map of maps, CNF a map of byte strings, and the codec
// recurses through arbitrary depth in both directions.
//
// Claims preserves insertion order when encoding, so a fixed program
// produces byte-identical payloads across runs. Nested map values are
// emitted with sorted keys for the same reason. CBOR maps are
// set-valued, so neither choice affects peer interoperability.
//
// Typed setters validate shape at the call site (SetMethods rejects an
// empty list, SetReplayMode rejects out-of-range modes) and Decode
// re-applies the same schema when parsing untrusted payloads, so a
// Claims value in hand always satisfies the label schema.
package claims
