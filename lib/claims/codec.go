// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package claims

import (
	"fmt"
	"sort"

	"github.com/catkit-foundation/catkit/lib/cbor"
)

// Encode serializes the claims map to CBOR: a definite-length map of
// claim count entries, labels in insertion order, values recursed
// through arbitrary nesting. The returned buffer is owned by the
// caller.
func (c *Claims) Encode() ([]byte, error) {
	encoder := cbor.NewEncoder()
	encoder.BeginMap(len(c.values))
	for _, label := range c.order {
		pushMapKey(encoder, label)
		pushValue(encoder, c.values[label])
	}
	encoder.EndMap()
	return encoder.Finish()
}

// Decode parses a CBOR claims map, applying the label schema to every
// known label: wrong shapes, out-of-range catreplay values, empty
// restriction rules, and incomplete cattprint maps are all rejected
// here, before any claim reaches a verifier.
func Decode(payload []byte) (*Claims, error) {
	decoder := cbor.NewDecoder(payload)
	out, err := decodeClaims(decoder)
	if err != nil {
		return nil, err
	}
	if decoder.Remaining() != 0 {
		return nil, fmt.Errorf("claims: %d trailing bytes after claims map", decoder.Remaining())
	}
	return out, nil
}

func decodeClaims(decoder *cbor.Decoder) (*Claims, error) {
	pairs, indefinite, err := decoder.ReadMapHeader()
	if err != nil {
		return nil, fmt.Errorf("claims: reading claims map: %w", err)
	}

	out := New()
	for i := uint64(0); indefinite || i < pairs; i++ {
		if indefinite && decoder.IsBreak() {
			break
		}
		label, err := readMapKey(decoder)
		if err != nil {
			return nil, fmt.Errorf("claims: reading claim label: %w", err)
		}
		value, err := readValue(decoder)
		if err != nil {
			return nil, fmt.Errorf("claims: reading claim %d: %w", int64(label), err)
		}
		if err := checkSchema(label, value); err != nil {
			return nil, err
		}
		out.store(label, value)
	}
	if indefinite {
		if err := decoder.ReadBreak(); err != nil {
			return nil, fmt.Errorf("claims: %w", err)
		}
	}
	return out, nil
}

// pushValue emits one claim value, recursing through containers. Map
// entries are emitted in sorted key order so that a fixed claims tree
// always produces identical bytes.
func pushValue(encoder *cbor.Encoder, value Value) {
	switch value.Kind() {
	case KindInt:
		n, _ := value.Int()
		encoder.PushInt(n)
	case KindText:
		s, _ := value.Text()
		encoder.PushText(s)
	case KindBytes:
		encoder.PushBytes(value.raw)
	case KindArray:
		items, _ := value.Array()
		encoder.BeginArray(len(items))
		for _, item := range items {
			pushValue(encoder, item)
		}
		encoder.EndArray()
	case KindMap:
		entries, _ := value.Map()
		keys := make([]uint64, 0, len(entries))
		for key := range entries {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool { return int64(keys[i]) < int64(keys[j]) })
		encoder.BeginMap(len(entries))
		for _, key := range keys {
			pushMapKey(encoder, key)
			pushValue(encoder, entries[key])
		}
		encoder.EndMap()
	}
}

// readValue parses one claim value, dispatching on the major type at
// the cursor and recursing through nested arrays and maps.
func readValue(decoder *cbor.Decoder) (Value, error) {
	major, err := decoder.PeekMajorType()
	if err != nil {
		return Value{}, err
	}

	switch major {
	case cbor.MajorUnsigned, cbor.MajorNegative:
		n, err := decoder.ReadInt()
		if err != nil {
			return Value{}, err
		}
		return Int(n), nil

	case cbor.MajorText:
		s, err := decoder.ReadText()
		if err != nil {
			return Value{}, err
		}
		return Text(s), nil

	case cbor.MajorBytes:
		b, err := decoder.ReadBytes()
		if err != nil {
			return Value{}, err
		}
		return Value{kind: KindBytes, raw: b}, nil

	case cbor.MajorArray:
		length, indefinite, err := decoder.ReadArrayHeader()
		if err != nil {
			return Value{}, err
		}
		var items []Value
		for i := uint64(0); indefinite || i < length; i++ {
			if indefinite && decoder.IsBreak() {
				break
			}
			item, err := readValue(decoder)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		if indefinite {
			if err := decoder.ReadBreak(); err != nil {
				return Value{}, err
			}
		}
		return Value{kind: KindArray, items: items}, nil

	case cbor.MajorMap:
		pairs, indefinite, err := decoder.ReadMapHeader()
		if err != nil {
			return Value{}, err
		}
		entries := make(map[uint64]Value)
		for i := uint64(0); indefinite || i < pairs; i++ {
			if indefinite && decoder.IsBreak() {
				break
			}
			key, err := readMapKey(decoder)
			if err != nil {
				return Value{}, err
			}
			entry, err := readValue(decoder)
			if err != nil {
				return Value{}, err
			}
			entries[key] = entry
		}
		if indefinite {
			if err := decoder.ReadBreak(); err != nil {
				return Value{}, err
			}
		}
		return Value{kind: KindMap, entries: entries}, nil
	}

	return Value{}, fmt.Errorf("%w: claim values cannot be %s", ErrWrongType, major)
}

// Map keys are integers in either direction: claim labels and most
// structured-claim keys are unsigned, but the reserved CATU hash match
// kinds are negative. Negative keys ride in the uint64 key space as
// two's complement and are encoded back as CBOR negative integers.

func pushMapKey(encoder *cbor.Encoder, key uint64) {
	encoder.PushInt(int64(key))
}

func readMapKey(decoder *cbor.Decoder) (uint64, error) {
	major, err := decoder.PeekMajorType()
	if err != nil {
		return 0, err
	}
	switch major {
	case cbor.MajorUnsigned:
		return decoder.ReadUint()
	case cbor.MajorNegative:
		n, err := decoder.ReadInt()
		if err != nil {
			return 0, err
		}
		return uint64(n), nil
	}
	return 0, fmt.Errorf("%w: map keys must be integers, got %s", ErrWrongType, major)
}
