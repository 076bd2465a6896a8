// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package cose

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/catkit-foundation/catkit/lib/cbor"
)

// TagMac0 is the CBOR tag number identifying a COSE_Mac0 message.
const TagMac0 uint64 = 17

// AlgHMAC256 is the COSE algorithm identifier for HMAC-SHA-256 (HS256).
const AlgHMAC256 int64 = 5

// COSE header parameter labels used by this profile.
const (
	headerAlg   int64 = 1
	headerKeyID int64 = 4
)

// tagSize is the HMAC-SHA-256 output length.
const tagSize = sha256.Size

// macContext is the context string fixed by RFC 8152 for Mac0
// structures.
const macContext = "MAC0"

// Errors returned by envelope construction and verification.
var (
	// ErrMalformedEnvelope means the message is not a 4-element array
	// of the required shapes.
	ErrMalformedEnvelope = errors.New("cose: malformed COSE_Mac0 envelope")

	// ErrMalformedHeader means a protected or unprotected header did
	// not parse as a CBOR map.
	ErrMalformedHeader = errors.New("cose: malformed header")

	// ErrUnsupportedAlgorithm means the message declares an algorithm
	// other than HMAC-SHA-256.
	ErrUnsupportedAlgorithm = errors.New("cose: unsupported algorithm")

	// ErrTagMismatch means the recomputed authentication tag does not
	// equal the stored tag. The comparison is constant time.
	ErrTagMismatch = errors.New("cose: authentication tag mismatch")
)

// Mac0 is a parsed or freshly built COSE_Mac0 message. Protected holds
// the encoded protected-header bytes exactly as they appear (and are
// MACed) on the wire.
type Mac0 struct {
	Protected []byte
	KeyID     []byte
	Payload   []byte
	Tag       []byte

	// unprotectedAlg is an algorithm identifier found in the
	// unprotected header, where this profile permits it to live
	// instead of the protected header.
	unprotectedAlg    int64
	hasUnprotectedAlg bool
}

// Create builds a Mac0 over payload, keyed by key, naming the key with
// kid in the unprotected header. The algorithm identifier is carried in
// the protected header.
func Create(key, payload, kid []byte) (*Mac0, error) {
	protected, err := encodeProtectedHeader(AlgHMAC256)
	if err != nil {
		return nil, err
	}
	tag, err := computeTag(key, protected, payload)
	if err != nil {
		return nil, err
	}
	return &Mac0{
		Protected: protected,
		KeyID:     kid,
		Payload:   payload,
		Tag:       tag,
	}, nil
}

// Verify recomputes the authentication tag with key and compares it to
// the stored tag in constant time. The protected header is parsed first
// so that malformed headers fail closed before any MAC work, and the
// declared algorithm must be HMAC-SHA-256.
func (m *Mac0) Verify(key []byte) error {
	alg, err := m.algorithm()
	if err != nil {
		return err
	}
	if alg != AlgHMAC256 {
		return fmt.Errorf("%w: %d", ErrUnsupportedAlgorithm, alg)
	}
	if len(m.Tag) != tagSize {
		return fmt.Errorf("%w: tag is %d bytes, want %d", ErrMalformedEnvelope, len(m.Tag), tagSize)
	}

	computed, err := computeTag(key, m.Protected, m.Payload)
	if err != nil {
		return err
	}
	if !hmac.Equal(computed, m.Tag) {
		return ErrTagMismatch
	}
	return nil
}

// algorithm extracts the algorithm identifier from the protected
// header, falling back to the unprotected header. A missing identifier
// is reported as unsupported rather than assumed.
func (m *Mac0) algorithm() (int64, error) {
	header, err := parseHeaderMap(m.Protected)
	if err != nil {
		return 0, err
	}
	if alg, ok := header[headerAlg]; ok {
		return alg, nil
	}
	if m.hasUnprotectedAlg {
		return m.unprotectedAlg, nil
	}
	return 0, fmt.Errorf("%w: no algorithm header", ErrUnsupportedAlgorithm)
}

// Encode emits the 4-element envelope array. The unprotected map
// carries the kid when present.
func (m *Mac0) Encode() ([]byte, error) {
	encoder := cbor.NewEncoder()
	m.encodeInto(encoder)
	return encoder.Finish()
}

// encodeInto appends the envelope array to an encoder the caller
// controls, so the token pipeline can prepend CWT tags.
func (m *Mac0) encodeInto(encoder *cbor.Encoder) {
	encoder.BeginArray(4)
	encoder.PushBytes(m.Protected)
	if m.KeyID != nil {
		encoder.BeginMap(1)
		encoder.PushInt(headerKeyID)
		encoder.PushBytes(m.KeyID)
		encoder.EndMap()
	} else {
		encoder.BeginMap(0)
		encoder.EndMap()
	}
	encoder.PushBytes(m.Payload)
	encoder.PushBytes(m.Tag)
	encoder.EndArray()
}

// EncodeInto appends the envelope to encoder.
func (m *Mac0) EncodeInto(encoder *cbor.Encoder) { m.encodeInto(encoder) }

// Parse reads a Mac0 envelope from decoder, which the token pipeline
// positions after any CWT tags. Unknown unprotected header parameters
// are skipped; kid and alg are retained.
func Parse(decoder *cbor.Decoder) (*Mac0, error) {
	length, indefinite, err := decoder.ReadArrayHeader()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if indefinite || length != 4 {
		return nil, fmt.Errorf("%w: array of %d elements", ErrMalformedEnvelope, length)
	}

	out := &Mac0{}
	if out.Protected, err = decoder.ReadBytes(); err != nil {
		return nil, fmt.Errorf("%w: protected header: %v", ErrMalformedEnvelope, err)
	}
	if err := out.readUnprotected(decoder); err != nil {
		return nil, err
	}
	if out.Payload, err = decoder.ReadBytes(); err != nil {
		return nil, fmt.Errorf("%w: payload: %v", ErrMalformedEnvelope, err)
	}
	if out.Tag, err = decoder.ReadBytes(); err != nil {
		return nil, fmt.Errorf("%w: tag: %v", ErrMalformedEnvelope, err)
	}
	return out, nil
}

// readUnprotected consumes the unprotected header map, keeping kid and
// a possible algorithm identifier.
func (m *Mac0) readUnprotected(decoder *cbor.Decoder) error {
	pairs, indefinite, err := decoder.ReadMapHeader()
	if err != nil {
		return fmt.Errorf("%w: unprotected header: %v", ErrMalformedHeader, err)
	}
	for i := uint64(0); indefinite || i < pairs; i++ {
		if indefinite && decoder.IsBreak() {
			break
		}
		major, err := decoder.PeekMajorType()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedHeader, err)
		}
		if major != cbor.MajorUnsigned && major != cbor.MajorNegative {
			// Text-keyed parameters are legal COSE; none are used by
			// this profile.
			if err := decoder.Skip(); err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedHeader, err)
			}
			if err := decoder.Skip(); err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedHeader, err)
			}
			continue
		}
		label, err := decoder.ReadInt()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedHeader, err)
		}
		switch label {
		case headerKeyID:
			if m.KeyID, err = decoder.ReadBytes(); err != nil {
				return fmt.Errorf("%w: kid: %v", ErrMalformedHeader, err)
			}
		case headerAlg:
			alg, err := decoder.ReadInt()
			if err != nil {
				return fmt.Errorf("%w: alg: %v", ErrMalformedHeader, err)
			}
			m.unprotectedAlg = alg
			m.hasUnprotectedAlg = true
		default:
			if err := decoder.Skip(); err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedHeader, err)
			}
		}
	}
	if indefinite {
		if err := decoder.ReadBreak(); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedHeader, err)
		}
	}
	return nil
}

// encodeProtectedHeader encodes the protected header map {1: alg} as
// the bytes wrapped in the envelope's protected bstr.
func encodeProtectedHeader(alg int64) ([]byte, error) {
	encoder := cbor.NewEncoder()
	encoder.BeginMap(1)
	encoder.PushInt(headerAlg)
	encoder.PushInt(alg)
	encoder.EndMap()
	return encoder.Finish()
}

// parseHeaderMap decodes protected-header bytes into label/value pairs,
// keeping integer-valued parameters and skipping the rest. A
// zero-length input is the encoding of an empty protected map.
func parseHeaderMap(header []byte) (map[int64]int64, error) {
	out := make(map[int64]int64)
	if len(header) == 0 {
		return out, nil
	}
	decoder := cbor.NewDecoder(header)
	pairs, indefinite, err := decoder.ReadMapHeader()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}
	for i := uint64(0); indefinite || i < pairs; i++ {
		if indefinite && decoder.IsBreak() {
			break
		}
		major, err := decoder.PeekMajorType()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
		}
		if major != cbor.MajorUnsigned && major != cbor.MajorNegative {
			if err := decoder.Skip(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
			}
			if err := decoder.Skip(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
			}
			continue
		}
		label, err := decoder.ReadInt()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
		}
		valueMajor, err := decoder.PeekMajorType()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
		}
		if valueMajor == cbor.MajorUnsigned || valueMajor == cbor.MajorNegative {
			value, err := decoder.ReadInt()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
			}
			out[label] = value
		} else if err := decoder.Skip(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
		}
	}
	if indefinite {
		if err := decoder.ReadBreak(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
		}
	}
	if decoder.Remaining() != 0 {
		return nil, fmt.Errorf("%w: trailing bytes", ErrMalformedHeader)
	}
	return out, nil
}

// computeTag builds the MAC structure ["MAC0", protected, external_aad,
// payload] and returns its HMAC-SHA-256 under key. The external AAD is
// empty in this profile.
func computeTag(key, protected, payload []byte) ([]byte, error) {
	encoder := cbor.NewEncoder()
	encoder.BeginArray(4)
	encoder.PushText(macContext)
	encoder.PushBytes(protected)
	encoder.PushBytes(nil)
	encoder.PushBytes(payload)
	encoder.EndArray()
	structure, err := encoder.Finish()
	if err != nil {
		return nil, err
	}

	mac := hmac.New(sha256.New, key)
	mac.Write(structure)
	return mac.Sum(nil), nil
}
