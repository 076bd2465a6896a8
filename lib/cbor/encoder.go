// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"encoding/binary"
	"math"

	"github.com/x448/float16"
)

// Simple values with fixed single-byte encodings (major type 7).
const (
	byteFalse     = 0xf4
	byteTrue      = 0xf5
	byteNull      = 0xf6
	byteUndefined = 0xf7
	byteBreak     = 0xff
)

// frame tracks one open container on the encoder's nesting stack.
type frame struct {
	major      MajorType
	indefinite bool
	declared   uint64 // item count from Begin, definite containers only
	written    uint64 // complete items appended so far
}

// Encoder appends CBOR items to an in-memory buffer. Operations append
// in call order; the zero value is not usable, construct with
// NewEncoder. Errors (unbalanced containers, wrong chunk types inside
// indefinite strings) are sticky and reported by Finish, so call sites
// can chain pushes without per-call error handling.
type Encoder struct {
	buf   []byte
	stack []frame
	err   error
}

// NewEncoder returns an empty encoder.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 64)}
}

// writeHead appends an item head: major type plus the smallest of the
// direct, 1-, 2-, 4-, or 8-byte argument encodings that fits value.
func (e *Encoder) writeHead(major MajorType, value uint64) {
	base := byte(major) << 5
	switch {
	case value < 24:
		e.buf = append(e.buf, base|byte(value))
	case value <= math.MaxUint8:
		e.buf = append(e.buf, base|24, byte(value))
	case value <= math.MaxUint16:
		e.buf = append(e.buf, base|25)
		e.buf = binary.BigEndian.AppendUint16(e.buf, uint16(value))
	case value <= math.MaxUint32:
		e.buf = append(e.buf, base|26)
		e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(value))
	default:
		e.buf = append(e.buf, base|27)
		e.buf = binary.BigEndian.AppendUint64(e.buf, value)
	}
}

// countItem records one complete item against the innermost open
// container.
func (e *Encoder) countItem() {
	if len(e.stack) > 0 {
		e.stack[len(e.stack)-1].written++
	}
}

// fail records the first error; later operations become no-ops so the
// error survives until Finish.
func (e *Encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

// inString reports whether the innermost open container is an
// indefinite-length byte or text string, which only admits definite
// chunks of its own type.
func (e *Encoder) inString() (MajorType, bool) {
	if len(e.stack) == 0 {
		return 0, false
	}
	top := e.stack[len(e.stack)-1]
	if top.indefinite && (top.major == MajorBytes || top.major == MajorText) {
		return top.major, true
	}
	return 0, false
}

// checkChunk validates that an item of the given major type is legal at
// the current position (inside an indefinite string only chunks of the
// string's own type may appear).
func (e *Encoder) checkChunk(major MajorType) bool {
	if strMajor, ok := e.inString(); ok && strMajor != major {
		e.fail(typeError(strMajor, major, len(e.buf)))
		return false
	}
	return true
}

// PushUint appends an unsigned integer (major type 0).
func (e *Encoder) PushUint(v uint64) {
	if e.err != nil || !e.checkChunk(MajorUnsigned) {
		return
	}
	e.writeHead(MajorUnsigned, v)
	e.countItem()
}

// PushInt appends a signed integer: major type 0 for v >= 0, major
// type 1 with argument -1-v otherwise.
func (e *Encoder) PushInt(v int64) {
	if e.err != nil {
		return
	}
	if v >= 0 {
		e.PushUint(uint64(v))
		return
	}
	if !e.checkChunk(MajorNegative) {
		return
	}
	e.writeHead(MajorNegative, uint64(-(v + 1)))
	e.countItem()
}

// PushBool appends a boolean simple value.
func (e *Encoder) PushBool(v bool) {
	if e.err != nil || !e.checkChunk(MajorSimple) {
		return
	}
	if v {
		e.buf = append(e.buf, byteTrue)
	} else {
		e.buf = append(e.buf, byteFalse)
	}
	e.countItem()
}

// PushNull appends the null simple value.
func (e *Encoder) PushNull() {
	if e.err != nil || !e.checkChunk(MajorSimple) {
		return
	}
	e.buf = append(e.buf, byteNull)
	e.countItem()
}

// PushUndefined appends the undefined simple value.
func (e *Encoder) PushUndefined() {
	if e.err != nil || !e.checkChunk(MajorSimple) {
		return
	}
	e.buf = append(e.buf, byteUndefined)
	e.countItem()
}

// PushFloat16 appends v as a half-precision float. The conversion may
// lose precision; the caller chooses the width.
func (e *Encoder) PushFloat16(v float32) {
	if e.err != nil || !e.checkChunk(MajorSimple) {
		return
	}
	e.buf = append(e.buf, 0xf9)
	e.buf = binary.BigEndian.AppendUint16(e.buf, float16.Fromfloat32(v).Bits())
	e.countItem()
}

// PushFloat32 appends v as a single-precision float.
func (e *Encoder) PushFloat32(v float32) {
	if e.err != nil || !e.checkChunk(MajorSimple) {
		return
	}
	e.buf = append(e.buf, 0xfa)
	e.buf = binary.BigEndian.AppendUint32(e.buf, math.Float32bits(v))
	e.countItem()
}

// PushFloat64 appends v as a double-precision float.
func (e *Encoder) PushFloat64(v float64) {
	if e.err != nil || !e.checkChunk(MajorSimple) {
		return
	}
	e.buf = append(e.buf, 0xfb)
	e.buf = binary.BigEndian.AppendUint64(e.buf, math.Float64bits(v))
	e.countItem()
}

// PushBytes appends a definite-length byte string. Inside an open
// indefinite byte string this is a chunk.
func (e *Encoder) PushBytes(b []byte) {
	if e.err != nil || !e.checkChunk(MajorBytes) {
		return
	}
	e.writeHead(MajorBytes, uint64(len(b)))
	e.buf = append(e.buf, b...)
	e.countItem()
}

// PushText appends a definite-length text string. Inside an open
// indefinite text string this is a chunk.
func (e *Encoder) PushText(s string) {
	if e.err != nil || !e.checkChunk(MajorText) {
		return
	}
	e.writeHead(MajorText, uint64(len(s)))
	e.buf = append(e.buf, s...)
	e.countItem()
}

// PushTag appends a tag head. The next complete item is the tagged
// value; the tag and its value count as a single item in the enclosing
// container.
func (e *Encoder) PushTag(tag uint64) {
	if e.err != nil || !e.checkChunk(MajorTag) {
		return
	}
	e.writeHead(MajorTag, tag)
	// The tagged value that follows provides the item count.
}

// PushRaw appends pre-encoded bytes verbatim. The caller is responsible
// for raw being exactly one well-formed CBOR item.
func (e *Encoder) PushRaw(raw []byte) {
	if e.err != nil {
		return
	}
	if strMajor, ok := e.inString(); ok && len(raw) > 0 && MajorType(raw[0]>>5) != strMajor {
		e.fail(typeError(strMajor, MajorType(raw[0]>>5), len(e.buf)))
		return
	}
	e.buf = append(e.buf, raw...)
	e.countItem()
}

// PushBreak appends a raw break code (0xff). Most callers should close
// indefinite items with the matching End call instead; PushBreak exists
// for low-level construction alongside PushRaw.
func (e *Encoder) PushBreak() {
	if e.err != nil {
		return
	}
	e.buf = append(e.buf, byteBreak)
}

// begin opens a container frame.
func (e *Encoder) begin(major MajorType, declared uint64, indefinite bool) {
	if e.err != nil || !e.checkChunk(major) {
		return
	}
	if _, inStr := e.inString(); inStr {
		// Chunks of an indefinite string must be definite strings;
		// nothing else may open inside one.
		e.fail(ErrNestedIndefinite)
		return
	}
	if indefinite {
		e.buf = append(e.buf, byte(major)<<5|31)
	} else {
		e.writeHead(major, declared)
	}
	e.countItem()
	e.stack = append(e.stack, frame{major: major, indefinite: indefinite, declared: declared})
}

// end closes the innermost container frame, verifying it has the
// expected major type and, for definite containers, the declared item
// count.
func (e *Encoder) end(major MajorType) {
	if e.err != nil {
		return
	}
	if len(e.stack) == 0 {
		e.fail(ErrContainerMismatch)
		return
	}
	top := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	if top.major != major {
		e.fail(ErrContainerMismatch)
		return
	}
	if top.indefinite {
		e.buf = append(e.buf, byteBreak)
		return
	}
	want := top.declared
	if major == MajorMap {
		want *= 2 // key and value per entry
	}
	if top.written != want {
		e.fail(ErrContainerMismatch)
	}
}

// BeginArray opens a definite-length array of n items. Exactly n items
// must be pushed before the matching EndArray.
func (e *Encoder) BeginArray(n int) { e.begin(MajorArray, uint64(n), false) }

// BeginIndefiniteArray opens an indefinite-length array, closed by
// EndArray with a break code.
func (e *Encoder) BeginIndefiniteArray() { e.begin(MajorArray, 0, true) }

// EndArray closes the innermost open array.
func (e *Encoder) EndArray() { e.end(MajorArray) }

// BeginMap opens a definite-length map of n key/value pairs.
func (e *Encoder) BeginMap(n int) { e.begin(MajorMap, uint64(n), false) }

// BeginIndefiniteMap opens an indefinite-length map.
func (e *Encoder) BeginIndefiniteMap() { e.begin(MajorMap, 0, true) }

// EndMap closes the innermost open map.
func (e *Encoder) EndMap() { e.end(MajorMap) }

// BeginIndefiniteBytes opens an indefinite-length byte string. Only
// definite byte-string chunks (PushBytes) may appear inside.
func (e *Encoder) BeginIndefiniteBytes() { e.begin(MajorBytes, 0, true) }

// EndBytes closes the innermost open indefinite byte string.
func (e *Encoder) EndBytes() { e.end(MajorBytes) }

// BeginIndefiniteText opens an indefinite-length text string. Only
// definite text-string chunks (PushText) may appear inside.
func (e *Encoder) BeginIndefiniteText() { e.begin(MajorText, 0, true) }

// EndText closes the innermost open indefinite text string.
func (e *Encoder) EndText() { e.end(MajorText) }

// Len returns the number of bytes encoded so far.
func (e *Encoder) Len() int { return len(e.buf) }

// Finish returns the encoded bytes as an owned buffer independent of
// the encoder, or the first error recorded during encoding. Calling
// Finish with a container still open is a programmer error and returns
// ErrOpenContainer.
func (e *Encoder) Finish() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if len(e.stack) != 0 {
		return nil, ErrOpenContainer
	}
	out := make([]byte, len(e.buf))
	copy(out, e.buf)
	return out, nil
}
