// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package cbor

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/x448/float16"
)

// Decoder reads CBOR items from a byte buffer, advancing a cursor in
// call order. Failed reads leave the cursor where it was so the caller
// can recover with Skip or report the position.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder returns a decoder positioned at the start of buf. The
// decoder reads from buf without copying; the caller must not mutate it
// while decoding.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Position returns the cursor's byte offset.
func (d *Decoder) Position() int { return d.pos }

// Remaining returns the number of unread bytes.
func (d *Decoder) Remaining() int { return len(d.buf) - d.pos }

// PeekMajorType returns the major type of the item at the cursor
// without consuming it.
func (d *Decoder) PeekMajorType() (MajorType, error) {
	if d.pos >= len(d.buf) {
		return 0, ErrEndOfBuffer
	}
	return MajorType(d.buf[d.pos] >> 5), nil
}

// PeekAdditionalInfo returns the additional-info bits (low five) of the
// item head at the cursor without consuming it.
func (d *Decoder) PeekAdditionalInfo() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, ErrEndOfBuffer
	}
	return d.buf[d.pos] & 0x1f, nil
}

// IsBreak reports whether the byte at the cursor is the break code that
// terminates an indefinite-length item. Returns false at end of buffer.
func (d *Decoder) IsBreak() bool {
	return d.pos < len(d.buf) && d.buf[d.pos] == byteBreak
}

// readHead consumes an item head and returns its major type, argument
// value, and whether the head declares an indefinite length. For major
// type 7 with additional info 31 (the break code), indefinite is true
// and the caller decides whether a break is legal here.
func (d *Decoder) readHead() (MajorType, uint64, bool, error) {
	if d.pos >= len(d.buf) {
		return 0, 0, false, ErrEndOfBuffer
	}
	start := d.pos
	head := d.buf[d.pos]
	major := MajorType(head >> 5)
	info := head & 0x1f

	var length int
	switch {
	case info < 24:
		d.pos++
		return major, uint64(info), false, nil
	case info == 24:
		length = 1
	case info == 25:
		length = 2
	case info == 26:
		length = 4
	case info == 27:
		length = 8
	case info == 31:
		// Indefinite lengths exist only for strings and containers;
		// for major type 7 this is the break code, which the caller
		// decides the legality of.
		switch major {
		case MajorUnsigned, MajorNegative, MajorTag:
			return 0, 0, false, fmt.Errorf("%w: 31 for %s at byte %d", ErrUnsupportedAdditionalInfo, major, start)
		}
		d.pos++
		return major, 0, true, nil
	default:
		return 0, 0, false, fmt.Errorf("%w: %d at byte %d", ErrUnsupportedAdditionalInfo, info, start)
	}

	if d.pos+1+length > len(d.buf) {
		return 0, 0, false, ErrEndOfBuffer
	}
	d.pos++
	var value uint64
	switch length {
	case 1:
		value = uint64(d.buf[d.pos])
	case 2:
		value = uint64(binary.BigEndian.Uint16(d.buf[d.pos:]))
	case 4:
		value = uint64(binary.BigEndian.Uint32(d.buf[d.pos:]))
	case 8:
		value = binary.BigEndian.Uint64(d.buf[d.pos:])
	}
	d.pos += length
	return major, value, false, nil
}

// expect consumes the head of an item whose major type must be want.
func (d *Decoder) expect(want MajorType) (uint64, bool, error) {
	start := d.pos
	major, value, indefinite, err := d.readHead()
	if err != nil {
		return 0, false, err
	}
	if major != want {
		d.pos = start
		return 0, false, typeError(want, major, start)
	}
	return value, indefinite, nil
}

// ReadUint reads an unsigned integer. Reading a negative integer
// through this accessor fails with ErrNegativeIntoUnsigned.
func (d *Decoder) ReadUint() (uint64, error) {
	start := d.pos
	major, value, _, err := d.readHead()
	if err != nil {
		return 0, err
	}
	switch major {
	case MajorUnsigned:
		return value, nil
	case MajorNegative:
		d.pos = start
		return 0, fmt.Errorf("%w at byte %d", ErrNegativeIntoUnsigned, start)
	default:
		d.pos = start
		return 0, typeError(MajorUnsigned, major, start)
	}
}

// ReadInt reads a signed integer from either integer major type. Values
// outside the int64 range fail with ErrValueOutOfRange.
func (d *Decoder) ReadInt() (int64, error) {
	start := d.pos
	major, value, _, err := d.readHead()
	if err != nil {
		return 0, err
	}
	switch major {
	case MajorUnsigned:
		if value > math.MaxInt64 {
			d.pos = start
			return 0, fmt.Errorf("%w: %d exceeds int64 at byte %d", ErrValueOutOfRange, value, start)
		}
		return int64(value), nil
	case MajorNegative:
		if value > math.MaxInt64 {
			d.pos = start
			return 0, fmt.Errorf("%w: -1-%d exceeds int64 at byte %d", ErrValueOutOfRange, value, start)
		}
		return -1 - int64(value), nil
	default:
		d.pos = start
		return 0, typeError(MajorUnsigned, major, start)
	}
}

// ReadBool reads a boolean simple value.
func (d *Decoder) ReadBool() (bool, error) {
	if d.pos >= len(d.buf) {
		return false, ErrEndOfBuffer
	}
	switch d.buf[d.pos] {
	case byteTrue:
		d.pos++
		return true, nil
	case byteFalse:
		d.pos++
		return false, nil
	}
	return false, typeError(MajorSimple, MajorType(d.buf[d.pos]>>5), d.pos)
}

// ReadNull consumes a null simple value.
func (d *Decoder) ReadNull() error {
	return d.readSimpleByte(byteNull)
}

// ReadUndefined consumes an undefined simple value.
func (d *Decoder) ReadUndefined() error {
	return d.readSimpleByte(byteUndefined)
}

func (d *Decoder) readSimpleByte(want byte) error {
	if d.pos >= len(d.buf) {
		return ErrEndOfBuffer
	}
	if d.buf[d.pos] != want {
		return typeError(MajorSimple, MajorType(d.buf[d.pos]>>5), d.pos)
	}
	d.pos++
	return nil
}

// ReadFloat64 reads a float of any encoded width (16, 32, or 64 bits)
// and widens it to float64.
func (d *Decoder) ReadFloat64() (float64, error) {
	if d.pos >= len(d.buf) {
		return 0, ErrEndOfBuffer
	}
	head := d.buf[d.pos]
	switch head {
	case 0xf9:
		if d.pos+3 > len(d.buf) {
			return 0, ErrEndOfBuffer
		}
		bits := binary.BigEndian.Uint16(d.buf[d.pos+1:])
		d.pos += 3
		return float64(float16.Frombits(bits).Float32()), nil
	case 0xfa:
		if d.pos+5 > len(d.buf) {
			return 0, ErrEndOfBuffer
		}
		bits := binary.BigEndian.Uint32(d.buf[d.pos+1:])
		d.pos += 5
		return float64(math.Float32frombits(bits)), nil
	case 0xfb:
		if d.pos+9 > len(d.buf) {
			return 0, ErrEndOfBuffer
		}
		bits := binary.BigEndian.Uint64(d.buf[d.pos+1:])
		d.pos += 9
		return math.Float64frombits(bits), nil
	}
	return 0, typeError(MajorSimple, MajorType(head>>5), d.pos)
}

// ReadBytes reads a byte string. Indefinite-length strings are read by
// concatenating their definite chunks into a single owned buffer; a
// chunk that is itself indefinite fails with ErrNestedIndefinite.
func (d *Decoder) ReadBytes() ([]byte, error) {
	return d.readString(MajorBytes)
}

// ReadText reads a text string, concatenating indefinite chunks like
// ReadBytes.
func (d *Decoder) ReadText() (string, error) {
	b, err := d.readString(MajorText)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *Decoder) readString(major MajorType) ([]byte, error) {
	start := d.pos
	length, indefinite, err := d.expect(major)
	if err != nil {
		return nil, err
	}

	if !indefinite {
		b, err := d.take(length)
		if err != nil {
			d.pos = start
			return nil, err
		}
		out := make([]byte, len(b))
		copy(out, b)
		return out, nil
	}

	var out []byte
	for {
		if d.IsBreak() {
			d.pos++
			return out, nil
		}
		chunkStart := d.pos
		chunkLen, chunkIndefinite, err := d.expect(major)
		if err != nil {
			d.pos = start
			return nil, err
		}
		if chunkIndefinite {
			d.pos = start
			return nil, fmt.Errorf("%w at byte %d", ErrNestedIndefinite, chunkStart)
		}
		chunk, err := d.take(chunkLen)
		if err != nil {
			d.pos = start
			return nil, err
		}
		out = append(out, chunk...)
	}
}

// take consumes n raw bytes.
func (d *Decoder) take(n uint64) ([]byte, error) {
	if n > uint64(len(d.buf)-d.pos) {
		return nil, ErrEndOfBuffer
	}
	b := d.buf[d.pos : d.pos+int(n)]
	d.pos += int(n)
	return b, nil
}

// ReadArrayHeader consumes an array head. For definite arrays it
// returns the element count; for indefinite arrays it returns
// indefinite=true and the caller loops until IsBreak, consuming the
// break with ReadBreak.
func (d *Decoder) ReadArrayHeader() (length uint64, indefinite bool, err error) {
	return d.expect(MajorArray)
}

// ReadMapHeader consumes a map head. The returned length counts
// key/value pairs.
func (d *Decoder) ReadMapHeader() (length uint64, indefinite bool, err error) {
	return d.expect(MajorMap)
}

// ReadTag consumes a tag head and returns the tag number. The tagged
// value follows at the cursor.
func (d *Decoder) ReadTag() (uint64, error) {
	value, _, err := d.expect(MajorTag)
	return value, err
}

// ReadBreak consumes the break code terminating an indefinite item.
func (d *Decoder) ReadBreak() error {
	if d.pos >= len(d.buf) {
		return ErrEndOfBuffer
	}
	if d.buf[d.pos] != byteBreak {
		return fmt.Errorf("%w: expected break at byte %d", ErrInvalidBreak, d.pos)
	}
	d.pos++
	return nil
}

// Skip consumes one complete item of any type, recursing through tags
// and both definite and indefinite containers. Use it to step over
// claims or header parameters the caller does not understand.
func (d *Decoder) Skip() error {
	start := d.pos
	major, value, indefinite, err := d.readHead()
	if err != nil {
		return err
	}

	switch major {
	case MajorUnsigned, MajorNegative:
		return nil

	case MajorBytes, MajorText:
		if !indefinite {
			_, err := d.take(value)
			if err != nil {
				d.pos = start
			}
			return err
		}
		for !d.IsBreak() {
			chunkMajor, chunkLen, chunkIndefinite, err := d.readHead()
			if err != nil {
				d.pos = start
				return err
			}
			if chunkMajor != major || chunkIndefinite {
				d.pos = start
				return fmt.Errorf("%w at byte %d", ErrNestedIndefinite, start)
			}
			if _, err := d.take(chunkLen); err != nil {
				d.pos = start
				return err
			}
		}
		return d.ReadBreak()

	case MajorArray, MajorMap:
		items := value
		if major == MajorMap {
			items *= 2
		}
		if indefinite {
			for !d.IsBreak() {
				if err := d.Skip(); err != nil {
					d.pos = start
					return err
				}
			}
			return d.ReadBreak()
		}
		for i := uint64(0); i < items; i++ {
			if err := d.Skip(); err != nil {
				d.pos = start
				return err
			}
		}
		return nil

	case MajorTag:
		if err := d.Skip(); err != nil {
			d.pos = start
			return err
		}
		return nil

	default: // MajorSimple
		if indefinite {
			// A bare break with no open indefinite item.
			d.pos = start
			return fmt.Errorf("%w: unexpected break at byte %d", ErrInvalidBreak, start)
		}
		// Heads with info 24-27 (one-byte simple value, floats) carried
		// their payload in the head read; nothing further to consume.
		return nil
	}
}
