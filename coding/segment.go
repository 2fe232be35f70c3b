// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "unicode/utf16"

// Byte mode segment header.
const (
	byteIndicator = 4 // 0100
	indicatorBits = 4
	terminator    = 4 // terminator length in bits
)

// Padding codewords appended alternately after the terminator.
var padBytes = [2]byte{0xec, 0x11}

// TextBytes returns the byte mode payload for text.
//
// The text is read as UTF-16 code units, each expanded to one, two or
// three bytes of UTF-8.  Characters outside the Basic Multilingual
// Plane therefore become two three-byte sequences, one per surrogate
// half, rather than a single four-byte sequence.
func TextBytes(text string) []byte {
	units := utf16.Encode([]rune(text))
	b := make([]byte, 0, len(text))
	for _, u := range units {
		switch c := uint32(u); {
		case c < 0x80:
			b = append(b, byte(c))
		case c < 0x800:
			b = append(b, 0xc0|byte(c>>6), 0x80|byte(c&0x3f))
		default:
			b = append(b, 0xe0|byte(c>>12), 0x80|byte(c>>6&0x3f),
				0x80|byte(c&0x3f))
		}
	}
	return b
}

// EncodeData returns the data codewords of a symbol of version v at
// level l carrying data as a single byte mode segment: the segment
// header and payload, terminator, and padding up to v.DataBytes(l)
// codewords.
func EncodeData(data []byte, v Version, l Level) ([]byte, error) {
	if !v.Valid() {
		return nil, ErrVersion
	}
	if !l.Valid() {
		return nil, ErrLevel
	}
	nd := v.DataBytes(l)
	b := NewBits(v.TotalBytes())
	b.Write(byteIndicator, indicatorBits)
	b.Write(uint32(len(data)), v.CountBits())
	b.WriteBytes(data)
	if b.Len() > nd*8 {
		return nil, &OverflowError{Length: b.Len(), Capacity: nd * 8,
			Unit: "bits"}
	}
	if b.Len()+terminator <= nd*8 {
		b.Write(0, terminator)
	}
	b.Align()
	for i := 0; len(b.Bytes()) < nd; i ^= 1 {
		b.Write(uint32(padBytes[i]), 8)
	}
	return b.Bytes(), nil
}
