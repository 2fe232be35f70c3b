// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"math/bits"
	"strconv"
)

// BCH generator polynomials and the format information mask.
const (
	formatGen  = 0x537  // x¹⁰+x⁸+x⁵+x⁴+x²+x+1
	formatMask = 0x5412 // 101010000010010
	versionGen = 0x1f25 // x¹²+x¹¹+x¹⁰+x⁹+x⁸+x⁵+x²+1
)

// bch returns data followed by the remainder of its division by gen.
func bch(data, gen uint32) uint32 {
	n := bits.Len32(gen) - 1
	d := data << n
	for bits.Len32(d) > n {
		d ^= gen << (bits.Len32(d) - n - 1)
	}
	return data<<n | d
}

// FormatBits returns the 15 bit format information for level l and
// mask m, masked with 0x5412.
func FormatBits(l Level, m Mask) uint16 {
	return uint16(bch(uint32(l.formatBits())<<3|uint32(m), formatGen)) ^
		formatMask
}

// VersionBits returns the 18 bit version information for v.
// Only versions 7 and up carry version information.
func VersionBits(v Version) uint32 {
	return bch(uint32(v), versionGen)
}

// writeFormat writes format information fb, least significant bit
// first, down column 8 and leftwards along row 8, and sets the dark
// module.
func (m *Matrix) writeFormat(fb uint16) {
	siz := m.size
	for i := 0; i < 15; i++ {
		c := cell(fb>>i&1 != 0)
		// vertical
		switch {
		case i < 6:
			m.Set(i, 8, c)
		case i < 8:
			m.Set(i+1, 8, c)
		default:
			m.Set(siz-15+i, 8, c)
		}
		// horizontal
		switch {
		case i < 8:
			m.Set(8, siz-i-1, c)
		case i < 9:
			m.Set(8, 15-i, c)
		default:
			m.Set(8, 14-i, c)
		}
	}
	m.Set(siz-8, 8, Dark)
}

// writeVersion writes version information vb into the 6×3 block above
// the bottom left finder pattern and its transpose left of the top
// right one.
func (m *Matrix) writeVersion(vb uint32) {
	for i := 0; i < 18; i++ {
		c := cell(vb>>i&1 != 0)
		m.Set(i/3, m.size-11+i%3, c)
		m.Set(m.size-11+i%3, i/3, c)
	}
}

// A Mask identifies one of the eight data mask patterns.
type Mask int

// NumMasks is the number of mask patterns.
const NumMasks = 8

func (m Mask) String() string { return strconv.Itoa(int(m)) }

// Valid reports whether m is between 0 and 7.
func (m Mask) Valid() bool { return 0 <= m && m < NumMasks }

// Mask patterns, dark where the function is true:
//
//	0: ▄▀▄▀▄▀▄▀▄▀▄▀  1: ▄▄▄▄▄▄▄▄▄▄▄▄  2:  ██ ██ ██ ██  3: ▄█▀▄█▀▄█▀▄█▀
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     ▀▄█▀▄█▀▄█▀▄█
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     █▀▄█▀▄█▀▄█▀▄
//
//	4:    ███   ███  5:  ▄▄▄▄▄ ▄▄▄▄▄  6:    ▄▄▄   ▄▄▄  7: ▄█▄▀ ▀▄█▄▀ ▀
//	   ███   ███         █▀▄▀█ █▀▄▀█      ▄▀▄ █ ▄▀▄ █     ▄▀█▀▄ ▄▀█▀▄
//	      ███   ███      ██▄██ ██▄██      █▄▄▀  █▄▄▀      ▄  ▀██▄  ▀██
var maskFunc = [NumMasks]func(i, j int) bool{
	func(i, j int) bool { return (i+j)%2 == 0 },
	func(i, j int) bool { return i%2 == 0 },
	func(i, j int) bool { return j%3 == 0 },
	func(i, j int) bool { return (i+j)%3 == 0 },
	func(i, j int) bool { return (i/2+j/3)%2 == 0 },
	func(i, j int) bool { return i*j%2+i*j%3 == 0 },
	func(i, j int) bool { return (i*j%2+i*j%3)%2 == 0 },
	func(i, j int) bool { return (i*j%3+(i+j)%2)%2 == 0 },
}

// Apply reports whether mask m inverts the module at row, col.
func (m Mask) Apply(row, col int) bool { return maskFunc[m](row, col) }

// place writes the codewords into the Unset cells of m in zigzag scan
// order, inverting each bit where mask applies.  Column pairs are
// scanned from the right edge leftwards, skipping the vertical timing
// pattern, alternately upwards and downwards.  Cells left over after
// the codewords run out receive zero bits.
func (m *Matrix) place(codewords []byte, mask Mask) {
	f := maskFunc[mask]
	siz := m.size
	pos, nbit := 0, len(codewords)*8
	put := func(row, col int) {
		if m.At(row, col) != Unset {
			return
		}
		dark := false
		if pos < nbit {
			dark = codewords[pos>>3]>>(7&^pos)&1 != 0
			pos++
		}
		m.Set(row, col, cell(dark != f(row, col)))
	}
	up := true
	for col := siz - 1; col > 0; col -= 2 {
		if col == 6 { // vertical timing strip
			col--
		}
		for i := 0; i < siz; i++ {
			row := i
			if up {
				row = siz - 1 - i
			}
			put(row, col)
			put(row, col-1)
		}
		up = !up
	}
	if pos != nbit {
		panic("qr: internal error")
	}
}
