// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatBits(t *testing.T) {
	for _, tt := range []struct {
		l    Level
		m    Mask
		want uint16
	}{
		{L, 0, 0x77c4}, {L, 7, 0x6976},
		{M, 0, 0x5412}, {M, 5, 0x40ce},
		{Q, 0, 0x355f}, {Q, 3, 0x3a06},
		{H, 0, 0x1689}, {H, 7, 0x083b},
	} {
		if got := FormatBits(tt.l, tt.m); got != tt.want {
			t.Errorf("FormatBits(%v, %v) = %#04x, want %#04x",
				tt.l, tt.m, got, tt.want)
		}
	}
}

// Version information, from ISO/IEC 18004 Annex D.
var versionPattern = [MaxVersion - 6]uint32{
	0x07c94, 0x085bc, 0x09a99, 0x0a4d3, 0x0bbf6, 0x0c762, 0x0d847, 0x0e60d,
	0x0f928, 0x10b78, 0x1145d, 0x12a17, 0x13532, 0x149a6, 0x15683, 0x168c9,
	0x177ec, 0x18ec4, 0x191e1, 0x1afab, 0x1b08e, 0x1cc1a, 0x1d33f, 0x1ed75,
	0x1f250, 0x209d5, 0x216f0, 0x228ba, 0x2379f, 0x24b0b, 0x2542e, 0x26a64,
	0x27541, 0x28c69,
}

func TestVersionBits(t *testing.T) {
	for v := Version(7); v <= MaxVersion; v++ {
		if got, want := VersionBits(v), versionPattern[v-7]; got != want {
			t.Errorf("VersionBits(%v) = %#05x, want %#05x", v, got, want)
		}
	}
}

func TestWriteFormat(t *testing.T) {
	m := NewSkeleton(1)
	fb := FormatBits(M, 4)
	m.writeFormat(fb)
	siz := m.Size()
	// read the copy around the top left finder, most significant
	// bit first: row 8 left to right, then column 8 upwards
	var a, b uint16
	for _, c := range []int{0, 1, 2, 3, 4, 5, 7, 8} {
		a = a<<1 | bit(m.IsDark(8, c))
	}
	for _, r := range []int{7, 5, 4, 3, 2, 1, 0} {
		a = a<<1 | bit(m.IsDark(r, 8))
	}
	// the other copy: column 8 bottom to top, then row 8
	for r := siz - 1; r > siz-8; r-- {
		b = b<<1 | bit(m.IsDark(r, 8))
	}
	for c := siz - 8; c < siz; c++ {
		b = b<<1 | bit(m.IsDark(8, c))
	}
	if a != fb || b != fb {
		t.Errorf("format info read %#04x and %#04x, want %#04x", a, b, fb)
	}
	if !m.IsDark(siz-8, 8) {
		t.Error("dark module cleared")
	}
}

func TestWriteVersion(t *testing.T) {
	m := NewSkeleton(7)
	vb := VersionBits(7)
	m.writeVersion(vb)
	siz := m.Size()
	var a, b uint32
	for i := 17; i >= 0; i-- {
		a = a<<1 | uint32(bit(m.IsDark(siz-11+i%3, i/3)))
		b = b<<1 | uint32(bit(m.IsDark(i/3, siz-11+i%3)))
	}
	if a != vb || b != vb {
		t.Errorf("version info read %#05x and %#05x, want %#05x", a, b, vb)
	}
}

func bit(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

func TestMaskApply(t *testing.T) {
	// first row and column of each mask
	want := [NumMasks][2]string{
		{"101010", "101010"},
		{"111111", "101010"},
		{"100100", "111111"},
		{"100100", "100100"},
		{"111000", "110011"},
		{"111111", "111111"},
		{"111111", "111111"},
		{"101010", "101010"},
	}
	for m := Mask(0); m < NumMasks; m++ {
		var row, col []byte
		for i := 0; i < 6; i++ {
			row = append(row, "01"[bit(m.Apply(0, i))])
			col = append(col, "01"[bit(m.Apply(i, 0))])
		}
		got := [2]string{string(row), string(col)}
		if diff := cmp.Diff(want[m], got); diff != "" {
			t.Errorf("mask %v mismatch (-want +got):\n%s", m, diff)
		}
	}
}

// zigzag returns the data module coordinates of skel in placement
// order.
func zigzag(skel *Matrix) [][2]int {
	var pos [][2]int
	siz := skel.Size()
	for pair, x := 0, siz-1; x > 0; pair, x = pair+1, x-2 {
		if x <= 6 {
			x = min(x, 5)
		}
		for i := 0; i < siz; i++ {
			y := siz - 1 - i
			if pair%2 == 1 {
				y = i
			}
			for _, c := range []int{x, x - 1} {
				if skel.At(y, c) == Unset {
					pos = append(pos, [2]int{y, c})
				}
			}
		}
	}
	return pos
}

func TestPlace(t *testing.T) {
	for _, v := range []Version{1, 2, 7, 14, 40} {
		skel := NewSkeleton(v)
		cw := make([]byte, v.TotalBytes())
		for i := range cw {
			cw[i] = byte(i*37 + 11)
		}
		for mask := Mask(0); mask < NumMasks; mask++ {
			m := skel.Clone()
			m.place(cw, mask)
			if !m.Complete() {
				t.Fatalf("version %v mask %v: unset cells left", v, mask)
			}
			pos := zigzag(skel)
			for i, p := range pos {
				want := false
				if i < len(cw)*8 {
					want = cw[i/8]>>(7-i%8)&1 != 0
				}
				got := m.IsDark(p[0], p[1]) != mask.Apply(p[0], p[1])
				if got != want {
					t.Fatalf("version %v mask %v: bit %d at (%d,%d) = %v",
						v, mask, i, p[0], p[1], got)
				}
			}
		}
	}
}

func TestPlaceOverflowPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != "qr: internal error" {
			t.Errorf("recover() = %v, want internal error", r)
		}
	}()
	m := NewSkeleton(1)
	m.place(make([]byte, Version(1).TotalBytes()+1), 0)
}
