// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import "strings"

// halfBlocks indexed by top<<1 | bottom.
var halfBlocks = [4]string{" ", "▄", "▀", "█"}

// String returns the code drawn with Unicode half blocks, two modules
// per character cell, surrounded by the quiet zone.  Dark modules are
// drawn as blocks unless c.Reverse is set.
func (c *Code) String() string {
	if c == nil || c.size == 0 {
		return ""
	}
	bord := max(c.Border, 0)
	end := c.size + bord
	dark := func(x, y int) int {
		if y >= end {
			return 0
		}
		if c.Black(x, y) != c.Reverse {
			return 1
		}
		return 0
	}
	var b strings.Builder
	for y := -bord; y < end; y += 2 {
		for x := -bord; x < end; x++ {
			b.WriteString(halfBlocks[dark(x, y)<<1|dark(x, y+1)])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ASCII returns the code drawn with two characters per module, "##"
// for dark and spaces for light, surrounded by the quiet zone.
// c.Reverse swaps the two.
func (c *Code) ASCII() string {
	if c == nil || c.size == 0 {
		return ""
	}
	bord := max(c.Border, 0)
	pix := c.size + bord*2
	b := make([]byte, 0, (pix*2+1)*pix)
	for y := -bord; y < c.size+bord; y++ {
		for x := -bord; x < c.size+bord; x++ {
			p := byte(' ')
			if c.Black(x, y) != c.Reverse {
				p = '#'
			}
			b = append(b, p, p)
		}
		b = append(b, '\n')
	}
	return string(b)
}
