// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"io"
	"strconv"
)

// EncodePBM writes a Portable Bit Map image displaying the code to w,
// for use with netpbm.  EncodePBM disregards c.Palette, as other PNM
// formats are not supported.
func (c *Code) EncodePBM(w io.Writer) error {
	if w == nil || !c.isValid() {
		return ErrArgs
	}
	if c.pixels() > maxPixels {
		return ErrLargeImage
	}
	b := bufio.NewWriter(w)
	pix := c.pixels()
	ps := strconv.Itoa(pix)
	b.WriteString("P4\n" + ps + " " + ps + "\n")
	scale, bord := c.Scale, c.Border
	// In PBM 1 is black.
	row := make([]byte, (pix+7)>>3)
	for y := -bord; y < c.size+bord; y++ {
		for i := range row {
			row[i] = 0
		}
		for x := 0; x < pix; x++ {
			if c.Black(x/scale-bord, y) != c.Reverse {
				row[x>>3] |= 0x80 >> (x & 7)
			}
		}
		for i := 0; i < scale; i++ {
			b.Write(row)
		}
	}
	return b.Flush()
}
