// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
)

// Rendered image limits.  Image holds the whole image in memory, one
// byte per pixel, so its area is bounded as well as its side.
const (
	maxPixels = 32767 * 8 // pixels on a side
	maxArea   = 1 << 26   // pixels in a paletted image
)

var (
	whiteColor color.Color = color.Gray{0xff}
	blackColor color.Color = color.Gray{0x00}
)

// colors returns the background and foreground colours of c.
func (c *Code) colors() (bg, fg color.Color) {
	bg, fg = whiteColor, blackColor
	if c.Palette != nil {
		bg, fg = c.Palette[0], c.Palette[1]
	}
	if c.Reverse {
		bg, fg = fg, bg
	}
	return bg, fg
}

// Image returns a paletted image displaying the code, c.Scale pixels
// per module with a quiet zone c.Border modules wide.  Image returns
// nil if c cannot be rendered.
func (c *Code) Image() image.Image {
	if !c.isValid() || c.tooLarge() {
		return nil
	}
	return c.paletted()
}

// tooLarge reports whether the image of c exceeds maxPixels on a side
// or maxArea in total.
func (c *Code) tooLarge() bool {
	pix := int64(c.pixels())
	return pix > maxPixels || pix*pix > maxArea
}

func (c *Code) paletted() *image.Paletted {
	pix := c.pixels()
	bg, fg := c.colors()
	img := image.NewPaletted(image.Rect(0, 0, pix, pix),
		color.Palette{bg, fg})
	scale := c.Scale
	off := c.Border * scale
	for y := 0; y < c.size; y++ {
		top := (off + y*scale) * img.Stride
		row := img.Pix[top : top+pix]
		for x := 0; x < c.size; x++ {
			if c.Black(x, y) {
				p := row[off+x*scale : off+(x+1)*scale]
				for i := range p {
					p[i] = 1
				}
			}
		}
		for i := 1; i < scale; i++ {
			copy(img.Pix[top+i*img.Stride:], row)
		}
	}
	return img
}

// EncodePNG writes a PNG image displaying the code to w.
func (c *Code) EncodePNG(w io.Writer) error {
	if w == nil || !c.isValid() {
		return ErrArgs
	}
	if c.tooLarge() {
		return ErrLargeImage
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, c.paletted())
}

// PNG returns a PNG image displaying the code, or nil if the code
// cannot be rendered.
func (c *Code) PNG() []byte {
	var b bytes.Buffer
	if err := c.EncodePNG(&b); err != nil {
		return nil
	}
	return b.Bytes()
}
