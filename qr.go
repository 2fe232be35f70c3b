// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes text as QR codes.

Text is encoded as a single byte mode segment in the smallest QR
version (1 to 40) that holds it at the requested error correction
level.  Of the eight data masks, the one with the lowest penalty
score is applied.

	c, err := qr.Encode("https://example.com/", qr.M)
	if err != nil {
		return err
	}
	for row := 0; row < c.Size(); row++ {
		for col := 0; col < c.Size(); col++ {
			dark := c.IsDark(row, col)
			...
		}
	}

A Code can be rendered as an image, a PNG or PBM file, or text.
*/
package qr // import "github.com/unixdj/qrsym"

import (
	"errors"
	"image/color"

	"github.com/unixdj/qrsym/coding"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level = coding.Level

const (
	L = coding.L // 20% redundant
	M = coding.M // 38% redundant
	Q = coding.Q // 55% redundant
	H = coding.H // 65% redundant
)

// ParseLevel returns the Level named by s, one of "L", "M", "Q" or
// "H" in either case.
func ParseLevel(s string) (Level, error) { return coding.ParseLevel(s) }

var (
	// ErrInvalidInput is returned for empty or whitespace-only text.
	ErrInvalidInput = coding.ErrInvalidInput
	// ErrDataOverflow is wrapped by every *OverflowError.
	ErrDataOverflow = coding.ErrDataOverflow
	ErrLevel        = coding.ErrLevel

	ErrArgs       = errors.New("qr: invalid arguments")
	ErrLargeImage = errors.New("qr: image too large")
)

// OverflowError reports text too long for a version 40 symbol.
type OverflowError = coding.OverflowError

// Default rendering parameters.
const (
	DefaultScale  = 8
	DefaultBorder = 4
)

// A Code is a square pixel grid.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Stride int    // number of bytes per row
	size   int    // number of pixels on a side

	Version coding.Version // QR version
	Level   Level          // error correction level
	Mask    coding.Mask    // data mask

	Scale   int             // number of image pixels per QR pixel
	Border  int             // quiet zone width in QR pixels
	Reverse bool            // reverse colours
	Palette *[2]color.Color // background and foreground, if not nil
}

// An Encoder encodes text at an error correction level.
type Encoder struct {
	Level    Level // error correction level
	Parallel bool  // evaluate data masks concurrently
}

// Encode returns the QR code for text.
func (e Encoder) Encode(text string) (*Code, error) {
	s, err := coding.Encoder{Level: e.Level, Parallel: e.Parallel}.Encode(text)
	if err != nil {
		return nil, err
	}
	return newCode(s), nil
}

// Encode returns an encoding of text at the given error correction level.
func Encode(text string, level Level) (*Code, error) {
	return Encoder{Level: level}.Encode(text)
}

// newCode packs the modules of s into a bitmap.
func newCode(s *coding.Symbol) *Code {
	siz := s.Size()
	stride := (siz + 7) >> 3
	c := &Code{
		Bitmap:  make([]byte, stride*siz),
		Stride:  stride,
		size:    siz,
		Version: s.Version,
		Level:   s.Level,
		Mask:    s.Mask,
		Scale:   DefaultScale,
		Border:  DefaultBorder,
	}
	for y := 0; y < siz; y++ {
		row := c.Bitmap[y*stride:]
		for x := 0; x < siz; x++ {
			if s.IsDark(y, x) {
				row[x>>3] |= 0x80 >> (x & 7)
			}
		}
	}
	return c
}

// Size returns the number of modules on a side.
func (c *Code) Size() int { return c.size }

// Black returns true if the pixel at (x,y) is black.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.size && 0 <= y && y < c.size &&
		c.Bitmap[y*c.Stride+x>>3]&(0x80>>(x&7)) != 0
}

// IsDark reports whether the module at row, col is dark.  It returns
// false outside the symbol.
func (c *Code) IsDark(row, col int) bool { return c.Black(col, row) }

// isValid reports whether c can be rendered.
func (c *Code) isValid() bool {
	return c != nil && c.size > 0 && c.Scale > 0 && c.Border >= 0 &&
		c.Stride >= (c.size+7)>>3 && len(c.Bitmap) >= c.Stride*c.size
}

// pixels returns the number of image pixels on a side.
func (c *Code) pixels() int { return (c.size + c.Border*2) * c.Scale }
