// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"
)

// isSpace reports whether r is white space or a line terminator in the
// sense of ECMAScript: Unicode spaces and the byte order mark, but not
// NEL (U+0085).
func isSpace(r rune) bool {
	return r == '\uFEFF' || r != '\u0085' && unicode.IsSpace(r)
}

// A Symbol is a finished QR symbol.
type Symbol struct {
	Version Version // QR code version
	Level   Level   // error correction level
	Mask    Mask    // selected mask pattern
	Penalty int     // penalty of the selected mask
	*Matrix         // modules, none of them Unset
}

// Encoder encodes text as a single byte mode segment in the smallest
// symbol that holds it.
type Encoder struct {
	Level    Level // error correction level
	Parallel bool  // evaluate masks concurrently
}

// Encode returns a symbol carrying text.  It returns ErrInvalidInput
// if text is empty or whitespace only, and an *OverflowError if text
// does not fit in a version 40 symbol at e.Level.
func (e Encoder) Encode(text string) (*Symbol, error) {
	if !e.Level.Valid() {
		return nil, ErrLevel
	}
	if strings.TrimFunc(text, isSpace) == "" {
		return nil, ErrInvalidInput
	}
	data := TextBytes(text)
	v, err := SelectVersion(len(data), e.Level)
	if err != nil {
		return nil, err
	}
	dat, err := EncodeData(data, v, e.Level)
	if err != nil {
		return nil, err
	}
	cw := Codewords(dat, v, e.Level)
	skel := NewSkeleton(v)

	// Apply masks to copies of the skeleton and choose the symbol
	// with the smallest penalty, the lowest mask on a tie.
	var (
		trials [NumMasks]*Matrix
		pens   [NumMasks]int
	)
	run := func(mask Mask) {
		trials[mask] = trial(skel, cw, v, e.Level, mask)
		pens[mask] = trials[mask].Penalty()
	}
	if e.Parallel {
		var g errgroup.Group
		for mask := Mask(0); mask < NumMasks; mask++ {
			g.Go(func() error {
				run(mask)
				return nil
			})
		}
		g.Wait()
	} else {
		for mask := Mask(0); mask < NumMasks; mask++ {
			run(mask)
		}
	}
	best := Mask(0)
	for mask := Mask(1); mask < NumMasks; mask++ {
		if pens[mask] < pens[best] {
			best = mask
		}
	}
	return &Symbol{
		Version: v,
		Level:   e.Level,
		Mask:    best,
		Penalty: pens[best],
		Matrix:  trials[best],
	}, nil
}

// Encode encodes text at level l using an Encoder.
func Encode(text string, l Level) (*Symbol, error) {
	return Encoder{Level: l}.Encode(text)
}

// trial returns a copy of skel with format and version information for
// mask and the codewords placed and masked.
func trial(skel *Matrix, codewords []byte, v Version, l Level, mask Mask) *Matrix {
	m := skel.Clone()
	m.writeFormat(FormatBits(l, mask))
	if v >= 7 {
		m.writeVersion(VersionBits(v))
	}
	m.place(codewords, mask)
	if !m.Complete() {
		panic("qr: internal error")
	}
	return m
}
