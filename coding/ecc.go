// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "github.com/unixdj/qrsym/gf256"

// Codewords splits the data codewords into the Reed-Solomon blocks of
// version v at level l, computes error correction codewords for each
// block and returns the final codeword sequence: data codewords
// interleaved across blocks, followed by interleaved error correction
// codewords.  len(data) must be v.DataBytes(l).
func Codewords(data []byte, v Version, l Level) []byte {
	if !v.Valid() {
		panic(ErrVersion)
	}
	if !l.Valid() {
		panic(ErrLevel)
	}
	blocks := Blocks(v, l)
	if len(data) != v.DataBytes(l) {
		panic("qr: wrong data length")
	}
	// All blocks at a level share the number of check codewords.
	gen := gf256.Generator(blocks[0].Check())
	dat := make([][]byte, len(blocks))
	ecc := make([][]byte, len(blocks))
	maxData := 0
	for i, b := range blocks {
		dat[i], data = data[:b.Data], data[b.Data:]
		ecc[i] = gf256.ECCWith(dat[i], gen)
		maxData = max(maxData, b.Data)
	}
	out := make([]byte, 0, v.TotalBytes())
	out = interleave(out, dat, maxData)
	out = interleave(out, ecc, len(ecc[0]))
	if len(out) != v.TotalBytes() {
		panic("qr: internal error")
	}
	return out
}

// interleave appends byte j of every block in turn to dst, for j from
// 0 to n-1, skipping blocks shorter than j+1.
func interleave(dst []byte, blocks [][]byte, n int) []byte {
	for j := 0; j < n; j++ {
		for _, b := range blocks {
			if j < len(b) {
				dst = append(dst, b[j])
			}
		}
	}
	return dst
}
