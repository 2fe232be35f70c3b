// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR coding details: version and
// capacity tables, byte mode data encoding, Reed-Solomon blocks,
// symbol construction, masking and mask selection.
package coding // import "github.com/unixdj/qrsym/coding"

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrLevel        = errors.New("qr: invalid level")
	ErrVersion      = errors.New("qr: invalid version")
	ErrInvalidInput = errors.New("qr: empty input")
	ErrDataOverflow = errors.New("qr: data overflow")
)

// OverflowError reports data that does not fit in the largest symbol
// for the requested level, or in the data codewords of a version.
type OverflowError struct {
	Length   int    // encoded length
	Capacity int    // available capacity
	Unit     string // "bytes" or "bits"
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("qr: data overflow: encoded length %d > capacity %d (%s)",
		e.Length, e.Capacity, e.Unit)
}

// Unwrap returns ErrDataOverflow.
func (e *OverflowError) Unwrap() error { return ErrDataOverflow }

// Over returns the number of units by which the data exceeds capacity.
func (e *OverflowError) Over() int { return e.Length - e.Capacity }

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

func (l Level) String() string {
	if l.Valid() {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

// Valid reports whether l is one of L, M, Q, H.
func (l Level) Valid() bool { return L <= l && l <= H }

// ParseLevel returns the Level named by s: "L", "M", "Q" or "H",
// in either case.
func ParseLevel(s string) (Level, error) {
	if len(s) == 1 {
		for i, c := range "LMQH" {
			if s[0]&^0x20 == byte(c) {
				return Level(i), nil
			}
		}
	}
	return 0, ErrLevel
}

// formatBits returns the 2 bit level indicator used in format
// information: L=01, M=00, Q=11, H=10.
func (l Level) formatBits() uint16 { return uint16(l ^ 1) }

// A Version represents a QR version.
// The version specifies the size of the QR code:
// a QR code with version v has 4v+17 modules on a side.
// Versions run from 1 to 40: the larger the version, the more
// information the code can store.
type Version int

const (
	MinVersion Version = 1  // Minimum QR version
	MaxVersion Version = 40 // Maximum QR version
)

func (v Version) String() string { return strconv.Itoa(int(v)) }

// Valid reports whether v is between MinVersion and MaxVersion.
func (v Version) Valid() bool { return MinVersion <= v && v <= MaxVersion }

// Size returns the number of modules on a side.
func (v Version) Size() int { return int(v)*4 + 17 }

// TotalBytes returns the number of data and error correction codewords,
// or 0 if v is not valid.
func (v Version) TotalBytes() int {
	if !v.Valid() {
		return 0
	}
	return vtab[v].bytes
}

// DataBytes returns the number of data codewords at level l, or 0 if
// v or l is not valid.
func (v Version) DataBytes(l Level) int {
	if !v.Valid() || !l.Valid() {
		return 0
	}
	vt := &vtab[v]
	lev := vt.level[l]
	return vt.bytes - (lev.g1+lev.g2)*lev.check
}

// CountBits returns the length of the byte mode character count field.
func (v Version) CountBits() int {
	if v <= 9 {
		return 8
	}
	return 16
}

// Capacity returns the number of bytes a byte mode segment can carry
// in a symbol of version v at level l, or 0 if v or l is not valid.
func (v Version) Capacity(l Level) int {
	if !v.Valid() || !l.Valid() {
		return 0
	}
	return capacity[l][v-1]
}

// SelectVersion returns the smallest version whose capacity at level l
// is at least n bytes.
func SelectVersion(n int, l Level) (Version, error) {
	if !l.Valid() {
		return 0, ErrLevel
	}
	c := &capacity[l]
	if top := c[len(c)-1]; n > top {
		return 0, &OverflowError{Length: n, Capacity: top, Unit: "bytes"}
	}
	lo, hi := 0, len(c)-1
	for lo < hi {
		if mid := (lo + hi) / 2; c[mid] < n {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return Version(lo + 1), nil
}

// A Block describes a Reed-Solomon block: Total codewords, of which
// Data are data codewords.
type Block struct {
	Total int
	Data  int
}

// Check returns the number of error correction codewords in b.
func (b Block) Check() int { return b.Total - b.Data }

// Blocks returns the Reed-Solomon blocks of a symbol of version v at
// level l in codeword order.  Blocks of the second group, if any,
// carry one more data codeword than those of the first.  Blocks
// returns nil if v or l is not valid.
func Blocks(v Version, l Level) []Block {
	if !v.Valid() || !l.Valid() {
		return nil
	}
	lev := vtab[v].level[l]
	n := lev.g1 + lev.g2
	data := v.DataBytes(l) / n
	b := make([]Block, n)
	for i := range b {
		d := data
		if i >= lev.g1 {
			d++
		}
		b[i] = Block{d + lev.check, d}
	}
	return b
}

// A version describes metadata associated with a version.
type version struct {
	bytes int      // total codewords
	level [4]level // per error correction level
}

// A level describes the Reed-Solomon blocks at a level: g1 blocks,
// followed by g2 blocks with one more data codeword, each with check
// error correction codewords.
type level struct {
	check int
	g1    int
	g2    int
}

// Version table, from qrencode-3.1.1/qrspec.c.
var vtab = [MaxVersion + 1]version{
	1:  {26, [4]level{{7, 1, 0}, {10, 1, 0}, {13, 1, 0}, {17, 1, 0}}},
	2:  {44, [4]level{{10, 1, 0}, {16, 1, 0}, {22, 1, 0}, {28, 1, 0}}},
	3:  {70, [4]level{{15, 1, 0}, {26, 1, 0}, {18, 2, 0}, {22, 2, 0}}},
	4:  {100, [4]level{{20, 1, 0}, {18, 2, 0}, {26, 2, 0}, {16, 4, 0}}},
	5:  {134, [4]level{{26, 1, 0}, {24, 2, 0}, {18, 2, 2}, {22, 2, 2}}},
	6:  {172, [4]level{{18, 2, 0}, {16, 4, 0}, {24, 4, 0}, {28, 4, 0}}},
	7:  {196, [4]level{{20, 2, 0}, {18, 4, 0}, {18, 2, 4}, {26, 4, 1}}},
	8:  {242, [4]level{{24, 2, 0}, {22, 2, 2}, {22, 4, 2}, {26, 4, 2}}},
	9:  {292, [4]level{{30, 2, 0}, {22, 3, 2}, {20, 4, 4}, {24, 4, 4}}},
	10: {346, [4]level{{18, 2, 2}, {26, 4, 1}, {24, 6, 2}, {28, 6, 2}}},
	11: {404, [4]level{{20, 4, 0}, {30, 1, 4}, {28, 4, 4}, {24, 3, 8}}},
	12: {466, [4]level{{24, 2, 2}, {22, 6, 2}, {26, 4, 6}, {28, 7, 4}}},
	13: {532, [4]level{{26, 4, 0}, {22, 8, 1}, {24, 8, 4}, {22, 12, 4}}},
	14: {581, [4]level{{30, 3, 1}, {24, 4, 5}, {20, 11, 5}, {24, 11, 5}}},
	15: {655, [4]level{{22, 5, 1}, {24, 5, 5}, {30, 5, 7}, {24, 11, 7}}},
	16: {733, [4]level{{24, 5, 1}, {28, 7, 3}, {24, 15, 2}, {30, 3, 13}}},
	17: {815, [4]level{{28, 1, 5}, {28, 10, 1}, {28, 1, 15}, {28, 2, 17}}},
	18: {901, [4]level{{30, 5, 1}, {26, 9, 4}, {28, 17, 1}, {28, 2, 19}}},
	19: {991, [4]level{{28, 3, 4}, {26, 3, 11}, {26, 17, 4}, {26, 9, 16}}},
	20: {1085, [4]level{{28, 3, 5}, {26, 3, 13}, {30, 15, 5}, {28, 15, 10}}},
	21: {1156, [4]level{{28, 4, 4}, {26, 17, 0}, {28, 17, 6}, {30, 19, 6}}},
	22: {1258, [4]level{{28, 2, 7}, {28, 17, 0}, {30, 7, 16}, {24, 34, 0}}},
	23: {1364, [4]level{{30, 4, 5}, {28, 4, 14}, {30, 11, 14}, {30, 16, 14}}},
	24: {1474, [4]level{{30, 6, 4}, {28, 6, 14}, {30, 11, 16}, {30, 30, 2}}},
	25: {1588, [4]level{{26, 8, 4}, {28, 8, 13}, {30, 7, 22}, {30, 22, 13}}},
	26: {1706, [4]level{{28, 10, 2}, {28, 19, 4}, {28, 28, 6}, {30, 33, 4}}},
	27: {1828, [4]level{{30, 8, 4}, {28, 22, 3}, {30, 8, 26}, {30, 12, 28}}},
	28: {1921, [4]level{{30, 3, 10}, {28, 3, 23}, {30, 4, 31}, {30, 11, 31}}},
	29: {2051, [4]level{{30, 7, 7}, {28, 21, 7}, {30, 1, 37}, {30, 19, 26}}},
	30: {2185, [4]level{{30, 5, 10}, {28, 19, 10}, {30, 15, 25}, {30, 23, 25}}},
	31: {2323, [4]level{{30, 13, 3}, {28, 2, 29}, {30, 42, 1}, {30, 23, 28}}},
	32: {2465, [4]level{{30, 17, 0}, {28, 10, 23}, {30, 10, 35}, {30, 19, 35}}},
	33: {2611, [4]level{{30, 17, 1}, {28, 14, 21}, {30, 29, 19}, {30, 11, 46}}},
	34: {2761, [4]level{{30, 13, 6}, {28, 14, 23}, {30, 44, 7}, {30, 59, 1}}},
	35: {2876, [4]level{{30, 12, 7}, {28, 12, 26}, {30, 39, 14}, {30, 22, 41}}},
	36: {3034, [4]level{{30, 6, 14}, {28, 6, 34}, {30, 46, 10}, {30, 2, 64}}},
	37: {3196, [4]level{{30, 17, 4}, {28, 29, 14}, {30, 49, 10}, {30, 24, 46}}},
	38: {3362, [4]level{{30, 4, 18}, {28, 13, 32}, {30, 48, 14}, {30, 42, 32}}},
	39: {3532, [4]level{{30, 20, 4}, {28, 40, 7}, {30, 43, 22}, {30, 10, 67}}},
	40: {3706, [4]level{{30, 19, 6}, {28, 18, 31}, {30, 34, 34}, {30, 20, 61}}},
}

// Byte mode capacity in bytes, strictly increasing by version.
var capacity = [4][MaxVersion]int{
	L: {
		17, 32, 53, 78, 106, 134, 154, 192, 230, 271,
		321, 367, 425, 458, 520, 586, 644, 718, 792, 858,
		929, 1003, 1091, 1171, 1273, 1367, 1465, 1528, 1628, 1732,
		1840, 1952, 2068, 2188, 2303, 2431, 2563, 2699, 2809, 2953,
	},
	M: {
		14, 26, 42, 62, 84, 106, 122, 152, 180, 213,
		251, 287, 331, 362, 412, 450, 504, 560, 624, 666,
		711, 779, 857, 911, 997, 1059, 1125, 1190, 1264, 1370,
		1452, 1538, 1628, 1722, 1809, 1911, 1989, 2099, 2213, 2331,
	},
	Q: {
		11, 20, 32, 46, 60, 74, 86, 108, 130, 151,
		177, 203, 241, 258, 292, 322, 364, 394, 442, 482,
		509, 565, 611, 661, 715, 751, 805, 868, 908, 982,
		1030, 1112, 1168, 1228, 1283, 1351, 1423, 1499, 1579, 1663,
	},
	H: {
		7, 14, 24, 34, 44, 58, 64, 84, 98, 119,
		137, 155, 177, 194, 220, 250, 280, 310, 338, 382,
		403, 439, 461, 511, 535, 593, 625, 658, 698, 742,
		790, 842, 898, 958, 983, 1051, 1093, 1139, 1219, 1273,
	},
}

// Alignment pattern centre coordinates, used both as rows and columns.
var alignPos = [MaxVersion + 1][]int{
	2:  {6, 18},
	3:  {6, 22},
	4:  {6, 26},
	5:  {6, 30},
	6:  {6, 34},
	7:  {6, 22, 38},
	8:  {6, 24, 42},
	9:  {6, 26, 46},
	10: {6, 28, 50},
	11: {6, 30, 54},
	12: {6, 32, 58},
	13: {6, 34, 62},
	14: {6, 26, 46, 66},
	15: {6, 26, 48, 70},
	16: {6, 26, 50, 74},
	17: {6, 30, 54, 78},
	18: {6, 30, 56, 82},
	19: {6, 30, 58, 86},
	20: {6, 34, 62, 90},
	21: {6, 28, 50, 72, 94},
	22: {6, 26, 50, 74, 98},
	23: {6, 30, 54, 78, 102},
	24: {6, 28, 54, 80, 106},
	25: {6, 32, 58, 84, 110},
	26: {6, 30, 58, 86, 114},
	27: {6, 34, 62, 90, 118},
	28: {6, 26, 50, 74, 98, 122},
	29: {6, 30, 54, 78, 102, 126},
	30: {6, 26, 52, 78, 104, 130},
	31: {6, 30, 56, 82, 108, 134},
	32: {6, 34, 60, 86, 112, 138},
	33: {6, 30, 58, 86, 114, 142},
	34: {6, 34, 62, 90, 118, 146},
	35: {6, 30, 54, 78, 102, 126, 150},
	36: {6, 24, 50, 76, 102, 128, 154},
	37: {6, 28, 54, 80, 106, 132, 158},
	38: {6, 32, 58, 84, 110, 136, 162},
	39: {6, 26, 54, 82, 110, 138, 166},
	40: {6, 30, 58, 86, 114, 142, 170},
}
