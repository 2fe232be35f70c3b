// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// A Cell is the state of a module during symbol construction.
type Cell byte

const (
	Unset Cell = iota // free for data
	Light
	Dark
)

func (c Cell) String() string {
	switch c {
	case Unset:
		return "unset"
	case Light:
		return "light"
	case Dark:
		return "dark"
	}
	return "invalid"
}

func cell(dark bool) Cell {
	if dark {
		return Dark
	}
	return Light
}

// A Matrix is a square grid of modules, stored row by row.
type Matrix struct {
	size  int
	cells []Cell
}

// NewMatrix returns a size×size Matrix with all cells Unset.
func NewMatrix(size int) *Matrix {
	return &Matrix{size: size, cells: make([]Cell, size*size)}
}

// Size returns the number of modules on a side.
func (m *Matrix) Size() int { return m.size }

// At returns the cell at row, col.
func (m *Matrix) At(row, col int) Cell { return m.cells[row*m.size+col] }

// Set sets the cell at row, col.
func (m *Matrix) Set(row, col int, c Cell) { m.cells[row*m.size+col] = c }

// IsDark reports whether the module at row, col is dark.
func (m *Matrix) IsDark(row, col int) bool {
	return 0 <= row && row < m.size && 0 <= col && col < m.size &&
		m.At(row, col) == Dark
}

// Clone returns a copy of m.
func (m *Matrix) Clone() *Matrix {
	c := &Matrix{size: m.size, cells: make([]Cell, len(m.cells))}
	copy(c.cells, m.cells)
	return c
}

// Complete reports whether no cell of m is Unset.
func (m *Matrix) Complete() bool {
	for _, c := range m.cells {
		if c == Unset {
			return false
		}
	}
	return true
}

// Dark returns the number of dark modules.
func (m *Matrix) Dark() int {
	n := 0
	for _, c := range m.cells {
		if c == Dark {
			n++
		}
	}
	return n
}

// NewSkeleton returns the function patterns of a symbol of version v:
// finder patterns with separators, timing patterns, alignment patterns
// and the dark module.  Format and, from version 7, version information
// areas are reserved as Light, to be overwritten per mask.  All other
// cells are Unset.
func NewSkeleton(v Version) *Matrix {
	if !v.Valid() {
		panic(ErrVersion)
	}
	siz := v.Size()
	m := NewMatrix(siz)
	m.finder(0, 0)
	m.finder(siz-7, 0)
	m.finder(0, siz-7)
	m.timing()
	m.alignment(alignPos[v])
	m.reserveFormat()
	if v >= 7 {
		m.reserveVersion()
	}
	return m
}

// finder draws a 7×7 finder pattern with its upper left corner at
// row, col, surrounded by a light separator where it fits.
func (m *Matrix) finder(row, col int) {
	for r := -1; r <= 7; r++ {
		if row+r < 0 || row+r >= m.size {
			continue
		}
		for c := -1; c <= 7; c++ {
			if col+c < 0 || col+c >= m.size {
				continue
			}
			dark := 0 <= r && r <= 6 && (c == 0 || c == 6) ||
				0 <= c && c <= 6 && (r == 0 || r == 6) ||
				2 <= r && r <= 4 && 2 <= c && c <= 4
			m.Set(row+r, col+c, cell(dark))
		}
	}
}

// timing draws the timing patterns along row 6 and column 6.
func (m *Matrix) timing() {
	for i := 8; i < m.size-8; i++ {
		if m.At(6, i) == Unset {
			m.Set(6, i, cell(i%2 == 0))
		}
		if m.At(i, 6) == Unset {
			m.Set(i, 6, cell(i%2 == 0))
		}
	}
}

// alignment draws 5×5 alignment patterns centred on every pair of
// coordinates in pos, except where they would overlap a finder
// pattern.  Patterns on row or column 6 agree with the timing pattern.
func (m *Matrix) alignment(pos []int) {
	lim := m.size - 8
	for _, row := range pos {
		for _, col := range pos {
			if row-2 < 8 && (col-2 < 8 || col+2 >= lim) ||
				row+2 >= lim && col-2 < 8 {
				continue
			}
			for r := -2; r <= 2; r++ {
				for c := -2; c <= 2; c++ {
					dark := r == -2 || r == 2 || c == -2 || c == 2 ||
						r == 0 && c == 0
					m.Set(row+r, col+c, cell(dark))
				}
			}
		}
	}
}

// reserveFormat reserves the format information areas next to the
// finder patterns and sets the dark module.
func (m *Matrix) reserveFormat() {
	reserve := func(row, col int) {
		if m.At(row, col) == Unset {
			m.Set(row, col, Light)
		}
	}
	for i := 0; i <= 8; i++ {
		reserve(8, i)
		reserve(i, 8)
	}
	for i := m.size - 8; i < m.size; i++ {
		reserve(8, i)
		reserve(i, 8)
	}
	m.Set(m.size-8, 8, Dark)
}

// reserveVersion reserves the two 6×3 version information areas.
func (m *Matrix) reserveVersion() {
	for i := 0; i < 18; i++ {
		m.Set(i/3, m.size-11+i%3, Light)
		m.Set(m.size-11+i%3, i/3, Light)
	}
}
