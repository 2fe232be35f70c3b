// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Penalty points.
const (
	minRun    = 5  // runs:    minimum run length
	runPP     = 3  //          points for a run of minRun
	boxPP     = 3  // boxes:   points per 2×2 box
	finderPP  = 40 // finders: points per pattern
	balancePP = 10 // balance: points per 5% away from 50%
)

// finderLike is the 1:1:3:1:1 dark-light ratio pattern, dark first.
var finderLike = [7]bool{true, false, true, true, true, false, true}

// Penalty returns the mask evaluation score of m; lower is better.
// The score is the sum of penalties for runs of five or more
// same-colour modules in a row or column, 2×2 blocks of one colour,
// finder-like patterns in rows and columns, and deviation of the
// proportion of dark modules from one half.
func (m *Matrix) Penalty() int {
	return m.penaltyRuns() + m.penaltyBoxes() + m.penaltyFinders() +
		m.penaltyBalance()
}

// lines calls f for every row and then every column of m, passing an
// accessor for the i'th module of the line.
func (m *Matrix) lines(f func(at func(i int) bool)) {
	for r := 0; r < m.size; r++ {
		f(func(i int) bool { return m.At(r, i) == Dark })
	}
	for c := 0; c < m.size; c++ {
		f(func(i int) bool { return m.At(i, c) == Dark })
	}
}

func (m *Matrix) penaltyRuns() int {
	p := 0
	m.lines(func(at func(int) bool) {
		run, prev := 0, false
		for i := 0; i < m.size; i++ {
			if d := at(i); i == 0 || d != prev {
				if run >= minRun {
					p += runPP + run - minRun
				}
				run, prev = 1, d
			} else {
				run++
			}
		}
		if run >= minRun {
			p += runPP + run - minRun
		}
	})
	return p
}

func (m *Matrix) penaltyBoxes() int {
	p := 0
	for r := 0; r+1 < m.size; r++ {
		for c := 0; c+1 < m.size; c++ {
			x := m.At(r, c)
			if m.At(r, c+1) == x && m.At(r+1, c) == x && m.At(r+1, c+1) == x {
				p += boxPP
			}
		}
	}
	return p
}

func (m *Matrix) penaltyFinders() int {
	p := 0
	m.lines(func(at func(int) bool) {
	Scan:
		for i := 0; i+len(finderLike) <= m.size; i++ {
			for k, d := range finderLike {
				if at(i+k) != d {
					continue Scan
				}
			}
			p += finderPP
		}
	})
	return p
}

// penaltyBalance returns 10 points for every full 5% by which the
// proportion of dark modules deviates from 50%, in integer arithmetic.
// The quotient is truncated: 5 dark of 9 scores 11, not 11.1.  Mask
// selection compares these truncated sums.
func (m *Matrix) penaltyBalance() int {
	total := m.size * m.size
	if total == 0 {
		return 0
	}
	dev := 100*m.Dark() - 50*total
	if dev < 0 {
		dev = -dev
	}
	return balancePP * dev / (5 * total)
}
