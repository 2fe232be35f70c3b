// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gf256

// A Polynomial is a polynomial over GF(256) stored as a slice of
// coefficients, highest degree first.  A Polynomial returned by this
// package has no leading zero coefficients, except the zero polynomial,
// which has none at all.
type Polynomial []byte

// NewPolynomial returns the polynomial with coefficients coef, highest
// degree first, multiplied by x^shift.  Leading zero coefficients are
// trimmed.  coef is not retained.
func NewPolynomial(coef []byte, shift int) Polynomial {
	for len(coef) > 0 && coef[0] == 0 {
		coef = coef[1:]
	}
	if len(coef) == 0 {
		return nil
	}
	p := make(Polynomial, len(coef)+shift)
	copy(p, coef)
	return p
}

// Degree returns the degree of p, or -1 for the zero polynomial.
func (p Polynomial) Degree() int { return len(p) - 1 }

// Coef returns the coefficient of x^i.
func (p Polynomial) Coef(i int) byte {
	if i < 0 || i >= len(p) {
		return 0
	}
	return p[len(p)-1-i]
}

// Multiply returns p*q.
func (p Polynomial) Multiply(q Polynomial) Polynomial {
	if len(p) == 0 || len(q) == 0 {
		return nil
	}
	r := make([]byte, len(p)+len(q)-1)
	for i, a := range p {
		if a == 0 {
			continue
		}
		la := log[a]
		for j, b := range q {
			if b != 0 {
				r[i+j] ^= Exp(la + log[b])
			}
		}
	}
	return NewPolynomial(r, 0)
}

// Mod returns the remainder of p divided by e.  Mod panics if e is the
// zero polynomial.
func (p Polynomial) Mod(e Polynomial) Polynomial {
	if len(e) == 0 {
		panic("gf256: division by zero polynomial")
	}
	if len(p) < len(e) {
		return p
	}
	r := make([]byte, len(p))
	copy(r, p)
	le := log[e[0]]
	// Cancel the leading term of r against e, one degree at a time.
	for i := 0; i+len(e) <= len(r); i++ {
		if r[i] == 0 {
			continue
		}
		ratio := log[r[i]] - le
		for j, c := range e {
			if c != 0 {
				r[i+j] ^= Exp(log[c] + ratio)
			}
		}
	}
	return NewPolynomial(r[len(r)-len(e)+1:], 0)
}

// Generator returns the Reed-Solomon generator polynomial of the given
// degree, (x-α⁰)(x-α¹)…(x-α^(degree-1)).
func Generator(degree int) Polynomial {
	g := Polynomial{1}
	for i := 0; i < degree; i++ {
		g = g.Multiply(Polynomial{1, Exp(i)})
	}
	return g
}

// ECC returns the n error correction codewords for data: the remainder
// of data·xⁿ divided by Generator(n), as exactly n bytes.
func ECC(data []byte, n int) []byte {
	return ECCWith(data, Generator(n))
}

// ECCWith is like ECC but uses a precomputed generator polynomial,
// whose degree determines the number of codewords.
func ECCWith(data []byte, gen Polynomial) []byte {
	n := gen.Degree()
	if n < 0 {
		panic("gf256: zero generator polynomial")
	}
	rem := NewPolynomial(data, n).Mod(gen)
	ecc := make([]byte, n)
	copy(ecc[n-len(rem):], rem)
	return ecc
}
