// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package gf256 implements arithmetic over the Galois field GF(256)
generated by x⁸+x⁴+x³+x²+1 with generator α=2, and the Reed-Solomon
polynomial arithmetic used for QR error correction.

The exponent and logarithm tables are computed once at initialisation
and never modified afterwards, so all functions are safe for
concurrent use.
*/
package gf256 // import "github.com/unixdj/qrsym/gf256"

// Primitive is the field polynomial x⁸+x⁴+x³+x²+1.
const Primitive = 0x11d

var (
	exp [256]byte // exp[i] = α^i
	log [256]int  // log[α^i] = i; log[0] is unused
)

func init() {
	// α^0..α^7 are single bits.  Since α⁸ = α⁴+α³+α²+1,
	// α^i = α^(i-4) + α^(i-5) + α^(i-6) + α^(i-8).
	for i := 0; i < 8; i++ {
		exp[i] = 1 << i
	}
	for i := 8; i < 256; i++ {
		exp[i] = exp[i-4] ^ exp[i-5] ^ exp[i-6] ^ exp[i-8]
	}
	for i := 0; i < 255; i++ {
		log[exp[i]] = i
	}
}

// Exp returns α^n.  n may be any integer, it is reduced mod 255.
func Exp(n int) byte {
	if n %= 255; n < 0 {
		n += 255
	}
	return exp[n]
}

// Log returns n such that α^n = x, 0 <= n < 255.
// Log panics if x is 0.
func Log(x byte) int {
	if x == 0 {
		panic("gf256: log of zero")
	}
	return log[x]
}

// Add returns a+b, which is also a-b.
func Add(a, b byte) byte { return a ^ b }

// Mul returns a*b.
func Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return Exp(log[a] + log[b])
}

// Div returns a/b.  Div panics if b is 0.
func Div(a, b byte) byte {
	if b == 0 {
		panic("gf256: division by zero")
	}
	if a == 0 {
		return 0
	}
	return Exp(log[a] - log[b])
}

// Inv returns the multiplicative inverse of a.  Inv panics if a is 0.
func Inv(a byte) byte { return Div(1, a) }
