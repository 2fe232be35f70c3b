// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var encodeTests = []struct {
	text    string
	level   Level
	version Version
}{
	{"HELLO", M, 1},
	{"https://example.com/a/rather/long/path?with=query&and=more", Q, 5},
	{"01234567890123456", L, 1},
	{"012345678901234567", L, 2},
	{"Hello, 世界", H, 2},
	{strings.Repeat("x", 450), M, 16},
	{strings.Repeat("x", 451), M, 17},
	{strings.Repeat("x", 500), M, 17},
	{strings.Repeat("y", 2331), M, 40},
}

func TestEncode(t *testing.T) {
	for _, tt := range encodeTests {
		s, err := Encode(tt.text, tt.level)
		if err != nil {
			t.Errorf("Encode(%.20q, %v): %v", tt.text, tt.level, err)
			continue
		}
		if s.Version != tt.version || s.Level != tt.level {
			t.Errorf("Encode(%.20q, %v) = %v-%v, want %v-%v", tt.text,
				tt.level, s.Version, s.Level, tt.version, tt.level)
		}
		if s.Size() != tt.version.Size() {
			t.Errorf("Encode(%.20q, %v): size %d", tt.text, tt.level, s.Size())
		}
		if !s.Complete() {
			t.Errorf("Encode(%.20q, %v): unset modules", tt.text, tt.level)
		}
	}
}

// TestMaskSelection checks that the chosen mask has the smallest
// penalty of all eight, and the lowest number among equals.
func TestMaskSelection(t *testing.T) {
	for _, tt := range encodeTests {
		s, err := Encode(tt.text, tt.level)
		if err != nil {
			t.Fatal(err)
		}
		data, err := EncodeData(TextBytes(tt.text), s.Version, s.Level)
		if err != nil {
			t.Fatal(err)
		}
		cw := Codewords(data, s.Version, s.Level)
		skel := NewSkeleton(s.Version)
		for mask := Mask(0); mask < NumMasks; mask++ {
			m := trial(skel, cw, s.Version, s.Level, mask)
			p := m.Penalty()
			if p < s.Penalty || p == s.Penalty && mask < s.Mask {
				t.Errorf("%.20q: mask %v penalty %d beats chosen %v penalty %d",
					tt.text, mask, p, s.Mask, s.Penalty)
			}
			if mask == s.Mask {
				if p != s.Penalty || !cmp.Equal(m.cells, s.cells) {
					t.Errorf("%.20q: chosen mask %v does not match its trial",
						tt.text, mask)
				}
			}
		}
	}
}

func TestEncodeParallel(t *testing.T) {
	for _, tt := range encodeTests {
		a, err := Encoder{Level: tt.level}.Encode(tt.text)
		if err != nil {
			t.Fatal(err)
		}
		b, err := Encoder{Level: tt.level, Parallel: true}.Encode(tt.text)
		if err != nil {
			t.Fatal(err)
		}
		if a.Mask != b.Mask || a.Penalty != b.Penalty ||
			!cmp.Equal(a.cells, b.cells) {
			t.Errorf("%.20q: parallel encoding differs", tt.text)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	a, _ := Encode("determinism", Q)
	b, _ := Encode("determinism", Q)
	if diff := cmp.Diff(a.cells, b.cells); diff != "" {
		t.Errorf("two encodings differ:\n%s", diff)
	}
}

func TestEncodeErrors(t *testing.T) {
	for _, text := range []string{"", " ", "\t\n  ", "\uFEFF", "\u00a0\u2028\u3000", "\v\f\r"} {
		if _, err := Encode(text, M); err != ErrInvalidInput {
			t.Errorf("Encode(%q) error = %v, want ErrInvalidInput", text, err)
		}
	}
	for _, text := range []string{"\u0085", "\u200b", " x "} {
		if _, err := Encode(text, M); err != nil {
			t.Errorf("Encode(%q): %v", text, err)
		}
	}
	_, err := Encode(strings.Repeat("A", 3000), L)
	var oe *OverflowError
	if !errors.As(err, &oe) || oe.Over() != 47 {
		t.Errorf("Encode(3000×A, L) error = %v, want overflow by 47", err)
	}
	if _, err := Encode("x", Level(7)); err != ErrLevel {
		t.Errorf("Encode(x, 7) error = %v, want ErrLevel", err)
	}
}
