package mjcipher

import (
	"slices"
	"testing"
)

func TestRawAlphabet(t *testing.T) {
	raw, err := rawAlphabet()
	if err != nil {
		t.Fatalf("rawAlphabet: unexpected error: %v", err)
	}
	if len(raw) < minRawAlphabet {
		t.Fatalf("alphabet has %d glyphs, want at least %d", len(raw), minRawAlphabet)
	}
	if !slices.IsSorted(raw) {
		t.Error("alphabet is not in ascending code point order")
	}
	seen := make(map[rune]bool, len(raw))
	for _, r := range raw {
		if seen[r] {
			t.Errorf("duplicate code point %U", r)
		}
		seen[r] = true
		if _, bad := headerIndex[r]; bad {
			t.Errorf("header glyph %U leaked into the raw alphabet", r)
		}
	}
	if want := len(keywords) + numDataGlyphs; len(raw) < want {
		t.Errorf("alphabet has %d glyphs, want at least %d for binding", len(raw), want)
	}
}

func TestHeaderAlphabet(t *testing.T) {
	if len(headerIndex) != 16 {
		t.Fatalf("header alphabet has %d distinct glyphs, want 16", len(headerIndex))
	}
	for i, r := range headerAlphabet {
		if got := headerIndex[r]; got != i {
			t.Errorf("headerIndex[%U]: got %d, want %d", r, got, i)
		}
	}
}

func TestBindAlphabets(t *testing.T) {
	eng := New("squeamish ossifrage")
	if err := eng.Init(make([]byte, SaltLen), nil); err != nil {
		t.Fatalf("Init: unexpected error: %v", err)
	}
	b := eng.bind

	if len(b.keyRing) != len(keywords) {
		t.Errorf("keyword ring has %d glyphs, want %d", len(b.keyRing), len(keywords))
	}
	if len(b.dataAlph) != numDataGlyphs {
		t.Errorf("data alphabet has %d glyphs, want %d", len(b.dataAlph), numDataGlyphs)
	}
	for i, g := range b.keyRing {
		if got := b.keyIndex[g]; got != i {
			t.Errorf("keyIndex[%U]: got %d, want %d", g, got, i)
		}
		if _, overlap := b.dataIndex[g]; overlap {
			t.Errorf("glyph %U is in both alphabets", g)
		}
	}
	for d, g := range b.dataAlph {
		if got := b.dataIndex[g]; got != d {
			t.Errorf("dataIndex[%U]: got %d, want %d", g, got, d)
		}
	}
	if len(b.keyIndex)+len(b.dataIndex) != len(keywords)+numDataGlyphs {
		t.Error("bound alphabets contain duplicate glyphs")
	}
}

func TestShuffleDeterminism(t *testing.T) {
	init := func() *Engine {
		eng := New("squeamish ossifrage")
		if err := eng.Init(make([]byte, SaltLen), nil); err != nil {
			t.Fatalf("Init: unexpected error: %v", err)
		}
		return eng
	}
	a, b := init(), init()
	if !slices.Equal(a.bind.keyRing, b.bind.keyRing) || !slices.Equal(a.bind.dataAlph, b.bind.dataAlph) {
		t.Error("same password and salt produced different bindings")
	}

	c := New("a different password")
	if err := c.Init(make([]byte, SaltLen), nil); err != nil {
		t.Fatalf("Init: unexpected error: %v", err)
	}
	if slices.Equal(a.bind.keyRing, c.bind.keyRing) {
		t.Error("different passwords produced the same keyword ring")
	}
}
