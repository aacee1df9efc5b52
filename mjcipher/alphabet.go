package mjcipher

import (
	"slices"
	"sync"
)

// headerAlphabet is the fixed nibble-to-glyph map used by the header and
// footer: the eight moon phases followed by clock faces one through eight.
// Every hex digit of the salt, auth check, and HMAC is spelled with one of
// these sixteen glyphs.
var headerAlphabet = [16]rune{
	0x1F311, 0x1F312, 0x1F313, 0x1F314, // 🌑 🌒 🌓 🌔
	0x1F315, 0x1F316, 0x1F317, 0x1F318, // 🌕 🌖 🌗 🌘
	0x1F550, 0x1F551, 0x1F552, 0x1F553, // 🕐 🕑 🕒 🕓
	0x1F554, 0x1F555, 0x1F556, 0x1F557, // 🕔 🕕 🕖 🕗
}

var headerIndex = func() map[rune]int {
	m := make(map[rune]int, len(headerAlphabet))
	for i, r := range headerAlphabet {
		m[r] = i
	}
	return m
}()

// rawBlocks are the Unicode code point ranges the cipher draws its glyphs
// from, as closed intervals in ascending order. Unassigned code points
// within a block are accepted; assignment status varies by Unicode version
// and must not affect the alphabet.
var rawBlocks = [...][2]rune{
	{0x1F300, 0x1F5FF}, // Miscellaneous Symbols and Pictographs
	{0x1F600, 0x1F64F}, // Emoticons
	{0x1F680, 0x1F6FF}, // Transport and Map Symbols
	{0x1F900, 0x1F9FF}, // Supplemental Symbols and Pictographs
}

// minRawAlphabet is the smallest usable raw alphabet: the keyword ring plus
// the base-1024 digit set, with slack for the excluded header glyphs.
const minRawAlphabet = 1080

// numDataGlyphs is the size of the base-1024 digit alphabet.
const numDataGlyphs = 1024

// rawAlphabet returns the ordered raw glyph alphabet: every code point of
// rawBlocks, ascending, minus the header alphabet. The result is computed
// once and shared; callers must not modify it.
var rawAlphabet = sync.OnceValues(func() ([]rune, error) {
	out := make([]rune, 0, 1280)
	for _, b := range rawBlocks {
		for c := b[0]; c <= b[1]; c++ {
			if _, isHeader := headerIndex[c]; isHeader {
				continue
			}
			out = append(out, c)
		}
	}
	if len(out) < minRawAlphabet {
		return nil, ErrAlphabetUnderflow
	}
	return out, nil
})

// A binding is the session-specific assignment of glyphs to cipher roles:
// the first len(keywords) entries of the shuffled alphabet become the
// keyword ring, the next numDataGlyphs become the base-1024 digit set.
type binding struct {
	keyRing  []rune // keyRing[i] is the base glyph for keywords[i]
	dataAlph []rune // dataAlph[d] is the glyph for digit d

	keyIndex  map[rune]int // inverse of keyRing
	dataIndex map[rune]int // inverse of dataAlph
}

// bindAlphabets shuffles a copy of the raw alphabet with the session
// keystream and partitions it into the keyword ring and data alphabet.
// This is the first consumer of the keystream; it must run before any
// payload processing on either side.
func bindAlphabets(raw []rune, rng *keystream) *binding {
	s := slices.Clone(raw)
	for i := len(s) - 1; i >= 1; i-- {
		j := int(rng.NextFloat() * float64(i+1))
		s[i], s[j] = s[j], s[i]
	}

	b := &binding{
		keyRing:   s[:len(keywords):len(keywords)],
		dataAlph:  s[len(keywords) : len(keywords)+numDataGlyphs],
		keyIndex:  make(map[rune]int, len(keywords)),
		dataIndex: make(map[rune]int, numDataGlyphs),
	}
	for i, r := range b.keyRing {
		b.keyIndex[r] = i
	}
	for d, r := range b.dataAlph {
		b.dataIndex[r] = d
	}
	return b
}
