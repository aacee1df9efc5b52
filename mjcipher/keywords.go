package mjcipher

import (
	"regexp"
	"slices"
	"strings"
	"sync"
)

// keywords is the fixed token vocabulary: the standard C keywords followed
// by a handful of tokens common enough in C sources to be worth a glyph of
// their own. Order is load-bearing — each keyword's position is its base
// index in the keyword ring — so entries must never be reordered or removed.
var keywords = []string{
	"auto", "break", "case", "char", "const", "continue", "default", "do",
	"double", "else", "enum", "extern", "float", "for", "goto", "if",
	"int", "long", "register", "return", "short", "signed", "sizeof", "static",
	"struct", "switch", "typedef", "union", "unsigned", "void", "volatile", "while",
	"include", "define", "main", "printf", "NULL",
	"#include", "#define",
}

var keywordIndex = func() map[string]int {
	m := make(map[string]int, len(keywords))
	for i, w := range keywords {
		m[w] = i
	}
	return m
}()

// keywordPattern matches any vocabulary token. Symbolic tokens (#include,
// #define) are listed first so their '#' anchors the match before the bare
// word alternatives can claim the suffix; word-like tokens are ordered
// longest first and bounded by \b so that identifiers merely containing a
// keyword are left alone.
var keywordPattern = sync.OnceValue(func() *regexp.Regexp {
	var symbolic, wordlike []string
	for _, w := range keywords {
		if isWordToken(w) {
			wordlike = append(wordlike, w)
		} else {
			symbolic = append(symbolic, regexp.QuoteMeta(w))
		}
	}
	slices.SortStableFunc(wordlike, func(a, b string) int {
		return len(b) - len(a)
	})

	alts := append(symbolic, `\b(?:`+strings.Join(wordlike, "|")+`)\b`)
	return regexp.MustCompile(strings.Join(alts, "|"))
})

// isWordToken reports whether w is an identifier-shaped token, i.e. one
// whose matches require word boundaries on both sides.
func isWordToken(w string) bool {
	for i, c := range w {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return w != ""
}
