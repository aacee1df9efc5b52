package mjcipher

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"unicode/utf8"
)

const (
	blockSize    = 5   // plaintext bytes per base-1024 block
	blockDigits  = 4   // glyphs per base-1024 block
	wrapWidth    = 300 // payload bytes between incidental newlines
	footerGlyphs = 64  // header-alphabet glyphs in the integrity footer
)

// EncodeStream consumes the plaintext from r and writes the encoded body
// and footer to w. The header line is not included; write the result of
// EncodeHeader first. EncodeStream is the engine's single pass and may be
// called once.
func (e *Engine) EncodeStream(r io.Reader, w io.Writer) error {
	if err := e.start(); err != nil {
		return err
	}

	// Keyword recognition is whole-input: a keyword split across reads
	// would otherwise be missed on one side and desynchronize the
	// keystream between encoder and decoder.
	src, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	enc := &encoder{eng: e, w: bufio.NewWriter(w)}
	pos := 0
	for _, m := range keywordPattern().FindAllIndex(src, -1) {
		enc.data(src[pos:m[0]])
		enc.keyword(string(src[m[0]:m[1]]))
		pos = m[1]
	}
	enc.data(src[pos:])
	enc.flushPending()
	enc.footer()
	return enc.w.Flush()
}

// An encoder drives one encode pass: it buffers the current data run,
// spells complete blocks and keyword glyphs, and tracks line width.
type encoder struct {
	eng       *Engine
	w         *bufio.Writer
	pending   []byte // data bytes not yet forming a complete block
	lineWidth int    // payload bytes emitted since the last newline
}

// emit writes payload bytes, feeds them to the HMAC, and inserts an
// incidental newline once the current line exceeds the wrap width. The
// newline is cosmetic: it is not authenticated, and the decoder discards
// all whitespace.
func (c *encoder) emit(p []byte) {
	c.w.Write(p)
	c.eng.mac.Write(p)
	c.lineWidth += len(p)
	if c.lineWidth > wrapWidth {
		c.w.WriteByte('\n')
		c.lineWidth = 0
	}
}

// keyword flushes any pending data run and emits one keyword glyph, chosen
// from the ring at a fresh keystream offset so that repeated keywords
// encode differently.
func (c *encoder) keyword(w string) {
	c.flushPending()
	base := keywordIndex[w]
	shift := int(c.eng.rng.NextUint64() % uint64(len(keywords)))
	g := c.eng.bind.keyRing[(base+shift)%len(keywords)]
	c.emit(utf8.AppendRune(nil, g))
}

// data appends a data run and emits every complete block it closes.
func (c *encoder) data(p []byte) {
	c.pending = append(c.pending, p...)
	for len(c.pending) >= blockSize {
		c.block(c.pending[:blockSize])
		c.pending = c.pending[blockSize:]
	}
}

// flushPending emits the trailing short block, if any, zero-padded to full
// size. The decoder strips the padding by the trailing-zero rule.
func (c *encoder) flushPending() {
	if len(c.pending) == 0 {
		return
	}
	var blk [blockSize]byte
	copy(blk[:], c.pending)
	c.block(blk[:])
	c.pending = c.pending[:0]
}

// block whitens one 5-byte block with the next keystream mask and emits it
// as four base-1024 digits, least significant first.
func (c *encoder) block(b []byte) {
	var mask [blockSize]byte
	c.eng.rng.NextBytes(mask[:])

	var v uint64 // little-endian 40-bit value of the whitened block
	for i := blockSize - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i]^mask[i])
	}

	out := make([]byte, 0, blockDigits*utf8.UTFMax)
	for i := 0; i < blockDigits; i++ {
		out = utf8.AppendRune(out, c.eng.bind.dataAlph[v%numDataGlyphs])
		v /= numDataGlyphs
	}
	c.emit(out)
}

// footer finalizes the HMAC and appends the integrity seal: a mandatory
// newline, then 64 header-alphabet glyphs spelling the hex digest. Footer
// glyphs are not themselves authenticated.
func (c *encoder) footer() {
	c.w.WriteByte('\n')
	hx := hex.EncodeToString(c.eng.mac.Sum(nil))
	out := make([]byte, 0, len(hx)*utf8.UTFMax)
	for i := 0; i < len(hx); i++ {
		out = utf8.AppendRune(out, headerAlphabet[hexVal(hx[i])])
	}
	c.w.Write(out)
}
