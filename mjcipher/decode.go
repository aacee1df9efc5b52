package mjcipher

import (
	"bufio"
	"crypto/hmac"
	"encoding/hex"
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// DecodeStream consumes the encoded body and footer from r and writes the
// recovered plaintext to w. The input must start immediately after the
// header's newline; parse the header with DecodeHeader and validate the
// password by passing its results to Init first. DecodeStream is the
// engine's single pass and may be called once.
//
// Decoding is strict: a payload glyph in neither alphabet is reported as
// ErrInvalidGlyph rather than skipped, so corruption surfaces even before
// the seal check.
func (e *Engine) DecodeStream(r io.Reader, w io.Writer) error {
	if err := e.start(); err != nil {
		return err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	d := &decoder{eng: e, w: bufio.NewWriter(w)}

	// Segment into grapheme clusters, then split every non-whitespace
	// cluster back into code points. The split matters: skin-tone
	// modifiers are ordinary alphabet members, and the segmenter glues
	// them to whatever glyph happens to precede them.
	gr := uniseg.NewGraphemes(string(body))
	for gr.Next() {
		cl := gr.Runes()
		if isSpaceCluster(cl) {
			continue
		}
		for _, atom := range cl {
			if err := d.push(atom); err != nil {
				return err
			}
		}
	}
	if err := d.finish(); err != nil {
		return err
	}
	return d.w.Flush()
}

func isSpaceCluster(cl []rune) bool {
	for _, r := range cl {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// A decoder drives one decode pass. The last footerGlyphs atoms seen are
// always held back in a ring buffer: until the stream ends they might be
// the footer, so an atom is only processed once a later atom displaces it.
type decoder struct {
	eng *Engine
	w   *bufio.Writer

	window      [footerGlyphs]rune // trailing atoms reserved as footer
	count, head int

	digits  [blockDigits]int // pending base-1024 digits
	ndigits int
}

// push admits one atom, processing whichever atom it displaces from the
// footer window.
func (d *decoder) push(atom rune) error {
	if d.count < footerGlyphs {
		d.window[d.count] = atom
		d.count++
		return nil
	}
	oldest := d.window[d.head]
	d.window[d.head] = atom
	d.head = (d.head + 1) % footerGlyphs
	return d.process(oldest)
}

// process classifies one released atom and advances the cipher state. The
// atom's UTF-8 bytes are authenticated in release order, which mirrors the
// encoder's emission order exactly.
func (d *decoder) process(g rune) error {
	var u [utf8.UTFMax]byte
	d.eng.mac.Write(u[:utf8.EncodeRune(u[:], g)])

	if ki, ok := d.eng.bind.keyIndex[g]; ok {
		shift := int(d.eng.rng.NextUint64() % uint64(len(keywords)))
		base := (ki - shift) % len(keywords)
		if base < 0 {
			base += len(keywords)
		}
		io.WriteString(d.w, keywords[base])

		// The encoder pads every run to a full block before a keyword, so
		// digits still pending here are stray and are dropped.
		d.ndigits = 0
		return nil
	}
	if dv, ok := d.eng.bind.dataIndex[g]; ok {
		d.digits[d.ndigits] = dv
		d.ndigits++
		if d.ndigits == blockDigits {
			d.ndigits = 0
			d.block()
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidGlyph, g)
}

// block reassembles four digits into a whitened 5-byte block, removes the
// keystream mask, and emits the plaintext with trailing zero padding
// stripped.
func (d *decoder) block() {
	var v uint64
	for k := blockDigits - 1; k >= 0; k-- {
		v = v*numDataGlyphs + uint64(d.digits[k])
	}

	var mask [blockSize]byte
	d.eng.rng.NextBytes(mask[:])

	var out [blockSize]byte
	for i := range out {
		out[i] = byte(v) ^ mask[i]
		v >>= 8
	}
	n := blockSize
	for n > 0 && out[n-1] == 0 {
		n--
	}
	d.w.Write(out[:n])
}

// finish verifies the integrity seal held in the footer window.
func (d *decoder) finish() error {
	if d.count < footerGlyphs {
		return ErrFileTruncated
	}
	got := make([]byte, 0, footerGlyphs)
	for i := 0; i < footerGlyphs; i++ {
		g := d.window[(d.head+i)%footerGlyphs]
		n, ok := headerIndex[g]
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidFooter, g)
		}
		got = append(got, hexDigits[n])
	}
	want := hex.EncodeToString(d.eng.mac.Sum(nil))
	if !hmac.Equal(got, []byte(want)) {
		return ErrFileTampered
	}
	return nil
}
