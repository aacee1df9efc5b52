package mjcipher

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

const hexDigits = "0123456789abcdef"

// EncodeHeader returns the header line for this session: hex(salt) followed
// by hex(authCheck), each nibble spelled in the header alphabet, terminated
// by a newline. EncodeHeader panics if the engine has not been initialized.
func (e *Engine) EncodeHeader() []byte {
	if !e.ready {
		panic("engine not initialized")
	}
	hx := hex.EncodeToString(e.salt) + hex.EncodeToString(e.authCheck[:])
	buf := make([]byte, 0, len(hx)*utf8.UTFMax+1)
	for i := 0; i < len(hx); i++ {
		buf = utf8.AppendRune(buf, headerAlphabet[hexVal(hx[i])])
	}
	return append(buf, '\n')
}

// DecodeHeader parses the header line at the front of an encoded stream and
// returns the salt, the auth check, and the remainder of data after the
// header's newline. It is a pure parser with no engine state; pass the
// results to Init to validate the password before decoding.
//
// The split between salt and auth check is positional: the last 8 hex
// digits are the auth check, everything before them is the salt. Older
// streams carried shorter salts, so salt length is not enforced here.
func DecodeHeader(data []byte) (salt, authCheck, rest []byte, err error) {
	nl := bytes.IndexByte(data, '\n')
	if nl < 0 {
		return nil, nil, nil, fmt.Errorf("%w: missing terminator", ErrInvalidHeader)
	}
	line, rest := data[:nl], data[nl+1:]

	hx := make([]byte, 0, 2*SaltLen+2*AuthCheckLen)
	gr := uniseg.NewGraphemes(string(line))
	for gr.Next() {
		cl := gr.Runes()
		n, ok := -1, false
		if len(cl) == 1 {
			n, ok = headerIndex[cl[0]]
		}
		if !ok {
			return nil, nil, nil, fmt.Errorf("%w: unexpected glyph %q", ErrInvalidHeader, gr.Str())
		}
		hx = append(hx, hexDigits[n])
	}
	if len(hx) < 9 {
		return nil, nil, nil, fmt.Errorf("%w: too short", ErrInvalidHeader)
	}

	saltHex, checkHex := hx[:len(hx)-2*AuthCheckLen], hx[len(hx)-2*AuthCheckLen:]
	salt, err = hex.DecodeString(string(saltHex))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: odd salt length", ErrInvalidHeader)
	}
	authCheck, err = hex.DecodeString(string(checkHex))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	return salt, authCheck, rest, nil
}

// hexVal returns the value of an ASCII hex digit. The input is always a
// digit produced by encoding/hex, so no range check is needed.
func hexVal(c byte) int {
	if c >= 'a' {
		return int(c-'a') + 10
	}
	return int(c - '0')
}
