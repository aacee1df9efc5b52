package mjcipher

import "errors"

var (
	// ErrWrongPassword is reported by Init when the derived key material does
	// not match the auth check recovered from the stream header.
	ErrWrongPassword = errors.New("wrong password")

	// ErrInvalidHeader is reported by DecodeHeader when the header line is
	// too short or contains a glyph outside the header alphabet.
	ErrInvalidHeader = errors.New("invalid header")

	// ErrInvalidGlyph is reported by DecodeStream when a payload glyph
	// belongs to neither the keyword ring nor the data alphabet.
	ErrInvalidGlyph = errors.New("glyph not in any alphabet")

	// ErrInvalidFooter is reported by DecodeStream when a footer glyph is
	// outside the header alphabet.
	ErrInvalidFooter = errors.New("invalid footer glyph")

	// ErrFileTruncated is reported by DecodeStream when the stream ends with
	// fewer glyphs than a complete footer.
	ErrFileTruncated = errors.New("file truncated")

	// ErrFileTampered is reported by DecodeStream when the footer does not
	// match the HMAC computed over the stream body.
	ErrFileTampered = errors.New("integrity seal mismatch")

	// ErrKDFFailure is reported by Init when key derivation fails.
	ErrKDFFailure = errors.New("key derivation failed")

	// ErrAlphabetUnderflow is reported when the Unicode blocks backing the
	// glyph alphabet yield fewer code points than the cipher requires.
	ErrAlphabetUnderflow = errors.New("glyph alphabet underflow")
)
