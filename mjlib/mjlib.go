// Package mjlib is a support library for the mojic command-line tool. It
// wraps the mjcipher engine in whole-file pipelines: path derivation,
// atomic output, password rotation, and passphrase prompting.
package mjlib

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/creachadair/atomicfile"
	"github.com/creachadair/getpass"
	"github.com/creachadair/mojic/mjcipher"
	"github.com/creachadair/mojic/wordhash"
)

// MinPasswordLen is the minimum acceptable passphrase length.
const MinPasswordLen = 6

// EncodedExt is the filename extension for encoded files.
const EncodedExt = ".mojic"

// CheckPassword reports an error if pw is too short to be used.
func CheckPassword(pw string) error {
	if len(pw) < MinPasswordLen {
		return fmt.Errorf("passphrase must be at least %d characters", MinPasswordLen)
	}
	return nil
}

// Encode encodes src under password with a fresh random salt and returns
// the complete encoded stream, header through footer.
func Encode(src []byte, password string) ([]byte, error) {
	eng := mjcipher.New(password)
	if err := eng.Init(nil, nil); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Write(eng.EncodeHeader())
	if err := eng.EncodeStream(bytes.NewReader(src), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode decodes a complete encoded stream under password and returns the
// plaintext. The password is validated against the header's auth check
// before any of the body is processed.
func Decode(data []byte, password string) ([]byte, error) {
	salt, check, body, err := mjcipher.DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	eng := mjcipher.New(password)
	if err := eng.Init(salt, check); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := eng.DecodeStream(bytes.NewReader(body), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileOptions are optional settings for whole-file encoding and decoding.
type FileOptions struct {
	Minify bool   // flatten whitespace before encoding
	OutDir string // write output here instead of beside the input
}

// EncodeFile encodes the file at path under password and writes the result
// to the derived output path, atomically. It returns the output path.
func (o FileOptions) EncodeFile(path, password string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	if o.Minify {
		src = Minify(src)
	}
	enc, err := Encode(src, password)
	if err != nil {
		return "", err
	}
	out := o.place(EncodePath(path))
	return out, writeAtomic(out, enc)
}

// DecodeFile decodes the file at path under password and writes the
// plaintext to the derived output path, atomically. It returns the output
// path.
func (o FileOptions) DecodeFile(path, password string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	dec, err := Decode(data, password)
	if err != nil {
		return "", err
	}
	out := o.place(DecodePath(path))
	return out, writeAtomic(out, dec)
}

func (o FileOptions) place(path string) string {
	if o.OutDir == "" {
		return path
	}
	return filepath.Join(o.OutDir, filepath.Base(path))
}

// Rotate re-encrypts the encoded file at path in place, replacing oldPW
// with newPW and the salt with a fresh one. The file is replaced only after
// the new encoding is complete, so a failure leaves the original intact.
func Rotate(path, oldPW, newPW string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	plain, err := Decode(data, oldPW)
	if err != nil {
		return err
	}
	enc, err := Encode(plain, newPW)
	if err != nil {
		return err
	}
	return writeAtomic(path, enc)
}

// Reseed re-encrypts the encoded file at path in place under the same
// password with a fresh salt, changing every byte of the encoding without
// changing its plaintext.
func Reseed(path, password string) error { return Rotate(path, password, password) }

// Fingerprint returns a human-readable digest of an encoded stream's auth
// check. Two files sealed with the same password and salt share a
// fingerprint; it is a recognition aid, not a cryptographic commitment.
func Fingerprint(encoded []byte) (string, error) {
	_, check, _, err := mjcipher.DecodeHeader(encoded)
	if err != nil {
		return "", err
	}
	return wordhash.String(check), nil
}

// EncodePath derives the encoded output path for a source file:
// name.c becomes name.mojic, and any other name gains the .mojic extension.
func EncodePath(path string) string {
	if ext := filepath.Ext(path); ext == ".c" {
		return strings.TrimSuffix(path, ext) + EncodedExt
	}
	return path + EncodedExt
}

// DecodePath derives the restored output path for an encoded file:
// name.mojic becomes name.restored.c, and an inner extension survives, so
// name.h.mojic becomes name.restored.h.
func DecodePath(path string) string {
	base := strings.TrimSuffix(path, EncodedExt)
	ext := filepath.Ext(base)
	if ext == "" || base == path {
		return base + ".restored.c"
	}
	return strings.TrimSuffix(base, ext) + ".restored" + ext
}

// writeAtomic replaces the file at path with data, or leaves it untouched
// on error.
func writeAtomic(path string, data []byte) error {
	return atomicfile.Tx(path, 0644, func(f *atomicfile.File) error {
		_, err := f.Write(data)
		return err
	})
}

// GetPassphrase prompts at the terminal with echo disabled and enforces the
// minimum length.
func GetPassphrase(prompt string) (string, error) {
	pw, err := getpass.Prompt(prompt)
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	if err := CheckPassword(pw); err != nil {
		return "", err
	}
	return pw, nil
}

// ConfirmPassphrase prompts twice with echo disabled and reports an error
// if the two copies differ.
func ConfirmPassphrase(prompt string) (string, error) {
	pw, err := GetPassphrase(prompt)
	if err != nil {
		return "", err
	}
	confirm, err := getpass.Prompt("Confirm " + strings.ToLower(prompt))
	if err != nil {
		return "", fmt.Errorf("read confirmation: %w", err)
	}
	if confirm != pw {
		return "", errors.New("passphrases do not match")
	}
	return pw, nil
}
