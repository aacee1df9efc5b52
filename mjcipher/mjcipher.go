// Package mjcipher implements the mojic obfuscation cipher, a symmetric
// streaming codec that renders C source text as a password-seeded stream of
// Unicode pictographs and restores it exactly.
//
// # Stream Format
//
// An encoded stream is UTF-8 text in this layout:
//
//	HEADER '\n' BODY '\n' FOOTER
//
// The header is 72 glyphs from a fixed 16-glyph alphabet of moon phases and
// clock faces, encoding hex(salt) followed by hex(authCheck), where the auth
// check is the first 4 bytes of the HMAC key. The body is a sequence of
// keyword glyphs and 4-glyph base-1024 blocks, wrapped with incidental
// newlines that carry no meaning. The footer is 64 header-alphabet glyphs
// encoding the hex HMAC-SHA256 of the body.
//
// Keys are derived from the password and salt with scrypt. A single AES-CTR
// keystream, consumed in lockstep by encoder and decoder, shuffles the glyph
// alphabet, picks a fresh ring offset for every keyword occurrence, and
// whitens each 5-byte data block before it is spelled as base-1024 digits.
//
// An Engine holds the session state for exactly one encode or decode pass.
// The keystream and the HMAC are monotonic, so an Engine must not be reused;
// create a fresh one (with a fresh salt on encode) for each file.
package mjcipher

import (
	"crypto/hmac"
	crand "crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"hash"

	"github.com/creachadair/mds/mbits"
	"golang.org/x/crypto/scrypt"
)

// SaltLen is the length in bytes of a salt generated by Init.
const SaltLen = 32

// AuthCheckLen is the length in bytes of the password check stored in the
// stream header.
const AuthCheckLen = 4

// scrypt cost parameters. Changing any of these breaks compatibility with
// existing encoded files.
const (
	kdfCostN = 16384
	kdfCostR = 8
	kdfCostP = 1
	kdfLen   = 80 // 32 cipher key + 16 IV + 32 HMAC key
)

// An Engine is the session state for one encode or decode pass. The zero
// value is not usable; construct an Engine with New and prepare it with Init
// before streaming.
type Engine struct {
	password []byte

	salt      []byte
	authCheck [AuthCheckLen]byte
	rng       *keystream
	mac       hash.Hash
	bind      *binding

	ready bool // Init has succeeded
	done  bool // a stream pass has completed
}

// New constructs an engine for the given password. Construction never fails;
// key derivation is deferred to Init.
func New(password string) *Engine {
	return &Engine{password: []byte(password)}
}

// Init derives the session keys and binds the glyph alphabets.
//
// On encode, pass nil for both arguments; Init generates a fresh random
// salt. On decode, pass the salt and auth check recovered from the stream
// header by DecodeHeader. When authCheck is non-nil it is compared to the
// derived key material before any stream work, and Init reports
// ErrWrongPassword on mismatch.
//
// Init may be called at most once per engine.
func (e *Engine) Init(salt, authCheck []byte) error {
	if e.ready || e.done {
		return errors.New("engine already initialized")
	}
	if salt == nil {
		salt = make([]byte, SaltLen)
		if _, err := crand.Read(salt); err != nil {
			return fmt.Errorf("generate salt: %w", err)
		}
	}

	key, err := scrypt.Key(e.password, salt, kdfCostN, kdfCostR, kdfCostP, kdfLen)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrKDFFailure, err)
	}
	defer mbits.Zero(key)
	rngKey, rngIV, authKey := key[0:32], key[32:48], key[48:80]

	if authCheck != nil && !hmac.Equal(authCheck, authKey[:AuthCheckLen]) {
		return ErrWrongPassword
	}

	rng, err := newKeystream(rngKey, rngIV)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrKDFFailure, err)
	}

	raw, err := rawAlphabet()
	if err != nil {
		return err
	}

	e.salt = salt
	copy(e.authCheck[:], authKey)
	e.rng = rng
	e.mac = hmac.New(sha256.New, authKey)
	e.bind = bindAlphabets(raw, rng)
	e.ready = true
	return nil
}

// Salt returns the session salt. It is nil until Init has succeeded.
func (e *Engine) Salt() []byte { return e.salt }

// AuthCheck returns the 4-byte password check derived by Init.
func (e *Engine) AuthCheck() []byte {
	if !e.ready {
		return nil
	}
	return e.authCheck[:]
}

// start marks the engine's single stream pass as begun, or reports an error
// if the engine is not ready or has already been used.
func (e *Engine) start() error {
	if !e.ready {
		return errors.New("engine not initialized")
	}
	if e.done {
		return errors.New("engine already used")
	}
	e.done = true
	return nil
}
