package mjcipher

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
)

// A keystream is a deterministic byte source backed by AES-256-CTR. Both
// ends of the cipher consume the same stream in the same order: first the
// alphabet shuffle, then one 64-bit read per keyword occurrence and one
// 5-byte mask per data block, interleaved in input order. The stream is
// never rewound.
type keystream struct {
	ctr cipher.Stream
	u64 [8]byte
}

func newKeystream(key, iv []byte) (*keystream, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &keystream{ctr: cipher.NewCTR(block, iv)}, nil
}

// NextBytes fills buf with the next len(buf) keystream bytes.
func (k *keystream) NextBytes(buf []byte) {
	clear(buf)
	k.ctr.XORKeyStream(buf, buf)
}

// NextUint64 returns the next 8 keystream bytes as a big-endian integer.
func (k *keystream) NextUint64() uint64 {
	k.NextBytes(k.u64[:])
	return binary.BigEndian.Uint64(k.u64[:])
}

// NextFloat returns a value in [0, 1) with 53 bits of precision.
func (k *keystream) NextFloat() float64 {
	return float64(k.NextUint64()>>11) / (1 << 53)
}
