// Package camellia implements the Camellia block cipher as specified in
// RFC 3713, restricted to 256-bit keys (the only key size the archive
// format's key catalog uses).
//
// The API shape mirrors crypto/aes: NewCipher returns a cipher.Block whose
// Encrypt/Decrypt methods transform exactly BlockSize bytes.
package camellia

import (
	"crypto/cipher"
	"errors"
)

// BlockSize is the Camellia block size in bytes.
const BlockSize = 16

const keyBytes = 32 // 256-bit keys only.

var (
	// ErrKeySize is returned by NewCipher when the key is not 32 bytes.
	ErrKeySize = errors.New("camellia: invalid key size, must be 32 bytes")
)

type camelliaCipher struct {
	kw [4]uint64
	k  [24]uint64
	ke [6]uint64
}

// NewCipher creates and returns a new cipher.Block for a 256-bit Camellia
// key. The key must be exactly 32 bytes.
func NewCipher(key []byte) (cipher.Block, error) {
	if len(key) != keyBytes {
		return nil, ErrKeySize
	}
	c := &camelliaCipher{}
	c.expandKey256(key)
	return c, nil
}

func (c *camelliaCipher) BlockSize() int { return BlockSize }

func (c *camelliaCipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("camellia: input not full block")
	}
	if len(dst) < BlockSize {
		panic("camellia: output not full block")
	}
	encryptBlock(c, dst, src)
}

func (c *camelliaCipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("camellia: input not full block")
	}
	if len(dst) < BlockSize {
		panic("camellia: output not full block")
	}
	decryptBlock(c, dst, src)
}
