package maliepak

import (
	"crypto/cipher"

	"github.com/malie-archive/maliepak/internal/camellia"
)

// KeySize is the length, in bytes, of every catalog key (Camellia-256).
const KeySize = 32

// Key is one named entry in the key catalog: a human-readable label and
// the 32-byte Camellia key it selects.
type Key struct {
	Label string
	Bytes [KeySize]byte
}

// Catalog is a fixed-order list of known archive keys. Trial order during
// Open is the catalog's slice order; adding a new key must append, never
// reorder or remove, since label strings are the stable identifier
// recorded in sidecar metadata for future repacks.
type Catalog []Key

// NewCatalog builds a Catalog from label/key pairs, in the given order.
func NewCatalog(keys ...Key) Catalog {
	c := make(Catalog, len(keys))
	copy(c, keys)
	return c
}

// Lookup returns the key with the given label, and whether it was found.
// Used by repack tooling to recover the originating key from a sidecar's
// recorded key_name without re-running trial decryption.
func (c Catalog) Lookup(label string) (Key, bool) {
	for _, k := range c {
		if k.Label == label {
			return k, true
		}
	}
	return Key{}, false
}

// cipher constructs the Camellia block cipher for this key. Key.Bytes is
// always KeySize long so NewCipher cannot fail here.
func (k Key) cipher() cipher.Block {
	b, err := camellia.NewCipher(k.Bytes[:])
	if err != nil {
		// Unreachable: Bytes is always exactly KeySize.
		panic(err)
	}
	return b
}
