package algorithm

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Info strings for HKDF derivation; distinct strings keep the keys of each
// algorithm cryptographically separate even when the same secret is reused.
const (
	infoSecretbox   = "encryptsql-secretbox"
	infoHMACIndex   = "encryptsql-hmac-index"
	infoBLAKE3Index = "encryptsql-blake3-index"
)

// derivedKey is a 256-bit key produced by HKDF-SHA256.
type derivedKey [32]byte

// deriveSecretboxKey derives the XSalsa20-Poly1305 key from a 32-byte master key.
func deriveSecretboxKey(masterKey []byte) (*derivedKey, error) {
	if len(masterKey) != 32 {
		return nil, ErrInvalidKeySize
	}
	return deriveKey(masterKey, infoSecretbox)
}

// deriveKey stretches secret material of any length into a 32-byte key.
// No salt is used (nil salt means HKDF uses a zero-filled salt of HashLen bytes).
func deriveKey(material []byte, info string) (*derivedKey, error) {
	var key derivedKey
	reader := hkdf.New(sha256.New, material, nil, []byte(info))
	if _, err := io.ReadFull(reader, key[:]); err != nil {
		return nil, err
	}
	return &key, nil
}

// wipe zeroes key material.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
