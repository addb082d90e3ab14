package algorithm

import (
	"github.com/zeebo/blake3"
)

// blake3Index is a keyed BLAKE3 digest. It shares the key property and
// normalizer handling of the HMAC index but uses a separate derived key.
type blake3Index struct {
	key       *derivedKey
	normalize Normalizer
}

func newBLAKE3Index(props Props, _ *config) (any, error) {
	key, norm, err := indexKey(props, infoBLAKE3Index)
	if err != nil {
		return nil, err
	}
	// NewKeyed only fails for keys that are not 32 bytes.
	if _, err := blake3.NewKeyed(key[:]); err != nil {
		return nil, err
	}
	return &blake3Index{key: key, normalize: norm}, nil
}

func (b *blake3Index) Type() string { return TypeBLAKE3 }

// Digest returns nil for nil input (NULL preservation).
func (b *blake3Index) Digest(plain any) (any, error) {
	if plain == nil {
		return nil, nil
	}
	h, err := blake3.NewKeyed(b.key[:])
	if err != nil {
		return nil, err
	}
	_, _ = h.Write([]byte(b.normalize(string(plainBytes(plain)))))
	return encodeHex(h.Sum(nil)), nil
}
