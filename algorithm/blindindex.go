package algorithm

import (
	"crypto/hmac"
	"crypto/sha256"
)

const (
	hmacKeyProp    = "hmac-key"
	normalizerProp = "normalizer"
)

// hmacIndex is a deterministic HMAC-SHA256 blind index.
// The same plaintext and key always yield the same hex digest, so the
// assisted column can be compared with = and IN.
type hmacIndex struct {
	key       *derivedKey
	normalize Normalizer
}

func newHMACIndex(props Props, _ *config) (any, error) {
	key, norm, err := indexKey(props, infoHMACIndex)
	if err != nil {
		return nil, err
	}
	return &hmacIndex{key: key, normalize: norm}, nil
}

// indexKey derives the digest key and resolves the optional normalizer shared
// by the assisted-query algorithms.
func indexKey(props Props, info string) (*derivedKey, Normalizer, error) {
	secret, err := props.require(hmacKeyProp)
	if err != nil {
		return nil, nil, err
	}
	norm := NormalizeNone
	if name, ok := props.Get(normalizerProp); ok {
		if norm, err = normalizerByName(name); err != nil {
			return nil, nil, err
		}
	}
	key, err := deriveKey([]byte(secret), info)
	if err != nil {
		return nil, nil, err
	}
	return key, norm, nil
}

func (h *hmacIndex) Type() string { return TypeHMACSHA256 }

// Digest returns nil for nil input (NULL preservation).
func (h *hmacIndex) Digest(plain any) (any, error) {
	if plain == nil {
		return nil, nil
	}
	data := []byte(h.normalize(string(plainBytes(plain))))
	return encodeHex(computeHMAC(h.key, data)), nil
}

func computeHMAC(key *derivedKey, data []byte) []byte {
	m := hmac.New(sha256.New, key[:])
	m.Write(data)
	return m.Sum(nil)
}
