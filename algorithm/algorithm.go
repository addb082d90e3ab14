// Package algorithm provides the column encryption algorithms used by the
// rewriting engine and the immutable registry that holds them.
//
// Two kinds of algorithm exist. An Algorithm is reversible and produces the
// value stored in a cipher column. An AssistedQueryAlgorithm is a one-way,
// deterministic transform producing the value stored in an assisted-query
// column, so equality predicates can be evaluated without decryption.
//
// Built-in types:
//
//   - AES: AES-128/ECB/PKCS#7, key = SHA-1(aes-key-value)[:16], base64 output
//   - MYSQL-AES: AES-128/ECB/PKCS#7, key = aes-key-value zero padded to 16 bytes
//   - SECRETBOX: XSalsa20-Poly1305 with HKDF-derived keys and optional zstd
//   - HMAC-SHA256: keyed blind index (assisted query)
//   - BLAKE3: keyed BLAKE3 digest (assisted query)
//
// All key derivation happens when an algorithm is created; Encrypt, Decrypt
// and Digest never touch the network or the key provider.
package algorithm

import (
	"fmt"
	"strings"
)

// Algorithm is a reversible scalar transform.
// Implementations must be safe for concurrent use.
type Algorithm interface {
	Type() string
	Encrypt(plain any) (any, error)
	Decrypt(cipher any) (any, error)
}

// AssistedQueryAlgorithm is a one-way deterministic transform.
// The same input always yields the same output for a given key.
type AssistedQueryAlgorithm interface {
	Type() string
	Digest(plain any) (any, error)
}

// Randomized is implemented by algorithms whose output for one input
// differs between calls. Such values cannot be compared in SQL.
type Randomized interface {
	Randomized() bool
}

// IsDeterministic reports whether a yields the same output for the same
// input on every call.
func IsDeterministic(a any) bool {
	r, ok := a.(Randomized)
	return !ok || !r.Randomized()
}

// Algorithm type names accepted by New and in configuration.
const (
	TypeAES        = "AES"
	TypeMySQLAES   = "MYSQL-AES"
	TypeSecretbox  = "SECRETBOX"
	TypeHMACSHA256 = "HMAC-SHA256"
	TypeBLAKE3     = "BLAKE3"
)

// Props holds the string properties configured for one encryptor.
type Props map[string]string

// Get returns a trimmed property value.
func (p Props) Get(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (p Props) require(key string) (string, error) {
	v, ok := p.Get(key)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingProperty, key)
	}
	return v, nil
}

type factory func(props Props, cfg *config) (any, error)

var factories = map[string]factory{
	TypeAES:        newAES,
	TypeMySQLAES:   newMySQLAES,
	TypeSecretbox:  newSecretbox,
	TypeHMACSHA256: newHMACIndex,
	TypeBLAKE3:     newBLAKE3Index,
}

// Types returns the supported algorithm type names, sorted.
func Types() []string {
	return sortedMapKeys(factories)
}

func create(typ string, props Props, cfg *config) (any, error) {
	f, ok := factories[strings.ToUpper(strings.TrimSpace(typ))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	return f(props, cfg)
}

// New creates a reversible algorithm of the given type.
func New(typ string, props Props, opts ...Option) (Algorithm, error) {
	a, err := create(typ, props, newConfig(opts))
	if err != nil {
		return nil, err
	}
	alg, ok := a.(Algorithm)
	if !ok {
		return nil, fmt.Errorf("%w: %s is an assisted-query algorithm", ErrKindMismatch, typ)
	}
	return alg, nil
}

// NewAssisted creates an assisted-query algorithm of the given type.
func NewAssisted(typ string, props Props, opts ...Option) (AssistedQueryAlgorithm, error) {
	a, err := create(typ, props, newConfig(opts))
	if err != nil {
		return nil, err
	}
	alg, ok := a.(AssistedQueryAlgorithm)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an assisted-query algorithm", ErrKindMismatch, typ)
	}
	return alg, nil
}
