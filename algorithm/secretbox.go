package algorithm

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	secretKeyProp = "secret-key" // base64, 32 bytes
	keyIDProp     = "key-id"
	defaultKeyID  = "v1"
)

// secretboxAlgorithm encrypts with XSalsa20-Poly1305 and random nonces.
// It is not deterministic: pair it with an assisted-query algorithm when the
// column is used in equality predicates.
type secretboxAlgorithm struct {
	keys        map[string]*derivedKey
	defaultID   string
	compression compression
}

// newSecretbox builds the algorithm from either an inline "secret-key" or,
// when a KeyProvider is configured, from every active provider key.
func newSecretbox(props Props, cfg *config) (any, error) {
	masterKeys, defaultID, err := secretboxKeys(props, cfg.provider)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, k := range masterKeys {
			wipe(k)
		}
	}()

	keys := make(map[string]*derivedKey, len(masterKeys))
	for id, mk := range masterKeys {
		if len(id) == 0 || len(id) > 255 {
			return nil, ErrInvalidKeyID
		}
		dk, err := deriveSecretboxKey(mk)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", id, err)
		}
		keys[id] = dk
	}
	return &secretboxAlgorithm{
		keys:      keys,
		defaultID: defaultID,
		compression: compression{
			threshold: cfg.compressionThreshold,
			disabled:  cfg.compressionDisabled,
		},
	}, nil
}

func secretboxKeys(props Props, provider KeyProvider) (map[string][]byte, string, error) {
	keyID, hasKeyID := props.Get(keyIDProp)
	if inline, ok := props.Get(secretKeyProp); ok {
		raw, err := decodeBase64(inline)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %s is not base64", ErrInvalidProperty, secretKeyProp)
		}
		if !hasKeyID {
			keyID = defaultKeyID
		}
		return map[string][]byte{keyID: raw}, keyID, nil
	}
	if provider == nil {
		return nil, "", fmt.Errorf("%w: %s", ErrMissingProperty, secretKeyProp)
	}
	keys, defaultID, err := providerKeys(provider)
	if err != nil {
		return nil, "", err
	}
	if hasKeyID {
		if _, ok := keys[keyID]; !ok {
			return nil, "", fmt.Errorf("%w: %s", ErrKeyNotFound, keyID)
		}
		defaultID = keyID
	}
	return keys, defaultID, nil
}

func (a *secretboxAlgorithm) Type() string { return TypeSecretbox }

// Randomized is true: every Encrypt draws a fresh nonce.
func (a *secretboxAlgorithm) Randomized() bool { return true }

// Encrypt returns nil for nil input (NULL preservation).
func (a *secretboxAlgorithm) Encrypt(plain any) (any, error) {
	if plain == nil {
		return nil, nil
	}
	payload, flag := a.compression.apply(bindKeyID(a.defaultID, plainBytes(plain)))
	nonce, err := newNonce()
	if err != nil {
		return nil, err
	}
	e := envelope{
		flag:  flag,
		keyID: a.defaultID,
		nonce: nonce,
		box:   secretbox.Seal(nil, payload, &nonce, (*[32]byte)(a.keys[a.defaultID])),
	}
	return encodeBase64(e.marshal()), nil
}

// Decrypt selects the key from the embedded key id, so values written
// before a default-key change remain readable.
func (a *secretboxAlgorithm) Decrypt(cipherValue any) (any, error) {
	if cipherValue == nil {
		return nil, nil
	}
	s, err := cipherText(cipherValue)
	if err != nil {
		return nil, err
	}
	raw, err := decodeBase64(s)
	if err != nil {
		return nil, err
	}
	e, err := parseEnvelope(raw)
	if err != nil {
		return nil, err
	}
	key, ok := a.keys[e.keyID]
	if !ok {
		return nil, ErrKeyNotFound
	}
	opened, ok := secretbox.Open(nil, e.box, &e.nonce, (*[32]byte)(key))
	if !ok {
		return nil, ErrDecryptionFailed
	}
	inner, err := restore(opened, e.flag)
	if err != nil {
		return nil, err
	}
	innerID, plain, err := unbindKeyID(inner)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(innerID), []byte(e.keyID)) != 1 {
		return nil, ErrKeyIDMismatch
	}
	return string(plain), nil
}

// KeyIDs returns the key ids the algorithm can decrypt with, sorted.
func (a *secretboxAlgorithm) KeyIDs() []string {
	return sortedMapKeys(a.keys)
}

func newNonce() ([nonceSize]byte, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nonce, fmt.Errorf("nonce: %w", err)
	}
	return nonce, nil
}
