package algorithm

import "fmt"

// KeyProvider supplies SECRETBOX master keys from an external key store.
// Keys are fetched once, when an algorithm is created.
type KeyProvider interface {
	// GetKey retrieves a 32-byte master key by its ID.
	GetKey(keyID string) ([]byte, error)

	// DefaultKeyID returns the key ID used for new encryptions.
	DefaultKeyID() string

	// ActiveKeyIDs returns every key ID that may still appear in stored
	// cipher values. During rotation this includes old and new keys.
	ActiveKeyIDs() []string
}

// providerKeys fetches every active key. The caller owns the returned slices.
func providerKeys(provider KeyProvider) (map[string][]byte, string, error) {
	activeIDs := provider.ActiveKeyIDs()
	if len(activeIDs) == 0 {
		return nil, "", fmt.Errorf("%w: provider has no active keys", ErrKeyNotFound)
	}
	keys := make(map[string][]byte, len(activeIDs))
	for _, keyID := range activeIDs {
		key, err := provider.GetKey(keyID)
		if err != nil {
			return nil, "", fmt.Errorf("key %q: %w", keyID, err)
		}
		keys[keyID] = key
	}
	defaultID := provider.DefaultKeyID()
	if _, ok := keys[defaultID]; !ok {
		return nil, "", fmt.Errorf("%w: default key %q is not active", ErrKeyNotFound, defaultID)
	}
	return keys, defaultID, nil
}

// StaticKeyProvider is an in-memory KeyProvider for tests and simple deployments.
type StaticKeyProvider struct {
	keys      map[string][]byte
	defaultID string
}

// NewStaticKeyProvider creates a StaticKeyProvider. Keys are deep-copied.
func NewStaticKeyProvider(defaultKeyID string, keys map[string][]byte) *StaticKeyProvider {
	keysCopy := make(map[string][]byte, len(keys))
	for id, key := range keys {
		keysCopy[id] = append([]byte(nil), key...)
	}
	return &StaticKeyProvider{
		keys:      keysCopy,
		defaultID: defaultKeyID,
	}
}

// GetKey implements KeyProvider. It returns a copy of the key.
func (p *StaticKeyProvider) GetKey(keyID string) ([]byte, error) {
	key, ok := p.keys[keyID]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), key...), nil
}

// DefaultKeyID implements KeyProvider.
func (p *StaticKeyProvider) DefaultKeyID() string {
	return p.defaultID
}

// ActiveKeyIDs implements KeyProvider.
func (p *StaticKeyProvider) ActiveKeyIDs() []string {
	return sortedMapKeys(p.keys)
}

// Close zeroes all key material. The provider must not be used afterwards.
func (p *StaticKeyProvider) Close() {
	for _, key := range p.keys {
		wipe(key)
	}
	p.keys = nil
}
