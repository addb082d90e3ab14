package algorithm

// rotator is implemented by algorithms whose cipher values embed a key id.
type rotator interface {
	KeyIDOf(cipherValue any) (string, error)
	NeedsRotation(cipherValue any) bool
	Rotate(cipherValue any) (any, error)
}

// KeyIDOf extracts the key id from a cipher value without decrypting it.
// It returns "" and no error for nil.
func (a *secretboxAlgorithm) KeyIDOf(cipherValue any) (string, error) {
	if cipherValue == nil {
		return "", nil
	}
	s, err := cipherText(cipherValue)
	if err != nil {
		return "", err
	}
	raw, err := decodeBase64(s)
	if err != nil {
		return "", err
	}
	e, err := parseEnvelope(raw)
	if err != nil {
		return "", err
	}
	return e.keyID, nil
}

// NeedsRotation reports whether the value was written with a key other than
// the current default. Malformed and nil values report false.
func (a *secretboxAlgorithm) NeedsRotation(cipherValue any) bool {
	id, err := a.KeyIDOf(cipherValue)
	if err != nil || id == "" {
		return false
	}
	return id != a.defaultID
}

// Rotate re-encrypts the value with the default key. Values already under
// the default key are returned unchanged.
func (a *secretboxAlgorithm) Rotate(cipherValue any) (any, error) {
	if cipherValue == nil {
		return nil, nil
	}
	if !a.NeedsRotation(cipherValue) {
		if _, err := a.KeyIDOf(cipherValue); err != nil {
			return nil, err
		}
		return cipherValue, nil
	}
	plain, err := a.Decrypt(cipherValue)
	if err != nil {
		return nil, err
	}
	return a.Encrypt(plain)
}
