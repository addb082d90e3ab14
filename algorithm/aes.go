package algorithm

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha1"
)

const aesKeyProp = "aes-key-value"

// aesAlgorithm is AES-128 in ECB mode with PKCS#7 padding and base64 output.
// ECB is deterministic, which is what allows equality predicates to be
// rewritten against the cipher column when no assisted column exists.
type aesAlgorithm struct {
	typ   string
	block cipher.Block
}

func newAES(props Props, _ *config) (any, error) {
	key, err := props.require(aesKeyProp)
	if err != nil {
		return nil, err
	}
	sum := sha1.Sum([]byte(key))
	block, err := aes.NewCipher(sum[:aes.BlockSize])
	if err != nil {
		return nil, err
	}
	return &aesAlgorithm{typ: TypeAES, block: block}, nil
}

// newMySQLAES matches MySQL AES_ENCRYPT for keys of at most 16 bytes.
func newMySQLAES(props Props, _ *config) (any, error) {
	key, err := props.require(aesKeyProp)
	if err != nil {
		return nil, err
	}
	k := make([]byte, aes.BlockSize)
	copy(k, key)
	block, err := aes.NewCipher(k)
	if err != nil {
		return nil, err
	}
	return &aesAlgorithm{typ: TypeMySQLAES, block: block}, nil
}

func (a *aesAlgorithm) Type() string { return a.typ }

// Encrypt returns nil for nil input (NULL preservation).
func (a *aesAlgorithm) Encrypt(plain any) (any, error) {
	if plain == nil {
		return nil, nil
	}
	padded := pkcs7Pad(plainBytes(plain), aes.BlockSize)
	out := make([]byte, len(padded))
	for i := 0; i < len(padded); i += aes.BlockSize {
		a.block.Encrypt(out[i:i+aes.BlockSize], padded[i:i+aes.BlockSize])
	}
	return encodeBase64(out), nil
}

func (a *aesAlgorithm) Decrypt(cipherValue any) (any, error) {
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
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return nil, ErrInvalidFormat
	}
	out := make([]byte, len(raw))
	for i := 0; i < len(raw); i += aes.BlockSize {
		a.block.Decrypt(out[i:i+aes.BlockSize], raw[i:i+aes.BlockSize])
	}
	plain, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		return nil, err
	}
	return string(plain), nil
}

func pkcs7Pad(data []byte, size int) []byte {
	n := size - len(data)%size
	return append(append(make([]byte, 0, len(data)+n), data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrDecryptionFailed
	}
	n := int(data[len(data)-1])
	if n == 0 || n > size || n > len(data) {
		return nil, ErrDecryptionFailed
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrDecryptionFailed
		}
	}
	return data[:len(data)-n], nil
}
