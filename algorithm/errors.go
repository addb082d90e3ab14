package algorithm

import (
	"errors"
	"fmt"
)

var (
	// ErrDecryptionFailed indicates authentication or padding failed (wrong key or corrupted data).
	ErrDecryptionFailed = errors.New("algorithm: decryption failed")

	// ErrKeyIDMismatch indicates the inner key_id doesn't match the outer key_id (tampering detected).
	ErrKeyIDMismatch = errors.New("algorithm: key_id mismatch")

	// ErrKeyNotFound indicates the requested key_id is not known to the algorithm or provider.
	ErrKeyNotFound = errors.New("algorithm: key not found")

	// ErrInvalidKeySize indicates a master key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.New("algorithm: key must be 32 bytes")

	// ErrInvalidKeyID indicates the key ID is empty or longer than 255 bytes.
	ErrInvalidKeyID = errors.New("algorithm: key ID must be 1-255 bytes")

	// ErrDecompressionFailed indicates zstd decompression failed.
	ErrDecompressionFailed = errors.New("algorithm: decompression failed")

	// ErrInvalidFormat indicates the cipher value is malformed.
	ErrInvalidFormat = errors.New("algorithm: invalid cipher value format")

	// ErrUnsupportedCompression indicates an unknown compression flag.
	ErrUnsupportedCompression = errors.New("algorithm: unsupported compression algorithm")

	// ErrUnknownType indicates no algorithm is registered under the configured type.
	ErrUnknownType = errors.New("algorithm: unknown algorithm type")

	// ErrMissingProperty indicates required key material or another property is absent.
	ErrMissingProperty = errors.New("algorithm: missing required property")

	// ErrInvalidProperty indicates a property value could not be interpreted.
	ErrInvalidProperty = errors.New("algorithm: invalid property")

	// ErrUnknownNormalizer indicates the normalizer property names no known normalizer.
	ErrUnknownNormalizer = errors.New("algorithm: unknown normalizer")

	// ErrKindMismatch indicates an assisted-query algorithm was requested where a
	// reversible one is required, or the other way round.
	ErrKindMismatch = errors.New("algorithm: algorithm kind mismatch")

	// ErrAlgorithmRuntime matches every *RuntimeError.
	ErrAlgorithmRuntime = errors.New("algorithm: runtime failure")
)

// RuntimeError reports that a single value could not be transformed.
type RuntimeError struct {
	Algorithm string // registered encryptor name
	Op        string // "encrypt", "decrypt" or "digest"
	Err       error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("algorithm: %s %s failed: %v", e.Algorithm, e.Op, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// Is reports true for ErrAlgorithmRuntime so callers can match the class of failure.
func (e *RuntimeError) Is(target error) bool { return target == ErrAlgorithmRuntime }
