package rule

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnNotEncrypted indicates the logical column has no encrypt configuration.
	ErrColumnNotEncrypted = errors.New("rule: column is not encrypted")

	// ErrUnknownEncryptor indicates a column references an encryptor name that is not registered.
	ErrUnknownEncryptor = errors.New("rule: unknown encryptor")

	// ErrMissingCipherColumn indicates an encrypted column without a cipher column.
	ErrMissingCipherColumn = errors.New("rule: cipher column is required")

	// ErrInvalidColumnName indicates a physical column name that is not a plain identifier.
	ErrInvalidColumnName = errors.New("rule: invalid physical column name")

	// ErrDuplicateColumn indicates two physical columns of one table share a name.
	ErrDuplicateColumn = errors.New("rule: duplicate physical column")

	// ErrRandomizedAssisted indicates an assisted-query column filled by an
	// algorithm whose output cannot be compared, such as SECRETBOX.
	ErrRandomizedAssisted = errors.New("rule: assisted-query encryptor must be deterministic")

	// ErrMissingAssistedColumn indicates an assisted-query encryptor without an assisted-query column.
	ErrMissingAssistedColumn = errors.New("rule: assisted-query encryptor requires an assisted-query column")
)

// ConfigurationError reports an invalid rule configuration. Section is
// "encryptors" or "tables"; Name locates the offending entry.
type ConfigurationError struct {
	Section string
	Name    string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("rule: invalid %s configuration: %v", e.Section, e.Err)
	}
	return fmt.Sprintf("rule: invalid %s configuration %q: %v", e.Section, e.Name, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }
