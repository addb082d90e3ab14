package rule

import (
	"fmt"
	"strings"

	"github.com/ai8future/encryptsql/algorithm"
)

// isValidColumnName reports whether s is safe to splice into SQL as an
// unquoted identifier: a letter or underscore followed by letters, digits
// or underscores.
func isValidColumnName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_') {
				return false
			}
		} else {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || r == '_') {
				return false
			}
		}
	}
	return true
}

// validateTable checks one table configuration against the registry.
func validateTable(table string, tc TableConfig, registry *algorithm.Registry) error {
	physical := make(map[string]string)
	claim := func(logical, name string) error {
		if !isValidColumnName(name) {
			return fmt.Errorf("%w: %q for column %s", ErrInvalidColumnName, name, logical)
		}
		key := strings.ToLower(name)
		if owner, ok := physical[key]; ok {
			return fmt.Errorf("%w: %s used by %s and %s", ErrDuplicateColumn, name, owner, logical)
		}
		physical[key] = logical
		return nil
	}

	for _, logical := range sortedKeys(tc.Columns) {
		cc := tc.Columns[logical]
		if strings.TrimSpace(cc.CipherColumn) == "" {
			return fmt.Errorf("%w: column %s", ErrMissingCipherColumn, logical)
		}
		for _, name := range []string{cc.CipherColumn, cc.AssistedQueryColumn, cc.PlainColumn} {
			if name == "" {
				continue
			}
			if err := claim(logical, name); err != nil {
				return err
			}
		}
		if _, ok := registry.Find(cc.EncryptorName); !ok {
			if registry.Has(cc.EncryptorName) {
				return fmt.Errorf("%w: %s cannot decrypt (column %s)", algorithm.ErrKindMismatch, cc.EncryptorName, logical)
			}
			return fmt.Errorf("%w: %q (column %s)", ErrUnknownEncryptor, cc.EncryptorName, logical)
		}
		if cc.AssistedQueryEncryptorName != "" {
			if cc.AssistedQueryColumn == "" {
				return fmt.Errorf("%w: column %s", ErrMissingAssistedColumn, logical)
			}
			if !registry.Has(cc.AssistedQueryEncryptorName) {
				return fmt.Errorf("%w: %q (column %s)", ErrUnknownEncryptor, cc.AssistedQueryEncryptorName, logical)
			}
		}
		if cc.AssistedQueryColumn != "" {
			name := cc.AssistedQueryEncryptorName
			if name == "" {
				name = cc.EncryptorName
			}
			if !registry.IsDeterministic(name) {
				return fmt.Errorf("%w: %s (column %s)", ErrRandomizedAssisted, name, logical)
			}
		}
	}

	// Logical names must not collide with another column's physical names.
	for _, logical := range sortedKeys(tc.Columns) {
		if owner, ok := physical[strings.ToLower(logical)]; ok && !strings.EqualFold(owner, logical) {
			return fmt.Errorf("%w: logical column %s is a physical column of %s", ErrDuplicateColumn, logical, owner)
		}
	}
	return nil
}
