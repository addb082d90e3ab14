package algorithm

import (
	"fmt"
	"strings"
)

// Normalizer transforms input into a canonical form before an assisted-query
// digest is computed, enabling case-insensitive or format-agnostic lookups.
//
// The same normalizer must be configured for writes and for reads.
type Normalizer func(string) string

// NormalizeEmail lowercases and trims: " Alice@Example.COM " -> "alice@example.com".
var NormalizeEmail Normalizer = func(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeUsername lowercases and trims.
var NormalizeUsername Normalizer = func(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizePhone keeps ASCII digits only: "+1-555-123-4567" -> "15551234567".
var NormalizePhone Normalizer = func(s string) string {
	var digits strings.Builder
	digits.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}

// NormalizeNone returns the input unchanged.
var NormalizeNone Normalizer = func(s string) string {
	return s
}

// NormalizeTrim trims leading and trailing whitespace, preserving case.
var NormalizeTrim Normalizer = func(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeLower lowercases without trimming.
var NormalizeLower Normalizer = func(s string) string {
	return strings.ToLower(s)
}

var normalizers = map[string]Normalizer{
	"none":     NormalizeNone,
	"email":    NormalizeEmail,
	"username": NormalizeUsername,
	"phone":    NormalizePhone,
	"trim":     NormalizeTrim,
	"lower":    NormalizeLower,
}

// normalizerByName resolves the "normalizer" property value.
func normalizerByName(name string) (Normalizer, error) {
	n, ok := normalizers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNormalizer, name)
	}
	return n, nil
}
